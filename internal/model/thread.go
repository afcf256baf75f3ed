package model

import "time"

// Message is one entry of a task or project discussion thread.
// Messages are append-only.
type Message struct {
	ID        string    `json:"id" db:"id"`
	TaskID    *string   `json:"task_id,omitempty" db:"task_id"`
	ProjectID *string   `json:"project_id,omitempty" db:"project_id"`
	SenderID  *string   `json:"sender_id,omitempty" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	System    bool      `json:"is_system" db:"is_system"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Sender *User `json:"sender,omitempty" db:"-"`
}

// Attachment is a file uploaded to a task or project. The content lives
// in the file store under BlobRef.
type Attachment struct {
	ID          string    `json:"id" db:"id"`
	TaskID      *string   `json:"task_id,omitempty" db:"task_id"`
	ProjectID   *string   `json:"project_id,omitempty" db:"project_id"`
	UploadedBy  *string   `json:"uploaded_by,omitempty" db:"uploaded_by"`
	Name        string    `json:"name" db:"name"`
	BlobRef     string    `json:"-" db:"blob_ref"`
	Size        int64     `json:"size" db:"size"`
	ContentType string    `json:"content_type" db:"content_type"`
	Digest      string    `json:"digest" db:"digest"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Uploader *User `json:"uploader,omitempty" db:"-"`
}
