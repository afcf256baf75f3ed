package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// MaxTitleLength is the longest accepted task title, in characters.
const MaxTitleLength = 255

// ParticipantInput names one user and the role they take on a task.
type ParticipantInput struct {
	UserID string     `json:"user_id"`
	Role   model.Role `json:"role"`
}

// Input is the submitted form for creating or editing a task.
type Input struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`

	// ResponsibleID is honoured on create only. After creation the
	// responsible user changes through Delegate.
	ResponsibleID string `json:"responsible_id,omitempty"`

	Participants []ParticipantInput `json:"participants"`
}

// normalize trims text fields. Participants are copied so the caller's
// slice is never modified.
func (in *Input) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ResponsibleID = strings.TrimSpace(in.ResponsibleID)

	ps := make([]ParticipantInput, len(in.Participants))
	for i, p := range in.Participants {
		ps[i] = ParticipantInput{UserID: strings.TrimSpace(p.UserID), Role: p.Role}
	}
	in.Participants = ps
}

// validate checks in against st. Every problem is collected into one
// ValidationError. Rows with an empty user id are skipped, matching a
// form with unused participant slots.
func validate(ctx context.Context, st store.Store, in *Input, withResponsible bool) error {
	in.normalize()
	verr := &model.ValidationError{}

	switch n := utf8.RuneCountInString(in.Title); {
	case n == 0:
		verr.Add("title", "required")
	case n > MaxTitleLength:
		verr.Add("title", fmt.Sprintf("at most %d characters", MaxTitleLength))
	}

	if withResponsible && in.ResponsibleID != "" {
		if err := userExists(ctx, st, in.ResponsibleID); err != nil {
			if !model.IsNotFound(err) {
				return err
			}
			verr.Add("responsible_id", "unknown user")
		}
	}

	seen := make(map[string]bool, len(in.Participants))
	kept := make([]ParticipantInput, 0, len(in.Participants))
	for i, p := range in.Participants {
		if p.UserID == "" {
			continue
		}
		field := fmt.Sprintf("participants[%d]", i)
		if !p.Role.Valid() {
			verr.Add(field+".role", fmt.Sprintf("unknown role %q", p.Role))
		}
		if seen[p.UserID] {
			verr.Add(field+".user_id", "user listed more than once")
			continue
		}
		seen[p.UserID] = true
		if err := userExists(ctx, st, p.UserID); err != nil {
			if !model.IsNotFound(err) {
				return err
			}
			verr.Add(field+".user_id", "unknown user")
		}
		kept = append(kept, p)
	}
	in.Participants = kept

	return verr.OrNil()
}

func userExists(ctx context.Context, st store.Store, id string) error {
	_, err := st.GetUserByID(ctx, id)
	return err
}

func (in Input) participants() []model.Participant {
	out := make([]model.Participant, len(in.Participants))
	for i, p := range in.Participants {
		out[i] = model.Participant{UserID: p.UserID, Role: p.Role}
	}
	return out
}
