package projects

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// MaxTitleLength is the longest accepted project or item title.
const MaxTitleLength = 255

// MemberInput names one user and their project role.
type MemberInput struct {
	UserID string           `json:"user_id"`
	Role   model.MemberRole `json:"role"`
}

// ItemInput is one checklist entry as submitted. A zero Order places a
// new item after the existing ones and leaves an updated item where it
// is.
type ItemInput struct {
	Title       string     `json:"title"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Order       int        `json:"order"`
	AssigneeIDs []string   `json:"assignee_ids"`
}

// Input is the submitted form for creating or editing a project. Items
// are read on create only.
type Input struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	Members     []MemberInput `json:"members"`
	Items       []ItemInput   `json:"items"`
}

func validateTitle(verr *model.ValidationError, field, title string) {
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		verr.Add(field, "required")
	case n > MaxTitleLength:
		verr.Add(field, fmt.Sprintf("at most %d characters", MaxTitleLength))
	}
}

func (in *Input) validate(ctx context.Context, st store.Store, withItems bool) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	verr := &model.ValidationError{}
	validateTitle(verr, "title", in.Title)

	members := make([]MemberInput, 0, len(in.Members))
	seen := make(map[string]bool, len(in.Members))
	for i, m := range in.Members {
		m.UserID = strings.TrimSpace(m.UserID)
		if m.UserID == "" {
			continue
		}
		field := fmt.Sprintf("members[%d]", i)
		if !m.Role.Valid() {
			verr.Add(field+".role", fmt.Sprintf("unknown role %q", m.Role))
		}
		if seen[m.UserID] {
			verr.Add(field+".user_id", "user listed more than once")
			continue
		}
		seen[m.UserID] = true
		if err := checkUser(ctx, st, verr, field+".user_id", m.UserID); err != nil {
			return err
		}
		members = append(members, m)
	}
	in.Members = members

	if withItems {
		items := make([]ItemInput, len(in.Items))
		for i, it := range in.Items {
			if err := it.validate(ctx, st, verr, fmt.Sprintf("items[%d].", i)); err != nil {
				return err
			}
			items[i] = it
		}
		in.Items = items
	}

	return verr.OrNil()
}

// validate normalizes it and records problems under prefix.
func (it *ItemInput) validate(ctx context.Context, st store.Store, verr *model.ValidationError, prefix string) error {
	it.Title = strings.TrimSpace(it.Title)
	validateTitle(verr, prefix+"title", it.Title)
	if it.Order < 0 {
		verr.Add(prefix+"order", "must not be negative")
	}

	ids := make([]string, 0, len(it.AssigneeIDs))
	for j, id := range it.AssigneeIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if err := checkUser(ctx, st, verr, fmt.Sprintf("%sassignee_ids[%d]", prefix, j), id); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	it.AssigneeIDs = ids
	return nil
}

// checkUser records field as invalid when id names no user. Store
// failures other than not-found are returned.
func checkUser(ctx context.Context, st store.Store, verr *model.ValidationError, field, id string) error {
	_, err := st.GetUserByID(ctx, id)
	if model.IsNotFound(err) {
		verr.Add(field, "unknown user")
		return nil
	}
	return err
}

func (in Input) members() []model.ProjectMember {
	out := make([]model.ProjectMember, len(in.Members))
	for i, m := range in.Members {
		out[i] = model.ProjectMember{UserID: m.UserID, Role: m.Role}
	}
	return out
}
