package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskboard/internal/model"
)

// CreateUser inserts a new user. Generates an ID if empty.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *model.User) error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return model.NewValidationError("username", "must not be empty")
	}
	if u.ID == "" {
		u.ID = newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now()
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name, last_name, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.FirstName, u.LastName, u.Email, u.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating user %s: %w", u.Username, err)
	}
	return nil
}

// GetUserByID retrieves a single user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := s.get(ctx, &u, "SELECT * FROM users WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &u, nil
}

// GetUserByUsername retrieves a single user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.get(ctx, &u, "SELECT * FROM users WHERE username = ?", username); err != nil {
		return nil, fmt.Errorf("getting user %q: %w", username, err)
	}
	return &u, nil
}

// GetUsers returns every user ordered by last name, first name, username.
func (s *SQLiteStore) GetUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := sqlx.SelectContext(ctx, s.q, &users,
		"SELECT * FROM users ORDER BY last_name, first_name, username")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	return users, nil
}

// usersByID loads the users with the given IDs keyed by ID. Unknown IDs
// are absent from the result.
func (s *SQLiteStore) usersByID(ctx context.Context, ids []string) (map[string]model.User, error) {
	out := make(map[string]model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In("SELECT * FROM users WHERE id IN (?)", dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("building users query: %w", err)
	}

	var users []model.User
	if err := sqlx.SelectContext(ctx, s.q, &users, s.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying users by id: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// dedupe returns ids without repeats, preserving first occurrence.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
