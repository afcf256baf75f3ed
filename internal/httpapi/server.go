// Package httpapi exposes the task and project services as a JSON HTTP
// API. Identity comes from a header set by an authenticating proxy in
// front of the server; this package never authenticates.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/projects"
	"github.com/nhle/taskboard/internal/tasks"
)

// Users resolves the username supplied by the proxy.
type Users interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// Config wires a Server.
type Config struct {
	Tasks    *tasks.Service
	Projects *projects.Service
	Users    Users
	Logger   *slog.Logger

	// UserHeader carries the authenticated username. Defaults to
	// X-Remote-User.
	UserHeader string

	// MaxUploadBytes bounds a multipart upload request. Defaults to 32 MiB.
	MaxUploadBytes int64

	// Location resolves date-only filter values. Defaults to UTC.
	Location *time.Location
}

// Server handles API requests.
type Server struct {
	tasks      *tasks.Service
	projects   *projects.Service
	users      Users
	logger     *slog.Logger
	userHeader string
	maxUpload  int64
	loc        *time.Location
}

// New returns a Server for cfg.
func New(cfg Config) *Server {
	s := &Server{
		tasks:      cfg.Tasks,
		projects:   cfg.Projects,
		users:      cfg.Users,
		logger:     cfg.Logger,
		userHeader: cfg.UserHeader,
		maxUpload:  cfg.MaxUploadBytes,
		loc:        cfg.Location,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.userHeader == "" {
		s.userHeader = "X-Remote-User"
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 32 << 20
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	return s
}

// Handler returns the routed handler with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	api := http.NewServeMux()
	api.HandleFunc("GET /api/users", s.handleUsers)
	api.HandleFunc("GET /api/dashboard", s.handleDashboard)

	// Tasks
	api.HandleFunc("GET /api/tasks", s.handleListTasks)
	api.HandleFunc("POST /api/tasks", s.handleCreateTask)
	api.HandleFunc("GET /api/tasks/{id}", s.handleTaskDetail)
	api.HandleFunc("PUT /api/tasks/{id}", s.handleEditTask)
	api.HandleFunc("POST /api/tasks/{id}/delegate", s.handleDelegateTask)
	api.HandleFunc("POST /api/tasks/{id}/complete", s.handleCompleteTask)
	api.HandleFunc("POST /api/tasks/{id}/messages", s.handleTaskMessage)
	api.HandleFunc("POST /api/tasks/{id}/files", s.handleTaskUpload)
	api.HandleFunc("GET /api/tasks/{id}/files/{fileID}", s.handleTaskDownload)

	// Projects
	api.HandleFunc("GET /api/projects", s.handleListProjects)
	api.HandleFunc("POST /api/projects", s.handleCreateProject)
	api.HandleFunc("GET /api/projects/{id}", s.handleProjectDetail)
	api.HandleFunc("PUT /api/projects/{id}", s.handleEditProject)
	api.HandleFunc("POST /api/projects/{id}/items", s.handleAddItem)
	api.HandleFunc("PUT /api/projects/{id}/items/{itemID}", s.handleUpdateItem)
	api.HandleFunc("POST /api/projects/{id}/items/{itemID}/toggle", s.handleToggleItem)
	api.HandleFunc("POST /api/projects/{id}/messages", s.handleProjectMessage)
	api.HandleFunc("POST /api/projects/{id}/files", s.handleProjectUpload)
	api.HandleFunc("GET /api/projects/{id}/files/{fileID}", s.handleProjectDownload)

	mux.Handle("/api/", s.identify(api))

	return s.logRequests(mux)
}
