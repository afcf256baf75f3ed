package httpapi

import (
	"bytes"
	"mime"
	"net/http"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/export"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/tasks"
)

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	exclude := ""
	if r.URL.Query().Get("exclude_self") == "1" {
		exclude = currentUser(r).ID
	}
	users, err := s.tasks.Users(r.Context(), exclude)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tasks.Dashboard(r.Context(), currentUser(r).ID))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := board.ParseFilter(q.Get("q"), q.Get("date_from"), q.Get("date_to"), s.loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user := currentUser(r)

	// Any export parameter selects the spreadsheet, whatever its value.
	if q.Has("export") {
		rows, err := s.tasks.Export(r.Context(), user.ID, f)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, board.ExportColumns, rows); err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition",
			mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w)
		return
	}

	tab, err := board.ParseTab(q.Get("tab"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.tasks.List(r.Context(), user.ID, tasks.ListOptions{Tab: tab, Filter: f})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in tasks.Input
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.tasks.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleTaskDetail(w http.ResponseWriter, r *http.Request) {
	d, err := s.tasks.Detail(r.Context(), currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	var in tasks.Input
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.tasks.Edit(r.Context(), currentUser(r).ID, r.PathValue("id"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDelegateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResponsibleID string `json:"responsible_id"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.tasks.Delegate(r.Context(), currentUser(r).ID, r.PathValue("id"), req.ResponsibleID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Complete(r.Context(), currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTaskMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.tasks.PostMessage(r.Context(), currentUser(r).ID, r.PathValue("id"), req.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleTaskUpload(w http.ResponseWriter, r *http.Request) {
	uploads, cleanup, err := s.readUploads(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer cleanup()

	atts, err := s.tasks.Upload(r.Context(), currentUser(r).ID, r.PathValue("id"), uploads)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, atts)
}

func (s *Server) handleTaskDownload(w http.ResponseWriter, r *http.Request) {
	a, rc, err := s.tasks.OpenAttachment(r.Context(), currentUser(r).ID, r.PathValue("id"), r.PathValue("fileID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer rc.Close()
	serveAttachment(w, a, rc)
}
