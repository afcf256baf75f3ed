package httpapi

import (
	"net/http"

	"github.com/nhle/taskboard/internal/projects"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.projects.List(r.Context(), currentUser(r).ID, r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in projects.Input
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.projects.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	d, err := s.projects.Detail(r.Context(), currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleEditProject(w http.ResponseWriter, r *http.Request) {
	var in projects.Input
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.projects.Edit(r.Context(), currentUser(r).ID, r.PathValue("id"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var in projects.ItemInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.projects.AddItem(r.Context(), currentUser(r).ID, r.PathValue("id"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var in projects.ItemInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.projects.UpdateItem(r.Context(), currentUser(r).ID, r.PathValue("id"), r.PathValue("itemID"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.projects.ToggleItem(r.Context(), currentUser(r).ID, r.PathValue("id"), r.PathValue("itemID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleProjectMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.projects.PostMessage(r.Context(), currentUser(r).ID, r.PathValue("id"), req.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleProjectUpload(w http.ResponseWriter, r *http.Request) {
	uploads, cleanup, err := s.readUploads(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer cleanup()

	atts, err := s.projects.Upload(r.Context(), currentUser(r).ID, r.PathValue("id"), uploads)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, atts)
}

func (s *Server) handleProjectDownload(w http.ResponseWriter, r *http.Request) {
	a, rc, err := s.projects.OpenAttachment(r.Context(), currentUser(r).ID, r.PathValue("id"), r.PathValue("fileID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer rc.Close()
	serveAttachment(w, a, rc)
}
