package server

import (
	"net/http"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/gin-gonic/gin"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// handleListProjects returns every project, newest first. ?status= filters.
func (s *Server) handleListProjects(c *gin.Context) {
	var filter domain.ProjectStatus
	if raw := c.Query("status"); raw != "" {
		st, err := domain.ParseProjectStatus(raw)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		filter = st
	}

	views := []projectView{}
	for _, p := range s.ws.Projects() {
		if filter != "" && p.Status != filter {
			continue
		}
		views = append(views, toProjectView(p))
	}
	respondSuccess(c, http.StatusOK, views)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	p, err := s.ws.CreateProject(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, toProjectView(p))
}

func (s *Server) handleGetProject(c *gin.Context) {
	p, err := s.ws.Project(c.Param("id"))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, toProjectView(p))
}

// handleUpdateProject changes the name and/or description. Omitted fields
// keep their current value.
func (s *Server) handleUpdateProject(c *gin.Context) {
	id := c.Param("id")
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	current, err := s.ws.Project(id)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	name := domain.StrFromPtrWithDefault(current.Name, req.Name)
	description := domain.StrFromPtrWithDefault(current.Description, req.Description)
	if err := s.ws.UpdateProject(c.Request.Context(), id, name, description); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	s.respondProject(c, id)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.ws.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleSetStatus(c *gin.Context) {
	id := c.Param("id")
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	status, err := domain.ParseProjectStatus(req.Status)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.ws.SetProjectStatus(c.Request.Context(), id, status); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	s.respondProject(c, id)
}

func (s *Server) handleMetrics(c *gin.Context) {
	snap, err := s.ws.Metrics(c.Param("id"))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, toMetricsView(snap))
}

func (s *Server) respondProject(c *gin.Context, id string) {
	p, err := s.ws.Project(id)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, toProjectView(p))
}
