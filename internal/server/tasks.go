package server

import (
	"fmt"
	"net/http"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/service"
	"github.com/gin-gonic/gin"
)

type taskRequest struct {
	Code        *string `json:"code"`
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Squad       *string `json:"squad"`
}

type moveRequest struct {
	Column string `json:"column" binding:"required"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	squad, err := domain.ParseSquad(domain.StrFromPtrWithDefault("", req.Squad))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.ws.CreateTask(c.Request.Context(), c.Param("id"), service.TaskInput{
		Code:        domain.StrFromPtrWithDefault("", req.Code),
		Title:       domain.StrFromPtrWithDefault("", req.Title),
		Category:    domain.StrFromPtrWithDefault("", req.Category),
		Description: domain.StrFromPtrWithDefault("", req.Description),
		Squad:       squad,
	})
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, toTaskView(task))
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	patch := service.TaskPatch{
		Code:        req.Code,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Squad != nil {
		squad, err := domain.ParseSquad(*req.Squad)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		patch.Squad = &squad
	}

	task, err := s.ws.UpdateTask(c.Request.Context(), c.Param("id"), c.Param("taskID"), patch)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, toTaskView(task))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.ws.DeleteTask(c.Request.Context(), c.Param("id"), c.Param("taskID")); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleMoveTask answers as soon as the cache reflects the move. The store
// write finishes in the background.
func (s *Server) handleMoveTask(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	col, err := domain.ParseColumn(req.Column)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("column: %w", err))
		return
	}
	task, err := s.ws.MoveTask(c.Request.Context(), c.Param("id"), c.Param("taskID"), col)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, toTaskView(task))
}
