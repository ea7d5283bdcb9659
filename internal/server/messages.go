package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type messageRequest struct {
	Content string `json:"content" binding:"required"`
}

// handleSendMessage runs one intake turn. A failed analysis is still a 200:
// the turn carries the fallback reply and failed=true.
func (s *Server) handleSendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	turn, err := s.ws.SendMessage(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, toTurnView(turn))
}
