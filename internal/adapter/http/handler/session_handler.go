package handler

import (
	"autocare-x402-gateway/internal/adapter/http/dto"
	"autocare-x402-gateway/internal/adapter/http/middleware"
	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"
	"autocare-x402-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler exposes unlocked sessions.
type SessionHandler struct {
	sessions ports.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get handles GET /api/v1/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewDomainSessionResponse(session))
}

// Complete handles POST /api/v1/sessions/:id/complete.
func (h *SessionHandler) Complete(c *gin.Context) {
	h.transition(c, domain.SessionStatusCompleted)
}

// Cancel handles POST /api/v1/sessions/:id/cancel.
func (h *SessionHandler) Cancel(c *gin.Context) {
	h.transition(c, domain.SessionStatusCancelled)
}

func (h *SessionHandler) transition(c *gin.Context, to domain.SessionStatus) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessions.Transition(c.Request.Context(), id, to, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewDomainSessionResponse(session))
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid session id"))
		return uuid.Nil, false
	}
	return id, true
}
