package service

import (
	"context"
	"fmt"
	"time"

	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionServiceImpl implements ports.SessionService.
type SessionServiceImpl struct {
	sessions   ports.DomainSessionRepository
	transactor ports.DBTransactor
	audit      ports.AuditService
	log        zerolog.Logger
}

// NewSessionService creates a new SessionServiceImpl.
func NewSessionService(sessions ports.DomainSessionRepository, transactor ports.DBTransactor, audit ports.AuditService, log zerolog.Logger) *SessionServiceImpl {
	return &SessionServiceImpl{sessions: sessions, transactor: transactor, audit: audit, log: log}
}

// Get returns a session by id.
func (s *SessionServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.DomainSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if session == nil {
		return nil, apperror.ErrNotFound("session")
	}
	return session, nil
}

// Transition moves a session along its lifecycle under a row lock.
func (s *SessionServiceImpl) Transition(ctx context.Context, id uuid.UUID, to domain.SessionStatus, actor string) (*domain.DomainSession, error) {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	session, err := s.sessions.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if session == nil {
		return nil, apperror.ErrNotFound("session")
	}

	from := session.Status
	if !from.CanTransition(to) {
		return nil, apperror.ErrInvalidTransition(string(from), string(to))
	}

	var completedAt *time.Time
	if to == domain.SessionStatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	if err := s.sessions.UpdateStatus(ctx, tx, id, to, completedAt); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	session.Status = to
	if completedAt != nil {
		session.CompletedAt = completedAt
	}

	s.audit.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &actor,
		Action:       domain.AuditActionSessionStatus,
		ResourceType: string(session.Kind) + "_session",
		ResourceID:   id.String(),
		Details:      string(from) + "->" + string(to),
		CreatedAt:    time.Now().UTC(),
	})

	s.log.Info().
		Str("session_id", id.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor", actor).
		Msg("session status changed")

	return session, nil
}
