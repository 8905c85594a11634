package service

import (
	"context"
	"time"

	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RewardServiceImpl implements ports.RewardService.
type RewardServiceImpl struct {
	loyalty ports.LoyaltyRepository
	rewards ports.RewardRepository
	audit   ports.AuditService
	log     zerolog.Logger
}

// NewRewardService creates a new RewardServiceImpl.
func NewRewardService(loyalty ports.LoyaltyRepository, rewards ports.RewardRepository, audit ports.AuditService, log zerolog.Logger) *RewardServiceImpl {
	return &RewardServiceImpl{loyalty: loyalty, rewards: rewards, audit: audit, log: log}
}

func (s *RewardServiceImpl) Loyalty(ctx context.Context, customerID string) (*domain.LoyaltyWallet, error) {
	w, err := s.loyalty.Get(ctx, customerID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if w == nil {
		return nil, apperror.ErrNotFound("loyalty wallet")
	}
	return w, nil
}

func (s *RewardServiceImpl) Reward(ctx context.Context, operatorID string) (*domain.OperatorReward, error) {
	r, err := s.rewards.Get(ctx, operatorID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if r == nil {
		return nil, apperror.ErrNotFound("operator reward")
	}
	return r, nil
}

// Payout moves amount from pending to paid. The repository update is
// guarded on pending >= amount, so concurrent payouts cannot overdraw.
func (s *RewardServiceImpl) Payout(ctx context.Context, operatorID string, amount int64, actor string) (*domain.OperatorReward, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	current, err := s.Reward(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if !current.CanPayout(amount) {
		return nil, apperror.ErrPayoutExceedsPending()
	}

	updated, err := s.rewards.Payout(ctx, operatorID, amount)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if updated == nil {
		return nil, apperror.ErrPayoutExceedsPending()
	}

	s.audit.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &actor,
		Action:       domain.AuditActionPayout,
		ResourceType: "operator_reward",
		ResourceID:   operatorID,
		Details:      domain.FormatAmount(amount),
		CreatedAt:    time.Now().UTC(),
	})

	s.log.Info().
		Str("operator_id", operatorID).
		Int64("amount", amount).
		Int64("pending", updated.Pending).
		Msg("operator payout recorded")

	return updated, nil
}
