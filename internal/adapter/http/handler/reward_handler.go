package handler

import (
	"autocare-x402-gateway/internal/adapter/http/dto"
	"autocare-x402-gateway/internal/adapter/http/middleware"
	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"
	"autocare-x402-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// RewardHandler exposes loyalty wallets and operator rewards.
type RewardHandler struct {
	rewards ports.RewardService
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(rewards ports.RewardService) *RewardHandler {
	return &RewardHandler{rewards: rewards}
}

// Loyalty handles GET /api/v1/loyalty/:customerId.
func (h *RewardHandler) Loyalty(c *gin.Context) {
	wallet, err := h.rewards.Loyalty(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewLoyaltyResponse(wallet))
}

// Reward handles GET /api/v1/rewards/:operatorId.
func (h *RewardHandler) Reward(c *gin.Context) {
	reward, err := h.rewards.Reward(c.Request.Context(), c.Param("operatorId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRewardResponse(reward))
}

// Payout handles POST /api/v1/rewards/:operatorId/payout.
func (h *RewardHandler) Payout(c *gin.Context) {
	var req dto.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	reward, err := h.rewards.Payout(c.Request.Context(), c.Param("operatorId"), amount, middleware.Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewRewardResponse(reward))
}
