package handler

import (
	"strconv"

	"autocare-x402-gateway/internal/adapter/http/dto"
	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"
	"autocare-x402-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves operator endpoints: token issuance and the
// reconciliation queue.
type AdminHandler struct {
	authSvc    ports.AuthService
	reconciler ports.ReconcilerService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authSvc ports.AuthService, reconciler ports.ReconcilerService) *AdminHandler {
	return &AdminHandler{authSvc: authSvc, reconciler: reconciler}
}

// Token handles POST /api/v1/admin/token.
func (h *AdminHandler) Token(c *gin.Context) {
	var req dto.AdminTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	login, err := h.authSvc.Login(c.Request.Context(), req.Secret)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TokenResponse{
		Token:  login.Token,
		Expiry: login.ExpiresAt.Unix(),
	})
}

// LedgerIntents handles GET /api/v1/admin/ledger-intents?status=&limit=.
func (h *AdminHandler) LedgerIntents(c *gin.Context) {
	var status *domain.IntentStatus
	if s := c.Query("status"); s != "" {
		st := domain.IntentStatus(s)
		switch st {
		case domain.IntentStatusPending, domain.IntentStatusApplied, domain.IntentStatusFailed:
		default:
			response.Error(c, apperror.Validation("status must be pending, applied or failed"))
			return
		}
		status = &st
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			response.Error(c, apperror.Validation("limit must be an integer"))
			return
		}
		limit = n
	}

	intents, err := h.reconciler.ListIntents(c.Request.Context(), status, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LedgerIntentResponse, 0, len(intents))
	for _, i := range intents {
		items = append(items, dto.NewLedgerIntentResponse(i))
	}
	response.OK(c, items)
}

// Reconcile handles POST /api/v1/admin/reconcile: one pass over due intents.
func (h *AdminHandler) Reconcile(c *gin.Context) {
	applied, failed, err := h.reconciler.RunOnce(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	response.OK(c, dto.ReconcileResponse{Applied: applied, Failed: failed})
}
