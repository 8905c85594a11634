package handler

import (
	"errors"
	"io"
	"net/http"

	"autocare-x402-gateway/internal/adapter/http/dto"
	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"
	"autocare-x402-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// GateHandler serves the payment-gated booking endpoints.
type GateHandler struct {
	gate ports.GateService
	log  zerolog.Logger
}

// NewGateHandler creates a new GateHandler.
func NewGateHandler(gate ports.GateService, log zerolog.Logger) *GateHandler {
	return &GateHandler{gate: gate, log: log}
}

// StartService handles POST /api/v1/service/start.
func (h *GateHandler) StartService(c *gin.Context) {
	var req dto.StartServiceRequest
	if err := bindBooking(c, &req); err != nil {
		response.GateFailure(c, err)
		return
	}
	dto.SanitizeStruct(&req)

	h.start(c, ports.StartRequest{
		Kind:        domain.KindService,
		Subtype:     req.ServiceType,
		VehicleID:   req.VehicleID,
		BranchID:    req.BranchID,
		OperatorID:  req.OperatorID,
		CustomerID:  req.CustomerID,
		Description: req.Description,
		Mileage:     req.Mileage,
	})
}

// StartWash handles POST /api/v1/wash/start.
func (h *GateHandler) StartWash(c *gin.Context) {
	var req dto.StartWashRequest
	if err := bindBooking(c, &req); err != nil {
		response.GateFailure(c, err)
		return
	}
	dto.SanitizeStruct(&req)

	h.start(c, ports.StartRequest{
		Kind:       domain.KindWash,
		Subtype:    req.WashType,
		VehicleID:  req.VehicleID,
		BranchID:   req.BranchID,
		OperatorID: req.OperatorID,
		CustomerID: req.CustomerID,
	})
}

func (h *GateHandler) start(c *gin.Context, req ports.StartRequest) {
	req.Proof = c.GetHeader(domain.HeaderPayment)
	req.ClientIP = c.ClientIP()

	result, err := h.gate.Start(c.Request.Context(), req)

	// The receipt goes back whenever money moved, even if the ledger failed.
	if result != nil && result.Receipt != nil {
		if encoded, encErr := result.Receipt.EncodeHeader(); encErr == nil {
			c.Header(domain.HeaderPaymentResponse, encoded)
		} else {
			h.log.Error().Err(encErr).Msg("failed to encode payment response header")
		}
	}

	if err != nil {
		response.GateFailure(c, err)
		return
	}

	if result.Outcome == ports.OutcomePaymentRequired {
		response.PaymentRequired(c, result.Requirements)
		return
	}

	c.JSON(http.StatusOK, dto.NewStartResponse(result.DomainSession, result.PaymentSession, result.Receipt))
}

// bindBooking decodes the body. An empty body is an empty booking so the
// gate can report every missing field at once.
func bindBooking(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.ErrBodyTooLarge(tooLarge.Limit)
	}
	return apperror.Validation(err.Error())
}
