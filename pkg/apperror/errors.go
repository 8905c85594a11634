package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Detail returns the wrapped error text, or the message when nothing is wrapped.
func (e *AppError) Detail() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

const (
	CodeValidation         = "VAL_001"
	CodeBodyTooLarge       = "VAL_002"
	CodePaymentRequired    = "PAY_001"
	CodeProofMalformed     = "PAY_002"
	CodeSettlementMismatch = "PAY_003"
	CodeSettlementFailure  = "PAY_004"
	CodeProofReplayed      = "PAY_005"
	CodeLedgerWrite        = "LED_001"
)

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error. Raised before any payment logic runs.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrBodyTooLarge(limit int64) *AppError {
	return New(CodeBodyTooLarge, fmt.Sprintf("Request body exceeds %d bytes", limit), http.StatusRequestEntityTooLarge)
}

// ---- Payment (PAY) ----

// ErrPaymentRequired is the expected first-call outcome, not a failure.
func ErrPaymentRequired() *AppError {
	return New(CodePaymentRequired, "Payment Required", http.StatusPaymentRequired)
}

func ErrProofMalformed(err error) *AppError {
	return Wrap(CodeProofMalformed, "Payment proof is malformed", http.StatusPaymentRequired, err)
}

func ErrSettlementMismatch(err error) *AppError {
	return Wrap(CodeSettlementMismatch, "Settlement does not match payment requirements", http.StatusPaymentRequired, err)
}

func ErrSettlementFailure(err error) *AppError {
	return Wrap(CodeSettlementFailure, "Settlement failed", http.StatusPaymentRequired, err)
}

func ErrProofReplayed() *AppError {
	return New(CodeProofReplayed, "Payment proof already used", http.StatusConflict)
}

// ---- Ledger (LED) ----

func ErrLedgerWrite(err error) *AppError {
	return Wrap(CodeLedgerWrite, "Ledger update failed after settlement", http.StatusInternalServerError, err)
}

// ---- Sessions & rewards ----

func ErrNotFound(entity string) *AppError {
	return New("SES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidTransition(from, to string) *AppError {
	return New("SES_002", fmt.Sprintf("cannot move session from %s to %s", from, to), http.StatusConflict)
}

func ErrPayoutExceedsPending() *AppError {
	return New("RWD_001", "Payout exceeds pending commission", http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New("RWD_002", "Invalid amount", http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
