package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"autocare-x402-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "test-req-123")

	OK(c, map[string]string{"status": "healthy"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test-req-123", resp.RequestID)
	assert.NotEmpty(t, resp.Timestamp)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "healthy", data["status"])
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestError_AppError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "test-req-789")

	Error(c, apperror.ErrNotFound("Session"))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SES_001", resp.ErrorCode)
	assert.Equal(t, "Session not found", resp.Message)
	assert.Equal(t, "test-req-789", resp.RequestID)
}

func TestError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, fmt.Errorf("something unexpected"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_000", resp.ErrorCode)
}

func TestPaymentRequired(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	PaymentRequired(c, map[string]string{"price": "18.000000"})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Payment Required", body["error"])
	reqs, ok := body["paymentRequirements"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "18.000000", reqs["price"])
}

func TestGateFailure(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantDetails string
	}{
		{
			name:       "validation",
			err:        apperror.Validation("Missing required fields: vehicleId, branchId, operatorId, washType"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required fields: vehicleId, branchId, operatorId, washType",
		},
		{
			name:        "mismatch",
			err:         apperror.ErrSettlementMismatch(errors.New("amount mismatch")),
			wantStatus:  http.StatusPaymentRequired,
			wantError:   "Payment verification failed",
			wantDetails: "amount mismatch",
		},
		{
			name:        "malformed proof",
			err:         apperror.ErrProofMalformed(errors.New("bad base64")),
			wantStatus:  http.StatusPaymentRequired,
			wantError:   "Payment verification failed",
			wantDetails: "bad base64",
		},
		{
			name:       "replay",
			err:        fmt.Errorf("gate: %w", apperror.ErrProofReplayed()),
			wantStatus: http.StatusConflict,
			wantError:  "Payment proof already used",
		},
		{
			name:        "ledger",
			err:         apperror.ErrLedgerWrite(errors.New("deadlock")),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Internal server error",
			wantDetails: "deadlock",
		},
		{
			name:        "unknown",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Internal server error",
			wantDetails: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			GateFailure(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body GateError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantDetails, body.Details)
			assert.Nil(t, body.PaymentRequirements)
		})
	}
}

func TestOK_GeneratesRequestID_WhenMissing(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, nil)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
}
