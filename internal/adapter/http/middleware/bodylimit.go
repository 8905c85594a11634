package middleware

import (
	"net/http"
	"strings"

	"autocare-x402-gateway/pkg/apperror"
	"autocare-x402-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaxBodySize caps request bodies at maxBytes. A body that declares a larger
// Content-Length is refused with 413 before any handler runs. Chunked bodies
// are wrapped in http.MaxBytesReader and fail on read with *http.MaxBytesError,
// which the gate handlers turn into the same 413.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			RejectOversizeBody(c, maxBytes)
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RejectOversizeBody writes the 413. Gate routes answer with the x402 error
// body, everything else with the standard envelope.
func RejectOversizeBody(c *gin.Context, maxBytes int64) {
	err := apperror.ErrBodyTooLarge(maxBytes)
	if isGateRoute(c) {
		response.GateFailure(c, err)
		return
	}
	response.Error(c, err)
}

// isGateRoute matches the payment-gated POST .../start endpoints.
func isGateRoute(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/start")
}
