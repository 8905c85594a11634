// Package facilitator talks to x402 facilitators: a remote HTTP service in
// production and an in-process simulation for development.
package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/core/ports"

	"github.com/cenkalti/backoff/v5"
)

var (
	// ErrUnavailable marks transport failures and 5xx answers. Only these are retried.
	ErrUnavailable = errors.New("facilitator unavailable")
	// ErrRejected marks a non-retryable 4xx answer.
	ErrRejected = errors.New("facilitator rejected request")
	// ErrIncompleteReceipt marks a successful settle answer that omits what
	// was settled while StrictReceipt is on.
	ErrIncompleteReceipt = errors.New("facilitator receipt incomplete")
)

// Options configures an HTTPClient.
type Options struct {
	BaseURL       string
	Authorization string
	VerifyTimeout time.Duration
	SettleTimeout time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	// StrictReceipt requires the settle answer to state amount, asset and
	// network instead of assuming the requirements were met as sent.
	StrictReceipt bool
}

// HTTPClient implements ports.Facilitator against a remote facilitator's
// /verify and /settle endpoints.
type HTTPClient struct {
	opts   Options
	client *http.Client
}

// NewHTTPClient creates a facilitator client. A nil httpClient uses a default one.
func NewHTTPClient(opts Options, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 100 * time.Millisecond
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &HTTPClient{opts: opts, client: httpClient}
}

type facilitatorRequest struct {
	X402Version         int                        `json:"x402Version"`
	PaymentHeader       string                     `json:"paymentHeader"`
	PaymentRequirements domain.PaymentRequirements `json:"paymentRequirements"`
}

type verifyResponse struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
	Payer         string `json:"payer,omitempty"`
}

type settleResponse struct {
	Success     bool   `json:"success"`
	ErrorReason string `json:"errorReason,omitempty"`
	Transaction string `json:"transaction"`
	Network     string `json:"network"`
	Asset       string `json:"asset,omitempty"`
	Amount      string `json:"amount,omitempty"` // atomic units
	Payer       string `json:"payer,omitempty"`
}

// Verify asks the facilitator whether proof satisfies requirements.
func (c *HTTPClient) Verify(ctx context.Context, proof string, requirements domain.PaymentRequirements) (*ports.VerifyResult, error) {
	var resp verifyResponse
	if err := c.post(ctx, "/verify", c.opts.VerifyTimeout, proof, requirements, &resp); err != nil {
		return nil, err
	}
	return &ports.VerifyResult{
		IsValid:       resp.IsValid,
		InvalidReason: resp.InvalidReason,
		Payer:         resp.Payer,
	}, nil
}

// Settle asks the facilitator to execute the payment. Facilitators on the
// exact scheme may omit amount and asset; unless StrictReceipt is set those
// are then taken from requirements.
func (c *HTTPClient) Settle(ctx context.Context, proof string, requirements domain.PaymentRequirements) (*ports.SettleResult, error) {
	var resp settleResponse
	if err := c.post(ctx, "/settle", c.opts.SettleTimeout, proof, requirements, &resp); err != nil {
		return nil, err
	}
	if c.opts.StrictReceipt && resp.Success {
		if missing := resp.missingFields(); len(missing) > 0 {
			return nil, fmt.Errorf("%w: missing %s", ErrIncompleteReceipt, strings.Join(missing, ", "))
		}
	}

	result := &ports.SettleResult{
		Success:     resp.Success,
		ErrorReason: resp.ErrorReason,
		Transaction: resp.Transaction,
		Network:     resp.Network,
		Asset:       resp.Asset,
		Payer:       resp.Payer,
	}
	if result.Network == "" {
		result.Network = requirements.Network
	}
	if result.Asset == "" {
		result.Asset = requirements.Asset
	}

	atomic := resp.Amount
	if atomic == "" {
		atomic = requirements.MaxAmountRequired
	}
	micros, err := domain.ParseAtomic(atomic)
	if err != nil {
		return nil, fmt.Errorf("settle response amount: %w", err)
	}
	result.Amount = domain.FormatAmount(micros)

	return result, nil
}

func (r settleResponse) missingFields() []string {
	var missing []string
	if r.Amount == "" {
		missing = append(missing, "amount")
	}
	if r.Asset == "" {
		missing = append(missing, "asset")
	}
	if r.Network == "" {
		missing = append(missing, "network")
	}
	return missing
}

func (c *HTTPClient) post(ctx context.Context, path string, timeout time.Duration, proof string, requirements domain.PaymentRequirements, out any) error {
	body, err := json.Marshal(facilitatorRequest{
		X402Version:         domain.X402Version,
		PaymentHeader:       proof,
		PaymentRequirements: requirements,
	})
	if err != nil {
		return fmt.Errorf("marshal facilitator request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.RetryDelay
	b.MaxInterval = c.opts.RetryDelay * 4
	b.Multiplier = 2.0

	operation := func() (struct{}, error) {
		reqCtx := ctx
		if _, hasDeadline := ctx.Deadline(); !hasDeadline && timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.opts.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		if c.opts.Authorization != "" {
			req.Header.Set("Authorization", c.opts.Authorization)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return struct{}{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return struct{}{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return struct{}{}, backoff.Permanent(fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(raw))))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("decode %s response: %w", path, err))
		}
		return struct{}{}, nil
	}

	_, err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.opts.MaxRetries+1)),
	)
	return err
}

// HealthCheck implements ports.HealthChecker for a remote facilitator.
type HealthCheck struct {
	baseURL string
	client  *http.Client
}

// NewHealthCheck creates a facilitator health checker.
func NewHealthCheck(baseURL string, httpClient *http.Client) *HealthCheck {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	return &HealthCheck{baseURL: strings.TrimRight(baseURL, "/"), client: httpClient}
}

// Ping issues GET /supported; any non-5xx answer counts as reachable.
func (h *HealthCheck) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/supported", nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "facilitator"
}
