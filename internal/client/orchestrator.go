package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"autocare-x402-gateway/internal/adapter/http/dto"
	"autocare-x402-gateway/internal/core/domain"

	"github.com/rs/zerolog"
)

// State is the client-side view of one payment flow.
type State string

const (
	StateIdle            State = "idle"
	StateRequestSent     State = "request_sent"
	StateRequiresPayment State = "requires_payment"
	StateSigning         State = "signing"
	StateSettling        State = "settling"
	StateComplete        State = "complete"
	StateError           State = "error"
)

// InFlight reports whether a Start call is driving the flow.
func (s State) InFlight() bool {
	switch s {
	case StateRequestSent, StateRequiresPayment, StateSigning, StateSettling:
		return true
	}
	return false
}

var (
	// ErrCancelled is returned by a Start that was overtaken by Cancel.
	ErrCancelled = errors.New("payment flow cancelled")
	// ErrBusy is returned when Start is called while another flow is in flight.
	ErrBusy = errors.New("payment flow already in progress")
	// ErrNothingToRetry is returned by Retry before any Start.
	ErrNothingToRetry = errors.New("no previous request to retry")
)

// ServerError is a non-success answer from the gate.
type ServerError struct {
	Status  int
	Message string
	Details string
}

func (e *ServerError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("gate returned %d: %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("gate returned %d: %s", e.Status, e.Message)
}

// Outcome is a completed flow.
type Outcome struct {
	// Paid is false when the gate answered without asking for payment.
	Paid     bool
	Receipt  *domain.SettlementReceipt
	Response *dto.StartResponse
}

// Listener observes state transitions.
type Listener func(from, to State)

// Orchestrator drives the x402 handshake for one caller: request, read the
// requirements, sign, resend with the proof. It holds no server state and
// never resubmits a proof the gate rejected.
type Orchestrator struct {
	baseURL string
	http    *http.Client
	signer  Signer
	log     zerolog.Logger

	mu           sync.Mutex
	state        State
	generation   uint64
	cancel       context.CancelFunc
	requirements *domain.PaymentRequirements
	receipt      *domain.SettlementReceipt
	lastErr      error
	lastKind     domain.Kind
	lastBody     []byte
	listeners    []Listener
}

// NewOrchestrator creates an orchestrator talking to the gate at baseURL.
func NewOrchestrator(baseURL string, httpClient *http.Client, signer Signer, log zerolog.Logger) *Orchestrator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Orchestrator{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		signer:  signer,
		log:     log,
		state:   StateIdle,
	}
}

// OnStateChange registers l. Listeners run synchronously on the goroutine
// that caused the transition.
func (o *Orchestrator) OnStateChange(l Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Requirements returns the requirements of the current flow, if any were issued.
func (o *Orchestrator) Requirements() *domain.PaymentRequirements {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.requirements
}

// Receipt returns the last settlement receipt. It may be set in the error
// state when the gate settled but failed to record the booking.
func (o *Orchestrator) Receipt() *domain.SettlementReceipt {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.receipt
}

func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Start books kind with body, paying if the gate asks for it.
func (o *Orchestrator) Start(ctx context.Context, kind domain.Kind, body interface{}) (*Outcome, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return o.run(ctx, kind, raw)
}

// Retry restarts the last request from idle. The signer is always asked
// for a fresh proof.
func (o *Orchestrator) Retry(ctx context.Context) (*Outcome, error) {
	o.mu.Lock()
	kind, raw := o.lastKind, o.lastBody
	o.mu.Unlock()

	if raw == nil {
		return nil, ErrNothingToRetry
	}
	return o.run(ctx, kind, raw)
}

// Cancel abandons the current flow and returns to idle without contacting
// the gate. A proof already sent cannot be retracted.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	if o.state == StateIdle || o.state == StateComplete {
		o.mu.Unlock()
		return
	}
	from := o.state
	o.generation++
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.state = StateIdle
	o.requirements = nil
	o.lastErr = nil
	listeners := append([]Listener(nil), o.listeners...)
	o.mu.Unlock()

	o.log.Debug().Str("from", string(from)).Msg("payment flow cancelled")
	notify(listeners, from, StateIdle)
}

func (o *Orchestrator) run(parent context.Context, kind domain.Kind, raw []byte) (*Outcome, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	gen, err := o.begin(kind, raw, cancel)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/v1/%s/start", o.baseURL, kind)

	resp, err := o.post(ctx, url, raw, "")
	if err != nil {
		return nil, o.fail(gen, err)
	}

	switch resp.status {
	case http.StatusOK:
		return o.complete(gen, resp, false)
	case http.StatusPaymentRequired:
	default:
		return nil, o.fail(gen, resp.serverError())
	}

	var challenge struct {
		Error               string                      `json:"error"`
		PaymentRequirements *domain.PaymentRequirements `json:"paymentRequirements"`
	}
	if err := json.Unmarshal(resp.body, &challenge); err != nil || challenge.PaymentRequirements == nil {
		return nil, o.fail(gen, fmt.Errorf("402 without payment requirements"))
	}
	requirements := *challenge.PaymentRequirements

	if !o.transition(gen, StateRequiresPayment, func() { o.requirements = &requirements }) {
		return nil, ErrCancelled
	}
	if !o.transition(gen, StateSigning, nil) {
		return nil, ErrCancelled
	}

	proof, err := o.signer.Sign(ctx, requirements)
	if err != nil {
		return nil, o.fail(gen, fmt.Errorf("sign payment: %w", err))
	}

	if !o.transition(gen, StateSettling, nil) {
		return nil, ErrCancelled
	}

	resp, err = o.post(ctx, url, raw, proof)
	if err != nil {
		return nil, o.fail(gen, err)
	}
	if resp.receipt != nil {
		o.mu.Lock()
		if o.generation == gen {
			o.receipt = resp.receipt
		}
		o.mu.Unlock()
	}
	if resp.status != http.StatusOK {
		return nil, o.fail(gen, resp.serverError())
	}
	return o.complete(gen, resp, true)
}

// begin claims the orchestrator for a new flow: idle, then request_sent.
func (o *Orchestrator) begin(kind domain.Kind, raw []byte, cancel context.CancelFunc) (uint64, error) {
	o.mu.Lock()
	if o.state.InFlight() {
		o.mu.Unlock()
		return 0, ErrBusy
	}

	var transitions [][2]State
	if o.state != StateIdle {
		transitions = append(transitions, [2]State{o.state, StateIdle})
	}
	transitions = append(transitions, [2]State{StateIdle, StateRequestSent})

	o.generation++
	gen := o.generation
	o.cancel = cancel
	o.state = StateRequestSent
	o.requirements = nil
	o.receipt = nil
	o.lastErr = nil
	o.lastKind = kind
	o.lastBody = raw
	listeners := append([]Listener(nil), o.listeners...)
	o.mu.Unlock()

	for _, t := range transitions {
		notify(listeners, t[0], t[1])
	}
	return gen, nil
}

// transition moves to next if gen is still the current flow. apply runs
// under the lock before the state changes.
func (o *Orchestrator) transition(gen uint64, next State, apply func()) bool {
	o.mu.Lock()
	if o.generation != gen {
		o.mu.Unlock()
		return false
	}
	if apply != nil {
		apply()
	}
	from := o.state
	o.state = next
	listeners := append([]Listener(nil), o.listeners...)
	o.mu.Unlock()

	notify(listeners, from, next)
	return true
}

func (o *Orchestrator) fail(gen uint64, err error) error {
	if !o.transition(gen, StateError, func() { o.lastErr = err; o.cancel = nil }) {
		return ErrCancelled
	}
	o.log.Warn().Err(err).Msg("payment flow failed")
	return err
}

func (o *Orchestrator) complete(gen uint64, resp *gateResponse, paid bool) (*Outcome, error) {
	var body dto.StartResponse
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return nil, o.fail(gen, fmt.Errorf("decode gate response: %w", err))
	}

	receipt := resp.receipt
	if receipt == nil {
		receipt = body.SettlementInfo
	}

	if !o.transition(gen, StateComplete, func() { o.receipt = receipt; o.cancel = nil }) {
		return nil, ErrCancelled
	}

	ev := o.log.Info().Bool("paid", paid)
	if receipt != nil {
		ev = ev.Str("tx_id", receipt.TransactionID).Str("amount", receipt.Amount)
	}
	ev.Msg("payment flow complete")

	return &Outcome{Paid: paid, Receipt: receipt, Response: &body}, nil
}

type gateResponse struct {
	status  int
	body    []byte
	receipt *domain.SettlementReceipt
}

func (r *gateResponse) serverError() *ServerError {
	var e struct {
		Error   string `json:"error"`
		Details string `json:"details"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(r.body, &e)

	msg := e.Error
	if msg == "" {
		msg = e.Message
	}
	if msg == "" {
		msg = http.StatusText(r.status)
	}
	return &ServerError{Status: r.status, Message: msg, Details: e.Details}
}

func (o *Orchestrator) post(ctx context.Context, url string, body []byte, proof string) (*gateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if proof != "" {
		req.Header.Set(domain.HeaderPayment, proof)
	}

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	out := &gateResponse{status: resp.StatusCode, body: raw}
	if h := resp.Header.Get(domain.HeaderPaymentResponse); h != "" {
		receipt, err := domain.DecodeReceiptHeader(h)
		if err != nil {
			o.log.Warn().Err(err).Msg("ignoring undecodable payment response header")
		} else {
			out.receipt = &receipt
		}
	}
	return out, nil
}

func notify(listeners []Listener, from, to State) {
	for _, l := range listeners {
		l(from, to)
	}
}
