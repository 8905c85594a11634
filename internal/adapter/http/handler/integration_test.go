package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"autocare-x402-gateway/config"
	"autocare-x402-gateway/internal/adapter/facilitator"
	"autocare-x402-gateway/internal/adapter/http/handler"
	redisStore "autocare-x402-gateway/internal/adapter/storage/redis"
	"autocare-x402-gateway/internal/client"
	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminSecret = "ops-bootstrap-secret"

var testRates = domain.RewardRates{
	PointsPerUnit:        10,
	ServiceCommissionBps: 1500,
	WashCommissionBps:    1000,
}

// testApp is the whole gateway over in-memory repositories, miniredis and
// the simulated facilitator.
type testApp struct {
	server *httptest.Server
	store  *store
	mr     *miniredis.Miniredis
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zerolog.Nop()
	s := newStore()

	x402 := config.X402Config{
		Network:       "avalanche-fuji",
		NetworkID:     "eip155:43113",
		Asset:         "USDC",
		AssetDecimals: 6,
		Recipient:     "0x742d35Cc6634C0532925a3b844Bc9e7595f8fCE8",
		SettleTimeout: 5 * time.Second,
		MaxTimeout:    60 * time.Second,
		ProofTTL:      time.Hour,
		ReceiptTTL:    time.Hour,
	}

	proofs := inMemoryProofRepo{s}
	intents := inMemoryIntentRepo{s}
	sessions := inMemorySessionRepo{s}
	loyalty := inMemoryLoyaltyRepo{s}
	rewards := inMemoryRewardRepo{s}
	transactor := inMemoryTransactor{}

	auditSvc := service.NewAuditService(inMemoryAuditRepo{s}, log)
	tokenSvc := service.NewJWTTokenService("integration-jwt-secret", time.Hour, "autocare-x402-gateway")
	authSvc := service.NewAuthService(adminSecret, tokenSvc)

	ledgerSvc := service.NewLedgerService(service.LedgerRepositories{
		Payments: inMemoryPaymentRepo{s},
		Sessions: sessions,
		Loyalty:  loyalty,
		Rewards:  rewards,
		Proofs:   proofs,
		Intents:  intents,
	}, transactor, testRates, log)

	gateSvc := service.NewGateService(
		service.NewRequirementsBuilder(x402),
		service.NewSettler(facilitator.NewSimulated(log), x402.SettleTimeout, log),
		ledgerSvc,
		redisStore.NewProofGuard(rdb),
		redisStore.NewReceiptCache(rdb),
		proofs,
		auditSvc,
		service.GateOptions{ProofTTL: x402.ProofTTL, ReceiptTTL: x402.ReceiptTTL},
		log,
	)

	router := handler.SetupRouter(handler.RouterDeps{
		GateSvc:        gateSvc,
		SessionSvc:     service.NewSessionService(sessions, transactor, auditSvc, log),
		RewardSvc:      service.NewRewardService(loyalty, rewards, auditSvc, log),
		ReconcilerSvc:  service.NewReconciler(intents, ledgerSvc, transactor, auditSvc, service.ReconcilerOptions{}, log),
		AuthSvc:        authSvc,
		TokenSvc:       tokenSvc,
		AuditSvc:       auditSvc,
		HealthCheckers: nil,
		Asset:          x402.Asset,
		Mode:           gin.TestMode,
		Logger:         log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testApp{server: srv, store: s, mr: mr}
}

func (a *testApp) orchestrator(signer client.Signer) *client.Orchestrator {
	return client.NewOrchestrator(a.server.URL, a.server.Client(), signer, zerolog.Nop())
}

func (a *testApp) request(t *testing.T, method, path string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	resp := a.request(t, http.MethodPost, "/api/v1/admin/token", map[string]string{"secret": adminSecret}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

// recordingSigner keeps every proof it produced.
type recordingSigner struct {
	inner client.Signer
	mu    sync.Mutex
	last  string
}

func (r *recordingSigner) Sign(ctx context.Context, req domain.PaymentRequirements) (string, error) {
	proof, err := r.inner.Sign(ctx, req)
	r.mu.Lock()
	r.last = proof
	r.mu.Unlock()
	return proof, err
}

func washBooking(customer string) map[string]string {
	return map[string]string{
		"vehicleId":  "veh-77",
		"branchId":   "branch-hcm-1",
		"operatorId": "op-1",
		"customerId": customer,
		"washType":   "premium",
	}
}

func TestIntegration_WashFlow(t *testing.T) {
	app := newTestApp(t)
	o := app.orchestrator(client.NewDevSigner("0xpayer"))

	out, err := o.Start(context.Background(), domain.KindWash, washBooking("cust-1"))
	require.NoError(t, err)

	assert.True(t, out.Paid)
	require.NotNil(t, out.Receipt)
	assert.Equal(t, "18.000000", out.Receipt.Amount)
	assert.Equal(t, "USDC", out.Receipt.Asset)
	assert.True(t, out.Receipt.Verified)

	require.NotNil(t, out.Response)
	require.NotNil(t, out.Response.WashSession)
	assert.Nil(t, out.Response.ServiceSession)
	assert.Equal(t, "premium", out.Response.WashSession.WashType)
	assert.Equal(t, "in_progress", out.Response.WashSession.Status)
	require.NotNil(t, out.Response.PaymentSession)
	assert.Equal(t, out.Receipt.TransactionID, out.Response.PaymentSession.TxHash)
	assert.Equal(t, client.StateComplete, o.State())

	// Loyalty and operator rewards were accrued.
	resp := app.request(t, http.MethodGet, "/api/v1/loyalty/cust-1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loyalty struct {
		Data struct {
			Points    int64  `json:"points"`
			Tier      string `json:"tier"`
			WashCount int64  `json:"wash_count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loyalty))
	assert.Equal(t, domain.LoyaltyPoints(domain.Units(18), testRates.PointsPerUnit), loyalty.Data.Points)
	assert.Equal(t, "bronze", loyalty.Data.Tier)
	assert.Equal(t, int64(1), loyalty.Data.WashCount)

	resp = app.request(t, http.MethodGet, "/api/v1/rewards/op-1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reward struct {
		Data struct {
			Earned  string `json:"earned_usdc"`
			Pending string `json:"pending_usdc"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reward))
	assert.Equal(t, "1.800000", reward.Data.Earned)
	assert.Equal(t, "1.800000", reward.Data.Pending)
}

func TestIntegration_ServiceFlowAndCompletion(t *testing.T) {
	app := newTestApp(t)
	o := app.orchestrator(client.NewDevSigner("0xpayer"))

	out, err := o.Start(context.Background(), domain.KindService, map[string]interface{}{
		"vehicleId":   "veh-9",
		"branchId":    "branch-1",
		"operatorId":  "mech-4",
		"serviceType": "oil_change",
		"mileage":     42000,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Response.ServiceSession)
	assert.Equal(t, "oil_change", out.Response.ServiceSession.ServiceType)
	assert.Equal(t, "45.000000", out.Receipt.Amount)
	assert.Equal(t, "oil change service", out.Response.ServiceSession.Description)

	sessionID := out.Response.ServiceSession.ID
	token := app.adminToken(t)

	// Session transitions need an admin token.
	resp := app.request(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/complete", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.request(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/complete", nil,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.request(t, http.MethodGet, "/api/v1/sessions/"+sessionID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Data struct {
			Status      string  `json:"status"`
			CompletedAt *string `json:"completed_at"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "completed", got.Data.Status)
	assert.NotNil(t, got.Data.CompletedAt)

	// Completed is terminal.
	resp = app.request(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/cancel", nil,
		map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Operator payout moves commission from pending to paid.
	resp = app.request(t, http.MethodPost, "/api/v1/rewards/mech-4/payout", map[string]string{"amount": "5.000000"},
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reward struct {
		Data struct {
			Earned  string `json:"earned_usdc"`
			Pending string `json:"pending_usdc"`
			Paid    string `json:"paid_usdc"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reward))
	assert.Equal(t, "6.750000", reward.Data.Earned)
	assert.Equal(t, "1.750000", reward.Data.Pending)
	assert.Equal(t, "5.000000", reward.Data.Paid)
}

func TestIntegration_UnderpaymentRejected(t *testing.T) {
	app := newTestApp(t)
	signer := client.NewDevSigner("0xpayer")
	signer.Underpay = domain.Units(1)
	o := app.orchestrator(signer)

	_, err := o.Start(context.Background(), domain.KindWash, washBooking("cust-2"))
	require.Error(t, err)

	var serverErr *client.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusPaymentRequired, serverErr.Status)
	assert.Equal(t, "Payment verification failed", serverErr.Message)
	assert.Equal(t, client.StateError, o.State())

	app.store.mu.Lock()
	defer app.store.mu.Unlock()
	assert.Empty(t, app.store.payments)
	assert.Empty(t, app.store.sessions)
	assert.Empty(t, app.store.loyalty)
}

func TestIntegration_MissingFields(t *testing.T) {
	app := newTestApp(t)
	signs := 0
	o := app.orchestrator(client.SignerFunc(func(context.Context, domain.PaymentRequirements) (string, error) {
		signs++
		return "", nil
	}))

	_, err := o.Start(context.Background(), domain.KindWash, map[string]string{"vehicleId": "veh-1"})
	require.Error(t, err)

	var serverErr *client.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusBadRequest, serverErr.Status)
	assert.Contains(t, serverErr.Message, "Missing required fields")
	assert.Zero(t, signs)
}

func TestIntegration_ReplayedProof(t *testing.T) {
	app := newTestApp(t)
	signer := &recordingSigner{inner: client.NewDevSigner("0xpayer")}
	o := app.orchestrator(signer)

	out, err := o.Start(context.Background(), domain.KindWash, washBooking("cust-3"))
	require.NoError(t, err)

	resp := app.request(t, http.MethodPost, "/api/v1/wash/start", washBooking("cust-3"),
		map[string]string{domain.HeaderPayment: signer.last})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The replay is answered with the original receipt.
	receipt, err := domain.DecodeReceiptHeader(resp.Header.Get(domain.HeaderPaymentResponse))
	require.NoError(t, err)
	assert.Equal(t, out.Receipt.TransactionID, receipt.TransactionID)

	app.store.mu.Lock()
	defer app.store.mu.Unlock()
	assert.Len(t, app.store.payments, 1)
	assert.Equal(t, int64(1), app.store.loyalty["cust-3"].WashCount)
}

func TestIntegration_ReplayCaughtWithoutRedis(t *testing.T) {
	app := newTestApp(t)
	signer := &recordingSigner{inner: client.NewDevSigner("0xpayer")}

	_, err := app.orchestrator(signer).Start(context.Background(), domain.KindWash, washBooking("cust-4"))
	require.NoError(t, err)

	// The durable consumed-proof set still rejects the replay.
	app.mr.FlushAll()
	resp := app.request(t, http.MethodPost, "/api/v1/wash/start", washBooking("cust-4"),
		map[string]string{domain.HeaderPayment: signer.last})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestIntegration_AdminReconcile(t *testing.T) {
	app := newTestApp(t)

	_, err := app.orchestrator(client.NewDevSigner("0xpayer")).Start(context.Background(), domain.KindWash, washBooking("cust-5"))
	require.NoError(t, err)

	token := app.adminToken(t)
	auth := map[string]string{"Authorization": "Bearer " + token}

	resp := app.request(t, http.MethodGet, "/api/v1/admin/ledger-intents?status=applied", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Data []struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "applied", list.Data[0].Status)

	resp = app.request(t, http.MethodPost, "/api/v1/admin/reconcile", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var run struct {
		Data struct {
			Applied int `json:"applied"`
			Failed  int `json:"failed"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Zero(t, run.Data.Applied)
	assert.Zero(t, run.Data.Failed)

	resp = app.request(t, http.MethodPost, "/api/v1/admin/token", map[string]string{"secret": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_Prices(t *testing.T) {
	app := newTestApp(t)

	resp := app.request(t, http.MethodGet, "/api/v1/prices?kind=wash", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var prices struct {
		Data []struct {
			Type  string `json:"type"`
			Price string `json:"price"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&prices))
	found := false
	for _, p := range prices.Data {
		if p.Type == "premium" {
			found = true
			assert.Equal(t, "18.000000", p.Price)
		}
	}
	assert.True(t, found)
}
