package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"autocare-x402-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaymentSession() *domain.PaymentSession {
	now := time.Now().UTC().Truncate(time.Microsecond)
	customer := "cust-42"
	return &domain.PaymentSession{
		ID:            uuid.New(),
		ResourcePath:  "/api/v1/service/start?type=oil_change",
		Amount:        18_000_000,
		Asset:         "USDC",
		Network:       "avalanche-fuji",
		TransactionID: "0xabc123",
		Payer:         "0xpayer",
		Status:        domain.PaymentStatusPaid,
		CustomerID:    &customer,
		SettledAt:     &now,
		CreatedAt:     now,
	}
}

func paymentSessionRow(s *domain.PaymentSession) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "resource", "amount", "asset", "network", "tx_hash", "payer", "status",
		"customer_id", "settled_at", "created_at",
	}).AddRow(
		s.ID, s.ResourcePath, s.Amount, s.Asset, s.Network, s.TransactionID, s.Payer,
		s.Status, s.CustomerID, s.SettledAt, s.CreatedAt,
	)
}

func TestPaymentSessionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentSessionRepo(mock)
	s := newTestPaymentSession()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payment_sessions").
		WithArgs(s.ID, s.ResourcePath, s.Amount, s.Asset, s.Network, s.TransactionID,
			s.Payer, "paid", s.CustomerID, s.SettledAt, s.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, s)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentSessionRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentSessionRepo(mock)
	s := newTestPaymentSession()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payment_sessions").
		WillReturnError(errors.New("connection reset"))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert payment session")
}

func TestPaymentSessionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentSessionRepo(mock)
	s := newTestPaymentSession()

	mock.ExpectQuery("SELECT .+ FROM payment_sessions WHERE id").
		WithArgs(s.ID).
		WillReturnRows(paymentSessionRow(s))

	result, err := repo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, s.ID, result.ID)
	assert.Equal(t, s.Amount, result.Amount)
	assert.Equal(t, domain.PaymentStatusPaid, result.Status)
	assert.Equal(t, "cust-42", *result.CustomerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentSessionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentSessionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM payment_sessions WHERE id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestPaymentSessionRepo_GetByIDTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentSessionRepo(mock)
	s := newTestPaymentSession()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM payment_sessions WHERE id").
		WithArgs(s.ID).
		WillReturnRows(paymentSessionRow(s))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDTx(context.Background(), tx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, s.TransactionID, result.TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
