package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"miningdash/internal/auth"
	"miningdash/internal/config"
	"miningdash/internal/models"
	"miningdash/internal/prices"
	"miningdash/internal/services"
	"miningdash/internal/store"
	"miningdash/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const testSecret = "secret"

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, user models.User) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, user models.User) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, user)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, store.ErrNotFound
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, store.ErrNotFound
	}
	return s.getByIDFn(ctx, userID)
}

type stubRigStore struct {
	listFn   func(ctx context.Context, ownerID string) ([]models.MiningRig, error)
	getFn    func(ctx context.Context, ownerID, rigID string) (models.MiningRig, error)
	createFn func(ctx context.Context, rig models.MiningRig) (models.MiningRig, error)
	updateFn func(ctx context.Context, ownerID, rigID string, patch models.RigPatch) (models.MiningRig, error)
	deleteFn func(ctx context.Context, ownerID, rigID string) (bool, error)
}

func (s stubRigStore) ListByOwner(ctx context.Context, ownerID string) ([]models.MiningRig, error) {
	if s.listFn == nil {
		return []models.MiningRig{}, nil
	}
	return s.listFn(ctx, ownerID)
}

func (s stubRigStore) GetByID(ctx context.Context, ownerID, rigID string) (models.MiningRig, error) {
	if s.getFn == nil {
		return models.MiningRig{}, store.ErrNotFound
	}
	return s.getFn(ctx, ownerID, rigID)
}

func (s stubRigStore) Create(ctx context.Context, rig models.MiningRig) (models.MiningRig, error) {
	if s.createFn == nil {
		return rig, nil
	}
	return s.createFn(ctx, rig)
}

func (s stubRigStore) Update(ctx context.Context, ownerID, rigID string, patch models.RigPatch) (models.MiningRig, error) {
	if s.updateFn == nil {
		return models.MiningRig{}, store.ErrNotFound
	}
	return s.updateFn(ctx, ownerID, rigID, patch)
}

func (s stubRigStore) Delete(ctx context.Context, ownerID, rigID string) (bool, error) {
	if s.deleteFn == nil {
		return false, nil
	}
	return s.deleteFn(ctx, ownerID, rigID)
}

type stubPortfolioStore struct {
	listFn func(ctx context.Context, ownerID string) ([]models.PortfolioBalance, error)
	setFn  func(ctx context.Context, ownerID, crypto string, amount decimal.Decimal) (models.PortfolioBalance, error)
}

func (s stubPortfolioStore) ListByOwner(ctx context.Context, ownerID string) ([]models.PortfolioBalance, error) {
	if s.listFn == nil {
		return []models.PortfolioBalance{}, nil
	}
	return s.listFn(ctx, ownerID)
}

func (s stubPortfolioStore) Set(ctx context.Context, ownerID, crypto string, amount decimal.Decimal) (models.PortfolioBalance, error) {
	if s.setFn == nil {
		return models.PortfolioBalance{UserID: ownerID, Cryptocurrency: crypto, Amount: amount}, nil
	}
	return s.setFn(ctx, ownerID, crypto, amount)
}

type stubTransactionStore struct {
	listFn func(ctx context.Context, ownerID string, limit int) ([]models.MiningTransaction, error)
}

func (s stubTransactionStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.MiningTransaction, error) {
	if s.listFn == nil {
		return []models.MiningTransaction{}, nil
	}
	return s.listFn(ctx, ownerID, limit)
}

type stubExchangeStore struct {
	listFn   func(ctx context.Context, ownerID string) ([]models.ExchangeConnection, error)
	upsertFn func(ctx context.Context, ownerID string, input store.ExchangeConnectionInput) (models.ExchangeConnection, error)
}

func (s stubExchangeStore) ListByOwner(ctx context.Context, ownerID string) ([]models.ExchangeConnection, error) {
	if s.listFn == nil {
		return []models.ExchangeConnection{}, nil
	}
	return s.listFn(ctx, ownerID)
}

func (s stubExchangeStore) Upsert(ctx context.Context, ownerID string, input store.ExchangeConnectionInput) (models.ExchangeConnection, error) {
	if s.upsertFn == nil {
		return models.ExchangeConnection{UserID: ownerID, Exchange: input.Exchange, Settings: input.Settings}, nil
	}
	return s.upsertFn(ctx, ownerID, input)
}

// stubPaymentStore backs both the handler reads and the payment service writes.
type stubPaymentStore struct {
	listFn         func(ctx context.Context, ownerID string, limit int) ([]models.Payment, error)
	getFn          func(ctx context.Context, ownerID, paymentID string) (models.Payment, error)
	createFn       func(ctx context.Context, input store.PaymentInput) (models.Payment, error)
	updateStatusFn func(ctx context.Context, tx store.Getter, ownerID, paymentID, status string, hash *string) (models.Payment, error)
}

func (s stubPaymentStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.Payment, error) {
	if s.listFn == nil {
		return []models.Payment{}, nil
	}
	return s.listFn(ctx, ownerID, limit)
}

func (s stubPaymentStore) GetByID(ctx context.Context, ownerID, paymentID string) (models.Payment, error) {
	if s.getFn == nil {
		return models.Payment{}, store.ErrNotFound
	}
	return s.getFn(ctx, ownerID, paymentID)
}

func (s stubPaymentStore) Create(ctx context.Context, input store.PaymentInput) (models.Payment, error) {
	if s.createFn == nil {
		return models.Payment{ID: input.ID, UserID: input.UserID, Network: input.Network, Amount: input.Amount, ToAddress: input.ToAddress, Status: input.Status}, nil
	}
	return s.createFn(ctx, input)
}

func (s stubPaymentStore) UpdateStatus(ctx context.Context, tx store.Getter, ownerID, paymentID, status string, hash *string) (models.Payment, error) {
	if s.updateStatusFn == nil {
		return models.Payment{}, store.ErrNotFound
	}
	return s.updateStatusFn(ctx, tx, ownerID, paymentID, status, hash)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, actorID, entityType, entityID string) ([]store.AuditEntry, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) ListForEntity(ctx context.Context, actorID, entityType, entityID string) ([]store.AuditEntry, error) {
	if s.listFn == nil {
		return []store.AuditEntry{}, nil
	}
	return s.listFn(ctx, actorID, entityType, entityID)
}

type testDeps struct {
	txRunner     fakeTxRunner
	users        stubUserStore
	rigs         stubRigStore
	portfolio    stubPortfolioStore
	transactions stubTransactionStore
	exchanges    stubExchangeStore
	payments     stubPaymentStore
	audit        stubAuditStore
	hub          *websocket.Hub
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      testSecret,
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
		PaymentAddress: config.DefaultPaymentAddress,
	}
}

func newTestHandler(d testDeps) *Handler {
	cfg := testConfig()
	hub := d.hub
	if hub == nil {
		hub = websocket.NewHub()
	}
	paymentSvc := services.NewPaymentService(d.txRunner, d.payments, d.audit, cfg.PaymentAddress)
	return New(d.txRunner, cfg, d.users, d.rigs, d.portfolio, d.transactions, d.exchanges, d.payments, d.audit, paymentSvc, prices.NewCache(prices.FallbackSnapshot()), hub)
}

// doRequest sends the request through the full router. An empty userID sends no token.
func doRequest(t *testing.T, h *Handler, method, path string, body any, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, userID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func stringPtr(value string) *string {
	return &value
}
