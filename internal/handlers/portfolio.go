package handlers

import (
	"net/http"

	"miningdash/internal/models"
	"miningdash/internal/store"
	"miningdash/internal/validator"

	"github.com/shopspring/decimal"
)

type setBalanceRequest struct {
	Cryptocurrency string           `json:"cryptocurrency" validate:"required,max=10"`
	Amount         *decimal.Decimal `json:"amount" validate:"required,gte=0"`
}

func (h *Handler) ListPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	balances, err := h.portfolio.ListByOwner(r.Context(), userID)
	if err != nil {
		respondStoreError(w, r, err, "portfolio not found", "failed to fetch portfolio")
		return
	}
	respondJSON(w, http.StatusOK, balances)
}

// SetPortfolio overwrites the caller's balance for one cryptocurrency.
func (h *Handler) SetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req setBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid portfolio data")
		return
	}
	if err := validator.Struct(req); err != nil {
		if respondValidation(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update portfolio")
		return
	}
	balance, err := h.portfolio.Set(r.Context(), userID, req.Cryptocurrency, *req.Amount)
	if err != nil {
		respondStoreError(w, r, err, "portfolio not found", "failed to update portfolio")
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	txs, err := h.transactions.ListByOwner(r.Context(), userID, parseLimit(r))
	if err != nil {
		respondStoreError(w, r, err, "transactions not found", "failed to fetch transactions")
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

type exchangeRequest struct {
	Exchange    string         `json:"exchange" validate:"required,max=50"`
	IsConnected bool           `json:"isConnected"`
	APIKeyID    *string        `json:"apiKeyId" validate:"omitnil,max=200"`
	Settings    map[string]any `json:"settings"`
}

func (h *Handler) ListExchanges(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	conns, err := h.exchanges.ListByOwner(r.Context(), userID)
	if err != nil {
		respondStoreError(w, r, err, "exchange connections not found", "failed to fetch exchange connections")
		return
	}
	respondJSON(w, http.StatusOK, conns)
}

// UpsertExchange creates or replaces the caller's connection to one exchange.
func (h *Handler) UpsertExchange(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req exchangeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid exchange connection data")
		return
	}
	if err := validator.Struct(req); err != nil {
		if respondValidation(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to save exchange connection")
		return
	}
	settings, err := models.ParseSettings(req.Settings)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	conn, err := h.exchanges.Upsert(r.Context(), userID, store.ExchangeConnectionInput{
		Exchange:    req.Exchange,
		IsConnected: req.IsConnected,
		APIKeyID:    req.APIKeyID,
		Settings:    settings,
	})
	if err != nil {
		respondStoreError(w, r, err, "exchange connection not found", "failed to save exchange connection")
		return
	}
	respondJSON(w, http.StatusOK, conn)
}
