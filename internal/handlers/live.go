package handlers

import (
	"errors"
	"net/http"

	"miningdash/internal/middleware"
	"miningdash/internal/profitability"
	"miningdash/internal/websocket"

	"github.com/shopspring/decimal"
)

func (h *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.prices.Latest())
}

type profitabilityRequest struct {
	Cryptocurrency   string          `json:"cryptocurrency"`
	HashRate         decimal.Decimal `json:"hashRate"`
	HashRateUnit     string          `json:"hashRateUnit"`
	PowerConsumption decimal.Decimal `json:"powerConsumption"`
	ElectricityCost  decimal.Decimal `json:"electricityCost"`
}

func (h *Handler) CalculateProfitability(w http.ResponseWriter, r *http.Request) {
	var req profitabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	price := h.prices.Latest().USDFor(req.Cryptocurrency)
	result, err := profitability.Calculate(profitability.Input{
		Cryptocurrency:   req.Cryptocurrency,
		HashRate:         req.HashRate,
		HashRateUnit:     req.HashRateUnit,
		PowerConsumption: req.PowerConsumption,
		ElectricityCost:  req.ElectricityCost,
	}, price)
	if err != nil {
		if errors.Is(err, profitability.ErrMissingParameters) || errors.Is(err, profitability.ErrUnsupportedCrypto) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to calculate profitability")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// WS subscribes the caller to live updates. Without a token the subscriber only
// receives prices; with one it also receives that owner's mining and portfolio updates.
func (h *Handler) WS(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OptionalOwner(h.cfg.JWTSecret, r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, owner, websocket.PriceUpdate(h.prices.Latest()))
}
