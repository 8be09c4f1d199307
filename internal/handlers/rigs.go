package handlers

import (
	"net/http"

	"miningdash/internal/models"
	"miningdash/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createRigRequest struct {
	Name             string  `json:"name" validate:"required,max=100"`
	Model            string  `json:"model" validate:"required,max=100"`
	Cryptocurrency   string  `json:"cryptocurrency" validate:"required,crypto"`
	HashRate         float64 `json:"hashRate" validate:"gt=0"`
	HashRateUnit     string  `json:"hashRateUnit" validate:"required,hashunit"`
	PowerConsumption int64   `json:"powerConsumption" validate:"gt=0"`
	IsActive         *bool   `json:"isActive"`
}

type updateRigRequest struct {
	Name             *string          `json:"name" validate:"omitnil,min=1,max=100"`
	Model            *string          `json:"model" validate:"omitnil,min=1,max=100"`
	Cryptocurrency   *string          `json:"cryptocurrency" validate:"omitnil,crypto"`
	HashRate         *float64         `json:"hashRate" validate:"omitnil,gt=0"`
	HashRateUnit     *string          `json:"hashRateUnit" validate:"omitnil,hashunit"`
	PowerConsumption *int64           `json:"powerConsumption" validate:"omitnil,gt=0"`
	IsActive         *bool            `json:"isActive"`
	DailyEarnings    *decimal.Decimal `json:"dailyEarnings" validate:"omitnil,gte=0"`
}

func (req updateRigRequest) patch() models.RigPatch {
	return models.RigPatch{
		Name:             req.Name,
		Model:            req.Model,
		Cryptocurrency:   req.Cryptocurrency,
		HashRate:         req.HashRate,
		HashRateUnit:     req.HashRateUnit,
		PowerConsumption: req.PowerConsumption,
		IsActive:         req.IsActive,
		DailyEarnings:    req.DailyEarnings,
	}
}

func (h *Handler) ListRigs(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	rigs, err := h.rigs.ListByOwner(r.Context(), userID)
	if err != nil {
		respondStoreError(w, r, err, "mining rigs not found", "failed to fetch mining rigs")
		return
	}
	respondJSON(w, http.StatusOK, rigs)
}

func (h *Handler) GetRig(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	rig, err := h.rigs.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "mining rig not found", "failed to fetch mining rig")
		return
	}
	respondJSON(w, http.StatusOK, rig)
}

// CreateRig stores a new rig for the caller. New rigs start active unless told
// otherwise and always start with zero daily earnings.
func (h *Handler) CreateRig(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req createRigRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid mining rig data")
		return
	}
	if err := validator.Struct(req); err != nil {
		if respondValidation(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create mining rig")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	rig, err := h.rigs.Create(r.Context(), models.MiningRig{
		ID:               uuid.NewString(),
		UserID:           userID,
		Name:             req.Name,
		Model:            req.Model,
		Cryptocurrency:   req.Cryptocurrency,
		HashRate:         req.HashRate,
		HashRateUnit:     req.HashRateUnit,
		PowerConsumption: req.PowerConsumption,
		IsActive:         active,
		DailyEarnings:    decimal.Zero,
	})
	if err != nil {
		respondStoreError(w, r, err, "mining rig not found", "failed to create mining rig")
		return
	}
	respondJSON(w, http.StatusOK, rig)
}

func (h *Handler) UpdateRig(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req updateRigRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid mining rig data")
		return
	}
	if err := validator.Struct(req); err != nil {
		if respondValidation(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update mining rig")
		return
	}
	rigID := chi.URLParam(r, "id")
	patch := req.patch()
	if patch.Empty() {
		rig, err := h.rigs.GetByID(r.Context(), userID, rigID)
		if err != nil {
			respondStoreError(w, r, err, "mining rig not found", "failed to update mining rig")
			return
		}
		respondJSON(w, http.StatusOK, rig)
		return
	}
	rig, err := h.rigs.Update(r.Context(), userID, rigID, patch)
	if err != nil {
		respondStoreError(w, r, err, "mining rig not found", "failed to update mining rig")
		return
	}
	respondJSON(w, http.StatusOK, rig)
}

func (h *Handler) DeleteRig(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	deleted, err := h.rigs.Delete(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "mining rig not found", "failed to delete mining rig")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "mining rig not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
