package handlers

import (
	"errors"
	"net/http"

	"miningdash/internal/services"
	"miningdash/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// There is no toAddress field: payments always go to the system wallet.
type createPaymentRequest struct {
	Network         string           `json:"network" validate:"required,network"`
	Amount          *decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Currency        string           `json:"currency" validate:"required,max=10"`
	FromAddress     *string          `json:"fromAddress" validate:"omitnil,max=100"`
	TransactionHash *string          `json:"transactionHash" validate:"omitnil,max=100"`
	Purpose         *string          `json:"purpose" validate:"omitnil,max=100"`
}

type updatePaymentRequest struct {
	Status          string  `json:"status" validate:"required,paymentstatus"`
	TransactionHash *string `json:"transactionHash" validate:"omitnil,max=100"`
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	payments, err := h.payments.ListByOwner(r.Context(), userID, parseLimit(r))
	if err != nil {
		respondStoreError(w, r, err, "payments not found", "failed to fetch payments")
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payment data")
		return
	}
	if err := validator.Struct(req); err != nil {
		if respondValidation(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create payment")
		return
	}
	payment, err := h.paymentSvc.Create(r.Context(), services.CreatePaymentRequest{
		UserID:          userID,
		Network:         req.Network,
		Amount:          *req.Amount,
		Currency:        req.Currency,
		FromAddress:     req.FromAddress,
		TransactionHash: req.TransactionHash,
		Purpose:         req.Purpose,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrInvalidNetwork) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondStoreError(w, r, err, "payment not found", "failed to create payment")
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req updatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payment status data")
		return
	}
	if err := validator.Struct(req); err != nil {
		if respondValidation(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update payment status")
		return
	}
	payment, err := h.paymentSvc.UpdateStatus(r.Context(), userID, chi.URLParam(r, "id"), req.Status, req.TransactionHash)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondStoreError(w, r, err, "payment not found", "failed to update payment status")
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

// PaymentHistory lists the audit trail of one of the caller's payments.
func (h *Handler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	paymentID := chi.URLParam(r, "id")
	if _, err := h.payments.GetByID(r.Context(), userID, paymentID); err != nil {
		respondStoreError(w, r, err, "payment not found", "failed to fetch payment history")
		return
	}
	entries, err := h.audit.ListForEntity(r.Context(), userID, "payment", paymentID)
	if err != nil {
		respondStoreError(w, r, err, "payment not found", "failed to fetch payment history")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
