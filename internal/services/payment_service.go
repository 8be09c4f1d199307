package services

import (
	"context"
	"encoding/json"
	"errors"

	"miningdash/internal/db"
	"miningdash/internal/models"
	"miningdash/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidStatus  = errors.New("invalid payment status")
	ErrInvalidNetwork = errors.New("invalid payment network")
)

type PaymentStore interface {
	Create(ctx context.Context, input store.PaymentInput) (models.Payment, error)
	UpdateStatus(ctx context.Context, tx store.Getter, ownerID, paymentID, status string, transactionHash *string) (models.Payment, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

// PaymentService records subscription payments. Every payment is addressed to
// the configured system wallet regardless of what the caller submits.
type PaymentService struct {
	txRunner      db.TxRunner
	paymentStore  PaymentStore
	auditStore    AuditStore
	systemAddress string
}

func NewPaymentService(txRunner db.TxRunner, paymentStore PaymentStore, auditStore AuditStore, systemAddress string) *PaymentService {
	return &PaymentService{
		txRunner:      txRunner,
		paymentStore:  paymentStore,
		auditStore:    auditStore,
		systemAddress: systemAddress,
	}
}

type CreatePaymentRequest struct {
	UserID          string
	Network         string
	Amount          decimal.Decimal
	Currency        string
	FromAddress     *string
	TransactionHash *string
	Purpose         *string
}

func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (models.Payment, error) {
	if !req.Amount.IsPositive() {
		return models.Payment{}, ErrInvalidAmount
	}
	if req.Network != models.NetworkEthereum && req.Network != models.NetworkPolygon {
		return models.Payment{}, ErrInvalidNetwork
	}
	return s.paymentStore.Create(ctx, store.PaymentInput{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		Network:         req.Network,
		Amount:          req.Amount,
		Currency:        req.Currency,
		ToAddress:       s.systemAddress,
		FromAddress:     req.FromAddress,
		TransactionHash: req.TransactionHash,
		Status:          models.PaymentPending,
		Purpose:         req.Purpose,
	})
}

// UpdateStatus changes a payment's status and writes the audit entry in the same transaction.
func (s *PaymentService) UpdateStatus(ctx context.Context, ownerID, paymentID, status string, transactionHash *string) (models.Payment, error) {
	if !models.ValidPaymentStatus(status) {
		return models.Payment{}, ErrInvalidStatus
	}
	var updated models.Payment
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		payment, err := s.paymentStore.UpdateStatus(ctx, tx, ownerID, paymentID, status, transactionHash)
		if err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]any{
			"status":           payment.Status,
			"transaction_hash": payment.TransactionHash,
		})
		if err := s.auditStore.Log(ctx, tx, ownerID, "payment_status", "payment", payment.ID, string(data)); err != nil {
			return err
		}
		updated = payment
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	return updated, nil
}
