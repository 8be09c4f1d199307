package store

import (
	"context"

	"miningdash/internal/models"

	"github.com/shopspring/decimal"
)

type PaymentStore struct {
	db DB
}

type PaymentInput struct {
	ID              string
	UserID          string
	Network         string
	Amount          decimal.Decimal
	Currency        string
	ToAddress       string
	FromAddress     *string
	TransactionHash *string
	Status          string
	Purpose         *string
}

func NewPaymentStore(db DB) *PaymentStore {
	return &PaymentStore{db: db}
}

const paymentColumns = `id, user_id, network, amount, currency, to_address, from_address, transaction_hash, status, purpose, timestamp`

func (s *PaymentStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := s.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *PaymentStore) GetByID(ctx context.Context, ownerID, paymentID string) (models.Payment, error) {
	var payment models.Payment
	err := s.db.GetContext(ctx, &payment, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1 AND user_id = $2
	`, paymentID, ownerID)
	return payment, notFound(err)
}

func (s *PaymentStore) Create(ctx context.Context, input PaymentInput) (models.Payment, error) {
	var payment models.Payment
	err := s.db.GetContext(ctx, &payment, `
		INSERT INTO payments (id, user_id, network, amount, currency, to_address, from_address, transaction_hash, status, purpose)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+paymentColumns,
		input.ID, input.UserID, input.Network, input.Amount, input.Currency, input.ToAddress,
		input.FromAddress, input.TransactionHash, input.Status, input.Purpose,
	)
	return payment, err
}

// UpdateStatus sets the status and, when given, the transaction hash. A nil hash keeps the stored one.
func (s *PaymentStore) UpdateStatus(ctx context.Context, tx Getter, ownerID, paymentID, status string, transactionHash *string) (models.Payment, error) {
	var payment models.Payment
	err := tx.GetContext(ctx, &payment, `
		UPDATE payments
		SET status = $3, transaction_hash = COALESCE($4, transaction_hash)
		WHERE id = $1 AND user_id = $2
		RETURNING `+paymentColumns,
		paymentID, ownerID, status, transactionHash,
	)
	return payment, notFound(err)
}
