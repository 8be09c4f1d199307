package store

import (
	"context"

	"miningdash/internal/models"

	"github.com/shopspring/decimal"
)

// MiningTransactionStore is append-only: there is no update or delete path.
type MiningTransactionStore struct {
	db DB
}

type MiningTransactionInput struct {
	ID             string
	UserID         string
	RigID          *string
	Type           string
	Cryptocurrency string
	Amount         decimal.Decimal
	USDValue       decimal.Decimal
}

func NewMiningTransactionStore(db DB) *MiningTransactionStore {
	return &MiningTransactionStore{db: db}
}

const miningTxColumns = `id, user_id, rig_id, type, cryptocurrency, amount, usd_value, timestamp`

func (s *MiningTransactionStore) Create(ctx context.Context, tx Getter, input MiningTransactionInput) (models.MiningTransaction, error) {
	var created models.MiningTransaction
	err := tx.GetContext(ctx, &created, `
		INSERT INTO mining_transactions (id, user_id, rig_id, type, cryptocurrency, amount, usd_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+miningTxColumns,
		input.ID, input.UserID, input.RigID, input.Type, input.Cryptocurrency, input.Amount, input.USDValue,
	)
	return created, err
}

func (s *MiningTransactionStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.MiningTransaction, error) {
	txs := []models.MiningTransaction{}
	err := s.db.SelectContext(ctx, &txs, `
		SELECT `+miningTxColumns+`
		FROM mining_transactions
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	return txs, nil
}
