package store

import (
	"context"

	"miningdash/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PortfolioStore struct {
	db DB
}

func NewPortfolioStore(db DB) *PortfolioStore {
	return &PortfolioStore{db: db}
}

const balanceColumns = `id, user_id, cryptocurrency, amount, last_updated`

func (s *PortfolioStore) ListByOwner(ctx context.Context, ownerID string) ([]models.PortfolioBalance, error) {
	balances := []models.PortfolioBalance{}
	err := s.db.SelectContext(ctx, &balances, `
		SELECT `+balanceColumns+`
		FROM portfolio_balances
		WHERE user_id = $1
		ORDER BY cryptocurrency
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return balances, nil
}

func (s *PortfolioStore) Get(ctx context.Context, ownerID, crypto string) (models.PortfolioBalance, error) {
	var balance models.PortfolioBalance
	err := s.db.GetContext(ctx, &balance, `
		SELECT `+balanceColumns+`
		FROM portfolio_balances
		WHERE user_id = $1 AND cryptocurrency = $2
	`, ownerID, crypto)
	return balance, notFound(err)
}

// Set overwrites the owner's balance for crypto, creating the row if absent.
func (s *PortfolioStore) Set(ctx context.Context, ownerID, crypto string, amount decimal.Decimal) (models.PortfolioBalance, error) {
	var balance models.PortfolioBalance
	err := s.db.GetContext(ctx, &balance, `
		INSERT INTO portfolio_balances (id, user_id, cryptocurrency, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, cryptocurrency)
		DO UPDATE SET amount = EXCLUDED.amount, last_updated = NOW()
		RETURNING `+balanceColumns,
		uuid.NewString(), ownerID, crypto, amount,
	)
	return balance, err
}

// Credit adds delta to the owner's balance in a single statement: a missing row
// starts at delta, an existing one is incremented in place.
func (s *PortfolioStore) Credit(ctx context.Context, tx Getter, ownerID, crypto string, delta decimal.Decimal) (models.PortfolioBalance, error) {
	var balance models.PortfolioBalance
	err := tx.GetContext(ctx, &balance, `
		INSERT INTO portfolio_balances (id, user_id, cryptocurrency, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, cryptocurrency)
		DO UPDATE SET amount = portfolio_balances.amount + EXCLUDED.amount, last_updated = NOW()
		RETURNING `+balanceColumns,
		uuid.NewString(), ownerID, crypto, delta,
	)
	return balance, err
}
