package services

import (
	"context"
	"errors"

	"miningdash/internal/db"
	"miningdash/internal/models"
	"miningdash/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

type MiningTransactionStore interface {
	Create(ctx context.Context, tx store.Getter, input store.MiningTransactionInput) (models.MiningTransaction, error)
}

type PortfolioCreditor interface {
	Credit(ctx context.Context, tx store.Getter, ownerID, crypto string, delta decimal.Decimal) (models.PortfolioBalance, error)
}

// RewardService books simulated mining output: the ledger row and the balance
// increment commit together or not at all.
type RewardService struct {
	txRunner  db.TxRunner
	txStore   MiningTransactionStore
	portfolio PortfolioCreditor
}

func NewRewardService(txRunner db.TxRunner, txStore MiningTransactionStore, portfolio PortfolioCreditor) *RewardService {
	return &RewardService{
		txRunner:  txRunner,
		txStore:   txStore,
		portfolio: portfolio,
	}
}

type Reward struct {
	OwnerID        string
	RigID          string
	Cryptocurrency string
	Amount         decimal.Decimal
	USDValue       decimal.Decimal
}

type RewardResult struct {
	Transaction models.MiningTransaction
	Balance     models.PortfolioBalance
}

func (s *RewardService) Credit(ctx context.Context, reward Reward) (RewardResult, error) {
	if reward.Amount.IsNegative() {
		return RewardResult{}, ErrInvalidAmount
	}
	var result RewardResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var rigID *string
		if reward.RigID != "" {
			rigID = &reward.RigID
		}
		created, err := s.txStore.Create(ctx, tx, store.MiningTransactionInput{
			ID:             uuid.NewString(),
			UserID:         reward.OwnerID,
			RigID:          rigID,
			Type:           models.TxTypeMiningReward,
			Cryptocurrency: reward.Cryptocurrency,
			Amount:         reward.Amount,
			USDValue:       reward.USDValue,
		})
		if err != nil {
			return err
		}
		balance, err := s.portfolio.Credit(ctx, tx, reward.OwnerID, reward.Cryptocurrency, reward.Amount)
		if err != nil {
			return err
		}
		result = RewardResult{Transaction: created, Balance: balance}
		return nil
	})
	if err != nil {
		return RewardResult{}, err
	}
	return result, nil
}
