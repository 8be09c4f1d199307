package handlers

import (
	"context"

	"miningdash/internal/models"
	"miningdash/internal/services"
	"miningdash/internal/store"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, user models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type RigStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.MiningRig, error)
	GetByID(ctx context.Context, ownerID, rigID string) (models.MiningRig, error)
	Create(ctx context.Context, rig models.MiningRig) (models.MiningRig, error)
	Update(ctx context.Context, ownerID, rigID string, patch models.RigPatch) (models.MiningRig, error)
	Delete(ctx context.Context, ownerID, rigID string) (bool, error)
}

type PortfolioStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.PortfolioBalance, error)
	Set(ctx context.Context, ownerID, crypto string, amount decimal.Decimal) (models.PortfolioBalance, error)
}

type TransactionStore interface {
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.MiningTransaction, error)
}

type ExchangeStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.ExchangeConnection, error)
	Upsert(ctx context.Context, ownerID string, input store.ExchangeConnectionInput) (models.ExchangeConnection, error)
}

type PaymentStore interface {
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.Payment, error)
	GetByID(ctx context.Context, ownerID, paymentID string) (models.Payment, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	ListForEntity(ctx context.Context, actorID, entityType, entityID string) ([]store.AuditEntry, error)
}

type PaymentService interface {
	Create(ctx context.Context, req services.CreatePaymentRequest) (models.Payment, error)
	UpdateStatus(ctx context.Context, ownerID, paymentID, status string, transactionHash *string) (models.Payment, error)
}

type PriceSource interface {
	Latest() models.PriceSnapshot
}
