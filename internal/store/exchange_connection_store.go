package store

import (
	"context"

	"miningdash/internal/models"

	"github.com/google/uuid"
)

type ExchangeConnectionStore struct {
	db DB
}

type ExchangeConnectionInput struct {
	Exchange    string
	IsConnected bool
	APIKeyID    *string
	Settings    models.Settings
}

func NewExchangeConnectionStore(db DB) *ExchangeConnectionStore {
	return &ExchangeConnectionStore{db: db}
}

const connectionColumns = `id, user_id, exchange, is_connected, api_key_id, settings, last_sync`

func (s *ExchangeConnectionStore) ListByOwner(ctx context.Context, ownerID string) ([]models.ExchangeConnection, error) {
	conns := []models.ExchangeConnection{}
	err := s.db.SelectContext(ctx, &conns, `
		SELECT `+connectionColumns+`
		FROM exchange_connections
		WHERE user_id = $1
		ORDER BY exchange
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return conns, nil
}

// Upsert keeps one row per (owner, exchange). last_sync is stamped only when an
// existing connection is updated.
func (s *ExchangeConnectionStore) Upsert(ctx context.Context, ownerID string, input ExchangeConnectionInput) (models.ExchangeConnection, error) {
	settings := input.Settings
	if settings == nil {
		settings = models.Settings{}
	}
	var conn models.ExchangeConnection
	err := s.db.GetContext(ctx, &conn, `
		INSERT INTO exchange_connections (id, user_id, exchange, is_connected, api_key_id, settings)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, exchange)
		DO UPDATE SET is_connected = EXCLUDED.is_connected,
		              api_key_id = EXCLUDED.api_key_id,
		              settings = EXCLUDED.settings,
		              last_sync = NOW()
		RETURNING `+connectionColumns,
		uuid.NewString(), ownerID, input.Exchange, input.IsConnected, input.APIKeyID, settings,
	)
	return conn, err
}
