package store

import "context"

type AuditStore struct {
	db DB
}

type AuditEntry struct {
	ID         string `db:"id" json:"id"`
	ActorID    string `db:"actor_user_id" json:"actorId"`
	Action     string `db:"action" json:"action"`
	EntityType string `db:"entity_type" json:"entityType"`
	EntityID   string `db:"entity_id" json:"entityId"`
	Data       string `db:"data" json:"data"`
	CreatedAt  any    `db:"created_at" json:"createdAt"`
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Log(ctx context.Context, tx Execer, actorID, action, entityType, entityID, data string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_user_id, action, entity_type, entity_id, data)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4, $5)
	`, actorID, action, entityType, entityID, data)
	return err
}

// ListForEntity returns the trail of one entity owned by actorID, newest first.
func (s *AuditStore) ListForEntity(ctx context.Context, actorID, entityType, entityID string) ([]AuditEntry, error) {
	entries := []AuditEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, actor_user_id, action, entity_type, entity_id, data::text AS data, created_at
		FROM audit_logs
		WHERE actor_user_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at DESC
	`, actorID, entityType, entityID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
