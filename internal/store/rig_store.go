package store

import (
	"context"

	"miningdash/internal/models"
)

type RigStore struct {
	db DB
}

func NewRigStore(db DB) *RigStore {
	return &RigStore{db: db}
}

const rigColumns = `id, user_id, name, model, cryptocurrency, hash_rate, hash_rate_unit, power_consumption, is_active, daily_earnings, created_at`

func (s *RigStore) ListByOwner(ctx context.Context, ownerID string) ([]models.MiningRig, error) {
	rigs := []models.MiningRig{}
	err := s.db.SelectContext(ctx, &rigs, `
		SELECT `+rigColumns+`
		FROM mining_rigs
		WHERE user_id = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return rigs, nil
}

func (s *RigStore) GetByID(ctx context.Context, ownerID, rigID string) (models.MiningRig, error) {
	var rig models.MiningRig
	err := s.db.GetContext(ctx, &rig, `
		SELECT `+rigColumns+`
		FROM mining_rigs
		WHERE id = $1 AND user_id = $2
	`, rigID, ownerID)
	return rig, notFound(err)
}

func (s *RigStore) Create(ctx context.Context, rig models.MiningRig) (models.MiningRig, error) {
	var created models.MiningRig
	err := s.db.GetContext(ctx, &created, `
		INSERT INTO mining_rigs (id, user_id, name, model, cryptocurrency, hash_rate, hash_rate_unit, power_consumption, is_active, daily_earnings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+rigColumns,
		rig.ID, rig.UserID, rig.Name, rig.Model, rig.Cryptocurrency, rig.HashRate, rig.HashRateUnit,
		rig.PowerConsumption, rig.IsActive, rig.DailyEarnings,
	)
	return created, err
}

// Update applies the non-nil fields of patch to a rig owned by ownerID.
func (s *RigStore) Update(ctx context.Context, ownerID, rigID string, patch models.RigPatch) (models.MiningRig, error) {
	var updated models.MiningRig
	err := s.db.GetContext(ctx, &updated, `
		UPDATE mining_rigs
		SET name = COALESCE($3, name),
		    model = COALESCE($4, model),
		    cryptocurrency = COALESCE($5, cryptocurrency),
		    hash_rate = COALESCE($6, hash_rate),
		    hash_rate_unit = COALESCE($7, hash_rate_unit),
		    power_consumption = COALESCE($8, power_consumption),
		    is_active = COALESCE($9, is_active),
		    daily_earnings = COALESCE($10, daily_earnings)
		WHERE id = $1 AND user_id = $2
		RETURNING `+rigColumns,
		rigID, ownerID, patch.Name, patch.Model, patch.Cryptocurrency, patch.HashRate, patch.HashRateUnit,
		patch.PowerConsumption, patch.IsActive, patch.DailyEarnings,
	)
	return updated, notFound(err)
}

func (s *RigStore) Delete(ctx context.Context, ownerID, rigID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM mining_rigs WHERE id = $1 AND user_id = $2`, rigID, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListOwners returns every owner with at least one rig.
func (s *RigStore) ListOwners(ctx context.Context) ([]string, error) {
	owners := []string{}
	err := s.db.SelectContext(ctx, &owners, `
		SELECT DISTINCT user_id
		FROM mining_rigs
		ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	return owners, nil
}
