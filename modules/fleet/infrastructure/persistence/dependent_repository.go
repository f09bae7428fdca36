package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
)

// DependentRepository answers the pruner's "which of these vehicles are still
// referenced" question in one batch query across the order and trip tables.
type DependentRepository struct{}

func NewDependentRepository() vehicle.DependentChecker {
	return &DependentRepository{}
}

func (r *DependentRepository) ReferencedVehicleIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	referenced := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return referenced, nil
	}

	tx, _, err := txAndTenant(ctx)
	if err != nil {
		return nil, err
	}

	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}

	rows, err := tx.Query(ctx, `
		SELECT DISTINCT vehicle_id FROM order_waybills WHERE vehicle_id = ANY($1)
		UNION
		SELECT DISTINCT vehicle_id FROM trips WHERE vehicle_id = ANY($1)`,
		idStrings,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		referenced[id] = struct{}{}
	}
	return referenced, rows.Err()
}
