package reconcile

import (
	"context"
	"errors"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
)

// Resolver finds the registry entry a normalized record reconciles onto,
// using a prioritized two-key strategy: asset tags are the preferred key, but
// door numbers serve as a fallback because they survive re-exports intact
// more often than asset tags do.
type Resolver struct {
	repo vehicle.Repository
}

func NewResolver(repo vehicle.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the matched entry and true, or a zero entry and false when
// the record should create a new one.
func (r *Resolver) Resolve(ctx context.Context, rec Record) (vehicle.Vehicle, bool, error) {
	if rec.Attrs.Asset != nil {
		v, err := r.repo.GetByAsset(ctx, *rec.Attrs.Asset)
		if err == nil {
			return v, true, nil
		}
		if !errors.Is(err, vehicle.ErrNotFound) {
			return vehicle.Vehicle{}, false, err
		}
	}

	// Fallback lookup by door number. This also covers records whose asset
	// tag changed between exports while the door number stayed put.
	if rec.Attrs.DoorNo != nil {
		v, err := r.repo.GetByDoorNo(ctx, *rec.Attrs.DoorNo)
		if err == nil {
			return v, true, nil
		}
		if !errors.Is(err, vehicle.ErrNotFound) {
			return vehicle.Vehicle{}, false, err
		}
	}

	return vehicle.Vehicle{}, false, nil
}
