package services

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
	"github.com/pulimoodan/tms/pkg/composables"
	"github.com/pulimoodan/tms/pkg/eventbus"
)

// VehicleService is the CRUD surface of the vehicle registry. The import
// pipeline writes through the repository directly; this service backs the
// regular back-office pages and publishes domain events.
type VehicleService struct {
	repo      vehicle.Repository
	publisher eventbus.EventBus
}

func NewVehicleService(repo vehicle.Repository, publisher eventbus.EventBus) *VehicleService {
	return &VehicleService{
		repo:      repo,
		publisher: publisher,
	}
}

// validateAttrs guards the CRUD surface. The import pipeline does not pass
// through here; its normalizer guarantees valid enums on its own.
func validateAttrs(attrs vehicle.Attributes) error {
	if !attrs.Category.IsValid() {
		return gerrors.Errorf("invalid vehicle category %q", attrs.Category)
	}
	if !attrs.Type.IsValid() {
		return gerrors.Errorf("invalid vehicle type %q", attrs.Type)
	}
	return nil
}

func (s *VehicleService) GetPaginated(ctx context.Context, params *vehicle.FindParams) ([]vehicle.Vehicle, int64, error) {
	type page struct {
		items []vehicle.Vehicle
		total int64
	}
	result, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (page, error) {
		items, total, err := s.repo.GetPaginated(txCtx, params)
		return page{items: items, total: total}, err
	})
	return result.items, result.total, err
}

func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (vehicle.Vehicle, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (vehicle.Vehicle, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *VehicleService) Create(ctx context.Context, attrs vehicle.Attributes) (vehicle.Vehicle, error) {
	if err := validateAttrs(attrs); err != nil {
		return vehicle.Vehicle{}, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (vehicle.Vehicle, error) {
		tenantID, err := composables.UseTenantID(txCtx)
		if err != nil {
			return vehicle.Vehicle{}, err
		}
		created, err := s.repo.Create(txCtx, vehicle.New(tenantID, attrs))
		if err != nil {
			return vehicle.Vehicle{}, err
		}
		s.publisher.Publish(&vehicle.CreatedEvent{Result: created})
		return created, nil
	})
}

func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, attrs vehicle.Attributes) (vehicle.Vehicle, error) {
	if err := validateAttrs(attrs); err != nil {
		return vehicle.Vehicle{}, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (vehicle.Vehicle, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return vehicle.Vehicle{}, err
		}
		updated := existing.ReplaceAttributes(attrs)
		if err := s.repo.Update(txCtx, updated); err != nil {
			return vehicle.Vehicle{}, err
		}
		s.publisher.Publish(&vehicle.UpdatedEvent{Result: updated})
		return updated, nil
	})
}

func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		s.publisher.Publish(&vehicle.DeletedEvent{Result: existing})
		return nil
	})
}
