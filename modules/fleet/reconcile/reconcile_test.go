package reconcile

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
)

func strPtr(s string) *string { return &s }

// memRepo is an in-memory vehicle.Repository used by pipeline tests. Entries
// keep insertion order, which doubles as creation-time order.
type memRepo struct {
	vehicles []vehicle.Vehicle
	clock    time.Time

	createErr error
	updateErr error
	deleteErr map[uuid.UUID]error

	deleted []uuid.UUID
	updated []vehicle.Vehicle
}

func newMemRepo() *memRepo {
	return &memRepo{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memRepo) add(tenantID uuid.UUID, attrs vehicle.Attributes) vehicle.Vehicle {
	m.clock = m.clock.Add(time.Minute)
	v := vehicle.Hydrate(uuid.New(), tenantID, attrs, m.clock, m.clock)
	m.vehicles = append(m.vehicles, v)
	return v
}

func (m *memRepo) isDeleted(id uuid.UUID) bool {
	for _, d := range m.deleted {
		if d == id {
			return true
		}
	}
	return false
}

func (m *memRepo) live() []vehicle.Vehicle {
	var out []vehicle.Vehicle
	for _, v := range m.vehicles {
		if !m.isDeleted(v.ID()) {
			out = append(out, v)
		}
	}
	return out
}

func (m *memRepo) GetPaginated(ctx context.Context, params *vehicle.FindParams) ([]vehicle.Vehicle, int64, error) {
	live := m.live()
	return live, int64(len(live)), nil
}

func (m *memRepo) GetByID(ctx context.Context, id uuid.UUID) (vehicle.Vehicle, error) {
	for _, v := range m.live() {
		if v.ID() == id {
			return v, nil
		}
	}
	return vehicle.Vehicle{}, vehicle.ErrNotFound
}

func (m *memRepo) GetByAsset(ctx context.Context, asset string) (vehicle.Vehicle, error) {
	asset = strings.TrimSpace(asset)
	for _, v := range m.live() {
		if v.Asset() != nil && *v.Asset() == asset {
			return v, nil
		}
	}
	return vehicle.Vehicle{}, vehicle.ErrNotFound
}

func (m *memRepo) GetByDoorNo(ctx context.Context, doorNo string) (vehicle.Vehicle, error) {
	doorNo = strings.TrimSpace(doorNo)
	for _, v := range m.live() {
		if v.DoorNo() != nil && *v.DoorNo() == doorNo {
			return v, nil
		}
	}
	return vehicle.Vehicle{}, vehicle.ErrNotFound
}

func (m *memRepo) ListWithAsset(ctx context.Context) ([]vehicle.Vehicle, error) {
	var out []vehicle.Vehicle
	for _, v := range m.live() {
		if v.Asset() != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memRepo) Keys(ctx context.Context) (vehicle.KeyInventory, error) {
	inv := vehicle.KeyInventory{}
	seen := make(map[string]struct{})
	for _, v := range m.live() {
		inv.TotalVehicles++
		if v.Asset() == nil {
			if v.DoorNo() == nil {
				inv.NullKeyCount++
			}
			continue
		}
		if _, ok := seen[*v.Asset()]; !ok {
			seen[*v.Asset()] = struct{}{}
			inv.Assets = append(inv.Assets, *v.Asset())
		}
	}
	return inv, nil
}

func (m *memRepo) Create(ctx context.Context, v vehicle.Vehicle) (vehicle.Vehicle, error) {
	if m.createErr != nil {
		return vehicle.Vehicle{}, m.createErr
	}
	created := m.add(v.TenantID(), v.Attributes())
	return created, nil
}

func (m *memRepo) Update(ctx context.Context, v vehicle.Vehicle) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i, existing := range m.vehicles {
		if existing.ID() == v.ID() {
			m.vehicles[i] = vehicle.Hydrate(
				existing.ID(), existing.TenantID(), v.Attributes(),
				existing.CreatedAt(), time.Now(),
			)
			m.updated = append(m.updated, m.vehicles[i])
			return nil
		}
	}
	return vehicle.ErrNotFound
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err, ok := m.deleteErr[id]; ok {
		return err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// memDeps is a fixed-answer vehicle.DependentChecker.
type memDeps struct {
	referenced map[uuid.UUID]struct{}
	queried    [][]uuid.UUID
}

func newMemDeps(ids ...uuid.UUID) *memDeps {
	referenced := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		referenced[id] = struct{}{}
	}
	return &memDeps{referenced: referenced}
}

func (m *memDeps) ReferencedVehicleIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	m.queried = append(m.queried, ids)
	out := make(map[uuid.UUID]struct{})
	for _, id := range ids {
		if _, ok := m.referenced[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}
