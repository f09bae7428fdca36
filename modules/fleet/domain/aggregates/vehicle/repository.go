package vehicle

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound   = gerrors.New("vehicle not found")
	ErrAssetTaken = gerrors.New("vehicle with this asset already exists")
	ErrReferenced = gerrors.New("vehicle is referenced by dependent records")
)

type FindParams struct {
	Q      string
	Limit  int
	Offset int
}

// KeyInventory summarizes the natural keys present in the registry, used by
// the matching auditor before a bulk import. NullKeyCount covers entries with
// neither asset nor door number, the ones no import row can ever match.
type KeyInventory struct {
	Assets        []string
	NullKeyCount  int64
	TotalVehicles int64
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Vehicle, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Vehicle, error)
	GetByAsset(ctx context.Context, asset string) (Vehicle, error)
	GetByDoorNo(ctx context.Context, doorNo string) (Vehicle, error)
	// ListWithAsset returns every entry with a non-null asset, ordered by
	// creation time ascending. The duplicate pruner depends on that order to
	// pick group keepers.
	ListWithAsset(ctx context.Context) ([]Vehicle, error)
	Keys(ctx context.Context) (KeyInventory, error)
	Create(ctx context.Context, v Vehicle) (Vehicle, error)
	Update(ctx context.Context, v Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DependentChecker answers which of the given registry entries are referenced
// by other live business records (orders, trips). Entries it reports are
// never deleted by the pruner.
type DependentChecker interface {
	ReferencedVehicleIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
}
