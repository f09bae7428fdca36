package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
	"github.com/pulimoodan/tms/pkg/composables"
	"github.com/pulimoodan/tms/pkg/constants"
)

func testCtx(tenantID uuid.UUID, tx *stubTx) context.Context {
	return context.WithValue(composables.WithTenantID(context.Background(), tenantID), constants.TxKey, tx)
}

func strRef(s string) *string { return &s }

// vehicleRowData builds one scan row in the column order of vehicleColumns.
func vehicleRowData(id, tenantID uuid.UUID, asset, doorNo *string, createdAt time.Time) []any {
	year := 2019
	capacity := decimal.RequireFromString("24.5")
	return []any{
		id.String(), tenantID.String(), "Truck 1", "truck", "vehicle",
		asset, doorNo, "P 1234", "CH-1", "SQ-1",
		"Volvo", "2019", &year, &capacity,
		"", "", "ACME", true, false,
		createdAt, createdAt,
	}
}

func TestVehicleRepository_GetByAsset_MapsRow(t *testing.T) {
	tenantID := uuid.New()
	id := uuid.New()
	now := time.Now()

	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "FROM vehicles")
			require.Contains(t, sql, "asset = $2")
			require.Contains(t, sql, "ORDER BY created_at ASC")
			require.Equal(t, tenantID, args[0])
			require.Equal(t, "A-1", args[1])
			return &stubRows{data: [][]any{
				vehicleRowData(id, tenantID, strRef("A-1"), strRef("D-1"), now),
			}}, nil
		},
	}

	repo := NewVehicleRepository()
	v, err := repo.GetByAsset(testCtx(tenantID, tx), " A-1 ")
	require.NoError(t, err)
	require.Equal(t, id, v.ID())
	require.Equal(t, tenantID, v.TenantID())
	require.Equal(t, "Truck 1", v.Attributes().Name)
	require.Equal(t, vehicle.CategoryTruck, v.Attributes().Category)
	require.Equal(t, "A-1", *v.Asset())
	require.Equal(t, "D-1", *v.DoorNo())
	require.Equal(t, 2019, *v.Attributes().Year)
	require.True(t, v.Attributes().Capacity.Equal(decimal.RequireFromString("24.5")))
	require.True(t, v.Attributes().BuiltInTrailer)
}

func TestVehicleRepository_GetByAsset_NotFound(t *testing.T) {
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &stubRows{}, nil
		},
	}

	repo := NewVehicleRepository()
	_, err := repo.GetByAsset(testCtx(uuid.New(), tx), "A-1")
	require.ErrorIs(t, err, vehicle.ErrNotFound)
}

func TestVehicleRepository_GetByDoorNo_FiltersByDoor(t *testing.T) {
	tenantID := uuid.New()

	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "door_no = $2")
			require.Equal(t, tenantID, args[0])
			require.Equal(t, "D-1", args[1])
			return &stubRows{data: [][]any{
				vehicleRowData(uuid.New(), tenantID, nil, strRef("D-1"), time.Now()),
			}}, nil
		},
	}

	repo := NewVehicleRepository()
	v, err := repo.GetByDoorNo(testCtx(tenantID, tx), "D-1")
	require.NoError(t, err)
	require.Nil(t, v.Asset())
	require.Equal(t, "D-1", *v.DoorNo())
}

func TestVehicleRepository_GetPaginated_AppliesSearchAndLimit(t *testing.T) {
	tenantID := uuid.New()

	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "ILIKE $2")
			require.Contains(t, sql, "LIMIT 10 OFFSET 5")
			require.Equal(t, tenantID, args[0])
			require.Equal(t, "%A-1%", args[1])
			return &stubRows{data: [][]any{
				vehicleRowData(uuid.New(), tenantID, strRef("A-1"), nil, time.Now()),
			}}, nil
		},
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "COUNT(*)")
			return stubRow{scan: func(dest ...any) error {
				*dest[0].(*int64) = 1
				return nil
			}}
		},
	}

	repo := NewVehicleRepository()
	vehicles, total, err := repo.GetPaginated(testCtx(tenantID, tx), &vehicle.FindParams{
		Q:      "A-1",
		Limit:  10,
		Offset: 5,
	})
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	require.Equal(t, int64(1), total)
}

func TestVehicleRepository_ListWithAsset_OrdersByCreation(t *testing.T) {
	tenantID := uuid.New()

	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "asset IS NOT NULL")
			require.Contains(t, sql, "ORDER BY created_at ASC")
			require.Equal(t, tenantID, args[0])
			return &stubRows{data: [][]any{
				vehicleRowData(uuid.New(), tenantID, strRef("A-1"), nil, time.Now()),
				vehicleRowData(uuid.New(), tenantID, strRef("A-1"), nil, time.Now().Add(time.Minute)),
			}}, nil
		},
	}

	repo := NewVehicleRepository()
	vehicles, err := repo.ListWithAsset(testCtx(tenantID, tx))
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	require.True(t, vehicles[0].CreatedAt().Before(vehicles[1].CreatedAt()))
}

func TestVehicleRepository_Keys_CollectsInventory(t *testing.T) {
	tenantID := uuid.New()

	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "FILTER (WHERE asset IS NULL AND door_no IS NULL)")
			require.Equal(t, tenantID, args[0])
			return stubRow{scan: func(dest ...any) error {
				*dest[0].(*int64) = 12
				*dest[1].(*int64) = 3
				return nil
			}}
		},
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "SELECT DISTINCT asset")
			return &stubRows{data: [][]any{{"A-1"}, {"A-2"}}}, nil
		},
	}

	repo := NewVehicleRepository()
	inv, err := repo.Keys(testCtx(tenantID, tx))
	require.NoError(t, err)
	require.Equal(t, int64(12), inv.TotalVehicles)
	require.Equal(t, int64(3), inv.NullKeyCount)
	require.Equal(t, []string{"A-1", "A-2"}, inv.Assets)
}

func TestVehicleRepository_Create_FillsIDAndTenant(t *testing.T) {
	tenantID := uuid.New()

	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			require.Contains(t, sql, "INSERT INTO vehicles")
			require.Len(t, args, 21)
			require.NotEmpty(t, args[0])
			_, err := uuid.Parse(args[0].(string))
			require.NoError(t, err)
			require.Equal(t, tenantID.String(), args[1])
			require.Equal(t, "Truck 1", args[2])
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	repo := NewVehicleRepository()
	created, err := repo.Create(testCtx(tenantID, tx), vehicle.New(uuid.Nil, vehicle.Attributes{
		Name:     "Truck 1",
		Category: vehicle.CategoryTruck,
		Type:     vehicle.TypeVehicle,
		Asset:    strRef("A-1"),
	}))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID())
	require.Equal(t, tenantID, created.TenantID())
	require.NotZero(t, created.CreatedAt())
}

func TestVehicleRepository_Create_UniqueViolation(t *testing.T) {
	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
		},
	}

	repo := NewVehicleRepository()
	_, err := repo.Create(testCtx(uuid.New(), tx), vehicle.New(uuid.New(), vehicle.Attributes{
		Asset: strRef("A-1"),
	}))
	require.ErrorIs(t, err, vehicle.ErrAssetTaken)
}

func TestVehicleRepository_Update_NeverTouchesTenant(t *testing.T) {
	tenantID := uuid.New()
	id := uuid.New()

	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			require.Contains(t, sql, "UPDATE vehicles")
			require.NotContains(t, sql, "tenant_id = $3", "tenant must stay out of the SET list")
			require.Contains(t, sql, "WHERE tenant_id = $1 AND id = $2")
			require.Equal(t, tenantID, args[0])
			require.Equal(t, id.String(), args[1])
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}

	repo := NewVehicleRepository()
	v := vehicle.Hydrate(id, tenantID, vehicle.Attributes{Name: "Renamed"}, time.Now(), time.Now())
	require.NoError(t, repo.Update(testCtx(tenantID, tx), v))
}

func TestVehicleRepository_Update_NotFound(t *testing.T) {
	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}

	repo := NewVehicleRepository()
	v := vehicle.Hydrate(uuid.New(), uuid.New(), vehicle.Attributes{}, time.Now(), time.Now())
	err := repo.Update(testCtx(uuid.New(), tx), v)
	require.ErrorIs(t, err, vehicle.ErrNotFound)
}

func TestVehicleRepository_Delete_ReferencedRowsSurface(t *testing.T) {
	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			require.Contains(t, sql, "DELETE FROM vehicles")
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23503"}
		},
	}

	repo := NewVehicleRepository()
	err := repo.Delete(testCtx(uuid.New(), tx), uuid.New())
	require.ErrorIs(t, err, vehicle.ErrReferenced)
}

func TestVehicleRepository_Delete_ScopedToTenant(t *testing.T) {
	tenantID := uuid.New()
	id := uuid.New()

	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			require.Equal(t, tenantID, args[0])
			require.Equal(t, id.String(), args[1])
			return pgconn.NewCommandTag("DELETE 1"), nil
		},
	}

	repo := NewVehicleRepository()
	require.NoError(t, repo.Delete(testCtx(tenantID, tx), id))
}

func TestVehicleRepository_RequiresConnectionInContext(t *testing.T) {
	repo := NewVehicleRepository()
	_, err := repo.GetByAsset(composables.WithTenantID(context.Background(), uuid.New()), "A-1")
	require.ErrorIs(t, err, composables.ErrNoPool)
}

type stubTx struct {
	queryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("copy not implemented")
}

func (s *stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	var results pgx.BatchResults
	return results
}

func (s *stubTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if s.execFunc == nil {
		return pgconn.CommandTag{}, errors.New("exec not implemented")
	}
	return s.execFunc(ctx, sql, arguments...)
}

func (s *stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.queryFunc == nil {
		return nil, errors.New("query not implemented")
	}
	return s.queryFunc(ctx, sql, args...)
}

func (s *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if s.queryRowFunc == nil {
		return stubRow{scan: func(dest ...any) error { return errors.New("query row not implemented") }}
	}
	return s.queryRowFunc(ctx, sql, args...)
}

type stubRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.data) {
		return errors.New("no current row to scan")
	}
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("destination length %d does not match row length %d", len(dest), len(row))
	}
	for i, target := range dest {
		switch v := target.(type) {
		case *string:
			*v = row[i].(string)
		case **string:
			if row[i] == nil {
				*v = nil
				continue
			}
			*v = row[i].(*string)
		case *int64:
			*v = row[i].(int64)
		case **int:
			if row[i] == nil {
				*v = nil
				continue
			}
			*v = row[i].(*int)
		case **decimal.Decimal:
			if row[i] == nil {
				*v = nil
				continue
			}
			*v = row[i].(*decimal.Decimal)
		case *bool:
			*v = row[i].(bool)
		case *time.Time:
			*v = row[i].(time.Time)
		case *uuid.UUID:
			*v = row[i].(uuid.UUID)
		default:
			return fmt.Errorf("unsupported scan target %T", target)
		}
	}
	return nil
}

func (r *stubRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.data) {
		return nil, errors.New("no current row")
	}
	return r.data[r.idx-1], nil
}

func (r *stubRows) RawValues() [][]byte { return nil }
func (r *stubRows) Err() error          { return r.err }
func (r *stubRows) Close()              {}
func (r *stubRows) CommandTag() pgconn.CommandTag {
	return pgconn.CommandTag{}
}
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return errors.New("scan not implemented")
	}
	return r.scan(dest...)
}
