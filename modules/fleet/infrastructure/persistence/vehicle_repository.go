package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
	"github.com/pulimoodan/tms/modules/fleet/infrastructure/persistence/models"
	"github.com/pulimoodan/tms/pkg/composables"
	"github.com/pulimoodan/tms/pkg/repo"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const vehicleColumns = `id, tenant_id, name, category, type, asset, door_no,
	plate_number, chassis_no, sequence_no, make, model, year, capacity,
	tractor_category, trailer_category, agent, built_in_trailer, built_in_reefer,
	created_at, updated_at`

type VehicleRepository struct{}

func NewVehicleRepository() vehicle.Repository {
	return &VehicleRepository{}
}

func (r *VehicleRepository) GetPaginated(ctx context.Context, params *vehicle.FindParams) ([]vehicle.Vehicle, int64, error) {
	if params == nil {
		params = &vehicle.FindParams{}
	}

	tx, tenantID, err := txAndTenant(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	if q := strings.TrimSpace(params.Q); q != "" {
		where = append(where, "(name ILIKE $2 OR asset ILIKE $2 OR door_no ILIKE $2 OR plate_number ILIKE $2)")
		args = append(args, "%"+q+"%")
	}

	query := `SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC`
	query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)

	vehicles, err := r.queryVehicles(ctx, tx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM vehicles WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (vehicle.Vehicle, error) {
	return r.getOne(ctx, "id = $2", id.String())
}

func (r *VehicleRepository) GetByAsset(ctx context.Context, asset string) (vehicle.Vehicle, error) {
	return r.getOne(ctx, "asset = $2", strings.TrimSpace(asset))
}

func (r *VehicleRepository) GetByDoorNo(ctx context.Context, doorNo string) (vehicle.Vehicle, error) {
	return r.getOne(ctx, "door_no = $2", strings.TrimSpace(doorNo))
}

func (r *VehicleRepository) getOne(ctx context.Context, cond string, arg interface{}) (vehicle.Vehicle, error) {
	tx, tenantID, err := txAndTenant(ctx)
	if err != nil {
		return vehicle.Vehicle{}, err
	}

	query := `SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE tenant_id = $1 AND ` + cond + `
		ORDER BY created_at ASC
		LIMIT 1`

	vehicles, err := r.queryVehicles(ctx, tx, query, tenantID, arg)
	if err != nil {
		return vehicle.Vehicle{}, err
	}
	if len(vehicles) == 0 {
		return vehicle.Vehicle{}, vehicle.ErrNotFound
	}
	return vehicles[0], nil
}

func (r *VehicleRepository) ListWithAsset(ctx context.Context) ([]vehicle.Vehicle, error) {
	tx, tenantID, err := txAndTenant(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE tenant_id = $1 AND asset IS NOT NULL
		ORDER BY created_at ASC`
	return r.queryVehicles(ctx, tx, query, tenantID)
}

func (r *VehicleRepository) Keys(ctx context.Context) (vehicle.KeyInventory, error) {
	tx, tenantID, err := txAndTenant(ctx)
	if err != nil {
		return vehicle.KeyInventory{}, err
	}

	var inv vehicle.KeyInventory
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE asset IS NULL AND door_no IS NULL)
		FROM vehicles
		WHERE tenant_id = $1`,
		tenantID,
	).Scan(&inv.TotalVehicles, &inv.NullKeyCount); err != nil {
		return vehicle.KeyInventory{}, err
	}

	rows, err := tx.Query(ctx, `
		SELECT DISTINCT asset FROM vehicles
		WHERE tenant_id = $1 AND asset IS NOT NULL
		ORDER BY asset`,
		tenantID,
	)
	if err != nil {
		return vehicle.KeyInventory{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var asset string
		if err := rows.Scan(&asset); err != nil {
			return vehicle.KeyInventory{}, err
		}
		inv.Assets = append(inv.Assets, asset)
	}
	return inv, rows.Err()
}

func (r *VehicleRepository) Create(ctx context.Context, v vehicle.Vehicle) (vehicle.Vehicle, error) {
	tx, tenantID, err := txAndTenant(ctx)
	if err != nil {
		return vehicle.Vehicle{}, err
	}

	dbRow := toDBVehicle(v)
	if v.ID() == uuid.Nil {
		dbRow.ID = uuid.New().String()
	}
	if v.TenantID() == uuid.Nil {
		dbRow.TenantID = tenantID.String()
	}
	now := time.Now()
	dbRow.CreatedAt = now
	dbRow.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		dbRow.ID, dbRow.TenantID, dbRow.Name, dbRow.Category, dbRow.Type,
		dbRow.Asset, dbRow.DoorNo, dbRow.PlateNumber, dbRow.ChassisNumber,
		dbRow.SequenceNumber, dbRow.Make, dbRow.Model, dbRow.Year, dbRow.Capacity,
		dbRow.TractorCategory, dbRow.TrailerCategory, dbRow.Agent,
		dbRow.BuiltInTrailer, dbRow.BuiltInReefer, dbRow.CreatedAt, dbRow.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return vehicle.Vehicle{}, vehicle.ErrAssetTaken
		}
		return vehicle.Vehicle{}, gerrors.Wrap(err, "failed to create vehicle")
	}
	return toDomainVehicle(dbRow)
}

func (r *VehicleRepository) Update(ctx context.Context, v vehicle.Vehicle) error {
	tx, tenantID, err := txAndTenant(ctx)
	if err != nil {
		return err
	}

	dbRow := toDBVehicle(v)
	// tenant_id is deliberately absent from the SET list: ownership never
	// changes after creation.
	tag, err := tx.Exec(ctx, `
		UPDATE vehicles SET
			name = $3, category = $4, type = $5, asset = $6, door_no = $7,
			plate_number = $8, chassis_no = $9, sequence_no = $10, make = $11,
			model = $12, year = $13, capacity = $14, tractor_category = $15,
			trailer_category = $16, agent = $17, built_in_trailer = $18,
			built_in_reefer = $19, updated_at = $20
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, dbRow.ID, dbRow.Name, dbRow.Category, dbRow.Type,
		dbRow.Asset, dbRow.DoorNo, dbRow.PlateNumber, dbRow.ChassisNumber,
		dbRow.SequenceNumber, dbRow.Make, dbRow.Model, dbRow.Year, dbRow.Capacity,
		dbRow.TractorCategory, dbRow.TrailerCategory, dbRow.Agent,
		dbRow.BuiltInTrailer, dbRow.BuiltInReefer, time.Now(),
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update vehicle")
	}
	if tag.RowsAffected() == 0 {
		return vehicle.ErrNotFound
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, tenantID, err := txAndTenant(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM vehicles WHERE tenant_id = $1 AND id = $2`,
		tenantID, id.String(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return vehicle.ErrReferenced
		}
		return gerrors.Wrap(err, "failed to delete vehicle")
	}
	if tag.RowsAffected() == 0 {
		return vehicle.ErrNotFound
	}
	return nil
}

func (r *VehicleRepository) queryVehicles(ctx context.Context, tx repo.Tx, query string, args ...interface{}) ([]vehicle.Vehicle, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []vehicle.Vehicle
	for rows.Next() {
		var row models.Vehicle
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.Name, &row.Category, &row.Type,
			&row.Asset, &row.DoorNo, &row.PlateNumber, &row.ChassisNumber,
			&row.SequenceNumber, &row.Make, &row.Model, &row.Year, &row.Capacity,
			&row.TractorCategory, &row.TrailerCategory, &row.Agent,
			&row.BuiltInTrailer, &row.BuiltInReefer, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		v, err := toDomainVehicle(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func txAndTenant(ctx context.Context) (repo.Tx, uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to get tenant from context: %w", err)
	}
	return tx, tenantID, nil
}
