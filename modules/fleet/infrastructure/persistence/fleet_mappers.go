package persistence

import (
	"github.com/google/uuid"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
	"github.com/pulimoodan/tms/modules/fleet/infrastructure/persistence/models"
)

func toDomainVehicle(row *models.Vehicle) (vehicle.Vehicle, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return vehicle.Vehicle{}, err
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return vehicle.Vehicle{}, err
	}
	return vehicle.Hydrate(
		id,
		tenantID,
		vehicle.Attributes{
			Name:            row.Name,
			Category:        vehicle.Category(row.Category),
			Type:            vehicle.Type(row.Type),
			Asset:           row.Asset,
			DoorNo:          row.DoorNo,
			PlateNumber:     row.PlateNumber,
			ChassisNumber:   row.ChassisNumber,
			SequenceNumber:  row.SequenceNumber,
			Make:            row.Make,
			Model:           row.Model,
			Year:            row.Year,
			Capacity:        row.Capacity,
			TractorCategory: row.TractorCategory,
			TrailerCategory: row.TrailerCategory,
			Agent:           row.Agent,
			BuiltInTrailer:  row.BuiltInTrailer,
			BuiltInReefer:   row.BuiltInReefer,
		},
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDBVehicle(v vehicle.Vehicle) *models.Vehicle {
	attrs := v.Attributes()
	return &models.Vehicle{
		ID:              v.ID().String(),
		TenantID:        v.TenantID().String(),
		Name:            attrs.Name,
		Category:        string(attrs.Category),
		Type:            string(attrs.Type),
		Asset:           attrs.Asset,
		DoorNo:          attrs.DoorNo,
		PlateNumber:     attrs.PlateNumber,
		ChassisNumber:   attrs.ChassisNumber,
		SequenceNumber:  attrs.SequenceNumber,
		Make:            attrs.Make,
		Model:           attrs.Model,
		Year:            attrs.Year,
		Capacity:        attrs.Capacity,
		TractorCategory: attrs.TractorCategory,
		TrailerCategory: attrs.TrailerCategory,
		Agent:           attrs.Agent,
		BuiltInTrailer:  attrs.BuiltInTrailer,
		BuiltInReefer:   attrs.BuiltInReefer,
		CreatedAt:       v.CreatedAt(),
		UpdatedAt:       v.UpdatedAt(),
	}
}
