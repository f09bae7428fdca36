package vehicle

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Attributes are the descriptive fields of a registry entry. They are
// replaced wholesale on import updates; identity and tenant ownership are not
// part of them.
type Attributes struct {
	Name            string
	Category        Category
	Type            Type
	Asset           *string
	DoorNo          *string
	PlateNumber     string
	ChassisNumber   string
	SequenceNumber  string
	Make            string
	Model           string
	Year            *int
	Capacity        *decimal.Decimal
	TractorCategory string
	TrailerCategory string
	Agent           string
	BuiltInTrailer  bool
	BuiltInReefer   bool
}

func (a Attributes) normalized() Attributes {
	a.Name = strings.TrimSpace(a.Name)
	a.Asset = trimmedKey(a.Asset)
	a.DoorNo = trimmedKey(a.DoorNo)
	a.PlateNumber = strings.TrimSpace(a.PlateNumber)
	a.ChassisNumber = strings.TrimSpace(a.ChassisNumber)
	a.SequenceNumber = strings.TrimSpace(a.SequenceNumber)
	a.Make = strings.TrimSpace(a.Make)
	a.Model = strings.TrimSpace(a.Model)
	a.TractorCategory = strings.TrimSpace(a.TractorCategory)
	a.TrailerCategory = strings.TrimSpace(a.TrailerCategory)
	a.Agent = strings.TrimSpace(a.Agent)
	return a
}

// Equal compares attribute values, dereferencing the nullable fields.
func (a Attributes) Equal(b Attributes) bool {
	return a.Name == b.Name &&
		a.Category == b.Category &&
		a.Type == b.Type &&
		eqStr(a.Asset, b.Asset) &&
		eqStr(a.DoorNo, b.DoorNo) &&
		a.PlateNumber == b.PlateNumber &&
		a.ChassisNumber == b.ChassisNumber &&
		a.SequenceNumber == b.SequenceNumber &&
		a.Make == b.Make &&
		a.Model == b.Model &&
		eqInt(a.Year, b.Year) &&
		eqDecimal(a.Capacity, b.Capacity) &&
		a.TractorCategory == b.TractorCategory &&
		a.TrailerCategory == b.TrailerCategory &&
		a.Agent == b.Agent &&
		a.BuiltInTrailer == b.BuiltInTrailer &&
		a.BuiltInReefer == b.BuiltInReefer
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func eqDecimal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func trimmedKey(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

type Vehicle struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	attrs     Attributes
	createdAt time.Time
	updatedAt time.Time
}

func New(tenantID uuid.UUID, attrs Attributes) Vehicle {
	return Vehicle{
		tenantID: tenantID,
		attrs:    attrs.normalized(),
	}
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	attrs Attributes,
	createdAt time.Time,
	updatedAt time.Time,
) Vehicle {
	return Vehicle{
		id:        id,
		tenantID:  tenantID,
		attrs:     attrs.normalized(),
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ReplaceAttributes returns a copy with every descriptive attribute taken
// from attrs. Identity, tenant ownership and creation time carry over
// unchanged.
func (v Vehicle) ReplaceAttributes(attrs Attributes) Vehicle {
	v.attrs = attrs.normalized()
	return v
}

func (v Vehicle) ID() uuid.UUID          { return v.id }
func (v Vehicle) TenantID() uuid.UUID    { return v.tenantID }
func (v Vehicle) Attributes() Attributes { return v.attrs }
func (v Vehicle) Name() string           { return v.attrs.Name }
func (v Vehicle) Category() Category     { return v.attrs.Category }
func (v Vehicle) Type() Type             { return v.attrs.Type }
func (v Vehicle) Asset() *string         { return v.attrs.Asset }
func (v Vehicle) DoorNo() *string        { return v.attrs.DoorNo }
func (v Vehicle) CreatedAt() time.Time   { return v.createdAt }
func (v Vehicle) UpdatedAt() time.Time   { return v.updatedAt }
