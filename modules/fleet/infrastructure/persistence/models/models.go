package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Vehicle struct {
	ID              string
	TenantID        string
	Name            string
	Category        string
	Type            string
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
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
