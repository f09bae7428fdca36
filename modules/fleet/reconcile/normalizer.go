package reconcile

import (
	"strconv"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
)

// ErrSkipRow signals that a source row has no natural key and cannot be
// reconciled. Callers count it as skipped and move on; it never aborts a run.
var ErrSkipRow = gerrors.New("source row has neither asset nor door number")

// Mapping is the immutable enumeration table the normalizer matches free-text
// category/type values against. Keys are compared lowercased and trimmed.
type Mapping struct {
	Categories      map[string]vehicle.Category
	Types           map[string]vehicle.Type
	DefaultCategory vehicle.Category
	DefaultType     vehicle.Type
	// Strict fails rows with unmapped non-empty category/type values instead
	// of coercing them to the defaults.
	Strict bool
}

// DefaultMapping covers the spellings observed in fleet-management exports.
func DefaultMapping() Mapping {
	return Mapping{
		Categories: map[string]vehicle.Category{
			"truck":        vehicle.CategoryTruck,
			"rigid":        vehicle.CategoryTruck,
			"tractor":      vehicle.CategoryTractor,
			"tractor head": vehicle.CategoryTractor,
			"head":         vehicle.CategoryTractor,
			"trailer":      vehicle.CategoryTrailer,
			"semi-trailer": vehicle.CategoryTrailer,
			"reefer":       vehicle.CategoryReefer,
			"refrigerated": vehicle.CategoryReefer,
			"tanker":       vehicle.CategoryTanker,
			"tank":         vehicle.CategoryTanker,
			"flatbed":      vehicle.CategoryFlatbed,
			"flat bed":     vehicle.CategoryFlatbed,
		},
		Types: map[string]vehicle.Type{
			"vehicle":    vehicle.TypeVehicle,
			"attachment": vehicle.TypeAttachment,
			"equipment":  vehicle.TypeEquipment,
		},
		DefaultCategory: vehicle.CategoryOther,
		DefaultType:     vehicle.TypeVehicle,
	}
}

// Record is a normalized source row ready for matching and upsert.
type Record struct {
	Row   SourceRow
	Attrs vehicle.Attributes
	// Defaulted is set when the category or type fell back to the mapping
	// default; surfaced in the run report for audit.
	Defaulted bool
}

type Normalizer struct {
	mapping Mapping
	log     *logrus.Entry
}

func NewNormalizer(mapping Mapping, log *logrus.Entry) *Normalizer {
	return &Normalizer{mapping: mapping, log: log}
}

// Normalize parses a raw row into typed attributes. Unmapped category/type
// values coerce to defaults instead of failing the row. Returns ErrSkipRow
// when neither natural key survives trimming.
func (n *Normalizer) Normalize(row SourceRow) (Record, error) {
	asset := nullableString(row.Asset)
	doorNo := nullableString(row.DoorNo)
	if asset == nil && doorNo == nil {
		return Record{}, ErrSkipRow
	}

	category, categoryOK := n.lookupCategory(row.Category)
	typ, typeOK := n.lookupType(row.Type)
	defaulted := !categoryOK || !typeOK
	if defaulted && n.mapping.Strict {
		return Record{}, gerrors.Errorf("unmapped category %q or type %q",
			strings.TrimSpace(row.Category), strings.TrimSpace(row.Type))
	}
	if defaulted && n.log != nil {
		n.log.WithFields(logrus.Fields{
			"row":      row.Identifier(),
			"category": strings.TrimSpace(row.Category),
			"type":     strings.TrimSpace(row.Type),
		}).Warn("unmapped category or type, falling back to default")
	}

	return Record{
		Row: row,
		Attrs: vehicle.Attributes{
			Name:            strings.TrimSpace(row.Name),
			Category:        category,
			Type:            typ,
			Asset:           asset,
			DoorNo:          doorNo,
			PlateNumber:     strings.TrimSpace(row.PlateNumber),
			ChassisNumber:   strings.TrimSpace(row.ChassisNo),
			SequenceNumber:  strings.TrimSpace(row.SequenceNo),
			Make:            strings.TrimSpace(row.Manufacturer),
			Model:           strings.TrimSpace(row.Model),
			Year:            parseYear(row.Model),
			Capacity:        parseCapacity(row.Capacity),
			TractorCategory: strings.TrimSpace(row.TractorCategory),
			TrailerCategory: strings.TrimSpace(row.TrailerCategory),
			Agent:           strings.TrimSpace(row.LocalAgent),
			BuiltInTrailer:  parseBool(row.BuiltInTrailer),
			BuiltInReefer:   parseBool(row.BuiltInReefer),
		},
		Defaulted: defaulted,
	}, nil
}

func (n *Normalizer) lookupCategory(raw string) (vehicle.Category, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := n.mapping.Categories[key]; ok {
		return c, true
	}
	return n.mapping.DefaultCategory, key == ""
}

func (n *Normalizer) lookupType(raw string) (vehicle.Type, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if t, ok := n.mapping.Types[key]; ok {
		return t, true
	}
	return n.mapping.DefaultType, key == ""
}

func nullableString(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// parseYear reads a manufacturing year out of the free-text model field.
// Non-numeric input yields null, not zero.
func parseYear(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &year
}

func parseCapacity(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1":
		return true
	}
	return false
}
