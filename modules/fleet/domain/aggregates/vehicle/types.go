package vehicle

// Category is the closed set of vehicle body categories the registry accepts.
// Free-text source values are mapped onto it during import; anything
// unrecognized falls back to CategoryOther.
type Category string

const (
	CategoryTruck   Category = "truck"
	CategoryTractor Category = "tractor"
	CategoryTrailer Category = "trailer"
	CategoryReefer  Category = "reefer"
	CategoryTanker  Category = "tanker"
	CategoryFlatbed Category = "flatbed"
	CategoryOther   Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryTruck, CategoryTractor, CategoryTrailer, CategoryReefer,
		CategoryTanker, CategoryFlatbed, CategoryOther:
		return true
	}
	return false
}

type Type string

const (
	TypeVehicle    Type = "vehicle"
	TypeAttachment Type = "attachment"
	TypeEquipment  Type = "equipment"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeVehicle, TypeAttachment, TypeEquipment:
		return true
	}
	return false
}
