package vehicle

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNew_TrimsAndNullsKeys(t *testing.T) {
	tenantID := uuid.New()
	v := New(tenantID, Attributes{
		Name:   "  Truck 7 ",
		Asset:  strPtr("  "),
		DoorNo: strPtr(" D-12 "),
	})

	require.Equal(t, tenantID, v.TenantID())
	require.Equal(t, "Truck 7", v.Name())
	require.Nil(t, v.Asset(), "blank asset should normalize to null")
	require.NotNil(t, v.DoorNo())
	require.Equal(t, "D-12", *v.DoorNo())
}

func TestReplaceAttributes_KeepsIdentityAndOwnership(t *testing.T) {
	id := uuid.New()
	tenantID := uuid.New()
	createdAt := time.Now().Add(-time.Hour)

	v := Hydrate(id, tenantID, Attributes{Name: "Old", Asset: strPtr("A-5")}, createdAt, createdAt)
	updated := v.ReplaceAttributes(Attributes{Name: "Truck X", Asset: strPtr("A-5")})

	require.Equal(t, id, updated.ID())
	require.Equal(t, tenantID, updated.TenantID())
	require.Equal(t, createdAt, updated.CreatedAt())
	require.Equal(t, "Truck X", updated.Name())
}

func TestAttributesEqual(t *testing.T) {
	year := 2019
	base := Attributes{
		Name:     "Truck",
		Category: CategoryTruck,
		Type:     TypeVehicle,
		Asset:    strPtr("A-1"),
		Year:     &year,
	}

	same := base
	sameYear := 2019
	same.Asset = strPtr("A-1")
	same.Year = &sameYear
	require.True(t, base.Equal(same), "pointer fields compare by value")

	diff := base
	diff.Asset = nil
	require.False(t, base.Equal(diff))

	diff = base
	otherYear := 2020
	diff.Year = &otherYear
	require.False(t, base.Equal(diff))
}

func TestCategoryAndTypeValidity(t *testing.T) {
	require.True(t, CategoryTrailer.IsValid())
	require.False(t, Category("hovercraft").IsValid())
	require.True(t, TypeAttachment.IsValid())
	require.False(t, Type("boat").IsValid())
}
