package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorValue(t *testing.T) {
	tests := []struct {
		name  string
		floor string
		want  float64
	}{
		{"numeric", "3", 3},
		{"numeric with spaces", " 5 ", 5},
		{"ground", "bj", 0},
		{"mezzanine", "en", 0.5},
		{"semi basement", "st", -0.5},
		{"basement", "ss", -1},
		{"uppercase token", "BJ", 0},
		{"empty", "", 0},
		{"unparseable", "attic", 0},
		{"negative numeric", "-1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := RawListing{Floor: tt.floor}
			assert.InDelta(t, tt.want, l.FloorValue(), 0.0001)
		})
	}
}

func TestTriStateFlags(t *testing.T) {
	yes := true
	no := false

	l := RawListing{}
	assert.False(t, l.HasLiftValue())
	assert.False(t, l.ExteriorValue())

	l.HasLift = &yes
	l.Exterior = &no
	assert.True(t, l.HasLiftValue())
	assert.False(t, l.ExteriorValue())
}

func TestHasParking(t *testing.T) {
	l := RawListing{}
	assert.False(t, l.HasParking())

	l.Parking = &ParkingSpace{HasParkingSpace: false}
	assert.False(t, l.HasParking())

	l.Parking = &ParkingSpace{HasParkingSpace: true, IsParkingIncludedInPrice: true}
	assert.True(t, l.HasParking())
}

func TestNeedsReform(t *testing.T) {
	assert.True(t, (&RawListing{Status: "renew"}).NeedsReform())
	assert.True(t, (&RawListing{Status: " RENEW "}).NeedsReform())
	assert.False(t, (&RawListing{Status: "good"}).NeedsReform())
	assert.False(t, (&RawListing{}).NeedsReform())
}

func TestPropertyTypeHelpers(t *testing.T) {
	assert.True(t, (&RawListing{PropertyType: "chalet"}).IsHouse())
	assert.True(t, (&RawListing{PropertyType: "countryHouse"}).IsHouse())
	assert.False(t, (&RawListing{PropertyType: "flat"}).IsHouse())

	assert.True(t, (&RawListing{PropertyType: "penthouse"}).IsPenthouse())
	assert.False(t, (&RawListing{PropertyType: "flat"}).IsPenthouse())
}

func TestValid(t *testing.T) {
	base := RawListing{
		PropertyCode: "100",
		Price:        120000,
		Size:         70,
		Latitude:     39.47,
		Longitude:    -0.37,
	}
	assert.True(t, base.Valid())

	noCode := base
	noCode.PropertyCode = ""
	assert.False(t, noCode.Valid())

	nanPrice := base
	nanPrice.Price = math.NaN()
	assert.False(t, nanPrice.Valid())

	infLat := base
	infLat.Latitude = math.Inf(1)
	assert.False(t, infLat.Valid())

	zeroSize := base
	zeroSize.Size = 0
	assert.False(t, zeroSize.Valid())
}

func TestIsLastFloorUnit(t *testing.T) {
	flagged := EnrichedListing{Flags: TextFlags{LastFloor: true}}
	assert.True(t, flagged.IsLastFloorUnit())

	penthouse := EnrichedListing{}
	penthouse.PropertyType = "penthouse"
	assert.True(t, penthouse.IsLastFloorUnit())

	plain := EnrichedListing{}
	plain.PropertyType = "flat"
	assert.False(t, plain.IsLastFloorUnit())
}

func TestFiniteFeatures(t *testing.T) {
	ok := EnrichedListing{}
	assert.True(t, ok.FiniteFeatures())

	bad := EnrichedListing{}
	bad.Finance.BestYield = math.NaN()
	assert.False(t, bad.FiniteFeatures())

	inf := EnrichedListing{}
	inf.DistBeach = math.Inf(-1)
	assert.False(t, inf.FiniteFeatures())
}
