// Package model defines the listing records exchanged between pipeline stages.
package model

import (
	"math"
	"strconv"
	"strings"
)

// ParkingSpace describes the structured parking descriptor attached to a
// listing. Both fields default to false when the descriptor is absent.
type ParkingSpace struct {
	HasParkingSpace         bool `json:"hasParkingSpace"`
	IsParkingIncludedInPrice bool `json:"isParkingSpaceIncludedInPrice"`
}

// RawListing is one listing record as produced by the ingestion layer.
// PropertyCode is the unique identity used for deduplication: after a batch
// is deduplicated at most one record per code survives, keeping the values
// seen last.
type RawListing struct {
	PropertyCode string        `json:"propertyCode"`
	Price        float64       `json:"price"`
	Size         float64       `json:"size"`
	Rooms        int           `json:"rooms"`
	Bathrooms    int           `json:"bathrooms"`
	Floor        string        `json:"floor"`
	HasLift      *bool         `json:"hasLift,omitempty"`
	Exterior     *bool         `json:"exterior,omitempty"`
	Description  string        `json:"description,omitempty"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	Neighborhood string        `json:"neighborhood,omitempty"`
	District     string        `json:"district,omitempty"`
	Parking      *ParkingSpace `json:"parkingSpace,omitempty"`
	PropertyType string        `json:"propertyType"`
	Status       string        `json:"status,omitempty"`
	Photos       []string      `json:"photos,omitempty"`
}

// floorTokens maps the non-numeric floor descriptors that appear in listing
// feeds to a real-valued floor. Ground-level variants coerce to 0, mezzanine
// to 0.5, basements below 0.
var floorTokens = map[string]float64{
	"bj": 0,    // bajo (ground)
	"en": 0.5,  // entresuelo (mezzanine)
	"st": -0.5, // semisótano
	"ss": -1,   // sótano (basement)
}

// FloorValue coerces the floor descriptor to a number. Unknown or empty
// descriptors read as ground level.
func (l *RawListing) FloorValue() float64 {
	f := strings.ToLower(strings.TrimSpace(l.Floor))
	if f == "" {
		return 0
	}
	if v, ok := floorTokens[f]; ok {
		return v
	}
	if v, err := strconv.ParseFloat(f, 64); err == nil {
		return v
	}
	return 0
}

// HasLiftValue resolves the tri-state lift flag; a missing flag reads false.
func (l *RawListing) HasLiftValue() bool {
	return l.HasLift != nil && *l.HasLift
}

// ExteriorValue resolves the tri-state exterior flag; a missing flag reads false.
func (l *RawListing) ExteriorValue() bool {
	return l.Exterior != nil && *l.Exterior
}

// HasParking reports whether the structured parking descriptor marks a space.
func (l *RawListing) HasParking() bool {
	return l.Parking != nil && l.Parking.HasParkingSpace
}

// NeedsReform reports whether the listed status marks a renovation project.
func (l *RawListing) NeedsReform() bool {
	return strings.EqualFold(strings.TrimSpace(l.Status), "renew")
}

// IsHouse reports whether the property type is a house rather than a flat.
func (l *RawListing) IsHouse() bool {
	t := strings.ToLower(l.PropertyType)
	return t == "house" || t == "chalet" || t == "countryhouse"
}

// IsPenthouse reports whether the property type marks a top-tier unit.
func (l *RawListing) IsPenthouse() bool {
	return strings.EqualFold(l.PropertyType, "penthouse")
}

// Valid reports whether the listing carries the numeric fields every
// downstream stage requires. Records failing this check are dropped by the
// ingestion stage before feature engineering.
func (l *RawListing) Valid() bool {
	for _, v := range []float64{l.Price, l.Size, l.Latitude, l.Longitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return l.PropertyCode != "" && l.Price > 0 && l.Size > 0
}
