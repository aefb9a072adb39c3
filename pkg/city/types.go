// Package city holds the generated city model: zones, district attractors and
// buildings, plus the read-only queries consumers run against them.
package city

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRadius is returned when a city radius is non-finite, non-positive
	// or outside the configured supported range.
	ErrInvalidRadius = errors.New("invalid city radius")

	// ErrInvalidConfig is returned when the generation configuration is malformed.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DistrictType is the character of a district attractor.
type DistrictType string

const (
	DistrictResidential DistrictType = "residential"
	DistrictCommercial  DistrictType = "commercial"
	DistrictMixed       DistrictType = "mixed"
)

// AllDistrictTypes returns every district type in a stable order.
func AllDistrictTypes() []DistrictType {
	return []DistrictType{DistrictResidential, DistrictCommercial, DistrictMixed}
}

// BuildingType is the use of a placed building.
type BuildingType string

const (
	BuildingApartment  BuildingType = "apartment"
	BuildingHouse      BuildingType = "house"
	BuildingOffice     BuildingType = "office"
	BuildingCommercial BuildingType = "commercial"
	BuildingFactory    BuildingType = "factory"
)

// AllBuildingTypes returns every building type in a stable order. Sampling code
// iterates this slice rather than map keys so seeded runs stay reproducible.
func AllBuildingTypes() []BuildingType {
	return []BuildingType{BuildingApartment, BuildingHouse, BuildingOffice, BuildingCommercial, BuildingFactory}
}

// ZoneKind classifies a zone.
type ZoneKind string

const (
	KindHistoricalCenter ZoneKind = "historical_center"
	KindRing             ZoneKind = "ring"
	KindOutskirts        ZoneKind = "outskirts"
	KindIndustrial       ZoneKind = "industrial"
	KindOutside          ZoneKind = "outside"
)

// Zone labels used for classification and configuration lookups.
const (
	LabelHistoricalCenter = "historical_center"
	LabelOutskirts        = "outskirts"
	LabelIndustrial       = "industrial"
	LabelOutside          = "outside"
)

// RingLabel returns the label of the 1-based ring number, e.g. "ring_2".
func RingLabel(number int) string {
	return fmt.Sprintf("ring_%d", number)
}
