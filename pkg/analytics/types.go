package analytics

import "github.com/ChicagoDave/citylayout/pkg/city"

// ZoneStats holds computed data for one zone of a generated city.
type ZoneStats struct {
	Label       string                    `json:"label" yaml:"label"`
	Kind        city.ZoneKind             `json:"kind" yaml:"kind"`
	Index       int                       `json:"index" yaml:"index"`
	Direction   string                    `json:"direction,omitempty" yaml:"direction,omitempty"`
	InnerRadius float64                   `json:"inner_radius_km" yaml:"inner_radius_km"`
	OuterRadius float64                   `json:"outer_radius_km" yaml:"outer_radius_km"`
	AreaKm2     float64                   `json:"area_km2" yaml:"area_km2"`
	Districts   int                       `json:"districts" yaml:"districts"`
	Buildings   int                       `json:"buildings" yaml:"buildings"`
	Density     float64                   `json:"density_per_km2" yaml:"density_per_km2"`
	ByType      map[city.BuildingType]int `json:"by_type" yaml:"by_type"`
}

// CityStats holds the resolved statistics of one generated city.
type CityStats struct {
	Radius                 float64                   `json:"radius_km" yaml:"radius_km"`
	Seed                   int64                     `json:"seed" yaml:"seed"`
	HistoricalCenterRadius float64                   `json:"historical_center_radius_km" yaml:"historical_center_radius_km"`
	RingEnd                float64                   `json:"ring_end_km" yaml:"ring_end_km"`
	Rings                  int                       `json:"rings" yaml:"rings"`
	IndustrialZones        int                       `json:"industrial_zones" yaml:"industrial_zones"`
	Districts              int                       `json:"districts" yaml:"districts"`
	DistrictsByType        map[city.DistrictType]int `json:"districts_by_type" yaml:"districts_by_type"`
	Buildings              int                       `json:"buildings" yaml:"buildings"`
	BuildingsByType        map[city.BuildingType]int `json:"buildings_by_type" yaml:"buildings_by_type"`
	Zones                  []ZoneStats               `json:"zones" yaml:"zones"`
}

// Aggregate is the min/max/mean of one quantity over several samples.
type Aggregate struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Mean float64 `json:"mean" yaml:"mean"`
}

// RadiusSummary aggregates the samples generated for one radius.
type RadiusSummary struct {
	Radius          float64   `json:"radius_km" yaml:"radius_km"`
	Samples         int       `json:"samples" yaml:"samples"`
	Districts       Aggregate `json:"districts" yaml:"districts"`
	Rings           Aggregate `json:"rings" yaml:"rings"`
	IndustrialZones Aggregate `json:"industrial_zones" yaml:"industrial_zones"`
	Buildings       Aggregate `json:"buildings" yaml:"buildings"`
}
