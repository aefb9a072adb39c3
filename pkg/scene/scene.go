package scene

import "github.com/ChicagoDave/citylayout/pkg/geo"

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityZone     EntityType = "zone"
	EntityDistrict EntityType = "district"
	EntityBuilding EntityType = "building"
)

// BoundingBox defines an axis-aligned bounding box in km.
type BoundingBox struct {
	Min geo.Point2D `json:"min"`
	Max geo.Point2D `json:"max"`
}

// Contains reports whether p lies inside the box, allowing tolerance km of slack.
func (b BoundingBox) Contains(p geo.Point2D, tolerance float64) bool {
	return p.X >= b.Min.X-tolerance && p.X <= b.Max.X+tolerance &&
		p.Y >= b.Min.Y-tolerance && p.Y <= b.Max.Y+tolerance
}

// Entity is a single element in the scene graph. Positions and sizes are in km.
type Entity struct {
	ID       string         `json:"id"`
	Type     EntityType     `json:"type"`
	Category string         `json:"category"` // zone kind, district type or building type
	Position geo.Point2D    `json:"position"`
	Size     float64        `json:"size"` // building side, district sigma or zone outer radius
	Zone     string         `json:"zone,omitempty"`
	Outline  []geo.Point2D  `json:"outline,omitempty"`
	Color    string         `json:"color,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Graph is the complete exported scene of one generated city.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	Generator   string      `json:"generator"`
	Version     string      `json:"version"`
	GeneratedAt string      `json:"generated_at"`
	Seed        int64       `json:"seed"`
	RadiusKm    float64     `json:"radius_km"`
	CityBounds  BoundingBox `json:"city_bounds"`
}

// Groups organizes entity IDs by various axes for fast filtering.
type Groups struct {
	Zones       map[string][]string     `json:"zones"`
	Categories  map[string][]string     `json:"categories"`
	EntityTypes map[EntityType][]string `json:"entity_types"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			Zones:       make(map[string][]string),
			Categories:  make(map[string][]string),
			EntityTypes: make(map[EntityType][]string),
		},
	}
}
