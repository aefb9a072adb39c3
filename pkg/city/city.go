package city

import "github.com/ChicagoDave/citylayout/pkg/geo"

// City is the result of one generation run: an immutable layout plus the
// buildings placed on it. All methods are read-only.
type City struct {
	layout    *Layout
	buildings *Buildings
	seed      int64
}

// New bundles a layout and its buildings. A nil buildings collection yields a
// city with no buildings.
func New(layout *Layout, buildings *Buildings, seed int64) *City {
	if buildings == nil {
		buildings = NewBuildings(0)
	}
	return &City{layout: layout, buildings: buildings, seed: seed}
}

// Radius returns the city radius in km.
func (c *City) Radius() float64 { return c.layout.Radius }

// Seed returns the random seed the city was generated with.
func (c *City) Seed() int64 { return c.seed }

// Layout returns the zone and district layout.
func (c *City) Layout() *Layout { return c.layout }

// ZoneAt returns the zone containing p.
func (c *City) ZoneAt(p geo.Point2D) Zone { return c.layout.ZoneAt(p) }

// ZoneLabelAt returns the label of the zone containing p.
func (c *City) ZoneLabelAt(p geo.Point2D) string { return c.layout.ZoneLabelAt(p) }

// DistrictCenters returns a copy of all district centers.
func (c *City) DistrictCenters() []DistrictCenter {
	out := make([]DistrictCenter, len(c.layout.Districts))
	copy(out, c.layout.Districts)
	return out
}

// DistrictByID returns the district center with the given ID.
func (c *City) DistrictByID(id int) (DistrictCenter, bool) {
	return c.layout.DistrictByID(id)
}

// Buildings returns a copy of all buildings in placement order.
func (c *City) Buildings() []Building { return c.buildings.All() }

// BuildingsByType returns the buildings of type t.
func (c *City) BuildingsByType(t BuildingType) []Building { return c.buildings.ByType(t) }

// BuildingCount returns the number of placed buildings.
func (c *City) BuildingCount() int { return c.buildings.Len() }

// BuildingCountsByType returns the number of buildings per type.
func (c *City) BuildingCountsByType() map[BuildingType]int { return c.buildings.CountByType() }
