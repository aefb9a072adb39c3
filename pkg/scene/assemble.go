package scene

import (
	"fmt"
	"time"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/render"
)

// Version is the scene format version written to Metadata.
const Version = "1.0.0"

// Assemble converts a generated city into a scene graph.
func Assemble(c *city.City) *Graph {
	g := NewGraph()
	l := c.Layout()

	assembleZones(l, g)
	assembleDistricts(l, g)
	assembleBuildings(c.Buildings(), g)

	minP, maxP := l.Bounds()
	g.Metadata = Metadata{
		Generator:   "citylayout",
		Version:     Version,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Seed:        c.Seed(),
		RadiusKm:    c.Radius(),
		CityBounds:  BoundingBox{Min: minP, Max: maxP},
	}
	return g
}

// ZoneID returns the entity ID of zone z. Industrial zones share a label and
// are told apart by index.
func ZoneID(z city.Zone) string {
	if z.IsIndustrial() {
		return fmt.Sprintf("zone_%s_%d", z.Label, z.Index)
	}
	return "zone_" + z.Label
}

func assembleZones(l *city.Layout, g *Graph) {
	for _, z := range l.Zones {
		e := Entity{
			ID:       ZoneID(z),
			Type:     EntityZone,
			Category: string(z.Kind),
			Size:     z.OuterRadius,
			Zone:     z.Label,
			Metadata: map[string]any{
				"inner_radius_km": z.InnerRadius,
				"outer_radius_km": z.OuterRadius,
				"area_km2":        z.Area(),
			},
		}
		if z.IsIndustrial() {
			e.Position = z.Center
			e.Size = z.Radius
			e.Outline = z.Polygon.Vertices
			e.Metadata["direction"] = z.Direction
		}
		addEntity(g, e)
	}
}

func assembleDistricts(l *city.Layout, g *Graph) {
	for _, d := range l.Districts {
		addEntity(g, Entity{
			ID:       fmt.Sprintf("district_%d", d.ID),
			Type:     EntityDistrict,
			Category: string(d.Type),
			Position: d.Position,
			Size:     d.InfluenceSigma,
			Zone:     d.Zone,
			Color:    render.HexColor(render.DistrictColor(d.Type)),
			Metadata: map[string]any{
				"ring":               d.Ring,
				"influence_strength": d.InfluenceStrength,
			},
		})
	}
}

func assembleBuildings(buildings []city.Building, g *Graph) {
	for _, b := range buildings {
		addEntity(g, Entity{
			ID:       fmt.Sprintf("building_%d", b.ID),
			Type:     EntityBuilding,
			Category: string(b.Type),
			Position: b.Position,
			Size:     b.Footprint / 1000,
			Zone:     b.Zone,
			Color:    render.HexColor(render.BuildingColor(b.Type)),
		})
	}
}

// CategoryKey returns the Groups.Categories key of an entity, e.g.
// "building:office".
func CategoryKey(t EntityType, category string) string {
	return string(t) + ":" + category
}

// addEntity appends an entity and updates all group indices.
func addEntity(g *Graph, e Entity) {
	g.Entities = append(g.Entities, e)
	if e.Zone != "" {
		g.Groups.Zones[e.Zone] = append(g.Groups.Zones[e.Zone], e.ID)
	}
	if e.Category != "" {
		key := CategoryKey(e.Type, e.Category)
		g.Groups.Categories[key] = append(g.Groups.Categories[key], e.ID)
	}
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], e.ID)
}
