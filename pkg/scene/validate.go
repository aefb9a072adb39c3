package scene

import (
	"fmt"

	"github.com/ChicagoDave/citylayout/pkg/validation"
)

// ValidateGraph performs structural validation on a scene graph.
// It checks entity integrity, group index consistency, and bounds enclosure.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelExport,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateBoundsEnclosure(g, r)
	validateEntitySizes(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelExport,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				ConfigPath:  fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelExport,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				ConfigPath:  fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	entityIDs := make(map[string]bool, len(g.Entities))
	for _, e := range g.Entities {
		entityIDs[e.ID] = true
	}

	checkGroup := func(groupType, groupName string, ids []string) {
		for _, id := range ids {
			if !entityIDs[id] {
				r.AddError(validation.Result{
					Level:       validation.LevelExport,
					Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", groupType, groupName, id),
					ConfigPath:  fmt.Sprintf("groups.%s.%s", groupType, groupName),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			}
		}
	}

	for name, ids := range g.Groups.Zones {
		checkGroup("zones", name, ids)
	}
	for name, ids := range g.Groups.Categories {
		checkGroup("categories", name, ids)
	}
	for name, ids := range g.Groups.EntityTypes {
		checkGroup("entity_types", string(name), ids)
	}
}

func membership(groups map[string][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(groups))
	for name, ids := range groups {
		m := make(map[string]bool, len(ids))
		for _, id := range ids {
			m[id] = true
		}
		out[name] = m
	}
	return out
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	types := make(map[string][]string, len(g.Groups.EntityTypes))
	for et, ids := range g.Groups.EntityTypes {
		types[string(et)] = ids
	}
	zoneMembers := membership(g.Groups.Zones)
	categoryMembers := membership(g.Groups.Categories)
	typeMembers := membership(types)

	check := func(e Entity, group, name string, members map[string]map[string]bool) {
		m, ok := members[name]
		if !ok {
			r.AddError(validation.Result{
				Level:       validation.LevelExport,
				Message:     fmt.Sprintf("entity %q has %s %q but no such group exists", e.ID, group, name),
				ConfigPath:  "groups." + group,
				ActualValue: name,
			})
			return
		}
		if !m[e.ID] {
			r.AddError(validation.Result{
				Level:       validation.LevelExport,
				Message:     fmt.Sprintf("entity %q has %s %q but is not in that group", e.ID, group, name),
				ConfigPath:  fmt.Sprintf("groups.%s.%s", group, name),
				ActualValue: e.ID,
			})
		}
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}
		check(e, "entity_types", string(e.Type), typeMembers)
		if e.Zone != "" {
			check(e, "zones", e.Zone, zoneMembers)
		}
		if e.Category != "" {
			check(e, "categories", CategoryKey(e.Type, e.Category), categoryMembers)
		}
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	bounds := g.Metadata.CityBounds
	const tolerance = 0.001

	for _, e := range g.Entities {
		if e.Type == EntityZone {
			continue
		}
		if !bounds.Contains(e.Position, tolerance) {
			r.AddWarning(validation.Result{
				Level: validation.LevelExport,
				Message: fmt.Sprintf("entity %q at (%.3f, %.3f) outside city bounds [%.3f, %.3f]-[%.3f, %.3f]",
					e.ID, e.Position.X, e.Position.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y),
				ConfigPath:  "metadata.city_bounds",
				ActualValue: e.Position,
			})
			break
		}
	}
}

func validateEntitySizes(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		if e.Size <= 0 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelExport,
				Message:     fmt.Sprintf("entity %q has non-positive size %.4f", e.ID, e.Size),
				ConfigPath:  fmt.Sprintf("entities.%s.size", e.ID),
				ActualValue: e.Size,
				Expected:    "> 0",
			})
		}
	}
}
