package city

import "github.com/ChicagoDave/citylayout/pkg/geo"

// Building is a single placed building footprint.
type Building struct {
	ID        int          `json:"id"`
	Type      BuildingType `json:"type"`
	Position  geo.Point2D  `json:"position"`
	Footprint float64      `json:"footprint_m"` // side length in meters
	Zone      string       `json:"zone"`
}

// Buildings is the append-only building collection of one generation run.
type Buildings struct {
	items []Building
}

// NewBuildings returns an empty collection with room for n buildings.
func NewBuildings(n int) *Buildings {
	return &Buildings{items: make([]Building, 0, n)}
}

// Append adds b, assigning it the next sequential ID, and returns the stored copy.
func (bs *Buildings) Append(b Building) Building {
	b.ID = len(bs.items)
	bs.items = append(bs.items, b)
	return b
}

// Len returns the number of buildings.
func (bs *Buildings) Len() int {
	if bs == nil {
		return 0
	}
	return len(bs.items)
}

// All returns a copy of every building in placement order.
func (bs *Buildings) All() []Building {
	if bs == nil {
		return nil
	}
	out := make([]Building, len(bs.items))
	copy(out, bs.items)
	return out
}

// ByType returns the buildings of the given type in placement order.
func (bs *Buildings) ByType(t BuildingType) []Building {
	if bs == nil {
		return nil
	}
	var out []Building
	for _, b := range bs.items {
		if b.Type == t {
			out = append(out, b)
		}
	}
	return out
}

// CountByType returns the number of buildings per type.
func (bs *Buildings) CountByType() map[BuildingType]int {
	counts := make(map[BuildingType]int)
	if bs == nil {
		return counts
	}
	for _, b := range bs.items {
		counts[b.Type]++
	}
	return counts
}
