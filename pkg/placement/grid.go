package placement

import (
	"math"

	"github.com/ChicagoDave/citylayout/pkg/geo"
)

type cellKey struct{ x, y int }

// grid is a uniform spatial hash used to enforce the minimum distance between
// buildings of one zone. The cell size equals the minimum distance, so any
// conflicting point lies in the 3x3 neighbourhood of a candidate's cell.
type grid struct {
	cell  float64
	minSq float64
	cells map[cellKey][]geo.Point2D
}

func newGrid(minDist float64) *grid {
	return &grid{
		cell:  minDist,
		minSq: minDist * minDist,
		cells: make(map[cellKey][]geo.Point2D),
	}
}

func (g *grid) key(p geo.Point2D) cellKey {
	return cellKey{int(math.Floor(p.X / g.cell)), int(math.Floor(p.Y / g.cell))}
}

// fits reports whether p keeps the minimum distance to every inserted point.
func (g *grid) fits(p geo.Point2D) bool {
	if g.cell <= 0 {
		return true
	}
	k := g.key(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, q := range g.cells[cellKey{k.x + dx, k.y + dy}] {
				if p.DistanceSq(q) < g.minSq {
					return false
				}
			}
		}
	}
	return true
}

func (g *grid) insert(p geo.Point2D) {
	if g.cell <= 0 {
		return
	}
	k := g.key(p)
	g.cells[k] = append(g.cells[k], p)
}
