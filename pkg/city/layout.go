package city

import (
	"github.com/ChicagoDave/citylayout/pkg/geo"
)

// boundsPadding is the margin added around the city radius by Bounds, enough
// to include industrial zones.
const boundsPadding = 0.3

// Layout is the immutable zone hierarchy and district attractor set produced
// by the layout generator. Zones are ordered: historical center, rings from the
// inside out, outskirts, then industrial zones.
type Layout struct {
	Radius    float64          `json:"radius_km"`
	Zones     []Zone           `json:"zones"`
	Districts []DistrictCenter `json:"districts"`
}

// HistoricalCenter returns the historical center zone.
func (l *Layout) HistoricalCenter() Zone {
	for _, z := range l.Zones {
		if z.Kind == KindHistoricalCenter {
			return z
		}
	}
	return OutsideZone
}

// Rings returns the ring zones, innermost first.
func (l *Layout) Rings() []Zone {
	return l.zonesOfKind(KindRing)
}

// Outskirts returns the outskirts zone.
func (l *Layout) Outskirts() Zone {
	for _, z := range l.Zones {
		if z.Kind == KindOutskirts {
			return z
		}
	}
	return OutsideZone
}

// IndustrialZones returns the industrial zones.
func (l *Layout) IndustrialZones() []Zone {
	return l.zonesOfKind(KindIndustrial)
}

// MainZones returns the zones of the primary city body in radial order.
func (l *Layout) MainZones() []Zone {
	var out []Zone
	for _, z := range l.Zones {
		if z.Kind != KindIndustrial {
			out = append(out, z)
		}
	}
	return out
}

func (l *Layout) zonesOfKind(kind ZoneKind) []Zone {
	var out []Zone
	for _, z := range l.Zones {
		if z.Kind == kind {
			out = append(out, z)
		}
	}
	return out
}

// ZoneAt classifies p: the main-body band containing |p|, else the industrial
// zone containing p, else OutsideZone.
func (l *Layout) ZoneAt(p geo.Point2D) Zone {
	if !p.IsFinite() {
		return OutsideZone
	}
	if p.Length() <= l.Radius {
		for _, z := range l.Zones {
			if z.Kind != KindIndustrial && z.Contains(p) {
				return z
			}
		}
	}
	for _, z := range l.Zones {
		if z.Kind == KindIndustrial && z.Contains(p) {
			return z
		}
	}
	return OutsideZone
}

// ZoneLabelAt returns the label of the zone containing p.
func (l *Layout) ZoneLabelAt(p geo.Point2D) string {
	return l.ZoneAt(p).Label
}

// DistrictByID returns the district center with the given ID.
func (l *Layout) DistrictByID(id int) (DistrictCenter, bool) {
	for _, d := range l.Districts {
		if d.ID == id {
			return d, true
		}
	}
	return DistrictCenter{}, false
}

// DistrictsInZone returns the district centers generated for the labelled zone.
func (l *Layout) DistrictsInZone(label string) []DistrictCenter {
	var out []DistrictCenter
	for _, d := range l.Districts {
		if d.Zone == label {
			out = append(out, d)
		}
	}
	return out
}

// Bounds returns a bounding box around the city including industrial zones.
func (l *Layout) Bounds() (geo.Point2D, geo.Point2D) {
	ext := l.Radius * (1 + boundsPadding)
	minP, maxP := geo.Pt(-ext, -ext), geo.Pt(ext, ext)
	for _, z := range l.IndustrialZones() {
		zMin, zMax := z.Polygon.BoundingBox()
		minP = geo.Pt(min(minP.X, zMin.X), min(minP.Y, zMin.Y))
		maxP = geo.Pt(max(maxP.X, zMax.X), max(maxP.Y, zMax.Y))
	}
	return minP, maxP
}
