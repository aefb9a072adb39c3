package city

import (
	"math"

	"github.com/ChicagoDave/citylayout/pkg/geo"
)

// Zone is a radially bounded region of the city. Main-body zones are annuli
// centred on the origin; industrial zones are discs beyond the city radius,
// described by Center, Radius and a bounding Polygon.
type Zone struct {
	Kind        ZoneKind    `json:"kind"`
	Label       string      `json:"label"`
	Index       int         `json:"index"` // ring number (1-based) or industrial ordinal (0-based)
	InnerRadius float64     `json:"inner_radius"`
	OuterRadius float64     `json:"outer_radius"`
	Center      geo.Point2D `json:"center"`
	Radius      float64     `json:"radius,omitempty"`
	Direction   string      `json:"direction,omitempty"`
	Polygon     geo.Polygon `json:"polygon,omitempty"`
}

// OutsideZone is the classification for points beyond every defined region.
var OutsideZone = Zone{Kind: KindOutside, Label: LabelOutside}

// IsIndustrial reports whether the zone is an industrial zone.
func (z Zone) IsIndustrial() bool {
	return z.Kind == KindIndustrial
}

// IsOutside reports whether the zone is the "outside" classification.
func (z Zone) IsOutside() bool {
	return z.Kind == KindOutside
}

// Area returns the zone area in km².
func (z Zone) Area() float64 {
	switch z.Kind {
	case KindIndustrial:
		return z.Polygon.Area()
	case KindOutside:
		return 0
	default:
		return geo.AnnulusArea(z.InnerRadius, z.OuterRadius)
	}
}

// Contains reports whether p lies in the zone. Main-body bands are half open,
// [inner, outer), except the outskirts which include the city boundary.
func (z Zone) Contains(p geo.Point2D) bool {
	switch z.Kind {
	case KindIndustrial:
		return z.Polygon.Contains(p)
	case KindOutside:
		return false
	case KindOutskirts:
		d := p.Length()
		return d >= z.InnerRadius && d <= z.OuterRadius
	default:
		d := p.Length()
		return d >= z.InnerRadius && d < z.OuterRadius
	}
}

// Width returns the radial extent of a main-body zone.
func (z Zone) Width() float64 {
	return math.Max(0, z.OuterRadius-z.InnerRadius)
}
