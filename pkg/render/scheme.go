// Package render draws generated cities as PNG maps.
package render

import (
	"fmt"
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/ChicagoDave/citylayout/pkg/city"
)

// Scheme defines how the features of a city are coloured.
type Scheme struct {
	Background       color.Color
	ZoneOutline      color.Color
	HistoricalCenter color.Color
	Rings            []color.Color // cycled by ring index
	Outskirts        color.Color
	Industrial       color.Color
	Buildings        map[city.BuildingType]color.Color
	Districts        map[city.DistrictType]color.Color
}

// DefaultScheme returns the standard map colours.
func DefaultScheme() *Scheme {
	return &Scheme{
		Background:       colornames.White,
		ZoneOutline:      colornames.Dimgray,
		HistoricalCenter: colornames.Wheat,
		Rings:            []color.Color{colornames.Lavender, colornames.Aliceblue, colornames.Lavenderblush},
		Outskirts:        colornames.Honeydew,
		Industrial:       colornames.Lightgray,
		Buildings: map[city.BuildingType]color.Color{
			city.BuildingApartment:  colornames.Royalblue,
			city.BuildingHouse:      colornames.Limegreen,
			city.BuildingOffice:     colornames.Darkorange,
			city.BuildingCommercial: colornames.Crimson,
			city.BuildingFactory:    colornames.Saddlebrown,
		},
		Districts: map[city.DistrictType]color.Color{
			city.DistrictResidential: colornames.Forestgreen,
			city.DistrictCommercial:  colornames.Indigo,
			city.DistrictMixed:       colornames.Deeppink,
		},
	}
}

var defaultScheme = DefaultScheme()

// BuildingColor returns the default colour of a building type.
func BuildingColor(t city.BuildingType) color.Color {
	if c, ok := defaultScheme.Buildings[t]; ok {
		return c
	}
	return colornames.Black
}

// DistrictColor returns the default colour of a district type.
func DistrictColor(t city.DistrictType) color.Color {
	if c, ok := defaultScheme.Districts[t]; ok {
		return c
	}
	return colornames.Black
}

// HexColor formats c as "#RRGGBB".
func HexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

func (s *Scheme) zoneColor(z city.Zone) color.Color {
	switch z.Kind {
	case city.KindHistoricalCenter:
		return s.HistoricalCenter
	case city.KindRing:
		if len(s.Rings) == 0 {
			return s.Background
		}
		return s.Rings[(z.Index-1)%len(s.Rings)]
	case city.KindOutskirts:
		return s.Outskirts
	case city.KindIndustrial:
		return s.Industrial
	default:
		return s.Background
	}
}
