package render

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/geo"
)

// Options controls map rendering.
type Options struct {
	Size          int // image width and height in pixels
	Scheme        *Scheme
	HideDistricts bool
	HideLabel     bool
}

// DefaultSize is the image size used when Options.Size is not positive.
const DefaultSize = 1024

// canvas maps city coordinates in km onto the drawing context. The y axis
// points north.
type canvas struct {
	dc     *gg.Context
	scheme *Scheme
	min    geo.Point2D
	scale  float64 // pixels per km
	size   float64
}

func (c *canvas) px(p geo.Point2D) (float64, float64) {
	return (p.X - c.min.X) * c.scale, c.size - (p.Y-c.min.Y)*c.scale
}

// Draw renders c into a new drawing context.
func Draw(c *city.City, opts Options) *gg.Context {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	scheme := opts.Scheme
	if scheme == nil {
		scheme = DefaultScheme()
	}

	l := c.Layout()
	// The view is a square centred on the origin.
	minP, maxP := l.Bounds()
	half := math.Max(math.Max(-minP.X, -minP.Y), math.Max(maxP.X, maxP.Y))
	cv := &canvas{
		dc:     gg.NewContext(size, size),
		scheme: scheme,
		min:    geo.Pt(-half, -half),
		scale:  float64(size) / (2 * half),
		size:   float64(size),
	}

	cv.dc.SetColor(scheme.Background)
	cv.dc.Clear()
	cv.drawZones(l)
	cv.drawBuildings(c.Buildings())
	if !opts.HideDistricts {
		cv.drawDistricts(l.Districts)
	}
	if !opts.HideLabel {
		cv.dc.SetColor(scheme.ZoneOutline)
		label := fmt.Sprintf("radius %.1f km, seed %d, %d buildings", c.Radius(), c.Seed(), c.BuildingCount())
		cv.dc.DrawString(label, 8, 16)
	}
	return cv.dc
}

// Image renders c and returns the image.
func Image(c *city.City, opts Options) image.Image {
	return Draw(c, opts).Image()
}

// WritePNG renders c as PNG to w.
func WritePNG(w io.Writer, c *city.City, opts Options) error {
	return Draw(c, opts).EncodePNG(w)
}

// SavePNG renders c as a PNG file.
func SavePNG(path string, c *city.City, opts Options) error {
	return Draw(c, opts).SavePNG(path)
}

// drawZones fills main-body zones from the outside in so inner zones paint
// over outer ones, then draws the industrial polygons.
func (c *canvas) drawZones(l *city.Layout) {
	main := l.MainZones()
	cx, cy := c.px(geo.Origin)
	for i := len(main) - 1; i >= 0; i-- {
		z := main[i]
		c.dc.DrawCircle(cx, cy, z.OuterRadius*c.scale)
		c.dc.SetColor(c.scheme.zoneColor(z))
		c.dc.FillPreserve()
		c.dc.SetColor(c.scheme.ZoneOutline)
		c.dc.SetLineWidth(1)
		c.dc.Stroke()
	}
	for _, z := range l.IndustrialZones() {
		c.polygon(z.Polygon)
		c.dc.SetColor(c.scheme.zoneColor(z))
		c.dc.FillPreserve()
		c.dc.SetColor(c.scheme.ZoneOutline)
		c.dc.Stroke()
	}
}

func (c *canvas) polygon(poly geo.Polygon) {
	for i, v := range poly.Vertices {
		x, y := c.px(v)
		if i == 0 {
			c.dc.MoveTo(x, y)
		} else {
			c.dc.LineTo(x, y)
		}
	}
	c.dc.ClosePath()
}

func (c *canvas) drawBuildings(buildings []city.Building) {
	for _, b := range buildings {
		side := math.Max(1.5, b.Footprint/1000*c.scale)
		x, y := c.px(b.Position)
		c.dc.DrawRectangle(x-side/2, y-side/2, side, side)
		col, ok := c.scheme.Buildings[b.Type]
		if !ok {
			col = BuildingColor(b.Type)
		}
		c.dc.SetColor(col)
		c.dc.Fill()
	}
}

func (c *canvas) drawDistricts(districts []city.DistrictCenter) {
	for _, d := range districts {
		x, y := c.px(d.Position)
		col, ok := c.scheme.Districts[d.Type]
		if !ok {
			col = DistrictColor(d.Type)
		}
		c.dc.SetColor(col)
		c.dc.SetLineWidth(2)
		c.dc.DrawCircle(x, y, math.Max(3, d.InfluenceSigma*c.scale))
		c.dc.Stroke()
		c.dc.DrawCircle(x, y, 3)
		c.dc.Fill()
	}
}
