package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/config"
	"github.com/ChicagoDave/citylayout/pkg/pipeline"
)

func testCity(t *testing.T) *city.City {
	t.Helper()
	res, err := pipeline.Run(config.Default(), pipeline.Options{Radius: 2, Seed: 21})
	if err != nil {
		t.Fatalf("pipeline.Run failed: %v", err)
	}
	return res.City
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		bt   city.BuildingType
		want string
	}{
		{city.BuildingApartment, "#4169E1"},
		{city.BuildingHouse, "#32CD32"},
		{city.BuildingOffice, "#FF8C00"},
		{city.BuildingCommercial, "#DC143C"},
		{city.BuildingFactory, "#8B4513"},
	}
	for _, tt := range tests {
		if got := HexColor(BuildingColor(tt.bt)); got != tt.want {
			t.Errorf("%s color = %s, want %s", tt.bt, got, tt.want)
		}
	}
	if got := HexColor(DistrictColor(city.DistrictMixed)); got != "#FF1493" {
		t.Errorf("mixed district color = %s, want #FF1493", got)
	}
	if got := HexColor(DistrictColor("unknown")); got != "#000000" {
		t.Errorf("unknown district color = %s, want #000000", got)
	}
}

func TestImageSize(t *testing.T) {
	c := testCity(t)
	img := Image(c, Options{Size: 256})
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Errorf("image bounds = %v, want 256x256", b)
	}
	img = Image(c, Options{})
	if b := img.Bounds(); b.Dx() != DefaultSize {
		t.Errorf("default width = %d, want %d", b.Dx(), DefaultSize)
	}
}

func TestCenterIsPainted(t *testing.T) {
	c := testCity(t)
	img := Image(c, Options{Size: 300, HideDistricts: true, HideLabel: true})
	// The corner lies outside every zone and keeps the background colour.
	r, g, b, _ := img.At(1, 298).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("corner pixel = (%d, %d, %d), want white", r>>8, g>>8, b>>8)
	}
	// The center is inside the historical center and is not background.
	r, g, b, _ = img.At(150, 150).RGBA()
	if r>>8 == 255 && g>>8 == 255 && b>>8 == 255 {
		t.Error("center pixel is background white")
	}
}

func TestWritePNG(t *testing.T) {
	c := testCity(t)
	var buf bytes.Buffer
	if err := WritePNG(&buf, c, Options{Size: 128}); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Errorf("width = %d, want 128", img.Bounds().Dx())
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.png")
	if err := SavePNG(path, testCity(t), Options{Size: 64}); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty PNG file")
	}
}
