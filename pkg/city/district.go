package city

import "github.com/ChicagoDave/citylayout/pkg/geo"

// DistrictCenter is a district attractor. It boosts building density around
// its position and biases the building types placed near it.
type DistrictCenter struct {
	ID                int          `json:"id"`
	Type              DistrictType `json:"type"`
	Position          geo.Point2D  `json:"position"`
	Zone              string       `json:"zone"`
	Ring              int          `json:"ring"` // 0 for the historical center
	InfluenceSigma    float64      `json:"influence_sigma"`
	InfluenceStrength float64      `json:"influence_strength"`
}
