package config

import (
	"math"

	"github.com/ChicagoDave/citylayout/pkg/city"
)

// Default returns the reference tuning. Each call returns a fresh copy that
// the caller may modify.
func Default() *Config {
	return &Config{
		City: CityParams{MinRadius: 1, MaxRadius: 15},
		HistoricalCenter: HistoricalCenter{
			MinFraction:  0.10,
			MaxFraction:  0.20,
			DistrictType: city.DistrictMixed,
		},
		Rings: RingSystem{
			EndFraction:  0.65,
			EndVariation: 0.05,
			WidthJitter:  0.2,
			SizeBands: []SizeBand{
				{Name: "small", UpTo: 5, Rings: 1, IndustrialZones: 2},
				{Name: "medium", UpTo: 10, Rings: 2, IndustrialZones: 2},
				{Name: "large", Rings: 3, IndustrialZones: 4},
			},
		},
		Industrial: Industrial{
			DistanceFraction: 1.2,
			RadiusFraction:   0.1,
			AngleJitter:      math.Pi / 36,
			Segments:         32,
		},
		Districts: Districts{
			Counts: map[string]CountRange{
				"ring_1": {Min: 6, Max: 10},
				"ring_2": {Min: 8, Max: 14},
				"ring_3": {Min: 10, Max: 18},
			},
			TypeWeights: map[string]DistrictWeights{
				"ring_1": {city.DistrictResidential: 0.2, city.DistrictCommercial: 0.6, city.DistrictMixed: 0.2},
				"ring_2": {city.DistrictResidential: 0.3, city.DistrictCommercial: 0.3, city.DistrictMixed: 0.4},
				"ring_3": {city.DistrictResidential: 0.6, city.DistrictCommercial: 0.2, city.DistrictMixed: 0.2},
			},
			BoundaryBufferFraction: 0.04,
			MinDistanceFraction:    0.04,
			MaxAttempts:            100,
			InfluenceSigmaFraction: 0.1,
			InfluenceCutoffSigmas:  3,
			BuildingProbabilities: map[city.DistrictType]Distribution{
				city.DistrictResidential: {
					city.BuildingApartment: 0.60, city.BuildingHouse: 0.20, city.BuildingOffice: 0.05,
					city.BuildingCommercial: 0.15, city.BuildingFactory: 0,
				},
				city.DistrictCommercial: {
					city.BuildingApartment: 0.10, city.BuildingHouse: 0, city.BuildingOffice: 0.40,
					city.BuildingCommercial: 0.50, city.BuildingFactory: 0,
				},
				city.DistrictMixed: {
					city.BuildingApartment: 0.35, city.BuildingHouse: 0.10, city.BuildingOffice: 0.25,
					city.BuildingCommercial: 0.30, city.BuildingFactory: 0,
				},
			},
		},
		Density: Density{
			CenterDensity:          100,
			CitySigmaFraction:      0.5,
			ZoneSigmaScale:         map[string]float64{},
			AttractorSigmaFraction: 0.05,
			AttractorStrength:      0.3,
			CutoffSigmas:           3,
			MaxBoost:               0.3,
		},
		Buildings: Buildings{
			ZoneCoefficients: map[string]float64{
				city.LabelHistoricalCenter: 1.0,
				"ring_1":                   0.14,
				"ring_2":                   0.10,
				"ring_3":                   0.07,
				city.LabelOutskirts:        0.04,
				city.LabelIndustrial:       0.3,
			},
			ZoneProbabilities: map[string]Distribution{
				city.LabelHistoricalCenter: {
					city.BuildingApartment: 0.15, city.BuildingOffice: 0.40, city.BuildingCommercial: 0.45,
				},
				"ring_1": {
					city.BuildingApartment: 0.35, city.BuildingOffice: 0.30, city.BuildingCommercial: 0.35,
				},
				"ring_2": {
					city.BuildingApartment: 0.45, city.BuildingOffice: 0.20, city.BuildingCommercial: 0.35,
				},
				"ring_3": {
					city.BuildingApartment: 0.40, city.BuildingHouse: 0.15, city.BuildingOffice: 0.15,
					city.BuildingCommercial: 0.30,
				},
				city.LabelOutskirts: {
					city.BuildingApartment: 0.10, city.BuildingHouse: 0.60, city.BuildingOffice: 0.10,
					city.BuildingCommercial: 0.20,
				},
				city.LabelIndustrial: {city.BuildingFactory: 1},
				city.LabelOutside: {
					city.BuildingApartment: 0.05, city.BuildingHouse: 0.70, city.BuildingOffice: 0.05,
					city.BuildingCommercial: 0.20,
				},
			},
			InfluenceStrength: map[string]float64{
				city.LabelHistoricalCenter: 0,
				"ring_1":                   0.4,
				"ring_2":                   0.6,
				"ring_3":                   0.8,
				city.LabelOutskirts:        0.5,
				city.LabelIndustrial:       0,
				city.LabelOutside:          0.5,
				defaultKey:                 0.5,
			},
			MinDistance:           0.005,
			IndustrialMinDistance: 0.05,
			RejectionsPerBuilding: 50,
			MinRejections:         2000,
			Footprints: map[city.BuildingType]Range{
				city.BuildingApartment:  {Min: 20, Max: 35},
				city.BuildingHouse:      {Min: 8, Max: 15},
				city.BuildingOffice:     {Min: 25, Max: 45},
				city.BuildingCommercial: {Min: 12, Max: 30},
				city.BuildingFactory:    {Min: 40, Max: 80},
			},
		},
	}
}
