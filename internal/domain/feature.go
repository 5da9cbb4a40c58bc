package domain

import (
	"fmt"
	"math"
)

// FeatureCount is the fixed dimensionality of environmental feature vectors,
// shared with the scaler and model artifacts.
const FeatureCount = 12

// Feature vector slot positions. Only SlotHumidity and SlotTemperature may be
// overwritten by the live weather overlay.
const (
	SlotAirQuality = iota
	SlotHumidity
	SlotNoise
	SlotGreenSpaces
	SlotTemperature
	SlotHousingQuality
	SlotLightPollution
	SlotTrafficDensity
	SlotIndustrialActivity
	SlotSocioeconomic
	SlotWasteManagement
	SlotRadiation
)

// FactorNames maps slot positions to display names, in slot order.
var FactorNames = [FeatureCount]string{
	"air_quality",
	"humidity",
	"noise_pollution",
	"green_spaces",
	"temperature",
	"housing_quality",
	"light_pollution",
	"traffic_density",
	"industrial_activity",
	"socioeconomic_factors",
	"waste_management",
	"radiation",
}

// FeatureVector is an ordered list of environmental indicators for one
// location. Length is always exactly FeatureCount; values are finite.
type FeatureVector []float64

// Validate checks the length and finiteness invariants.
func (v FeatureVector) Validate() error {
	if len(v) != FeatureCount {
		return fmt.Errorf("vector has %d features, want %d: %w", len(v), FeatureCount, ErrDimensionMismatch)
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("feature %d (%s) is not finite: %w", i, FactorNames[i], ErrDimensionMismatch)
		}
	}
	return nil
}

// Clone returns an independent copy so downstream mutation cannot corrupt
// the reference table the vector came from.
func (v FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(v))
	copy(out, v)
	return out
}

// Coordinate is a WGS-84 latitude/longitude pair for a pin code.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
