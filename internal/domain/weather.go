package domain

import (
	"fmt"
	"time"
)

// KelvinOffset converts the weather service's absolute temperature scale to
// Celsius. Applied in exactly one place (Observation.TemperatureCelsius) so
// the model input and the audited value can never use different offsets.
const KelvinOffset = 273.15

// Observation is a live weather reading for a coordinate. Both fields are
// always populated: a partial observation is rejected at the adapter
// boundary, never constructed.
type Observation struct {
	TemperatureKelvin float64   `json:"temperature_kelvin"`
	HumidityPct       float64   `json:"humidity_pct"`
	ObservedAt        time.Time `json:"observed_at"`
}

// TemperatureCelsius returns the observation's temperature in Celsius.
func (o Observation) TemperatureCelsius() float64 {
	return o.TemperatureKelvin - KelvinOffset
}

// ApplyObservation overlays a live weather reading onto a copy of the base
// vector, replacing the temperature and humidity slots. No other slot is
// touched. The input vector is never mutated.
func ApplyObservation(v FeatureVector, obs Observation) (FeatureVector, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	out := v.Clone()
	out[SlotTemperature] = obs.TemperatureCelsius()
	out[SlotHumidity] = obs.HumidityPct
	return out, nil
}
