package domain

import "time"

// ScoredEvent is the compact form of a scoring outcome published to the
// audit event stream for downstream analytics. It carries only the fields
// consumers need; the full questionnaire stays in the audit destination.
type ScoredEvent struct {
	SessionID    string    `json:"session_id"`
	PinCode      string    `json:"pin_code"`
	RiskScore    float64   `json:"risk_score"`
	Adjusted     bool      `json:"adjusted"`
	WeatherUsed  bool      `json:"weather_used"`
	TemperatureC *float64  `json:"temperature_c,omitempty"`
	HumidityPct  *float64  `json:"humidity_pct,omitempty"`
	ScoredAt     time.Time `json:"scored_at"`
}
