package http

import (
	"github.com/couchcryptid/health-risk-service/internal/domain"
	"github.com/couchcryptid/health-risk-service/internal/scoring"
)

// conditionalAnswer mirrors domain.ConditionalAnswer on the wire.
type conditionalAnswer struct {
	Answered bool   `json:"answered"`
	Detail   string `json:"detail,omitempty"`
}

// scoreRequest is the submission payload. Categorical answers are restricted
// to the questionnaire's fixed option sets; the pin code's membership in the
// profile table is checked by the scoring session, not here.
type scoreRequest struct {
	PinCode string `json:"pin_code" validate:"required,len=5,numeric"`

	Age            int    `json:"age" validate:"gte=0,lte=120"`
	Gender         string `json:"gender" validate:"required,oneof=Male Female Other"`
	YearsResidence int    `json:"years_residence" validate:"gte=0,lte=100"`

	RespiratoryIllnesses    []string `json:"respiratory_illnesses" validate:"dive,oneof=Asthma 'Chronic Obstructive Pulmonary Disease (COPD)' 'Allergic Rhinitis' 'Other respiratory infections'"`
	OtherRespiratoryIllness string   `json:"other_respiratory_illness"`
	ChronicConditions       string   `json:"chronic_conditions"`
	HealthcareVisits        int      `json:"healthcare_visits" validate:"gte=0"`

	AirQuality    string            `json:"air_quality" validate:"required,oneof='Very poor' Poor Moderate Good Excellent"`
	SmokeExposure conditionalAnswer `json:"smoke_exposure"`

	MoldConcerns    conditionalAnswer `json:"mold_concerns"`
	PollutionNearby conditionalAnswer `json:"pollution_nearby"`

	GreenSpaceVisits string            `json:"green_space_visits" validate:"required,oneof='Rarely or never' '1-2 times per week' '3-4 times per week' '5 or more times per week'"`
	AirPurification  conditionalAnswer `json:"air_purification"`

	NeighborhoodNoise conditionalAnswer `json:"neighborhood_noise"`
	ArtificialLight   conditionalAnswer `json:"artificial_light"`

	EnvironmentalIssue string `json:"environmental_issue"`
	AdditionalComments string `json:"additional_comments"`
}

func (r scoreRequest) toSubmission() domain.Submission {
	return domain.Submission{
		PinCode:                 r.PinCode,
		Age:                     r.Age,
		Gender:                  r.Gender,
		YearsResidence:          r.YearsResidence,
		RespiratoryIllnesses:    r.RespiratoryIllnesses,
		OtherRespiratoryIllness: r.OtherRespiratoryIllness,
		ChronicConditions:       r.ChronicConditions,
		HealthcareVisits:        r.HealthcareVisits,
		AirQuality:              r.AirQuality,
		SmokeExposure:           domain.ConditionalAnswer(r.SmokeExposure),
		MoldConcerns:            domain.ConditionalAnswer(r.MoldConcerns),
		PollutionNearby:         domain.ConditionalAnswer(r.PollutionNearby),
		GreenSpaceVisits:        r.GreenSpaceVisits,
		AirPurification:         domain.ConditionalAnswer(r.AirPurification),
		NeighborhoodNoise:       domain.ConditionalAnswer(r.NeighborhoodNoise),
		ArtificialLight:         domain.ConditionalAnswer(r.ArtificialLight),
		EnvironmentalIssue:      r.EnvironmentalIssue,
		AdditionalComments:      r.AdditionalComments,
	}
}

// weatherView exposes the live readings in the units the user sees.
type weatherView struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
}

// scoreResponse is the scoring outcome. Persisted is false when the score
// was computed but the audit append failed; the score itself is always
// present on a 200.
type scoreResponse struct {
	SessionID string             `json:"session_id"`
	RiskScore float64            `json:"risk_score"`
	Factors   map[string]float64 `json:"factors"`
	Weather   *weatherView       `json:"weather,omitempty"`
	Persisted bool               `json:"persisted"`
	Warnings  []string           `json:"warnings,omitempty"`
}

func newScoreResponse(result *scoring.Result) scoreResponse {
	factors := make(map[string]float64, len(result.Factors))
	for i, v := range result.Factors {
		factors[domain.FactorNames[i]] = v
	}

	resp := scoreResponse{
		SessionID: result.SessionID,
		RiskScore: result.Score,
		Factors:   factors,
		Persisted: result.Persisted,
		Warnings:  result.Warnings,
	}
	if result.Weather != nil {
		resp.Weather = &weatherView{
			TemperatureC: result.Weather.TemperatureCelsius(),
			HumidityPct:  result.Weather.HumidityPct,
		}
	}
	return resp
}
