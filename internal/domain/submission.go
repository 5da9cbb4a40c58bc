package domain

import "fmt"

// ConditionalAnswer models a yes/no question with an optional follow-up
// detail. The explicit Answered flag removes the "empty string means no"
// ambiguity of the raw questionnaire.
type ConditionalAnswer struct {
	Answered bool   `json:"answered"`
	Detail   string `json:"detail,omitempty"`
}

// yesNo renders a conditional answer the way the audit schema expects.
func (a ConditionalAnswer) yesNo() string {
	if a.Answered {
		return "Yes"
	}
	return "No"
}

// detailIfAnswered suppresses stale detail text when the answer is "No".
func (a ConditionalAnswer) detailIfAnswered() string {
	if a.Answered {
		return a.Detail
	}
	return ""
}

// Submission is one resident's complete questionnaire, passed into the
// scoring session once per request. Immutable by convention: the session
// never writes to it.
type Submission struct {
	PinCode string

	// Demographics.
	Age            int
	Gender         string
	YearsResidence int

	// Health history.
	RespiratoryIllnesses    []string
	OtherRespiratoryIllness string
	ChronicConditions       string
	HealthcareVisits        int

	// Environmental exposures.
	AirQuality    string
	SmokeExposure ConditionalAnswer

	// Housing conditions.
	MoldConcerns    ConditionalAnswer
	PollutionNearby ConditionalAnswer

	// Lifestyle.
	GreenSpaceVisits string
	AirPurification  ConditionalAnswer

	// Noise and light.
	NeighborhoodNoise ConditionalAnswer
	ArtificialLight   ConditionalAnswer

	// Free-text.
	EnvironmentalIssue string
	AdditionalComments string
}

// Validate checks that the answers required for scoring are present. Shape
// validation (enum membership, numeric ranges) belongs to the transport
// layer; pin-code membership in the profile table belongs to the feature
// store.
func (s Submission) Validate() error {
	switch {
	case s.PinCode == "":
		return fmt.Errorf("pin code is required: %w", ErrIncompleteInput)
	case s.Age < 0:
		return fmt.Errorf("age must be non-negative: %w", ErrIncompleteInput)
	case s.Gender == "":
		return fmt.Errorf("gender is required: %w", ErrIncompleteInput)
	case s.YearsResidence < 0:
		return fmt.Errorf("years of residence must be non-negative: %w", ErrIncompleteInput)
	case s.HealthcareVisits < 0:
		return fmt.Errorf("healthcare visits must be non-negative: %w", ErrIncompleteInput)
	case s.AirQuality == "":
		return fmt.Errorf("air quality rating is required: %w", ErrIncompleteInput)
	case s.GreenSpaceVisits == "":
		return fmt.Errorf("green space visits answer is required: %w", ErrIncompleteInput)
	}
	return nil
}

// MedicalSignals derives the binary risk indicators the adjuster consumes:
// one per diagnosed respiratory illness, one for reported chronic
// conditions, and one for smoke exposure.
func (s Submission) MedicalSignals() []int {
	signals := make([]int, 0, len(s.RespiratoryIllnesses)+2)
	for range s.RespiratoryIllnesses {
		signals = append(signals, 1)
	}
	if s.ChronicConditions != "" {
		signals = append(signals, 1)
	}
	if s.SmokeExposure.Answered {
		signals = append(signals, 1)
	}
	return signals
}
