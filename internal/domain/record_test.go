package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordTime = time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)

func testSubmission() Submission {
	return Submission{
		PinCode:              "02101",
		Age:                  34,
		Gender:               "Female",
		YearsResidence:       6,
		RespiratoryIllnesses: []string{"Asthma", "Allergic Rhinitis"},
		ChronicConditions:    "diabetes",
		HealthcareVisits:     2,
		AirQuality:           "Moderate",
		SmokeExposure:        ConditionalAnswer{Answered: true, Detail: "daily"},
		MoldConcerns:         ConditionalAnswer{Answered: false, Detail: "stale detail"},
		GreenSpaceVisits:     "1-2 times per week",
		EnvironmentalIssue:   "traffic fumes",
	}
}

func TestBuildRecord(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(recordTime))
	t.Cleanup(func() { SetClock(nil) })

	t.Run("header order is fixed", func(t *testing.T) {
		rec := BuildRecord(testSubmission(), 42.5, nil, false)

		want := []string{
			"Timestamp", "Pin Code", "Age", "Gender", "Years Residence",
			"Respiratory Illnesses", "Other Respiratory Illness", "Chronic Conditions",
			"Healthcare Visits", "Air Quality", "Exposed to Smoke", "Smoke Frequency",
			"Mold Concerns", "Mold Description", "Pollution Nearby", "Pollution Description",
			"Green Space Visits", "Air Purification", "Purification Type",
			"Neighborhood Noise", "Noise Sources", "Artificial Light", "Light Description",
			"Environmental Issue", "Additional Comments", "Risk Score",
		}
		assert.Equal(t, want, rec.Header())
		assert.Len(t, rec.Values(), len(want))
	})

	t.Run("weather columns sit between comments and score", func(t *testing.T) {
		obs := &Observation{TemperatureKelvin: 290.15, HumidityPct: 55}
		rec := BuildRecord(testSubmission(), 42.5, obs, true)

		header := rec.Header()
		n := len(header)
		assert.Equal(t, "Current Temperature", header[n-3])
		assert.Equal(t, "Current Humidity", header[n-2])
		assert.Equal(t, "Risk Score", header[n-1])

		values := rec.Values()
		assert.InDelta(t, 17.0, values[n-3].(float64), 1e-9)
		assert.Equal(t, 55.0, values[n-2])
		assert.Equal(t, 42.5, values[n-1])
	})

	t.Run("degraded fetch keeps the schema and blanks the cells", func(t *testing.T) {
		withObs := BuildRecord(testSubmission(), 42.5, &Observation{TemperatureKelvin: 290, HumidityPct: 55}, true)
		withoutObs := BuildRecord(testSubmission(), 42.5, nil, true)

		require.Equal(t, withObs.Header(), withoutObs.Header())

		n := len(withoutObs.Values())
		assert.Equal(t, "", withoutObs.Values()[n-3])
		assert.Equal(t, "", withoutObs.Values()[n-2])
	})

	t.Run("values render the questionnaire answers", func(t *testing.T) {
		rec := BuildRecord(testSubmission(), 42.5, nil, false)
		values := rec.Values()

		assert.Equal(t, "2026-08-30 14:30:00", values[0])
		assert.Equal(t, "02101", values[1])
		assert.Equal(t, 34, values[2])
		assert.Equal(t, "Asthma, Allergic Rhinitis", values[5])
		assert.Equal(t, "Yes", values[10])
		assert.Equal(t, "daily", values[11])
	})

	t.Run("unanswered conditional suppresses stale detail", func(t *testing.T) {
		rec := BuildRecord(testSubmission(), 42.5, nil, false)
		values := rec.Values()

		assert.Equal(t, "No", values[12], "Mold Concerns")
		assert.Equal(t, "", values[13], "Mold Description must be empty when unanswered")
	})
}
