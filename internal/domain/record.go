package domain

import "strings"

// Audit field names, in append order. The destination infers its schema from
// the first row ever written, so this order is load-bearing: never reorder or
// rename without migrating the destination.
var (
	baseFields = []string{
		"Timestamp",
		"Pin Code",
		"Age",
		"Gender",
		"Years Residence",
		"Respiratory Illnesses",
		"Other Respiratory Illness",
		"Chronic Conditions",
		"Healthcare Visits",
		"Air Quality",
		"Exposed to Smoke",
		"Smoke Frequency",
		"Mold Concerns",
		"Mold Description",
		"Pollution Nearby",
		"Pollution Description",
		"Green Space Visits",
		"Air Purification",
		"Purification Type",
		"Neighborhood Noise",
		"Noise Sources",
		"Artificial Light",
		"Light Description",
		"Environmental Issue",
		"Additional Comments",
	}
	weatherFields = []string{"Current Temperature", "Current Humidity"}
	scoreField    = "Risk Score"
)

// SubmissionRecord is the flat ordered mapping appended to the audit
// destination: every questionnaire answer, the live weather readings when the
// overlay is configured, the computed score, and a timestamp. Immutable once
// built.
type SubmissionRecord struct {
	header []string
	values []any
}

// Header returns the ordered field names.
func (r SubmissionRecord) Header() []string { return r.header }

// Values returns the ordered field values, aligned with Header.
func (r SubmissionRecord) Values() []any { return r.values }

// BuildRecord assembles the audit row for one scoring event.
//
// includeWeather reflects whether the overlay is configured for this
// deployment, not whether this particular fetch succeeded: when the overlay
// is configured but obs is nil (degraded static-only score), the weather
// cells are written empty so the destination's schema stays byte-stable.
func BuildRecord(sub Submission, score float64, obs *Observation, includeWeather bool) SubmissionRecord {
	header := make([]string, 0, len(baseFields)+len(weatherFields)+1)
	header = append(header, baseFields...)
	if includeWeather {
		header = append(header, weatherFields...)
	}
	header = append(header, scoreField)

	values := make([]any, 0, len(header))
	values = append(values,
		clock.Now().UTC().Format("2006-01-02 15:04:05"),
		sub.PinCode,
		sub.Age,
		sub.Gender,
		sub.YearsResidence,
		strings.Join(sub.RespiratoryIllnesses, ", "),
		sub.OtherRespiratoryIllness,
		sub.ChronicConditions,
		sub.HealthcareVisits,
		sub.AirQuality,
		sub.SmokeExposure.yesNo(),
		sub.SmokeExposure.detailIfAnswered(),
		sub.MoldConcerns.yesNo(),
		sub.MoldConcerns.detailIfAnswered(),
		sub.PollutionNearby.yesNo(),
		sub.PollutionNearby.detailIfAnswered(),
		sub.GreenSpaceVisits,
		sub.AirPurification.yesNo(),
		sub.AirPurification.detailIfAnswered(),
		sub.NeighborhoodNoise.yesNo(),
		sub.NeighborhoodNoise.detailIfAnswered(),
		sub.ArtificialLight.yesNo(),
		sub.ArtificialLight.detailIfAnswered(),
		sub.EnvironmentalIssue,
		sub.AdditionalComments,
	)
	if includeWeather {
		if obs != nil {
			values = append(values, obs.TemperatureCelsius(), obs.HumidityPct)
		} else {
			values = append(values, "", "")
		}
	}
	values = append(values, score)

	return SubmissionRecord{header: header, values: values}
}
