package domain

import "errors"

// Stage errors for the scoring pipeline. Each pipeline stage fails with
// exactly one of these kinds so callers can map failures to user-facing
// outcomes with errors.Is.
var (
	// ErrUnknownLocation is returned when a pin code is not in the profile table.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrDimensionMismatch is returned when a feature vector does not match
	// the fitted parameter count of the scaler or model.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")

	// ErrModelUnavailable is returned when the model or scaler artifact
	// cannot be read or parsed. Fatal to the scoring capability.
	ErrModelUnavailable = errors.New("risk model unavailable")

	// ErrWeatherUnavailable is returned when the live weather overlay cannot
	// be applied. Recoverable: sessions degrade to static-only scoring or
	// abort, per configuration.
	ErrWeatherUnavailable = errors.New("weather data unavailable")

	// ErrIncompleteInput is returned when a submission is missing required answers.
	ErrIncompleteInput = errors.New("incomplete submission")

	// ErrPersistenceFailure is returned when an audit append fails. Never
	// invalidates an already-computed score.
	ErrPersistenceFailure = errors.New("audit persistence failure")
)
