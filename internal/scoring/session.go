// Package scoring orchestrates the risk scoring pipeline: feature lookup,
// optional live weather overlay, standardization, prediction, adjustment,
// and audit persistence.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/health-risk-service/internal/domain"
	"github.com/couchcryptid/health-risk-service/internal/observability"
)

// State names the phases of a scoring session. A session moves
// Idle → Gathering → Scoring → Persisting → Done; any stage failure before
// persistence exits to Failed. A persistence failure still ends in Done with
// a recorded warning, because scoring success is independent of audit
// success.
type State string

const (
	StateIdle       State = "idle"
	StateGathering  State = "gathering"
	StateScoring    State = "scoring"
	StatePersisting State = "persisting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Profiles supplies the read-only reference tables.
type Profiles interface {
	Lookup(pinCode string) (domain.FeatureVector, error)
	LookupCoordinate(pinCode string) (domain.Coordinate, error)
}

// WeatherSource fetches a live observation for a coordinate.
type WeatherSource interface {
	Current(ctx context.Context, coord domain.Coordinate) (domain.Observation, error)
}

// Normalizer applies the pre-fit standardization.
type Normalizer interface {
	Standardize(v domain.FeatureVector) (domain.FeatureVector, error)
}

// Predictor maps a normalized vector to a base risk score.
type Predictor interface {
	Predict(v domain.FeatureVector) (float64, error)
}

// Auditor durably records one scoring event.
type Auditor interface {
	Append(ctx context.Context, rec domain.SubmissionRecord) error
}

// EventPublisher mirrors scored events to the analytics stream.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ScoredEvent) error
}

// Config selects the optional pipeline stages.
type Config struct {
	// WeatherEnabled turns on the live overlay. It also fixes the audit
	// schema: weather columns are present iff the overlay is enabled.
	WeatherEnabled bool

	// WeatherRequired aborts a session when the overlay fails instead of
	// degrading to a static-only score.
	WeatherRequired bool

	// AdjusterEnabled applies the medical-history adjustment. Off by
	// default: production has historically published the base score
	// verbatim, and the bypass is a deliberate setting rather than a dead
	// code path.
	AdjusterEnabled bool
}

// Service runs scoring sessions. All dependencies are read-only or
// internally synchronized, so sessions may run concurrently.
type Service struct {
	profiles   Profiles
	weather    WeatherSource
	normalizer Normalizer
	model      Predictor
	auditor    Auditor
	stream     EventPublisher
	cfg        Config
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewService wires the pipeline stages. weather, auditor, and stream may be
// nil when the corresponding feature is disabled; normalizer and model may
// be nil when artifact loading failed at startup, in which case every
// session fails with ErrModelUnavailable and CheckReadiness reports the
// degradation.
func NewService(
	profiles Profiles,
	weather WeatherSource,
	normalizer Normalizer,
	model Predictor,
	auditor Auditor,
	stream EventPublisher,
	cfg Config,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		profiles:   profiles,
		weather:    weather,
		normalizer: normalizer,
		model:      model,
		auditor:    auditor,
		stream:     stream,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// CheckReadiness reports whether the service can compute scores.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.normalizer == nil || s.model == nil {
		return domain.ErrModelUnavailable
	}
	return nil
}

// Result is the outcome of one scoring session. Score is final and
// displayable as soon as State reaches Persisting; persistence problems are
// reported through Persisted and Warnings without touching it.
type Result struct {
	SessionID string
	State     State
	Score     float64
	Factors   domain.FeatureVector
	Weather   *domain.Observation
	Persisted bool
	Warnings  []string
}

// session carries per-request state through the pipeline stages.
type session struct {
	id     string
	state  State
	logger *slog.Logger
}

func (st *session) transition(to State) {
	st.logger.Debug("session state change", "from", st.state, "to", to)
	st.state = to
}

// Score runs one complete session for a submission. The returned error is
// non-nil only when no score could be computed; it always matches one of the
// domain error kinds under errors.Is.
func (s *Service) Score(ctx context.Context, sub domain.Submission) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	st := &session{
		id:     id,
		state:  StateIdle,
		logger: s.logger.With("session_id", id, "pin_code", sub.PinCode),
	}

	result, err := s.run(ctx, st, sub)
	s.metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.SessionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	s.metrics.SessionsTotal.WithLabelValues("scored").Inc()
	return result, nil
}

func (s *Service) run(ctx context.Context, st *session, sub domain.Submission) (*Result, error) {
	// Gathering: the submission must be complete and the pin code must be a
	// known location, independent of whatever the UI promised.
	st.transition(StateGathering)
	if err := sub.Validate(); err != nil {
		return nil, s.fail(st, "gathering", err)
	}
	factors, err := s.profiles.Lookup(sub.PinCode)
	if err != nil {
		return nil, s.fail(st, "gathering", err)
	}

	// Scoring: overlay, standardize, predict, adjust. Each stage failure
	// short-circuits with its own error kind.
	st.transition(StateScoring)
	result := &Result{SessionID: st.id}

	factors, result.Weather, err = s.overlay(ctx, st, sub.PinCode, factors)
	if err != nil {
		return nil, s.fail(st, "overlay", err)
	}
	if result.Weather == nil && s.cfg.WeatherEnabled {
		result.Warnings = append(result.Warnings, "live weather unavailable, score uses static conditions")
	}
	result.Factors = factors

	score, err := s.computeScore(st, factors, sub)
	if err != nil {
		return nil, s.fail(st, "scoring", err)
	}
	result.Score = score

	// Persisting: the score is already final. Audit problems downgrade to
	// warnings on a Done session, never to a Failed one.
	st.transition(StatePersisting)
	s.persist(ctx, st, sub, result)

	st.transition(StateDone)
	result.State = st.state
	st.logger.Info("session scored",
		"risk_score", result.Score,
		"weather_used", result.Weather != nil,
		"persisted", result.Persisted,
	)
	return result, nil
}

// overlay fetches and applies live weather when enabled. Degrades to the
// static vector on failure unless the overlay is required.
func (s *Service) overlay(ctx context.Context, st *session, pinCode string, factors domain.FeatureVector) (domain.FeatureVector, *domain.Observation, error) {
	if !s.cfg.WeatherEnabled || s.weather == nil {
		return factors, nil, nil
	}

	coord, err := s.profiles.LookupCoordinate(pinCode)
	if err != nil {
		return nil, nil, err
	}

	obs, err := s.weather.Current(ctx, coord)
	if err != nil {
		if s.cfg.WeatherRequired {
			return nil, nil, err
		}
		st.logger.Warn("weather overlay failed, degrading to static conditions", "error", err)
		s.metrics.StageErrors.WithLabelValues("overlay", kind(err)).Inc()
		return factors, nil, nil
	}

	overlaid, err := domain.ApplyObservation(factors, obs)
	if err != nil {
		return nil, nil, err
	}
	return overlaid, &obs, nil
}

func (s *Service) computeScore(st *session, factors domain.FeatureVector, sub domain.Submission) (float64, error) {
	if s.normalizer == nil || s.model == nil {
		return 0, domain.ErrModelUnavailable
	}

	normalized, err := s.normalizer.Standardize(factors)
	if err != nil {
		return 0, err
	}
	base, err := s.model.Predict(normalized)
	if err != nil {
		return 0, err
	}
	score := domain.ClampScore(base)

	if s.cfg.AdjusterEnabled {
		score = domain.AdjustRiskScore(score, sub.MedicalSignals())
	}
	st.logger.Debug("score computed", "base", base, "final", score, "adjusted", s.cfg.AdjusterEnabled)
	return score, nil
}

// persist records the session to the audit destination and mirrors it to the
// event stream. Both are best-effort: failures become warnings on the result.
func (s *Service) persist(ctx context.Context, st *session, sub domain.Submission, result *Result) {
	if s.auditor != nil {
		rec := domain.BuildRecord(sub, result.Score, result.Weather, s.cfg.WeatherEnabled)
		if err := s.auditor.Append(ctx, rec); err != nil {
			st.logger.Error("audit append failed", "error", err)
			s.metrics.StageErrors.WithLabelValues("persisting", kind(err)).Inc()
			result.Warnings = append(result.Warnings, "score computed but not saved to the audit log")
		} else {
			result.Persisted = true
		}
	}

	if s.stream != nil {
		if err := s.stream.Publish(ctx, s.scoredEvent(st.id, sub, result)); err != nil {
			st.logger.Warn("audit stream publish failed", "error", err)
			s.metrics.StreamPublishes.WithLabelValues("error").Inc()
		} else {
			s.metrics.StreamPublishes.WithLabelValues("success").Inc()
		}
	}
}

func (s *Service) scoredEvent(sessionID string, sub domain.Submission, result *Result) domain.ScoredEvent {
	event := domain.ScoredEvent{
		SessionID:   sessionID,
		PinCode:     sub.PinCode,
		RiskScore:   result.Score,
		Adjusted:    s.cfg.AdjusterEnabled,
		WeatherUsed: result.Weather != nil,
		ScoredAt:    time.Now().UTC(),
	}
	if result.Weather != nil {
		tempC := result.Weather.TemperatureCelsius()
		humidity := result.Weather.HumidityPct
		event.TemperatureC = &tempC
		event.HumidityPct = &humidity
	}
	return event
}

func (s *Service) fail(st *session, stage string, err error) error {
	st.transition(StateFailed)
	s.metrics.StageErrors.WithLabelValues(stage, kind(err)).Inc()
	st.logger.Warn("session failed", "stage", stage, "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}

// kind maps an error to its taxonomy name for metric labels.
func kind(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownLocation):
		return "unknown_location"
	case errors.Is(err, domain.ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, domain.ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, domain.ErrWeatherUnavailable):
		return "weather_unavailable"
	case errors.Is(err, domain.ErrIncompleteInput):
		return "incomplete_input"
	case errors.Is(err, domain.ErrPersistenceFailure):
		return "persistence_failure"
	default:
		return "internal"
	}
}
