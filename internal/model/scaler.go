// Package model loads the pre-trained regression artifacts and exposes the
// two pure stages of the scoring pipeline: standardization and prediction.
// Both artifacts are fit ahead of time by the training pipeline and consumed
// read-only; a load failure is fatal to the scoring capability.
package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/health-risk-service/internal/domain"
)

//go:embed scaler.json
var defaultScaler []byte

// Scaler applies the pre-fit per-feature standardization (x - mean) / scale.
// Deterministic and stateless after load.
type Scaler struct {
	means  []float64
	scales []float64
}

// LoadScaler reads the scaler artifact from path, or the embedded artifact
// when path is empty. Failures wrap ErrModelUnavailable: a service without a
// valid scaler cannot score.
func LoadScaler(path string) (*Scaler, error) {
	raw := defaultScaler
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read scaler artifact: %v: %w", err, domain.ErrModelUnavailable)
		}
	}

	var artifact struct {
		Means  []float64 `json:"means"`
		Scales []float64 `json:"scales"`
	}
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("parse scaler artifact: %v: %w", err, domain.ErrModelUnavailable)
	}
	if len(artifact.Means) != domain.FeatureCount || len(artifact.Scales) != domain.FeatureCount {
		return nil, fmt.Errorf("scaler artifact has %d/%d parameters, want %d: %w",
			len(artifact.Means), len(artifact.Scales), domain.FeatureCount, domain.ErrModelUnavailable)
	}
	for i, s := range artifact.Scales {
		if s == 0 {
			return nil, fmt.Errorf("scaler artifact has zero scale at feature %d: %w", i, domain.ErrModelUnavailable)
		}
	}

	return &Scaler{means: artifact.Means, scales: artifact.Scales}, nil
}

// Standardize returns (x_i - mean_i) / scale_i per feature. Fails with
// ErrDimensionMismatch if the input length does not match the fitted
// parameter count. The input is never mutated.
func (s *Scaler) Standardize(v domain.FeatureVector) (domain.FeatureVector, error) {
	if len(v) != len(s.means) {
		return nil, fmt.Errorf("standardize %d features against %d parameters: %w",
			len(v), len(s.means), domain.ErrDimensionMismatch)
	}
	out := make(domain.FeatureVector, len(v))
	for i, x := range v {
		out[i] = (x - s.means[i]) / s.scales[i]
	}
	return out, nil
}

// Inverse undoes Standardize: x_i * scale_i + mean_i.
func (s *Scaler) Inverse(v domain.FeatureVector) (domain.FeatureVector, error) {
	if len(v) != len(s.means) {
		return nil, fmt.Errorf("invert %d features against %d parameters: %w",
			len(v), len(s.means), domain.ErrDimensionMismatch)
	}
	out := make(domain.FeatureVector, len(v))
	for i, x := range v {
		out[i] = x*s.scales[i] + s.means[i]
	}
	return out, nil
}
