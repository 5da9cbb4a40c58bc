package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/health-risk-service/internal/domain"
)

//go:embed model.json
var defaultModel []byte

// Model is the pre-trained regression over standardized feature vectors.
// The artifact format is a JSON-serialized linear model exported by the
// training pipeline; callers treat Predict as opaque.
type Model struct {
	weights   []float64
	intercept float64
}

// LoadModel reads the model artifact from path, or the embedded artifact
// when path is empty. Failures wrap ErrModelUnavailable.
func LoadModel(path string) (*Model, error) {
	raw := defaultModel
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read model artifact: %v: %w", err, domain.ErrModelUnavailable)
		}
	}

	var artifact struct {
		Weights   []float64 `json:"weights"`
		Intercept float64   `json:"intercept"`
	}
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("parse model artifact: %v: %w", err, domain.ErrModelUnavailable)
	}
	if len(artifact.Weights) != domain.FeatureCount {
		return nil, fmt.Errorf("model artifact has %d weights, want %d: %w",
			len(artifact.Weights), domain.FeatureCount, domain.ErrModelUnavailable)
	}

	return &Model{weights: artifact.Weights, intercept: artifact.Intercept}, nil
}

// Predict maps one standardized feature vector to a scalar base risk score.
// Deterministic given fixed weights. Fails with ErrDimensionMismatch on a
// wrong-length input.
func (m *Model) Predict(v domain.FeatureVector) (float64, error) {
	if len(v) != len(m.weights) {
		return 0, fmt.Errorf("predict on %d features against %d weights: %w",
			len(v), len(m.weights), domain.ErrDimensionMismatch)
	}
	score := m.intercept
	for i, x := range v {
		score += m.weights[i] * x
	}
	return score, nil
}
