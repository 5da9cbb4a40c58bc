package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/health-risk-service/internal/domain"
	"github.com/couchcryptid/health-risk-service/internal/features"
)

func TestLoadScaler(t *testing.T) {
	t.Run("embedded artifact", func(t *testing.T) {
		_, err := LoadScaler("")
		require.NoError(t, err)
	})

	t.Run("missing file wraps ErrModelUnavailable", func(t *testing.T) {
		_, err := LoadScaler(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})

	t.Run("wrong parameter count", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scaler.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"means":[1,2],"scales":[1,2]}`), 0o644))

		_, err := LoadScaler(path)
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})

	t.Run("zero scale", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scaler.json")
		require.NoError(t, os.WriteFile(path, []byte(
			`{"means":[0,0,0,0,0,0,0,0,0,0,0,0],"scales":[1,1,1,1,1,0,1,1,1,1,1,1]}`), 0o644))

		_, err := LoadScaler(path)
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})
}

func TestStandardize(t *testing.T) {
	scaler, err := LoadScaler("")
	require.NoError(t, err)

	vec := domain.FeatureVector{80, 70, 40, 60, 50, 90, 55, 65, 70, 85, 75, 60}

	t.Run("pure function yields identical output twice", func(t *testing.T) {
		first, err := scaler.Standardize(vec)
		require.NoError(t, err)
		second, err := scaler.Standardize(vec)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("input is never mutated", func(t *testing.T) {
		_, err := scaler.Standardize(vec)
		require.NoError(t, err)
		assert.Equal(t, domain.FeatureVector{80, 70, 40, 60, 50, 90, 55, 65, 70, 85, 75, 60}, vec)
	})

	t.Run("inverse round-trips within tolerance", func(t *testing.T) {
		standardized, err := scaler.Standardize(vec)
		require.NoError(t, err)
		restored, err := scaler.Inverse(standardized)
		require.NoError(t, err)
		for i := range vec {
			assert.InDelta(t, vec[i], restored[i], 1e-9, "feature %d", i)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := scaler.Standardize(domain.FeatureVector{1, 2, 3})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

		_, err = scaler.Inverse(domain.FeatureVector{1, 2, 3})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})
}

func TestLoadModel(t *testing.T) {
	t.Run("embedded artifact", func(t *testing.T) {
		_, err := LoadModel("")
		require.NoError(t, err)
	})

	t.Run("missing file wraps ErrModelUnavailable", func(t *testing.T) {
		_, err := LoadModel(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})

	t.Run("corrupt artifact", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.json")
		require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

		_, err := LoadModel(path)
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})

	t.Run("wrong weight count", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"weights":[1,2,3],"intercept":0}`), 0o644))

		_, err := LoadModel(path)
		assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	})
}

func TestPredict(t *testing.T) {
	m, err := LoadModel("")
	require.NoError(t, err)

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := m.Predict(domain.FeatureVector{1, 2})
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("deterministic", func(t *testing.T) {
		vec := make(domain.FeatureVector, domain.FeatureCount)
		for i := range vec {
			vec[i] = float64(i)
		}
		first, err := m.Predict(vec)
		require.NoError(t, err)
		second, err := m.Predict(vec)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

// TestPipelineOrdering checks that the fitted model preserves the ordering
// implied by the reference data: the low-risk example pin code scores below
// the high-risk one.
func TestPipelineOrdering(t *testing.T) {
	store, err := features.Load("")
	require.NoError(t, err)
	scaler, err := LoadScaler("")
	require.NoError(t, err)
	m, err := LoadModel("")
	require.NoError(t, err)

	score := func(pin string) float64 {
		vec, err := store.Lookup(pin)
		require.NoError(t, err, pin)
		normalized, err := scaler.Standardize(vec)
		require.NoError(t, err, pin)
		s, err := m.Predict(normalized)
		require.NoError(t, err, pin)
		return s
	}

	lowRisk := score("02109")
	highRisk := score("02110")
	assert.Less(t, lowRisk, highRisk,
		"low-risk example must score below the high-risk example")

	lowClamped := domain.ClampScore(lowRisk)
	highClamped := domain.ClampScore(highRisk)
	assert.Less(t, lowClamped, highClamped)
	assert.GreaterOrEqual(t, lowClamped, 0.0)
	assert.LessOrEqual(t, highClamped, 100.0)
}
