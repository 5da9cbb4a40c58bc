package features

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/health-risk-service/internal/domain"
)

func TestLoad_Embedded(t *testing.T) {
	store, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, store.PinCodes())
}

func TestLookup(t *testing.T) {
	store, err := Load("")
	require.NoError(t, err)

	t.Run("every known pin code has a full vector", func(t *testing.T) {
		for _, pin := range store.PinCodes() {
			vec, err := store.Lookup(pin)
			require.NoError(t, err, pin)
			assert.Len(t, vec, domain.FeatureCount, pin)
			assert.NoError(t, vec.Validate(), pin)
		}
	})

	t.Run("unknown pin code", func(t *testing.T) {
		_, err := store.Lookup("99999")
		assert.ErrorIs(t, err, domain.ErrUnknownLocation)
	})

	t.Run("returns an independent copy", func(t *testing.T) {
		first, err := store.Lookup("02101")
		require.NoError(t, err)
		first[0] = -999

		second, err := store.Lookup("02101")
		require.NoError(t, err)
		assert.Equal(t, 80.0, second[0], "mutating a returned vector must not corrupt the table")
	})
}

func TestLookupCoordinate(t *testing.T) {
	store, err := Load("")
	require.NoError(t, err)

	coord, err := store.LookupCoordinate("02109")
	require.NoError(t, err)
	assert.InDelta(t, 42.3611, coord.Lat, 1e-6)
	assert.InDelta(t, -71.0552, coord.Lon, 1e-6)

	_, err = store.LookupCoordinate("99999")
	assert.ErrorIs(t, err, domain.ErrUnknownLocation)
}

func TestLoad_FileOverride(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pins.json")
		require.NoError(t, os.WriteFile(path, []byte(
			`{"10001": {"factors": [1,2,3,4,5,6,7,8,9,10,11,12]}}`), 0o644))

		store, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"10001"}, store.PinCodes())

		_, err = store.LookupCoordinate("10001")
		assert.ErrorIs(t, err, domain.ErrUnknownLocation, "profile without coordinate")
	})

	t.Run("wrong vector length is rejected at load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pins.json")
		require.NoError(t, os.WriteFile(path, []byte(
			`{"10001": {"factors": [1,2,3]}}`), 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("empty table is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pins.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}
