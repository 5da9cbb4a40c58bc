// Package features holds the read-only reference tables mapping pin codes to
// base environmental feature vectors and geographic coordinates. Profiles are
// loaded once at process start and never mutated, so concurrent sessions read
// them without synchronization.
package features

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/couchcryptid/health-risk-service/internal/domain"
)

// defaultProfiles is the bundled Boston pin-code table, produced by
// cmd/genartifacts alongside the scaler and model fixtures.
//
//go:embed pincodes.json
var defaultProfiles []byte

// Profile is one pin code's reference data: the base feature vector and,
// when known, the coordinate used for the live weather overlay.
type Profile struct {
	Factors    domain.FeatureVector `json:"factors"`
	Coordinate *domain.Coordinate   `json:"coordinate,omitempty"`
}

// Store maps pin codes to profiles. Immutable after Load.
type Store struct {
	profiles map[string]Profile
}

// Load reads the profile table from path, or the embedded table when path is
// empty. Every vector is validated on load so lookups never return a
// malformed profile.
func Load(path string) (*Store, error) {
	raw := defaultProfiles
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read pin code profiles: %w", err)
		}
	}

	var profiles map[string]Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("parse pin code profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("pin code profile table is empty")
	}
	for pin, p := range profiles {
		if err := p.Factors.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", pin, err)
		}
	}

	return &Store{profiles: profiles}, nil
}

// Lookup returns a fresh, independent copy of the pin code's base feature
// vector. Fails with ErrUnknownLocation if the pin code is not in the table.
func (s *Store) Lookup(pinCode string) (domain.FeatureVector, error) {
	p, ok := s.profiles[pinCode]
	if !ok {
		return nil, fmt.Errorf("pin code %q: %w", pinCode, domain.ErrUnknownLocation)
	}
	return p.Factors.Clone(), nil
}

// LookupCoordinate returns the pin code's coordinate for the weather overlay.
// Fails with ErrUnknownLocation if the pin code is missing or has no
// coordinate on record.
func (s *Store) LookupCoordinate(pinCode string) (domain.Coordinate, error) {
	p, ok := s.profiles[pinCode]
	if !ok || p.Coordinate == nil {
		return domain.Coordinate{}, fmt.Errorf("pin code %q coordinate: %w", pinCode, domain.ErrUnknownLocation)
	}
	return *p.Coordinate, nil
}

// PinCodes returns all known pin codes in sorted order.
func (s *Store) PinCodes() []string {
	pins := make([]string, 0, len(s.profiles))
	for pin := range s.profiles {
		pins = append(pins, pin)
	}
	sort.Strings(pins)
	return pins
}
