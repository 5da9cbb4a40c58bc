// Command genartifacts regenerates the scaler fixture from the pin code
// profile table, so the embedded artifacts stay consistent when the
// reference data changes. The scaler parameters are the per-slot mean and
// population standard deviation over all profile vectors, matching how the
// training pipeline fits its standardizer.
//
// Usage:
//
//	go run ./cmd/genartifacts \
//	  -pincodes internal/features/pincodes.json \
//	  -scaler-out internal/model/scaler.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/couchcryptid/health-risk-service/internal/domain"
	"github.com/couchcryptid/health-risk-service/internal/features"
	"github.com/couchcryptid/health-risk-service/internal/model"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	pinCodesPath := flag.String("pincodes", "", "path to pin code profile table (default: embedded)")
	scalerOut := flag.String("scaler-out", "", "output path for the scaler artifact")
	flag.Parse()

	if *scalerOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -scaler-out")
	}

	store, err := features.Load(*pinCodesPath)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	pins := store.PinCodes()
	vectors := make([]domain.FeatureVector, 0, len(pins))
	for _, pin := range pins {
		vec, err := store.Lookup(pin)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", pin, err)
		}
		vectors = append(vectors, vec)
	}

	means, scales := fitScaler(vectors)

	artifact := struct {
		Means  []float64 `json:"means"`
		Scales []float64 `json:"scales"`
	}{Means: means, Scales: scales}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scaler: %w", err)
	}
	if err := os.WriteFile(*scalerOut, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write scaler: %w", err)
	}

	// Sanity check: the artifact we just wrote must load and round-trip.
	scaler, err := model.LoadScaler(*scalerOut)
	if err != nil {
		return fmt.Errorf("reload generated scaler: %w", err)
	}
	standardized, err := scaler.Standardize(vectors[0])
	if err != nil {
		return fmt.Errorf("standardize probe: %w", err)
	}
	restored, err := scaler.Inverse(standardized)
	if err != nil {
		return fmt.Errorf("invert probe: %w", err)
	}
	for i := range restored {
		if math.Abs(restored[i]-vectors[0][i]) > 1e-9 {
			return fmt.Errorf("generated scaler does not round-trip at feature %d", i)
		}
	}

	fmt.Printf("wrote %s (%d profiles, %d features)\n", *scalerOut, len(vectors), domain.FeatureCount)
	return nil
}

// fitScaler computes per-slot mean and population standard deviation.
func fitScaler(vectors []domain.FeatureVector) (means, scales []float64) {
	n := float64(len(vectors))
	means = make([]float64, domain.FeatureCount)
	scales = make([]float64, domain.FeatureCount)

	for i := 0; i < domain.FeatureCount; i++ {
		sum := 0.0
		for _, v := range vectors {
			sum += v[i]
		}
		means[i] = sum / n
	}
	for i := 0; i < domain.FeatureCount; i++ {
		ss := 0.0
		for _, v := range vectors {
			d := v[i] - means[i]
			ss += d * d
		}
		scales[i] = math.Sqrt(ss / n)
	}
	return means, scales
}
