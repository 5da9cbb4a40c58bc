// Command validate performs integrity checks across the scoring artifacts:
// the pin code profile table, the scaler, and the model. It loads everything
// through the same packages the service uses, so a passing run means the
// service would start with scoring enabled.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -pincodes internal/features/pincodes.json \
//	  -scaler internal/model/scaler.json \
//	  -model internal/model/model.json
//
// With no flags, the embedded artifacts are validated.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/health-risk-service/internal/domain"
	"github.com/couchcryptid/health-risk-service/internal/features"
	"github.com/couchcryptid/health-risk-service/internal/model"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	pinCodesPath := flag.String("pincodes", "", "path to pin code profile table (default: embedded)")
	scalerPath := flag.String("scaler", "", "path to scaler artifact (default: embedded)")
	modelPath := flag.String("model", "", "path to model artifact (default: embedded)")
	flag.Parse()

	os.Exit(run(*pinCodesPath, *scalerPath, *modelPath))
}

func run(pinCodesPath, scalerPath, modelPath string) int {
	phases := []*phase{
		checkProfiles(pinCodesPath),
		checkScaler(scalerPath),
		checkPipeline(pinCodesPath, scalerPath, modelPath),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      %s\n", e)
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// checkProfiles verifies every profile has a well-formed vector and a
// coordinate for the weather overlay.
func checkProfiles(path string) *phase {
	p := &phase{name: "pin code profiles"}

	store, err := features.Load(path)
	if err != nil {
		p.errorf("load: %v", err)
		return p
	}

	for _, pin := range store.PinCodes() {
		vec, err := store.Lookup(pin)
		if err != nil {
			p.errorf("%s: lookup: %v", pin, err)
			continue
		}
		if err := vec.Validate(); err != nil {
			p.errorf("%s: %v", pin, err)
		}
		if _, err := store.LookupCoordinate(pin); err != nil {
			p.errorf("%s: no coordinate, weather overlay would fail", pin)
		}
	}
	return p
}

// checkScaler verifies the standardization round-trips.
func checkScaler(path string) *phase {
	p := &phase{name: "scaler artifact"}

	scaler, err := model.LoadScaler(path)
	if err != nil {
		p.errorf("load: %v", err)
		return p
	}

	probe := make(domain.FeatureVector, domain.FeatureCount)
	for i := range probe {
		probe[i] = float64(10 * (i + 1))
	}
	standardized, err := scaler.Standardize(probe)
	if err != nil {
		p.errorf("standardize: %v", err)
		return p
	}
	restored, err := scaler.Inverse(standardized)
	if err != nil {
		p.errorf("inverse: %v", err)
		return p
	}
	for i := range probe {
		if math.Abs(restored[i]-probe[i]) > 1e-9 {
			p.errorf("feature %d does not round-trip: %g != %g", i, restored[i], probe[i])
		}
	}
	return p
}

// checkPipeline runs standardize+predict for every known pin code and checks
// the predictions are finite.
func checkPipeline(pinCodesPath, scalerPath, modelPath string) *phase {
	p := &phase{name: "scoring pipeline"}

	store, err := features.Load(pinCodesPath)
	if err != nil {
		p.errorf("load profiles: %v", err)
		return p
	}
	scaler, err := model.LoadScaler(scalerPath)
	if err != nil {
		p.errorf("load scaler: %v", err)
		return p
	}
	m, err := model.LoadModel(modelPath)
	if err != nil {
		p.errorf("load model: %v", err)
		return p
	}

	for _, pin := range store.PinCodes() {
		vec, err := store.Lookup(pin)
		if err != nil {
			p.errorf("%s: %v", pin, err)
			continue
		}
		normalized, err := scaler.Standardize(vec)
		if err != nil {
			p.errorf("%s: standardize: %v", pin, err)
			continue
		}
		score, err := m.Predict(normalized)
		if err != nil {
			p.errorf("%s: predict: %v", pin, err)
			continue
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			p.errorf("%s: prediction is not finite: %g", pin, score)
			continue
		}
		fmt.Printf("      %s -> %.2f (clamped %.2f)\n", pin, score, domain.ClampScore(score))
	}
	return p
}
