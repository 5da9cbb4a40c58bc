package domain

// MaxRiskScore is the upper bound of the risk scale.
const MaxRiskScore = 100

// signalWeight is the per-signal multiplicative increase (5% of the
// compounded score per positive signal).
const signalWeight = 0.05

// AdjustRiskScore applies the medical-history adjustment:
// min(base * (1 + 0.05 * sum(signals)), 100). Signals are summed into a
// single factor before the clamp, never clamped per-signal.
func AdjustRiskScore(base float64, signals []int) float64 {
	sum := 0
	for _, s := range signals {
		sum += s
	}
	adjusted := base * (1 + signalWeight*float64(sum))
	return min(adjusted, MaxRiskScore)
}

// ClampScore bounds a raw model prediction to the [0, 100] risk scale.
func ClampScore(score float64) float64 {
	return min(max(score, 0), MaxRiskScore)
}
