package stats

import "math"

// EffectMagnitude is the categorical interpretation of |Cohen's d|.
type EffectMagnitude string

const (
	EffectNegligible EffectMagnitude = "negligible"
	EffectSmall      EffectMagnitude = "small"
	EffectMedium     EffectMagnitude = "medium"
	EffectLarge      EffectMagnitude = "large"
)

// CorrelationStrength is the qualitative label for |Pearson's r|.
type CorrelationStrength string

const (
	StrengthNone     CorrelationStrength = "none"
	StrengthWeak     CorrelationStrength = "weak"
	StrengthModerate CorrelationStrength = "moderate"
	StrengthStrong   CorrelationStrength = "strong"
)

// Severity grades how far outside the reference band an observation lies.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// EffectBands holds the ascending |d| cutoffs for effect-size
// categorization. Defaults follow the published Cohen (1988) thresholds.
type EffectBands struct {
	Small  float64 `json:"small"`
	Medium float64 `json:"medium"`
	Large  float64 `json:"large"`
}

func DefaultEffectBands() EffectBands {
	return EffectBands{Small: 0.2, Medium: 0.5, Large: 0.8}
}

// Classify maps a Cohen's d value to its magnitude category. The sign is
// ignored here; direction is reported separately on the result.
func (b EffectBands) Classify(d float64) EffectMagnitude {
	abs := math.Abs(d)
	switch {
	case abs < b.Small:
		return EffectNegligible
	case abs < b.Medium:
		return EffectSmall
	case abs < b.Large:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// StrengthBands holds the ascending |r| cutoffs for correlation-strength
// labels. These are a convention, not a contract; studies with different
// banding can override them per Thresholds.
type StrengthBands struct {
	Weak     float64 `json:"weak"`
	Moderate float64 `json:"moderate"`
	Strong   float64 `json:"strong"`
}

func DefaultStrengthBands() StrengthBands {
	return StrengthBands{Weak: 0.1, Moderate: 0.3, Strong: 0.5}
}

// Classify maps a Pearson r value to its strength label.
func (b StrengthBands) Classify(r float64) CorrelationStrength {
	abs := math.Abs(r)
	switch {
	case abs < b.Weak:
		return StrengthNone
	case abs < b.Moderate:
		return StrengthWeak
	case abs < b.Strong:
		return StrengthModerate
	default:
		return StrengthStrong
	}
}

// AnomalyBands holds the ascending |z| thresholds for severity grading,
// in standard deviations from the reference mean.
type AnomalyBands struct {
	Mild     float64 `json:"mild"`
	Moderate float64 `json:"moderate"`
	Severe   float64 `json:"severe"`
}

func DefaultAnomalyBands() AnomalyBands {
	return AnomalyBands{Mild: 1.5, Moderate: 2.0, Severe: 3.0}
}

// Classify grades |z| against the bands. The second return is false when
// the observation is below the mild threshold and should not be flagged.
func (b AnomalyBands) Classify(z float64) (Severity, bool) {
	abs := math.Abs(z)
	switch {
	case abs >= b.Severe:
		return SeveritySevere, true
	case abs >= b.Moderate:
		return SeverityModerate, true
	case abs >= b.Mild:
		return SeverityMild, true
	default:
		return "", false
	}
}

// Thresholds bundles every tunable constant of the engine. It is passed in
// explicitly (never read from package state) so per-study tuning stays
// auditable.
type Thresholds struct {
	Alpha    float64       `json:"alpha"`
	Effect   EffectBands   `json:"effect"`
	Strength StrengthBands `json:"strength"`
	Anomaly  AnomalyBands  `json:"anomaly"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Alpha:    0.05,
		Effect:   DefaultEffectBands(),
		Strength: DefaultStrengthBands(),
		Anomaly:  DefaultAnomalyBands(),
	}
}

// WithAlpha returns a copy with the significance threshold replaced.
func (t Thresholds) WithAlpha(alpha float64) Thresholds {
	t.Alpha = alpha
	return t
}
