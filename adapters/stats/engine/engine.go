// Package engine implements the statistical comparison engine: descriptive
// summaries, Welch's two-sample t-test with Cohen's d, Pearson correlation,
// and z-score anomaly detection. Every operation is a pure function of its
// inputs; the Engine carries only immutable threshold configuration and is
// safe for concurrent use.
package engine

import (
	"cohortlens/domain/stats"
)

// Statistical minimums. A mean needs one observation, a t-test needs
// dispersion in each group, and Pearson's r is not reliably defined below
// three pairs.
const (
	minSummarizeN = 1
	minCompareN   = 2
	minCorrelateN = 3
)

// Engine evaluates samples against a fixed set of thresholds.
type Engine struct {
	cfg stats.Thresholds
}

// New creates an engine with the given thresholds.
func New(cfg stats.Thresholds) *Engine {
	return &Engine{cfg: cfg}
}

// NewDefault creates an engine with the published default thresholds.
func NewDefault() *Engine {
	return New(stats.DefaultThresholds())
}

// Thresholds returns the engine's configuration.
func (e *Engine) Thresholds() stats.Thresholds {
	return e.cfg
}
