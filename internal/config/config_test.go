package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.Equal(t, 120, cfg.Data.SampleDays)
	assert.Equal(t, 5, cfg.Data.SampleCohort)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALPHA", "0.01")
	t.Setenv("ANOMALY_SEVERE_SIGMA", "4.0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.Equal(t, 4.0, cfg.Analysis.SevereSigma)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"alpha_too_high":  {"ALPHA": "1.5"},
		"alpha_zero":      {"ALPHA": "0"},
		"sigmas_inverted": {"ANOMALY_MILD_SIGMA": "3.0", "ANOMALY_MODERATE_SIGMA": "2.0"},
		"bad_sample_dims": {"SAMPLE_DAYS": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestThresholds_Materialization(t *testing.T) {
	a := AnalysisConfig{Alpha: 0.01, MildSigma: 1.0, ModerateSigma: 2.5, SevereSigma: 3.5}
	th := a.Thresholds()

	assert.Equal(t, 0.01, th.Alpha)
	assert.Equal(t, 1.0, th.Anomaly.Mild)
	assert.Equal(t, 2.5, th.Anomaly.Moderate)
	assert.Equal(t, 3.5, th.Anomaly.Severe)
	// Effect and strength bands keep their published defaults.
	assert.Equal(t, 0.2, th.Effect.Small)
	assert.Equal(t, 0.5, th.Strength.Strong)
}
