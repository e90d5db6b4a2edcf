package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cohortlens/adapters/export"
	"cohortlens/adapters/stats/engine"
	"cohortlens/domain/core"
	"cohortlens/domain/stats"
	"cohortlens/internal/analysis"
)

// writeJSON serializes a payload with the standard headers.
func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.log.Error("encode response: %v", err)
	}
}

// writeError maps domain errors onto HTTP status codes: statistical
// precondition failures are the client's data problem (422), lookups that
// miss are 404, anything else is a server fault.
func (a *App) writeError(w http.ResponseWriter, err error) {
	var bad *paramError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &bad):
		status = http.StatusBadRequest
	case core.IsPreconditionError(err) || core.IsIngestionError(err):
		status = http.StatusUnprocessableEntity
	case core.IsNotFoundError(err):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed: %v", err)
	}
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *App) writeBadRequest(w http.ResponseWriter, format string, args ...interface{}) {
	a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf(format, args...)})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"metrics":      len(a.table.Metrics),
		"observations": len(a.table.Observations),
	})
}

// handleMetrics lists the panel's metric columns and cohorts.
func (a *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": a.table.Metrics,
		"cohorts": a.table.Cohorts(),
	})
}

// handleSummary serves descriptive statistics for one metric and cohort.
// GET /api/summary?metric=minutes_asleep&cohort=clinical
func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	metric, err := core.ParseMetricKey(r.URL.Query().Get("metric"))
	if err != nil {
		a.writeBadRequest(w, "metric: %v", err)
		return
	}
	cohort, err := stats.ParseCohort(r.URL.Query().Get("cohort"))
	if err != nil {
		a.writeBadRequest(w, "cohort: %v", err)
		return
	}

	sample, err := a.table.Sample(metric, cohort)
	if err != nil {
		a.writeError(w, err)
		return
	}
	summary, err := a.engine.Summarize(sample)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, summary)
}

// handleCompare runs one two-sample comparison across the panel's two
// cohorts. GET /api/compare?metric=steps&a=clinical&b=control&alpha=0.01
func (a *App) handleCompare(w http.ResponseWriter, r *http.Request) {
	metric, err := core.ParseMetricKey(r.URL.Query().Get("metric"))
	if err != nil {
		a.writeBadRequest(w, "metric: %v", err)
		return
	}
	groupA, groupB, err := a.cohortPair(r)
	if err != nil {
		a.writeBadRequest(w, "%v", err)
		return
	}
	eng, err := a.engineFor(r)
	if err != nil {
		a.writeBadRequest(w, "%v", err)
		return
	}

	sampleA, err := a.table.Sample(metric, groupA)
	if err != nil {
		a.writeError(w, err)
		return
	}
	sampleB, err := a.table.Sample(metric, groupB)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := eng.Compare(sampleA, sampleB)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

// handleCorrelate correlates two metrics within one cohort.
// GET /api/correlate?x=steps&y=calories&cohort=control
func (a *App) handleCorrelate(w http.ResponseWriter, r *http.Request) {
	metricX, err := core.ParseMetricKey(r.URL.Query().Get("x"))
	if err != nil {
		a.writeBadRequest(w, "x: %v", err)
		return
	}
	metricY, err := core.ParseMetricKey(r.URL.Query().Get("y"))
	if err != nil {
		a.writeBadRequest(w, "y: %v", err)
		return
	}
	cohort, err := stats.ParseCohort(r.URL.Query().Get("cohort"))
	if err != nil {
		a.writeBadRequest(w, "cohort: %v", err)
		return
	}
	eng, err := a.engineFor(r)
	if err != nil {
		a.writeBadRequest(w, "%v", err)
		return
	}

	x, err := a.table.Series(metricX, cohort)
	if err != nil {
		a.writeError(w, err)
		return
	}
	y, err := a.table.Series(metricY, cohort)
	if err != nil {
		a.writeError(w, err)
		return
	}

	result, err := eng.CorrelateWithin(cohort, x, y)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

// handleAnomalies flags one participant's (or a whole cohort's) series
// against the reference cohort band.
// GET /api/anomalies?metric=minutes_asleep&cohort=clinical&reference=control
// GET /api/anomalies?metric=minutes_asleep&participant=CLN001&reference=control
func (a *App) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	metric, err := core.ParseMetricKey(r.URL.Query().Get("metric"))
	if err != nil {
		a.writeBadRequest(w, "metric: %v", err)
		return
	}
	reference, err := stats.ParseCohort(r.URL.Query().Get("reference"))
	if err != nil {
		a.writeBadRequest(w, "reference: %v", err)
		return
	}

	var sample stats.Sample
	if p := r.URL.Query().Get("participant"); p != "" {
		participant, perr := core.ParseParticipantID(p)
		if perr != nil {
			a.writeBadRequest(w, "participant: %v", perr)
			return
		}
		sample, err = a.table.ParticipantSample(metric, participant)
	} else {
		cohort, cerr := stats.ParseCohort(r.URL.Query().Get("cohort"))
		if cerr != nil {
			a.writeBadRequest(w, "cohort: %v", cerr)
			return
		}
		sample, err = a.table.Sample(metric, cohort)
	}
	if err != nil {
		a.writeError(w, err)
		return
	}

	refSample, err := a.table.Sample(metric, reference)
	if err != nil {
		a.writeError(w, err)
		return
	}

	flags, err := a.engine.AnomaliesAgainstCohort(sample, refSample)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metric":    metric,
		"reference": reference,
		"checked":   sample.N(),
		"flags":     flags,
	})
}

// handleSweep runs the full cross-metric comparison and returns the report.
// POST /api/sweep?a=clinical&b=control&alpha=0.01
func (a *App) handleSweep(w http.ResponseWriter, r *http.Request) {
	report, err := a.runSweep(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, report)
}

func (a *App) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	report, err := a.runSweep(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="comparisons.csv"`)
	if err := export.WriteComparisonsCSV(w, report); err != nil {
		a.log.Error("export csv: %v", err)
	}
}

func (a *App) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	report, err := a.runSweep(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="comparisons.xlsx"`)
	if err := export.WriteComparisonsExcel(w, report); err != nil {
		a.log.Error("export workbook: %v", err)
	}
}

// paramError marks request-parameter failures so handlers can answer 400
// instead of the domain-error mapping.
type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }

func (a *App) runSweep(r *http.Request) (*analysis.CohortReport, error) {
	groupA, groupB, err := a.cohortPair(r)
	if err != nil {
		return nil, &paramError{err.Error()}
	}
	eng, err := a.engineFor(r)
	if err != nil {
		return nil, &paramError{err.Error()}
	}

	sweeper := a.sweeper
	if eng != a.engine {
		sweeper = analysis.NewSweeper(eng)
	}
	return sweeper.CompareCohorts(r.Context(), a.table, groupA, groupB, a.table.Metrics)
}

// cohortPair reads the a/b query parameters, defaulting to the panel's two
// cohorts in sorted order when both are omitted.
func (a *App) cohortPair(r *http.Request) (stats.Cohort, stats.Cohort, error) {
	qa, qb := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if qa == "" && qb == "" {
		cohorts := a.table.Cohorts()
		if len(cohorts) != 2 {
			return "", "", fmt.Errorf("panel has %d cohorts; pass a= and b= explicitly", len(cohorts))
		}
		return cohorts[0], cohorts[1], nil
	}

	groupA, err := stats.ParseCohort(qa)
	if err != nil {
		return "", "", fmt.Errorf("a: %v", err)
	}
	groupB, err := stats.ParseCohort(qb)
	if err != nil {
		return "", "", fmt.Errorf("b: %v", err)
	}
	return groupA, groupB, nil
}

// engineFor returns the app engine, or a per-request copy when the caller
// overrides alpha.
func (a *App) engineFor(r *http.Request) (*engine.Engine, error) {
	raw := r.URL.Query().Get("alpha")
	if raw == "" {
		return a.engine, nil
	}
	alpha, err := strconv.ParseFloat(raw, 64)
	if err != nil || alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("alpha must be a number in (0, 1), got %q", raw)
	}
	return engine.New(a.engine.Thresholds().WithAlpha(alpha)), nil
}
