package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cohortlens/adapters/stats/engine"
	"cohortlens/internal/analysis"
	"cohortlens/internal/synthdata"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := synthdata.DefaultConfig()
	cfg.Days = 60

	tbl, err := synthdata.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return NewApp(Config{Port: "0", Table: tbl, Engine: engine.NewDefault()})
}

func get(t *testing.T, app *App, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(into); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestApp(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("unexpected health payload: %v", body)
	}
}

func TestHandleMetrics(t *testing.T) {
	rec := get(t, newTestApp(t), "/api/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Metrics []string `json:"metrics"`
		Cohorts []string `json:"cohorts"`
	}
	decode(t, rec, &body)
	if len(body.Metrics) != len(synthdata.Metrics) {
		t.Errorf("expected %d metrics, got %v", len(synthdata.Metrics), body.Metrics)
	}
	if len(body.Cohorts) != 2 {
		t.Errorf("expected two cohorts, got %v", body.Cohorts)
	}
}

func TestHandleSummary(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/summary?metric=minutes_asleep&cohort=clinical")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Metric string  `json:"metric"`
		N      int     `json:"n"`
		Mean   float64 `json:"mean"`
	}
	decode(t, rec, &body)
	if body.Metric != "minutes_asleep" || body.N == 0 || body.Mean <= 0 {
		t.Errorf("implausible summary: %+v", body)
	}

	if rec := get(t, app, "/api/summary?metric=nope&cohort=clinical"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown metric: expected 404, got %d", rec.Code)
	}
	if rec := get(t, app, "/api/summary?cohort=clinical"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing metric: expected 400, got %d", rec.Code)
	}
}

func TestHandleCompare(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/compare?metric=minutes_asleep")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Metric     string  `json:"metric"`
		Alpha      float64 `json:"alpha"`
		PValue     float64 `json:"p_value"`
		HigherMean string  `json:"higher_mean"`
	}
	decode(t, rec, &body)
	if body.Alpha != 0.05 {
		t.Errorf("expected default alpha, got %v", body.Alpha)
	}
	if body.HigherMean != "control" {
		t.Errorf("expected control to sleep more, got %+v", body)
	}

	// Alpha override lands on the result.
	rec = get(t, app, "/api/compare?metric=minutes_asleep&alpha=0.01")
	decode(t, rec, &body)
	if body.Alpha != 0.01 {
		t.Errorf("alpha override ignored: %+v", body)
	}

	if rec := get(t, app, "/api/compare?metric=minutes_asleep&alpha=2"); rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range alpha: expected 400, got %d", rec.Code)
	}
}

func TestHandleCorrelate(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/correlate?x=steps&y=calories&cohort=control")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		MetricX string  `json:"metric_x"`
		Cohort  string  `json:"cohort"`
		N       int     `json:"n"`
		R       float64 `json:"r"`
	}
	decode(t, rec, &body)
	if body.MetricX != "steps" || body.Cohort != "control" || body.N == 0 {
		t.Errorf("implausible correlation: %+v", body)
	}

	if rec := get(t, app, "/api/correlate?x=steps&cohort=control"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing y: expected 400, got %d", rec.Code)
	}
}

func TestHandleAnomalies(t *testing.T) {
	app := newTestApp(t)

	rec := get(t, app, "/api/anomalies?metric=minutes_asleep&participant=CLN001&reference=control")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Checked int `json:"checked"`
		Flags   []struct {
			ZScore   float64 `json:"z_score"`
			Severity string  `json:"severity"`
		} `json:"flags"`
	}
	decode(t, rec, &body)
	if body.Checked == 0 {
		t.Errorf("expected a non-empty participant series: %+v", body)
	}
	for _, f := range body.Flags {
		if f.Severity == "" {
			t.Errorf("flag without severity: %+v", f)
		}
	}

	if rec := get(t, app, "/api/anomalies?metric=minutes_asleep&participant=NOPE&reference=control"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown participant: expected 404, got %d", rec.Code)
	}
}

func TestHandleSweep(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sweep", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report analysis.CohortReport
	decode(t, rec, &report)
	if len(report.Results) != len(synthdata.Metrics) {
		t.Errorf("expected all metrics compared, got %d results (skipped %v)",
			len(report.Results), report.Skipped)
	}
	if report.Summary.TotalMetrics != len(report.Results) {
		t.Errorf("summary mismatch: %+v", report.Summary)
	}
}

func TestHandleExportCSV(t *testing.T) {
	rec := get(t, newTestApp(t), "/api/export/comparisons.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "metric,group,") {
		t.Errorf("unexpected csv header: %q", strings.SplitN(rec.Body.String(), "\n", 2)[0])
	}
}

func TestHandleExportExcel(t *testing.T) {
	rec := get(t, newTestApp(t), "/api/export/comparisons.xlsx")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// XLSX is a zip container; check the magic bytes rather than parsing.
	if body := rec.Body.Bytes(); len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Errorf("response is not a zip container")
	}
}
