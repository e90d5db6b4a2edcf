package dataset

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"cohortlens/domain/core"
	"cohortlens/domain/stats"
)

const sampleCSV = `participant_id,cohort,date,minutes_asleep,steps
P001,clinical,2026-01-01,380,4200
P001,clinical,2026-01-02,,5100
P002,control,2026-01-01,440,8200
P002,control,2026-01-02,455,NA
P003,control,2026-01-01,430,7900
`

func loadSample(t *testing.T) *Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return tbl
}

func TestReadCSV_ParsesPanel(t *testing.T) {
	tbl := loadSample(t)

	if len(tbl.Metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %v", tbl.Metrics)
	}
	if len(tbl.Observations) != 5 {
		t.Fatalf("expected 5 observations, got %d", len(tbl.Observations))
	}

	first := tbl.Observations[0]
	if first.Participant != "P001" || first.Cohort != stats.CohortClinical {
		t.Errorf("unexpected first observation: %+v", first)
	}
	if first.Values[0] != 380 {
		t.Errorf("expected minutes_asleep=380, got %v", first.Values[0])
	}
	if !math.IsNaN(tbl.Observations[1].Values[0]) {
		t.Errorf("empty cell should parse as NaN, got %v", tbl.Observations[1].Values[0])
	}
	if !math.IsNaN(tbl.Observations[3].Values[1]) {
		t.Errorf("NA cell should parse as NaN, got %v", tbl.Observations[3].Values[1])
	}
}

func TestTable_SampleCleansAndCounts(t *testing.T) {
	tbl := loadSample(t)

	s, err := tbl.Sample("minutes_asleep", stats.CohortClinical)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if s.N() != 1 || s.RawCount != 2 || s.Dropped() != 1 {
		t.Errorf("expected n=1 raw=2 dropped=1, got n=%d raw=%d dropped=%d",
			s.N(), s.RawCount, s.Dropped())
	}
	if len(s.Dates) != s.N() {
		t.Errorf("dates not aligned with values: %d vs %d", len(s.Dates), s.N())
	}
}

func TestTable_SeriesPreservesMissing(t *testing.T) {
	tbl := loadSample(t)

	series, err := tbl.Series("steps", stats.CohortControl)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(series.Values) != 3 {
		t.Fatalf("expected 3 raw values, got %d", len(series.Values))
	}
	if !math.IsNaN(series.Values[1]) {
		t.Errorf("series must preserve missing markers for pairwise dropping, got %v", series.Values[1])
	}
}

func TestTable_Lookups(t *testing.T) {
	tbl := loadSample(t)

	if _, err := tbl.Sample("unknown", stats.CohortControl); !errors.Is(err, core.ErrMetricNotFound) {
		t.Errorf("expected ErrMetricNotFound, got %v", err)
	}
	if _, err := tbl.Sample("steps", "martians"); !errors.Is(err, core.ErrCohortNotFound) {
		t.Errorf("expected ErrCohortNotFound, got %v", err)
	}

	cohorts := tbl.Cohorts()
	if len(cohorts) != 2 || cohorts[0] != stats.CohortClinical || cohorts[1] != stats.CohortControl {
		t.Errorf("unexpected cohorts: %v", cohorts)
	}
	if got := tbl.Participants(stats.CohortControl); len(got) != 2 {
		t.Errorf("expected 2 control participants, got %v", got)
	}
}

func TestReadCSV_RejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"wrong_header": "id,cohort,date,m\nP1,clinical,2026-01-01,1\n",
		"bad_date":     "participant_id,cohort,date,m\nP1,clinical,January,1\n",
		"empty_cohort": "participant_id,cohort,date,m\nP1,,2026-01-01,1\n",
	}
	for name, content := range cases {
		if _, err := ReadCSV(strings.NewReader(content)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	tbl := loadSample(t)

	var buf bytes.Buffer
	if err := WriteCSV(tbl, &buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if len(back.Observations) != len(tbl.Observations) {
		t.Fatalf("row count changed: %d vs %d", len(back.Observations), len(tbl.Observations))
	}
	if !math.IsNaN(back.Observations[1].Values[0]) {
		t.Errorf("missing value lost in round trip: %v", back.Observations[1].Values[0])
	}
}
