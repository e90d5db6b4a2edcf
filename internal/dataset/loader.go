package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"cohortlens/domain/core"
	"cohortlens/domain/stats"
	"cohortlens/internal/logging"
)

// Expected layout: participant_id, cohort, date, then one numeric column
// per metric. Empty cells and the usual missing markers become NaN.
const (
	colParticipant = "participant_id"
	colCohort      = "cohort"
	colDate        = "date"
	dateLayout     = "2006-01-02"
)

var logger = logging.New("dataset")

// Load reads a panel from a CSV or Excel file, dispatching on extension.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadExcel(path)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedInput, filepath.Ext(path))
	}
}

// LoadCSV reads a panel from a CSV file.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads a panel from CSV content.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records)
}

// LoadExcel reads a panel from the first sheet of an Excel workbook.
func LoadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrUnsupportedInput)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return fromRecords(records)
}

// fromRecords builds a Table from header + data rows.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) < 1 {
		return nil, fmt.Errorf("%w: no header row", core.ErrUnsupportedInput)
	}

	header := records[0]
	if len(header) < 4 ||
		header[0] != colParticipant || header[1] != colCohort || header[2] != colDate {
		return nil, fmt.Errorf("%w: expected header %s,%s,%s,<metrics...>",
			core.ErrUnsupportedInput, colParticipant, colCohort, colDate)
	}

	metrics := make([]core.MetricKey, 0, len(header)-3)
	for _, name := range header[3:] {
		key, err := core.ParseMetricKey(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrUnsupportedInput, err)
		}
		metrics = append(metrics, key)
	}

	observations := make([]Observation, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2 // 1-based, after header
		obs, err := parseRow(record, metrics, line)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}

	logger.Info("loaded panel: %d observations, %d metrics", len(observations), len(metrics))
	return &Table{Metrics: metrics, Observations: observations}, nil
}

func parseRow(record []string, metrics []core.MetricKey, line int) (Observation, error) {
	// Excel readers drop trailing empty cells; pad them back as missing.
	want := len(metrics) + 3
	if len(record) < 3 {
		return Observation{}, core.NewMalformedRowError(line, "too few columns")
	}
	if len(record) > want {
		return Observation{}, core.NewMalformedRowError(line, "too many columns")
	}

	participant, err := core.ParseParticipantID(record[0])
	if err != nil {
		return Observation{}, core.NewMalformedRowError(line, err.Error())
	}
	cohort, err := stats.ParseCohort(record[1])
	if err != nil {
		return Observation{}, core.NewMalformedRowError(line, err.Error())
	}
	date, err := time.Parse(dateLayout, record[2])
	if err != nil {
		return Observation{}, core.NewMalformedRowError(line, "bad date: "+record[2])
	}

	values := make([]float64, len(metrics))
	for i := range metrics {
		cell := ""
		if 3+i < len(record) {
			cell = strings.TrimSpace(record[3+i])
		}
		values[i] = parseCell(cell)
	}

	return Observation{
		Participant: participant,
		Cohort:      cohort,
		Date:        date,
		Values:      values,
	}, nil
}

// parseCell converts one cell to a float, mapping missing markers and
// unparseable content to NaN. Cleaning policy is drop-missing, applied
// downstream when samples are built.
func parseCell(cell string) float64 {
	switch strings.ToLower(cell) {
	case "", "na", "nan", "null":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
