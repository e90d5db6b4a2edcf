package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// WriteCSV serializes a table back to the canonical CSV layout. Missing
// values are written as empty cells.
func WriteCSV(t *Table, w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{colParticipant, colCohort, colDate}
	for _, m := range t.Metrics {
		header = append(header, m.String())
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for _, o := range t.Observations {
		row[0] = o.Participant.String()
		row[1] = string(o.Cohort)
		row[2] = o.Date.Format(dateLayout)
		for i, v := range o.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[3+i] = ""
			} else {
				row[3+i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the table to a file.
func SaveCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(t, f)
}
