// Command sampledata writes a deterministic two-cohort sample panel to a
// CSV file, for demos and for exercising the loader end to end.
package main

import (
	"flag"
	"log"
	"time"

	"cohortlens/internal/dataset"
	"cohortlens/internal/synthdata"
)

func main() {
	out := flag.String("out", "sample_panel.csv", "Output CSV path")
	participants := flag.Int("participants", 5, "Participants per cohort")
	days := flag.Int("days", 120, "Panel length in days")
	seed := flag.Int64("seed", 42, "Random seed")
	start := flag.String("start", "2026-01-01", "First panel date (YYYY-MM-DD)")
	missing := flag.Float64("missing", 0.03, "Per-cell missing probability")
	flag.Parse()

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatalf("invalid start date: %v", err)
	}

	tbl, err := synthdata.Generate(synthdata.Config{
		Participants: *participants,
		Days:         *days,
		Seed:         *seed,
		StartDate:    startDate,
		MissingRate:  *missing,
	})
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	if err := dataset.SaveCSV(tbl, *out); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("wrote %s: %d observations across %d metrics", *out, len(tbl.Observations), len(tbl.Metrics))
}
