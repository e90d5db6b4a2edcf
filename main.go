package main

import (
	"log"

	"github.com/joho/godotenv"

	"cohortlens/adapters/stats/engine"
	"cohortlens/internal/config"
	"cohortlens/internal/dataset"
	"cohortlens/internal/logging"
	"cohortlens/internal/synthdata"
	"cohortlens/ui"
)

func main() {
	// Load .env file if present (ignore error in production)
	_ = godotenv.Load()

	logger := logging.New("main")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tbl, err := loadTable(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to load panel: %v", err)
	}
	logger.Info("panel ready: %d metrics, %d observations, cohorts %v",
		len(tbl.Metrics), len(tbl.Observations), tbl.Cohorts())

	app := ui.NewApp(ui.Config{
		Port:   cfg.Server.Port,
		Table:  tbl,
		Engine: engine.New(cfg.Analysis.Thresholds()),
	})

	if err := app.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadTable reads the configured data file, or generates the deterministic
// demo panel when no file is configured.
func loadTable(cfg *config.Config, logger *logging.Logger) (*dataset.Table, error) {
	if cfg.Data.File != "" {
		logger.Info("loading panel from %s", cfg.Data.File)
		return dataset.Load(cfg.Data.File)
	}

	gen := synthdata.DefaultConfig()
	gen.Participants = cfg.Data.SampleCohort
	gen.Days = cfg.Data.SampleDays
	gen.Seed = cfg.Data.SampleSeed
	logger.Info("no data file configured, generating sample panel (%d participants x %d days, seed %d)",
		gen.Participants, gen.Days, gen.Seed)
	return synthdata.Generate(gen)
}
