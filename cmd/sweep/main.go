// Command sweep runs one retention pass against the destination store
// and exits. Useful for ad-hoc cleanup and scheduled jobs outside the
// server process.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/config"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/retention"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.RetentionEnabled() {
		log.Fatal("Retention is disabled; set RETENTION_MAX_AGE_DAYS to a positive value")
	}

	store, err := cfg.BuildDestinationStore()
	if err != nil {
		log.Fatalf("Failed to build destination store: %v", err)
	}

	sweeper, err := retention.NewSweeper(store, cfg.RetentionRule())
	if err != nil {
		log.Fatalf("Failed to build retention sweeper: %v", err)
	}

	deleted, err := sweeper.SweepOnce(context.Background())
	if err != nil {
		log.Fatalf("Retention sweep failed after removing %d objects: %v", deleted, err)
	}

	log.Printf("Retention sweep removed %d objects under %s", deleted, cfg.RetentionPrefix)
}
