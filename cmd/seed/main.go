// Command seed loads a YAML fixture into the database for local dashboards.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/config"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/repositories"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/seed"
	log "github.com/sirupsen/logrus"
)

func main() {
	path := flag.String("fixture", "cmd/seed/fixtures.yaml", "path to the YAML fixture")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	fixture, err := seed.LoadFile(*path)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}
	dataset, err := fixture.Resolve(time.Now())
	if err != nil {
		log.Fatalf("Invalid fixture: %v", err)
	}

	dbCfg, err := config.LoadDB()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db, err := repositories.InitDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.WithError(err).Warn("Failed to close database connection")
		}
	}()

	if err := seed.Apply(context.Background(), db, dataset); err != nil {
		log.WithError(err).Error("Seeding failed")
		return
	}
	log.WithField("fixture", *path).Info("Seeding complete")
}
