// Package config resolves the sync run's settings from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/StevenACoffman/anotherr/errors"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/ds"
)

const (
	defaultDataset         = "garmin_data"
	defaultLocation        = "US"
	defaultIncrementalDays = 30
	defaultGCSFolder       = "garmin"
)

// Config is the resolved run configuration. ProjectID is the only
// required field; everything else has a default.
type Config struct {
	ProjectID       string
	DatasetID       string
	Location        string
	Mode            ds.Mode
	IncrementalDays int
	GCSBucket       string
	GCSFolder       string
	CredentialsFile string
}

// FromEnv reads and validates the environment. A missing GCP_PROJECT_ID
// or an unknown SYNC_MODE is a ds.ErrConfiguration and fatal to the run.
func FromEnv() (Config, error) {
	cfg := Config{
		ProjectID:       os.Getenv("GCP_PROJECT_ID"),
		DatasetID:       getEnv("DATASET_ID", defaultDataset),
		Location:        getEnv("DATASET_LOCATION", defaultLocation),
		GCSFolder:       getEnv("GCS_FOLDER", defaultGCSFolder),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		IncrementalDays: defaultIncrementalDays,
	}
	if cfg.ProjectID == "" {
		return Config{}, errors.Wrap(ds.ErrConfiguration,
			"GCP_PROJECT_ID environment variable is required")
	}
	cfg.GCSBucket = getEnv("GCS_BUCKET", fmt.Sprintf("%s-garmin-staging", cfg.ProjectID))

	mode := ds.Mode(getEnv("SYNC_MODE", string(ds.ModeIncremental)))
	switch mode {
	case ds.ModeIncremental, ds.ModeFullRefresh:
		cfg.Mode = mode
	default:
		return Config{}, errors.Wrapf(ds.ErrConfiguration,
			"SYNC_MODE must be %q or %q, got %q",
			ds.ModeIncremental, ds.ModeFullRefresh, mode)
	}

	if v := os.Getenv("INCREMENTAL_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return Config{}, errors.Wrapf(ds.ErrConfiguration,
				"INCREMENTAL_DAYS must be a positive integer, got %q", v)
		}
		cfg.IncrementalDays = days
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
