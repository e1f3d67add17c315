// delete-tables drops the destination tables so a full_refresh run can
// recreate them with the declared schema.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/bq"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/config"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/gcpapi"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/schema"
)

const (
	exitFail    = 1
	exitSuccess = 0
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	os.Exit(run(logger))
}

func run(logger *zap.Logger) int {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("configuration error", zap.Error(err))
		return exitFail
	}

	ctx := context.Background()
	credentials, err := gcpapi.NewCredentials(cfg.CredentialsFile)
	if err != nil {
		logger.Error("unable to get GCP credentials", zap.Error(err))
		return exitFail
	}
	client, err := gcpapi.NewBigQueryClient(ctx, cfg.ProjectID, credentials)
	if err != nil {
		logger.Error("unable to open bigquery client", zap.Error(err))
		return exitFail
	}
	defer func() {
		_ = client.Close()
	}()

	logger.Info(fmt.Sprintf("deleting tables from %s.%s", cfg.ProjectID, cfg.DatasetID))
	failed := 0
	for _, table := range schema.Tables() {
		if err := bq.DeleteTable(ctx, client, cfg.DatasetID, table.Name); err != nil {
			logger.Error("failed to delete table",
				zap.String("table", table.Name), zap.Error(err))
			failed++
			continue
		}
		logger.Info("deleted table", zap.String("table", table.Name))
	}
	if failed > 0 {
		return exitFail
	}
	logger.Info("done; run a full_refresh sync to recreate the tables")
	return exitSuccess
}
