package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/StevenACoffman/anotherr/errors"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/bq"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/config"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/csvscan"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/ds"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/garmindb"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/gcpapi"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/gcs"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/schema"
)

// Sync runs one full pass over the allow-listed tables. Only
// configuration problems and total source unavailability are returned
// as errors; per-table failures are recorded in the report and the run
// carries on with the remaining tables.
func Sync(logger *zap.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	logger.Info("starting sync",
		zap.String("project", cfg.ProjectID),
		zap.String("dataset", cfg.DatasetID),
		zap.String("mode", string(cfg.Mode)),
		zap.Int("incrementalDays", cfg.IncrementalDays))

	ctx := context.Background()
	credentials, credErr := gcpapi.NewCredentials(cfg.CredentialsFile)
	if credErr != nil {
		return errors.Wrap(credErr, "Unable to get GCP credentials")
	}
	client, err := gcpapi.NewBigQueryClient(ctx, cfg.ProjectID, credentials)
	if err != nil {
		return errors.Wrap(err, "Unable to open bigquery client")
	}
	defer func() {
		// if the ctx is cancelled, we still want to Close, so use Background
		_ = client.Close()
		logger.Info("bq client was closed successfully")
	}()

	gcsClient, gErr := gcpapi.NewCloudStorageClient(ctx, credentials)
	if gErr != nil {
		return errors.Wrap(gErr, "Unable to get NewCloudStorageClient")
	}
	defer func() {
		_ = gcsClient.Close()
		logger.Info("gcs client was closed successfully")
	}()

	src, err := garmindb.Open(logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = src.Close()
		logger.Info("source databases were closed successfully")
	}()
	logger.Info("reading source databases", zap.String("dir", src.Dir()))

	if err := bq.EnsureDataset(ctx, client, cfg.DatasetID, cfg.Location); err != nil {
		return err
	}

	// Incremental runs only look at the trailing window. Rows modified
	// outside it are never re-synced; full_refresh is the recovery path.
	since := ""
	if cfg.Mode == ds.ModeIncremental {
		since = time.Now().AddDate(0, 0, -cfg.IncrementalDays).Format("2006-01-02")
	}

	report := ds.NewSyncReport(cfg.Mode)
	runTS := time.Now().UTC()
	runTables(report, schema.Tables(), func(table schema.Table) (int64, error) {
		return processSingleTable(
			ctx,
			logger,
			client,
			gcsClient,
			src,
			cfg,
			table,
			runTS,
			since,
		)
	})
	report.LogSummary(logger)
	return nil
}

// runTables drives fn over the allow-list sequentially. A single
// table's failure is recorded and never aborts the run.
func runTables(
	report *ds.SyncReport,
	tables []schema.Table,
	fn func(schema.Table) (int64, error),
) {
	for _, table := range tables {
		rows, err := fn(table)
		if err != nil {
			err = ds.NewTableSyncError(table.Name, err)
		}
		report.Record(table.Name, rows, err)
	}
}

func processSingleTable(
	ctx context.Context,
	logger *zap.Logger,
	client *bigquery.Client,
	gcsClient *storage.Client,
	src *garmindb.Source,
	cfg config.Config,
	table schema.Table,
	runTS time.Time,
	since string,
) (int64, error) {
	logger.Info("processing table", zap.String("table", table.Name))
	info := &ds.SyncTableInfo{
		TableName:             table.Name,
		BQProject:             cfg.ProjectID,
		Dataset:               cfg.DatasetID,
		GCSBucket:             cfg.GCSBucket,
		GCSFolder:             cfg.GCSFolder,
		LocalScratchDirectory: os.TempDir(),
		PKs:                   table.PrimaryKey,
		ColNames:              table.ColumnNames(),
		RunTS:                 runTS,
		RunTSStr:              runTS.Format("20060102_1504"),
	}
	info.StagingTableName = fmt.Sprintf("%s_staging_%s", table.Name, info.RunTSStr)
	info.FQDestTable = fmt.Sprintf("`%s.%s.%s`", cfg.ProjectID, cfg.DatasetID, table.Name)
	info.FQStagingTable = fmt.Sprintf("`%s.%s.%s`", cfg.ProjectID, cfg.DatasetID, info.StagingTableName)

	// The destination table always exists with the declared schema,
	// even when this run writes zero rows.
	if err := bq.EnsureTable(ctx, client, cfg.DatasetID, table); err != nil {
		return 0, err
	}

	exists, err := src.TableExists(ctx, table)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, errors.Newf("table %s not found in %s", table.Name, table.DBFile)
	}

	rows, err := src.ReadRows(ctx, table, since)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		logger.Info("no source rows in window, nothing to load",
			zap.String("table", table.Name))
		return 0, nil
	}
	logger.Info("read source rows",
		zap.String("table", table.Name), zap.Int("rows", len(rows)))

	if err := exportCSV(logger, info, table, rows); err != nil {
		return 0, err
	}
	if err := gcs.UploadFile(ctx, logger, gcsClient, info); err != nil {
		return 0, errors.Wrap(err, "Got an error uploading to GCS")
	}

	switch cfg.Mode {
	case ds.ModeFullRefresh:
		// full reload: replace the destination contents outright
		err = bq.LoadCSV(ctx, client, info, table.Name, table.BigQuerySchema())
	default:
		// load into staging, then one atomic MERGE by primary key
		err = bq.LoadCSV(ctx, client, info, info.StagingTableName, table.BigQuerySchema())
		if err == nil {
			err = bq.MergeStaging(ctx, logger, client, info)
		}
	}
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// exportCSV stages the rows as a local caret-delimited CSV file.
func exportCSV(
	logger *zap.Logger,
	info *ds.SyncTableInfo,
	table schema.Table,
	rows []ds.Row,
) error {
	var err error
	info.LocalFileName, err = csvscan.MakeExportCSVFileName(table.Name)
	if err != nil {
		return err
	}
	info.LocalFullFilePath = filepath.Join(info.LocalScratchDirectory, info.LocalFileName)

	fileCsv, err := os.Create(info.LocalFullFilePath)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() {
		_ = fileCsv.Close()
		logger.Info("resource file was closed", zap.String("fileName", info.LocalFullFilePath))
	}()
	return csvscan.WriteRows(fileCsv, table, rows)
}
