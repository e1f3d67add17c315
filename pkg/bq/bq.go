// Package bq implements the BigQuery side of the sync: dataset and
// table provisioning, CSV loads and the primary-key merge.
package bq

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/StevenACoffman/anotherr/errors"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/ds"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/schema"
)

// EnsureDataset creates the destination dataset in the configured
// location when it does not exist yet.
func EnsureDataset(
	ctx context.Context,
	client *bigquery.Client,
	datasetID string,
	location string,
) error {
	dataset := client.Dataset(datasetID)
	_, err := dataset.Metadata(ctx)
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return errors.Wrap(err, "Unable to get metadata for dataset "+datasetID)
	}
	err = dataset.Create(ctx, &bigquery.DatasetMetadata{Location: location})
	if err != nil {
		return errors.Wrap(err, "Unable to create dataset "+datasetID)
	}
	return nil
}

// EnsureTable creates the destination table with the exact declared
// schema when absent, zero rows included. An existing table whose
// schema does not match the descriptor is a ds.ErrSchemaMismatch.
func EnsureTable(
	ctx context.Context,
	client *bigquery.Client,
	datasetID string,
	table schema.Table,
) error {
	ref := client.Dataset(datasetID).Table(table.Name)
	meta, err := ref.Metadata(ctx)
	if err != nil {
		if !isNotFound(err) {
			return errors.Wrap(err, "Unable to get metadata for table "+table.Name)
		}
		err = ref.Create(ctx, &bigquery.TableMetadata{Schema: table.BigQuerySchema()})
		if err != nil {
			return errors.Wrap(err, "Unable to create table "+table.Name)
		}
		return nil
	}
	if !schemasMatch(meta.Schema, table.BigQuerySchema()) {
		return errors.Wrapf(ds.ErrSchemaMismatch,
			"table %s exists with an incompatible schema", table.Name)
	}
	return nil
}

// schemasMatch compares field names and types in order. Destination
// schemas are immutable across runs, so exact equality is the contract.
func schemasMatch(existing, declared bigquery.Schema) bool {
	if len(existing) != len(declared) {
		return false
	}
	for i, field := range declared {
		if existing[i].Name != field.Name || existing[i].Type != field.Type {
			return false
		}
	}
	return true
}

// LoadCSV loads the staged GCS object into the named table with the
// declared schema, replacing any prior contents.
func LoadCSV(
	ctx context.Context,
	client *bigquery.Client,
	info *ds.SyncTableInfo,
	tableName string,
	tableSchema bigquery.Schema,
) error {
	uri := fmt.Sprintf("gs://%s/%s", info.GCSBucket, info.ObjectName)
	gcsRef := bigquery.NewGCSReference(uri)
	gcsRef.SourceFormat = bigquery.CSV
	gcsRef.FieldDelimiter = "^"
	gcsRef.SkipLeadingRows = 1
	gcsRef.Schema = tableSchema

	loader := client.Dataset(info.Dataset).Table(tableName).LoaderFrom(gcsRef)
	loader.WriteDisposition = bigquery.WriteTruncate

	job, err := loader.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "BQ CSV loader Run failed")
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return errors.Wrap(err, "BQ CSV Load Wait failed")
	}
	if status != nil && status.Err() != nil {
		return errors.Wrap(status.Err(), "BQ load job completed with error")
	}
	return nil
}

// MergeStaging upserts the staging table into the destination with a
// single atomic MERGE on the primary key, then drops the staging table.
func MergeStaging(
	ctx context.Context,
	logger *zap.Logger,
	client *bigquery.Client,
	info *ds.SyncTableInfo,
) error {
	logger.Info(
		fmt.Sprint(
			"Merging staging table "+info.FQStagingTable,
			" primary keys: ",
			strings.Join(info.PKs, ","),
		),
	)
	mergeQuery := CreateMergeQuery(info)
	logger.Debug(mergeQuery)
	_, err := performBigQuery(ctx, client, mergeQuery)
	if err != nil {
		return errors.Wrap(err, "Unable to perform MergeQuery")
	}
	err = client.Dataset(info.Dataset).Table(info.StagingTableName).Delete(ctx)
	if err != nil && !isNotFound(err) {
		return errors.Wrap(err, "Unable to delete staging table "+info.StagingTableName)
	}
	return nil
}

// CreateMergeQuery builds the MERGE statement that upserts staging rows
// into the destination by primary key. Matched rows are overwritten in
// full; new keys are inserted. Identifiers are backquoted because the
// sleep table carries a column named "end".
func CreateMergeQuery(info *ds.SyncTableInfo) string {
	nonPKs := setDifference(info.ColNames, info.PKs)
	var valCols []string
	for _, v := range nonPKs {
		valCols = append(valCols, fmt.Sprintf("T.`%s` = S.`%s`", v, v))
	}

	var joinCols []string
	for _, v := range info.PKs {
		joinCols = append(joinCols, fmt.Sprintf("T.`%s` = S.`%s`", v, v))
	}
	joinColsStr := strings.Join(joinCols, " AND ")

	if len(valCols) == 0 {
		// every column is part of the key, nothing to update
		return fmt.Sprintf(`MERGE INTO %s T
				        USING %s S
				        ON (%s)
				        WHEN NOT MATCHED THEN
				            %s;`,
			info.FQDestTable, info.FQStagingTable, joinColsStr,
			createInsert(info.ColNames))
	}

	return fmt.Sprintf(`MERGE INTO %s T
				        USING %s S
				        ON (%s)
				        WHEN MATCHED THEN
				            UPDATE SET %s
				        WHEN NOT MATCHED THEN
				            %s;`,
		info.FQDestTable, info.FQStagingTable, joinColsStr,
		strings.Join(valCols, ",\n"),
		createInsert(info.ColNames))
}

// DeleteTable drops a destination table; a table that is already gone
// is not an error.
func DeleteTable(
	ctx context.Context,
	client *bigquery.Client,
	datasetID string,
	tableName string,
) error {
	err := client.Dataset(datasetID).Table(tableName).Delete(ctx)
	if err != nil && !isNotFound(err) {
		return errors.Wrap(err, "Unable to delete table "+tableName)
	}
	return nil
}

func performBigQuery(
	ctx context.Context,
	client *bigquery.Client,
	q string,
) ([][]bigquery.Value, error) {
	query := client.Query(q)
	iter, err := query.Read(ctx) // *bigquery.RowIterator
	if err != nil {
		return nil, errors.Wrap(err, "Unable to read BigQuery query "+q)
	}

	var rows [][]bigquery.Value

	for {
		var row []bigquery.Value
		err = iter.Next(&row)
		if errors.Is(err, iterator.Done) {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "Unable to get next BQ row")
		}
		rows = append(rows, row)
	}
}

func setDifference(superset, subset []string) []string {
	set := make(map[string]bool)
	for _, value := range subset {
		set[value] = true
	}
	var result []string
	for _, value := range superset {
		if found := set[value]; !found {
			result = append(result, value)
		}
	}

	return result
}

// createInsert will generate an insert statement like:
// `INSERT (
//
//	id,
//	latest,
//	history)
//
// VALUES (
//
//	S.id,
//	S.latest,
//	S.history)`
func createInsert(colNames []string) string {
	var targetCols []string
	var sourceCols []string
	for _, v := range colNames {
		targetCols = append(targetCols, fmt.Sprintf("`%s`", v))
		sourceCols = append(sourceCols, fmt.Sprintf("S.`%s`", v))
	}
	return fmt.Sprintf(
		`INSERT (%s) VALUES (%s)`,
		strings.Join(targetCols, ",\n"),
		strings.Join(sourceCols, ",\n"),
	)
}

func isNotFound(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == 404
	}
	return false
}
