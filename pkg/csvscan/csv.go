// Package csvscan renders source rows into the caret-delimited CSV
// format the BigQuery loader is configured for.
package csvscan

import (
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/StevenACoffman/anotherr/errors"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/ds"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/schema"
)

// WriteRows writes a header record followed by one record per row,
// values rendered per the descriptor's semantic types. NULLs become
// empty fields, which the loader reads back as NULL.
func WriteRows(w io.Writer, table schema.Table, rows []ds.Row) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = '^'
	defer csvWriter.Flush()

	if err := csvWriter.Write(table.ColumnNames()); err != nil {
		return errors.Wrap(err, "CSV header write error")
	}
	for rowNum, row := range rows {
		if len(row) != len(table.Columns) {
			return errors.Newf(
				"row %d of %s has %d values, descriptor declares %d columns",
				rowNum, table.Name, len(row), len(table.Columns))
		}
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = renderValue(v, table.Columns[i].Type)
		}
		if err := csvWriter.Write(record); err != nil {
			return errors.Wrapf(err, "CSV write error with rows processed: %d", rowNum)
		}
	}
	csvWriter.Flush()
	return errors.Wrap(csvWriter.Error(), "CSV flush error")
}

// renderValue converts a scanned SQLite value into its CSV form for the
// declared BigQuery type.
func renderValue(v any, colType schema.ColumnType) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return clampDate(val, colType)
	case int64:
		if colType == schema.TypeFloat {
			return strconv.FormatFloat(float64(val), 'f', -1, 64)
		}
		return strconv.FormatInt(val, 10)
	case float64:
		if colType == schema.TypeInteger {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(val)
	}
}

// clampDate keeps date-ish values inside the range BigQuery accepts
// (0001-01-01 to 9999-12-31).
func clampDate(val string, colType schema.ColumnType) string {
	switch colType {
	case schema.TypeDate, schema.TypeDateTime:
		switch val {
		case "infinity":
			return "9999-12-31"
		case "-infinity":
			return "0001-01-01"
		}
	}
	return val
}

// MakeExportCSVFileName will add a random number to avoid collisions
// due to GCS retention policy preventing overwriting existing files
func MakeExportCSVFileName(tableName string) (string, error) {
	nBig, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", errors.Wrap(err, "Unable to generate random number")
	}
	extension := ".csv"
	return fmt.Sprintf(
		"%s_%d%s",
		tableName,
		nBig,
		extension,
	), nil
}
