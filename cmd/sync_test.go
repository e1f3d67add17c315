package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenACoffman/anotherr/errors"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/ds"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/schema"
)

func TestRunTablesContinuesPastFailure(t *testing.T) {
	report := ds.NewSyncReport(ds.ModeIncremental)
	var processed []string
	runTables(report, schema.Tables(), func(table schema.Table) (int64, error) {
		processed = append(processed, table.Name)
		if table.Name == "activities" {
			return 0, errors.New("source table missing")
		}
		return 5, nil
	})

	require.Len(t, processed, len(schema.Tables()),
		"a failing table must not stop the remaining tables")
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, len(schema.Tables())-1, report.Succeeded())
	assert.Equal(t, int64(5*(len(schema.Tables())-1)), report.TotalRows())

	for _, res := range report.Results {
		if res.Table != "activities" {
			assert.NoError(t, res.Err, res.Table)
			continue
		}
		require.Error(t, res.Err)
		var tErr *ds.TableSyncError
		require.True(t, errors.As(res.Err, &tErr))
		assert.Equal(t, "activities", tErr.Table)
	}
}
