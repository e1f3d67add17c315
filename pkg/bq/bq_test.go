package bq

import (
	"strings"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/ds"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/schema"
)

func testInfo() *ds.SyncTableInfo {
	return &ds.SyncTableInfo{
		TableName:      "sleep",
		FQDestTable:    "`my-project.garmin_data.sleep`",
		FQStagingTable: "`my-project.garmin_data.sleep_staging_20240115_0400`",
		PKs:            []string{"day"},
		ColNames:       []string{"day", "start", "end", "score"},
	}
}

func TestCreateMergeQuery(t *testing.T) {
	q := CreateMergeQuery(testInfo())

	assert.Contains(t, q, "MERGE INTO `my-project.garmin_data.sleep` T")
	assert.Contains(t, q, "USING `my-project.garmin_data.sleep_staging_20240115_0400` S")
	assert.Contains(t, q, "ON (T.`day` = S.`day`)")
	assert.Contains(t, q, "WHEN MATCHED THEN")
	assert.Contains(t, q, "T.`score` = S.`score`")
	assert.Contains(t, q, "T.`end` = S.`end`", "reserved-word columns must be quoted")
	assert.NotContains(t, q, "T.`day` = S.`day`,", "primary key must not be updated")
	assert.Contains(t, q, "WHEN NOT MATCHED THEN")
	assert.Contains(t, q, "S.`day`")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(q), ";"))
}

func TestCreateMergeQueryAllKeyColumns(t *testing.T) {
	info := testInfo()
	info.ColNames = []string{"day"}

	q := CreateMergeQuery(info)
	assert.NotContains(t, q, "WHEN MATCHED", "nothing to update when every column is a key")
	assert.Contains(t, q, "WHEN NOT MATCHED THEN")
}

func TestCreateMergeQueryCompositeKey(t *testing.T) {
	info := testInfo()
	info.PKs = []string{"day", "start"}

	q := CreateMergeQuery(info)
	assert.Contains(t, q, "T.`day` = S.`day` AND T.`start` = S.`start`")
	assert.NotContains(t, q, "T.`start` = S.`start`,\n")
}

func TestSchemasMatch(t *testing.T) {
	weight, ok := schema.Lookup("weight")
	require.True(t, ok)
	declared := weight.BigQuerySchema()

	assert.True(t, schemasMatch(declared, weight.BigQuerySchema()))

	reordered := bigquery.Schema{declared[1], declared[0]}
	assert.False(t, schemasMatch(reordered, declared))

	retyped := bigquery.Schema{
		{Name: "day", Type: bigquery.DateFieldType},
		{Name: "weight", Type: bigquery.StringFieldType},
	}
	assert.False(t, schemasMatch(retyped, declared))

	truncated := bigquery.Schema{declared[0]}
	assert.False(t, schemasMatch(truncated, declared))
}

func TestSetDifference(t *testing.T) {
	assert.Equal(t,
		[]string{"b", "c"},
		setDifference([]string{"a", "b", "c"}, []string{"a"}))
	assert.Nil(t, setDifference([]string{"a"}, []string{"a"}))
	assert.Equal(t,
		[]string{"a"},
		setDifference([]string{"a"}, nil))
}
