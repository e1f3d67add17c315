package schema

import (
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	valid := []string{
		"daily_summary",
		"activities",
		"sleep",
		"monitoring_hr",
		"test_table_123",
		"TABLE_NAME",
	}
	for _, name := range valid {
		assert.NoError(t, ValidateTableName(name), name)
	}

	invalid := []string{
		"table; DROP TABLE users;",
		"table name",
		"table-name",
		"table.name",
		"table/name",
		"table'name",
		`table"name`,
		"table`name",
		"",
	}
	for _, name := range invalid {
		assert.Error(t, ValidateTableName(name), name)
	}
}

func TestTablesAllowList(t *testing.T) {
	tables := Tables()
	require.Len(t, tables, 6)

	names := make(map[string]bool)
	for _, tbl := range tables {
		assert.False(t, names[tbl.Name], "duplicate table name %s", tbl.Name)
		names[tbl.Name] = true

		assert.NoError(t, ValidateTableName(tbl.Name))
		assert.NotEmpty(t, tbl.DBFile, tbl.Name)
		assert.NotEmpty(t, tbl.Columns, tbl.Name)
		require.NotEmpty(t, tbl.PrimaryKey, tbl.Name)

		cols := make(map[string]bool)
		for _, c := range tbl.Columns {
			assert.False(t, cols[c.Name], "%s: duplicate column %s", tbl.Name, c.Name)
			cols[c.Name] = true
			assert.NotEmpty(t, FieldType(c.Type), "%s.%s has unmapped type", tbl.Name, c.Name)
		}
		for _, pk := range tbl.PrimaryKey {
			assert.True(t, cols[pk], "%s: primary key %s not a declared column", tbl.Name, pk)
		}
		assert.True(t, cols[tbl.WindowColumn],
			"%s: window column %s not a declared column", tbl.Name, tbl.WindowColumn)
	}
	for _, expected := range []string{
		"daily_summary", "activities", "sleep", "stress", "weight", "resting_hr",
	} {
		assert.True(t, names[expected], "missing table %s", expected)
	}
}

func TestBigQuerySchema(t *testing.T) {
	tbl, ok := Lookup("weight")
	require.True(t, ok)

	s := tbl.BigQuerySchema()
	require.Len(t, s, 2)
	assert.Equal(t, "day", s[0].Name)
	assert.Equal(t, bigquery.DateFieldType, s[0].Type)
	assert.True(t, s[0].Required, "primary key column must be REQUIRED")
	assert.Equal(t, "weight", s[1].Name)
	assert.Equal(t, bigquery.FloatFieldType, s[1].Type)
	assert.False(t, s[1].Required)
}

func TestLookupUnknownTable(t *testing.T) {
	_, ok := Lookup("monitoring_hr")
	assert.False(t, ok)
}

func TestActivitiesLiveInOwnDatabase(t *testing.T) {
	tbl, ok := Lookup("activities")
	require.True(t, ok)
	assert.Equal(t, GarminActivitiesDB, tbl.DBFile)

	daily, ok := Lookup("daily_summary")
	require.True(t, ok)
	assert.Equal(t, GarminDB, daily.DBFile)
}
