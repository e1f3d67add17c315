package csvscan

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/ds"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/schema"
)

func TestWriteRows(t *testing.T) {
	weight, ok := schema.Lookup("weight")
	require.True(t, ok)

	rows := []ds.Row{
		{"2024-01-01", 80.5},
		{"2024-01-02", nil},
		{"2024-01-03", int64(81)},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, weight, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "day^weight", lines[0])
	assert.Equal(t, "2024-01-01^80.5", lines[1])
	assert.Equal(t, "2024-01-02^", lines[2], "NULL renders as an empty field")
	assert.Equal(t, "2024-01-03^81", lines[3], "integral values stay parseable as FLOAT")
}

func TestWriteRowsHeaderOnlyForZeroRows(t *testing.T) {
	weight, _ := schema.Lookup("weight")
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, weight, nil))
	assert.Equal(t, "day^weight\n", buf.String())
}

func TestWriteRowsRejectsShortRow(t *testing.T) {
	weight, _ := schema.Lookup("weight")
	var buf bytes.Buffer
	err := WriteRows(&buf, weight, []ds.Row{{"2024-01-01"}})
	assert.Error(t, err)
}

func TestRenderValue(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		colType schema.ColumnType
		want    string
	}{
		{"nil is empty", nil, schema.TypeFloat, ""},
		{"string passthrough", "07:32:00", schema.TypeTime, "07:32:00"},
		{"int64", int64(12345), schema.TypeInteger, "12345"},
		{"float64", 3.25, schema.TypeFloat, "3.25"},
		{"float scanned into integer column", 42.0, schema.TypeInteger, "42"},
		{"int scanned into float column", int64(42), schema.TypeFloat, "42"},
		{"infinity date clamped high", "infinity", schema.TypeDate, "9999-12-31"},
		{"infinity date clamped low", "-infinity", schema.TypeDateTime, "0001-01-01"},
		{"infinity left alone for strings", "infinity", schema.TypeString, "infinity"},
		{"bool true", true, schema.TypeInteger, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderValue(tt.v, tt.colType))
		})
	}
}

func TestMakeExportCSVFileName(t *testing.T) {
	name, err := MakeExportCSVFileName("daily_summary")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^daily_summary_\d+\.csv$`), name)
}
