package ds

import (
	"testing"

	"github.com/StevenACoffman/anotherr/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSyncReportAggregation(t *testing.T) {
	report := NewSyncReport(ModeIncremental)
	report.Record("daily_summary", 120, nil)
	report.Record("activities", 0, NewTableSyncError("activities",
		errors.New("table activities not found in garmin_activities.db")))
	report.Record("sleep", 30, nil)

	assert.Equal(t, int64(150), report.TotalRows())
	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	require.Len(t, report.Results, 3)

	// summary logging must not panic with mixed outcomes
	report.LogSummary(zaptest.NewLogger(t))
}

func TestSyncReportFailedRowsExcludedFromTotal(t *testing.T) {
	report := NewSyncReport(ModeFullRefresh)
	report.Record("weight", 10, errors.New("load rejected"))
	assert.Equal(t, int64(0), report.TotalRows())
	assert.Equal(t, 1, report.Failed())
}

func TestTableSyncError(t *testing.T) {
	cause := errors.New("boom")
	err := NewTableSyncError("stress", cause)

	assert.Contains(t, err.Error(), "stress")
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, errors.Is(err, cause))
}

func TestSentinelKinds(t *testing.T) {
	wrapped := errors.Wrap(ErrSourceUnavailable, "no databases found")
	assert.True(t, errors.Is(wrapped, ErrSourceUnavailable))
	assert.False(t, errors.Is(wrapped, ErrConfiguration))
}
