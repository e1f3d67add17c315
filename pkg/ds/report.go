package ds

import (
	"time"

	"go.uber.org/zap"
)

// TableResult is the per-table outcome of one sync run.
type TableResult struct {
	Table string
	Rows  int64
	Err   error
}

// SyncReport accumulates per-table outcomes over a run. It is produced
// once per invocation and only survives as log output.
type SyncReport struct {
	Mode    Mode
	Started time.Time
	Results []TableResult
}

func NewSyncReport(mode Mode) *SyncReport {
	return &SyncReport{Mode: mode, Started: time.Now()}
}

// Record appends the outcome for one table. A nil err marks success.
func (r *SyncReport) Record(table string, rows int64, err error) {
	r.Results = append(r.Results, TableResult{Table: table, Rows: rows, Err: err})
}

// TotalRows is the sum over successfully synced tables.
func (r *SyncReport) TotalRows() int64 {
	var total int64
	for _, res := range r.Results {
		if res.Err == nil {
			total += res.Rows
		}
	}
	return total
}

func (r *SyncReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

func (r *SyncReport) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// LogSummary emits the human-readable end-of-run summary.
func (r *SyncReport) LogSummary(logger *zap.Logger) {
	for _, res := range r.Results {
		if res.Err != nil {
			logger.Error("table sync failed",
				zap.String("table", res.Table),
				zap.Error(res.Err))
			continue
		}
		logger.Info("table synced",
			zap.String("table", res.Table),
			zap.Int64("rows", res.Rows))
	}
	logger.Info("sync complete",
		zap.String("mode", string(r.Mode)),
		zap.Duration("elapsed", time.Since(r.Started)),
		zap.Int64("totalRows", r.TotalRows()),
		zap.Int("succeeded", r.Succeeded()),
		zap.Int("failed", r.Failed()),
		zap.Int("tables", len(r.Results)))
}
