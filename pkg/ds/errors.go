package ds

import (
	"github.com/StevenACoffman/anotherr/errors"
)

// Sentinel error kinds for the sync run. Configuration and total source
// unavailability are fatal; table errors are recorded and the run
// continues.
var (
	// ErrConfiguration marks a missing or invalid required setting.
	ErrConfiguration = errors.New("configuration error")
	// ErrSourceUnavailable marks the absence of any GarminDB database,
	// cached or otherwise.
	ErrSourceUnavailable = errors.New("source database unavailable")
	// ErrSchemaMismatch marks a destination table whose existing schema
	// does not match the declared descriptor.
	ErrSchemaMismatch = errors.New("destination schema mismatch")
)

// TableSyncError carries the table name alongside the underlying
// per-table read/write failure.
type TableSyncError struct {
	Table string
	Err   error
}

func (e *TableSyncError) Error() string {
	return "table " + e.Table + " sync failed: " + e.Err.Error()
}

func (e *TableSyncError) Unwrap() error { return e.Err }

// NewTableSyncError wraps err with the failing table's name.
func NewTableSyncError(table string, err error) *TableSyncError {
	return &TableSyncError{Table: table, Err: err}
}
