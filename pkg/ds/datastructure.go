// Package ds provides general datastructures of general use
package ds

import "time"

// Mode selects how destination rows are reconciled with source rows.
type Mode string

const (
	// ModeIncremental reads only the trailing window of source rows and
	// merges them into the destination by primary key.
	ModeIncremental Mode = "incremental"
	// ModeFullRefresh reads the entire history and replaces all
	// destination rows.
	ModeFullRefresh Mode = "full_refresh"
)

// Row is one source row, values aligned with the table descriptor's
// column order. Values are string, int64, float64 or nil as scanned
// from SQLite.
type Row []any

// SyncTableInfo provides all the accumulated information associated with
// exporting one table from the GarminDB SQLite files and importing it
// to BigQuery.
type SyncTableInfo struct {
	TableName             string
	BQProject             string
	Dataset               string
	LocalFileName         string
	LocalScratchDirectory string
	LocalFullFilePath     string
	ObjectName            string
	GCSFolder             string
	GCSBucket             string
	StagingTableName      string
	FQDestTable           string
	FQStagingTable        string
	PKs                   []string
	ColNames              []string
	RunTSStr              string
	RunTS                 time.Time
}
