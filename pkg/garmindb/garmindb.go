// Package garmindb reads rows out of the SQLite database files that the
// external GarminDB downloader maintains.
package garmindb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/StevenACoffman/anotherr/errors"

	"github.com/peipeipe/garmin-bigquery-sync/pkg/ds"
	"github.com/peipeipe/garmin-bigquery-sync/pkg/schema"
)

// Source owns the open SQLite connections for one run. Connections are
// opened lazily per database file and released by Close.
type Source struct {
	dir    string
	cached bool
	logger *zap.Logger
	dbs    map[string]*sql.DB
}

// Open locates the GarminDB database directory and prepares a Source.
// ~/HealthData/DBs is preferred; ~/.GarminDb is the cached fallback.
// Neither existing is a ds.ErrSourceUnavailable and fatal to the run.
func Open(logger *zap.Logger) (*Source, error) {
	dir, cached, err := locate()
	if err != nil {
		return nil, err
	}
	if cached {
		logger.Info("primary database directory missing, using cached databases",
			zap.String("dir", dir))
	}
	return OpenDir(logger, dir, cached), nil
}

// OpenDir prepares a Source over an explicit database directory.
func OpenDir(logger *zap.Logger, dir string, cached bool) *Source {
	return &Source{
		dir:    dir,
		cached: cached,
		logger: logger,
		dbs:    make(map[string]*sql.DB),
	}
}

func locate() (string, bool, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "unable to resolve home directory")
	}
	primary := filepath.Join(home, "HealthData", "DBs")
	cache := filepath.Join(home, ".GarminDb")
	if hasDatabases(primary) {
		return primary, false, nil
	}
	if hasDatabases(cache) {
		return cache, true, nil
	}
	return "", false, errors.Wrapf(ds.ErrSourceUnavailable,
		"no GarminDB databases in %s or %s; run the garmindb downloader first",
		primary, cache)
}

func hasDatabases(dir string) bool {
	for _, file := range []string{schema.GarminDB, schema.GarminActivitiesDB} {
		if info, err := os.Stat(filepath.Join(dir, file)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// Cached reports whether the Source fell back to the cached directory.
func (s *Source) Cached() bool { return s.cached }

// Dir returns the database directory in use.
func (s *Source) Dir() string { return s.dir }

func (s *Source) Close() error {
	var firstErr error
	for file, db := range s.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "unable to close "+file)
		}
	}
	return firstErr
}

// db opens the named database file on first use. SQLite only supports
// one writer; a single connection also keeps reads deterministic.
func (s *Source) db(file string) (*sql.DB, error) {
	if db, ok := s.dbs[file]; ok {
		return db, nil
	}
	path := filepath.Join(s.dir, file)
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "database file %s not found", path)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=query_only(1)")
	if err != nil {
		return nil, errors.Wrap(err, "unable to open "+path)
	}
	db.SetMaxOpenConns(1)
	s.dbs[file] = db
	return db, nil
}

// TableExists checks sqlite_master for the descriptor's table.
func (s *Source) TableExists(ctx context.Context, table schema.Table) (bool, error) {
	if err := schema.ValidateTableName(table.Name); err != nil {
		return false, err
	}
	db, err := s.db(table.DBFile)
	if err != nil {
		return false, err
	}
	var name string
	err = db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		table.Name,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "unable to check table "+table.Name)
	}
	return true, nil
}

// ReadRows reads the descriptor's columns in declared order. A non-empty
// since bounds the read to rows whose window column is >= since
// (incremental mode); empty since reads the full history.
func (s *Source) ReadRows(ctx context.Context, table schema.Table, since string) ([]ds.Row, error) {
	if err := schema.ValidateTableName(table.Name); err != nil {
		return nil, err
	}
	db, err := s.db(table.DBFile)
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		cols = append(cols, quoteIdent(c.Name))
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table.Name)
	var args []any
	if since != "" {
		query += fmt.Sprintf(" WHERE %s >= ?", quoteIdent(table.WindowColumn))
		args = append(args, since)
	}
	query += fmt.Sprintf(" ORDER BY %s", quoteIdent(table.WindowColumn))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query "+table.Name)
	}
	defer rows.Close()

	var out []ds.Row
	for rows.Next() {
		row := make(ds.Row, len(table.Columns))
		ptrs := make([]any, len(table.Columns))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "unable to scan row from "+table.Name)
		}
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration failed for "+table.Name)
	}
	return out, nil
}

// quoteIdent double-quotes a column identifier; sleep carries a column
// named "end", which is a keyword in both SQLite and BigQuery.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
