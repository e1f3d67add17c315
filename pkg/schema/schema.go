// Package schema declares the fixed allow-list of GarminDB tables
// eligible for sync, each with its ordered column schema, primary key
// and source database file.
package schema

import (
	"regexp"

	"cloud.google.com/go/bigquery"

	"github.com/StevenACoffman/anotherr/errors"
)

// ColumnType is the semantic type of a source column. It maps 1:1 onto
// a BigQuery field type via FieldType.
type ColumnType string

const (
	TypeString   ColumnType = "STRING"
	TypeInteger  ColumnType = "INTEGER"
	TypeFloat    ColumnType = "FLOAT"
	TypeDate     ColumnType = "DATE"
	TypeDateTime ColumnType = "DATETIME"
	TypeTime     ColumnType = "TIME"
)

type Column struct {
	Name string
	Type ColumnType
}

// Table describes one allow-listed table: where its rows live in the
// GarminDB SQLite files, the exact destination schema, the merge key
// and the column the incremental window is applied to.
type Table struct {
	Name         string
	DBFile       string
	Columns      []Column
	PrimaryKey   []string
	WindowColumn string
}

// ColumnNames returns the column names in declared order.
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// BigQuerySchema builds the destination schema for the descriptor.
// Primary-key columns are REQUIRED, everything else NULLABLE.
func (t Table) BigQuerySchema() bigquery.Schema {
	pks := make(map[string]bool, len(t.PrimaryKey))
	for _, pk := range t.PrimaryKey {
		pks[pk] = true
	}
	s := make(bigquery.Schema, 0, len(t.Columns))
	for _, c := range t.Columns {
		s = append(s, &bigquery.FieldSchema{
			Name:     c.Name,
			Type:     fieldMap[c.Type],
			Required: pks[c.Name],
		})
	}
	return s
}

var fieldMap = map[ColumnType]bigquery.FieldType{
	TypeString:   bigquery.StringFieldType,
	TypeInteger:  bigquery.IntegerFieldType,
	TypeFloat:    bigquery.FloatFieldType,
	TypeDate:     bigquery.DateFieldType,
	TypeDateTime: bigquery.DateTimeFieldType,
	TypeTime:     bigquery.TimeFieldType,
}

// FieldType maps a semantic column type to its BigQuery field type.
func FieldType(t ColumnType) bigquery.FieldType {
	return fieldMap[t]
}

var tableNameRE = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateTableName rejects any table name that could smuggle SQL past
// the identifier position it is interpolated into.
func ValidateTableName(name string) error {
	if !tableNameRE.MatchString(name) {
		return errors.Newf("invalid table name: %q", name)
	}
	return nil
}
