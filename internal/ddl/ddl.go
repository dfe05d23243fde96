// Package ddl defines the dialect-facing relational artifacts: column, index,
// foreign key, and table definitions. These are pure, discardable values
// derived per (resolved schema, dialect) pair.
package ddl

import (
	"github.com/halverin/relgen/internal/relerr"
)

// Column is a single column definition with its rendered SQL type.
type Column struct {
	Name          string // Physical column name
	Type          string // Dialect-specific SQL type (TEXT, BIGINT, JSONB, ...)
	Nullable      bool
	PrimaryKey    bool   // Single-column primary key rendered inline
	Unique        bool
	AutoIncrement bool
	Default       string     // Rendered SQL default expression ("" = no DEFAULT clause)
	References    *Reference // Inline foreign key reference
	Comment       string
}

// Reference is an inline foreign key reference from a column.
type Reference struct {
	Table    string
	Column   string
	OnDelete string
	OnUpdate string
}

// Index is an index definition rendered as a separate CREATE INDEX statement.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// ForeignKey is a table-level foreign key constraint.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   string
	OnUpdate   string
}

// Warning records a generation decision the caller should know about, such as
// a generator default that cannot be rendered as a DDL DEFAULT clause.
type Warning struct {
	Field   string
	Message string
}

// Table is a complete table definition: columns, primary key, indexes, and
// foreign keys, plus any warnings produced while deriving it.
type Table struct {
	Name        string
	Columns     []*Column
	PrimaryKey  []string // 1..n columns; empty when the entity has none
	Indexes     []*Index
	ForeignKeys []*ForeignKey
	Warnings    []Warning

	// AutoIncrementStart seeds the auto-increment counter where the dialect
	// supports a table option for it (MySQL AUTO_INCREMENT=n).
	AutoIncrementStart int64
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, col := range t.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	return t.Column(name) != nil
}

// Validate checks the structural invariants of the table definition:
// a name, at least one column, no duplicate columns, and primary key and
// foreign key columns that actually exist in the column list.
func (t *Table) Validate() error {
	if t.Name == "" {
		return relerr.New(relerr.ErrInvalidSchema, "table name is required")
	}
	if len(t.Columns) == 0 {
		return relerr.New(relerr.ErrInvalidSchema, "table must have at least one column").
			With("table", t.Name)
	}

	seen := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		if col.Name == "" {
			return relerr.New(relerr.ErrInvalidSchema, "column name is required").
				With("table", t.Name)
		}
		if seen[col.Name] {
			return relerr.New(relerr.ErrDuplicateField, "duplicate column name").
				With("table", t.Name).
				With("column", col.Name)
		}
		seen[col.Name] = true
	}

	for _, pk := range t.PrimaryKey {
		if !seen[pk] {
			return relerr.New(relerr.ErrInvalidSchema, "primary key column does not exist").
				With("table", t.Name).
				With("column", pk)
		}
	}

	for _, fk := range t.ForeignKeys {
		if len(fk.Columns) == 0 {
			return relerr.New(relerr.ErrInvalidSchema, "foreign key must have at least one column").
				With("table", t.Name)
		}
		if fk.RefTable == "" {
			return relerr.New(relerr.ErrInvalidSchema, "foreign key must reference a table").
				With("table", t.Name)
		}
		if len(fk.Columns) != len(fk.RefColumns) {
			return relerr.New(relerr.ErrInvalidSchema, "foreign key column count must match referenced column count").
				With("table", t.Name).
				With("columns", len(fk.Columns)).
				With("ref_columns", len(fk.RefColumns))
		}
		for _, col := range fk.Columns {
			if !seen[col] {
				return relerr.New(relerr.ErrInvalidSchema, "foreign key column does not exist").
					With("table", t.Name).
					With("column", col)
			}
		}
	}

	for _, idx := range t.Indexes {
		if len(idx.Columns) == 0 {
			return relerr.New(relerr.ErrInvalidSchema, "index must have at least one column").
				With("table", t.Name)
		}
		for _, col := range idx.Columns {
			if !seen[col] {
				return relerr.New(relerr.ErrInvalidSchema, "index column does not exist").
					With("table", t.Name).
					With("column", col)
			}
		}
	}

	return nil
}
