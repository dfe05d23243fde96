package adapter

import (
	"log/slog"

	"github.com/halverin/relgen/internal/ddl"
	"github.com/halverin/relgen/internal/field"
	"github.com/halverin/relgen/internal/relerr"
	"github.com/halverin/relgen/internal/strutil"
)

// typeMapper is the per-dialect surface the shared builders compose:
// the type table and the default-rendering knobs.
type typeMapper interface {
	// columnType infers the SQL type for a resolved field, honoring explicit
	// per-dialect hint types over the generic inference table.
	columnType(f *field.Resolved) (string, error)
	staticDefaults() defaultRenderOpts
	generatedDefaults() generatedDefaultOpts
	// autoIncrement reports whether the field becomes an auto-increment column.
	autoIncrement(f *field.Resolved) bool
}

// mapFieldToColumn maps one resolved field to exactly one column definition.
// All dialects share this shape; only the type table and default rendering
// differ.
func mapFieldToColumn(f *field.Resolved, m typeMapper) (*ddl.Column, error) {
	if f == nil {
		return nil, relerr.New(relerr.ErrInvalidSchema, "resolved field cannot be nil")
	}

	sqlType, err := m.columnType(f)
	if err != nil {
		return nil, err
	}

	col := &ddl.Column{
		Name:          f.PhysicalName,
		Type:          sqlType,
		Nullable:      !f.Required && !f.PrimaryKey,
		PrimaryKey:    f.PrimaryKey,
		Unique:        f.Hints != nil && f.Hints.Unique,
		AutoIncrement: m.autoIncrement(f),
		Comment:       f.Description,
	}

	if f.Default != nil {
		if v, ok := f.Default.Static(); ok {
			col.Default = renderStaticDefault(v, f, m.staticDefaults())
		} else if expr, ok := renderGeneratedDefault(f, m.generatedDefaults()); ok {
			col.Default = expr
		}
		// Non-representable generator defaults leave col.Default empty; the
		// table builder records a warning so the divergence is visible.
	}

	if rel := f.Relationship; rel != nil && rel.Kind.OwnsForeignKey() {
		onDelete, err := field.NormalizeFKAction(rel.OnDelete)
		if err != nil {
			return nil, err
		}
		onUpdate, err := field.NormalizeFKAction(rel.OnUpdate)
		if err != nil {
			return nil, err
		}
		col.References = &ddl.Reference{
			Table:    rel.TargetEntity,
			Column:   rel.TargetColumn(),
			OnDelete: onDelete,
			OnUpdate: onUpdate,
		}
	}

	return col, nil
}

// buildTableDefinition assembles a complete table definition from a resolved
// schema: one column per field, the primary key set (explicit flags, or the
// implicit "id" fallback), hint-derived and schema-level indexes, and foreign
// keys for owning relationships. Many-to-many relationships produce no foreign
// key here; they live in a join table generated elsewhere.
func buildTableDefinition(s *field.ResolvedSchema, a Adapter) (*ddl.Table, error) {
	if s == nil || len(s.Fields) == 0 {
		return nil, relerr.New(relerr.ErrInvalidSchema, "resolved schema has no fields")
	}

	table := &ddl.Table{Name: s.TableName()}

	pkNames := make(map[string]bool)
	for _, pk := range s.PrimaryKeyFields() {
		pkNames[pk.Name] = true
		table.PrimaryKey = append(table.PrimaryKey, pk.PhysicalName)
	}

	for _, f := range s.SortedFields() {
		col, err := a.MapFieldToColumn(f)
		if err != nil {
			return nil, relerr.Wrap(relerr.ErrSQLGeneration, err, "cannot map field to column").
				WithEntity(s.EntityName).
				WithField(f.Name).
				WithDialect(a.Name())
		}

		// Implicit primary key members are NOT NULL even without a flag.
		if pkNames[f.Name] {
			col.PrimaryKey = true
			col.Nullable = false
		}
		table.Columns = append(table.Columns, col)

		if f.Type == field.TypeIncrementalID && f.Start > 0 {
			table.AutoIncrementStart = f.Start
		}

		if f.Default.IsGenerated() && col.Default == "" {
			table.Warnings = append(table.Warnings, ddl.Warning{
				Field:   f.Name,
				Message: "generator default is not representable in DDL; it is applied at write time by the field mapper",
			})
			slog.Debug("generator default deferred to write time",
				"entity", s.EntityName,
				"field", f.Name,
				"dialect", a.Name())
		}

		// Hint-derived indexes: unique renders as an inline UNIQUE constraint
		// on the column, indexed becomes a separate CREATE INDEX.
		if f.Hints != nil && f.Hints.Indexed && !f.Hints.Unique && !pkNames[f.Name] {
			table.Indexes = append(table.Indexes, &ddl.Index{
				Name:    strutil.IndexName(table.Name, col.Name),
				Columns: []string{col.Name},
			})
		}

		if col.References != nil {
			table.ForeignKeys = append(table.ForeignKeys, &ddl.ForeignKey{
				Name:       strutil.ForeignKeyName(table.Name, col.Name),
				Columns:    []string{col.Name},
				RefTable:   col.References.Table,
				RefColumns: []string{col.References.Column},
				OnDelete:   col.References.OnDelete,
				OnUpdate:   col.References.OnUpdate,
			})
		}
	}

	// Schema-level indexes from config, mapped to physical column names.
	for _, spec := range s.Indexes {
		cols := make([]string, 0, len(spec.Fields))
		for _, name := range spec.Fields {
			f := s.Field(name)
			if f == nil {
				return nil, relerr.New(relerr.ErrInvalidSchema, "index references unknown field").
					WithEntity(s.EntityName).
					WithField(name)
			}
			cols = append(cols, f.PhysicalName)
		}
		name := spec.Name
		if name == "" {
			if spec.Unique {
				name = strutil.UniqueIndexName(table.Name, cols...)
			} else {
				name = strutil.IndexName(table.Name, cols...)
			}
		}
		table.Indexes = append(table.Indexes, &ddl.Index{
			Name:    name,
			Columns: cols,
			Unique:  spec.Unique,
		})
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
