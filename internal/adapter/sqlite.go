package adapter

import (
	"github.com/halverin/relgen/internal/ddl"
	"github.com/halverin/relgen/internal/field"
	"github.com/halverin/relgen/internal/relerr"
)

// sqliteAdapter implements the Adapter contract for SQLite.
type sqliteAdapter struct{}

// SQLite returns the SQLite adapter.
func SQLite() Adapter {
	return &sqliteAdapter{}
}

func (d *sqliteAdapter) Name() string {
	return "sqlite"
}

// -----------------------------------------------------------------------------
// Type mapping
// SQLite has dynamic typing with type affinities: TEXT, INTEGER, REAL, BLOB.
// Most semantic types map to TEXT; length constraints are application-level.
// -----------------------------------------------------------------------------

func (d *sqliteAdapter) columnType(f *field.Resolved) (string, error) {
	if f.Hints != nil && f.Hints.SQLite != nil && f.Hints.SQLite.Type != "" {
		return f.Hints.SQLite.Type, nil
	}

	switch f.Type {
	case field.TypeString:
		// SQLite ignores length constraints; always TEXT.
		return "TEXT", nil
	case field.TypeNumber:
		if f.Hints.IsFloat() || f.Hints.IsDecimal() {
			return "REAL", nil
		}
		return "INTEGER", nil
	case field.TypeBoolean:
		// No native BOOLEAN; INTEGER stores 0/1.
		return "INTEGER", nil
	case field.TypeDate:
		if f.EffectiveFormat() == field.FormatISO {
			return "TEXT", nil
		}
		return "INTEGER", nil
	case field.TypeUUID:
		return "TEXT", nil
	case field.TypeIncrementalID:
		return "INTEGER", nil
	default:
		if f.Type.IsJSONLike() {
			// JSON1 stores JSON as TEXT.
			return "TEXT", nil
		}
		return "", relerr.New(relerr.ErrInvalidType, "unsupported field type").
			With("type", string(f.Type)).
			WithDialect(d.Name())
	}
}

func (d *sqliteAdapter) staticDefaults() defaultRenderOpts {
	return defaultRenderOpts{Booleans: NumericBooleans}
}

func (d *sqliteAdapter) generatedDefaults() generatedDefaultOpts {
	// No UUID generator built-in; uuid generator defaults are filled by the
	// field mapper at write time.
	return generatedDefaultOpts{CurrentTimestamp: "CURRENT_TIMESTAMP"}
}

func (d *sqliteAdapter) autoIncrement(f *field.Resolved) bool {
	return f.Type == field.TypeIncrementalID
}

// -----------------------------------------------------------------------------
// Contract
// -----------------------------------------------------------------------------

func (d *sqliteAdapter) MapFieldToColumn(f *field.Resolved) (*ddl.Column, error) {
	return mapFieldToColumn(f, d)
}

func (d *sqliteAdapter) GenerateTableDefinition(s *field.ResolvedSchema) (*ddl.Table, error) {
	return buildTableDefinition(s, d)
}

func (d *sqliteAdapter) GenerateCreateTableSQL(t *ddl.Table) (string, error) {
	return buildCreateTableSQL(t, createTableOpts{
		Quote:            quoteDoubleQuote,
		ColumnDef:        d.columnDefSQL,
		IndexIfNotExists: true,
	})
}

// columnDefSQL renders one column definition.
// AUTOINCREMENT is only valid on INTEGER PRIMARY KEY columns.
func (d *sqliteAdapter) columnDefSQL(col *ddl.Column, inlinePK bool) string {
	cfg := columnDefConfig{
		Quote: quoteDoubleQuote,
		Order: OrderPKFirst,
	}
	if inlinePK {
		cfg.AutoIncrementKeyword = "AUTOINCREMENT"
	}
	return buildColumnDefSQL(col, inlinePK, cfg)
}

func (d *sqliteAdapter) ToDatabase(v any, f *field.Resolved) any {
	return toDatabase(v, f, transformOpts{})
}

func (d *sqliteAdapter) FromDatabase(v any, f *field.Resolved) any {
	return fromDatabase(v, f, transformOpts{})
}
