package adapter

import (
	"fmt"

	"github.com/halverin/relgen/internal/ddl"
	"github.com/halverin/relgen/internal/field"
	"github.com/halverin/relgen/internal/relerr"
)

// mysqlAdapter implements the Adapter contract for MySQL.
type mysqlAdapter struct{}

// MySQL returns the MySQL adapter.
func MySQL() Adapter {
	return &mysqlAdapter{}
}

func (d *mysqlAdapter) Name() string {
	return "mysql"
}

// -----------------------------------------------------------------------------
// Type mapping
// -----------------------------------------------------------------------------

func (d *mysqlAdapter) columnType(f *field.Resolved) (string, error) {
	hints := f.Hints
	var mh *field.MySQLHints
	if hints != nil {
		mh = hints.MySQL
	}
	if mh != nil && mh.Type != "" {
		return mh.Type, nil
	}

	unsigned := mh != nil && mh.Unsigned

	switch f.Type {
	case field.TypeString:
		return d.stringType(hints, mh), nil
	case field.TypeNumber:
		if hints.IsFloat() {
			return numericType("DOUBLE", unsigned), nil
		}
		if hints.IsDecimal() {
			p, s := hints.DecimalPrecision()
			return numericType(fmt.Sprintf("DECIMAL(%d,%d)", p, s), unsigned), nil
		}
		return numericType(d.integerType(hints), unsigned), nil
	case field.TypeBoolean:
		return "TINYINT(1)", nil
	case field.TypeDate:
		if f.EffectiveFormat() == field.FormatISO {
			if hints != nil && hints.HasTimezone {
				return "TIMESTAMP", nil
			}
			return "DATETIME", nil
		}
		return "BIGINT", nil
	case field.TypeUUID:
		return "CHAR(36)", nil
	case field.TypeIncrementalID:
		return numericType("BIGINT", unsigned), nil
	default:
		if f.Type.IsJSONLike() {
			return "JSON", nil
		}
		return "", relerr.New(relerr.ErrInvalidType, "unsupported field type").
			With("type", string(f.Type)).
			WithDialect(d.Name())
	}
}

// stringType picks VARCHAR(n) for bounded strings and TEXT for long ones,
// with an optional per-column charset.
func (d *mysqlAdapter) stringType(hints *field.Hints, mh *field.MySQLHints) string {
	size := 255
	if hints != nil && hints.MaxSize > 0 {
		size = hints.MaxSize
	}

	typ := fmt.Sprintf("VARCHAR(%d)", size)
	if size > 255 {
		typ = "TEXT"
	}
	if mh != nil && mh.Charset != "" {
		typ += " CHARACTER SET " + mh.Charset
	}
	return typ
}

// integerType selects the integer width from the precision hint:
// the number of decimal digits the column must hold.
func (d *mysqlAdapter) integerType(hints *field.Hints) string {
	precision := 0
	if hints != nil {
		precision = hints.Precision
	}
	switch {
	case precision == 0:
		return "INT"
	case precision <= 2:
		return "TINYINT"
	case precision <= 4:
		return "SMALLINT"
	case precision <= 9:
		return "INT"
	default:
		return "BIGINT"
	}
}

func numericType(typ string, unsigned bool) string {
	if unsigned {
		return typ + " UNSIGNED"
	}
	return typ
}

func (d *mysqlAdapter) staticDefaults() defaultRenderOpts {
	return defaultRenderOpts{Booleans: NumericBooleans}
}

func (d *mysqlAdapter) generatedDefaults() generatedDefaultOpts {
	return generatedDefaultOpts{CurrentTimestamp: "CURRENT_TIMESTAMP"}
}

func (d *mysqlAdapter) autoIncrement(f *field.Resolved) bool {
	if f.Type == field.TypeIncrementalID {
		return true
	}
	return f.Hints != nil && f.Hints.MySQL != nil && f.Hints.MySQL.AutoIncrement
}

// -----------------------------------------------------------------------------
// Contract
// -----------------------------------------------------------------------------

func (d *mysqlAdapter) MapFieldToColumn(f *field.Resolved) (*ddl.Column, error) {
	return mapFieldToColumn(f, d)
}

func (d *mysqlAdapter) GenerateTableDefinition(s *field.ResolvedSchema) (*ddl.Table, error) {
	return buildTableDefinition(s, d)
}

func (d *mysqlAdapter) GenerateCreateTableSQL(t *ddl.Table) (string, error) {
	suffix := " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	if t.AutoIncrementStart > 0 {
		suffix += fmt.Sprintf(" AUTO_INCREMENT=%d", t.AutoIncrementStart)
	}
	return buildCreateTableSQL(t, createTableOpts{
		Quote:       quoteBacktick,
		ColumnDef:   d.columnDefSQL,
		TableSuffix: suffix,
		// MySQL has no CREATE INDEX IF NOT EXISTS.
	})
}

func (d *mysqlAdapter) columnDefSQL(col *ddl.Column, inlinePK bool) string {
	return buildColumnDefSQL(col, inlinePK, columnDefConfig{
		Quote:                quoteBacktick,
		AutoIncrementKeyword: "AUTO_INCREMENT",
		Order:                OrderPKLast,
	})
}

func (d *mysqlAdapter) ToDatabase(v any, f *field.Resolved) any {
	return toDatabase(v, f, transformOpts{})
}

func (d *mysqlAdapter) FromDatabase(v any, f *field.Resolved) any {
	return fromDatabase(v, f, transformOpts{})
}
