package adapter

import (
	"fmt"

	"github.com/lib/pq"

	"github.com/halverin/relgen/internal/ddl"
	"github.com/halverin/relgen/internal/field"
	"github.com/halverin/relgen/internal/relerr"
)

// postgresAdapter implements the Adapter contract for PostgreSQL.
type postgresAdapter struct{}

// Postgres returns the PostgreSQL adapter.
func Postgres() Adapter {
	return &postgresAdapter{}
}

func (d *postgresAdapter) Name() string {
	return "postgres"
}

// -----------------------------------------------------------------------------
// Type mapping
// -----------------------------------------------------------------------------

func (d *postgresAdapter) columnType(f *field.Resolved) (string, error) {
	hints := f.Hints
	var ph *field.PostgresHints
	if hints != nil {
		ph = hints.Postgres
	}
	if ph != nil && ph.Type != "" {
		return ph.Type, nil
	}

	switch f.Type {
	case field.TypeString:
		if hints != nil && hints.MaxSize > 0 {
			return fmt.Sprintf("VARCHAR(%d)", hints.MaxSize), nil
		}
		return "TEXT", nil
	case field.TypeNumber:
		if hints.IsFloat() {
			return "DOUBLE PRECISION", nil
		}
		if hints.IsDecimal() {
			p, s := hints.DecimalPrecision()
			return fmt.Sprintf("NUMERIC(%d,%d)", p, s), nil
		}
		return "INTEGER", nil
	case field.TypeBoolean:
		return "BOOLEAN", nil
	case field.TypeDate:
		if f.EffectiveFormat() == field.FormatISO {
			if hints != nil && hints.HasTimezone {
				return "TIMESTAMPTZ", nil
			}
			return "TIMESTAMP", nil
		}
		return "BIGINT", nil
	case field.TypeUUID:
		return "UUID", nil
	case field.TypeIncrementalID:
		// BIGSERIAL by default; the use_serial hint drops to 32-bit SERIAL.
		if ph != nil && ph.UseSerial {
			return "SERIAL", nil
		}
		return "BIGSERIAL", nil
	default:
		if f.Type.IsJSONLike() {
			return "JSONB", nil
		}
		return "", relerr.New(relerr.ErrInvalidType, "unsupported field type").
			With("type", string(f.Type)).
			WithDialect(d.Name())
	}
}

func (d *postgresAdapter) staticDefaults() defaultRenderOpts {
	return defaultRenderOpts{
		Booleans:     KeywordBooleans,
		JSONCast:     "::jsonb",
		QuoteLiteral: pq.QuoteLiteral,
	}
}

func (d *postgresAdapter) generatedDefaults() generatedDefaultOpts {
	return generatedDefaultOpts{
		CurrentTimestamp: "NOW()",
		UUIDGenerator:    "gen_random_uuid()",
	}
}

func (d *postgresAdapter) autoIncrement(f *field.Resolved) bool {
	return f.Type == field.TypeIncrementalID
}

// -----------------------------------------------------------------------------
// Contract
// -----------------------------------------------------------------------------

func (d *postgresAdapter) MapFieldToColumn(f *field.Resolved) (*ddl.Column, error) {
	return mapFieldToColumn(f, d)
}

func (d *postgresAdapter) GenerateTableDefinition(s *field.ResolvedSchema) (*ddl.Table, error) {
	return buildTableDefinition(s, d)
}

func (d *postgresAdapter) GenerateCreateTableSQL(t *ddl.Table) (string, error) {
	return buildCreateTableSQL(t, createTableOpts{
		Quote:            pq.QuoteIdentifier,
		ColumnDef:        d.columnDefSQL,
		IndexIfNotExists: true,
	})
}

// columnDefSQL renders one column definition. SERIAL types carry their own
// sequence default, so no auto-increment keyword is emitted.
func (d *postgresAdapter) columnDefSQL(col *ddl.Column, inlinePK bool) string {
	return buildColumnDefSQL(col, inlinePK, columnDefConfig{
		Quote: pq.QuoteIdentifier,
		Order: OrderPKFirst,
	})
}

func (d *postgresAdapter) ToDatabase(v any, f *field.Resolved) any {
	return toDatabase(v, f, transformOpts{NativeBooleans: true})
}

func (d *postgresAdapter) FromDatabase(v any, f *field.Resolved) any {
	return fromDatabase(v, f, transformOpts{NativeBooleans: true})
}
