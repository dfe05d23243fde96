// Shared SQL assembly helpers used by all dialect adapters. Dialects differ in
// quoting, boolean literals, clause ordering, and type tables; everything else
// is composed from the functions in this file.
package adapter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/halverin/relgen/internal/ddl"
	"github.com/halverin/relgen/internal/field"
)

// QuoteFunc quotes an identifier for a dialect.
type QuoteFunc func(name string) string

// quoteDoubleQuote quotes an identifier with double quotes, doubling embedded
// quotes. Used by SQLite and PostgreSQL.
func quoteDoubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteBacktick quotes an identifier with backticks, doubling embedded
// backticks. Used by MySQL.
func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// writeQuotedList writes comma-separated quoted identifiers to the builder.
func writeQuotedList(b *strings.Builder, items []string, quote QuoteFunc) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(item))
	}
}

// -----------------------------------------------------------------------------
// Default value rendering
// -----------------------------------------------------------------------------

// BooleanLiterals holds the true/false SQL literals for a dialect.
type BooleanLiterals struct {
	True  string
	False string
}

// NumericBooleans uses 1/0 (SQLite, MySQL).
var NumericBooleans = BooleanLiterals{True: "1", False: "0"}

// KeywordBooleans uses TRUE/FALSE (PostgreSQL).
var KeywordBooleans = BooleanLiterals{True: "TRUE", False: "FALSE"}

// defaultRenderOpts configures static default literal rendering.
type defaultRenderOpts struct {
	Booleans BooleanLiterals
	// JSONCast is appended to JSON default literals (Postgres: "::jsonb").
	JSONCast string
	// QuoteLiteral renders a SQL string literal. Defaults to single-quote
	// doubling; Postgres plugs in pq.QuoteLiteral.
	QuoteLiteral func(string) string
}

func (o defaultRenderOpts) quoteLiteral(s string) string {
	if o.QuoteLiteral != nil {
		return o.QuoteLiteral(s)
	}
	return quoteStringLiteral(s)
}

// quoteStringLiteral renders a SQL string literal with single quotes doubled.
func quoteStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// renderStaticDefault renders a literal default value as a dialect-correct SQL
// expression. Dates honor the field's declared encoding format; JSON-like
// values are stringified and cast where the dialect wants one.
func renderStaticDefault(v any, f *field.Resolved, opts defaultRenderOpts) string {
	if v == nil {
		return "NULL"
	}

	if t, ok := v.(time.Time); ok {
		return renderTimeLiteral(t, f.EffectiveFormat(), opts)
	}

	if f.Type.IsJSONLike() {
		encoded, err := json.Marshal(v)
		if err != nil {
			return opts.quoteLiteral(fmt.Sprintf("%v", v)) + opts.JSONCast
		}
		return opts.quoteLiteral(string(encoded)) + opts.JSONCast
	}

	switch val := v.(type) {
	case string:
		return opts.quoteLiteral(val)
	case bool:
		if val {
			return opts.Booleans.True
		}
		return opts.Booleans.False
	case int:
		return fmt.Sprintf("%d", val)
	case int32:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float32:
		return fmt.Sprintf("%g", val)
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return opts.quoteLiteral(fmt.Sprintf("%v", val))
	}
}

// renderTimeLiteral renders a time value in the field's storage encoding.
func renderTimeLiteral(t time.Time, format string, opts defaultRenderOpts) string {
	switch format {
	case field.FormatUnix:
		return fmt.Sprintf("%d", t.Unix())
	case field.FormatUnixMillis:
		return fmt.Sprintf("%d", t.UnixMilli())
	default:
		return opts.quoteLiteral(t.UTC().Format(time.RFC3339))
	}
}

// generatedDefaultOpts configures which generator defaults a dialect can
// express as DDL built-ins.
type generatedDefaultOpts struct {
	CurrentTimestamp string // CURRENT_TIMESTAMP, NOW(), ...
	UUIDGenerator    string // gen_random_uuid() where supported, "" otherwise
}

// renderGeneratedDefault maps a generator default to a dialect built-in when
// the field's semantic type is recognized. The second return is false when the
// generator is not representable in DDL; the table generator turns that into
// an explicit warning so DDL and application defaults never diverge silently.
func renderGeneratedDefault(f *field.Resolved, opts generatedDefaultOpts) (string, bool) {
	switch f.Type {
	case field.TypeDate:
		if f.EffectiveFormat() == field.FormatISO && opts.CurrentTimestamp != "" {
			return opts.CurrentTimestamp, true
		}
	case field.TypeUUID:
		if opts.UUIDGenerator != "" {
			return opts.UUIDGenerator, true
		}
	}
	return "", false
}

// -----------------------------------------------------------------------------
// Column definition rendering
// -----------------------------------------------------------------------------

// ColumnClauseOrder configures constraint clause ordering in column definitions.
type ColumnClauseOrder int

const (
	// OrderPKFirst: name type [PRIMARY KEY] [AUTOINC] [NOT NULL] [UNIQUE] [DEFAULT].
	// Used by SQLite and PostgreSQL.
	OrderPKFirst ColumnClauseOrder = iota
	// OrderPKLast: name type [NOT NULL] [DEFAULT] [AUTOINC] [UNIQUE] [PRIMARY KEY].
	// Used by MySQL.
	OrderPKLast
)

// columnDefConfig holds the dialect knobs for rendering one column definition.
type columnDefConfig struct {
	Quote QuoteFunc
	// AutoIncrementKeyword is emitted for auto-increment columns
	// (AUTOINCREMENT, AUTO_INCREMENT). Empty when the type carries it
	// (Postgres BIGSERIAL).
	AutoIncrementKeyword string
	Order                ColumnClauseOrder
}

// buildColumnDefSQL renders one column definition. inlinePK is true when the
// table has a single-column primary key and this is it; composite keys render
// as a separate PRIMARY KEY clause instead.
func buildColumnDefSQL(col *ddl.Column, inlinePK bool, cfg columnDefConfig) string {
	var b strings.Builder

	b.WriteString(cfg.Quote(col.Name))
	b.WriteString(" ")
	b.WriteString(col.Type)

	autoInc := ""
	if col.AutoIncrement && cfg.AutoIncrementKeyword != "" {
		autoInc = " " + cfg.AutoIncrementKeyword
	}

	switch cfg.Order {
	case OrderPKLast:
		writeNotNull(&b, col, inlinePK)
		writeDefaultClause(&b, col)
		// MySQL requires the auto-increment column to be a key (error 1075),
		// so the keyword only renders on the inline primary key or on a
		// UNIQUE column.
		if inlinePK || col.Unique {
			b.WriteString(autoInc)
		}
		writeUnique(&b, col, inlinePK)
		if inlinePK {
			b.WriteString(" PRIMARY KEY")
		}
	default:
		if inlinePK {
			b.WriteString(" PRIMARY KEY")
			b.WriteString(autoInc)
		}
		writeNotNull(&b, col, inlinePK)
		writeUnique(&b, col, inlinePK)
		writeDefaultClause(&b, col)
	}

	return b.String()
}

// writeNotNull writes the NOT NULL clause. Primary key columns are implicitly
// NOT NULL and skip the clause.
func writeNotNull(b *strings.Builder, col *ddl.Column, inlinePK bool) {
	if !col.Nullable && !inlinePK {
		b.WriteString(" NOT NULL")
	}
}

// writeUnique writes the UNIQUE clause unless the column is the primary key.
func writeUnique(b *strings.Builder, col *ddl.Column, inlinePK bool) {
	if col.Unique && !inlinePK {
		b.WriteString(" UNIQUE")
	}
}

// writeDefaultClause writes the DEFAULT clause if a rendered default is set.
func writeDefaultClause(b *strings.Builder, col *ddl.Column) {
	if col.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(col.Default)
	}
}

// -----------------------------------------------------------------------------
// Statement assembly
// -----------------------------------------------------------------------------

// buildForeignKeyClause renders a table-level FOREIGN KEY constraint.
func buildForeignKeyClause(fk *ddl.ForeignKey, quote QuoteFunc) string {
	var b strings.Builder

	if fk.Name != "" {
		b.WriteString("CONSTRAINT ")
		b.WriteString(quote(fk.Name))
		b.WriteString(" ")
	}

	b.WriteString("FOREIGN KEY (")
	writeQuotedList(&b, fk.Columns, quote)
	b.WriteString(") REFERENCES ")
	b.WriteString(quote(fk.RefTable))
	b.WriteString(" (")
	writeQuotedList(&b, fk.RefColumns, quote)
	b.WriteString(")")

	if fk.OnDelete != "" {
		b.WriteString(" ON DELETE ")
		b.WriteString(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		b.WriteString(" ON UPDATE ")
		b.WriteString(fk.OnUpdate)
	}

	return b.String()
}

// createTableOpts configures dialect-specific CREATE TABLE assembly.
type createTableOpts struct {
	Quote QuoteFunc
	// ColumnDef renders one column definition; inlinePK marks the single
	// primary key column.
	ColumnDef func(col *ddl.Column, inlinePK bool) string
	// TableSuffix is appended after the closing parenthesis
	// (MySQL engine/charset options).
	TableSuffix string
	// IndexIfNotExists is true where CREATE INDEX IF NOT EXISTS is supported.
	IndexIfNotExists bool
}

// buildCreateTableSQL assembles the full SQL script for a table definition:
// one CREATE TABLE IF NOT EXISTS statement followed by one CREATE INDEX
// statement per index, each terminated with a semicolon.
func buildCreateTableSQL(t *ddl.Table, opts createTableOpts) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	singlePK := len(t.PrimaryKey) == 1

	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(opts.Quote(t.Name))
	b.WriteString(" (\n")

	for i, col := range t.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		inlinePK := singlePK && col.Name == t.PrimaryKey[0]
		b.WriteString(opts.ColumnDef(col, inlinePK))
	}

	if len(t.PrimaryKey) > 1 {
		b.WriteString(",\n  PRIMARY KEY (")
		writeQuotedList(&b, t.PrimaryKey, opts.Quote)
		b.WriteString(")")
	}

	for _, fk := range t.ForeignKeys {
		b.WriteString(",\n  ")
		b.WriteString(buildForeignKeyClause(fk, opts.Quote))
	}

	b.WriteString("\n)")
	b.WriteString(opts.TableSuffix)
	b.WriteString(";")

	for _, idx := range t.Indexes {
		b.WriteString("\n")
		b.WriteString(buildCreateIndexSQL(t.Name, idx, opts.Quote, opts.IndexIfNotExists))
		b.WriteString(";")
	}

	return b.String(), nil
}

// buildCreateIndexSQL renders one CREATE [UNIQUE] INDEX statement.
func buildCreateIndexSQL(table string, idx *ddl.Index, quote QuoteFunc, ifNotExists bool) string {
	var b strings.Builder

	b.WriteString("CREATE ")
	if idx.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(quote(idx.Name))
	b.WriteString(" ON ")
	b.WriteString(quote(table))
	b.WriteString(" (")
	writeQuotedList(&b, idx.Columns, quote)
	b.WriteString(")")

	return b.String()
}
