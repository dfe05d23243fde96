package adapter

import (
	"errors"
	"strings"
	"testing"

	"github.com/halverin/relgen/internal/field"
	"github.com/halverin/relgen/internal/relerr"
)

func TestSQLiteColumnTypes(t *testing.T) {
	a := SQLite()

	tests := []struct {
		name string
		desc field.Descriptor
		want string
	}{
		{"string", field.Descriptor{Type: field.TypeString}, "TEXT"},
		// Length constraints are advisory; SQLite always uses TEXT.
		{"bounded string", field.Descriptor{Type: field.TypeString, Hints: &field.Hints{MaxSize: 50}}, "TEXT"},
		{"integer", field.Descriptor{Type: field.TypeNumber}, "INTEGER"},
		{"float", field.Descriptor{Type: field.TypeNumber, Hints: &field.Hints{StorageType: field.StorageFloat}}, "REAL"},
		{"decimal", field.Descriptor{Type: field.TypeNumber, Hints: &field.Hints{Precision: 10, Scale: 2}}, "REAL"},
		{"boolean", field.Descriptor{Type: field.TypeBoolean}, "INTEGER"},
		{"date iso", field.Descriptor{Type: field.TypeDate}, "TEXT"},
		{"date unix", field.Descriptor{Type: field.TypeDate, Format: field.FormatUnix}, "INTEGER"},
		{"date unix_ms", field.Descriptor{Type: field.TypeDate, Format: field.FormatUnixMillis}, "INTEGER"},
		{"uuid", field.Descriptor{Type: field.TypeUUID}, "TEXT"},
		{"json", field.Descriptor{Type: field.TypeJSON}, "TEXT"},
		{"array", field.Descriptor{Type: field.TypeArray}, "TEXT"},
		{"object", field.Descriptor{Type: field.TypeObject}, "TEXT"},
		{"incremental id", field.Descriptor{Type: field.TypeIncrementalID}, "INTEGER"},
		{"explicit hint wins", field.Descriptor{Type: field.TypeString, Hints: &field.Hints{SQLite: &field.SQLiteHints{Type: "BLOB"}}}, "BLOB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := a.MapFieldToColumn(resolvedField("f", tt.desc))
			if err != nil {
				t.Fatalf("MapFieldToColumn() = %v", err)
			}
			if col.Type != tt.want {
				t.Errorf("type = %q, want %q", col.Type, tt.want)
			}
		})
	}
}

func TestSQLiteUnsupportedType(t *testing.T) {
	_, err := SQLite().MapFieldToColumn(resolvedField("f", field.Descriptor{Type: "geometry"}))
	if !errors.Is(err, relerr.New(relerr.ErrInvalidType, "")) {
		t.Errorf("err = %v, want ErrInvalidType", err)
	}
}

func TestSQLiteCreateTable(t *testing.T) {
	s := resolvedSchema("user", map[string]field.Descriptor{
		"id":       {Type: field.TypeUUID, PrimaryKey: true},
		"username": {Type: field.TypeString, Hints: &field.Hints{MaxSize: 50, Unique: true, Indexed: true}},
		"active":   {Type: field.TypeBoolean, Default: field.StaticDefault(true)},
	})

	table, err := SQLite().GenerateTableDefinition(s)
	if err != nil {
		t.Fatalf("GenerateTableDefinition() = %v", err)
	}

	if got := table.Column("username").Type; got != "TEXT" {
		t.Errorf("username type = %q, want TEXT", got)
	}
	if got := table.Column("id").Type; got != "TEXT" {
		t.Errorf("id type = %q, want TEXT", got)
	}
	if got := table.Column("active").Type; got != "INTEGER" {
		t.Errorf("active type = %q, want INTEGER", got)
	}

	sql, err := SQLite().GenerateCreateTableSQL(table)
	if err != nil {
		t.Fatalf("GenerateCreateTableSQL() = %v", err)
	}

	want := `CREATE TABLE IF NOT EXISTS "user" (
  "id" TEXT PRIMARY KEY,
  "active" INTEGER DEFAULT 1,
  "username" TEXT UNIQUE
);`
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestSQLiteAutoIncrement(t *testing.T) {
	s := resolvedSchema("counter", map[string]field.Descriptor{
		"id": {Type: field.TypeIncrementalID, PrimaryKey: true},
	})

	table, err := SQLite().GenerateTableDefinition(s)
	if err != nil {
		t.Fatal(err)
	}
	sql, err := SQLite().GenerateCreateTableSQL(table)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(sql, `"id" INTEGER PRIMARY KEY AUTOINCREMENT`) {
		t.Errorf("sql missing AUTOINCREMENT clause:\n%s", sql)
	}
}

func TestSQLiteGeneratedUUIDWarning(t *testing.T) {
	s := resolvedSchema("session", map[string]field.Descriptor{
		"id":    {Type: field.TypeUUID, PrimaryKey: true, Default: field.UUIDDefault()},
		"token": {Type: field.TypeString, Required: true},
	})

	table, err := SQLite().GenerateTableDefinition(s)
	if err != nil {
		t.Fatal(err)
	}

	// SQLite has no UUID generator built-in, so the DDL carries no default and
	// the divergence is surfaced as a warning.
	if got := table.Column("id").Default; got != "" {
		t.Errorf("id default = %q, want empty", got)
	}
	if len(table.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", table.Warnings)
	}
	if table.Warnings[0].Field != "id" {
		t.Errorf("warning field = %q, want id", table.Warnings[0].Field)
	}
}

func TestSQLiteGeneratedTimestampDefault(t *testing.T) {
	s := resolvedSchema("event", map[string]field.Descriptor{
		"id":         {Type: field.TypeUUID, PrimaryKey: true},
		"created_at": {Type: field.TypeDate, Default: field.NowDefault()},
	})

	table, err := SQLite().GenerateTableDefinition(s)
	if err != nil {
		t.Fatal(err)
	}

	if got := table.Column("created_at").Default; got != "CURRENT_TIMESTAMP" {
		t.Errorf("created_at default = %q, want CURRENT_TIMESTAMP", got)
	}
	if len(table.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", table.Warnings)
	}
}

func TestSQLiteIndexStatements(t *testing.T) {
	s := resolvedSchema("article", map[string]field.Descriptor{
		"id":    {Type: field.TypeUUID, PrimaryKey: true},
		"slug":  {Type: field.TypeString, Hints: &field.Hints{Indexed: true}},
		"title": {Type: field.TypeString, Required: true},
	})

	table, err := SQLite().GenerateTableDefinition(s)
	if err != nil {
		t.Fatal(err)
	}
	sql, err := SQLite().GenerateCreateTableSQL(table)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(sql, `CREATE INDEX IF NOT EXISTS "idx_article_slug" ON "article" ("slug");`) {
		t.Errorf("sql missing index statement:\n%s", sql)
	}
}
