// Package devdb provides an ephemeral in-memory SQLite database used to
// verify generated DDL: a schema that executes cleanly against a real engine
// is structurally sound. The generation engine itself never executes SQL;
// this is a CLI-side collaborator.
package devdb

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/halverin/relgen/internal/relerr"
)

// DevDatabase is an ephemeral in-memory database for DDL verification.
type DevDatabase struct {
	db *sql.DB
}

// New creates an in-memory SQLite database.
func New() (*DevDatabase, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, relerr.Wrap(relerr.ErrSQLVerify, err, "cannot create verification database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, relerr.Wrap(relerr.ErrSQLVerify, err, "cannot open verification database")
	}
	return &DevDatabase{db: db}, nil
}

// Close closes the database.
func (d *DevDatabase) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// ExecScript executes a generated DDL script statement by statement.
// Statements are separated by ";" at end of line, the way the SQL generator
// emits them.
func (d *DevDatabase) ExecScript(ctx context.Context, script string) error {
	for _, stmt := range splitStatements(script) {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return relerr.Wrap(relerr.ErrSQLVerify, err, "generated DDL failed verification").
				WithSQL(stmt)
		}
	}
	return nil
}

// splitStatements splits a generated script on statement-terminating
// semicolons at line end.
func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";\n") {
		stmt := strings.TrimSuffix(strings.TrimSpace(part), ";")
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
