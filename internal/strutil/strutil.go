// Package strutil provides string utilities for case conversion and SQL naming
// used throughout the relgen codebase.
package strutil

import (
	"strings"
	"unicode"
)

// -----------------------------------------------------------------------------
// Case Conversion
// -----------------------------------------------------------------------------

// ToSnakeCase converts a string to snake_case.
// Examples: userName -> user_name, UserName -> user_name, HTTPServer -> http_server
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s) + 4)

	for i, r := range s {
		if unicode.IsUpper(r) {
			// Add underscore before uppercase letter if:
			// - Not at the start
			// - Previous char is lowercase, OR
			// - Next char exists and is lowercase (handles "HTTPServer" -> "http_server")
			if i > 0 {
				prev := rune(s[i-1])
				if unicode.IsLower(prev) {
					result.WriteByte('_')
				} else if i+1 < len(s) && unicode.IsLower(rune(s[i+1])) {
					result.WriteByte('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else if r == '-' || r == ' ' {
			result.WriteByte('_')
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// -----------------------------------------------------------------------------
// SQL Naming
// -----------------------------------------------------------------------------

// TableName returns the physical table name for an entity: prefix + name.
// An empty prefix yields the bare entity name.
func TableName(prefix, entity string) string {
	if prefix == "" {
		return entity
	}
	return prefix + entity
}

// IndexName generates a non-unique index name: idx_table_col1_col2...
func IndexName(table string, cols ...string) string {
	return joinName("idx", table, cols)
}

// UniqueIndexName generates a unique index name: uniq_table_col1_col2...
func UniqueIndexName(table string, cols ...string) string {
	return joinName("uniq", table, cols)
}

// ForeignKeyName generates a foreign key constraint name: fk_table_col.
func ForeignKeyName(table string, cols ...string) string {
	return joinName("fk", table, cols)
}

func joinName(kind, table string, cols []string) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte('_')
	b.WriteString(table)
	for _, col := range cols {
		b.WriteByte('_')
		b.WriteString(col)
	}
	return b.String()
}
