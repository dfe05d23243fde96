package field

import (
	"time"

	"github.com/google/uuid"
)

// Stock generator defaults. These cover the two generator shapes the dialect
// adapters know how to express as DDL built-ins; arbitrary generators are
// still accepted via GeneratedDefault and filled at write time by the mapper.

// UUIDDefault returns a generated default producing random UUID strings.
// PostgreSQL renders it as gen_random_uuid(); SQLite and MySQL defer it to
// write time.
func UUIDDefault() *Default {
	return GeneratedDefault(func() any {
		return uuid.NewString()
	})
}

// NowDefault returns a generated default producing the current UTC time.
// Rendered as CURRENT_TIMESTAMP / NOW() for ISO-encoded date fields.
func NowDefault() *Default {
	return GeneratedDefault(func() any {
		return time.Now().UTC()
	})
}
