package field

// Hints carry advisory storage metadata for a field. The generic storage
// category hints guide the shared type-inference table; the nested per-dialect
// hints override it outright when an explicit type is given.
type Hints struct {
	// StorageType refines the storage category of a number field:
	// "integer" (default), "decimal", or "float".
	StorageType string

	// MaxSize bounds string storage (VARCHAR(n) when the dialect honors it).
	MaxSize int

	// Precision and Scale configure decimal storage. For integers, Precision
	// selects the integer width on dialects that distinguish them.
	Precision int
	Scale     int

	Indexed     bool // CREATE INDEX on this column
	Unique      bool // UNIQUE constraint / index
	HasTimezone bool // Timezone-aware timestamp storage where supported

	SQLite   *SQLiteHints
	MySQL    *MySQLHints
	Postgres *PostgresHints
}

// Storage category values for Hints.StorageType.
const (
	StorageInteger = "integer"
	StorageDecimal = "decimal"
	StorageFloat   = "float"
)

// SQLiteHints override column generation for the sqlite dialect.
type SQLiteHints struct {
	Type string // Explicit SQL type, wins over inference
}

// MySQLHints override column generation for the mysql dialect.
type MySQLHints struct {
	Type          string // Explicit SQL type, wins over inference
	Charset       string // Per-column CHARACTER SET
	Unsigned      bool   // UNSIGNED modifier on numeric types
	AutoIncrement bool   // Force AUTO_INCREMENT
}

// PostgresHints override column generation for the postgres dialect.
type PostgresHints struct {
	Type      string // Explicit SQL type, wins over inference
	UseSerial bool   // SERIAL/BIGSERIAL instead of an identity default
}

// Clone returns a deep copy of the hints.
func (h *Hints) Clone() *Hints {
	if h == nil {
		return nil
	}
	out := *h
	if h.SQLite != nil {
		s := *h.SQLite
		out.SQLite = &s
	}
	if h.MySQL != nil {
		m := *h.MySQL
		out.MySQL = &m
	}
	if h.Postgres != nil {
		p := *h.Postgres
		out.Postgres = &p
	}
	return &out
}

// IsDecimal reports whether the hints describe decimal number storage.
func (h *Hints) IsDecimal() bool {
	if h == nil {
		return false
	}
	return h.StorageType == StorageDecimal || (h.Scale > 0 && h.Precision > 0)
}

// IsFloat reports whether the hints describe floating-point number storage.
func (h *Hints) IsFloat() bool {
	return h != nil && h.StorageType == StorageFloat
}

// DecimalPrecision returns the precision and scale for decimal storage,
// defaulting to (10, 2) when unset.
func (h *Hints) DecimalPrecision() (precision, scale int) {
	precision, scale = 10, 2
	if h == nil {
		return
	}
	if h.Precision > 0 {
		precision = h.Precision
	}
	if h.Scale > 0 {
		scale = h.Scale
	}
	return
}
