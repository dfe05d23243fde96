// Package adapter provides database-specific SQL generation and value
// transforms. Each dialect adapter implements the same contract: field to
// column mapping, table definition assembly, CREATE TABLE rendering, and the
// bidirectional value transform pipeline between application and storage
// representations.
package adapter

import (
	"sort"
	"sync"

	"github.com/halverin/relgen/internal/ddl"
	"github.com/halverin/relgen/internal/field"
	"github.com/halverin/relgen/internal/relerr"
)

// Adapter is the contract every dialect implements.
// Implementations exist for SQLite, MySQL, and PostgreSQL.
type Adapter interface {
	// Name returns the canonical dialect name (sqlite, mysql, postgres).
	Name() string

	// MapFieldToColumn maps one resolved field to exactly one column
	// definition. Explicit per-dialect hint types win over the generic
	// type-inference table.
	MapFieldToColumn(f *field.Resolved) (*ddl.Column, error)

	// GenerateTableDefinition turns a resolved schema into a complete table
	// definition: columns, primary key, indexes, and foreign keys. Generator
	// defaults that cannot be rendered as DDL are surfaced as warnings on the
	// returned table, never silently dropped.
	GenerateTableDefinition(s *field.ResolvedSchema) (*ddl.Table, error)

	// GenerateCreateTableSQL renders the table definition as SQL text: one
	// CREATE TABLE IF NOT EXISTS statement, followed by CREATE INDEX
	// statements where the definition has indexes.
	GenerateCreateTableSQL(t *ddl.Table) (string, error)

	// ToDatabase converts an application-level value to its storage-level
	// representation for the given field.
	ToDatabase(v any, f *field.Resolved) any

	// FromDatabase converts a storage-level value back to its
	// application-level representation. It never fails: undecodable stored
	// values are returned unchanged.
	FromDatabase(v any, f *field.Resolved) any
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// Registry is a lookup from dialect identifier to adapter. Reads may happen
// concurrently; registration is expected during process initialization and is
// guarded for callers that register later.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// normalizeDialect maps accepted dialect aliases to canonical names.
func normalizeDialect(name string) string {
	switch name {
	case "postgresql", "pg":
		return "postgres"
	case "sqlite3":
		return "sqlite"
	case "mariadb":
		return "mysql"
	default:
		return name
	}
}

// Register adds an adapter under its canonical name.
// Registering the same dialect twice is an error.
func (r *Registry) Register(a Adapter) error {
	if a == nil {
		return relerr.New(relerr.ErrInvalidSchema, "adapter cannot be nil")
	}
	name := normalizeDialect(a.Name())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return relerr.New(relerr.ErrAdapterDuplicate, "adapter already registered").
			WithDialect(name)
	}
	r.adapters[name] = a
	return nil
}

// Get returns the adapter for a dialect identifier. Aliases are accepted
// (postgresql, sqlite3, mariadb). Unknown dialects fail with ErrAdapterNotFound;
// there is no fallback dialect.
func (r *Registry) Get(dialect string) (Adapter, error) {
	name := normalizeDialect(dialect)

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[name]
	if !ok {
		return nil, relerr.New(relerr.ErrAdapterNotFound, "no adapter registered for dialect").
			WithDialect(dialect).
			WithHelp("supported dialects: " + "sqlite, mysql, postgres")
	}
	return a, nil
}

// List returns a copy of the registered adapters keyed by canonical name.
func (r *Registry) List() map[string]Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Adapter, len(r.adapters))
	for name, a := range r.adapters {
		out[name] = a
	}
	return out
}

// Names returns the sorted canonical names of all registered adapters.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry pre-populated with the SQLite,
// MySQL, and PostgreSQL adapters. It is finalized on first use; callers that
// need additional dialects should build their own registry via NewRegistry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, a := range []Adapter{SQLite(), MySQL(), Postgres()} {
			// Registration of the built-in adapters cannot collide.
			_ = defaultRegistry.Register(a)
		}
	})
	return defaultRegistry
}
