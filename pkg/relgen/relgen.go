// Package relgen is the public entry point for the schema generation engine:
// load entity schemas and overrides, resolve them, and generate per-dialect
// table definitions, CREATE TABLE SQL, and runtime field mappers.
//
// Example:
//
//	client, err := relgen.New(
//	    relgen.WithSchemasDir("./schemas"),
//	    relgen.WithDialect("postgres"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, err := client.GenerateAll("postgres")
package relgen

import (
	"log/slog"
	"sort"

	"github.com/halverin/relgen/internal/adapter"
	"github.com/halverin/relgen/internal/config"
	"github.com/halverin/relgen/internal/ddl"
	"github.com/halverin/relgen/internal/field"
	"github.com/halverin/relgen/internal/fingerprint"
	"github.com/halverin/relgen/internal/mapper"
	"github.com/halverin/relgen/internal/relerr"
	"github.com/halverin/relgen/internal/resolve"
)

// Client is the main entry point of the engine. It holds the loaded entity
// schemas, the override configuration, and the adapter registry. A Client is
// safe for concurrent reads after New returns.
type Client struct {
	config    *Config
	schemas   map[string]*field.EntitySchema
	order     []string // Entity names in load order
	overrides *resolve.Config
	registry  *adapter.Registry
}

// Result is the generation output for one entity on one dialect.
type Result struct {
	Entity string
	Table  *ddl.Table
	SQL    string
}

// New creates a Client, loading schemas and overrides per the options.
// Cross-entity relationship targets are validated here: a relationship
// naming an unknown entity fails construction outright.
func New(opts ...Option) (*Client, error) {
	cfg := &Config{
		SchemasDir: "./schemas",
		ConfigFile: config.DefaultFile,
		Dialect:    "sqlite",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = adapter.Default()
	}

	c := &Client{
		config:    cfg,
		schemas:   make(map[string]*field.EntitySchema),
		overrides: cfg.Overrides,
		registry:  cfg.Registry,
	}

	schemas := cfg.Schemas
	if schemas == nil {
		loaded, err := config.LoadEntitiesDir(cfg.SchemasDir)
		if err != nil {
			return nil, err
		}
		schemas = loaded
	}
	for _, s := range schemas {
		if s == nil {
			continue
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.schemas[s.Name]; dup {
			return nil, relerr.New(relerr.ErrInvalidSchema, "duplicate entity name").
				WithEntity(s.Name)
		}
		c.schemas[s.Name] = s
		c.order = append(c.order, s.Name)
	}

	if c.overrides == nil && cfg.ConfigFile != "" {
		file, err := config.Load(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		ov, err := file.Overrides()
		if err != nil {
			return nil, err
		}
		c.overrides = ov
		if cfg.Dialect == "sqlite" && file.Dialect != "" {
			cfg.Dialect = file.Dialect
		}
	}

	if err := c.validateRelations(); err != nil {
		return nil, err
	}

	slog.Debug("client initialized",
		"entities", len(c.schemas),
		"dialect", cfg.Dialect)
	return c, nil
}

// validateRelations checks that every relationship targets a known entity and
// a known field on it. Unknown targets fail fast; generation never emits a
// foreign key into the void.
func (c *Client) validateRelations() error {
	for _, name := range c.order {
		s := c.schemas[name]
		for fieldName, fd := range s.Fields {
			rel := fd.Relationship
			if rel == nil {
				continue
			}
			target, ok := c.schemas[rel.TargetEntity]
			if !ok {
				return relerr.New(relerr.ErrSchemaNotFound, "relationship targets unknown entity").
					WithEntity(s.Name).
					WithField(fieldName).
					With("target", rel.TargetEntity)
			}
			tf := rel.TargetColumn()
			if _, ok := target.Fields[tf]; !ok {
				return relerr.New(relerr.ErrInvalidRelation, "relationship targets unknown field").
					WithEntity(s.Name).
					WithField(fieldName).
					With("target", rel.TargetEntity+"."+tf)
			}
		}
	}
	return nil
}

// Entities returns the loaded entity names in sorted order.
func (c *Client) Entities() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	sort.Strings(names)
	return names
}

// Dialect returns the client's default generation dialect.
func (c *Client) Dialect() string {
	return c.config.Dialect
}

// Resolve merges one entity schema with the override configuration.
func (c *Client) Resolve(entity string) (*field.ResolvedSchema, error) {
	s, ok := c.schemas[entity]
	if !ok {
		return nil, relerr.New(relerr.ErrSchemaNotFound, "unknown entity").
			WithEntity(entity)
	}
	return resolve.Resolve(s, c.overrides), nil
}

// TableDefinition resolves an entity and generates its table definition for a
// dialect. Generator defaults the dialect cannot express in DDL are reported
// as warnings on the returned table.
func (c *Client) TableDefinition(entity, dialect string) (*ddl.Table, error) {
	a, err := c.registry.Get(dialect)
	if err != nil {
		return nil, err
	}
	resolved, err := c.Resolve(entity)
	if err != nil {
		return nil, err
	}
	return a.GenerateTableDefinition(resolved)
}

// CreateTableSQL generates the CREATE TABLE script (plus index statements)
// for one entity on one dialect.
func (c *Client) CreateTableSQL(entity, dialect string) (string, error) {
	a, err := c.registry.Get(dialect)
	if err != nil {
		return "", err
	}
	table, err := c.TableDefinition(entity, dialect)
	if err != nil {
		return "", err
	}
	return a.GenerateCreateTableSQL(table)
}

// GenerateAll generates table definitions and SQL for every loaded entity on
// one dialect, in sorted entity order.
func (c *Client) GenerateAll(dialect string) ([]Result, error) {
	a, err := c.registry.Get(dialect)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(c.schemas))
	for _, entity := range c.Entities() {
		resolved, err := c.Resolve(entity)
		if err != nil {
			return nil, err
		}
		table, err := a.GenerateTableDefinition(resolved)
		if err != nil {
			return nil, err
		}
		sql, err := a.GenerateCreateTableSQL(table)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Entity: entity, Table: table, SQL: sql})
	}
	return results, nil
}

// Mapper builds the runtime field mapper for one entity on one dialect.
func (c *Client) Mapper(entity, dialect string) (*mapper.Mapper, error) {
	a, err := c.registry.Get(dialect)
	if err != nil {
		return nil, err
	}
	resolved, err := c.Resolve(entity)
	if err != nil {
		return nil, err
	}
	return mapper.New(resolved, a), nil
}

// Warnings collects the generator-default warnings for every entity on one
// dialect, keyed by entity name. Entities without warnings are absent.
func (c *Client) Warnings(dialect string) (map[string][]ddl.Warning, error) {
	results, err := c.GenerateAll(dialect)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]ddl.Warning)
	for _, r := range results {
		if len(r.Table.Warnings) > 0 {
			out[r.Entity] = r.Table.Warnings
		}
	}
	return out, nil
}

// Fingerprint computes the merkle fingerprint over every entity's table
// definition on the client's default dialect. The fingerprint is what the
// lock command records and verifies.
func (c *Client) Fingerprint() (*fingerprint.Schema, error) {
	results, err := c.GenerateAll(c.config.Dialect)
	if err != nil {
		return nil, err
	}
	tables := make([]*ddl.Table, 0, len(results))
	for _, r := range results {
		tables = append(tables, r.Table)
	}
	return fingerprint.Compute(tables)
}
