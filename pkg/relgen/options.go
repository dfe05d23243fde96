package relgen

import (
	"github.com/halverin/relgen/internal/adapter"
	"github.com/halverin/relgen/internal/field"
	"github.com/halverin/relgen/internal/resolve"
)

// Config holds all configuration options for the Client.
type Config struct {
	// SchemasDir is the directory containing entity schema YAML files.
	// Default: ./schemas
	SchemasDir string

	// ConfigFile is the path to the override configuration (relgen.yaml).
	// A missing file is treated as an empty configuration.
	ConfigFile string

	// Dialect is the default dialect for generation when a method does not
	// name one explicitly. Default: sqlite
	Dialect string

	// Schemas supplies entity schemas programmatically. When set, schema
	// files are not loaded from SchemasDir.
	Schemas []*field.EntitySchema

	// Overrides supplies the override config programmatically. When set,
	// ConfigFile is not read.
	Overrides *resolve.Config

	// Registry is the adapter registry to resolve dialects against.
	// Default: adapter.Default()
	Registry *adapter.Registry
}

// Option is a functional option for configuring the Client.
type Option func(*Config)

// WithSchemasDir sets the directory entity schema files are loaded from.
func WithSchemasDir(dir string) Option {
	return func(c *Config) {
		c.SchemasDir = dir
	}
}

// WithConfigFile sets the override configuration file path.
func WithConfigFile(path string) Option {
	return func(c *Config) {
		c.ConfigFile = path
	}
}

// WithDialect sets the default generation dialect.
func WithDialect(dialect string) Option {
	return func(c *Config) {
		c.Dialect = dialect
	}
}

// WithSchemas supplies entity schemas directly instead of loading them from
// schema files.
func WithSchemas(schemas ...*field.EntitySchema) Option {
	return func(c *Config) {
		c.Schemas = schemas
	}
}

// WithOverrides supplies the override configuration directly instead of
// reading the config file.
func WithOverrides(cfg *resolve.Config) Option {
	return func(c *Config) {
		c.Overrides = cfg
	}
}

// WithRegistry sets the adapter registry dialects are resolved against.
func WithRegistry(r *adapter.Registry) Option {
	return func(c *Config) {
		c.Registry = r
	}
}
