// Package config loads entity schema files and the relgen.yaml override
// configuration. YAML is the CLI's authoring surface; programmatic callers
// construct field.EntitySchema values directly and never touch this package.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/halverin/relgen/internal/field"
	"github.com/halverin/relgen/internal/relerr"
	"github.com/halverin/relgen/internal/resolve"
	"github.com/halverin/relgen/internal/strutil"
)

// DefaultFile is the override config filename looked up in the working
// directory when no explicit path is given.
const DefaultFile = "relgen.yaml"

// File is the parsed relgen.yaml: generation settings plus per-entity
// overrides feeding the resolver.
type File struct {
	Dialect    string                       `yaml:"dialect"`
	SchemasDir string                       `yaml:"schemasDir"`
	Tables     map[string]*tableOverrideDoc `yaml:"tables"`
}

// Load reads and parses an override config file. A missing file yields an
// empty config, matching the resolver's nil-config behavior.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, relerr.Wrap(relerr.ErrConfigRead, err, "cannot read config file").
			With("path", path)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, relerr.Wrap(relerr.ErrInvalidConfig, err, "cannot parse config file").
			With("path", path)
	}
	return &f, nil
}

// Overrides converts the parsed file into the resolver's override config.
func (f *File) Overrides() (*resolve.Config, error) {
	if len(f.Tables) == 0 {
		return nil, nil
	}

	cfg := &resolve.Config{Tables: make(map[string]*resolve.TableOverride, len(f.Tables))}
	for entity, doc := range f.Tables {
		if doc == nil {
			continue
		}
		ov, err := doc.toOverride()
		if err != nil {
			return nil, relerr.Wrap(relerr.ErrInvalidConfig, err, "invalid table override").
				WithEntity(entity)
		}
		cfg.Tables[entity] = ov
	}
	return cfg, nil
}

// tableOverrideDoc is the YAML shape of one entity override.
type tableOverrideDoc struct {
	Name             string                       `yaml:"name"`
	Prefix           *string                      `yaml:"prefix"`
	Fields           map[string]*fieldOverrideDoc `yaml:"fields"`
	AdditionalFields map[string]*fieldDoc         `yaml:"additionalFields"`
	Indexes          []indexDoc                   `yaml:"indexes"`
}

type fieldOverrideDoc struct {
	Name         string      `yaml:"name"`
	Required     *bool       `yaml:"required"`
	Default      *defaultDoc `yaml:"default"`
	Relationship *struct {
		Model string `yaml:"model"`
		Field string `yaml:"field"`
	} `yaml:"relationship"`
}

type indexDoc struct {
	Name   string   `yaml:"name"`
	Fields []string `yaml:"fields"`
	Unique bool     `yaml:"unique"`
}

func (d *tableOverrideDoc) toOverride() (*resolve.TableOverride, error) {
	ov := &resolve.TableOverride{
		EntityName:   d.Name,
		EntityPrefix: d.Prefix,
	}

	if len(d.Fields) > 0 {
		ov.Fields = make(map[string]*resolve.FieldOverride, len(d.Fields))
		for name, fd := range d.Fields {
			if fd == nil {
				continue
			}
			fov := &resolve.FieldOverride{
				FieldName: fd.Name,
				Required:  fd.Required,
			}
			if fd.Default != nil {
				def, err := fd.Default.toDefault()
				if err != nil {
					return nil, err
				}
				fov.Default = def
			}
			if fd.Relationship != nil {
				fov.Relationship = &resolve.RelationshipOverride{
					Model: fd.Relationship.Model,
					Field: fd.Relationship.Field,
				}
			}
			ov.Fields[name] = fov
		}
	}

	if len(d.AdditionalFields) > 0 {
		ov.AdditionalFields = make(map[string]*field.Descriptor, len(d.AdditionalFields))
		for name, fd := range d.AdditionalFields {
			if fd == nil {
				continue
			}
			desc, err := fd.toDescriptor()
			if err != nil {
				return nil, relerr.Wrap(relerr.ErrInvalidConfig, err, "invalid additional field").
					WithField(name)
			}
			ov.AdditionalFields[name] = desc
		}
	}

	for _, idx := range d.Indexes {
		ov.Indexes = append(ov.Indexes, field.IndexSpec{
			Name:   idx.Name,
			Fields: idx.Fields,
			Unique: idx.Unique,
		})
	}

	return ov, nil
}

// -----------------------------------------------------------------------------
// Entity schema files
// -----------------------------------------------------------------------------

// schemaDoc is the YAML shape of one entity schema file.
type schemaDoc struct {
	Entity      string               `yaml:"entity"`
	Prefix      string               `yaml:"prefix"`
	Description string               `yaml:"description"`
	Fields      map[string]*fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Type         string           `yaml:"type"`
	Required     bool             `yaml:"required"`
	PrimaryKey   bool             `yaml:"primaryKey"`
	Format       string           `yaml:"format"`
	Default      *defaultDoc      `yaml:"default"`
	Start        int64            `yaml:"start"`
	Description  string           `yaml:"description"`
	Relationship *relationshipDoc `yaml:"relationship"`
	Hints        *hintsDoc        `yaml:"hints"`
}

type relationshipDoc struct {
	Model      string `yaml:"model"`
	Field      string `yaml:"field"`
	Kind       string `yaml:"kind"`
	ForeignKey string `yaml:"foreignKey"`
	OnDelete   string `yaml:"onDelete"`
	OnUpdate   string `yaml:"onUpdate"`
	JoinTable  *struct {
		Name         string `yaml:"name"`
		SourceColumn string `yaml:"sourceColumn"`
		TargetColumn string `yaml:"targetColumn"`
	} `yaml:"joinTable"`
}

type hintsDoc struct {
	StorageType string `yaml:"storageType"`
	MaxSize     int    `yaml:"maxSize"`
	Precision   int    `yaml:"precision"`
	Scale       int    `yaml:"scale"`
	Indexed     bool   `yaml:"indexed"`
	Unique      bool   `yaml:"unique"`
	HasTimezone bool   `yaml:"hasTimezone"`
	SQLite      *struct {
		Type string `yaml:"type"`
	} `yaml:"sqlite"`
	MySQL *struct {
		Type          string `yaml:"type"`
		Charset       string `yaml:"charset"`
		Unsigned      bool   `yaml:"unsigned"`
		AutoIncrement bool   `yaml:"autoIncrement"`
	} `yaml:"mysql"`
	Postgres *struct {
		Type      string `yaml:"type"`
		UseSerial bool   `yaml:"useSerial"`
	} `yaml:"postgres"`
}

// defaultDoc accepts either a scalar/compound literal (static default) or a
// {generator: name} mapping (generated default).
type defaultDoc struct {
	static    any
	generator string
}

// UnmarshalYAML dispatches on the node shape: mappings with a generator key
// become generated defaults, everything else is a static literal.
func (d *defaultDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var gen struct {
			Generator string `yaml:"generator"`
		}
		if err := node.Decode(&gen); err == nil && gen.Generator != "" {
			d.generator = gen.Generator
			return nil
		}
	}
	return node.Decode(&d.static)
}

// generators maps generator names accepted in YAML to their constructors.
var generators = map[string]func() *field.Default{
	"uuid": field.UUIDDefault,
	"now":  field.NowDefault,
}

func (d *defaultDoc) toDefault() (*field.Default, error) {
	if d.generator == "" {
		return field.StaticDefault(d.static), nil
	}
	ctor, ok := generators[d.generator]
	if !ok {
		return nil, relerr.New(relerr.ErrInvalidConfig, "unknown default generator").
			With("generator", d.generator).
			WithHelp("supported generators: now, uuid")
	}
	return ctor(), nil
}

func (d *fieldDoc) toDescriptor() (*field.Descriptor, error) {
	desc := &field.Descriptor{
		Type:        field.Type(d.Type),
		Required:    d.Required,
		PrimaryKey:  d.PrimaryKey,
		Format:      d.Format,
		Start:       d.Start,
		Description: d.Description,
	}

	if d.Default != nil {
		def, err := d.Default.toDefault()
		if err != nil {
			return nil, err
		}
		desc.Default = def
	}

	if r := d.Relationship; r != nil {
		desc.Relationship = &field.Relationship{
			TargetEntity: r.Model,
			TargetField:  r.Field,
			Kind:         field.Kind(r.Kind),
			ForeignKey:   r.ForeignKey,
			OnDelete:     r.OnDelete,
			OnUpdate:     r.OnUpdate,
		}
		if r.JoinTable != nil {
			desc.Relationship.JoinTable = &field.JoinTable{
				Name:         r.JoinTable.Name,
				SourceColumn: r.JoinTable.SourceColumn,
				TargetColumn: r.JoinTable.TargetColumn,
			}
		}
	}

	if h := d.Hints; h != nil {
		hints := &field.Hints{
			StorageType: h.StorageType,
			MaxSize:     h.MaxSize,
			Precision:   h.Precision,
			Scale:       h.Scale,
			Indexed:     h.Indexed,
			Unique:      h.Unique,
			HasTimezone: h.HasTimezone,
		}
		if h.SQLite != nil {
			hints.SQLite = &field.SQLiteHints{Type: h.SQLite.Type}
		}
		if h.MySQL != nil {
			hints.MySQL = &field.MySQLHints{
				Type:          h.MySQL.Type,
				Charset:       h.MySQL.Charset,
				Unsigned:      h.MySQL.Unsigned,
				AutoIncrement: h.MySQL.AutoIncrement,
			}
		}
		if h.Postgres != nil {
			hints.Postgres = &field.PostgresHints{
				Type:      h.Postgres.Type,
				UseSerial: h.Postgres.UseSerial,
			}
		}
		desc.Hints = hints
	}

	return desc, nil
}

// LoadEntityFile reads, parses, and validates one entity schema file.
func LoadEntityFile(path string) (*field.EntitySchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, relerr.Wrap(relerr.ErrConfigRead, err, "cannot read schema file").
			With("path", path)
	}
	return ParseEntity(data, path)
}

// ParseEntity parses and validates one entity schema document. The source
// name is only used in error context.
func ParseEntity(data []byte, source string) (*field.EntitySchema, error) {
	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, relerr.Wrap(relerr.ErrInvalidSchema, err, "cannot parse schema file").
			With("path", source)
	}

	schema := &field.EntitySchema{
		// Entity names are normalized so "BlogPost" and "blog_post" author
		// the same entity; field names are logical identifiers and must be
		// written in snake_case outright.
		Name:        strutil.ToSnakeCase(doc.Entity),
		Prefix:      doc.Prefix,
		Description: doc.Description,
		Fields:      make(map[string]*field.Descriptor, len(doc.Fields)),
	}
	for name, fd := range doc.Fields {
		if fd == nil {
			return nil, relerr.New(relerr.ErrInvalidSchema, "field has no definition").
				WithEntity(doc.Entity).
				WithField(name)
		}
		desc, err := fd.toDescriptor()
		if err != nil {
			return nil, relerr.Wrap(relerr.ErrInvalidSchema, err, "invalid field definition").
				WithEntity(doc.Entity).
				WithField(name)
		}
		schema.Fields[name] = desc
	}

	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

// LoadEntitiesDir loads every .yaml/.yml schema file in a directory, sorted by
// filename for deterministic ordering. Entity names must be unique across
// files.
func LoadEntitiesDir(dir string) ([]*field.EntitySchema, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, relerr.Wrap(relerr.ErrConfigRead, err, "cannot read schemas directory").
			With("path", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	seen := make(map[string]string, len(paths))
	schemas := make([]*field.EntitySchema, 0, len(paths))
	for _, path := range paths {
		schema, err := LoadEntityFile(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[schema.Name]; dup {
			return nil, relerr.New(relerr.ErrInvalidSchema, "duplicate entity name").
				WithEntity(schema.Name).
				With("path", path).
				With("previous", prev)
		}
		seen[schema.Name] = path
		schemas = append(schemas, schema)
	}
	return schemas, nil
}
