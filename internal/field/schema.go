package field

import (
	"cmp"
	"slices"
	"strings"

	"github.com/halverin/relgen/internal/relerr"
	"github.com/halverin/relgen/internal/strutil"
)

// -----------------------------------------------------------------------------
// EntitySchema - the authored, dialect-independent entity definition
// -----------------------------------------------------------------------------

// EntitySchema is the authored definition of one data entity. It is created
// once at schema-definition time and treated as read-only template data; the
// config resolver derives ResolvedSchema values from it without mutating it.
type EntitySchema struct {
	Name        string // Logical entity name (snake_case)
	Prefix      string // Physical table name prefix (e.g. "app_")
	Description string
	Fields      map[string]*Descriptor // Logical field name -> descriptor
}

// Validate checks that the entity schema is well-formed.
func (s *EntitySchema) Validate() error {
	if s.Name == "" {
		return relerr.New(relerr.ErrInvalidSchema, "entity name is required")
	}
	if err := ValidateIdentifier(s.Name); err != nil {
		return err
	}
	if len(s.Fields) == 0 {
		return relerr.New(relerr.ErrInvalidSchema, "entity must have at least one field").
			WithEntity(s.Name)
	}
	for name, fd := range s.Fields {
		if err := ValidateIdentifier(name); err != nil {
			return relerr.Wrap(relerr.ErrInvalidSchema, err, "invalid field name").
				WithEntity(s.Name).
				WithField(name)
		}
		if fd == nil {
			return relerr.New(relerr.ErrInvalidSchema, "field descriptor cannot be nil").
				WithEntity(s.Name).
				WithField(name)
		}
		if err := fd.Validate(); err != nil {
			return relerr.Wrap(relerr.ErrInvalidSchema, err, "invalid field").
				WithEntity(s.Name).
				WithField(name)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// ResolvedSchema - entity schema after config overrides, with physical names
// -----------------------------------------------------------------------------

// Resolved is a field descriptor bound to its concrete physical column name.
// This is the only field shape the dialect adapters accept.
type Resolved struct {
	Descriptor
	Name         string // Logical field name
	PhysicalName string // Physical column name
}

// ResolvedSchema is an entity schema after config overrides are merged, with
// concrete physical names. Derived per (entity, config) pair; safe to cache.
type ResolvedSchema struct {
	EntityName   string
	EntityPrefix string
	Fields       map[string]*Resolved // Logical field name -> resolved field

	// Indexes are schema-level index specs from config, in logical field
	// names; the table generator maps them to physical columns.
	Indexes []IndexSpec
}

// IndexSpec is a schema-level index over one or more logical fields.
type IndexSpec struct {
	Name   string // Optional explicit index name
	Fields []string
	Unique bool
}

// TableName returns the physical table name: prefix + entity name.
func (s *ResolvedSchema) TableName() string {
	return strutil.TableName(s.EntityPrefix, s.EntityName)
}

// Field returns the resolved field for a logical name, or nil.
func (s *ResolvedSchema) Field(name string) *Resolved {
	return s.Fields[name]
}

// SortedFields returns the fields in deterministic column order: primary key
// fields first, then required fields alphabetically, then optional fields
// (not required or carrying a default) alphabetically.
func (s *ResolvedSchema) SortedFields() []*Resolved {
	sorted := make([]*Resolved, 0, len(s.Fields))
	for _, rf := range s.Fields {
		sorted = append(sorted, rf)
	}
	slices.SortStableFunc(sorted, func(a, b *Resolved) int {
		if c := cmp.Compare(fieldSortGroup(a), fieldSortGroup(b)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return sorted
}

// fieldSortGroup returns the sort group for a resolved field:
// 0 = primary key, 1 = required, 2 = optional.
func fieldSortGroup(f *Resolved) int {
	if f.PrimaryKey {
		return 0
	}
	if !f.Required || f.Default != nil {
		return 2
	}
	return 1
}

// PrimaryKeyFields returns the fields flagged as primary key, in sorted order.
// When none are flagged, a field literally named "id" is the implicit primary
// key; an entity with neither yields an empty slice.
func (s *ResolvedSchema) PrimaryKeyFields() []*Resolved {
	var pk []*Resolved
	for _, rf := range s.SortedFields() {
		if rf.PrimaryKey {
			pk = append(pk, rf)
		}
	}
	if len(pk) == 0 {
		if id, ok := s.Fields["id"]; ok {
			pk = append(pk, id)
		}
	}
	return pk
}
