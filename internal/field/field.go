// Package field defines the dialect-independent data model for entity schemas:
// field descriptors with semantic types, constraints, default values,
// relationships, and per-dialect storage hints. These are the read-only
// template values every other layer of the engine consumes.
package field

import (
	"fmt"
	"regexp"

	"github.com/halverin/relgen/internal/relerr"
)

// Type is the semantic type tag of a field, resolved at schema-definition time.
type Type string

// Supported field types.
const (
	TypeString        Type = "string"
	TypeNumber        Type = "number"
	TypeBoolean       Type = "boolean"
	TypeDate          Type = "date"
	TypeUUID          Type = "uuid"
	TypeJSON          Type = "json"
	TypeArray         Type = "array"
	TypeObject        Type = "object"
	TypeIncrementalID Type = "incremental_id"
)

// validTypes is the set of supported field types.
var validTypes = map[Type]bool{
	TypeString:        true,
	TypeNumber:        true,
	TypeBoolean:       true,
	TypeDate:          true,
	TypeUUID:          true,
	TypeJSON:          true,
	TypeArray:         true,
	TypeObject:        true,
	TypeIncrementalID: true,
}

// Valid reports whether t is a supported field type.
func (t Type) Valid() bool {
	return validTypes[t]
}

// IsJSONLike reports whether values of this type serialize to a single
// text/JSON column (never multiple columns).
func (t Type) IsJSONLike() bool {
	return t == TypeJSON || t == TypeArray || t == TypeObject
}

// Date encoding formats. The format travels with the field, not the dialect:
// the same field stores the same encoding on every backend.
const (
	FormatISO        = "iso"
	FormatUnix       = "unix"
	FormatUnixMillis = "unix_ms"
)

// validIdentifierPattern matches safe SQL identifiers (lowercase snake_case).
var validIdentifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidateIdentifier checks that a name is a safe SQL identifier (lowercase snake_case).
func ValidateIdentifier(name string) error {
	if !validIdentifierPattern.MatchString(name) {
		return relerr.New(relerr.ErrInvalidSchema,
			fmt.Sprintf("invalid identifier %q; must match [a-z_][a-z0-9_]*", name))
	}
	return nil
}

// -----------------------------------------------------------------------------
// Descriptor - a single field of an entity
// -----------------------------------------------------------------------------

// Descriptor describes a single field: its semantic type, constraints, default
// value, relationship, transforms, and per-dialect hints.
//
// Descriptors are immutable once constructed: overrides produce copies via
// Clone, never mutate in place.
type Descriptor struct {
	Type       Type   // Semantic type tag
	Required   bool   // NOT NULL when true
	PrimaryKey bool   // Part of the table's primary key
	Format     string // Date encoding: iso (default), unix, unix_ms

	// Default is the default value strategy, nil when the field has none.
	Default *Default

	// Relationship links this field to another entity; fields with an owning
	// relationship become foreign key columns.
	Relationship *Relationship

	// Hints carry advisory, dialect-aware storage metadata. An explicit
	// per-dialect type always wins over the generic type-inference table.
	Hints *Hints

	// Transform overrides the type-driven value conversion pipeline.
	Transform *Transform

	// Validator is the external validation plug point. The engine stores it
	// but never invokes it; validation rules live outside this engine.
	Validator Validator

	// Start is the initial counter value for incremental_id fields.
	Start int64

	Description string
}

// Clone returns a deep copy of the descriptor. Transform functions and the
// validator are shared by reference; everything else is copied.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	out := *d
	out.Default = d.Default.clone()
	out.Relationship = d.Relationship.Clone()
	out.Hints = d.Hints.Clone()
	return &out
}

// EffectiveFormat returns the date encoding format, defaulting to ISO.
func (d *Descriptor) EffectiveFormat() string {
	if d.Format == "" {
		return FormatISO
	}
	return d.Format
}

// Validate checks that the descriptor is well-formed.
func (d *Descriptor) Validate() error {
	if !d.Type.Valid() {
		return relerr.New(relerr.ErrInvalidType, "unsupported field type").
			With("type", string(d.Type))
	}
	switch d.EffectiveFormat() {
	case FormatISO, FormatUnix, FormatUnixMillis:
	default:
		return relerr.New(relerr.ErrInvalidSchema, "unsupported date format").
			With("format", d.Format)
	}
	if d.Relationship != nil {
		if err := d.Relationship.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Default - tagged variant: static value or zero-arg generator
// -----------------------------------------------------------------------------

// Default is the default value strategy for a field: either a static literal
// or a zero-arg generator invoked at write time. The two cases are dispatched
// explicitly; there is no runtime type sniffing.
type Default struct {
	static   any
	generate func() any
}

// StaticDefault returns a Default holding a literal value.
func StaticDefault(v any) *Default {
	return &Default{static: v}
}

// GeneratedDefault returns a Default backed by a zero-arg generator.
func GeneratedDefault(fn func() any) *Default {
	return &Default{generate: fn}
}

// IsGenerated reports whether the default is generator-backed.
func (d *Default) IsGenerated() bool {
	return d != nil && d.generate != nil
}

// Static returns the literal value and true when the default is static.
func (d *Default) Static() (any, bool) {
	if d == nil || d.generate != nil {
		return nil, false
	}
	return d.static, true
}

// Value materializes the default: the literal for static defaults, the
// generator's output for generated ones.
func (d *Default) Value() any {
	if d == nil {
		return nil
	}
	if d.generate != nil {
		return d.generate()
	}
	return d.static
}

func (d *Default) clone() *Default {
	if d == nil {
		return nil
	}
	out := *d
	return &out
}

// -----------------------------------------------------------------------------
// Transform - custom value conversion pipeline
// -----------------------------------------------------------------------------

// Transform holds the paired conversion functions between application values
// and storage values. Either side may be nil, in which case the type-driven
// default conversion applies.
type Transform struct {
	// Input converts an application value to its storage representation.
	Input func(any) any
	// Output converts a storage value back to its application representation.
	Output func(any) any
}

// -----------------------------------------------------------------------------
// Validator - external plug point
// -----------------------------------------------------------------------------

// Validator is the contract for external field validators. The engine treats
// validators as opaque pass-through data; it never calls Validate itself.
type Validator interface {
	Validate(input any) ValidationResult
}

// ValidationResult is the outcome of an external validation: either a value
// or a list of issues.
type ValidationResult struct {
	Value  any
	Issues []string
}
