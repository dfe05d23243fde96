// Package resolve merges a base entity schema with optional runtime overrides
// (renamed tables and fields, extra fields, per-field attribute overrides)
// into a resolved schema with concrete physical names. Resolution is a pure
// function: the same (base, overrides) pair always yields structurally
// identical output, and the base schema is never mutated.
package resolve

import (
	"github.com/halverin/relgen/internal/field"
)

// Config is the override configuration consumed from an external loader,
// keyed by entity name. Unknown keys are ignored; all merges are lenient
// best-effort for forward compatibility.
type Config struct {
	Tables map[string]*TableOverride
}

// TableOverride reshapes one entity: physical naming, per-field overrides,
// extra fields, and schema-level indexes.
type TableOverride struct {
	// EntityName replaces the physical entity name when non-empty.
	EntityName string
	// EntityPrefix replaces the table name prefix when set; nil keeps the
	// base prefix, an explicit empty string clears it.
	EntityPrefix *string
	// Fields maps logical field names to overrides.
	Fields map[string]*FieldOverride
	// AdditionalFields are merged in verbatim as new resolved fields with
	// physicalName equal to the map key.
	AdditionalFields map[string]*field.Descriptor
	// Indexes are extra schema-level index specs.
	Indexes []field.IndexSpec
}

// FieldOverride replaces selected attributes of one base field. Only supplied
// values replace the base attribute; everything else passes through unchanged.
// A rename-only override sets just FieldName.
type FieldOverride struct {
	// FieldName renames the physical column.
	FieldName string
	// Required replaces the required flag when set.
	Required *bool
	// Default replaces the default value strategy when non-nil.
	Default *field.Default
	// Relationship retargets the field's relationship.
	Relationship *RelationshipOverride
}

// RelationshipOverride retargets a relationship's entity and/or field.
type RelationshipOverride struct {
	Model string // Replacement target entity, "" keeps the base
	Field string // Replacement target field, "" keeps the base
}

// Resolve merges the base entity schema with the overrides for it. It never
// fails: overrides for unknown entities or fields are ignored, and an empty or
// nil config resolves to the base schema with physical names equal to logical
// names.
func Resolve(base *field.EntitySchema, cfg *Config) *field.ResolvedSchema {
	var tbl *TableOverride
	if cfg != nil {
		tbl = cfg.Tables[base.Name]
	}

	out := &field.ResolvedSchema{
		EntityName:   base.Name,
		EntityPrefix: base.Prefix,
		Fields:       make(map[string]*field.Resolved, len(base.Fields)),
	}

	if tbl != nil {
		if tbl.EntityName != "" {
			out.EntityName = tbl.EntityName
		}
		if tbl.EntityPrefix != nil {
			out.EntityPrefix = *tbl.EntityPrefix
		}
		out.Indexes = append(out.Indexes, tbl.Indexes...)
	}

	for name, fd := range base.Fields {
		if fd == nil {
			continue
		}
		rf := &field.Resolved{
			Descriptor:   *fd.Clone(),
			Name:         name,
			PhysicalName: physicalName(name, fd),
		}
		if tbl != nil {
			applyFieldOverride(rf, tbl.Fields[name])
		}
		out.Fields[name] = rf
	}

	if tbl != nil {
		for name, fd := range tbl.AdditionalFields {
			if fd == nil {
				continue
			}
			out.Fields[name] = &field.Resolved{
				Descriptor:   *fd.Clone(),
				Name:         name,
				PhysicalName: name,
			}
		}
	}

	return out
}

// physicalName returns the default physical column name for a field: the
// relationship's foreign key name when one is declared, the logical name
// otherwise.
func physicalName(logical string, fd *field.Descriptor) string {
	if fd.Relationship != nil && fd.Relationship.ForeignKey != "" {
		return fd.Relationship.ForeignKey
	}
	return logical
}

// applyFieldOverride merges one field override into a resolved field.
// Only supplied attributes replace the base values.
func applyFieldOverride(rf *field.Resolved, ov *FieldOverride) {
	if ov == nil {
		return
	}
	if ov.FieldName != "" {
		rf.PhysicalName = ov.FieldName
	}
	if ov.Required != nil {
		rf.Required = *ov.Required
	}
	if ov.Default != nil {
		rf.Default = ov.Default
	}
	if ov.Relationship != nil && rf.Relationship != nil {
		if ov.Relationship.Model != "" {
			rf.Relationship.TargetEntity = ov.Relationship.Model
		}
		if ov.Relationship.Field != "" {
			rf.Relationship.TargetField = ov.Relationship.Field
		}
	}
}
