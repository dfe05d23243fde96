// Package mapper provides the runtime logical/physical field mapping used by
// higher layers at read and write time: logical keys in application data are
// mapped to physical column names on the way to storage and back, with value
// transforms and default filling applied along the way.
package mapper

import (
	"github.com/halverin/relgen/internal/adapter"
	"github.com/halverin/relgen/internal/field"
)

// Mapper converts record maps between logical field names (application side)
// and physical column names (storage side) for one resolved schema and one
// dialect. It is immutable after construction and safe for concurrent use.
type Mapper struct {
	schema  *field.ResolvedSchema
	adapter adapter.Adapter
	reverse map[string]string // physical name -> logical name
}

// New builds a mapper for the schema and dialect adapter.
func New(schema *field.ResolvedSchema, a adapter.Adapter) *Mapper {
	reverse := make(map[string]string, len(schema.Fields))
	for name, rf := range schema.Fields {
		reverse[rf.PhysicalName] = name
	}
	return &Mapper{schema: schema, adapter: a, reverse: reverse}
}

// MapToDB converts application data keyed by logical field name to storage
// data keyed by physical column name. Values present in the input are passed
// through the field's transform pipeline; absent fields with a default are
// filled (invoking generator defaults); absent fields without one are omitted.
func (m *Mapper) MapToDB(logical map[string]any) map[string]any {
	out := make(map[string]any, len(logical))

	for name, rf := range m.schema.Fields {
		if v, ok := logical[name]; ok {
			out[rf.PhysicalName] = m.adapter.ToDatabase(v, rf)
			continue
		}
		if rf.Default != nil {
			out[rf.PhysicalName] = m.adapter.ToDatabase(rf.Default.Value(), rf)
		}
	}

	return out
}

// MapFromDB converts storage data keyed by physical column name back to
// application data keyed by logical field name. Physical keys with no mapped
// field pass through unchanged rather than being dropped: unmapped columns
// should never silently lose data.
func (m *Mapper) MapFromDB(physical map[string]any) map[string]any {
	out := make(map[string]any, len(physical))

	for key, v := range physical {
		name, ok := m.reverse[key]
		if !ok {
			out[key] = v
			continue
		}
		out[name] = m.adapter.FromDatabase(v, m.schema.Fields[name])
	}

	return out
}
