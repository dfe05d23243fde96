package field

import (
	"fmt"
	"strings"

	"github.com/halverin/relgen/internal/relerr"
)

// Kind classifies a relationship between two entities.
type Kind string

// Relationship kinds.
const (
	OneToOne   Kind = "one_to_one"
	OneToMany  Kind = "one_to_many"
	ManyToOne  Kind = "many_to_one"
	ManyToMany Kind = "many_to_many"
)

// Valid reports whether k is a supported relationship kind.
func (k Kind) Valid() bool {
	switch k {
	case OneToOne, OneToMany, ManyToOne, ManyToMany:
		return true
	}
	return false
}

// OwnsForeignKey reports whether a relationship of this kind places a foreign
// key column on the declaring table. Many-to-many relationships use a join
// table instead and never own a foreign key here.
func (k Kind) OwnsForeignKey() bool {
	switch k {
	case OneToOne, OneToMany, ManyToOne:
		return true
	}
	return false
}

// Relationship links a field to another entity. For foreign key kinds the
// declaring field becomes the foreign key column; for many-to-many a JoinTable
// replaces the foreign key entirely.
type Relationship struct {
	TargetEntity string // Referenced entity name
	TargetField  string // Referenced field (default: "id")
	Kind         Kind
	ForeignKey   string     // Physical FK column name override
	JoinTable    *JoinTable // Required for many_to_many
	OnDelete     string     // CASCADE, SET NULL, SET DEFAULT, RESTRICT, NO ACTION
	OnUpdate     string
}

// JoinTable configures the auxiliary table implementing a many-to-many
// relationship. Join table generation itself happens outside this engine.
type JoinTable struct {
	Name         string
	SourceColumn string
	TargetColumn string
	ExtraColumns map[string]*Descriptor
}

// TargetColumn returns the referenced field name, defaulting to "id".
func (r *Relationship) TargetColumn() string {
	if r.TargetField != "" {
		return r.TargetField
	}
	return "id"
}

// Clone returns a deep copy of the relationship.
func (r *Relationship) Clone() *Relationship {
	if r == nil {
		return nil
	}
	out := *r
	if r.JoinTable != nil {
		jt := *r.JoinTable
		if r.JoinTable.ExtraColumns != nil {
			jt.ExtraColumns = make(map[string]*Descriptor, len(r.JoinTable.ExtraColumns))
			for name, fd := range r.JoinTable.ExtraColumns {
				jt.ExtraColumns[name] = fd.Clone()
			}
		}
		out.JoinTable = &jt
	}
	return &out
}

// validFKActions is the set of valid ON DELETE / ON UPDATE actions.
var validFKActions = map[string]bool{
	"":            true, // empty = no action specified (valid)
	"CASCADE":     true,
	"SET NULL":    true,
	"SET DEFAULT": true,
	"RESTRICT":    true,
	"NO ACTION":   true,
}

// NormalizeFKAction normalizes and validates an FK referential action.
// Returns the uppercased action or an error if invalid.
func NormalizeFKAction(action string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(action))
	if !validFKActions[upper] {
		return "", relerr.New(relerr.ErrInvalidRelation,
			fmt.Sprintf("invalid foreign key action %q; must be one of: CASCADE, SET NULL, SET DEFAULT, RESTRICT, NO ACTION", action))
	}
	return upper, nil
}

// Validate checks that the relationship is well-formed.
func (r *Relationship) Validate() error {
	if r.TargetEntity == "" {
		return relerr.New(relerr.ErrInvalidRelation, "relationship must name a target entity")
	}
	if !r.Kind.Valid() {
		return relerr.New(relerr.ErrInvalidRelation, "unsupported relationship kind").
			With("kind", string(r.Kind))
	}
	if r.Kind == ManyToMany && r.JoinTable == nil {
		return relerr.New(relerr.ErrInvalidRelation, "many_to_many relationship requires a join table").
			With("target", r.TargetEntity)
	}
	if _, err := NormalizeFKAction(r.OnDelete); err != nil {
		return err
	}
	if _, err := NormalizeFKAction(r.OnUpdate); err != nil {
		return err
	}
	return nil
}
