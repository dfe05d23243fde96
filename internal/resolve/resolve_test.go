package resolve

import (
	"reflect"
	"testing"

	"github.com/halverin/relgen/internal/field"
)

func baseSchema() *field.EntitySchema {
	return &field.EntitySchema{
		Name:   "user",
		Prefix: "app_",
		Fields: map[string]*field.Descriptor{
			"id":       {Type: field.TypeUUID, PrimaryKey: true},
			"username": {Type: field.TypeString, Required: true, Hints: &field.Hints{MaxSize: 50}},
			"active":   {Type: field.TypeBoolean, Default: field.StaticDefault(true)},
			"org": {Type: field.TypeUUID, Relationship: &field.Relationship{
				TargetEntity: "org",
				Kind:         field.ManyToOne,
				ForeignKey:   "org_id",
			}},
		},
	}
}

func TestResolveWithoutConfig(t *testing.T) {
	rs := Resolve(baseSchema(), nil)

	if rs.EntityName != "user" || rs.EntityPrefix != "app_" {
		t.Errorf("entity naming = (%q, %q)", rs.EntityName, rs.EntityPrefix)
	}
	if got := rs.Field("username").PhysicalName; got != "username" {
		t.Errorf("username physical name = %q", got)
	}
	// Relationship foreign key names the physical column.
	if got := rs.Field("org").PhysicalName; got != "org_id" {
		t.Errorf("org physical name = %q, want org_id", got)
	}
}

func TestResolveTableOverride(t *testing.T) {
	empty := ""
	cfg := &Config{Tables: map[string]*TableOverride{
		"user": {EntityName: "member", EntityPrefix: &empty},
	}}

	rs := Resolve(baseSchema(), cfg)
	if rs.EntityName != "member" {
		t.Errorf("EntityName = %q, want member", rs.EntityName)
	}
	if rs.EntityPrefix != "" {
		t.Errorf("EntityPrefix = %q, want empty", rs.EntityPrefix)
	}
	if rs.TableName() != "member" {
		t.Errorf("TableName() = %q, want member", rs.TableName())
	}
}

func TestResolveFieldRename(t *testing.T) {
	cfg := &Config{Tables: map[string]*TableOverride{
		"user": {Fields: map[string]*FieldOverride{
			"username": {FieldName: "login"},
		}},
	}}

	rs := Resolve(baseSchema(), cfg)
	f := rs.Field("username")
	if f.PhysicalName != "login" {
		t.Errorf("PhysicalName = %q, want login", f.PhysicalName)
	}
	// Everything else passes through unchanged.
	if !f.Required || f.Hints.MaxSize != 50 {
		t.Error("rename-only override changed other attributes")
	}
}

func TestResolveFieldAttributeOverride(t *testing.T) {
	required := false
	cfg := &Config{Tables: map[string]*TableOverride{
		"user": {Fields: map[string]*FieldOverride{
			"username": {Required: &required},
			"active":   {Default: field.StaticDefault(false)},
			"org":      {Relationship: &RelationshipOverride{Model: "team", Field: "uuid"}},
		}},
	}}

	rs := Resolve(baseSchema(), cfg)
	if rs.Field("username").Required {
		t.Error("required override not applied")
	}
	if v, _ := rs.Field("active").Default.Static(); v != false {
		t.Errorf("default override not applied: %v", v)
	}
	rel := rs.Field("org").Relationship
	if rel.TargetEntity != "team" || rel.TargetField != "uuid" {
		t.Errorf("relationship override not applied: %+v", rel)
	}
}

func TestResolveAdditionalFields(t *testing.T) {
	cfg := &Config{Tables: map[string]*TableOverride{
		"user": {AdditionalFields: map[string]*field.Descriptor{
			"tenant_id": {Type: field.TypeUUID, Required: true},
		}},
	}}

	rs := Resolve(baseSchema(), cfg)
	f := rs.Field("tenant_id")
	if f == nil {
		t.Fatal("additional field not merged")
	}
	if f.PhysicalName != "tenant_id" || f.Type != field.TypeUUID || !f.Required {
		t.Errorf("additional field = %+v", f)
	}
}

func TestResolveDoesNotMutateBase(t *testing.T) {
	base := baseSchema()
	required := false
	cfg := &Config{Tables: map[string]*TableOverride{
		"user": {Fields: map[string]*FieldOverride{
			"username": {FieldName: "login", Required: &required},
			"org":      {Relationship: &RelationshipOverride{Model: "team"}},
		}},
	}}

	Resolve(base, cfg)

	if !base.Fields["username"].Required {
		t.Error("base field required flag mutated")
	}
	if base.Fields["org"].Relationship.TargetEntity != "org" {
		t.Error("base relationship mutated")
	}
}

func TestResolveIdempotent(t *testing.T) {
	base := baseSchema()
	cfg := &Config{Tables: map[string]*TableOverride{
		"user": {
			EntityName: "member",
			Fields:     map[string]*FieldOverride{"username": {FieldName: "login"}},
			AdditionalFields: map[string]*field.Descriptor{
				"tenant_id": {Type: field.TypeUUID},
			},
			Indexes: []field.IndexSpec{{Fields: []string{"username"}, Unique: true}},
		},
	}}

	first := Resolve(base, cfg)
	second := Resolve(base, cfg)

	if !reflect.DeepEqual(first, second) {
		t.Error("resolving the same (base, config) pair twice is not deep-equal")
	}
}

func TestResolveUnknownOverridesIgnored(t *testing.T) {
	cfg := &Config{Tables: map[string]*TableOverride{
		"ghost": {EntityName: "nope"},
		"user": {Fields: map[string]*FieldOverride{
			"no_such_field": {FieldName: "still_missing"},
		}},
	}}

	rs := Resolve(baseSchema(), cfg)
	if rs.EntityName != "user" {
		t.Errorf("override for unknown entity leaked: %q", rs.EntityName)
	}
	if rs.Field("no_such_field") != nil {
		t.Error("override for unknown field created a field")
	}
	if len(rs.Fields) != 4 {
		t.Errorf("field count = %d, want 4", len(rs.Fields))
	}
}
