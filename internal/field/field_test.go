package field

import (
	"errors"
	"testing"

	"github.com/halverin/relgen/internal/relerr"
)

func TestTypeValid(t *testing.T) {
	valid := []Type{TypeString, TypeNumber, TypeBoolean, TypeDate, TypeUUID, TypeJSON, TypeArray, TypeObject, TypeIncrementalID}
	for _, typ := range valid {
		if !typ.Valid() {
			t.Errorf("Valid() = false for %q", typ)
		}
	}
	if Type("blob").Valid() {
		t.Error("Valid() = true for unknown type")
	}
}

func TestTypeIsJSONLike(t *testing.T) {
	for _, typ := range []Type{TypeJSON, TypeArray, TypeObject} {
		if !typ.IsJSONLike() {
			t.Errorf("IsJSONLike() = false for %q", typ)
		}
	}
	if TypeString.IsJSONLike() {
		t.Error("IsJSONLike() = true for string")
	}
}

func TestStaticDefault(t *testing.T) {
	d := StaticDefault(42)

	if d.IsGenerated() {
		t.Error("static default reported as generated")
	}
	v, ok := d.Static()
	if !ok || v != 42 {
		t.Errorf("Static() = (%v, %v), want (42, true)", v, ok)
	}
	if got := d.Value(); got != 42 {
		t.Errorf("Value() = %v, want 42", got)
	}
}

func TestGeneratedDefault(t *testing.T) {
	calls := 0
	d := GeneratedDefault(func() any {
		calls++
		return "generated"
	})

	if !d.IsGenerated() {
		t.Error("generated default reported as static")
	}
	if _, ok := d.Static(); ok {
		t.Error("Static() = ok for generated default")
	}
	if got := d.Value(); got != "generated" {
		t.Errorf("Value() = %v", got)
	}
	if calls != 1 {
		t.Errorf("generator invoked %d times, want 1", calls)
	}
}

func TestNilDefault(t *testing.T) {
	var d *Default
	if d.IsGenerated() {
		t.Error("nil default reported as generated")
	}
	if got := d.Value(); got != nil {
		t.Errorf("Value() = %v, want nil", got)
	}
}

func TestDescriptorClone(t *testing.T) {
	orig := &Descriptor{
		Type:     TypeString,
		Required: true,
		Hints:    &Hints{MaxSize: 50, MySQL: &MySQLHints{Charset: "utf8mb4"}},
		Relationship: &Relationship{
			TargetEntity: "user",
			Kind:         ManyToOne,
		},
		Default: StaticDefault("x"),
	}

	clone := orig.Clone()
	clone.Hints.MaxSize = 100
	clone.Hints.MySQL.Charset = "latin1"
	clone.Relationship.TargetEntity = "role"

	if orig.Hints.MaxSize != 50 {
		t.Error("clone shares Hints with original")
	}
	if orig.Hints.MySQL.Charset != "utf8mb4" {
		t.Error("clone shares nested MySQL hints with original")
	}
	if orig.Relationship.TargetEntity != "user" {
		t.Error("clone shares Relationship with original")
	}
}

func TestDescriptorEffectiveFormat(t *testing.T) {
	d := &Descriptor{Type: TypeDate}
	if got := d.EffectiveFormat(); got != FormatISO {
		t.Errorf("EffectiveFormat() = %q, want iso", got)
	}
	d.Format = FormatUnixMillis
	if got := d.EffectiveFormat(); got != FormatUnixMillis {
		t.Errorf("EffectiveFormat() = %q, want unix_ms", got)
	}
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    *Descriptor
		wantErr bool
	}{
		{"valid string", &Descriptor{Type: TypeString}, false},
		{"unknown type", &Descriptor{Type: "blob"}, true},
		{"bad format", &Descriptor{Type: TypeDate, Format: "stardate"}, true},
		{"valid format", &Descriptor{Type: TypeDate, Format: FormatUnix}, false},
		{"bad relation", &Descriptor{Type: TypeUUID, Relationship: &Relationship{Kind: ManyToOne}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKindOwnsForeignKey(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{OneToOne, true},
		{OneToMany, true},
		{ManyToOne, true},
		{ManyToMany, false},
	}
	for _, tt := range tests {
		if got := tt.kind.OwnsForeignKey(); got != tt.want {
			t.Errorf("%s.OwnsForeignKey() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestNormalizeFKAction(t *testing.T) {
	got, err := NormalizeFKAction(" cascade ")
	if err != nil || got != "CASCADE" {
		t.Errorf("NormalizeFKAction(cascade) = (%q, %v)", got, err)
	}
	if _, err := NormalizeFKAction("EXPLODE"); err == nil {
		t.Error("NormalizeFKAction accepted invalid action")
	}
}

func TestRelationshipValidate(t *testing.T) {
	r := &Relationship{TargetEntity: "user", Kind: ManyToMany}
	err := r.Validate()
	if !errors.Is(err, relerr.New(relerr.ErrInvalidRelation, "")) {
		t.Errorf("many_to_many without join table: error = %v, want ErrInvalidRelation", err)
	}

	r.JoinTable = &JoinTable{Name: "user_role"}
	if err := r.Validate(); err != nil {
		t.Errorf("valid many_to_many: error = %v", err)
	}
}

func TestRelationshipTargetColumn(t *testing.T) {
	r := &Relationship{TargetEntity: "user"}
	if got := r.TargetColumn(); got != "id" {
		t.Errorf("TargetColumn() = %q, want id", got)
	}
	r.TargetField = "uuid"
	if got := r.TargetColumn(); got != "uuid" {
		t.Errorf("TargetColumn() = %q, want uuid", got)
	}
}

func TestHintsDecimal(t *testing.T) {
	var h *Hints
	if h.IsDecimal() {
		t.Error("nil hints reported decimal")
	}
	p, s := h.DecimalPrecision()
	if p != 10 || s != 2 {
		t.Errorf("DecimalPrecision() = (%d, %d), want (10, 2)", p, s)
	}

	h = &Hints{Precision: 12, Scale: 4}
	if !h.IsDecimal() {
		t.Error("precision+scale hints not reported decimal")
	}
	p, s = h.DecimalPrecision()
	if p != 12 || s != 4 {
		t.Errorf("DecimalPrecision() = (%d, %d), want (12, 4)", p, s)
	}
}

func TestEntitySchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  *EntitySchema
		wantErr bool
	}{
		{
			"valid",
			&EntitySchema{Name: "user", Fields: map[string]*Descriptor{"id": {Type: TypeUUID, PrimaryKey: true}}},
			false,
		},
		{"empty name", &EntitySchema{Fields: map[string]*Descriptor{"id": {Type: TypeUUID}}}, true},
		{"no fields", &EntitySchema{Name: "user"}, true},
		{"bad field name", &EntitySchema{Name: "user", Fields: map[string]*Descriptor{"UserName": {Type: TypeString}}}, true},
		{"nil descriptor", &EntitySchema{Name: "user", Fields: map[string]*Descriptor{"id": nil}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolvedSchemaTableName(t *testing.T) {
	s := &ResolvedSchema{EntityName: "user", EntityPrefix: "app_"}
	if got := s.TableName(); got != "app_user" {
		t.Errorf("TableName() = %q, want app_user", got)
	}
}

func TestSortedFieldsOrdering(t *testing.T) {
	s := &ResolvedSchema{
		EntityName: "user",
		Fields: map[string]*Resolved{
			"nickname": {Name: "nickname", PhysicalName: "nickname", Descriptor: Descriptor{Type: TypeString}},
			"id":       {Name: "id", PhysicalName: "id", Descriptor: Descriptor{Type: TypeUUID, PrimaryKey: true}},
			"email":    {Name: "email", PhysicalName: "email", Descriptor: Descriptor{Type: TypeString, Required: true}},
			"age":      {Name: "age", PhysicalName: "age", Descriptor: Descriptor{Type: TypeNumber, Required: true}},
		},
	}

	var got []string
	for _, rf := range s.SortedFields() {
		got = append(got, rf.Name)
	}
	want := []string{"id", "age", "email", "nickname"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedFields() order = %v, want %v", got, want)
		}
	}
}

func TestPrimaryKeyFields(t *testing.T) {
	// Explicit primary key flags win.
	s := &ResolvedSchema{
		EntityName: "grant",
		Fields: map[string]*Resolved{
			"user_id": {Name: "user_id", Descriptor: Descriptor{Type: TypeUUID, PrimaryKey: true}},
			"role_id": {Name: "role_id", Descriptor: Descriptor{Type: TypeUUID, PrimaryKey: true}},
			"id":      {Name: "id", Descriptor: Descriptor{Type: TypeUUID}},
		},
	}
	if got := len(s.PrimaryKeyFields()); got != 2 {
		t.Errorf("PrimaryKeyFields() len = %d, want 2", got)
	}

	// Implicit "id" fallback.
	s = &ResolvedSchema{
		EntityName: "user",
		Fields: map[string]*Resolved{
			"id":   {Name: "id", Descriptor: Descriptor{Type: TypeUUID}},
			"name": {Name: "name", Descriptor: Descriptor{Type: TypeString}},
		},
	}
	pk := s.PrimaryKeyFields()
	if len(pk) != 1 || pk[0].Name != "id" {
		t.Errorf("PrimaryKeyFields() = %v, want implicit id", pk)
	}

	// No flags, no id: empty, not a crash.
	s = &ResolvedSchema{
		EntityName: "log",
		Fields: map[string]*Resolved{
			"message": {Name: "message", Descriptor: Descriptor{Type: TypeString}},
		},
	}
	if got := len(s.PrimaryKeyFields()); got != 0 {
		t.Errorf("PrimaryKeyFields() len = %d, want 0", got)
	}
}
