package fingerprint

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/halverin/relgen/internal/ddl"
	"github.com/halverin/relgen/internal/relerr"
)

func userTable() *ddl.Table {
	return &ddl.Table{
		Name: "user",
		Columns: []*ddl.Column{
			{Name: "id", Type: "TEXT", PrimaryKey: true},
			{Name: "username", Type: "TEXT", Nullable: true, Unique: true},
		},
		PrimaryKey: []string{"id"},
	}
}

func tagTable() *ddl.Table {
	return &ddl.Table{
		Name:       "tag",
		Columns:    []*ddl.Column{{Name: "id", Type: "TEXT", PrimaryKey: true}},
		PrimaryKey: []string{"id"},
	}
}

func TestComputeDeterministic(t *testing.T) {
	a, err := Compute([]*ddl.Table{userTable(), tagTable()})
	if err != nil {
		t.Fatalf("Compute() = %v", err)
	}
	// Input order must not matter.
	b, err := Compute([]*ddl.Table{tagTable(), userTable()})
	if err != nil {
		t.Fatal(err)
	}

	if a.Root == "" || a.Root != b.Root {
		t.Errorf("roots differ: %s vs %s", a.Root, b.Root)
	}
	if a.Tables["user"].Hash != b.Tables["user"].Hash {
		t.Error("table hashes differ across runs")
	}
	if len(a.Tables["user"].Columns) != 2 {
		t.Errorf("column hashes = %v", a.Tables["user"].Columns)
	}
}

func TestComputeDetectsColumnChange(t *testing.T) {
	before, err := Compute([]*ddl.Table{userTable()})
	if err != nil {
		t.Fatal(err)
	}

	changed := userTable()
	changed.Columns[1].Type = "VARCHAR(50)"
	after, err := Compute([]*ddl.Table{changed})
	if err != nil {
		t.Fatal(err)
	}

	if before.Root == after.Root {
		t.Error("root should change when a column type changes")
	}
	// Drill-down: only the changed column's hash differs.
	if before.Tables["user"].Columns["id"] != after.Tables["user"].Columns["id"] {
		t.Error("unchanged column hash should be stable")
	}
	if before.Tables["user"].Columns["username"] == after.Tables["user"].Columns["username"] {
		t.Error("changed column hash should differ")
	}
}

func TestComputeEmpty(t *testing.T) {
	s, err := Compute(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Root == "" {
		t.Error("empty schema still has a stable root")
	}
}

func TestLockRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relgen.lock")

	s, err := Compute([]*ddl.Table{userTable(), tagTable()})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteLock(path, s); err != nil {
		t.Fatalf("WriteLock() = %v", err)
	}

	lock, err := ReadLock(path)
	if err != nil {
		t.Fatalf("ReadLock() = %v", err)
	}
	if lock.Root != s.Root {
		t.Errorf("lock root = %s, want %s", lock.Root, s.Root)
	}
	if lock.Tables["user"] != s.Tables["user"].Hash {
		t.Error("lock table hash mismatch")
	}

	if err := Verify(path, s); err != nil {
		t.Errorf("Verify() = %v, want match", err)
	}
}

func TestVerifyMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relgen.lock")

	s, err := Compute([]*ddl.Table{userTable()})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteLock(path, s); err != nil {
		t.Fatal(err)
	}

	changed := userTable()
	changed.Columns[1].Nullable = false
	after, err := Compute([]*ddl.Table{changed, tagTable()})
	if err != nil {
		t.Fatal(err)
	}

	err = Verify(path, after)
	if !errors.Is(err, relerr.New(relerr.ErrLockMismatch, "")) {
		t.Errorf("Verify() = %v, want ErrLockMismatch", err)
	}
}

func TestVerifyMissingLock(t *testing.T) {
	s, err := Compute([]*ddl.Table{userTable()})
	if err != nil {
		t.Fatal(err)
	}
	err = Verify(filepath.Join(t.TempDir(), "absent.lock"), s)
	if !errors.Is(err, relerr.New(relerr.ErrLockRead, "")) {
		t.Errorf("Verify() = %v, want ErrLockRead", err)
	}
}

func TestReadLockMissing(t *testing.T) {
	lock, err := ReadLock(filepath.Join(t.TempDir(), "absent.lock"))
	if err != nil || lock != nil {
		t.Errorf("ReadLock(absent) = %v, %v, want nil, nil", lock, err)
	}
}
