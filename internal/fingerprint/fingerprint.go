// Package fingerprint computes deterministic merkle fingerprints of generated
// table definitions and reads/writes/verifies the relgen.lock file that
// records them. The fingerprint is hierarchical: schema -> tables -> columns,
// so drift can be narrowed down to the table that changed.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cbergoon/merkletree"

	"github.com/halverin/relgen/internal/ddl"
	"github.com/halverin/relgen/internal/relerr"
)

// Schema is the fingerprint of a full set of table definitions.
type Schema struct {
	Root   string                // Merkle root over all table hashes
	Tables map[string]*TableHash // Table name -> hash, for drill-down
}

// TableHash is the fingerprint of one table definition.
type TableHash struct {
	Name    string
	Hash    string
	Columns map[string]string // Column name -> hash
}

// tableContent implements merkletree.Content for table-level leaves.
type tableContent struct {
	hash string
}

func (t tableContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(t.hash))
	return h[:], nil
}

func (t tableContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(tableContent)
	if !ok {
		return false, nil
	}
	return t.hash == o.hash, nil
}

// Compute builds the hierarchical fingerprint for a set of table definitions.
// Table order does not matter; leaves are sorted by table name.
func Compute(tables []*ddl.Table) (*Schema, error) {
	result := &Schema{Tables: make(map[string]*TableHash, len(tables))}

	if len(tables) == 0 {
		result.Root = hashString("")
		return result, nil
	}

	names := make([]string, 0, len(tables))
	byName := make(map[string]*ddl.Table, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
		byName[t.Name] = t
	}
	sort.Strings(names)

	leaves := make([]merkletree.Content, 0, len(names))
	for _, name := range names {
		th := computeTableHash(byName[name])
		result.Tables[name] = th
		leaves = append(leaves, tableContent{hash: th.Hash})
	}

	tree, err := merkletree.NewTree(leaves)
	if err != nil {
		return nil, relerr.Wrap(relerr.ErrSQLGeneration, err, "cannot build fingerprint tree")
	}
	result.Root = hex.EncodeToString(tree.MerkleRoot())
	return result, nil
}

// computeTableHash fingerprints one table: sorted column hashes, the primary
// key, index shapes, and foreign key shapes.
func computeTableHash(t *ddl.Table) *TableHash {
	result := &TableHash{
		Name:    t.Name,
		Columns: make(map[string]string, len(t.Columns)),
	}

	colHashes := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		h := computeColumnHash(col)
		result.Columns[col.Name] = h
		colHashes = append(colHashes, col.Name+":"+h)
	}
	sort.Strings(colHashes)

	idxHashes := make([]string, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		idxHashes = append(idxHashes, fmt.Sprintf("%s:[%s]:%v",
			idx.Name, strings.Join(idx.Columns, ","), idx.Unique))
	}
	sort.Strings(idxHashes)

	fkHashes := make([]string, 0, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		fkHashes = append(fkHashes, fmt.Sprintf("%s:[%s]->%s[%s]:%s:%s",
			fk.Name, strings.Join(fk.Columns, ","),
			fk.RefTable, strings.Join(fk.RefColumns, ","),
			fk.OnDelete, fk.OnUpdate))
	}
	sort.Strings(fkHashes)

	result.Hash = hashString(fmt.Sprintf("table:%s|pk:[%s]|columns:[%s]|indexes:[%s]|fks:[%s]",
		t.Name,
		strings.Join(t.PrimaryKey, ","),
		strings.Join(colHashes, ","),
		strings.Join(idxHashes, ","),
		strings.Join(fkHashes, ","),
	))
	return result
}

func computeColumnHash(col *ddl.Column) string {
	data := fmt.Sprintf("name:%s|type:%s|nullable:%v|unique:%v|pk:%v|autoinc:%v",
		col.Name, col.Type, col.Nullable, col.Unique, col.PrimaryKey, col.AutoIncrement)
	if col.Default != "" {
		data += "|default:" + col.Default
	}
	if ref := col.References; ref != nil {
		data += fmt.Sprintf("|ref:%s.%s:%s:%s", ref.Table, ref.Column, ref.OnDelete, ref.OnUpdate)
	}
	return hashString(data)
}

func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// -----------------------------------------------------------------------------
// Lock file
// -----------------------------------------------------------------------------

// DefaultLockFile is the lock filename written next to the config.
const DefaultLockFile = "relgen.lock"

// Lock is the parsed contents of a relgen.lock file: the schema root on the
// first line, then one "hash table" line per table.
type Lock struct {
	Root   string
	Tables map[string]string // Table name -> hash
}

// WriteLock writes the fingerprint to a lock file.
func WriteLock(path string, s *Schema) error {
	var sb strings.Builder
	sb.WriteString(s.Root + "\n")

	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(s.Tables[name].Hash + " " + name + "\n")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return relerr.Wrap(relerr.ErrLockRead, err, "cannot create lock file directory").
				With("path", path)
		}
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return relerr.Wrap(relerr.ErrLockRead, err, "cannot write lock file").
			With("path", path)
	}
	return nil
}

// ReadLock reads and parses a lock file. A missing file returns nil.
func ReadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, relerr.Wrap(relerr.ErrLockRead, err, "cannot read lock file").
			With("path", path)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, relerr.New(relerr.ErrLockRead, "lock file is empty").
			With("path", path)
	}

	lock := &Lock{
		Root:   strings.TrimSpace(lines[0]),
		Tables: make(map[string]string),
	}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		lock.Tables[strings.TrimSpace(parts[1])] = strings.TrimSpace(parts[0])
	}
	return lock, nil
}

// Verify compares the current fingerprint against a recorded lock file and
// reports every divergence: changed, added, and removed tables.
func Verify(path string, s *Schema) error {
	lock, err := ReadLock(path)
	if err != nil {
		return err
	}
	if lock == nil {
		return relerr.New(relerr.ErrLockRead, "lock file not found").
			With("path", path).
			WithHelp("run 'relgen lock' to create it")
	}

	if lock.Root == s.Root {
		return nil
	}

	var changes []string
	for name, th := range s.Tables {
		recorded, ok := lock.Tables[name]
		switch {
		case !ok:
			changes = append(changes, "added: "+name)
		case recorded != th.Hash:
			changes = append(changes, "changed: "+name)
		}
	}
	for name := range lock.Tables {
		if _, ok := s.Tables[name]; !ok {
			changes = append(changes, "removed: "+name)
		}
	}
	sort.Strings(changes)

	return relerr.New(relerr.ErrLockMismatch, "schema fingerprint does not match lock file").
		With("path", path).
		With("tables", strings.Join(changes, "; ")).
		WithHelp("run 'relgen lock' to update the recorded fingerprint")
}
