/*
table.go - CSV-backed table storage

PURPOSE:
  A Table is one flat CSV file holding the whole state of an entity
  (guest registry or charge ledger). Every read loads the full file and
  every mutation rewrites it wholesale. That whole-file contract is the
  unit of consistency for the entire system: there are no partial
  updates, no indexes, no cached snapshots.

CONCURRENCY:
  A per-table mutex serializes every read-modify-write. Concurrent
  callers of the same process cannot interleave between "read whole
  file" and "write whole file". Cross-process access is NOT coordinated;
  the deployment model is a single front-desk process.

CRASH SAFETY:
  Replace writes to a temp file in the same directory and renames it
  over the original, so a crash mid-write leaves either the old file or
  the new one, never a truncated table.

SEE ALSO:
  - hotel/registry.go: guest table on top of Table
  - hotel/ledger.go: charge table on top of Table
*/
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Snapshot is the full content of a table at one point in time.
// An absent backing file loads as a zero Snapshot.
type Snapshot struct {
	Header []string
	Rows   [][]string
}

// IsEmpty reports whether the snapshot carries no data rows.
func (s Snapshot) IsEmpty() bool { return len(s.Rows) == 0 }

// Clone returns a deep copy, so callers can edit rows without aliasing
// the snapshot they derived positions from.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{Header: append([]string(nil), s.Header...)}
	c.Rows = make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		c.Rows[i] = append([]string(nil), r...)
	}
	return c
}

// Table is a mutex-guarded CSV file with a load/replace contract.
type Table struct {
	mu   sync.Mutex
	path string
}

func NewTable(path string) *Table {
	return &Table{path: path}
}

// Path returns the backing file path.
func (t *Table) Path() string { return t.path }

// Exists reports whether the backing file is present on disk.
func (t *Table) Exists() bool {
	_, err := os.Stat(t.path)
	return err == nil
}

// Load reads the whole table. A missing file is an empty table, not an
// error (the ledger may legitimately not exist yet).
func (t *Table) Load() (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked()
}

// Replace rewrites the whole table atomically (temp file + rename).
func (t *Table) Replace(s Snapshot) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replaceLocked(s)
}

// Append adds one row durably. The file is created with the given
// header when absent.
func (t *Table) Append(header, row []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := os.Stat(t.path); errors.Is(err, os.ErrNotExist) {
		return t.replaceLocked(Snapshot{Header: header, Rows: [][]string{row}})
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append to %s: %w", t.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("append to %s: %w", t.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append to %s: %w", t.path, err)
	}
	return f.Sync()
}

// Update runs fn as one locked read-modify-write. The snapshot passed
// to fn is fresh; returning an error aborts without touching the file.
// This is the only safe way to mutate based on row positions.
func (t *Table) Update(fn func(Snapshot) (Snapshot, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap, err := t.loadLocked()
	if err != nil {
		return err
	}
	next, err := fn(snap)
	if err != nil {
		return err
	}
	return t.replaceLocked(next)
}

// CopyTo duplicates the current file to dst, creating parent
// directories as needed. Used for timestamped backups; the file is
// copied byte for byte so operator tooling sees the exact same table.
func (t *Table) CopyTo(dst string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	src, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("backup %s: %w", t.path, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("backup %s: %w", t.path, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("backup %s: %w", t.path, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("backup %s: %w", t.path, err)
	}
	return out.Close()
}

func (t *Table) loadLocked() (Snapshot, error) {
	f, err := os.Open(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", t.path, err)
	}
	if len(records) == 0 {
		return Snapshot{}, nil
	}
	return Snapshot{Header: records[0], Rows: records[1:]}, nil
}

func (t *Table) replaceLocked(s Snapshot) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("replace %s: %w", t.path, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("replace %s: %w", t.path, err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if len(s.Header) > 0 {
		if err := w.Write(s.Header); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("replace %s: %w", t.path, err)
		}
	}
	for _, row := range s.Rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("replace %s: %w", t.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", t.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", t.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", t.path, err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", t.path, err)
	}
	return nil
}
