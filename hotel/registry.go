/*
registry.go - Guest registry over the CSV guest table

PURPOSE:
  Holds at most one active GuestRecord per occupied room. Every read
  loads the table fresh; there is no cache to invalidate. The registry
  validates and types rows once at this boundary so the rest of the
  system never touches raw CSV fields.

DUPLICATE ROOMS:
  The table format cannot forbid duplicates. On read, the first
  occurrence wins and the collision is logged; on wholesale replacement
  duplicates are rejected outright.
*/
package hotel

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/warp/frontdesk/store"
)

// Registry reads and rewrites the guest table.
type Registry struct {
	table *store.Table
	now   func() time.Time
}

func NewRegistry(table *store.Table) *Registry {
	return &Registry{table: table, now: time.Now}
}

// Table exposes the backing table for compound operations that need
// its lock (registry replacement clears the ledger too).
func (r *Registry) Table() *store.Table { return r.table }

// =============================================================================
// READS
// =============================================================================

// Lookup returns the guest record for a room, or ErrRoomNotFound. A
// missing or empty guest table means no room is occupied.
func (r *Registry) Lookup(room int) (GuestRecord, error) {
	occupied, _, err := r.LoadAll()
	if err != nil {
		return GuestRecord{}, err
	}
	rec, ok := occupied[room]
	if !ok {
		return GuestRecord{}, fmt.Errorf("room %d: %w", room, ErrRoomNotFound)
	}
	return rec, nil
}

// LoadAll returns every active guest record keyed by room number, plus
// the room numbers in table order. Duplicate rooms keep the first
// record and log the collision.
func (r *Registry) LoadAll() (map[int]GuestRecord, []int, error) {
	snap, err := r.table.Load()
	if err != nil {
		return nil, nil, err
	}
	return parseGuestSnapshot(snap)
}

func parseGuestSnapshot(snap store.Snapshot) (map[int]GuestRecord, []int, error) {
	cols := columnIndex(snap.Header)
	occupied := make(map[int]GuestRecord, len(snap.Rows))
	order := make([]int, 0, len(snap.Rows))

	for i, row := range snap.Rows {
		rec, err := parseGuestRow(cols, row)
		if err != nil {
			return nil, nil, fmt.Errorf("guest table row %d: %w", i+1, err)
		}
		if _, dup := occupied[rec.Room]; dup {
			slog.Warn("duplicate room in guest table, keeping first record",
				"room", rec.Room, "row", i+1)
			continue
		}
		occupied[rec.Room] = rec
		order = append(order, rec.Room)
	}
	return occupied, order, nil
}

func parseGuestRow(cols map[string]int, row []string) (GuestRecord, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	roomRaw := field("Nro. habitación")
	room, err := strconv.Atoi(roomRaw)
	if err != nil {
		return GuestRecord{}, &FieldError{Field: "Nro. habitación", Value: roomRaw}
	}

	// Beds column is optional; blank or absent means unknown.
	beds := 0
	if raw := field("Plazas ocupadas"); raw != "" {
		beds, err = strconv.Atoi(raw)
		if err != nil {
			return GuestRecord{}, &FieldError{Field: "Plazas ocupadas", Value: raw}
		}
	}

	return GuestRecord{
		Room:     room,
		Name:     field("Apellido y nombre"),
		Beds:     beds,
		CheckIn:  field("Fecha de ingreso"),
		CheckOut: field("Fecha de egreso"),
		Services: field("Servicios"),
	}, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

// =============================================================================
// WRITES
// =============================================================================

// RemoveByRoom deletes the record for a room. Removing an absent room
// is a no-op, not an error - checkout must stay idempotent.
func (r *Registry) RemoveByRoom(room int) error {
	return r.table.Update(func(snap store.Snapshot) (store.Snapshot, error) {
		cols := columnIndex(snap.Header)
		idx, ok := cols["Nro. habitación"]
		if !ok {
			return snap, nil
		}
		kept := snap.Rows[:0]
		for _, row := range snap.Rows {
			if idx < len(row) {
				if n, err := strconv.Atoi(strings.TrimSpace(row[idx])); err == nil && n == room {
					continue
				}
			}
			kept = append(kept, row)
		}
		snap.Rows = kept
		return snap, nil
	})
}

// Validate checks an incoming guest table: every required column
// present (first missing one reported), every row parseable, no
// duplicate room numbers.
func (r *Registry) Validate(snap store.Snapshot) error {
	cols := columnIndex(snap.Header)
	for _, required := range RequiredGuestColumns {
		if _, ok := cols[required]; !ok {
			return &MissingColumnError{Column: required}
		}
	}

	seen := make(map[int]bool, len(snap.Rows))
	for i, row := range snap.Rows {
		rec, err := parseGuestRow(cols, row)
		if err != nil {
			return fmt.Errorf("guest table row %d: %w", i+1, err)
		}
		if seen[rec.Room] {
			return &DuplicateRoomError{Room: rec.Room}
		}
		seen[rec.Room] = true
	}
	return nil
}

// ReplaceAll validates and overwrites the whole guest table, backing up
// the previous file first when one exists. The backup name pattern
// backups/<base>_backup_<YYYYMMDD_HHMMSS> is relied on by operator
// tooling; do not change it.
//
// Clearing the charge ledger after a replacement is the Desk's job:
// see Desk.ReplaceRegistry.
func (r *Registry) ReplaceAll(snap store.Snapshot) (backupPath string, err error) {
	if err := r.Validate(snap); err != nil {
		return "", err
	}
	if r.table.Exists() {
		backupPath = r.backupName()
		if err := r.table.CopyTo(backupPath); err != nil {
			return "", err
		}
	}
	if err := r.table.Replace(snap); err != nil {
		return backupPath, err
	}
	return backupPath, nil
}

func (r *Registry) backupName() string {
	dir := filepath.Dir(r.table.Path())
	base := strings.TrimSuffix(filepath.Base(r.table.Path()), filepath.Ext(r.table.Path()))
	stamp := r.now().Format("20060102_150405")
	return filepath.Join(dir, "backups", fmt.Sprintf("%s_backup_%s.csv", base, stamp))
}

// =============================================================================
// INFO
// =============================================================================

// RegistryInfo summarizes the loaded guest table for the management
// screen: headcount, room list, and the date ranges of the season.
type RegistryInfo struct {
	Total         int
	Rooms         []int
	CheckoutsNow  int
	CheckInRange  [2]string // min, max
	CheckOutRange [2]string // min, max
}

// Info computes RegistryInfo against today's date.
func (r *Registry) Info() (RegistryInfo, error) {
	occupied, order, err := r.LoadAll()
	if err != nil {
		return RegistryInfo{}, err
	}

	info := RegistryInfo{Total: len(order), Rooms: order}
	today := r.now().Format(DateLayout)
	for _, room := range order {
		rec := occupied[room]
		if rec.CheckOut == today {
			info.CheckoutsNow++
		}
		info.CheckInRange = widenRange(info.CheckInRange, rec.CheckIn)
		info.CheckOutRange = widenRange(info.CheckOutRange, rec.CheckOut)
	}
	return info, nil
}

// widenRange tracks lexical min/max of the textual dates. Dates sharing
// a season sort correctly enough for an at-a-glance range.
func widenRange(r [2]string, v string) [2]string {
	if v == "" {
		return r
	}
	if r[0] == "" || v < r[0] {
		r[0] = v
	}
	if r[1] == "" || v > r[1] {
		r[1] = v
	}
	return r
}
