/*
ledger.go - Charge ledger over the CSV charge table

PURPOSE:
  The ledger is the append-ordered record of every charge. Rows are
  identified to callers only by position: either the 0-based position
  inside one room's filtered subsequence, or the absolute row index in
  the whole file. A position is valid only against the snapshot it was
  derived from, so every position-based delete re-derives the list
  inside the table lock before touching anything.

INVARIANTS:
  1. Append order is the only order. No sorting, ever.
  2. Deleting for one room never reorders other rooms' charges.
  3. TotalsForRoom always returns every category key, zero included.

CORRECTIONS:
  Unlike a bookkeeping ledger there are no reversal entries here - a
  wrong charge is simply deleted by position. The archive copy taken at
  season reset is the only history that survives.
*/
package hotel

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/frontdesk/store"
)

// Ledger reads and rewrites the charge table.
type Ledger struct {
	table *store.Table
	now   func() time.Time
}

func NewLedger(table *store.Table) *Ledger {
	return &Ledger{table: table, now: time.Now}
}

// Table exposes the backing table for compound operations.
func (l *Ledger) Table() *store.Table { return l.table }

// =============================================================================
// APPEND
// =============================================================================

// Append records one charge with a system-assigned timestamp. Category
// and amount are taken as given; the shell validates them against the
// closed set before calling. Creates the ledger file with its header
// when absent.
func (l *Ledger) Append(room int, category Category, amount decimal.Decimal, guest string) error {
	row := []string{
		l.now().Format(TimestampLayout),
		strconv.Itoa(room),
		guest,
		string(category),
		amount.String(),
	}
	return l.table.Append(ChargeColumns, row)
}

// =============================================================================
// READS
// =============================================================================

// ListForRoom returns the room's charges in append order, each tagged
// with its 0-based position within this filtered subsequence.
func (l *Ledger) ListForRoom(room int) ([]PositionedCharge, error) {
	snap, err := l.table.Load()
	if err != nil {
		return nil, err
	}
	charges, _, err := filterRoom(snap, room)
	return charges, err
}

// ListAll returns the whole ledger; positions are absolute row indices.
func (l *Ledger) ListAll() ([]PositionedCharge, error) {
	snap, err := l.table.Load()
	if err != nil {
		return nil, err
	}
	out := make([]PositionedCharge, 0, len(snap.Rows))
	for i, row := range snap.Rows {
		rec, err := parseChargeRow(row)
		if err != nil {
			return nil, fmt.Errorf("charge table row %d: %w", i+1, err)
		}
		out = append(out, PositionedCharge{Position: i, ChargeRecord: rec})
	}
	return out, nil
}

// TotalsForRoom sums the room's charges per category. Every category of
// the closed set is a present key in the result, zero when unused;
// callers never have to check for absence.
func (l *Ledger) TotalsForRoom(room int) (Totals, error) {
	charges, err := l.ListForRoom(room)
	if err != nil {
		return Totals{}, err
	}
	totals := NewTotals()
	for _, c := range charges {
		totals = totals.add(c.Category, c.Amount)
	}
	return totals, nil
}

// TotalForRoom returns just the grand total, for dashboard tiles.
func (l *Ledger) TotalForRoom(room int) (decimal.Decimal, error) {
	totals, err := l.TotalsForRoom(room)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.Total, nil
}

// RoomsWithCharges returns the set of rooms appearing in the ledger,
// including rooms already checked out (orphaned charges survive until
// the next season reset).
func (l *Ledger) RoomsWithCharges() (map[int]struct{}, error) {
	snap, err := l.table.Load()
	if err != nil {
		return nil, err
	}
	set := make(map[int]struct{})
	for i, row := range snap.Rows {
		rec, err := parseChargeRow(row)
		if err != nil {
			return nil, fmt.Errorf("charge table row %d: %w", i+1, err)
		}
		set[rec.Room] = struct{}{}
	}
	return set, nil
}

// =============================================================================
// DELETES
// =============================================================================

// DeleteByPosition removes the pos-th charge of one room. The per-room
// list is recomputed fresh inside the table lock, so the position is
// checked against current state, not against whatever the caller last
// displayed. Out-of-range positions fail with ErrPositionOutOfRange and
// leave the file untouched.
func (l *Ledger) DeleteByPosition(room, pos int) error {
	return l.table.Update(func(snap store.Snapshot) (store.Snapshot, error) {
		_, absolute, err := filterRoom(snap, room)
		if err != nil {
			return snap, err
		}
		if pos < 0 || pos >= len(absolute) {
			return snap, fmt.Errorf("room %d position %d of %d: %w",
				room, pos, len(absolute), ErrPositionOutOfRange)
		}
		snap.Rows = append(snap.Rows[:absolute[pos]], snap.Rows[absolute[pos]+1:]...)
		return snap, nil
	})
}

// DeleteByAbsoluteIndex removes row idx of the whole ledger and returns
// the removed charge so the shell can describe what went away.
func (l *Ledger) DeleteByAbsoluteIndex(idx int) (ChargeRecord, error) {
	var removed ChargeRecord
	err := l.table.Update(func(snap store.Snapshot) (store.Snapshot, error) {
		if idx < 0 || idx >= len(snap.Rows) {
			return snap, fmt.Errorf("index %d of %d: %w", idx, len(snap.Rows), ErrPositionOutOfRange)
		}
		rec, err := parseChargeRow(snap.Rows[idx])
		if err != nil {
			return snap, err
		}
		removed = rec
		snap.Rows = append(snap.Rows[:idx], snap.Rows[idx+1:]...)
		return snap, nil
	})
	return removed, err
}

// DeleteAllForRoom drops every charge of one room, position-independent.
// Used at checkout confirmation.
func (l *Ledger) DeleteAllForRoom(room int) error {
	return l.table.Update(func(snap store.Snapshot) (store.Snapshot, error) {
		kept := snap.Rows[:0]
		for _, row := range snap.Rows {
			if chargeRoom(row) == room {
				continue
			}
			kept = append(kept, row)
		}
		snap.Rows = kept
		return snap, nil
	})
}

// =============================================================================
// SEASON RESET
// =============================================================================

// ClearAll rewrites the ledger to header-only.
func (l *Ledger) ClearAll() error {
	return l.table.Replace(store.Snapshot{Header: ChargeColumns})
}

// ArchiveAndClear copies the current ledger to a timestamped backup and
// then clears it. The pattern <base>_BACKUP_<DD-MM-YYYY_HH-MM> is how
// operators locate past seasons; preserve it exactly. Returns
// ErrNoCharges when there is no ledger file to archive.
func (l *Ledger) ArchiveAndClear() (string, error) {
	if !l.table.Exists() {
		return "", ErrNoCharges
	}
	backup := l.archiveName()
	if err := l.table.CopyTo(backup); err != nil {
		return "", err
	}
	if err := l.ClearAll(); err != nil {
		return backup, err
	}
	return backup, nil
}

func (l *Ledger) archiveName() string {
	path := l.table.Path()
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return fmt.Sprintf("%s_BACKUP_%s.csv", base, l.now().Format("02-01-2006_15-04"))
}

// =============================================================================
// ROW PARSING
// =============================================================================

// filterRoom returns the room's charges with positions plus the
// absolute row index behind each position.
func filterRoom(snap store.Snapshot, room int) ([]PositionedCharge, []int, error) {
	var charges []PositionedCharge
	var absolute []int
	for i, row := range snap.Rows {
		if chargeRoom(row) != room {
			continue
		}
		rec, err := parseChargeRow(row)
		if err != nil {
			return nil, nil, fmt.Errorf("charge table row %d: %w", i+1, err)
		}
		charges = append(charges, PositionedCharge{Position: len(absolute), ChargeRecord: rec})
		absolute = append(absolute, i)
	}
	return charges, absolute, nil
}

// chargeRoom extracts the room column without full parsing; rows that
// do not parse belong to no room.
func chargeRoom(row []string) int {
	if len(row) < 2 {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return -1
	}
	return n
}

func parseChargeRow(row []string) (ChargeRecord, error) {
	if len(row) < 5 {
		return ChargeRecord{}, &FieldError{Field: "charge row", Value: strings.Join(row, ",")}
	}
	room, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return ChargeRecord{}, &FieldError{Field: "habitacion", Value: row[1]}
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(row[4]))
	if err != nil {
		return ChargeRecord{}, &FieldError{Field: "monto", Value: row[4]}
	}
	return ChargeRecord{
		Timestamp: row[0],
		Room:      room,
		Guest:     row[2],
		Category:  Category(row[3]),
		Amount:    amount,
	}, nil
}
