/*
desk.go - Front-desk service composing registry, ledger and derivation

PURPOSE:
  The Desk is what the shell talks to. It owns the cross-table rules
  that neither table can own alone:
    - a charge may only be registered against an occupied room, with
      the guest name snapshotted into the ledger row
    - checkout removes the room's charges AND its guest record
    - replacing the guest registry wholesale clears the ledger, so a
      new guest list never starts with orphaned charges

  Each operation loads fresh snapshots; the Desk keeps no state of its
  own beyond its configuration (the floor layout and a clock).
*/
package hotel

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/frontdesk/store"
)

// Desk wires the two tables and the floor layout together.
type Desk struct {
	Registry *Registry
	Ledger   *Ledger
	Floors   []Floor

	now func() time.Time
}

func NewDesk(registry *Registry, ledger *Ledger, floors []Floor) *Desk {
	return &Desk{Registry: registry, Ledger: ledger, Floors: floors, now: time.Now}
}

// SetClock overrides the desk clock. Tests use this to pin "today".
func (d *Desk) SetClock(now func() time.Time) {
	d.now = now
	d.Registry.now = now
	d.Ledger.now = now
}

// =============================================================================
// CHARGES
// =============================================================================

// RegisterCharge validates the room against the registry, snapshots the
// guest name, and appends the charge. ErrRoomNotFound means "cannot
// register a charge here" - the room is not occupied.
func (d *Desk) RegisterCharge(room int, category Category, amount decimal.Decimal) error {
	guest, err := d.Registry.Lookup(room)
	if err != nil {
		return err
	}
	return d.Ledger.Append(room, category, amount, guest.Name)
}

// =============================================================================
// DASHBOARD
// =============================================================================

// Stats are the hotel-wide counters shown above the room grid. They
// always sum consistently: Occupied = WithCharges + WithoutCharges and
// Total = Occupied + Empty.
type Stats struct {
	Total          int
	Occupied       int
	Empty          int
	WithCharges    int
	WithoutCharges int
	CheckoutsToday int
}

// Dashboard is the full view model for the room grid.
type Dashboard struct {
	Floors         []Floor
	Statuses       map[int]Status
	Occupied       map[int]GuestRecord
	CheckoutsToday []int
	Stats          Stats
}

// BuildDashboard derives the status of every room in the layout plus
// the hotel-wide statistics.
func (d *Desk) BuildDashboard() (Dashboard, error) {
	occupied, _, err := d.Registry.LoadAll()
	if err != nil {
		return Dashboard{}, err
	}
	withCharges, err := d.Ledger.RoomsWithCharges()
	if err != nil {
		return Dashboard{}, err
	}
	checkouts := CheckoutsToday(occupied, d.now())

	statuses := make(map[int]Status)
	chargesShown := 0
	for _, floor := range d.Floors {
		for _, room := range floor.Rooms {
			st := DeriveStatus(room, occupied, withCharges, checkouts)
			statuses[room] = st
			if st == StatusWithCharges {
				chargesShown++
			}
		}
	}

	checkoutList := make([]int, 0, len(checkouts))
	for room := range checkouts {
		checkoutList = append(checkoutList, room)
	}
	sort.Ints(checkoutList)

	total := TotalRooms(d.Floors)
	stats := Stats{
		Total:          total,
		Occupied:       len(occupied),
		Empty:          total - len(occupied),
		WithCharges:    chargesShown,
		WithoutCharges: len(occupied) - chargesShown,
		CheckoutsToday: len(checkouts),
	}

	return Dashboard{
		Floors:         d.Floors,
		Statuses:       statuses,
		Occupied:       occupied,
		CheckoutsToday: checkoutList,
		Stats:          stats,
	}, nil
}

// =============================================================================
// ROOM SUMMARY
// =============================================================================

// RoomSummary is everything known about one occupied room: the guest,
// the positioned charge list, and the per-category totals.
type RoomSummary struct {
	Room        int
	Guest       GuestRecord
	Charges     []PositionedCharge
	Totals      Totals
	ChargeCount int
}

// BuildRoomSummary composes registry and ledger reads for one room.
// Fails with ErrRoomNotFound when the room has no guest record, even if
// stray charges reference it.
func (d *Desk) BuildRoomSummary(room int) (RoomSummary, error) {
	guest, err := d.Registry.Lookup(room)
	if err != nil {
		return RoomSummary{}, err
	}
	charges, err := d.Ledger.ListForRoom(room)
	if err != nil {
		return RoomSummary{}, err
	}
	totals, err := d.Ledger.TotalsForRoom(room)
	if err != nil {
		return RoomSummary{}, err
	}
	return RoomSummary{
		Room:        room,
		Guest:       guest,
		Charges:     charges,
		Totals:      totals,
		ChargeCount: len(charges),
	}, nil
}

// =============================================================================
// CHECKOUT
// =============================================================================

// Checkout confirms a room's departure: the room's charges go first,
// then its guest record. Fails with ErrRoomNotFound when the room is
// not occupied. Charges for other rooms are untouched.
func (d *Desk) Checkout(room int) error {
	if _, err := d.Registry.Lookup(room); err != nil {
		return err
	}
	if err := d.Ledger.DeleteAllForRoom(room); err != nil {
		return fmt.Errorf("checkout room %d: %w", room, err)
	}
	if err := d.Registry.RemoveByRoom(room); err != nil {
		return fmt.Errorf("checkout room %d: %w", room, err)
	}
	return nil
}

// =============================================================================
// SEASON OPERATIONS
// =============================================================================

// ResetSeason archives the current ledger under its timestamped backup
// name and starts an empty one. The guest table is untouched.
func (d *Desk) ResetSeason() (backupPath string, err error) {
	return d.Ledger.ArchiveAndClear()
}

// ReplaceRegistry installs a whole new guest table and clears the
// charge ledger: charges snapshot guest names, and a wholesale
// guest-list change would leave the old season's charges orphaned under
// the new occupancy. Returns the guest count and the backup path of the
// previous table (empty when none existed).
func (d *Desk) ReplaceRegistry(snap store.Snapshot) (count int, backupPath string, err error) {
	backupPath, err = d.Registry.ReplaceAll(snap)
	if err != nil {
		return 0, "", err
	}
	if err := d.Ledger.ClearAll(); err != nil {
		return 0, backupPath, fmt.Errorf("clear ledger after registry replacement: %w", err)
	}
	return len(snap.Rows), backupPath, nil
}
