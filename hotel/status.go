/*
status.go - Room status derivation

PURPOSE:
  A room's display status is never stored; it is derived on demand from
  three facts: is the room occupied, does it have charges, and does its
  registered check-out date equal today. The derivation is a pure
  first-match-wins cascade - the precedence order is part of the
  contract and must not be reordered.

CHECKOUT-TODAY:
  Decided by exact string equality between the registered check-out
  date and today's date in DD/MM/YYYY. There is no parsing tolerance: a
  malformed date simply never matches. A bad row must not take down the
  dashboard, so the mismatch is logged instead of rejected.
*/
package hotel

import (
	"log/slog"
	"time"
)

// Status is the derived display category of a room. The values are the
// verbatim state labels the presentation layer keys its colors on.
type Status string

const (
	StatusEmpty         Status = "vacia"
	StatusOccupied      Status = "ocupada"
	StatusWithCharges   Status = "con_consumos"
	StatusCheckoutToday Status = "checkout"
)

// DeriveStatus computes one room's status. First match wins:
//
//	1. not occupied          -> StatusEmpty
//	2. checking out today    -> StatusCheckoutToday
//	3. has recorded charges  -> StatusWithCharges
//	4. otherwise             -> StatusOccupied
//
// Checkout beats charges: a leaving guest's room shows as leaving even
// when there are open charges on it.
func DeriveStatus(room int, occupied map[int]GuestRecord, withCharges, checkoutToday map[int]struct{}) Status {
	if _, ok := occupied[room]; !ok {
		return StatusEmpty
	}
	if _, ok := checkoutToday[room]; ok {
		return StatusCheckoutToday
	}
	if _, ok := withCharges[room]; ok {
		return StatusWithCharges
	}
	return StatusOccupied
}

// CheckoutsToday returns the rooms whose check-out date textually
// equals today (in DateLayout). Unparseable dates never match; they are
// reported at debug level and treated as not-checking-out.
func CheckoutsToday(occupied map[int]GuestRecord, today time.Time) map[int]struct{} {
	todayStr := today.Format(DateLayout)
	set := make(map[int]struct{})
	for room, rec := range occupied {
		if rec.CheckOut == todayStr {
			set[room] = struct{}{}
			continue
		}
		if _, err := time.Parse(DateLayout, rec.CheckOut); err != nil {
			slog.Debug("unparseable check-out date, treating as not leaving today",
				"room", room, "value", rec.CheckOut)
		}
	}
	return set
}

// Floor is one floor of the static room layout. The partition of rooms
// into floors is configuration, not derivation: see config.HotelConfig.
type Floor struct {
	Number int
	Rooms  []int
}

// TotalRooms counts the rooms of a layout.
func TotalRooms(floors []Floor) int {
	n := 0
	for _, f := range floors {
		n += len(f.Rooms)
	}
	return n
}
