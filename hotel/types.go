/*
Package hotel implements the front-desk core: the guest registry, the
per-room charge ledger, and the status/summary derivations built on
both.

KEY CONCEPTS IN THIS FILE (types.go):
  - GuestRecord: one active record per occupied room
  - ChargeRecord: one append-ordered ledger entry
  - Category: the fixed closed set of charge categories
  - Totals: per-category sums, always carrying every category key

DESIGN PRINCIPLES:
  1. Snapshot semantics: the guest name is copied into each charge at
     creation; later registry edits never rewrite history.
  2. Precision: amounts are decimal.Decimal, never float64.
  3. Verbatim labels: category names and the DD/MM/YYYY date format are
     an external contract shared with operator spreadsheets - they are
     not translated or normalized.
*/
package hotel

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE / TIMESTAMP FORMATS
// =============================================================================

// Dates live in the tables as text in these layouts. Checkout-today is
// decided by string equality on DateLayout, so the layout doubles as a
// wire format.
const (
	DateLayout      = "02/01/2006"
	TimestampLayout = "02/01/2006 15:04"
)

// =============================================================================
// CATEGORIES - Fixed closed set
// =============================================================================

// Category is a charge category. The labels are stored verbatim in the
// ledger file and in every export artifact.
type Category string

const (
	CategoryBeverages Category = "Bebidas"
	CategoryLodging   Category = "Estadía"
	CategoryBoard     Category = "Map"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryBeverages, CategoryLodging, CategoryBoard}

// ParseCategory maps a raw label onto the closed set.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// =============================================================================
// RECORDS
// =============================================================================

// GuestRecord is one occupied room in the registry.
type GuestRecord struct {
	Room     int
	Name     string // surname and name, as registered
	Beds     int    // occupied beds
	CheckIn  string // DateLayout
	CheckOut string // DateLayout
	Services string // free-text service tier
}

// ChargeRecord is one ledger entry. Timestamp is assigned by the
// system at append time, never client-supplied. Guest is a snapshot of
// the registry name at creation.
type ChargeRecord struct {
	Timestamp string // TimestampLayout
	Room      int
	Guest     string
	Category  Category
	Amount    decimal.Decimal
}

// PositionedCharge tags a charge with its 0-based position inside the
// sequence it was listed from (per-room subsequence or full ledger).
// The position is only meaningful against the exact snapshot that
// produced it.
type PositionedCharge struct {
	Position int
	ChargeRecord
}

// =============================================================================
// TOTALS
// =============================================================================

// Totals holds per-category sums for one room. Every category of the
// closed set is always a present key, zero-valued when the room has no
// charges in it.
type Totals struct {
	PerCategory map[Category]decimal.Decimal
	Total       decimal.Decimal
}

// NewTotals returns zeroed totals with all category keys present.
func NewTotals() Totals {
	per := make(map[Category]decimal.Decimal, len(Categories))
	for _, c := range Categories {
		per[c] = decimal.Zero
	}
	return Totals{PerCategory: per, Total: decimal.Zero}
}

func (t Totals) add(c Category, amount decimal.Decimal) Totals {
	t.PerCategory[c] = t.PerCategory[c].Add(amount)
	t.Total = t.Total.Add(amount)
	return t
}

// Get returns the sum for one category (zero for unknown labels).
func (t Totals) Get(c Category) decimal.Decimal {
	return t.PerCategory[c]
}

// =============================================================================
// TABLE COLUMN CONTRACTS
// =============================================================================

// Column names are shared with operator tooling and uploaded files.
// They must match byte for byte.
var (
	GuestColumns = []string{
		"Nro. habitación",
		"Apellido y nombre",
		"Plazas ocupadas",
		"Fecha de ingreso",
		"Fecha de egreso",
		"Servicios",
	}

	// RequiredGuestColumns are checked on registry replacement.
	// "Plazas ocupadas" is optional: historic guest lists predate that
	// column and still load with zero beds.
	RequiredGuestColumns = []string{
		"Nro. habitación",
		"Fecha de ingreso",
		"Fecha de egreso",
		"Apellido y nombre",
		"Servicios",
	}

	ChargeColumns = []string{"fecha", "habitacion", "pasajero", "categoria", "monto"}
)
