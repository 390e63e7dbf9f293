/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the front-desk API. They decouple the domain
  model from the wire contract; category labels and status values pass
  through verbatim because operator tooling keys on them. Amounts are
  rendered as two-decimal strings, never floats.
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/frontdesk/hotel"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// AddChargeRequest records a charge against a room taken from the URL.
// JSON field names match the desk frontend's form fields.
type AddChargeRequest struct {
	Category string `json:"categoria"`
	Amount   string `json:"monto"`
}

// RegisterChargeRequest records a charge naming the room explicitly.
type RegisterChargeRequest struct {
	Room     int    `json:"habitacion"`
	Category string `json:"categoria"`
	Amount   string `json:"monto"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// GuestDTO is one occupied room's guest record.
type GuestDTO struct {
	Room     int    `json:"room"`
	Name     string `json:"name"`
	Beds     int    `json:"beds"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Services string `json:"services"`
}

// ChargeDTO is one ledger entry with its position tag.
type ChargeDTO struct {
	Position  int    `json:"position"`
	Timestamp string `json:"timestamp"`
	Room      int    `json:"room"`
	Guest     string `json:"guest"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
}

// FloorDTO is one floor of the static layout.
type FloorDTO struct {
	Floor int   `json:"floor"`
	Rooms []int `json:"rooms"`
}

// StatsDTO carries the hotel-wide counters.
type StatsDTO struct {
	Total          int `json:"total"`
	Occupied       int `json:"occupied"`
	Empty          int `json:"empty"`
	WithCharges    int `json:"with_charges"`
	WithoutCharges int `json:"without_charges"`
	CheckoutsToday int `json:"checkouts_today"`
}

// DashboardDTO is the room-grid view model.
type DashboardDTO struct {
	Floors         []FloorDTO           `json:"floors"`
	Statuses       map[int]hotel.Status `json:"statuses"`
	Occupied       map[int]GuestDTO     `json:"occupied"`
	CheckoutsToday []int                `json:"checkouts_today"`
	Stats          StatsDTO             `json:"stats"`
}

// RoomSummaryDTO is one occupied room with charges and totals. Totals
// always carries the three category keys plus "total".
type RoomSummaryDTO struct {
	Room        int               `json:"room"`
	Guest       GuestDTO          `json:"guest"`
	Charges     []ChargeDTO       `json:"charges"`
	Totals      map[string]string `json:"totals"`
	ChargeCount int               `json:"charge_count"`
}

// RegistryInfoDTO summarizes the loaded guest table.
type RegistryInfoDTO struct {
	Total        int    `json:"total"`
	Rooms        []int  `json:"rooms"`
	CheckoutsNow int    `json:"checkouts_today"`
	CheckInMin   string `json:"check_in_min"`
	CheckInMax   string `json:"check_in_max"`
	CheckOutMin  string `json:"check_out_min"`
	CheckOutMax  string `json:"check_out_max"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toGuestDTO(rec hotel.GuestRecord) GuestDTO {
	return GuestDTO{
		Room:     rec.Room,
		Name:     rec.Name,
		Beds:     rec.Beds,
		CheckIn:  rec.CheckIn,
		CheckOut: rec.CheckOut,
		Services: rec.Services,
	}
}

func toChargeDTOs(charges []hotel.PositionedCharge) []ChargeDTO {
	dtos := make([]ChargeDTO, len(charges))
	for i, c := range charges {
		dtos[i] = ChargeDTO{
			Position:  c.Position,
			Timestamp: c.Timestamp,
			Room:      c.Room,
			Guest:     c.Guest,
			Category:  string(c.Category),
			Amount:    formatAmount(c.Amount),
		}
	}
	return dtos
}

func toTotalsDTO(t hotel.Totals) map[string]string {
	out := make(map[string]string, len(t.PerCategory)+1)
	for c, v := range t.PerCategory {
		out[string(c)] = formatAmount(v)
	}
	out["total"] = formatAmount(t.Total)
	return out
}

func toRoomSummaryDTO(s hotel.RoomSummary) RoomSummaryDTO {
	return RoomSummaryDTO{
		Room:        s.Room,
		Guest:       toGuestDTO(s.Guest),
		Charges:     toChargeDTOs(s.Charges),
		Totals:      toTotalsDTO(s.Totals),
		ChargeCount: s.ChargeCount,
	}
}

func toDashboardDTO(d hotel.Dashboard) DashboardDTO {
	floors := make([]FloorDTO, len(d.Floors))
	for i, f := range d.Floors {
		floors[i] = FloorDTO{Floor: f.Number, Rooms: f.Rooms}
	}
	occupied := make(map[int]GuestDTO, len(d.Occupied))
	for room, rec := range d.Occupied {
		occupied[room] = toGuestDTO(rec)
	}
	return DashboardDTO{
		Floors:         floors,
		Statuses:       d.Statuses,
		Occupied:       occupied,
		CheckoutsToday: d.CheckoutsToday,
		Stats: StatsDTO{
			Total:          d.Stats.Total,
			Occupied:       d.Stats.Occupied,
			Empty:          d.Stats.Empty,
			WithCharges:    d.Stats.WithCharges,
			WithoutCharges: d.Stats.WithoutCharges,
			CheckoutsToday: d.Stats.CheckoutsToday,
		},
	}
}

// formatAmount renders monetary values with two decimals.
func formatAmount(v decimal.Decimal) string {
	return v.StringFixed(2)
}
