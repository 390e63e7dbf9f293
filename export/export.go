/*
Package export produces the end-of-day artifacts the front desk hands
to the next shift:

  - the day-close CSV: a pivot of per-room category totals
  - the cash-handover XLSX: a fixed-layout sheet listing every room
    with charges, one category per column
  - the checkout-handover XLSX: the same layout restricted to rooms
    leaving today

The XLSX layout replicates the paper form the night shift already uses
(title block, shift line, date line, detail header at row 6, data from
row 8, padded to 30 rows). Cell positions are part of the contract.
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/warp/frontdesk/hotel"
)

// Exporter renders reports from fresh desk snapshots.
type Exporter struct {
	desk *hotel.Desk
	now  func() time.Time
}

func New(desk *hotel.Desk) *Exporter {
	return &Exporter{desk: desk, now: time.Now}
}

// SetClock overrides the exporter clock (report date lines).
func (e *Exporter) SetClock(now func() time.Time) { e.now = now }

// =============================================================================
// PIVOT - shared by all three artifacts
// =============================================================================

// pivotRow is one (room, guest) pair with its category totals.
type pivotRow struct {
	Room   int
	Guest  string
	Totals hotel.Totals
}

// pivot groups the full ledger by room and guest snapshot. Rooms appear
// sorted; a room whose guest name was corrected mid-season yields one
// row per distinct snapshot.
func (e *Exporter) pivot() ([]pivotRow, error) {
	charges, err := e.desk.Ledger.ListAll()
	if err != nil {
		return nil, err
	}

	type key struct {
		room  int
		guest string
	}
	grouped := make(map[key]hotel.Totals)
	for _, c := range charges {
		k := key{room: c.Room, guest: c.Guest}
		totals, ok := grouped[k]
		if !ok {
			totals = hotel.NewTotals()
		}
		totals.PerCategory[c.Category] = totals.PerCategory[c.Category].Add(c.Amount)
		totals.Total = totals.Total.Add(c.Amount)
		grouped[k] = totals
	}

	rows := make([]pivotRow, 0, len(grouped))
	for k, totals := range grouped {
		rows = append(rows, pivotRow{Room: k.room, Guest: k.guest, Totals: totals})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Room != rows[j].Room {
			return rows[i].Room < rows[j].Room
		}
		return rows[i].Guest < rows[j].Guest
	})
	return rows, nil
}

// =============================================================================
// DAY-CLOSE CSV
// =============================================================================

// DayCloseColumns is the pivot column order of the day-close file.
var DayCloseColumns = []string{"habitacion", "pasajero", "Bebidas", "Estadía", "Map", "TOTAL_GENERAL"}

// WriteDayClose writes the day-close pivot as CSV. Fails with
// ErrNoCharges when no ledger exists yet.
func (e *Exporter) WriteDayClose(w io.Writer) error {
	if !e.desk.Ledger.Table().Exists() {
		return hotel.ErrNoCharges
	}
	rows, err := e.pivot()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(DayCloseColumns); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			fmt.Sprintf("%d", r.Room),
			r.Guest,
			r.Totals.Get(hotel.CategoryBeverages).StringFixed(2),
			r.Totals.Get(hotel.CategoryLodging).StringFixed(2),
			r.Totals.Get(hotel.CategoryBoard).StringFixed(2),
			r.Totals.Total.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DayCloseFilename is the download name for today's day-close file.
func (e *Exporter) DayCloseFilename() string {
	return fmt.Sprintf("consulta_consumos_%s.csv", e.now().Format("02-01-2006"))
}

// =============================================================================
// CASH HANDOVER XLSX
// =============================================================================

const (
	handoverRows    = 30
	handoverDataRow = 8 // first data row, 1-based
	sheetName       = "Sheet1"
)

// CashHandover renders the cash-handover sheet for every room with
// charges. Fails with ErrNoCharges when no ledger exists yet.
func (e *Exporter) CashHandover() (*excelize.File, error) {
	if !e.desk.Ledger.Table().Exists() {
		return nil, hotel.ErrNoCharges
	}
	rows, err := e.pivot()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	e.writeHandoverHeader(f,
		"Detalle a cobrar de habitaciones con salida",
		fmt.Sprintf("Fecha: %s", e.now().Format("2006-01-02")))

	row := handoverDataRow
	for _, r := range rows {
		writeHandoverRow(f, row, r)
		row++
	}
	// Trailing rows carry an explicit zero total, matching the paper
	// form's pre-printed empty lines.
	for ; row <= handoverRows; row++ {
		f.SetCellValue(sheetName, cell("F", row), 0.0)
	}
	return f, nil
}

// CashHandoverFilename is the download name for today's handover sheet.
func (e *Exporter) CashHandoverFilename() string {
	return fmt.Sprintf("salidas_%s.xlsx", e.now().Format("02-01-2006"))
}

// =============================================================================
// CHECKOUT HANDOVER XLSX
// =============================================================================

// CheckoutHandover renders the handover sheet restricted to rooms
// checking out today, sorted by room number. Fails with ErrNoCheckouts
// when no room leaves today.
func (e *Exporter) CheckoutHandover() (*excelize.File, error) {
	dash, err := e.desk.BuildDashboard()
	if err != nil {
		return nil, err
	}
	if len(dash.CheckoutsToday) == 0 {
		return nil, hotel.ErrNoCheckouts
	}

	f := excelize.NewFile()
	e.writeHandoverHeader(f,
		"Detalle a cobrar de habitaciones con salida HOY",
		fmt.Sprintf("Fecha: %s", e.now().Format("02/01/2006")))

	row := handoverDataRow
	for _, room := range dash.CheckoutsToday {
		summary, err := e.desk.BuildRoomSummary(room)
		if err != nil {
			return nil, err
		}
		writeHandoverRow(f, row, pivotRow{Room: room, Guest: summary.Guest.Name, Totals: summary.Totals})
		row++
	}
	return f, nil
}

// CheckoutHandoverFilename is the download name for today's checkouts.
func (e *Exporter) CheckoutHandoverFilename() string {
	return fmt.Sprintf("checkouts_%s.xlsx", e.now().Format("02-01-2006"))
}

// =============================================================================
// SHEET LAYOUT
// =============================================================================

func (e *Exporter) writeHandoverHeader(f *excelize.File, detailTitle, dateLine string) {
	f.SetCellValue(sheetName, "A1", "Pase de caja e información a turno mañana")
	f.SetCellValue(sheetName, "C3", "Turno:   00 A 08 HS")
	f.SetCellValue(sheetName, "E4", dateLine)
	f.SetCellValue(sheetName, "A5", detailTitle)
	for i, col := range []string{"HAB", "Estadía", "Map", "Bebidas", "Forma de pago", "Total"} {
		f.SetCellValue(sheetName, cell(string(rune('A'+i)), 6), col)
	}
}

// writeHandoverRow writes one room line. Zero category cells stay
// blank; the payment-method column is always left for the shift to
// fill in by hand.
func writeHandoverRow(f *excelize.File, row int, r pivotRow) {
	f.SetCellValue(sheetName, cell("A", row), r.Room)
	setIfPositive(f, cell("B", row), r.Totals.Get(hotel.CategoryLodging))
	setIfPositive(f, cell("C", row), r.Totals.Get(hotel.CategoryBoard))
	setIfPositive(f, cell("D", row), r.Totals.Get(hotel.CategoryBeverages))
	f.SetCellValue(sheetName, cell("F", row), r.Totals.Total.InexactFloat64())
}

func setIfPositive(f *excelize.File, ref string, v decimal.Decimal) {
	if v.IsPositive() {
		f.SetCellValue(sheetName, ref, v.InexactFloat64())
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
