package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/frontdesk/api"
	"github.com/warp/frontdesk/config"
	"github.com/warp/frontdesk/hotel"
	"github.com/warp/frontdesk/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (http.Handler, *hotel.Desk) {
	t.Helper()
	dir := t.TempDir()
	registry := hotel.NewRegistry(store.NewTable(filepath.Join(dir, "pasajeros.csv")))
	ledger := hotel.NewLedger(store.NewTable(filepath.Join(dir, "consumos_diarios.csv")))

	cfg := config.Default()
	desk := hotel.NewDesk(registry, ledger, cfg.Hotel.FloorLayout())
	desk.SetClock(func() time.Time {
		return time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)
	})

	handler := api.NewHandler(desk)
	// Rate limiting off in tests: every request comes from the same
	// address and would trip the bucket.
	cfg.Server.RateLimitPerSec = 0
	return api.NewRouter(handler, cfg.Server), desk
}

func seedGuests(t *testing.T, desk *hotel.Desk, rows ...[]string) {
	t.Helper()
	_, _, err := desk.ReplaceRegistry(store.Snapshot{Header: hotel.GuestColumns, Rows: rows})
	require.NoError(t, err)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func mustAmt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestGetDashboard(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk,
		[]string{"101", "Pérez", "2", "10/01/2026", "15/01/2026", "Map"},
		[]string{"102", "Gómez", "3", "10/01/2026", "16/01/2026", "Desayuno"},
	)
	require.NoError(t, desk.RegisterCharge(102, hotel.CategoryBeverages, mustAmt("1000")))

	rec := do(t, h, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dash api.DashboardDTO
	decode(t, rec, &dash)

	assert.Equal(t, hotel.StatusCheckoutToday, dash.Statuses[101])
	assert.Equal(t, hotel.StatusWithCharges, dash.Statuses[102])
	assert.Equal(t, hotel.StatusEmpty, dash.Statuses[103])
	assert.Equal(t, 53, dash.Stats.Total)
	assert.Equal(t, 2, dash.Stats.Occupied)
	assert.Equal(t, []int{101}, dash.CheckoutsToday)
	assert.Equal(t, "Gómez", dash.Occupied[102].Name)
}

// =============================================================================
// ROOM SUMMARY
// =============================================================================

func TestGetRoom_UnoccupiedIs404(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk, []string{"101", "Pérez", "2", "10/01/2026", "20/01/2026", "Map"})

	rec := do(t, h, http.MethodGet, "/api/rooms/105", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRoom_TotalsCarryAllCategories(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk, []string{"101", "Pérez", "2", "10/01/2026", "20/01/2026", "Map"})

	rec := do(t, h, http.MethodGet, "/api/rooms/101", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary api.RoomSummaryDTO
	decode(t, rec, &summary)
	assert.Equal(t, "0.00", summary.Totals["Bebidas"])
	assert.Equal(t, "0.00", summary.Totals["Estadía"])
	assert.Equal(t, "0.00", summary.Totals["Map"])
	assert.Equal(t, "0.00", summary.Totals["total"])
}

// =============================================================================
// CHARGES
// =============================================================================

func TestAddRoomCharge(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk, []string{"101", "Pérez", "2", "10/01/2026", "20/01/2026", "Map"})

	rec := do(t, h, http.MethodPost, "/api/rooms/101/charges",
		api.AddChargeRequest{Category: "Bebidas", Amount: "350.50"})
	require.Equal(t, http.StatusCreated, rec.Code)

	charges, err := desk.Ledger.ListForRoom(101)
	require.NoError(t, err)
	require.Len(t, charges, 1)
	assert.Equal(t, "Pérez", charges[0].Guest, "guest name snapshotted from registry")
}

func TestAddRoomCharge_Validation(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk, []string{"101", "Pérez", "2", "10/01/2026", "20/01/2026", "Map"})

	tests := []struct {
		name string
		req  api.AddChargeRequest
		want int
	}{
		{"empty category", api.AddChargeRequest{Category: "", Amount: "100"}, http.StatusBadRequest},
		{"category outside closed set", api.AddChargeRequest{Category: "Spa", Amount: "100"}, http.StatusBadRequest},
		{"unparseable amount", api.AddChargeRequest{Category: "Bebidas", Amount: "abc"}, http.StatusBadRequest},
		{"negative amount", api.AddChargeRequest{Category: "Bebidas", Amount: "-5"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/rooms/101/charges", tt.req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	charges, err := desk.Ledger.ListForRoom(101)
	require.NoError(t, err)
	assert.Empty(t, charges, "rejected charges never reach the ledger")
}

func TestRegisterCharge_UnknownRoom(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk, []string{"101", "Pérez", "2", "10/01/2026", "20/01/2026", "Map"})

	rec := do(t, h, http.MethodPost, "/api/charges",
		api.RegisterChargeRequest{Room: 350, Category: "Bebidas", Amount: "100"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRoomCharge_OutOfRange(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk, []string{"101", "Pérez", "2", "10/01/2026", "20/01/2026", "Map"})
	require.NoError(t, desk.RegisterCharge(101, hotel.CategoryBeverages, mustAmt("100")))

	rec := do(t, h, http.MethodDelete, "/api/rooms/101/charges/3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/rooms/101/charges/0", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =============================================================================
// CHECKOUT
// =============================================================================

func TestConfirmCheckout(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk, []string{"101", "Pérez", "2", "10/01/2026", "15/01/2026", "Map"})
	require.NoError(t, desk.RegisterCharge(101, hotel.CategoryBeverages, mustAmt("100")))

	rec := do(t, h, http.MethodPost, "/api/rooms/101/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := desk.Registry.Lookup(101)
	assert.ErrorIs(t, err, hotel.ErrRoomNotFound)

	rec = do(t, h, http.MethodPost, "/api/rooms/101/checkout", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// REGISTRY UPLOAD
// =============================================================================

func uploadCSV(t *testing.T, h http.Handler, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("archivo", "pasajeros.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/registry", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUploadRegistry_ReplacesAndClearsLedger(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk, []string{"101", "Pérez", "2", "10/01/2026", "20/01/2026", "Map"})
	require.NoError(t, desk.RegisterCharge(101, hotel.CategoryBeverages, mustAmt("100")))

	content := strings.Join([]string{
		strings.Join(hotel.GuestColumns, ","),
		"222,\"Gómez, Luis\",2,16/01/2026,22/01/2026,Map",
	}, "\n")

	rec := uploadCSV(t, h, content)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, err := desk.Registry.Lookup(222)
	assert.NoError(t, err)

	charges, err := desk.Ledger.ListAll()
	require.NoError(t, err)
	assert.Empty(t, charges, "upload clears the ledger")
}

func TestUploadRegistry_MissingColumn(t *testing.T) {
	h, _ := newTestServer(t)

	rec := uploadCSV(t, h, "Nro. habitación,Apellido y nombre\n101,Pérez")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fecha de ingreso")
}

// =============================================================================
// SEASON RESET / EXPORTS
// =============================================================================

func TestResetSeason_WithoutLedger(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/season/reset", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportDayClose(t *testing.T) {
	h, desk := newTestServer(t)
	seedGuests(t, desk, []string{"101", "Pérez", "2", "10/01/2026", "20/01/2026", "Map"})
	require.NoError(t, desk.RegisterCharge(101, hotel.CategoryBeverages, mustAmt("350")))

	rec := do(t, h, http.MethodGet, "/api/exports/day-close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "consulta_consumos_15-01-2026.csv")
	assert.Contains(t, rec.Body.String(), "habitacion,pasajero")
	assert.Contains(t, rec.Body.String(), "350.00")
}
