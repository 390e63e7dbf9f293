/*
handlers.go - HTTP handlers for the front-desk API

PURPOSE:
  Exposes the front-desk engine via a JSON API. Handlers parse and
  validate input, delegate to the Desk, and map domain errors onto
  HTTP statuses. All data validation beyond basic shape (closed
  category set, amount syntax) happens here, at the shell boundary -
  the ledger itself records what it is given.

ERROR MAPPING:
  404  room not found, position out of range, nothing to export
  400  validation failures (bad category, bad amount, bad upload)
  500  table I/O failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/frontdesk/export"
	"github.com/warp/frontdesk/hotel"
	"github.com/warp/frontdesk/store"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Desk     *hotel.Desk
	Exporter *export.Exporter
}

func NewHandler(desk *hotel.Desk) *Handler {
	return &Handler{Desk: desk, Exporter: export.New(desk)}
}

// =============================================================================
// DASHBOARD / ROOMS
// =============================================================================

// GetDashboard returns the room grid with derived statuses and stats.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Desk.BuildDashboard()
	if err != nil {
		writeError(w, "Failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardDTO(dash))
}

// GetRoom returns the summary of one occupied room.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := roomParam(w, r)
	if !ok {
		return
	}
	summary, err := h.Desk.BuildRoomSummary(room)
	if err != nil {
		writeError(w, "Failed to load room", err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomSummaryDTO(summary))
}

// =============================================================================
// CHARGES
// =============================================================================

// AddRoomCharge records a charge for the room in the URL.
func (h *Handler) AddRoomCharge(w http.ResponseWriter, r *http.Request) {
	room, ok := roomParam(w, r)
	if !ok {
		return
	}
	var req AddChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.registerCharge(w, room, req.Category, req.Amount)
}

// RegisterCharge records a charge naming the room in the body.
func (h *Handler) RegisterCharge(w http.ResponseWriter, r *http.Request) {
	var req RegisterChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.registerCharge(w, req.Room, req.Category, req.Amount)
}

func (h *Handler) registerCharge(w http.ResponseWriter, room int, category, amount string) {
	cat, amt, err := validateCharge(category, amount)
	if err != nil {
		writeError(w, "Invalid charge", err)
		return
	}
	if err := h.Desk.RegisterCharge(room, cat, amt); err != nil {
		writeError(w, "Failed to register charge", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"room":     room,
		"category": string(cat),
		"amount":   formatAmount(amt),
	})
}

// validateCharge enforces the shell-side rules: category from the
// closed set, amount parseable and non-negative.
func validateCharge(category, amount string) (hotel.Category, decimal.Decimal, error) {
	if category == "" {
		return "", decimal.Zero, &hotel.FieldError{Field: "categoria", Value: category}
	}
	cat, ok := hotel.ParseCategory(category)
	if !ok {
		return "", decimal.Zero, &hotel.FieldError{Field: "categoria", Value: category}
	}
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || amt.IsNegative() {
		return "", decimal.Zero, &hotel.FieldError{Field: "monto", Value: amount}
	}
	return cat, amt, nil
}

// ListCharges returns the whole ledger with absolute row indices.
func (h *Handler) ListCharges(w http.ResponseWriter, r *http.Request) {
	charges, err := h.Desk.Ledger.ListAll()
	if err != nil {
		writeError(w, "Failed to list charges", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   len(charges),
		"charges": toChargeDTOs(charges),
	})
}

// DeleteRoomCharge removes one charge by its per-room position.
func (h *Handler) DeleteRoomCharge(w http.ResponseWriter, r *http.Request) {
	room, ok := roomParam(w, r)
	if !ok {
		return
	}
	pos, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid position")
		return
	}
	if err := h.Desk.Ledger.DeleteByPosition(room, pos); err != nil {
		writeError(w, "Failed to delete charge", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": room, "position": pos})
}

// DeleteCharge removes one charge by absolute ledger index.
func (h *Handler) DeleteCharge(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid index")
		return
	}
	removed, err := h.Desk.Ledger.DeleteByAbsoluteIndex(idx)
	if err != nil {
		writeError(w, "Failed to delete charge", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"index":    idx,
		"room":     removed.Room,
		"category": string(removed.Category),
		"amount":   formatAmount(removed.Amount),
	})
}

// =============================================================================
// CHECKOUT
// =============================================================================

// GetCheckout returns the final summary shown before confirming.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	h.GetRoom(w, r)
}

// ConfirmCheckout removes the room's charges and its guest record.
func (h *Handler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	room, ok := roomParam(w, r)
	if !ok {
		return
	}
	if err := h.Desk.Checkout(room); err != nil {
		writeError(w, "Failed to process checkout", err)
		return
	}
	slog.Info("checkout completed", "room", room)
	writeJSON(w, http.StatusOK, map[string]any{"room": room, "status": "available"})
}

// =============================================================================
// SEASON / REGISTRY
// =============================================================================

// ResetSeason archives the ledger and clears it; registry untouched.
func (h *Handler) ResetSeason(w http.ResponseWriter, r *http.Request) {
	backup, err := h.Desk.ResetSeason()
	if err != nil {
		writeError(w, "Failed to reset season", err)
		return
	}
	slog.Info("season reset", "backup", backup)
	writeJSON(w, http.StatusOK, map[string]any{"backup": backup})
}

// GetRegistryInfo summarizes the current guest table.
func (h *Handler) GetRegistryInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Desk.Registry.Info()
	if err != nil {
		writeError(w, "Failed to read guest table", err)
		return
	}
	writeJSON(w, http.StatusOK, RegistryInfoDTO{
		Total:        info.Total,
		Rooms:        info.Rooms,
		CheckoutsNow: info.CheckoutsNow,
		CheckInMin:   info.CheckInRange[0],
		CheckInMax:   info.CheckInRange[1],
		CheckOutMin:  info.CheckOutRange[0],
		CheckOutMax:  info.CheckOutRange[1],
	})
}

// UploadRegistry replaces the guest table from an uploaded CSV file.
// The previous table is backed up and the charge ledger is cleared.
func (h *Handler) UploadRegistry(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("archivo")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeMessage(w, http.StatusBadRequest, "File must be CSV")
		return
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		writeMessage(w, http.StatusBadRequest, "File is not a readable CSV table")
		return
	}

	snap := store.Snapshot{Header: records[0], Rows: records[1:]}
	count, backup, err := h.Desk.ReplaceRegistry(snap)
	if err != nil {
		writeError(w, "Failed to replace guest table", err)
		return
	}
	slog.Info("guest table replaced", "guests", count, "backup", backup)
	writeJSON(w, http.StatusOK, map[string]any{
		"guests":         count,
		"backup":         backup,
		"charges_status": "cleared",
	})
}

// =============================================================================
// EXPORTS
// =============================================================================

// ExportDayClose streams the day-close pivot CSV.
func (h *Handler) ExportDayClose(w http.ResponseWriter, r *http.Request) {
	if !h.Desk.Ledger.Table().Exists() {
		writeError(w, "Nothing to export", hotel.ErrNoCharges)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	attachment(w, h.Exporter.DayCloseFilename())
	if err := h.Exporter.WriteDayClose(w); err != nil {
		slog.Error("day-close export failed mid-stream", "err", err)
	}
}

// ExportCashHandover streams the cash-handover XLSX.
func (h *Handler) ExportCashHandover(w http.ResponseWriter, r *http.Request) {
	f, err := h.Exporter.CashHandover()
	if err != nil {
		writeError(w, "Failed to generate handover sheet", err)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	attachment(w, h.Exporter.CashHandoverFilename())
	if err := f.Write(w); err != nil {
		slog.Error("cash-handover export failed mid-stream", "err", err)
	}
}

// ExportCheckouts streams the checkout-handover XLSX.
func (h *Handler) ExportCheckouts(w http.ResponseWriter, r *http.Request) {
	f, err := h.Exporter.CheckoutHandover()
	if err != nil {
		writeError(w, "Failed to generate checkout sheet", err)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	attachment(w, h.Exporter.CheckoutHandoverFilename())
	if err := f.Write(w); err != nil {
		slog.Error("checkout export failed mid-stream", "err", err)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func roomParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	room, err := strconv.Atoi(chi.URLParam(r, "room"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid room number")
		return 0, false
	}
	return room, true
}

func attachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps a domain error onto an HTTP status. Not-found and
// out-of-range read as 404 on the addressed resource, validation as
// 400, anything else as a 500 with the detail logged, not leaked.
func writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case hotel.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": msg, "detail": err.Error()})
	case hotel.IsClientError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg, "detail": err.Error()})
	default:
		slog.Error(msg, "err", err)
		writeMessage(w, http.StatusInternalServerError, msg)
	}
}
