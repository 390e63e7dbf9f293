package hotel_test

import (
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/frontdesk/hotel"
	"github.com/warp/frontdesk/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRegistry(t *testing.T) *hotel.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pasajeros.csv")
	return hotel.NewRegistry(store.NewTable(path))
}

// guestRow builds a row in the guest table column order.
func guestRow(room int, name, checkIn, checkOut string) []string {
	return []string{strconv.Itoa(room), name, "2", checkIn, checkOut, "Desayuno"}
}

func guestSnapshot(rows ...[]string) store.Snapshot {
	return store.Snapshot{Header: hotel.GuestColumns, Rows: rows}
}

// =============================================================================
// LOOKUP
// =============================================================================

func TestRegistry_Lookup(t *testing.T) {
	registry := newTestRegistry(t)
	_, err := registry.ReplaceAll(guestSnapshot(
		guestRow(101, "Pérez, Ana", "10/01/2026", "15/01/2026"),
		guestRow(222, "Gómez, Luis", "11/01/2026", "16/01/2026"),
	))
	require.NoError(t, err)

	rec, err := registry.Lookup(222)
	require.NoError(t, err)
	assert.Equal(t, "Gómez, Luis", rec.Name)
	assert.Equal(t, "16/01/2026", rec.CheckOut)
	assert.Equal(t, 2, rec.Beds)

	_, err = registry.Lookup(103)
	assert.ErrorIs(t, err, hotel.ErrRoomNotFound)
	assert.True(t, hotel.IsNotFound(err))
}

func TestRegistry_Lookup_MissingFile_NotFound(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.Lookup(101)
	assert.ErrorIs(t, err, hotel.ErrRoomNotFound)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestRegistry_Validate_ReportsFirstMissingColumn(t *testing.T) {
	registry := newTestRegistry(t)

	// Header missing both date columns; only the first required one
	// in declaration order is reported.
	snap := store.Snapshot{
		Header: []string{"Nro. habitación", "Apellido y nombre", "Servicios"},
		Rows:   [][]string{{"101", "Pérez", "Desayuno"}},
	}
	err := registry.Validate(snap)
	require.Error(t, err)

	var missing *hotel.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Fecha de ingreso", missing.Column)
	assert.True(t, hotel.IsClientError(err))
}

func TestRegistry_Validate_RejectsDuplicateRooms(t *testing.T) {
	registry := newTestRegistry(t)

	err := registry.Validate(guestSnapshot(
		guestRow(101, "Pérez", "10/01/2026", "15/01/2026"),
		guestRow(101, "Gómez", "11/01/2026", "16/01/2026"),
	))
	var dup *hotel.DuplicateRoomError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 101, dup.Room)
}

func TestRegistry_Validate_RejectsBadRoomNumber(t *testing.T) {
	registry := newTestRegistry(t)

	err := registry.Validate(guestSnapshot(
		[]string{"abc", "Pérez", "2", "10/01/2026", "15/01/2026", "Desayuno"},
	))
	var field *hotel.FieldError
	require.ErrorAs(t, err, &field)
	assert.Equal(t, "Nro. habitación", field.Field)
}

// =============================================================================
// REPLACE / REMOVE
// =============================================================================

func TestRegistry_ReplaceAll_BacksUpPreviousTable(t *testing.T) {
	registry := newTestRegistry(t)

	backup, err := registry.ReplaceAll(guestSnapshot(
		guestRow(101, "Pérez", "10/01/2026", "15/01/2026"),
	))
	require.NoError(t, err)
	assert.Empty(t, backup, "first install has nothing to back up")

	backup, err = registry.ReplaceAll(guestSnapshot(
		guestRow(222, "Gómez", "11/01/2026", "16/01/2026"),
	))
	require.NoError(t, err)

	// backups/pasajeros_backup_YYYYMMDD_HHMMSS.csv
	pattern := regexp.MustCompile(`backups[\\/]pasajeros_backup_\d{8}_\d{6}\.csv$`)
	assert.Regexp(t, pattern, backup)
	assert.FileExists(t, backup)

	// Old table fully replaced.
	_, err = registry.Lookup(101)
	assert.ErrorIs(t, err, hotel.ErrRoomNotFound)
	_, err = registry.Lookup(222)
	assert.NoError(t, err)
}

func TestRegistry_RemoveByRoom_AbsentRoomIsNoop(t *testing.T) {
	registry := newTestRegistry(t)
	_, err := registry.ReplaceAll(guestSnapshot(
		guestRow(101, "Pérez", "10/01/2026", "15/01/2026"),
	))
	require.NoError(t, err)

	require.NoError(t, registry.RemoveByRoom(999))
	require.NoError(t, registry.RemoveByRoom(101))
	require.NoError(t, registry.RemoveByRoom(101), "second removal stays a no-op")

	occupied, _, err := registry.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, occupied)
}

// =============================================================================
// DUPLICATES ON READ
// =============================================================================

func TestRegistry_LoadAll_DuplicateRoomsFirstWins(t *testing.T) {
	// Duplicates cannot be installed through ReplaceAll, but a
	// hand-edited table can carry them; the first record wins.
	path := filepath.Join(t.TempDir(), "pasajeros.csv")
	table := store.NewTable(path)
	require.NoError(t, table.Replace(guestSnapshot(
		guestRow(101, "Pérez", "10/01/2026", "15/01/2026"),
		guestRow(101, "Gómez", "11/01/2026", "16/01/2026"),
	)))

	registry := hotel.NewRegistry(table)
	occupied, order, err := registry.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []int{101}, order)
	assert.Equal(t, "Pérez", occupied[101].Name)
}
