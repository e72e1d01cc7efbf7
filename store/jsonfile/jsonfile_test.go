package jsonfile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanjt/billcalc/household"
	"github.com/evanjt/billcalc/split"
	"github.com/evanjt/billcalc/store/jsonfile"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *jsonfile.Store {
	t.Helper()
	return jsonfile.New(filepath.Join(t.TempDir(), "billcalc.json"), "")
}

func fullBook(t *testing.T) *household.Book {
	t.Helper()
	prop, err := household.NewProperty("Flat 4b", 2, map[string]string{
		"electricity": "acme energy",
		"gas":         "gasco",
	})
	require.NoError(t, err)
	book := household.NewBook(prop)

	alice, err := household.NewTenant("alice", split.NewDate(2023, time.June, 1))
	require.NoError(t, err)
	bob, err := household.NewDepartedTenant("bob",
		split.NewDate(2023, time.June, 1), split.NewDate(2024, time.January, 16))
	require.NoError(t, err)
	book.AddTenant(alice)
	book.AddTenant(bob)

	bill, err := household.NewBill("electricity", split.MustMoney("104.37"),
		split.NewDate(2024, time.January, 1), split.NewDate(2024, time.January, 31), prop)
	require.NoError(t, err)
	require.NoError(t, book.AddBill(bill, split.NewDate(2024, time.February, 15)))

	return book
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestStore_RoundTrip_ReproducesAllFields(t *testing.T) {
	// GIVEN: A book with property, tenants, and a bill
	// WHEN: Saving and reloading
	// THEN: Every field comes back with identical values

	ctx := context.Background()
	store := newTestStore(t)
	original := fullBook(t)

	require.NoError(t, store.Save(ctx, original))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	require.NotNil(t, loaded.Property)
	assert.Equal(t, original.Property.Name, loaded.Property.Name)
	assert.Equal(t, original.Property.TenantCount, loaded.Property.TenantCount)
	assert.Equal(t, original.Property.BillTypes, loaded.Property.BillTypes)

	require.Len(t, loaded.Tenants, 2)
	for i, want := range original.Tenants {
		got := loaded.Tenants[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Name, got.Name)
		assert.True(t, want.EnteredHouse.Equal(got.EnteredHouse))
		assert.True(t, want.LeftHouse.Equal(got.LeftHouse))
		assert.Equal(t, want.StillAtAddress, got.StillAtAddress)
	}

	require.Len(t, loaded.Bills, 1)
	want, got := original.Bills[0], loaded.Bills[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Category, got.Category)
	assert.True(t, want.Amount.Equal(got.Amount), "amount %s != %s", want.Amount, got.Amount)
	assert.True(t, want.Period.Start.Equal(got.Period.Start))
	assert.True(t, want.Period.End.Equal(got.Period.End))
	assert.Equal(t, want.Supplier, got.Supplier)
	assert.Equal(t, want.Headcount, got.Headcount)
}

func TestStore_Load_MissingFile_EmptyBook(t *testing.T) {
	// GIVEN: No document on disk
	// WHEN: Loading
	// THEN: An empty book, not an error (start-from-nothing)

	store := newTestStore(t)
	book, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Nil(t, book.Property)
	assert.Empty(t, book.Tenants)
	assert.Empty(t, book.Bills)
}

func TestStore_Load_CorruptDocument_DecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billcalc.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := jsonfile.New(path, "").Load(context.Background())
	assert.ErrorIs(t, err, jsonfile.ErrDecode)
}

func TestStore_WireFormat_MatchesDocumentShape(t *testing.T) {
	// Dates are {year,month,day} objects and records are keyed by ID.
	ctx := context.Background()
	store := newTestStore(t)
	book := fullBook(t)
	require.NoError(t, store.Save(ctx, book))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"tenant_count": 2`)
	assert.Contains(t, string(raw), `"still_at_address": true`)
	assert.Contains(t, string(raw), `"year": 2024`)
	assert.Contains(t, string(raw), book.Tenants[0].ID)
	assert.Contains(t, string(raw), book.Bills[0].ID)
}

// =============================================================================
// BACKUP PROTOCOL
// =============================================================================

func TestStore_WithBackup_FailureRestoresPriorState(t *testing.T) {
	// GIVEN: A saved document
	// WHEN: A mutating run fails after overwriting it
	// THEN: The prior document is restored and no backup file remains

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "billcalc.json")
	backup := filepath.Join(dir, "billcalc.json.bak")
	store := jsonfile.New(path, backup)

	original := fullBook(t)
	require.NoError(t, store.Save(ctx, original))

	boom := errors.New("boom")
	err := store.WithBackup(ctx, func() error {
		// Simulate a run that corrupts the working file before failing.
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
		return boom
	})
	require.ErrorIs(t, err, boom)

	restored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, restored.Bills, 1, "prior state restored")

	_, statErr := os.Stat(backup)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "backup removed after restore")
}

func TestStore_WithBackup_SuccessRemovesBackup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "billcalc.json")
	backup := filepath.Join(dir, "billcalc.json.bak")
	store := jsonfile.New(path, backup)

	require.NoError(t, store.Save(ctx, fullBook(t)))

	err := store.WithBackup(ctx, func() error {
		return store.Save(ctx, fullBook(t))
	})
	require.NoError(t, err)

	_, statErr := os.Stat(backup)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestStore_WithBackup_NoPriorFile_FailureLeavesNothing(t *testing.T) {
	// GIVEN: A first run against a store with no document yet
	// WHEN: The run saves, then fails
	// THEN: The half-written document is removed

	ctx := context.Background()
	store := newTestStore(t)

	boom := errors.New("boom")
	err := store.WithBackup(ctx, func() error {
		require.NoError(t, store.Save(ctx, fullBook(t)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, statErr := os.Stat(store.Path())
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}
