package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanjt/billcalc/api"
	"github.com/evanjt/billcalc/household"
	"github.com/evanjt/billcalc/split"
	"github.com/evanjt/billcalc/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// testToday keeps settlement deterministic regardless of when the tests run.
var testToday = split.NewDate(2024, time.February, 15)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()

	handler := api.NewHandler(store).WithClock(func() split.Date { return testToday })
	require.NoError(t, handler.LoadBook(context.Background()))

	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server, store
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func setupHousehold(t *testing.T, base string) {
	t.Helper()
	resp := doJSON(t, http.MethodPut, base+"/api/property", api.ReplacePropertyRequest{
		Name:        "Flat 4b",
		TenantCount: 2,
		BillTypes:   map[string]string{"electricity": "acme energy"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, tenant := range []api.CreateTenantRequest{
		{Name: "alice", EnteredHouse: "2023-06-01"},
		{Name: "bob", EnteredHouse: "2023-06-01"},
	} {
		resp := doJSON(t, http.MethodPost, base+"/api/tenants", tenant)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
}

// =============================================================================
// BILL FLOW
// =============================================================================

func TestCreateBill_ReturnsSettlement(t *testing.T) {
	// GIVEN: A configured property with two resident tenants
	// WHEN: Adding a $100 bill for January
	// THEN: The response carries the settlement: $50 each, zero difference

	server, _ := newTestServer(t)
	setupHousehold(t, server.URL)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/bills", api.CreateBillRequest{
		Category: "electricity",
		Amount:   "100.00",
		FromDate: "2024-01-01",
		ToDate:   "2024-01-31",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	settlement := decode[api.SettlementDTO](t, resp)
	assert.Equal(t, "acme energy", settlement.Bill.Supplier)
	assert.Equal(t, 30, settlement.Bill.TotalDays)
	require.Len(t, settlement.Payees, 2)
	assert.Equal(t, "50.00", settlement.Payees[0].Amount)
	assert.Equal(t, "50.00", settlement.Payees[1].Amount)
	assert.Equal(t, "100.00", settlement.TotalCollected)
	assert.Equal(t, "0.00", settlement.Difference)
	assert.NotEmpty(t, settlement.Note, "difference must be labeled informational")
}

func TestCreateBill_Duplicate_Conflict(t *testing.T) {
	server, _ := newTestServer(t)
	setupHousehold(t, server.URL)

	bill := api.CreateBillRequest{
		Category: "electricity",
		Amount:   "100.00",
		FromDate: "2024-01-01",
		ToDate:   "2024-01-31",
	}

	resp := doJSON(t, http.MethodPost, server.URL+"/api/bills", bill)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/bills", bill)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/bills", nil)
	bills := decode[[]api.BillDTO](t, resp)
	assert.Len(t, bills, 1, "duplicate add stores nothing")
}

func TestCreateBill_UnknownCategory_BadRequest(t *testing.T) {
	server, _ := newTestServer(t)
	setupHousehold(t, server.URL)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/bills", api.CreateBillRequest{
		Category: "internet",
		Amount:   "59.99",
		FromDate: "2024-01-01",
		ToDate:   "2024-01-31",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[api.ErrorResponse](t, resp)
	assert.Contains(t, body.Details, "internet")
}

func TestCreateBill_EndsAfterToday_BadRequest(t *testing.T) {
	server, _ := newTestServer(t)
	setupHousehold(t, server.URL)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/bills", api.CreateBillRequest{
		Category: "electricity",
		Amount:   "100.00",
		FromDate: "2024-02-01",
		ToDate:   "2024-03-01", // past testToday
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSettlement_Recalculate(t *testing.T) {
	server, _ := newTestServer(t)
	setupHousehold(t, server.URL)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/bills", api.CreateBillRequest{
		Category: "electricity",
		Amount:   "100.00",
		FromDate: "2024-01-01",
		ToDate:   "2024-01-31",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/bills/0/settlement", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settlement := decode[api.SettlementDTO](t, resp)
	assert.Equal(t, "100.00", settlement.TotalCollected)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/bills/7/settlement", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// INDEX DELETES
// =============================================================================

func TestDeleteBill_OutOfRange_NotFound(t *testing.T) {
	server, _ := newTestServer(t)
	setupHousehold(t, server.URL)

	resp := doJSON(t, http.MethodDelete, server.URL+"/api/bills/0", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteTenant_PersistsRoster(t *testing.T) {
	server, store := newTestServer(t)
	setupHousehold(t, server.URL)

	resp := doJSON(t, http.MethodDelete, server.URL+"/api/tenants/0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deleted := decode[api.TenantDTO](t, resp)
	assert.Equal(t, "alice", deleted.Name)

	persisted, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, persisted.Tenants, 1)
	assert.Equal(t, "bob", persisted.Tenants[0].Name)
}

// =============================================================================
// READ-ONLY GUARANTEES
// =============================================================================

func TestListEndpoints_DoNotPersist(t *testing.T) {
	// GIVEN: A store seeded out-of-band with one tenant
	// WHEN: Hitting the list endpoints
	// THEN: The store contents are untouched (listing must not mutate)

	store := memory.New()
	prop, err := household.NewProperty("Flat 4b", 2, map[string]string{"gas": "gasco"})
	require.NoError(t, err)
	book := household.NewBook(prop)
	alice, err := household.NewTenant("alice", split.NewDate(2023, time.June, 1))
	require.NoError(t, err)
	book.AddTenant(alice)
	require.NoError(t, store.Save(context.Background(), book))

	handler := api.NewHandler(store).WithClock(func() split.Date { return testToday })
	require.NoError(t, handler.LoadBook(context.Background()))
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)

	for _, path := range []string{"/api/property", "/api/tenants", "/api/bills"} {
		resp := doJSON(t, http.MethodGet, server.URL+path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	reloaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, reloaded.Tenants, 1)
	assert.Equal(t, alice.ID, reloaded.Tenants[0].ID)
}

func TestGetProperty_Unconfigured_NotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/property", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
