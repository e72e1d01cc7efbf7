/*
handlers.go - HTTP API handlers for the bill-splitting service

PURPOSE:
  Exposes the household book over REST. Handles HTTP request/response
  and JSON serialization, then delegates to the domain.

ENDPOINTS:
  Property:
    GET    /api/property                   Current configuration
    PUT    /api/property                   Replace configuration wholesale

  Tenants:
    GET    /api/tenants                    Roster
    POST   /api/tenants                    Register tenant
    DELETE /api/tenants/{index}            Remove by list index

  Bills:
    GET    /api/bills                      Bill list
    POST   /api/bills                      Add bill (returns its settlement)
    DELETE /api/bills/{index}              Remove by list index
    GET    /api/bills/{index}/settlement   Recalculate

ARCHITECTURE:
  Handler holds the store and the in-memory book. Read handlers serve
  from memory and never persist (listing must not mutate state).
  Mutating handlers apply the change, persist through the store's
  backup protocol, and roll the in-memory book back by reloading when
  persistence fails.

ERROR HANDLING:
  - 400: validation errors (unknown category, bad dates, future bill)
  - 404: index out of range, no property configured
  - 409: duplicate bill
  - 500: persistence failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/evanjt/billcalc/household"
	"github.com/evanjt/billcalc/split"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	store household.Store
	clock func() split.Date

	mu   sync.Mutex
	book *household.Book
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store household.Store) *Handler {
	return &Handler{
		store: store,
		clock: split.Today,
		book:  household.NewBook(nil),
	}
}

// WithClock overrides the handler's notion of "today". For tests.
func (h *Handler) WithClock(clock func() split.Date) *Handler {
	h.clock = clock
	return h
}

// LoadBook reads the persisted book into memory. Call once at startup.
func (h *Handler) LoadBook(ctx context.Context) error {
	book, err := h.store.Load(ctx)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.book = book
	h.mu.Unlock()
	return nil
}

// persist writes the in-memory book through the store's backup
// protocol. When the write fails the in-memory book is reloaded so it
// matches what is actually on disk.
func (h *Handler) persist(ctx context.Context) error {
	if err := household.SaveWithBackup(ctx, h.store, h.book); err != nil {
		if book, loadErr := h.store.Load(ctx); loadErr == nil {
			h.book = book
		}
		return err
	}
	return nil
}

// =============================================================================
// PROPERTY HANDLERS
// =============================================================================

// GetProperty returns the current configuration.
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.book.Property == nil {
		writeError(w, http.StatusNotFound, "No property configured", household.ErrNoProperty)
		return
	}
	writeJSON(w, http.StatusOK, propertyDTO(h.book.Property))
}

// ReplaceProperty overwrites the configuration wholesale.
func (h *Handler) ReplaceProperty(w http.ResponseWriter, r *http.Request) {
	var req ReplacePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	prop, err := household.NewProperty(req.Name, req.TenantCount, req.BillTypes)
	if err != nil {
		writeDomainError(w, "Invalid property configuration", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.book.ReplaceProperty(prop)
	if err := h.persist(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save property", err)
		return
	}
	writeJSON(w, http.StatusOK, propertyDTO(prop))
}

// =============================================================================
// TENANT HANDLERS
// =============================================================================

// ListTenants returns the roster. Read-only: no save side effect.
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dtos := make([]TenantDTO, len(h.book.Tenants))
	for i, t := range h.book.Tenants {
		dtos[i] = tenantDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTenant registers a tenant.
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entered, err := split.ParseDate(req.EnteredHouse)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entered_house", err)
		return
	}

	var tenant *household.Tenant
	if req.LeftHouse == "" {
		tenant, err = household.NewTenant(req.Name, entered)
	} else {
		var left split.Date
		left, err = split.ParseDate(req.LeftHouse)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid left_house", err)
			return
		}
		tenant, err = household.NewDepartedTenant(req.Name, entered, left)
	}
	if err != nil {
		writeDomainError(w, "Invalid tenant", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.book.AddTenant(tenant)
	if err := h.persist(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save tenant", err)
		return
	}
	writeJSON(w, http.StatusCreated, tenantDTO(tenant))
}

// DeleteTenant removes a tenant by list index.
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid index", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	tenant, err := h.book.DeleteTenant(index)
	if err != nil {
		writeDomainError(w, "Failed to delete tenant", err)
		return
	}
	if err := h.persist(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save roster", err)
		return
	}
	writeJSON(w, http.StatusOK, tenantDTO(tenant))
}

// =============================================================================
// BILL HANDLERS
// =============================================================================

// ListBills returns the bill list. Read-only: no save side effect.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dtos := make([]BillDTO, len(h.book.Bills))
	for i, b := range h.book.Bills {
		dtos[i] = billDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBill validates and stores a bill, then returns its settlement.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := split.ParseMoney(req.Amount.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	from, err := split.ParseDate(req.FromDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from_date", err)
		return
	}
	to, err := split.ParseDate(req.ToDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to_date", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.book.Property == nil {
		writeError(w, http.StatusNotFound, "No property configured", household.ErrNoProperty)
		return
	}

	bill, err := household.NewBill(req.Category, amount, from, to, h.book.Property)
	if err != nil {
		writeDomainError(w, "Invalid bill", err)
		return
	}
	if err := h.book.AddBill(bill, h.clock()); err != nil {
		writeDomainError(w, "Failed to add bill", err)
		return
	}

	settlement, err := h.book.Settle(bill, h.clock())
	if err != nil {
		writeDomainError(w, "Failed to settle bill", err)
		return
	}

	if err := h.persist(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save bill", err)
		return
	}
	writeJSON(w, http.StatusCreated, settlementDTO(bill, settlement))
}

// DeleteBill removes a bill by list index.
func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid index", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	bill, err := h.book.DeleteBill(index)
	if err != nil {
		writeDomainError(w, "Failed to delete bill", err)
		return
	}
	if err := h.persist(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save bills", err)
		return
	}
	writeJSON(w, http.StatusOK, billDTO(bill))
}

// GetSettlement recalculates the settlement for a stored bill.
// Settlement output is derived data, so this never writes anything.
func (h *Handler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid index", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	bill, settlement, err := h.book.SettleIndex(index, h.clock())
	if err != nil {
		writeDomainError(w, "Failed to settle bill", err)
		return
	}
	writeJSON(w, http.StatusOK, settlementDTO(bill, settlement))
}

// =============================================================================
// HELPERS
// =============================================================================

func pathIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, household.ErrDuplicateBill):
		writeError(w, http.StatusConflict, message, err)
	case household.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case household.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
