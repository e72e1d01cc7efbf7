package household

import (
	"github.com/evanjt/billcalc/split"
)

// =============================================================================
// BOOK - The in-memory aggregate the stores load and save
// =============================================================================

// Book is the full household state: one property configuration, the
// tenant roster, and the bill list. Stores load the whole book at the
// start of a run and rewrite it at the end; the book itself has no
// persistence side effects.
//
// Tenants and bills keep their insertion order, which is what the
// index-based delete operations address.
type Book struct {
	Property *Property
	Tenants  []*Tenant
	Bills    []*Bill
}

// NewBook creates an empty book for a property. A nil property is
// allowed (start-from-nothing); bills cannot be added until one is set.
func NewBook(prop *Property) *Book {
	return &Book{Property: prop}
}

// ReplaceProperty overwrites the property configuration wholesale.
// There is no incremental merge: the caller supplies the complete new
// configuration.
func (bk *Book) ReplaceProperty(prop *Property) {
	bk.Property = prop
}

// AddTenant appends a tenant to the roster.
func (bk *Book) AddTenant(t *Tenant) {
	bk.Tenants = append(bk.Tenants, t)
}

// AddBill appends a bill unless an equal one is already stored.
// Re-adding a duplicate is a no-op that returns ErrDuplicateBill so the
// caller can notify the user; prior state is unchanged either way.
//
// Bills whose period extends past today are rejected: days that have
// not happened yet cannot be settled.
func (bk *Book) AddBill(b *Bill, today split.Date) error {
	if b.Period.End.After(today) {
		return ErrBillEndsInFuture
	}
	for _, existing := range bk.Bills {
		if existing.Equal(b) {
			return ErrDuplicateBill
		}
	}
	bk.Bills = append(bk.Bills, b)
	return nil
}

// Bill returns the bill at the given zero-based index.
func (bk *Book) Bill(i int) (*Bill, error) {
	if i < 0 || i >= len(bk.Bills) {
		return nil, &IndexError{Kind: "bill", Index: i, Len: len(bk.Bills)}
	}
	return bk.Bills[i], nil
}

// Tenant returns the tenant at the given zero-based index.
func (bk *Book) Tenant(i int) (*Tenant, error) {
	if i < 0 || i >= len(bk.Tenants) {
		return nil, &IndexError{Kind: "tenant", Index: i, Len: len(bk.Tenants)}
	}
	return bk.Tenants[i], nil
}

// DeleteBill removes and returns the bill at the given index.
func (bk *Book) DeleteBill(i int) (*Bill, error) {
	b, err := bk.Bill(i)
	if err != nil {
		return nil, err
	}
	bk.Bills = append(bk.Bills[:i], bk.Bills[i+1:]...)
	return b, nil
}

// DeleteTenant removes and returns the tenant at the given index.
func (bk *Book) DeleteTenant(i int) (*Tenant, error) {
	t, err := bk.Tenant(i)
	if err != nil {
		return nil, err
	}
	bk.Tenants = append(bk.Tenants[:i], bk.Tenants[i+1:]...)
	return t, nil
}

// Settle runs the settlement engine for one bill against the current
// roster. The result is derived data and is never stored, so settling
// the same bill again (recalculate) is always safe.
func (bk *Book) Settle(b *Bill, today split.Date) (*split.Settlement, error) {
	occupants := make([]split.Occupant, len(bk.Tenants))
	for i, t := range bk.Tenants {
		occupants[i] = t.Occupant(today)
	}
	return split.Settle(b.Terms(), occupants)
}

// SettleIndex runs settlement for the bill at the given index.
func (bk *Book) SettleIndex(i int, today split.Date) (*Bill, *split.Settlement, error) {
	b, err := bk.Bill(i)
	if err != nil {
		return nil, nil, err
	}
	settlement, err := bk.Settle(b, today)
	if err != nil {
		return nil, nil, err
	}
	return b, settlement, nil
}
