package household

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/evanjt/billcalc/split"
)

// =============================================================================
// TENANT - A residency interval, open-ended while still resident
// =============================================================================

// Tenant records one person's occupancy of the property.
//
// While StillAtAddress is true the residency is open-ended: the
// effective end date is whatever "today" is at calculation time.
// LeftHouse is still populated (with the creation date) so the record
// round-trips through persistence unchanged; it only becomes meaningful
// once Depart fixes it.
type Tenant struct {
	ID             string
	Name           string
	EnteredHouse   split.Date
	LeftHouse      split.Date
	StillAtAddress bool
}

// NewTenant registers a tenant who currently lives at the property.
func NewTenant(name string, entered split.Date) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name must not be empty")
	}
	return &Tenant{
		ID:             uuid.NewString(),
		Name:           name,
		EnteredHouse:   entered,
		LeftHouse:      split.Today(),
		StillAtAddress: true,
	}, nil
}

// NewDepartedTenant registers a tenant whose residency has already
// ended. The entry date must not be after the departure date.
func NewDepartedTenant(name string, entered, left split.Date) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name must not be empty")
	}
	if entered.After(left) {
		return nil, &InvalidResidencyError{Name: name, Entered: entered, Left: left}
	}
	return &Tenant{
		ID:             uuid.NewString(),
		Name:           name,
		EnteredHouse:   entered,
		LeftHouse:      left,
		StillAtAddress: false,
	}, nil
}

// Depart transitions the tenant from resident to departed. This is the
// only mutation a tenant record ever undergoes, and it happens at most
// once.
func (t *Tenant) Depart(left split.Date) error {
	if !t.StillAtAddress {
		return &AlreadyDepartedError{Name: t.Name, Left: t.LeftHouse}
	}
	if t.EnteredHouse.After(left) {
		return &InvalidResidencyError{Name: t.Name, Entered: t.EnteredHouse, Left: left}
	}
	t.LeftHouse = left
	t.StillAtAddress = false
	return nil
}

// EffectiveStart returns the stored entry date.
func (t *Tenant) EffectiveStart() split.Date {
	return t.EnteredHouse
}

// EffectiveEnd returns today while the tenant is still resident, else
// the stored departure date.
func (t *Tenant) EffectiveEnd(today split.Date) split.Date {
	if t.StillAtAddress {
		return today
	}
	return t.LeftHouse
}

// Residency returns the tenant's occupancy interval as of today.
func (t *Tenant) Residency(today split.Date) split.Interval {
	return split.Interval{Start: t.EffectiveStart(), End: t.EffectiveEnd(today)}
}

// Occupant converts the tenant into the settlement engine's input type.
func (t *Tenant) Occupant(today split.Date) split.Occupant {
	return split.Occupant{ID: t.ID, Name: t.Name, Residency: t.Residency(today)}
}

// Summary renders the one-line roster entry.
func (t *Tenant) Summary(today split.Date) string {
	residency := t.Residency(today)
	return fmt.Sprintf("%-10s\t%s -> %s (%d days)", t.Name, residency.Start, residency.End, residency.Days())
}
