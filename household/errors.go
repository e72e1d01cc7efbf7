/*
errors.go - Centralized error types for the household domain

PURPOSE:
  All domain error types in one place. The split package owns the
  engine-level errors (interval, amount, headcount); this file owns
  everything about properties, tenants, bills, and the book.

ERROR CATEGORIES:
  1. Configuration errors - Unknown category, invalid property
  2. Duplicate bill - Intentional idempotence guard, non-fatal
  3. Validation errors - Future bill, invalid residency
  4. Lookup errors - Out-of-range index

USAGE:
  if errors.Is(err, household.ErrDuplicateBill) {
      // notify the user, leave state untouched
  }
*/
package household

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanjt/billcalc/split"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownCategory is returned when a bill names a category the
	// property has no provider for. The caller must either reject the
	// bill or add the category to the configuration first.
	ErrUnknownCategory = errors.New("unknown bill category")

	// ErrDuplicateBill is returned when adding a bill that matches an
	// existing one on category, amount, and period. The add is a no-op.
	ErrDuplicateBill = errors.New("bill already exists")

	// ErrIndexOutOfRange is returned for delete/settle by an index that
	// does not name a stored record.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrBillEndsInFuture is returned when a new bill's period extends
	// past today. A bill cannot be settled for days that have not
	// happened yet.
	ErrBillEndsInFuture = errors.New("bill end date is later than today")

	// ErrInvalidProperty is returned when a property configuration is
	// unusable (non-positive tenant count).
	ErrInvalidProperty = errors.New("invalid property configuration")

	// ErrInvalidResidency is returned when a residency's entry date is
	// after its departure date.
	ErrInvalidResidency = errors.New("invalid residency: entered after left")

	// ErrAlreadyDeparted is returned when departing a tenant twice.
	ErrAlreadyDeparted = errors.New("tenant already departed")

	// ErrNoProperty is returned for operations that need a property
	// configuration before one has been set.
	ErrNoProperty = errors.New("no property configured")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownCategoryError reports the offending category and what the
// property actually has configured.
type UnknownCategoryError struct {
	Category string
	Known    []string
}

func (e *UnknownCategoryError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("no provider set for category %q", e.Category)
	}
	return fmt.Sprintf("no provider set for category %q (configured: %s)",
		e.Category, strings.Join(e.Known, ", "))
}

func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }

// InvalidPropertyError reports an unusable property configuration.
type InvalidPropertyError struct {
	Name        string
	TenantCount int
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("property %q: tenant count must be positive, got %d", e.Name, e.TenantCount)
}

func (e *InvalidPropertyError) Unwrap() error { return ErrInvalidProperty }

// InvalidResidencyError reports a residency whose dates are reversed.
type InvalidResidencyError struct {
	Name    string
	Entered split.Date
	Left    split.Date
}

func (e *InvalidResidencyError) Error() string {
	return fmt.Sprintf("tenant %q: entered %s after left %s", e.Name, e.Entered, e.Left)
}

func (e *InvalidResidencyError) Unwrap() error { return ErrInvalidResidency }

// AlreadyDepartedError reports a second departure attempt.
type AlreadyDepartedError struct {
	Name string
	Left split.Date
}

func (e *AlreadyDepartedError) Error() string {
	return fmt.Sprintf("tenant %q already departed on %s", e.Name, e.Left)
}

func (e *AlreadyDepartedError) Unwrap() error { return ErrAlreadyDeparted }

// IndexError reports which list was addressed out of range.
type IndexError struct {
	Kind  string // "bill" or "tenant"
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range (have %d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrDuplicateBill) ||
		errors.Is(err, ErrInvalidProperty) ||
		errors.Is(err, ErrBillEndsInFuture) ||
		errors.Is(err, ErrInvalidResidency) ||
		errors.Is(err, ErrAlreadyDeparted) ||
		errors.Is(err, ErrNoProperty) ||
		split.IsClientError(err)
}

// IsNotFound returns true if the error names a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}
