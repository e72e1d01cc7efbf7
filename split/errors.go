/*
errors.go - Centralized error types for the splitting engine

PURPOSE:
  All engine error types in one place. Domain packages wrap these with
  additional context where useful.

ERROR CATEGORIES:
  1. Interval errors - Malformed date ranges
  2. Charge errors - Invalid settlement inputs (amount, headcount)

USAGE:
  if errors.Is(err, split.ErrInvalidInterval) {
      // reject before construction
  }
*/
package split

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInterval is returned when a date range has no days
	// (end on or before start).
	ErrInvalidInterval = errors.New("invalid interval: end must be after start")

	// ErrInvalidAmount is returned when a charge amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount: must be positive")

	// ErrInvalidHeadcount is returned when the equal-split divisor is
	// zero or negative.
	ErrInvalidHeadcount = errors.New("invalid headcount: must be positive")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidIntervalError reports the offending endpoints.
type InvalidIntervalError struct {
	Start Date
	End   Date
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval: %s is not after %s", e.End, e.Start)
}

func (e *InvalidIntervalError) Unwrap() error { return ErrInvalidInterval }

// InvalidAmountError reports the offending amount.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s: must be positive", e.Amount)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidHeadcount)
}
