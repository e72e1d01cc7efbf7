/*
settle.go - The settlement engine

PURPOSE:
  Computes each occupant's pro-rata share of a single charge. This is
  the heart of the system: everything else is plumbing around this
  calculation.

ALGORITHM:
  For each occupant, independently:
    1. Intersect the occupant's residency interval with the charge
       period. The payer's effective start is the later of the two
       starts; the effective end is the earlier of the two ends.
    2. days = OverlapDays(residency, period). Occupants with zero
       overlap owe nothing and are excluded from the payee list
       entirely - they are not reported with a zero share.
    3. share = round2( days/totalDays * amount/headcount )
  Then:
    totalCollected = sum of shares
    difference     = totalCollected - amount

  The difference is informational only. It is non-zero when rounding
  leaves a residue, or when the configured headcount does not match the
  number of occupants who actually overlapped the period. It is
  reported, never auto-corrected.

STATELESSNESS:
  Settle is a pure function over an immutable snapshot of its inputs.
  It reads no clock, persists nothing, and can be re-run at any time
  with identical results.

SEE ALSO:
  - interval.go: OverlapDays
  - money.go: RoundCurrency
*/
package split

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SETTLEMENT INPUTS
// =============================================================================

// ChargeTerms is the settlement engine's view of a bill: the period it
// covers, the amount charged, and the equal-split divisor.
type ChargeTerms struct {
	Period    Interval
	Amount    decimal.Decimal
	Headcount int
}

// Validate rejects terms that cannot produce a meaningful settlement.
func (ct ChargeTerms) Validate() error {
	if err := ct.Period.Validate(); err != nil {
		return err
	}
	if !ct.Amount.IsPositive() {
		return &InvalidAmountError{Amount: ct.Amount}
	}
	if ct.Headcount <= 0 {
		return ErrInvalidHeadcount
	}
	return nil
}

// Occupant is the settlement engine's view of a tenant: an identity and
// a residency interval, already resolved against "today" by the caller.
type Occupant struct {
	ID        string
	Name      string
	Residency Interval
}

// =============================================================================
// SETTLEMENT OUTPUTS
// =============================================================================

// Payee is one occupant's computed obligation.
type Payee struct {
	ID    string
	Name  string
	Days  int
	Share decimal.Decimal
}

// Settlement is the full result for one charge. It is derived data:
// nothing here is ever persisted.
type Settlement struct {
	Payees         []Payee
	TotalCollected decimal.Decimal
	Difference     decimal.Decimal
}

// =============================================================================
// SETTLEMENT ENGINE
// =============================================================================

// Settle computes each occupant's pro-rata share of the charge.
// Occupants whose residency does not overlap the charge period are
// excluded from the payee list.
func Settle(terms ChargeTerms, occupants []Occupant) (*Settlement, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	totalDays := decimal.NewFromInt(int64(terms.Period.Days()))
	headcount := decimal.NewFromInt(int64(terms.Headcount))
	perHead := terms.Amount.Div(headcount)

	result := &Settlement{TotalCollected: decimal.Zero}
	for _, occ := range occupants {
		days := OverlapDays(occ.Residency, terms.Period)
		if days <= 0 {
			continue
		}

		share := RoundCurrency(
			decimal.NewFromInt(int64(days)).Div(totalDays).Mul(perHead),
		)

		result.Payees = append(result.Payees, Payee{
			ID:    occ.ID,
			Name:  occ.Name,
			Days:  days,
			Share: share,
		})
		result.TotalCollected = result.TotalCollected.Add(share)
	}

	result.Difference = result.TotalCollected.Sub(terms.Amount)
	return result, nil
}
