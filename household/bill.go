package household

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evanjt/billcalc/split"
)

// =============================================================================
// BILL - An immutable charge over a billing period
// =============================================================================

// Bill is a single utility charge. Once constructed it is never edited:
// corrections are made by deleting the bill and re-adding it.
//
// Headcount is a snapshot of the property's tenant count at the moment
// the bill entered the system. The settlement engine divides by this
// snapshot, not by however many tenants happen to overlap the period.
type Bill struct {
	ID        string
	Category  string
	Amount    decimal.Decimal
	Period    split.Interval
	Supplier  string
	Headcount int
	PerDay    decimal.Decimal
}

// NewBill constructs a bill, resolving the supplier from the property
// configuration. Construction fails when the category is not configured,
// the amount is not positive, or the billing period has no days.
func NewBill(category string, amount decimal.Decimal, from, to split.Date, prop *Property) (*Bill, error) {
	supplier, err := prop.ResolveSupplier(category)
	if err != nil {
		return nil, err
	}

	period, err := split.NewInterval(from, to)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, &split.InvalidAmountError{Amount: amount}
	}

	return &Bill{
		ID:        uuid.NewString(),
		Category:  strings.ToLower(category),
		Amount:    amount,
		Period:    period,
		Supplier:  supplier,
		Headcount: prop.TenantCount,
		PerDay:    amount.Div(decimal.NewFromInt(int64(period.Days()))),
	}, nil
}

// RestoreBill reconstructs a persisted bill. The supplier was resolved
// when the bill was first created, so the category is not re-validated
// against the current configuration; the period and amount still are.
func RestoreBill(id, category string, amount decimal.Decimal, from, to split.Date, supplier string, headcount int) (*Bill, error) {
	period, err := split.NewInterval(from, to)
	if err != nil {
		return nil, fmt.Errorf("bill %s: %w", id, err)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("bill %s: %w", id, &split.InvalidAmountError{Amount: amount})
	}
	if id == "" {
		id = uuid.NewString()
	}

	return &Bill{
		ID:        id,
		Category:  strings.ToLower(category),
		Amount:    amount,
		Period:    period,
		Supplier:  supplier,
		Headcount: headcount,
		PerDay:    amount.Div(decimal.NewFromInt(int64(period.Days()))),
	}, nil
}

// TotalDays returns the day count of the billing period.
func (b *Bill) TotalDays() int {
	return b.Period.Days()
}

// Equal reports whether two bills are duplicates: same category, amount,
// and billing period endpoints. Used to reject re-adding the same bill.
func (b *Bill) Equal(other *Bill) bool {
	return b.Category == other.Category &&
		b.Amount.Equal(other.Amount) &&
		b.Period.Start.Equal(other.Period.Start) &&
		b.Period.End.Equal(other.Period.End)
}

// Terms converts the bill into the settlement engine's input type.
func (b *Bill) Terms() split.ChargeTerms {
	return split.ChargeTerms{
		Period:    b.Period,
		Amount:    b.Amount,
		Headcount: b.Headcount,
	}
}

// Summary renders the one-line bill listing entry.
func (b *Bill) Summary() string {
	return fmt.Sprintf("%s -> %s (%d days) $%s %s (%s)",
		b.Period.Start, b.Period.End, b.TotalDays(), b.Amount, b.Category, b.Supplier)
}
