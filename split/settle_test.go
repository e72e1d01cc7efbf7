package split_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanjt/billcalc/split"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func january2024(t *testing.T) split.Interval {
	return interval(t, date(2024, time.January, 1), date(2024, time.January, 31))
}

func occupant(t *testing.T, name string, start, end split.Date) split.Occupant {
	return split.Occupant{
		ID:        name,
		Name:      name,
		Residency: interval(t, start, end),
	}
}

func assertShare(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, split.MustMoney(want).Equal(got),
		"expected share %s, got %s", want, got)
}

// =============================================================================
// SETTLEMENT SCENARIOS
// =============================================================================

func TestSettle_TwoTenantsFullMonth_EqualSplit(t *testing.T) {
	// GIVEN: $100 electricity bill over Jan 1 - Jan 31, headcount 2,
	//        two occupants resident the whole month
	// WHEN: Settling
	// THEN: Each owes $50.00, difference is $0.00

	terms := split.ChargeTerms{
		Period:    january2024(t),
		Amount:    split.MustMoney("100.00"),
		Headcount: 2,
	}
	occupants := []split.Occupant{
		occupant(t, "alice", date(2023, time.June, 1), date(2024, time.June, 1)),
		occupant(t, "bob", date(2023, time.June, 1), date(2024, time.June, 1)),
	}

	result, err := split.Settle(terms, occupants)
	require.NoError(t, err)

	require.Len(t, result.Payees, 2)
	assertShare(t, "50.00", result.Payees[0].Share)
	assertShare(t, "50.00", result.Payees[1].Share)
	assert.Equal(t, 30, result.Payees[0].Days)
	assertShare(t, "100.00", result.TotalCollected)
	assert.True(t, result.Difference.IsZero(), "difference should be zero, got %s", result.Difference)
}

func TestSettle_PartialResidency_ProRatedShare(t *testing.T) {
	// GIVEN: Same $100 bill, one occupant resident only Jan 16 - Jan 31
	//        (15 of 30 days), the other the full month
	// WHEN: Settling
	// THEN: Partial occupant owes round(15/30 * 100/2) = $25.00, the
	//       full-month occupant $50.00, total $75.00, difference -$25.00
	//       (reported, not corrected)

	terms := split.ChargeTerms{
		Period:    january2024(t),
		Amount:    split.MustMoney("100.00"),
		Headcount: 2,
	}
	occupants := []split.Occupant{
		occupant(t, "alice", date(2023, time.June, 1), date(2024, time.June, 1)),
		occupant(t, "bob", date(2024, time.January, 16), date(2024, time.January, 31)),
	}

	result, err := split.Settle(terms, occupants)
	require.NoError(t, err)

	require.Len(t, result.Payees, 2)
	assertShare(t, "50.00", result.Payees[0].Share)
	assertShare(t, "25.00", result.Payees[1].Share)
	assert.Equal(t, 15, result.Payees[1].Days)
	assertShare(t, "75.00", result.TotalCollected)
	assertShare(t, "-25.00", result.Difference)
}

func TestSettle_NoOverlap_ExcludedFromPayees(t *testing.T) {
	// GIVEN: An occupant who moved out before the billing period began
	// WHEN: Settling
	// THEN: They are absent from the payee list, not listed with a zero share

	terms := split.ChargeTerms{
		Period:    january2024(t),
		Amount:    split.MustMoney("100.00"),
		Headcount: 2,
	}
	occupants := []split.Occupant{
		occupant(t, "alice", date(2023, time.June, 1), date(2024, time.June, 1)),
		occupant(t, "bob", date(2022, time.January, 1), date(2023, time.November, 30)),
	}

	result, err := split.Settle(terms, occupants)
	require.NoError(t, err)

	require.Len(t, result.Payees, 1)
	assert.Equal(t, "alice", result.Payees[0].Name)
}

func TestSettle_SingleTenantFullCoverage_DaysEqualTotalDays(t *testing.T) {
	// GIVEN: Exactly one occupant whose residency fully covers the bill
	// WHEN: Settling
	// THEN: Their days owing equal the bill's total days

	terms := split.ChargeTerms{
		Period:    january2024(t),
		Amount:    split.MustMoney("104.37"),
		Headcount: 1,
	}
	occupants := []split.Occupant{
		occupant(t, "alice", date(2020, time.January, 1), date(2025, time.January, 1)),
	}

	result, err := split.Settle(terms, occupants)
	require.NoError(t, err)

	require.Len(t, result.Payees, 1)
	assert.Equal(t, terms.Period.Days(), result.Payees[0].Days)
	assertShare(t, "104.37", result.Payees[0].Share)
	assert.True(t, result.Difference.IsZero())
}

func TestSettle_RoundingResidue_WithinBound(t *testing.T) {
	// GIVEN: An amount that does not divide evenly across the headcount
	// WHEN: Settling with all occupants resident the full period
	// THEN: Every share has 2 decimal places and the total difference is
	//       within the cumulative rounding bound of 0.01 * headcount

	terms := split.ChargeTerms{
		Period:    january2024(t),
		Amount:    split.MustMoney("100.00"),
		Headcount: 3,
	}
	occupants := []split.Occupant{
		occupant(t, "alice", date(2023, time.June, 1), date(2024, time.June, 1)),
		occupant(t, "bob", date(2023, time.June, 1), date(2024, time.June, 1)),
		occupant(t, "carla", date(2023, time.June, 1), date(2024, time.June, 1)),
	}

	result, err := split.Settle(terms, occupants)
	require.NoError(t, err)

	require.Len(t, result.Payees, 3)
	for _, p := range result.Payees {
		// 100/3 = 33.333..., rounds half-up to 33.33
		assertShare(t, "33.33", p.Share)
		assert.LessOrEqual(t, -p.Share.Exponent(), int32(2),
			"share must carry at most 2 decimal places")
	}

	bound := split.MustMoney("0.01").Mul(decimal.NewFromInt(3))
	assert.True(t, result.Difference.Abs().LessThanOrEqual(bound),
		"difference %s exceeds rounding bound %s", result.Difference, bound)
}

func TestSettle_HeadcountMismatch_DifferenceReportedNotCorrected(t *testing.T) {
	// GIVEN: Headcount of 3 but only 2 occupants overlap the period
	// WHEN: Settling
	// THEN: Shares still divide by 3; the shortfall shows up in the
	//       difference and is not redistributed

	terms := split.ChargeTerms{
		Period:    january2024(t),
		Amount:    split.MustMoney("90.00"),
		Headcount: 3,
	}
	occupants := []split.Occupant{
		occupant(t, "alice", date(2023, time.June, 1), date(2024, time.June, 1)),
		occupant(t, "bob", date(2023, time.June, 1), date(2024, time.June, 1)),
	}

	result, err := split.Settle(terms, occupants)
	require.NoError(t, err)

	require.Len(t, result.Payees, 2)
	assertShare(t, "30.00", result.Payees[0].Share)
	assertShare(t, "30.00", result.Payees[1].Share)
	assertShare(t, "-30.00", result.Difference)
}

// =============================================================================
// INPUT VALIDATION
// =============================================================================

func TestSettle_InvalidTerms_Rejected(t *testing.T) {
	occupants := []split.Occupant{
		occupant(t, "alice", date(2023, time.June, 1), date(2024, time.June, 1)),
	}

	t.Run("zero amount", func(t *testing.T) {
		terms := split.ChargeTerms{
			Period:    january2024(t),
			Amount:    decimal.Zero,
			Headcount: 2,
		}
		_, err := split.Settle(terms, occupants)
		assert.ErrorIs(t, err, split.ErrInvalidAmount)
		assert.True(t, split.IsClientError(err))
	})

	t.Run("zero headcount", func(t *testing.T) {
		terms := split.ChargeTerms{
			Period:    january2024(t),
			Amount:    split.MustMoney("100.00"),
			Headcount: 0,
		}
		_, err := split.Settle(terms, occupants)
		assert.ErrorIs(t, err, split.ErrInvalidHeadcount)
	})

	t.Run("empty period", func(t *testing.T) {
		terms := split.ChargeTerms{
			Period:    split.Interval{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)},
			Amount:    split.MustMoney("100.00"),
			Headcount: 2,
		}
		_, err := split.Settle(terms, occupants)
		assert.ErrorIs(t, err, split.ErrInvalidInterval)
	})
}

func TestSettle_NoOccupants_EmptySettlement(t *testing.T) {
	terms := split.ChargeTerms{
		Period:    january2024(t),
		Amount:    split.MustMoney("100.00"),
		Headcount: 2,
	}

	result, err := split.Settle(terms, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Payees)
	assert.True(t, result.TotalCollected.IsZero())
	assertShare(t, "-100.00", result.Difference)
}
