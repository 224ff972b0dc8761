package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weeklypay/ledger-engine/internal/domain"
)

func TestWeeklyAmount(t *testing.T) {
	tests := []struct {
		name     string
		total    decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "even division",
			total:    decimal.NewFromInt(1000),
			expected: decimal.NewFromInt(100),
		},
		{
			name:     "rounds up",
			total:    decimal.NewFromInt(1005),
			expected: decimal.NewFromInt(101),
		},
		{
			name:     "small principal",
			total:    decimal.NewFromInt(9),
			expected: decimal.NewFromInt(1),
		},
		{
			name:     "fractional principal rounds up",
			total:    decimal.NewFromFloat(999.5),
			expected: decimal.NewFromInt(100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WeeklyAmount(tt.total)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestGenerate(t *testing.T) {
	// 2024-01-01 is a Monday
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	weekly := decimal.NewFromInt(100)

	installments := Generate(disbursement, weekly, now)

	require.Len(t, installments, 10)

	for i, inst := range installments {
		assert.Equal(t, i+1, inst.WeekNumber)
		assert.True(t, inst.Amount.Equal(weekly))
		assert.Equal(t, domain.InstallmentStatusDue, inst.Status)
		assert.Nil(t, inst.PaidDate)

		expectedDue := disbursement.AddDate(0, 0, 7*(i+1))
		assert.True(t, inst.DueDate.Equal(expectedDue),
			"week %d: expected due %v, got %v", i+1, expectedDue, inst.DueDate)
	}

	// disbursement week carries no installment
	assert.True(t, installments[0].DueDate.Equal(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
	assert.True(t, installments[9].DueDate.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
}

func TestGenerateInitialStatus(t *testing.T) {
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		expected []string // status per week 1..10
	}{
		{
			name: "generation on disbursement day leaves everything due",
			now:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: []string{
				"due", "due", "due", "due", "due", "due", "due", "due", "due", "due",
			},
		},
		{
			name: "past due dates start missed, same-day stays due",
			now:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), // week 2 due today
			expected: []string{
				"missed", "due", "due", "due", "due", "due", "due", "due", "due", "due",
			},
		},
		{
			name: "backdated disbursement marks every elapsed week missed",
			now:  time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC),
			expected: []string{
				"missed", "missed", "missed", "missed", "missed", "due", "due", "due", "due", "due",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installments := Generate(disbursement, decimal.NewFromInt(100), tt.now)
			require.Len(t, installments, 10)
			for i, inst := range installments {
				assert.Equal(t, tt.expected[i], inst.Status, "week %d", i+1)
			}
		})
	}
}

func TestGenerateFreshIdentity(t *testing.T) {
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := disbursement

	first := Generate(disbursement, decimal.NewFromInt(100), now)
	second := Generate(disbursement, decimal.NewFromInt(100), now)

	seen := make(map[string]bool)
	for _, inst := range append(first, second...) {
		assert.False(t, seen[inst.ID.String()], "installment ids must be unique across calls")
		seen[inst.ID.String()] = true
	}
}

func TestRoundingDriftBounded(t *testing.T) {
	// sum of installment amounts may exceed the principal only through
	// per-week ceiling, never by more than one unit per week
	for _, total := range []int64{1, 9, 10, 995, 1001, 12345} {
		principal := decimal.NewFromInt(total)
		weekly := WeeklyAmount(principal)
		sum := weekly.Mul(decimal.NewFromInt(10))

		assert.True(t, sum.GreaterThanOrEqual(principal), "total %d", total)
		assert.True(t, sum.Sub(principal).LessThanOrEqual(decimal.NewFromInt(10)), "total %d", total)
	}
}
