package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weeklypay/ledger-engine/internal/domain"
	customError "github.com/weeklypay/ledger-engine/pkg/errors"
)

// fixedClock returns a settable now function for deterministic paid dates.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newTestLedger(now time.Time) (*Ledger, *fixedClock) {
	clock := &fixedClock{now: now}
	return New(clock.Now), clock
}

func TestAddBorrower(t *testing.T) {
	// 2024-01-01 is a Monday
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l, _ := newTestLedger(disbursement)

	b := l.AddBorrower("Ravi Kumar", "9876543210", decimal.NewFromInt(1000), disbursement)

	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, "Ravi Kumar", b.Name)
	assert.Equal(t, "Monday", b.DayOfAmountTaken)
	assert.True(t, b.WeeklyAmount.Equal(decimal.NewFromInt(100)))
	require.Len(t, b.Installments, 10)

	for i, inst := range b.Installments {
		assert.Equal(t, i+1, inst.WeekNumber)
		assert.True(t, inst.Amount.Equal(decimal.NewFromInt(100)))
	}
	assert.True(t, b.Installments[0].DueDate.Equal(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
	assert.True(t, b.Installments[9].DueDate.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
}

func TestAddBorrowerAllowsDuplicatePhones(t *testing.T) {
	l, _ := newTestLedger(time.Now())

	first := l.AddBorrower("Asha", "999", decimal.NewFromInt(500), time.Now())
	second := l.AddBorrower("Asha", "999", decimal.NewFromInt(700), time.Now())

	assert.NotEqual(t, first.ID, second.ID)

	loans := l.FindByPhone("999")
	require.Len(t, loans, 2)
	// ledger order == insertion order
	assert.Equal(t, first.ID, loans[0].ID)
	assert.Equal(t, second.ID, loans[1].ID)
}

func TestSetInstallmentStatus(t *testing.T) {
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		prepare       func(l *Ledger, borrowerID, instID uuid.UUID)
		target        string
		expectedError string
		validate      func(t *testing.T, inst *domain.Installment, clock *fixedClock)
	}{
		{
			name:   "due to paid sets paid date",
			target: domain.InstallmentStatusPaid,
			validate: func(t *testing.T, inst *domain.Installment, clock *fixedClock) {
				assert.Equal(t, domain.InstallmentStatusPaid, inst.Status)
				require.NotNil(t, inst.PaidDate)
				assert.True(t, inst.PaidDate.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
			},
		},
		{
			name: "paid to due clears paid date",
			prepare: func(l *Ledger, borrowerID, instID uuid.UUID) {
				_, err := l.SetInstallmentStatus(borrowerID, instID, domain.InstallmentStatusPaid)
				require.NoError(t, err)
			},
			target: domain.InstallmentStatusDue,
			validate: func(t *testing.T, inst *domain.Installment, clock *fixedClock) {
				assert.Equal(t, domain.InstallmentStatusDue, inst.Status)
				assert.Nil(t, inst.PaidDate)
			},
		},
		{
			name:          "due to due is an invalid transition",
			target:        domain.InstallmentStatusDue,
			expectedError: customError.ErrCodeInvalidTransition,
		},
		{
			name:          "missed cannot be targeted directly",
			target:        domain.InstallmentStatusMissed,
			expectedError: customError.ErrCodeInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, clock := newTestLedger(disbursement)
			b := l.AddBorrower("Ravi", "123", decimal.NewFromInt(1000), disbursement)
			instID := b.Installments[0].ID

			clock.now = time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)

			if tt.prepare != nil {
				tt.prepare(l, b.ID, instID)
			}

			inst, err := l.SetInstallmentStatus(b.ID, instID, tt.target)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, customError.CodeOf(err))
				return
			}
			require.NoError(t, err)
			tt.validate(t, inst, clock)
		})
	}
}

func TestSetInstallmentStatusPaidIsIdempotent(t *testing.T) {
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l, clock := newTestLedger(disbursement)
	b := l.AddBorrower("Ravi", "123", decimal.NewFromInt(1000), disbursement)
	instID := b.Installments[0].ID

	clock.now = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	first, err := l.SetInstallmentStatus(b.ID, instID, domain.InstallmentStatusPaid)
	require.NoError(t, err)

	// the second call must not touch paidDate even though the clock moved
	clock.now = time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)
	second, err := l.SetInstallmentStatus(b.ID, instID, domain.InstallmentStatusPaid)
	require.NoError(t, err)

	assert.Equal(t, domain.InstallmentStatusPaid, second.Status)
	require.NotNil(t, second.PaidDate)
	assert.True(t, second.PaidDate.Equal(*first.PaidDate))
}

func TestSetInstallmentStatusRoundTrip(t *testing.T) {
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l, clock := newTestLedger(disbursement)
	b := l.AddBorrower("Ravi", "123", decimal.NewFromInt(1000), disbursement)
	instID := b.Installments[0].ID

	clock.now = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	_, err := l.SetInstallmentStatus(b.ID, instID, domain.InstallmentStatusPaid)
	require.NoError(t, err)

	_, err = l.SetInstallmentStatus(b.ID, instID, domain.InstallmentStatusDue)
	require.NoError(t, err)

	clock.now = time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	inst, err := l.SetInstallmentStatus(b.ID, instID, domain.InstallmentStatusPaid)
	require.NoError(t, err)

	// final paidDate reflects the second paid transition, not the first
	require.NotNil(t, inst.PaidDate)
	assert.True(t, inst.PaidDate.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)))
}

func TestSetInstallmentStatusNotFound(t *testing.T) {
	l, _ := newTestLedger(time.Now())
	b := l.AddBorrower("Ravi", "123", decimal.NewFromInt(1000), time.Now())

	_, err := l.SetInstallmentStatus(uuid.New(), b.Installments[0].ID, domain.InstallmentStatusPaid)
	assert.Equal(t, customError.ErrCodeBorrowerNotFound, customError.CodeOf(err))

	_, err = l.SetInstallmentStatus(b.ID, uuid.New(), domain.InstallmentStatusPaid)
	assert.Equal(t, customError.ErrCodeInstallmentNotFound, customError.CodeOf(err))
}

func TestDeleteBorrowerCascades(t *testing.T) {
	l, _ := newTestLedger(time.Now())
	b := l.AddBorrower("Ravi", "123", decimal.NewFromInt(1000), time.Now())
	l.AddBorrower("Meena", "456", decimal.NewFromInt(500), time.Now())

	require.NoError(t, l.DeleteBorrower(b.ID))

	snapshot := l.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Meena", snapshot[0].Name)

	err := l.DeleteBorrower(b.ID)
	assert.Equal(t, customError.ErrCodeBorrowerNotFound, customError.CodeOf(err))
}

func TestDeleteInstallmentLeavesGap(t *testing.T) {
	l, _ := newTestLedger(time.Now())
	b := l.AddBorrower("Ravi", "123", decimal.NewFromInt(1000), time.Now())

	require.NoError(t, l.DeleteInstallment(b.ID, b.Installments[4].ID))

	snapshot := l.Snapshot()
	require.Len(t, snapshot[0].Installments, 9)

	weeks := make([]int, 0, 9)
	for _, inst := range snapshot[0].Installments {
		weeks = append(weeks, inst.WeekNumber)
	}
	// week 5 is gone, remaining week numbers are untouched
	assert.Equal(t, []int{1, 2, 3, 4, 6, 7, 8, 9, 10}, weeks)
}

func TestSearch(t *testing.T) {
	l, _ := newTestLedger(time.Now())
	l.AddBorrower("Ravi Kumar", "9876543210", decimal.NewFromInt(1000), time.Now())
	l.AddBorrower("Meena Devi", "8765432109", decimal.NewFromInt(500), time.Now())

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "case-insensitive name match", query: "ravi", expected: []string{"Ravi Kumar"}},
		{name: "partial name match", query: "EEN", expected: []string{"Meena Devi"}},
		{name: "phone substring match", query: "8765432", expected: []string{"Ravi Kumar", "Meena Devi"}},
		{name: "blank query returns everything", query: "   ", expected: []string{"Ravi Kumar", "Meena Devi"}},
		{name: "no match yields empty result", query: "zzz", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Search(tt.query)
			names := make([]string, 0, len(got))
			for _, b := range got {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestFilterBorrowers(t *testing.T) {
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l, clock := newTestLedger(disbursement)

	paidUp := l.AddBorrower("Paid Up", "111", decimal.NewFromInt(100), disbursement)
	l.AddBorrower("All Due", "222", decimal.NewFromInt(100), disbursement)

	clock.now = time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	_, err := l.SetInstallmentStatus(paidUp.ID, paidUp.Installments[0].ID, domain.InstallmentStatusPaid)
	require.NoError(t, err)

	// created after five weeks have already elapsed: weeks 1..4 start missed
	l.AddBorrower("Late Start", "333", decimal.NewFromInt(100),
		clock.now.AddDate(0, 0, -35))

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{
			name:     "status missed returns only borrowers with at least one missed installment",
			filter:   Filter{Status: domain.InstallmentStatusMissed},
			expected: []string{"Late Start"},
		},
		{
			name:     "status paid is an existence test",
			filter:   Filter{Status: domain.InstallmentStatusPaid},
			expected: []string{"Paid Up"},
		},
		{
			name:     "status all is a no-op criterion",
			filter:   Filter{Status: "all"},
			expected: []string{"Paid Up", "All Due", "Late Start"},
		},
		{
			name:     "criteria combine with AND",
			filter:   Filter{Status: domain.InstallmentStatusDue, Phone: "22"},
			expected: []string{"All Due"},
		},
		{
			name:     "empty filter returns everything",
			filter:   Filter{},
			expected: []string{"Paid Up", "All Due", "Late Start"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.FilterBorrowers(tt.filter)
			names := make([]string, 0, len(got))
			for _, b := range got {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	l, _ := newTestLedger(time.Now())
	l.AddBorrower("Ravi", "123", decimal.NewFromInt(1000), time.Now())

	snapshot := l.Snapshot()
	snapshot[0].Name = "changed"
	snapshot[0].Installments[0].Status = domain.InstallmentStatusPaid

	fresh := l.Snapshot()
	assert.Equal(t, "Ravi", fresh[0].Name)
	assert.NotEqual(t, domain.InstallmentStatusPaid, fresh[0].Installments[0].Status)
}
