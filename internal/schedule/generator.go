// Package schedule derives the immutable weekly repayment schedule from a
// loan's terms. Generation happens exactly once per borrower; schedules are
// never re-derived afterwards.
package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/weeklypay/ledger-engine/internal/domain"
	"github.com/weeklypay/ledger-engine/pkg/dateutil"
)

var weeksPerLoan = decimal.NewFromInt(domain.InstallmentWeeks)

// WeeklyAmount derives the per-installment amount: ceil(totalAmount / 10).
// Ten times the result may exceed the principal slightly; that rounding drift
// is accepted.
func WeeklyAmount(totalAmount decimal.Decimal) decimal.Decimal {
	return totalAmount.Div(weeksPerLoan).Ceil()
}

// Generate produces the ten weekly installments for a loan disbursed on
// disbursementDate. The first installment falls due 7 days after disbursement
// and each following one 7 days later. Initial status compares the due date
// against now date-only: past dates start missed, today and future start due.
//
// Given identical inputs and the same now, the output is deterministic except
// for installment identity, which is fresh on every call.
func Generate(disbursementDate time.Time, weeklyAmount decimal.Decimal, now time.Time) []*domain.Installment {
	today := dateutil.DateOnly(now)

	installments := make([]*domain.Installment, 0, domain.InstallmentWeeks)
	for week := 1; week <= domain.InstallmentWeeks; week++ {
		dueDate := dateutil.DueDateForWeek(disbursementDate, week)

		status := domain.InstallmentStatusDue
		if dueDate.Before(today) {
			status = domain.InstallmentStatusMissed
		}

		installments = append(installments, &domain.Installment{
			ID:         uuid.New(),
			WeekNumber: week,
			DueDate:    dueDate,
			Amount:     weeklyAmount,
			Status:     status,
		})
	}

	return installments
}
