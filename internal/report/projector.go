// Package report projects a ledger snapshot into period-bounded flat rows for
// external rendering. The projector does no formatting, currency symbols or
// file I/O; it returns plain rows.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/weeklypay/ledger-engine/internal/domain"
	"github.com/weeklypay/ledger-engine/pkg/dateutil"
	customError "github.com/weeklypay/ledger-engine/pkg/errors"
)

// DefaultWindow resolves the report window implied by the granularity when no
// explicit bounds are supplied:
//
//	daily   [start of today, now]
//	weekly  [now - 7 days, now]
//	monthly [first of month, now]
//	yearly  [Jan 1, now]
func DefaultWindow(g domain.Granularity, now time.Time) (start, end time.Time) {
	switch g {
	case domain.GranularityDaily:
		start = dateutil.StartOfDay(now)
	case domain.GranularityWeekly:
		start = now.AddDate(0, 0, -7)
	case domain.GranularityMonthly:
		start = dateutil.StartOfMonth(now)
	case domain.GranularityYearly:
		start = dateutil.StartOfYear(now)
	default:
		start = time.Time{}
	}
	return start, now
}

// Project produces the ordered report rows for the window. Explicit from/to
// bounds override the granularity default unconditionally; a start after the
// end is rejected before any rows are produced. An empty result is valid and
// returned as an empty, non-nil slice.
//
// Daily and weekly reports are itemized: one row per paid installment whose
// paidDate falls inside the window. Monthly and yearly reports are summarized:
// one row per borrower with at least one in-window paid installment, carrying
// the in-window sum. In both modes the remaining amount subtracts every paid
// installment, not only the in-window ones.
func Project(snapshot []*domain.Borrower, g domain.Granularity, from, to *time.Time, now time.Time) ([]domain.ReportRow, error) {
	start, end := DefaultWindow(g, now)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	if start.After(end) {
		return nil, customError.WrapInvalidReportWindow(
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	rows := make([]domain.ReportRow, 0)
	for _, b := range snapshot {
		remaining := b.OutstandingAmount()

		if g.Itemized() {
			for _, inst := range b.Installments {
				if !paidWithin(inst, start, end) {
					continue
				}
				rows = append(rows, domain.ReportRow{
					CustomerName:      b.Name,
					Phone:             b.Phone,
					TotalAmount:       b.TotalAmount,
					AmountReceived:    inst.Amount,
					RemainingAmount:   remaining,
					PaymentDueDate:    &inst.DueDate,
					PaidDate:          inst.PaidDate,
					WeekNumber:        inst.WeekNumber,
					Status:            inst.Status,
					DateOfAmountTaken: b.DateOfAmountTaken,
				})
			}
			continue
		}

		periodAmount := decimal.Zero
		for _, inst := range b.Installments {
			if paidWithin(inst, start, end) {
				periodAmount = periodAmount.Add(inst.Amount)
			}
		}
		if periodAmount.IsZero() {
			continue
		}
		rows = append(rows, domain.ReportRow{
			CustomerName:      b.Name,
			Phone:             b.Phone,
			TotalAmount:       b.TotalAmount,
			AmountReceived:    periodAmount,
			RemainingAmount:   remaining,
			DateOfAmountTaken: b.DateOfAmountTaken,
		})
	}

	return rows, nil
}

func paidWithin(inst *domain.Installment, start, end time.Time) bool {
	if inst.Status != domain.InstallmentStatusPaid || inst.PaidDate == nil {
		return false
	}
	return dateutil.WithinInclusive(*inst.PaidDate, start, end)
}
