// Package stats derives the dashboard aggregates from a ledger snapshot.
// Everything is recomputed from scratch on every read; ledger sizes are small
// and incremental caches would only invite invalidation bugs.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/weeklypay/ledger-engine/internal/domain"
	"github.com/weeklypay/ledger-engine/pkg/dateutil"
)

// Compute walks the snapshot once and returns the dashboard figures.
// CurrentWeekCollected sums paid installments whose due date, not paid date,
// falls within the ISO week containing now (Monday through Sunday).
func Compute(snapshot []*domain.Borrower, now time.Time) *domain.DashboardStats {
	weekStart, weekEnd := dateutil.WeekBounds(now)

	s := &domain.DashboardStats{
		TotalBorrowers:       len(snapshot),
		TotalPrincipal:       decimal.Zero,
		TotalCollected:       decimal.Zero,
		CurrentWeekCollected: decimal.Zero,
	}

	for _, b := range snapshot {
		s.TotalPrincipal = s.TotalPrincipal.Add(b.TotalAmount)

		for _, inst := range b.Installments {
			switch inst.Status {
			case domain.InstallmentStatusPaid:
				s.TotalCollected = s.TotalCollected.Add(inst.Amount)
				if dateutil.WithinInclusive(inst.DueDate, weekStart, weekEnd) {
					s.CurrentWeekCollected = s.CurrentWeekCollected.Add(inst.Amount)
				}
			case domain.InstallmentStatusMissed:
				s.MissedCount++
			}
		}
	}

	s.TotalOutstanding = s.TotalPrincipal.Sub(s.TotalCollected)
	return s
}
