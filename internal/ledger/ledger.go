// Package ledger owns the in-memory collection of borrowers and their
// installment schedules. It is the single source of truth: the aggregation
// engine and the report projector read snapshots from it, and every mutation
// flows through its operations.
package ledger

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/weeklypay/ledger-engine/internal/domain"
	"github.com/weeklypay/ledger-engine/internal/schedule"
	"github.com/weeklypay/ledger-engine/pkg/dateutil"
	customError "github.com/weeklypay/ledger-engine/pkg/errors"
)

// Filter is the AND-combination of criteria for Ledger.Filter. The status
// criterion is an existence test: a borrower matches when at least one of its
// installments carries the status. Empty fields are skipped.
type Filter struct {
	Status string
	Name   string
	Phone  string
}

// Ledger holds borrowers in insertion order, which is the display order.
// All operations are safe for concurrent use; mutations are serialized so no
// partial update is ever visible.
type Ledger struct {
	mu        sync.RWMutex
	borrowers []*domain.Borrower
	now       func() time.Time
}

// New creates an empty ledger. now supplies the current time for schedule
// generation and paid dates; nil means time.Now.
func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Replace installs a loaded snapshot, dropping whatever the ledger held.
// Used once at process start with the persistence collaborator's LoadAll result.
func (l *Ledger) Replace(borrowers []*domain.Borrower) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.borrowers = borrowers
}

// AddBorrower derives the weekly amount and weekday name, generates the ten
// weekly installments and appends the new borrower. Phone and name are
// intentionally not checked for uniqueness: one phone may carry several loans.
func (l *Ledger) AddBorrower(name, phone string, totalAmount decimal.Decimal, dateOfAmountTaken time.Time) *domain.Borrower {
	l.mu.Lock()
	defer l.mu.Unlock()

	weeklyAmount := schedule.WeeklyAmount(totalAmount)

	borrower := &domain.Borrower{
		ID:                uuid.New(),
		Name:              name,
		Phone:             phone,
		TotalAmount:       totalAmount,
		DateOfAmountTaken: dateutil.DateOnly(dateOfAmountTaken),
		DayOfAmountTaken:  dateutil.WeekdayName(dateOfAmountTaken),
		WeeklyAmount:      weeklyAmount,
		Installments:      schedule.Generate(dateOfAmountTaken, weeklyAmount, l.now()),
	}

	l.borrowers = append(l.borrowers, borrower)
	return borrower.Clone()
}

// SetInstallmentStatus applies the installment state machine:
//
//	due, missed -> paid  sets paidDate to today (date-only)
//	paid        -> paid  no-op, paidDate untouched
//	paid        -> due   the undo-payment transition, clears paidDate
//
// Every other target is rejected as an invalid transition. Unknown ids are
// reported as typed not-found outcomes; stale UI state is expected, not
// exceptional.
func (l *Ledger) SetInstallmentStatus(borrowerID, installmentID uuid.UUID, target string) (*domain.Installment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	borrower := l.find(borrowerID)
	if borrower == nil {
		return nil, customError.WrapBorrowerNotFound(borrowerID.String())
	}

	inst := borrower.FindInstallment(installmentID)
	if inst == nil {
		return nil, customError.WrapInstallmentNotFound(installmentID.String())
	}

	switch target {
	case domain.InstallmentStatusPaid:
		if inst.Status == domain.InstallmentStatusPaid {
			return inst.Clone(), nil
		}
		paidDate := dateutil.DateOnly(l.now())
		inst.Status = domain.InstallmentStatusPaid
		inst.PaidDate = &paidDate
	case domain.InstallmentStatusDue:
		if inst.Status != domain.InstallmentStatusPaid {
			return nil, customError.WrapInvalidTransition(inst.Status, target)
		}
		inst.Status = domain.InstallmentStatusDue
		inst.PaidDate = nil
	default:
		return nil, customError.WrapInvalidTransition(inst.Status, target)
	}

	return inst.Clone(), nil
}

// DeleteBorrower removes a borrower along with all its installments.
func (l *Ledger) DeleteBorrower(borrowerID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, b := range l.borrowers {
		if b.ID == borrowerID {
			l.borrowers = append(l.borrowers[:i], l.borrowers[i+1:]...)
			return nil
		}
	}
	return customError.WrapBorrowerNotFound(borrowerID.String())
}

// DeleteInstallment removes a single installment from a borrower's sequence.
// The remaining week numbers keep their values; gaps are allowed. This is a
// user-invoked correction, not a scheduling recomputation.
func (l *Ledger) DeleteInstallment(borrowerID, installmentID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	borrower := l.find(borrowerID)
	if borrower == nil {
		return customError.WrapBorrowerNotFound(borrowerID.String())
	}

	for i, inst := range borrower.Installments {
		if inst.ID == installmentID {
			borrower.Installments = append(borrower.Installments[:i], borrower.Installments[i+1:]...)
			return nil
		}
	}
	return customError.WrapInstallmentNotFound(installmentID.String())
}

// FindByPhone returns every borrower whose phone equals phone, in ledger
// order. The self-service login flow uses this to aggregate one person's
// multiple loans.
func (l *Ledger) FindByPhone(phone string) []*domain.Borrower {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*domain.Borrower
	for _, b := range l.borrowers {
		if b.Phone == phone {
			out = append(out, b.Clone())
		}
	}
	return out
}

// Search matches a case-insensitive substring on name or a literal substring
// on phone. A blank query returns the full ledger unfiltered.
func (l *Ledger) Search(query string) []*domain.Borrower {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if strings.TrimSpace(query) == "" {
		return l.snapshotLocked()
	}

	lower := strings.ToLower(query)
	out := make([]*domain.Borrower, 0)
	for _, b := range l.borrowers {
		if strings.Contains(strings.ToLower(b.Name), lower) || strings.Contains(b.Phone, query) {
			out = append(out, b.Clone())
		}
	}
	return out
}

// FilterBorrowers applies the AND-combination of the filter criteria.
func (l *Ledger) FilterBorrowers(f Filter) []*domain.Borrower {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Borrower, 0)
	for _, b := range l.borrowers {
		if f.Status != "" && f.Status != "all" && !hasInstallmentWithStatus(b, f.Status) {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Phone != "" && !strings.Contains(b.Phone, f.Phone) {
			continue
		}
		out = append(out, b.Clone())
	}
	return out
}

// Snapshot returns a deep copy of the whole ledger in insertion order for the
// read-only consumers: stats, reports and the persistence collaborator.
func (l *Ledger) Snapshot() []*domain.Borrower {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() []*domain.Borrower {
	out := make([]*domain.Borrower, len(l.borrowers))
	for i, b := range l.borrowers {
		out[i] = b.Clone()
	}
	return out
}

func (l *Ledger) find(borrowerID uuid.UUID) *domain.Borrower {
	for _, b := range l.borrowers {
		if b.ID == borrowerID {
			return b
		}
	}
	return nil
}

func hasInstallmentWithStatus(b *domain.Borrower, status string) bool {
	for _, inst := range b.Installments {
		if inst.Status == status {
			return true
		}
	}
	return false
}
