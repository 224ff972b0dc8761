package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Borrower represents one loan record: a person who took a lump sum and repays
// it over ten weekly installments. A phone may own several Borrower records,
// one per loan.
type Borrower struct {
	ID                uuid.UUID       `json:"id" db:"id" validate:"required"`
	Name              string          `json:"name" db:"name" validate:"required"`
	Phone             string          `json:"phone" db:"phone" validate:"required"`
	TotalAmount       decimal.Decimal `json:"total_amount" db:"total_amount" validate:"gt=0"`
	DateOfAmountTaken time.Time       `json:"date_of_amount_taken" db:"date_of_amount_taken" validate:"required"`
	DayOfAmountTaken  string          `json:"day_of_amount_taken" db:"day_of_amount_taken" validate:"required"`
	WeeklyAmount      decimal.Decimal `json:"weekly_amount" db:"weekly_amount" validate:"gt=0"`
	Installments      []*Installment  `json:"installments" db:"-" validate:"dive"`
}

// CollectedAmount sums the amounts of this borrower's paid installments.
func (b *Borrower) CollectedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range b.Installments {
		if inst.Status == InstallmentStatusPaid {
			total = total.Add(inst.Amount)
		}
	}
	return total
}

// OutstandingAmount is the principal minus everything collected so far.
func (b *Borrower) OutstandingAmount() decimal.Decimal {
	return b.TotalAmount.Sub(b.CollectedAmount())
}

// FindInstallment returns the installment with the given id, or nil.
func (b *Borrower) FindInstallment(id uuid.UUID) *Installment {
	for _, inst := range b.Installments {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

// Clone returns a deep copy, detaching installments from the original.
func (b *Borrower) Clone() *Borrower {
	cp := *b
	cp.Installments = make([]*Installment, len(b.Installments))
	for i, inst := range b.Installments {
		cp.Installments[i] = inst.Clone()
	}
	return &cp
}

// DTOs for requests and responses

type CreateBorrowerRequest struct {
	Name              string          `json:"name" validate:"required"`
	Phone             string          `json:"phone" validate:"required"`
	TotalAmount       decimal.Decimal `json:"total_amount" validate:"required,gt=0"`
	DateOfAmountTaken string          `json:"date_of_amount_taken" validate:"required,datetime=2006-01-02"`
}

type UpdateInstallmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid due"`
}

type BorrowerResponse struct {
	Borrower  *Borrower       `json:"borrower"`
	Collected decimal.Decimal `json:"collected"`
	Remaining decimal.Decimal `json:"remaining"`
}

// NewBorrowerResponse attaches the per-borrower derived figures used in list views.
func NewBorrowerResponse(b *Borrower) *BorrowerResponse {
	return &BorrowerResponse{
		Borrower:  b,
		Collected: b.CollectedAmount(),
		Remaining: b.OutstandingAmount(),
	}
}
