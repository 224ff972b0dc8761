package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business logic constants
const (
	InstallmentStatusDue    = "due"
	InstallmentStatusPaid   = "paid"
	InstallmentStatusMissed = "missed"
)

// InstallmentWeeks is the fixed number of weekly installments per loan.
// This is a business rule, not configuration.
const InstallmentWeeks = 10

// Installment is one weekly repayment obligation. Week numbers run 1..10 and
// define the schedule order; amount and due date never change after creation.
// PaidDate is set only as a by-product of a transition into paid.
type Installment struct {
	ID         uuid.UUID       `json:"id" db:"id" validate:"required"`
	WeekNumber int             `json:"week_number" db:"week_number" validate:"min=1,max=10"`
	DueDate    time.Time       `json:"due_date" db:"due_date" validate:"required"`
	Amount     decimal.Decimal `json:"amount" db:"amount" validate:"gt=0"`
	Status     string          `json:"status" db:"status" validate:"oneof=due paid missed"`
	PaidDate   *time.Time      `json:"paid_date,omitempty" db:"paid_date"`
}

// Clone returns a copy with its own PaidDate pointer.
func (i *Installment) Clone() *Installment {
	cp := *i
	if i.PaidDate != nil {
		d := *i.PaidDate
		cp.PaidDate = &d
	}
	return &cp
}
