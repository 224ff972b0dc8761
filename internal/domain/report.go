package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Granularity is the report time-bucketing mode. It controls both the default
// window and the projection mode: daily and weekly reports are itemized per
// payment, monthly and yearly reports are summarized per borrower.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// Valid reports whether g is one of the four known granularities.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityYearly:
		return true
	}
	return false
}

// Itemized reports whether g projects one row per paid installment rather
// than one summarized row per borrower.
func (g Granularity) Itemized() bool {
	return g == GranularityDaily || g == GranularityWeekly
}

// Title returns the human-readable report title for g, e.g. "Weekly Report".
func (g Granularity) Title() string {
	switch g {
	case GranularityDaily:
		return "Daily Report"
	case GranularityWeekly:
		return "Weekly Report"
	case GranularityMonthly:
		return "Monthly Report"
	case GranularityYearly:
		return "Yearly Report"
	}
	return "Report"
}

// ReportRow is one flat projection row handed to external renderers. Itemized
// rows carry the per-installment fields; summarized rows leave them zero-valued.
type ReportRow struct {
	CustomerName      string          `json:"customer_name"`
	Phone             string          `json:"phone"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AmountReceived    decimal.Decimal `json:"amount_received"`
	RemainingAmount   decimal.Decimal `json:"remaining_amount"`
	PaymentDueDate    *time.Time      `json:"payment_due_date,omitempty"`
	PaidDate          *time.Time      `json:"paid_date,omitempty"`
	WeekNumber        int             `json:"week_number,omitempty"`
	Status            string          `json:"status,omitempty"`
	DateOfAmountTaken time.Time       `json:"date_of_amount_taken"`
}

// DashboardStats are the derived-on-read aggregates over the whole ledger.
type DashboardStats struct {
	TotalBorrowers       int             `json:"total_borrowers"`
	TotalPrincipal       decimal.Decimal `json:"total_principal"`
	TotalCollected       decimal.Decimal `json:"total_collected"`
	TotalOutstanding     decimal.Decimal `json:"total_outstanding"`
	CurrentWeekCollected decimal.Decimal `json:"current_week_collected"`
	MissedCount          int             `json:"missed_count"`
}
