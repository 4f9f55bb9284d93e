package domain

import "github.com/shopspring/decimal"

// DashboardSummary aggregates portfolio figures across all loans.
type DashboardSummary struct {
	TotalBorrowers   int32           `json:"totalBorrowers"`
	TotalLoans       int32           `json:"totalLoans"`
	ActiveLoans      int32           `json:"activeLoans"`
	DelayedLoans     int32           `json:"delayedLoans"`
	FullyPaidLoans   int32           `json:"fullyPaidLoans"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	TotalPenalties   decimal.Decimal `json:"totalPenalties"`
	TotalCollected   decimal.Decimal `json:"totalCollected"`
	OverdueLoans     []*Loan         `json:"overdueLoans"`
}
