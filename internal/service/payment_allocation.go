package service

import (
	"sort"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AllocationResult reports how a payment was applied across a loan's
// outstanding balances.
type AllocationResult struct {
	// UpdatedBalances is the residual balance list after allocation,
	// oldest first. Fully retired entries are removed.
	UpdatedBalances []domain.OutstandingBalance
	// PenaltyPaid is the portion of the payment that went to penalties.
	PenaltyPaid decimal.Decimal
	// Remainder is whatever was left after every balance was retired.
	// The caller decides whether to reject it or credit it as
	// prepayment; it is never silently absorbed.
	Remainder decimal.Decimal
}

// AllocatePayment applies a payment amount against outstanding balances,
// oldest debt first. A balance whose full amount (principal plus
// penalty) is covered is retired; a partially covered balance has the
// payment split between principal and penalty in proportion to each
// one's share of the total due. The input slice is not modified.
func AllocatePayment(balances []domain.OutstandingBalance, amountPaid decimal.Decimal) (*AllocationResult, error) {
	if amountPaid.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrPaymentAmountInvalid
	}

	sorted := make([]domain.OutstandingBalance, len(balances))
	copy(sorted, balances)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})

	remaining := amountPaid
	penaltyPaid := decimal.Zero
	updated := make([]domain.OutstandingBalance, 0, len(sorted))

	for _, balance := range sorted {
		if remaining.IsZero() {
			updated = append(updated, balance)
			continue
		}

		totalDue := balance.TotalDue()
		if remaining.GreaterThanOrEqual(totalDue) {
			// Retire the whole period
			remaining = remaining.Sub(totalDue)
			penaltyPaid = penaltyPaid.Add(balance.PenaltyAmount)
			continue
		}

		// Split the rest proportionally between principal and penalty.
		// The penalty portion is the complement of the principal portion
		// so the two always sum to exactly the amount applied.
		basePortion := remaining.Mul(balance.BaseAmount).Div(totalDue).Round(2)
		penaltyPortion := remaining.Sub(basePortion)

		balance.BaseAmount = balance.BaseAmount.Sub(basePortion)
		balance.PenaltyAmount = balance.PenaltyAmount.Sub(penaltyPortion)
		penaltyPaid = penaltyPaid.Add(penaltyPortion)
		remaining = decimal.Zero
		updated = append(updated, balance)
	}

	return &AllocationResult{
		UpdatedBalances: updated,
		PenaltyPaid:     penaltyPaid,
		Remainder:       remaining,
	}, nil
}
