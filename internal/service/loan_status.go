package service

import (
	"sort"
	"time"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/util"
	"github.com/shopspring/decimal"
)

const (
	// GracePeriodDays is the window after a due date during which no
	// penalty accrues.
	GracePeriodDays = 5
	// SeverelyDelayedAfterDays is the days-late threshold past which a
	// loan is labelled severely delayed.
	SeverelyDelayedAfterDays = 30
	// penaltyPeriodDays is the span over which one full penalty rate
	// accrues. Accrual is linear within the period.
	penaltyPeriodDays = 30
)

// PenaltyRate is the late fee per 30-day period, as a fraction of the
// period's remaining principal.
var PenaltyRate = decimal.NewFromFloat(0.03)

// RefreshLoanStatus recomputes a loan's outstanding balances, penalty
// and status as of the given time. The input is not mutated; a fresh
// snapshot is returned. Deterministic and idempotent for a fixed now.
//
// A fully paid loan is terminal: balances and penalty are cleared no
// matter what stale entries the record carries. Otherwise one balance
// entry exists per elapsed due date, each entry's penalty is
// recalculated from its base amount and days late, and the status is
// derived from the oldest entry. Base amounts are never touched here;
// only payments reduce them.
func RefreshLoanStatus(loan *domain.Loan, now time.Time) *domain.Loan {
	updated := *loan

	if loan.IsFullyPaid() {
		updated.Status = domain.LoanStatusFullyPaid
		updated.OutstandingBalances = []domain.OutstandingBalance{}
		updated.Penalty = decimal.Zero
		return &updated
	}

	if loan.FirstDueDate == nil {
		updated.Status = domain.LoanStatusActive
		updated.OutstandingBalances = []domain.OutstandingBalance{}
		updated.Penalty = decimal.Zero
		return &updated
	}

	today := util.StartOfDay(now)
	balances := make([]domain.OutstandingBalance, len(loan.OutstandingBalances))
	copy(balances, loan.OutstandingBalances)

	balances = appendElapsedPeriods(balances, loan, today)

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].DueDate.Before(balances[j].DueDate)
	})

	penalty := decimal.Zero
	for i := range balances {
		late := daysLate(balances[i].DueDate, today)
		if late > 0 {
			balances[i].PenaltyAmount = accruePenalty(balances[i].BaseAmount, late)
		} else {
			balances[i].PenaltyAmount = decimal.Zero
		}
		penalty = penalty.Add(balances[i].PenaltyAmount)
	}

	updated.OutstandingBalances = balances
	updated.Penalty = penalty
	updated.Status = statusFromBalances(balances, today)
	return &updated
}

// appendElapsedPeriods synthesizes a balance entry for every period due
// date that has passed without one, at one calendar month spacing from
// the first due date. The schedule never extends past the loan's term
// count or beyond today, and an existing due date is never duplicated.
// Periods already covered by payments are not resynthesized; a partially
// paid period stays in the balance list with its reduced base and is
// covered by the dedup instead. Any sub-installment prepayment that is
// not already reflected in a reduced entry shrinks the base of the next
// period synthesized.
func appendElapsedPeriods(balances []domain.OutstandingBalance, loan *domain.Loan, today time.Time) []domain.OutstandingBalance {
	existing := make(map[time.Time]bool, len(balances))
	for _, b := range balances {
		existing[util.StartOfDay(b.DueDate)] = true
	}

	covered := 0
	credit := decimal.Zero
	if loan.MonthlyDue.IsPositive() {
		covered = int(loan.TotalPaid.Div(loan.MonthlyDue).IntPart())
		credit = loan.TotalPaid.Sub(loan.MonthlyDue.Mul(decimal.NewFromInt(int64(covered))))
		// Credit absorbed into an existing partially paid entry
		// already shows up as that entry's reduced base.
		for _, b := range balances {
			if b.BaseAmount.LessThan(loan.MonthlyDue) {
				credit = credit.Sub(loan.MonthlyDue.Sub(b.BaseAmount))
			}
		}
		if credit.IsNegative() {
			credit = decimal.Zero
		}
	}

	for period := covered; period < int(loan.Terms); period++ {
		dueDate := util.AddMonthsClamped(*loan.FirstDueDate, period)
		if dueDate.After(today) {
			break
		}
		if existing[dueDate] {
			continue
		}
		base := loan.MonthlyDue
		if credit.IsPositive() {
			base = base.Sub(credit)
			credit = decimal.Zero
		}
		balances = append(balances, domain.OutstandingBalance{
			DueDate:       dueDate,
			BaseAmount:    base,
			PenaltyAmount: decimal.Zero,
		})
	}
	return balances
}

// daysLate is the number of penalty-accruing days for a due date: whole
// days elapsed minus the grace window, floored at zero.
func daysLate(dueDate, today time.Time) int {
	late := util.DaysBetween(dueDate, today) - GracePeriodDays
	if late < 0 {
		return 0
	}
	return late
}

// accruePenalty computes the late fee on a period's remaining principal:
// the penalty rate per 30-day period, interpolated linearly by day.
func accruePenalty(baseAmount decimal.Decimal, daysLate int) decimal.Decimal {
	return baseAmount.
		Mul(PenaltyRate).
		Mul(decimal.NewFromInt(int64(daysLate))).
		Div(decimal.NewFromInt(penaltyPeriodDays)).
		Round(2)
}

func statusFromBalances(balances []domain.OutstandingBalance, today time.Time) string {
	if len(balances) == 0 {
		return domain.LoanStatusActive
	}
	oldestLate := daysLate(balances[0].DueDate, today)
	switch {
	case oldestLate > SeverelyDelayedAfterDays:
		return domain.LoanStatusSeverelyDelayed
	case oldestLate > 0:
		return domain.DelayedStatus(oldestLate)
	default:
		// Entry exists but is still inside the grace window
		return domain.LoanStatusActive
	}
}
