package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrLoanItemNameEmpty      = errors.New("loan item name is required")
	ErrLoanItemNameTooLong    = errors.New("loan item name must be 200 characters or less")
	ErrLoanAmountInvalid      = errors.New("total price must be positive")
	ErrLoanDownpaymentInvalid = errors.New("downpayment must be non-negative and less than the total price")
	ErrLoanTermsInvalid       = errors.New("number of terms must be at least 1")
	ErrLoanInterestInvalid    = errors.New("monthly interest rate must be non-negative")
	ErrLoanBorrowerRequired   = errors.New("borrower is required")
)

// Loan statuses. Delayed statuses carry the day count and are built
// with DelayedStatus.
const (
	LoanStatusActive          = "Active"
	LoanStatusSeverelyDelayed = "Severely Delayed"
	LoanStatusFullyPaid       = "Fully Paid"
)

// DelayedStatus returns the status label for a loan whose oldest unpaid
// period is the given number of days past its grace window.
func DelayedStatus(daysLate int) string {
	return fmt.Sprintf("Delayed (%d days)", daysLate)
}

// OutstandingBalance is one unpaid period of a loan. BaseAmount is the
// remaining principal for the period and only ever decreases;
// PenaltyAmount is recalculated from scratch on every status refresh.
type OutstandingBalance struct {
	DueDate       time.Time       `json:"dueDate"`
	BaseAmount    decimal.Decimal `json:"baseAmount"`
	PenaltyAmount decimal.Decimal `json:"penaltyAmount"`
}

// TotalDue returns the principal plus penalty owed for this period.
func (b OutstandingBalance) TotalDue() decimal.Decimal {
	return b.BaseAmount.Add(b.PenaltyAmount)
}

type Loan struct {
	ID                  int32                `json:"id"`
	BorrowerID          int32                `json:"borrowerId"`
	BorrowerName        string               `json:"borrowerName"`
	ItemName            string               `json:"itemName"`
	TotalPrice          decimal.Decimal      `json:"totalPrice"`
	Downpayment         decimal.Decimal      `json:"downpayment"`
	Terms               int32                `json:"terms"`
	MonthlyInterestPct  decimal.Decimal      `json:"monthlyInterestPct"`
	LoanCreatedDate     time.Time            `json:"loanCreatedDate"`
	FirstDueDate        *time.Time           `json:"firstDueDate,omitempty"`
	MonthlyDue          decimal.Decimal      `json:"monthlyDue"`
	TotalPaid           decimal.Decimal      `json:"totalPaid"`
	PaymentProgress     string               `json:"paymentProgress"`
	OutstandingBalances []OutstandingBalance `json:"outstandingBalances"`
	Penalty             decimal.Decimal      `json:"penalty"`
	Status              string               `json:"status"`
	Notes               *string              `json:"notes,omitempty"`
	LastPaymentDate     *time.Time           `json:"lastPaymentDate,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

func (l *Loan) Validate() error {
	if l.BorrowerID <= 0 {
		return ErrLoanBorrowerRequired
	}
	if l.ItemName == "" {
		return ErrLoanItemNameEmpty
	}
	if len(l.ItemName) > 200 {
		return ErrLoanItemNameTooLong
	}
	if l.TotalPrice.LessThanOrEqual(decimal.Zero) {
		return ErrLoanAmountInvalid
	}
	if l.Downpayment.IsNegative() || l.Downpayment.GreaterThanOrEqual(l.TotalPrice) {
		return ErrLoanDownpaymentInvalid
	}
	if l.Terms < 1 {
		return ErrLoanTermsInvalid
	}
	if l.MonthlyInterestPct.IsNegative() {
		return ErrLoanInterestInvalid
	}
	return nil
}

// FinancedAmount returns the principal actually financed (total price
// minus downpayment).
func (l *Loan) FinancedAmount() decimal.Decimal {
	return l.TotalPrice.Sub(l.Downpayment)
}

// IsFullyPaid returns true once cumulative payments reach the total
// price. The Fully Paid status is terminal, so a loan already marked as
// such stays fully paid regardless of its running totals.
func (l *Loan) IsFullyPaid() bool {
	return l.Status == LoanStatusFullyPaid ||
		l.TotalPaid.GreaterThanOrEqual(l.TotalPrice)
}

// TotalOutstanding returns the sum of principal and penalties across all
// outstanding balance entries.
func (l *Loan) TotalOutstanding() decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.OutstandingBalances {
		total = total.Add(b.TotalDue())
	}
	return total
}

// IsDelayed returns true if the loan is in any delayed state.
func (l *Loan) IsDelayed() bool {
	return l.Status == LoanStatusSeverelyDelayed ||
		(len(l.Status) > 7 && l.Status[:7] == "Delayed")
}

type LoanRepository interface {
	Create(loan *Loan) (*Loan, error)
	GetByID(id int32) (*Loan, error)
	GetAll() ([]*Loan, error)
	GetByBorrower(borrowerID int32) ([]*Loan, error)
	Update(loan *Loan) (*Loan, error)
	Delete(id int32) error
}
