package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validLoan() *Loan {
	return &Loan{
		BorrowerID:         1,
		BorrowerName:       "Maria Santos",
		ItemName:           "Refrigerator",
		TotalPrice:         decimal.NewFromInt(12000),
		Downpayment:        decimal.NewFromInt(2000),
		Terms:              6,
		MonthlyInterestPct: decimal.NewFromInt(3),
		LoanCreatedDate:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:             LoanStatusActive,
	}
}

func TestLoanValidate(t *testing.T) {
	if err := validLoan().Validate(); err != nil {
		t.Fatalf("Expected valid loan, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Loan)
		wantErr error
	}{
		{"missing borrower", func(l *Loan) { l.BorrowerID = 0 }, ErrLoanBorrowerRequired},
		{"empty item name", func(l *Loan) { l.ItemName = "" }, ErrLoanItemNameEmpty},
		{"zero price", func(l *Loan) { l.TotalPrice = decimal.Zero }, ErrLoanAmountInvalid},
		{"negative downpayment", func(l *Loan) { l.Downpayment = decimal.NewFromInt(-1) }, ErrLoanDownpaymentInvalid},
		{"downpayment equals price", func(l *Loan) { l.Downpayment = l.TotalPrice }, ErrLoanDownpaymentInvalid},
		{"zero terms", func(l *Loan) { l.Terms = 0 }, ErrLoanTermsInvalid},
		{"negative interest", func(l *Loan) { l.MonthlyInterestPct = decimal.NewFromInt(-3) }, ErrLoanInterestInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := validLoan()
			tt.mutate(loan)
			if err := loan.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFinancedAmount(t *testing.T) {
	loan := validLoan()
	if got := loan.FinancedAmount(); !got.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected 10000, got %s", got)
	}
}

func TestIsFullyPaid(t *testing.T) {
	loan := validLoan()
	if loan.IsFullyPaid() {
		t.Error("Expected new loan not to be fully paid")
	}

	// Crossing the financed amount is not enough; only the total price is.
	loan.TotalPaid = decimal.NewFromInt(10000)
	if loan.IsFullyPaid() {
		t.Error("Expected loan paid up to the financed amount not to be fully paid")
	}

	loan.TotalPaid = decimal.NewFromInt(12000)
	if !loan.IsFullyPaid() {
		t.Error("Expected loan paid up to the total price to be fully paid")
	}

	// Status is terminal even if the totals were later adjusted
	loan = validLoan()
	loan.Status = LoanStatusFullyPaid
	if !loan.IsFullyPaid() {
		t.Error("Expected Fully Paid status to be terminal")
	}
}

func TestIsDelayed(t *testing.T) {
	loan := validLoan()
	if loan.IsDelayed() {
		t.Error("Expected active loan not to be delayed")
	}

	loan.Status = DelayedStatus(12)
	if !loan.IsDelayed() {
		t.Errorf("Expected status %q to be delayed", loan.Status)
	}

	loan.Status = LoanStatusSeverelyDelayed
	if !loan.IsDelayed() {
		t.Error("Expected severely delayed loan to be delayed")
	}

	loan.Status = LoanStatusFullyPaid
	if loan.IsDelayed() {
		t.Error("Expected fully paid loan not to be delayed")
	}
}

func TestTotalOutstanding(t *testing.T) {
	loan := validLoan()
	loan.OutstandingBalances = []OutstandingBalance{
		{BaseAmount: decimal.NewFromInt(1000), PenaltyAmount: decimal.NewFromFloat(30)},
		{BaseAmount: decimal.NewFromInt(500), PenaltyAmount: decimal.Zero},
	}

	if got := loan.TotalOutstanding(); !got.Equal(decimal.NewFromInt(1530)) {
		t.Errorf("Expected 1530, got %s", got)
	}
}

func TestDelayedStatus(t *testing.T) {
	if got := DelayedStatus(7); got != "Delayed (7 days)" {
		t.Errorf("Unexpected status label %q", got)
	}
}
