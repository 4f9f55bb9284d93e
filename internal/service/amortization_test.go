package service

import (
	"errors"
	"testing"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func TestCalculateMonthlyDue_ZeroInterest(t *testing.T) {
	// 12000 total, 3000 down, 0% over 6 terms = 1500 per term
	due, err := CalculateMonthlyDue(decimal.NewFromInt(12000), decimal.NewFromInt(3000), 6, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := decimal.NewFromInt(1500)
	if !due.Equal(expected) {
		t.Errorf("Expected %s, got %s", expected.String(), due.String())
	}
}

func TestCalculateMonthlyDue_WithInterest(t *testing.T) {
	// 10000 total, 2000 down, 5%/month over 6 terms:
	// 8000 * 0.05 * 1.05^6 / (1.05^6 - 1) = 1576.14
	due, err := CalculateMonthlyDue(decimal.NewFromInt(10000), decimal.NewFromInt(2000), 6, decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := decimal.NewFromFloat(1576.14)
	if !due.Equal(expected) {
		t.Errorf("Expected %s, got %s", expected.String(), due.String())
	}
}

func TestCalculateMonthlyDue_InterestNeverNegative(t *testing.T) {
	// With any positive rate, total repaid must cover the financed amount
	cases := []struct {
		price, down int64
		terms       int32
		rate        float64
	}{
		{10000, 2000, 6, 5},
		{5000, 0, 12, 1.5},
		{300, 100, 3, 0.25},
	}
	for _, tc := range cases {
		due, err := CalculateMonthlyDue(decimal.NewFromInt(tc.price), decimal.NewFromInt(tc.down), tc.terms, decimal.NewFromFloat(tc.rate))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		financed := decimal.NewFromInt(tc.price - tc.down)
		total := due.Mul(decimal.NewFromInt(int64(tc.terms)))
		if total.LessThan(financed.Sub(decimal.NewFromFloat(0.01))) {
			t.Errorf("total repaid %s is less than financed %s for %+v", total.String(), financed.String(), tc)
		}
	}
}

func TestCalculateMonthlyDue_ZeroTerms(t *testing.T) {
	_, err := CalculateMonthlyDue(decimal.NewFromInt(1000), decimal.Zero, 0, decimal.Zero)
	if !errors.Is(err, domain.ErrLoanTermsInvalid) {
		t.Errorf("Expected ErrLoanTermsInvalid, got %v", err)
	}
}

func TestCalculateMonthlyDue_DownpaymentCoversPrice(t *testing.T) {
	_, err := CalculateMonthlyDue(decimal.NewFromInt(1000), decimal.NewFromInt(1000), 6, decimal.Zero)
	if !errors.Is(err, domain.ErrLoanDownpaymentInvalid) {
		t.Errorf("Expected ErrLoanDownpaymentInvalid, got %v", err)
	}
}

func TestCalculateMonthlyDue_NegativeDownpayment(t *testing.T) {
	_, err := CalculateMonthlyDue(decimal.NewFromInt(1000), decimal.NewFromInt(-50), 6, decimal.Zero)
	if !errors.Is(err, domain.ErrLoanDownpaymentInvalid) {
		t.Errorf("Expected ErrLoanDownpaymentInvalid, got %v", err)
	}
}

func TestCalculateMonthlyDue_ZeroPrice(t *testing.T) {
	_, err := CalculateMonthlyDue(decimal.Zero, decimal.Zero, 6, decimal.Zero)
	if !errors.Is(err, domain.ErrLoanAmountInvalid) {
		t.Errorf("Expected ErrLoanAmountInvalid, got %v", err)
	}
}

func TestCalculateTotalInterest_ZeroRate(t *testing.T) {
	// Zero rate means zero interest
	interest, err := CalculateTotalInterest(decimal.NewFromInt(12000), decimal.NewFromInt(3000), 6, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !interest.Equal(decimal.Zero) {
		t.Errorf("Expected zero interest, got %s", interest.String())
	}
}

func TestCalculateTotalInterest_WithRate(t *testing.T) {
	// 1576.14 * 6 - 8000 = 1456.84
	interest, err := CalculateTotalInterest(decimal.NewFromInt(10000), decimal.NewFromInt(2000), 6, decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := decimal.NewFromFloat(1456.84)
	if !interest.Equal(expected) {
		t.Errorf("Expected %s, got %s", expected.String(), interest.String())
	}
}

func TestCalculateTotalAmountPayable(t *testing.T) {
	// 1576.14 * 6 + 2000 = 11456.84
	payable, err := CalculateTotalAmountPayable(decimal.NewFromInt(10000), decimal.NewFromInt(2000), 6, decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := decimal.NewFromFloat(11456.84)
	if !payable.Equal(expected) {
		t.Errorf("Expected %s, got %s", expected.String(), payable.String())
	}
}
