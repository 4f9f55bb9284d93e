package service

import (
	"testing"
	"time"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newDashboardFixture() (*DashboardService, *testutil.MockLoanRepository, *testutil.MockBorrowerRepository) {
	loanRepo := testutil.NewMockLoanRepository()
	borrowerRepo := testutil.NewMockBorrowerRepository()
	borrowerRepo.AddBorrower(&domain.Borrower{
		ID:             1,
		FullName:       "Juan Dela Cruz",
		HomeAddress:    "123 Main St",
		PrimaryContact: "0917-000-0000",
	})
	loanService := NewLoanService(loanRepo, borrowerRepo)
	return NewDashboardService(borrowerRepo, loanService), loanRepo, borrowerRepo
}

func dashboardLoan(id int32, item string, firstDue time.Time, totalPaid decimal.Decimal) *domain.Loan {
	return &domain.Loan{
		ID:                  id,
		BorrowerID:          1,
		BorrowerName:        "Juan Dela Cruz",
		ItemName:            item,
		TotalPrice:          decimal.NewFromInt(7000),
		Downpayment:         decimal.NewFromInt(1000),
		Terms:               6,
		MonthlyDue:          decimal.NewFromInt(1000),
		FirstDueDate:        &firstDue,
		TotalPaid:           totalPaid,
		Penalty:             decimal.Zero,
		OutstandingBalances: []domain.OutstandingBalance{},
		Status:              domain.LoanStatusActive,
	}
}

func TestGetSummary(t *testing.T) {
	svc, loanRepo, _ := newDashboardFixture()

	// One current loan, one overdue loan, one retired loan.
	future := time.Now().AddDate(0, 1, 0)
	past := time.Now().AddDate(0, 0, -10)
	loanRepo.AddLoan(dashboardLoan(1, "Television", future, decimal.NewFromInt(2000)))
	loanRepo.AddLoan(dashboardLoan(2, "Laptop", past, decimal.Zero))
	retired := dashboardLoan(3, "Phone", past, decimal.NewFromInt(6000))
	retired.Status = domain.LoanStatusFullyPaid
	loanRepo.AddLoan(retired)

	summary, err := svc.GetSummary()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.TotalBorrowers != 1 {
		t.Errorf("Expected 1 borrower, got %d", summary.TotalBorrowers)
	}
	if summary.TotalLoans != 3 {
		t.Errorf("Expected 3 loans, got %d", summary.TotalLoans)
	}
	if summary.ActiveLoans != 1 {
		t.Errorf("Expected 1 active loan, got %d", summary.ActiveLoans)
	}
	if summary.DelayedLoans != 1 {
		t.Errorf("Expected 1 delayed loan, got %d", summary.DelayedLoans)
	}
	if summary.FullyPaidLoans != 1 {
		t.Errorf("Expected 1 fully paid loan, got %d", summary.FullyPaidLoans)
	}
	if len(summary.OverdueLoans) != 1 || summary.OverdueLoans[0].ItemName != "Laptop" {
		t.Errorf("Expected the overdue loan in the overdue list, got %v", summary.OverdueLoans)
	}

	// Outstanding: (7000-2000) + (7000-0); the retired loan
	// contributes nothing.
	expectedOutstanding := decimal.NewFromInt(12000)
	if !summary.TotalOutstanding.Equal(expectedOutstanding) {
		t.Errorf("Expected outstanding %s, got %s", expectedOutstanding, summary.TotalOutstanding)
	}

	expectedCollected := decimal.NewFromInt(8000)
	if !summary.TotalCollected.Equal(expectedCollected) {
		t.Errorf("Expected collected %s, got %s", expectedCollected, summary.TotalCollected)
	}

	if summary.TotalPenalties.IsZero() {
		t.Error("Expected penalties from the overdue loan")
	}
}

func TestGetSummary_Empty(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	summary, err := svc.GetSummary()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.TotalLoans != 0 {
		t.Errorf("Expected 0 loans, got %d", summary.TotalLoans)
	}
	if len(summary.OverdueLoans) != 0 {
		t.Errorf("Expected no overdue loans, got %d", len(summary.OverdueLoans))
	}
}

func TestSearchLoans(t *testing.T) {
	svc, loanRepo, _ := newDashboardFixture()

	future := time.Now().AddDate(0, 1, 0)
	loanRepo.AddLoan(dashboardLoan(1, "Refrigerator", future, decimal.Zero))
	loanRepo.AddLoan(dashboardLoan(2, "Washing Machine", future, decimal.Zero))

	loans, err := svc.SearchLoans("wash")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(loans) != 1 || loans[0].ItemName != "Washing Machine" {
		t.Errorf("Expected the washing machine loan, got %v", loans)
	}

	// Borrower name matches too.
	loans, err = svc.SearchLoans("juan")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(loans) != 2 {
		t.Errorf("Expected both loans, got %d", len(loans))
	}

	// Blank query returns everything.
	loans, err = svc.SearchLoans("  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(loans) != 2 {
		t.Errorf("Expected both loans, got %d", len(loans))
	}
}
