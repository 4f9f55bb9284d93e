package service

import (
	"errors"
	"testing"
	"time"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newLoanServiceFixture() (*LoanService, *testutil.MockLoanRepository, *testutil.MockBorrowerRepository) {
	loanRepo := testutil.NewMockLoanRepository()
	borrowerRepo := testutil.NewMockBorrowerRepository()
	borrowerRepo.AddBorrower(&domain.Borrower{
		ID:             1,
		FullName:       "Juan Dela Cruz",
		HomeAddress:    "123 Main St",
		PrimaryContact: "0917-000-0000",
	})
	return NewLoanService(loanRepo, borrowerRepo), loanRepo, borrowerRepo
}

func validCreateLoanInput() CreateLoanInput {
	return CreateLoanInput{
		BorrowerID:         1,
		ItemName:           "Refrigerator",
		TotalPrice:         decimal.NewFromInt(12000),
		Downpayment:        decimal.NewFromInt(3000),
		Terms:              6,
		MonthlyInterestPct: decimal.Zero,
		LoanCreatedDate:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateLoan_ComputesMonthlyDue(t *testing.T) {
	svc, _, _ := newLoanServiceFixture()

	loan, err := svc.CreateLoan(validCreateLoanInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := decimal.NewFromInt(1500)
	if !loan.MonthlyDue.Equal(expected) {
		t.Errorf("Expected monthly due %s, got %s", expected, loan.MonthlyDue)
	}
	if loan.Status != domain.LoanStatusActive {
		t.Errorf("Expected status %q, got %q", domain.LoanStatusActive, loan.Status)
	}
	if loan.PaymentProgress != "0 of 6 payments made" {
		t.Errorf("Unexpected payment progress %q", loan.PaymentProgress)
	}
	if loan.BorrowerName != "Juan Dela Cruz" {
		t.Errorf("Expected borrower name to be denormalized, got %q", loan.BorrowerName)
	}
}

func TestCreateLoan_BumpsBorrowerLoanCount(t *testing.T) {
	svc, _, borrowerRepo := newLoanServiceFixture()

	if _, err := svc.CreateLoan(validCreateLoanInput()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	borrower, _ := borrowerRepo.GetByID(1)
	if borrower.LoanStats.TotalLoans != 1 {
		t.Errorf("Expected total loans 1, got %d", borrower.LoanStats.TotalLoans)
	}
}

func TestCreateLoan_UnknownBorrower(t *testing.T) {
	svc, _, _ := newLoanServiceFixture()

	input := validCreateLoanInput()
	input.BorrowerID = 42

	_, err := svc.CreateLoan(input)
	if !errors.Is(err, domain.ErrBorrowerNotFound) {
		t.Errorf("Expected ErrBorrowerNotFound, got %v", err)
	}
}

func TestCreateLoan_InvalidTerms(t *testing.T) {
	svc, _, _ := newLoanServiceFixture()

	input := validCreateLoanInput()
	input.Terms = 0

	_, err := svc.CreateLoan(input)
	if !errors.Is(err, domain.ErrLoanTermsInvalid) {
		t.Errorf("Expected ErrLoanTermsInvalid, got %v", err)
	}
}

func TestCreateLoan_EmptyItemName(t *testing.T) {
	svc, _, _ := newLoanServiceFixture()

	input := validCreateLoanInput()
	input.ItemName = "   "

	_, err := svc.CreateLoan(input)
	if !errors.Is(err, domain.ErrLoanItemNameEmpty) {
		t.Errorf("Expected ErrLoanItemNameEmpty, got %v", err)
	}
}

func TestPreviewLoan(t *testing.T) {
	svc, _, _ := newLoanServiceFixture()

	result, err := svc.PreviewLoan(PreviewLoanInput{
		TotalPrice:         decimal.NewFromInt(10000),
		Downpayment:        decimal.NewFromInt(2000),
		Terms:              6,
		MonthlyInterestPct: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expectedDue := decimal.NewFromFloat(1576.14)
	if !result.MonthlyDue.Equal(expectedDue) {
		t.Errorf("Expected monthly due %s, got %s", expectedDue, result.MonthlyDue)
	}
	expectedPayable := expectedDue.Mul(decimal.NewFromInt(6)).Add(decimal.NewFromInt(2000))
	if !result.TotalAmountPayable.Equal(expectedPayable) {
		t.Errorf("Expected total payable %s, got %s", expectedPayable, result.TotalAmountPayable)
	}
}

func TestGetLoans_RefreshesAndPersistsOverdueLoans(t *testing.T) {
	svc, loanRepo, _ := newLoanServiceFixture()

	firstDue := time.Now().AddDate(0, 0, -40)
	loanRepo.AddLoan(&domain.Loan{
		ID:                  7,
		BorrowerID:          1,
		ItemName:            "Washing Machine",
		TotalPrice:          decimal.NewFromInt(12000),
		Downpayment:         decimal.NewFromInt(3000),
		Terms:               6,
		MonthlyDue:          decimal.NewFromInt(1500),
		FirstDueDate:        &firstDue,
		TotalPaid:           decimal.Zero,
		Penalty:             decimal.Zero,
		OutstandingBalances: []domain.OutstandingBalance{},
		Status:              domain.LoanStatusActive,
	})

	loans, err := svc.GetLoans()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(loans) != 1 {
		t.Fatalf("Expected 1 loan, got %d", len(loans))
	}

	loan := loans[0]
	if !loan.IsDelayed() {
		t.Errorf("Expected refreshed loan to be delayed, got status %q", loan.Status)
	}
	if loan.Penalty.IsZero() {
		t.Error("Expected a penalty on the refreshed loan")
	}
	if loanRepo.Updates == 0 {
		t.Error("Expected the refreshed snapshot to be persisted")
	}

	// Stored record now matches the refreshed view.
	stored, _ := loanRepo.GetByID(7)
	if stored.Status != loan.Status {
		t.Errorf("Stored status %q does not match refreshed status %q", stored.Status, loan.Status)
	}
}

func TestGetLoans_DoesNotPersistUnchangedLoans(t *testing.T) {
	svc, loanRepo, _ := newLoanServiceFixture()

	firstDue := time.Now().AddDate(0, 1, 0)
	loanRepo.AddLoan(&domain.Loan{
		ID:                  3,
		BorrowerID:          1,
		ItemName:            "Television",
		TotalPrice:          decimal.NewFromInt(6000),
		Terms:               4,
		MonthlyDue:          decimal.NewFromInt(1500),
		FirstDueDate:        &firstDue,
		TotalPaid:           decimal.Zero,
		Penalty:             decimal.Zero,
		OutstandingBalances: []domain.OutstandingBalance{},
		Status:              domain.LoanStatusActive,
	})

	if _, err := svc.GetLoans(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if loanRepo.Updates != 0 {
		t.Errorf("Expected no persistence for unchanged loan, got %d updates", loanRepo.Updates)
	}
}

func TestGetLoansByBorrower_UnknownBorrower(t *testing.T) {
	svc, _, _ := newLoanServiceFixture()

	_, err := svc.GetLoansByBorrower(99)
	if !errors.Is(err, domain.ErrBorrowerNotFound) {
		t.Errorf("Expected ErrBorrowerNotFound, got %v", err)
	}
}

func TestDeleteLoan(t *testing.T) {
	svc, loanRepo, _ := newLoanServiceFixture()
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)

	loanRepo.AddLoan(&domain.Loan{
		ID:                  5,
		BorrowerID:          1,
		TotalPrice:          decimal.NewFromInt(1000),
		MonthlyDue:          decimal.NewFromInt(100),
		TotalPaid:           decimal.Zero,
		Penalty:             decimal.Zero,
		OutstandingBalances: []domain.OutstandingBalance{},
		Status:              domain.LoanStatusActive,
	})

	if err := svc.DeleteLoan(5); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := loanRepo.GetByID(5); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Error("Expected loan to be deleted")
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "loan.deleted" {
		t.Errorf("Expected a loan.deleted event, got %v", types)
	}
}

func TestDeleteLoan_NotFound(t *testing.T) {
	svc, _, _ := newLoanServiceFixture()

	if err := svc.DeleteLoan(123); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Errorf("Expected ErrLoanNotFound, got %v", err)
	}
}
