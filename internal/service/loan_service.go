package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LoanService handles loan business logic
type LoanService struct {
	loanRepo       domain.LoanRepository
	borrowerRepo   domain.BorrowerRepository
	eventPublisher websocket.EventPublisher
}

// NewLoanService creates a new LoanService
func NewLoanService(loanRepo domain.LoanRepository, borrowerRepo domain.BorrowerRepository) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		borrowerRepo: borrowerRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *LoanService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *LoanService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateLoanInput contains input for creating a loan
type CreateLoanInput struct {
	BorrowerID         int32
	ItemName           string
	TotalPrice         decimal.Decimal
	Downpayment        decimal.Decimal
	Terms              int32
	MonthlyInterestPct decimal.Decimal
	LoanCreatedDate    time.Time
	FirstDueDate       *time.Time
	Notes              *string
}

// CreateLoan creates a new loan. The monthly due is computed once here
// from the loan terms and treated as fixed for the life of the loan.
func (s *LoanService) CreateLoan(input CreateLoanInput) (*domain.Loan, error) {
	itemName := strings.TrimSpace(input.ItemName)

	borrower, err := s.borrowerRepo.GetByID(input.BorrowerID)
	if err != nil {
		return nil, err
	}

	monthlyDue, err := CalculateMonthlyDue(input.TotalPrice, input.Downpayment, input.Terms, input.MonthlyInterestPct)
	if err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		BorrowerID:          input.BorrowerID,
		BorrowerName:        borrower.FullName,
		ItemName:            itemName,
		TotalPrice:          input.TotalPrice,
		Downpayment:         input.Downpayment,
		Terms:               input.Terms,
		MonthlyInterestPct:  input.MonthlyInterestPct,
		LoanCreatedDate:     input.LoanCreatedDate,
		FirstDueDate:        input.FirstDueDate,
		MonthlyDue:          monthlyDue,
		TotalPaid:           decimal.Zero,
		PaymentProgress:     fmt.Sprintf("0 of %d payments made", input.Terms),
		OutstandingBalances: []domain.OutstandingBalance{},
		Penalty:             decimal.Zero,
		Status:              domain.LoanStatusActive,
		Notes:               input.Notes,
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	created, err := s.loanRepo.Create(loan)
	if err != nil {
		return nil, err
	}

	stats := borrower.LoanStats
	stats.TotalLoans++
	if err := s.borrowerRepo.UpdateStats(borrower.ID, stats); err != nil {
		log.Warn().Err(err).Int32("borrower_id", borrower.ID).Msg("Failed to update borrower loan count")
	}

	return created, nil
}

// PreviewLoanInput contains input for previewing loan calculations
type PreviewLoanInput struct {
	TotalPrice         decimal.Decimal
	Downpayment        decimal.Decimal
	Terms              int32
	MonthlyInterestPct decimal.Decimal
}

// PreviewLoanResult contains the calculated values for a loan
type PreviewLoanResult struct {
	MonthlyDue         decimal.Decimal
	TotalInterest      decimal.Decimal
	TotalAmountPayable decimal.Decimal
}

// PreviewLoan calculates loan figures without creating the loan
func (s *LoanService) PreviewLoan(input PreviewLoanInput) (*PreviewLoanResult, error) {
	monthlyDue, err := CalculateMonthlyDue(input.TotalPrice, input.Downpayment, input.Terms, input.MonthlyInterestPct)
	if err != nil {
		return nil, err
	}
	totalInterest, err := CalculateTotalInterest(input.TotalPrice, input.Downpayment, input.Terms, input.MonthlyInterestPct)
	if err != nil {
		return nil, err
	}
	totalPayable, err := CalculateTotalAmountPayable(input.TotalPrice, input.Downpayment, input.Terms, input.MonthlyInterestPct)
	if err != nil {
		return nil, err
	}

	return &PreviewLoanResult{
		MonthlyDue:         monthlyDue,
		TotalInterest:      totalInterest,
		TotalAmountPayable: totalPayable,
	}, nil
}

// GetLoans retrieves all loans with statuses refreshed as of now.
// Refreshed snapshots that differ from the stored record are persisted
// so penalties and status labels stay current between sweeps.
func (s *LoanService) GetLoans() ([]*domain.Loan, error) {
	loans, err := s.loanRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return s.refreshAll(loans, time.Now()), nil
}

// GetLoansByBorrower retrieves a borrower's loans with refreshed statuses
func (s *LoanService) GetLoansByBorrower(borrowerID int32) ([]*domain.Loan, error) {
	if _, err := s.borrowerRepo.GetByID(borrowerID); err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.GetByBorrower(borrowerID)
	if err != nil {
		return nil, err
	}
	return s.refreshAll(loans, time.Now()), nil
}

// GetLoanByID retrieves a loan by ID with a refreshed status
func (s *LoanService) GetLoanByID(id int32) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.refresh(loan, time.Now()), nil
}

// DeleteLoan deletes a loan
func (s *LoanService) DeleteLoan(id int32) error {
	loan, err := s.loanRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.loanRepo.Delete(id); err != nil {
		return err
	}
	s.publishEvent(websocket.LoanDeleted(map[string]interface{}{"id": loan.ID}))
	return nil
}

// refresh runs a loan through the status engine and persists the result
// when it differs from the stored record.
func (s *LoanService) refresh(loan *domain.Loan, now time.Time) *domain.Loan {
	updated := RefreshLoanStatus(loan, now)
	if !loanStatusChanged(loan, updated) {
		return updated
	}

	persisted, err := s.loanRepo.Update(updated)
	if err != nil {
		log.Error().Err(err).Int32("loan_id", loan.ID).Msg("Failed to persist refreshed loan status")
		return updated
	}
	s.publishEvent(websocket.LoanUpdated(persisted))
	return persisted
}

func (s *LoanService) refreshAll(loans []*domain.Loan, now time.Time) []*domain.Loan {
	result := make([]*domain.Loan, len(loans))
	for i, loan := range loans {
		result[i] = s.refresh(loan, now)
	}
	return result
}

// loanStatusChanged reports whether the engine produced a different
// status, penalty, or balance list than the stored snapshot.
func loanStatusChanged(before, after *domain.Loan) bool {
	if before.Status != after.Status || !before.Penalty.Equal(after.Penalty) {
		return true
	}
	if len(before.OutstandingBalances) != len(after.OutstandingBalances) {
		return true
	}
	for i := range before.OutstandingBalances {
		a, b := before.OutstandingBalances[i], after.OutstandingBalances[i]
		if !a.DueDate.Equal(b.DueDate) || !a.BaseAmount.Equal(b.BaseAmount) || !a.PenaltyAmount.Equal(b.PenaltyAmount) {
			return true
		}
	}
	return false
}
