package service

import (
	"strings"
	"time"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	borrowerRepo domain.BorrowerRepository
	loanService  *LoanService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(borrowerRepo domain.BorrowerRepository, loanService *LoanService) *DashboardService {
	return &DashboardService{
		borrowerRepo: borrowerRepo,
		loanService:  loanService,
	}
}

// GetSummary returns the portfolio summary as of now. Loans are pulled
// through the loan service so every status and penalty is current.
func (s *DashboardService) GetSummary() (*domain.DashboardSummary, error) {
	return s.getSummary(time.Now())
}

func (s *DashboardService) getSummary(now time.Time) (*domain.DashboardSummary, error) {
	borrowers, err := s.borrowerRepo.GetAll()
	if err != nil {
		return nil, err
	}

	loans, err := s.loanService.GetLoans()
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		TotalBorrowers:   int32(len(borrowers)),
		TotalLoans:       int32(len(loans)),
		TotalOutstanding: decimal.Zero,
		TotalPenalties:   decimal.Zero,
		TotalCollected:   decimal.Zero,
		OverdueLoans:     []*domain.Loan{},
	}

	for _, loan := range loans {
		summary.TotalCollected = summary.TotalCollected.Add(loan.TotalPaid)

		switch {
		case loan.Status == domain.LoanStatusFullyPaid:
			summary.FullyPaidLoans++
			continue
		case loan.IsDelayed():
			summary.DelayedLoans++
			summary.OverdueLoans = append(summary.OverdueLoans, loan)
		default:
			summary.ActiveLoans++
		}

		outstanding := loan.TotalPrice.Sub(loan.TotalPaid)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		summary.TotalOutstanding = summary.TotalOutstanding.Add(outstanding)
		summary.TotalPenalties = summary.TotalPenalties.Add(loan.Penalty)
	}

	return summary, nil
}

// SearchLoans filters loans by borrower name or item name, case
// insensitive substring match.
func (s *DashboardService) SearchLoans(query string) ([]*domain.Loan, error) {
	loans, err := s.loanService.GetLoans()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return loans, nil
	}

	result := []*domain.Loan{}
	for _, loan := range loans {
		if strings.Contains(strings.ToLower(loan.BorrowerName), query) ||
			strings.Contains(strings.ToLower(loan.ItemName), query) {
			result = append(result, loan)
		}
	}
	return result, nil
}
