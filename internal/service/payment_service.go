package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PaymentService handles payment business logic
type PaymentService struct {
	paymentRepo    domain.PaymentRepository
	loanRepo       domain.LoanRepository
	borrowerRepo   domain.BorrowerRepository
	eventPublisher websocket.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo domain.PaymentRepository, loanRepo domain.LoanRepository, borrowerRepo domain.BorrowerRepository) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		loanRepo:     loanRepo,
		borrowerRepo: borrowerRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *PaymentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PaymentService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// RecordPaymentInput contains input for recording a payment
type RecordPaymentInput struct {
	LoanID        int32
	AmountPaid    decimal.Decimal
	PaymentDate   time.Time
	PaymentMethod string
	Notes         *string
}

// RecordPayment applies a payment against a loan. The amount is
// allocated to outstanding balances oldest first, the loan's running
// totals and status are updated, and the payment and loan are persisted
// together. Any amount beyond the outstanding balances is credited
// against the remaining principal as a prepayment.
func (s *PaymentService) RecordPayment(input RecordPaymentInput) (*domain.Payment, error) {
	if !input.AmountPaid.IsPositive() {
		return nil, domain.ErrPaymentAmountInvalid
	}
	if !domain.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, domain.ErrPaymentMethodInvalid
	}

	stored, err := s.loanRepo.GetByID(input.LoanID)
	if err != nil {
		return nil, err
	}
	loan := RefreshLoanStatus(stored, input.PaymentDate)

	if loan.IsFullyPaid() {
		return nil, domain.ErrPaymentExceedsBalance
	}

	// Remaining obligation is whatever of the total price is still
	// unpaid plus all accrued penalties. Payments beyond that have
	// nothing to settle.
	remaining := loan.TotalPrice.Sub(loan.TotalPaid).Add(loan.Penalty)
	if input.AmountPaid.GreaterThan(remaining) {
		return nil, domain.ErrPaymentExceedsBalance
	}

	allocation, err := AllocatePayment(loan.OutstandingBalances, input.AmountPaid)
	if err != nil {
		return nil, err
	}

	// Everything that did not go to penalties reduces the principal,
	// including any remainder left after the due balances are cleared.
	principalPaid := input.AmountPaid.Sub(allocation.PenaltyPaid)

	loan.OutstandingBalances = allocation.UpdatedBalances
	loan.TotalPaid = loan.TotalPaid.Add(principalPaid)
	if loan.TotalPaid.GreaterThan(loan.TotalPrice) {
		loan.TotalPaid = loan.TotalPrice
	}
	paymentDate := input.PaymentDate
	loan.LastPaymentDate = &paymentDate
	loan.PaymentProgress = paymentProgress(loan)

	// The engine decides the resulting status, including the terminal
	// Fully Paid transition once totalPaid reaches the total price.
	refreshed := RefreshLoanStatus(loan, input.PaymentDate)
	loan.Status = refreshed.Status
	loan.Penalty = refreshed.Penalty
	loan.OutstandingBalances = refreshed.OutstandingBalances

	paymentStatus := domain.PaymentStatusPartial
	if len(allocation.UpdatedBalances) == 0 {
		paymentStatus = domain.PaymentStatusFull
	}

	var notes *string
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed != "" {
			notes = &trimmed
		}
	}

	payment := &domain.Payment{
		ReferenceNumber: uuid.New().String(),
		LoanID:          loan.ID,
		BorrowerID:      loan.BorrowerID,
		AmountPaid:      input.AmountPaid,
		PenaltyPaid:     allocation.PenaltyPaid,
		PaymentDate:     input.PaymentDate,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Notes:           notes,
	}

	if err := payment.Validate(); err != nil {
		return nil, err
	}

	created, err := s.paymentRepo.CreateWithLoan(payment, loan)
	if err != nil {
		return nil, err
	}

	s.bumpBorrowerTotals(loan.BorrowerID, input.AmountPaid)

	s.publishEvent(websocket.PaymentCreated(created))
	s.publishEvent(websocket.LoanUpdated(loan))

	return created, nil
}

// GetPayments retrieves all payments
func (s *PaymentService) GetPayments() ([]*domain.Payment, error) {
	return s.paymentRepo.GetAll()
}

// GetPaymentByID retrieves a payment by ID
func (s *PaymentService) GetPaymentByID(id int32) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(id)
}

// GetPaymentsByLoan retrieves all payments for a loan
func (s *PaymentService) GetPaymentsByLoan(loanID int32) ([]*domain.Payment, error) {
	if _, err := s.loanRepo.GetByID(loanID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByLoan(loanID)
}

// DeletePayment deletes a payment record. The loan's totals are not
// rewound; deleting a payment is a bookkeeping correction, not a refund.
func (s *PaymentService) DeletePayment(id int32) error {
	if _, err := s.paymentRepo.GetByID(id); err != nil {
		return err
	}
	return s.paymentRepo.Delete(id)
}

func (s *PaymentService) bumpBorrowerTotals(borrowerID int32, amount decimal.Decimal) {
	borrower, err := s.borrowerRepo.GetByID(borrowerID)
	if err != nil {
		log.Warn().Err(err).Int32("borrower_id", borrowerID).Msg("Failed to load borrower for stats update")
		return
	}
	stats := borrower.LoanStats
	stats.TotalPaid = stats.TotalPaid.Add(amount)
	if err := s.borrowerRepo.UpdateStats(borrowerID, stats); err != nil {
		log.Warn().Err(err).Int32("borrower_id", borrowerID).Msg("Failed to update borrower payment totals")
	}
}

// paymentProgress renders the "N of M payments made" label from the
// amount of principal retired so far.
func paymentProgress(loan *domain.Loan) string {
	if loan.MonthlyDue.IsZero() {
		return fmt.Sprintf("0 of %d payments made", loan.Terms)
	}
	made := loan.TotalPaid.Div(loan.MonthlyDue).IntPart()
	if made > int64(loan.Terms) {
		made = int64(loan.Terms)
	}
	return fmt.Sprintf("%d of %d payments made", made, loan.Terms)
}
