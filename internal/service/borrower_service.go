package service

import (
	"strings"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/websocket"
)

// BorrowerService handles borrower business logic
type BorrowerService struct {
	borrowerRepo   domain.BorrowerRepository
	loanRepo       domain.LoanRepository
	eventPublisher websocket.EventPublisher
}

// NewBorrowerService creates a new BorrowerService
func NewBorrowerService(borrowerRepo domain.BorrowerRepository, loanRepo domain.LoanRepository) *BorrowerService {
	return &BorrowerService{
		borrowerRepo: borrowerRepo,
		loanRepo:     loanRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BorrowerService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BorrowerService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateBorrowerInput contains input for creating a borrower
type CreateBorrowerInput struct {
	FullName          string
	HomeAddress       string
	PrimaryContact    string
	ContactEmail      *string
	WorkAddress       *string
	ReferenceContact1 domain.ReferenceContact
	ReferenceContact2 domain.ReferenceContact
}

// CreateBorrower creates a new borrower with zeroed loan statistics
func (s *BorrowerService) CreateBorrower(input CreateBorrowerInput) (*domain.Borrower, error) {
	borrower := &domain.Borrower{
		FullName:          strings.TrimSpace(input.FullName),
		HomeAddress:       strings.TrimSpace(input.HomeAddress),
		PrimaryContact:    strings.TrimSpace(input.PrimaryContact),
		ContactEmail:      input.ContactEmail,
		WorkAddress:       input.WorkAddress,
		ReferenceContact1: input.ReferenceContact1,
		ReferenceContact2: input.ReferenceContact2,
		LoanStats:         domain.LoanStats{},
	}
	if err := borrower.Validate(); err != nil {
		return nil, err
	}
	return s.borrowerRepo.Create(borrower)
}

// GetBorrowers retrieves all borrowers
func (s *BorrowerService) GetBorrowers() ([]*domain.Borrower, error) {
	return s.borrowerRepo.GetAll()
}

// GetBorrowerByID retrieves a borrower by ID
func (s *BorrowerService) GetBorrowerByID(id int32) (*domain.Borrower, error) {
	return s.borrowerRepo.GetByID(id)
}

// UpdateBorrowerInput contains input for updating a borrower's profile.
// Loan statistics are maintained by the loan and payment services and
// cannot be set directly.
type UpdateBorrowerInput struct {
	FullName          string
	HomeAddress       string
	PrimaryContact    string
	ContactEmail      *string
	WorkAddress       *string
	ReferenceContact1 domain.ReferenceContact
	ReferenceContact2 domain.ReferenceContact
}

// UpdateBorrower updates a borrower's profile fields
func (s *BorrowerService) UpdateBorrower(id int32, input UpdateBorrowerInput) (*domain.Borrower, error) {
	borrower, err := s.borrowerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	borrower.FullName = strings.TrimSpace(input.FullName)
	borrower.HomeAddress = strings.TrimSpace(input.HomeAddress)
	borrower.PrimaryContact = strings.TrimSpace(input.PrimaryContact)
	borrower.ContactEmail = input.ContactEmail
	borrower.WorkAddress = input.WorkAddress
	borrower.ReferenceContact1 = input.ReferenceContact1
	borrower.ReferenceContact2 = input.ReferenceContact2

	if err := borrower.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.borrowerRepo.Update(borrower)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.BorrowerUpdated(updated))
	return updated, nil
}

// SetPhotoURL stores the URL of a borrower's uploaded photo
func (s *BorrowerService) SetPhotoURL(id int32, url string) (*domain.Borrower, error) {
	borrower, err := s.borrowerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	borrower.PhotoURL = &url
	updated, err := s.borrowerRepo.Update(borrower)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.BorrowerUpdated(updated))
	return updated, nil
}

// DeleteBorrower deletes a borrower. Borrowers with loans that are not
// fully paid cannot be deleted.
func (s *BorrowerService) DeleteBorrower(id int32) error {
	if _, err := s.borrowerRepo.GetByID(id); err != nil {
		return err
	}
	loans, err := s.loanRepo.GetByBorrower(id)
	if err != nil {
		return err
	}
	for _, loan := range loans {
		if !loan.IsFullyPaid() {
			return domain.ErrBorrowerHasActiveLoans
		}
	}
	return s.borrowerRepo.Delete(id)
}
