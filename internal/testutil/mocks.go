package testutil

import (
	"sort"
	"sync"

	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/websocket"
)

// MockBorrowerRepository is a mock implementation of domain.BorrowerRepository
type MockBorrowerRepository struct {
	Borrowers map[int32]*domain.Borrower
	NextID    int32
	UpdateFn  func(borrower *domain.Borrower) (*domain.Borrower, error)
}

// NewMockBorrowerRepository creates a new MockBorrowerRepository
func NewMockBorrowerRepository() *MockBorrowerRepository {
	return &MockBorrowerRepository{
		Borrowers: make(map[int32]*domain.Borrower),
		NextID:    1,
	}
}

// Create creates a new borrower
func (m *MockBorrowerRepository) Create(borrower *domain.Borrower) (*domain.Borrower, error) {
	borrower.ID = m.NextID
	m.NextID++
	m.Borrowers[borrower.ID] = borrower
	return borrower, nil
}

// GetByID retrieves a borrower by ID
func (m *MockBorrowerRepository) GetByID(id int32) (*domain.Borrower, error) {
	if borrower, ok := m.Borrowers[id]; ok {
		return borrower, nil
	}
	return nil, domain.ErrBorrowerNotFound
}

// GetAll retrieves all borrowers ordered by ID
func (m *MockBorrowerRepository) GetAll() ([]*domain.Borrower, error) {
	result := make([]*domain.Borrower, 0, len(m.Borrowers))
	for _, b := range m.Borrowers {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update updates an existing borrower
func (m *MockBorrowerRepository) Update(borrower *domain.Borrower) (*domain.Borrower, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(borrower)
	}
	if _, ok := m.Borrowers[borrower.ID]; !ok {
		return nil, domain.ErrBorrowerNotFound
	}
	m.Borrowers[borrower.ID] = borrower
	return borrower, nil
}

// UpdateStats updates a borrower's aggregate loan statistics
func (m *MockBorrowerRepository) UpdateStats(id int32, stats domain.LoanStats) error {
	borrower, ok := m.Borrowers[id]
	if !ok {
		return domain.ErrBorrowerNotFound
	}
	borrower.LoanStats = stats
	return nil
}

// Delete deletes a borrower
func (m *MockBorrowerRepository) Delete(id int32) error {
	if _, ok := m.Borrowers[id]; !ok {
		return domain.ErrBorrowerNotFound
	}
	delete(m.Borrowers, id)
	return nil
}

// AddBorrower adds a borrower to the mock repository (helper for tests)
func (m *MockBorrowerRepository) AddBorrower(borrower *domain.Borrower) {
	m.Borrowers[borrower.ID] = borrower
	if borrower.ID >= m.NextID {
		m.NextID = borrower.ID + 1
	}
}

// MockLoanRepository is a mock implementation of domain.LoanRepository
type MockLoanRepository struct {
	Loans    map[int32]*domain.Loan
	NextID   int32
	Updates  int
	UpdateFn func(loan *domain.Loan) (*domain.Loan, error)
}

// NewMockLoanRepository creates a new MockLoanRepository
func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		Loans:  make(map[int32]*domain.Loan),
		NextID: 1,
	}
}

// Create creates a new loan
func (m *MockLoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	loan.ID = m.NextID
	m.NextID++
	m.Loans[loan.ID] = loan
	return loan, nil
}

// GetByID retrieves a loan by ID
func (m *MockLoanRepository) GetByID(id int32) (*domain.Loan, error) {
	if loan, ok := m.Loans[id]; ok {
		return loan, nil
	}
	return nil, domain.ErrLoanNotFound
}

// GetAll retrieves all loans ordered by ID
func (m *MockLoanRepository) GetAll() ([]*domain.Loan, error) {
	result := make([]*domain.Loan, 0, len(m.Loans))
	for _, loan := range m.Loans {
		result = append(result, loan)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByBorrower retrieves all loans for a borrower
func (m *MockLoanRepository) GetByBorrower(borrowerID int32) ([]*domain.Loan, error) {
	result := []*domain.Loan{}
	for _, loan := range m.Loans {
		if loan.BorrowerID == borrowerID {
			result = append(result, loan)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update updates an existing loan
func (m *MockLoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	m.Updates++
	if m.UpdateFn != nil {
		return m.UpdateFn(loan)
	}
	if _, ok := m.Loans[loan.ID]; !ok {
		return nil, domain.ErrLoanNotFound
	}
	m.Loans[loan.ID] = loan
	return loan, nil
}

// Delete deletes a loan
func (m *MockLoanRepository) Delete(id int32) error {
	if _, ok := m.Loans[id]; !ok {
		return domain.ErrLoanNotFound
	}
	delete(m.Loans, id)
	return nil
}

// AddLoan adds a loan to the mock repository (helper for tests)
func (m *MockLoanRepository) AddLoan(loan *domain.Loan) {
	m.Loans[loan.ID] = loan
	if loan.ID >= m.NextID {
		m.NextID = loan.ID + 1
	}
}

// MockPaymentRepository is a mock implementation of domain.PaymentRepository
type MockPaymentRepository struct {
	Payments map[int32]*domain.Payment
	NextID   int32
	// LoanRepo receives the loan snapshot in CreateWithLoan so tests can
	// observe the atomically persisted loan state.
	LoanRepo *MockLoanRepository
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository(loanRepo *MockLoanRepository) *MockPaymentRepository {
	return &MockPaymentRepository{
		Payments: make(map[int32]*domain.Payment),
		NextID:   1,
		LoanRepo: loanRepo,
	}
}

// Create creates a new payment
func (m *MockPaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	payment.ID = m.NextID
	m.NextID++
	m.Payments[payment.ID] = payment
	return payment, nil
}

// CreateWithLoan persists the payment and the loan snapshot together
func (m *MockPaymentRepository) CreateWithLoan(payment *domain.Payment, loan *domain.Loan) (*domain.Payment, error) {
	if m.LoanRepo != nil {
		if _, err := m.LoanRepo.Update(loan); err != nil {
			return nil, err
		}
	}
	return m.Create(payment)
}

// GetByID retrieves a payment by ID
func (m *MockPaymentRepository) GetByID(id int32) (*domain.Payment, error) {
	if payment, ok := m.Payments[id]; ok {
		return payment, nil
	}
	return nil, domain.ErrPaymentNotFound
}

// GetAll retrieves all payments ordered by ID
func (m *MockPaymentRepository) GetAll() ([]*domain.Payment, error) {
	result := make([]*domain.Payment, 0, len(m.Payments))
	for _, p := range m.Payments {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByLoan retrieves all payments for a loan
func (m *MockPaymentRepository) GetByLoan(loanID int32) ([]*domain.Payment, error) {
	result := []*domain.Payment{}
	for _, p := range m.Payments {
		if p.LoanID == loanID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete deletes a payment
func (m *MockPaymentRepository) Delete(id int32) error {
	if _, ok := m.Payments[id]; !ok {
		return domain.ErrPaymentNotFound
	}
	delete(m.Payments, id)
	return nil
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// EventTypes returns the types of all recorded events in order
func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}
