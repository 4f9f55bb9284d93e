package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentAmountInvalid  = errors.New("payment amount must be positive")
	ErrPaymentLoanIDRequired = errors.New("loan ID is required")
	ErrPaymentMethodInvalid  = errors.New("payment method must be Cash, Bank Transfer, or Check")
	ErrPaymentExceedsBalance = errors.New("payment exceeds the remaining balance of the loan")
)

// Payment methods accepted by the admin tool.
const (
	PaymentMethodCash         = "Cash"
	PaymentMethodBankTransfer = "Bank Transfer"
	PaymentMethodCheck        = "Check"
)

// Payment statuses. Derived from the allocation result, never supplied
// by the caller: Full when the payment retired every outstanding
// balance, Partial otherwise.
const (
	PaymentStatusFull    = "Full"
	PaymentStatusPartial = "Partial"
)

// IsValidPaymentMethod reports whether method is one of the accepted
// payment methods.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck:
		return true
	}
	return false
}

// Payment records a single application of money against a loan. Payments
// are immutable once created; corrections are new payments.
type Payment struct {
	ID              int32           `json:"id"`
	ReferenceNumber string          `json:"referenceNumber"`
	LoanID          int32           `json:"loanId"`
	BorrowerID      int32           `json:"borrowerId"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	PenaltyPaid     decimal.Decimal `json:"penaltyPaid"`
	PaymentDate     time.Time       `json:"paymentDate"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (p *Payment) Validate() error {
	if p.LoanID <= 0 {
		return ErrPaymentLoanIDRequired
	}
	if p.AmountPaid.LessThanOrEqual(decimal.Zero) {
		return ErrPaymentAmountInvalid
	}
	switch p.PaymentMethod {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck:
	default:
		return ErrPaymentMethodInvalid
	}
	return nil
}

type PaymentRepository interface {
	Create(payment *Payment) (*Payment, error)
	// CreateWithLoan persists the payment and the updated loan snapshot
	// atomically. Two concurrent payments against the same loan must not
	// interleave their read-modify-write of the loan record.
	CreateWithLoan(payment *Payment, loan *Loan) (*Payment, error)
	GetByID(id int32) (*Payment, error)
	GetAll() ([]*Payment, error)
	GetByLoan(loanID int32) ([]*Payment, error)
	Delete(id int32) error
}
