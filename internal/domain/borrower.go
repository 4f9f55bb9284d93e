package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrBorrowerNotFound       = errors.New("borrower not found")
	ErrBorrowerNameEmpty      = errors.New("borrower full name is required")
	ErrBorrowerNameTooLong    = errors.New("borrower full name must be 200 characters or less")
	ErrBorrowerAddressEmpty   = errors.New("borrower home address is required")
	ErrBorrowerContactEmpty   = errors.New("borrower primary contact is required")
	ErrBorrowerHasActiveLoans = errors.New("borrower still has active loans")
)

// ReferenceContact is a person vouching for a borrower.
type ReferenceContact struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// LoanStats aggregates a borrower's lending history.
type LoanStats struct {
	TotalLoans   int32           `json:"totalLoans"`
	LatePayments int32           `json:"latePayments"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
}

type Borrower struct {
	ID                int32            `json:"id"`
	FullName          string           `json:"fullName"`
	HomeAddress       string           `json:"homeAddress"`
	PrimaryContact    string           `json:"primaryContact"`
	ContactEmail      *string          `json:"contactEmail,omitempty"`
	WorkAddress       *string          `json:"workAddress,omitempty"`
	ReferenceContact1 ReferenceContact `json:"referenceContact1"`
	ReferenceContact2 ReferenceContact `json:"referenceContact2"`
	PhotoURL          *string          `json:"photoURL,omitempty"`
	LoanStats         LoanStats        `json:"loanStats"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

func (b *Borrower) Validate() error {
	if b.FullName == "" {
		return ErrBorrowerNameEmpty
	}
	if len(b.FullName) > 200 {
		return ErrBorrowerNameTooLong
	}
	if b.HomeAddress == "" {
		return ErrBorrowerAddressEmpty
	}
	if b.PrimaryContact == "" {
		return ErrBorrowerContactEmpty
	}
	return nil
}

type BorrowerRepository interface {
	Create(borrower *Borrower) (*Borrower, error)
	GetByID(id int32) (*Borrower, error)
	GetAll() ([]*Borrower, error)
	Update(borrower *Borrower) (*Borrower, error)
	UpdateStats(id int32, stats LoanStats) error
	Delete(id int32) error
}
