package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	BorrowerID         int32   `json:"borrowerId"`
	ItemName           string  `json:"itemName"`
	TotalPrice         string  `json:"totalPrice"`
	Downpayment        string  `json:"downpayment"`
	Terms              int32   `json:"terms"`
	MonthlyInterestPct string  `json:"monthlyInterestPct"`
	LoanCreatedDate    string  `json:"loanCreatedDate"`
	FirstDueDate       *string `json:"firstDueDate,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// PreviewLoanRequest represents the preview loan request body
type PreviewLoanRequest struct {
	TotalPrice         string `json:"totalPrice"`
	Downpayment        string `json:"downpayment"`
	Terms              int32  `json:"terms"`
	MonthlyInterestPct string `json:"monthlyInterestPct"`
}

// PreviewLoanResponse represents the preview loan calculation result
type PreviewLoanResponse struct {
	MonthlyDue         string `json:"monthlyDue"`
	TotalInterest      string `json:"totalInterest"`
	TotalAmountPayable string `json:"totalAmountPayable"`
}

// OutstandingBalanceResponse represents one overdue installment in API responses
type OutstandingBalanceResponse struct {
	DueDate       string `json:"dueDate"`
	BaseAmount    string `json:"baseAmount"`
	PenaltyAmount string `json:"penaltyAmount"`
	TotalDue      string `json:"totalDue"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID                  int32                        `json:"id"`
	BorrowerID          int32                        `json:"borrowerId"`
	BorrowerName        string                       `json:"borrowerName"`
	ItemName            string                       `json:"itemName"`
	TotalPrice          string                       `json:"totalPrice"`
	Downpayment         string                       `json:"downpayment"`
	Terms               int32                        `json:"terms"`
	MonthlyInterestPct  string                       `json:"monthlyInterestPct"`
	LoanCreatedDate     string                       `json:"loanCreatedDate"`
	FirstDueDate        *string                      `json:"firstDueDate,omitempty"`
	MonthlyDue          string                       `json:"monthlyDue"`
	TotalPaid           string                       `json:"totalPaid"`
	PaymentProgress     string                       `json:"paymentProgress"`
	OutstandingBalances []OutstandingBalanceResponse `json:"outstandingBalances"`
	Penalty             string                       `json:"penalty"`
	Status              string                       `json:"status"`
	Notes               *string                      `json:"notes,omitempty"`
	LastPaymentDate     *string                      `json:"lastPaymentDate,omitempty"`
	CreatedAt           string                       `json:"createdAt"`
	UpdatedAt           string                       `json:"updatedAt"`
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalPrice, err := decimal.NewFromString(req.TotalPrice)
	if err != nil {
		return NewValidationError(c, "Invalid total price", []ValidationError{
			{Field: "totalPrice", Message: "Must be a valid decimal number"},
		})
	}

	downpayment := decimal.Zero
	if req.Downpayment != "" {
		downpayment, err = decimal.NewFromString(req.Downpayment)
		if err != nil {
			return NewValidationError(c, "Invalid downpayment", []ValidationError{
				{Field: "downpayment", Message: "Must be a valid decimal number"},
			})
		}
	}

	interestPct := decimal.Zero
	if req.MonthlyInterestPct != "" {
		interestPct, err = decimal.NewFromString(req.MonthlyInterestPct)
		if err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "monthlyInterestPct", Message: "Must be a valid decimal number"},
			})
		}
	}

	createdDate, err := time.Parse("2006-01-02", req.LoanCreatedDate)
	if err != nil {
		return NewValidationError(c, "Invalid loan created date", []ValidationError{
			{Field: "loanCreatedDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	var firstDueDate *time.Time
	if req.FirstDueDate != nil && *req.FirstDueDate != "" {
		due, err := time.Parse("2006-01-02", *req.FirstDueDate)
		if err != nil {
			return NewValidationError(c, "Invalid first due date", []ValidationError{
				{Field: "firstDueDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		firstDueDate = &due
	}

	input := service.CreateLoanInput{
		BorrowerID:         req.BorrowerID,
		ItemName:           req.ItemName,
		TotalPrice:         totalPrice,
		Downpayment:        downpayment,
		Terms:              req.Terms,
		MonthlyInterestPct: interestPct,
		LoanCreatedDate:    createdDate,
		FirstDueDate:       firstDueDate,
		Notes:              req.Notes,
	}

	loan, err := h.loanService.CreateLoan(input)
	if err != nil {
		if errors.Is(err, domain.ErrBorrowerNotFound) {
			return NewNotFoundError(c, "Borrower not found")
		}
		if errors.Is(err, domain.ErrLoanItemNameEmpty) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "itemName", Message: "Item name is required"},
			})
		}
		if errors.Is(err, domain.ErrLoanItemNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "itemName", Message: "Item name must be 200 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrLoanAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "totalPrice", Message: "Total price must be positive"},
			})
		}
		if errors.Is(err, domain.ErrLoanDownpaymentInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "downpayment", Message: "Downpayment must be at least zero and less than the total price"},
			})
		}
		if errors.Is(err, domain.ErrLoanTermsInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "terms", Message: "Terms must be at least 1"},
			})
		}
		if errors.Is(err, domain.ErrLoanInterestInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "monthlyInterestPct", Message: "Interest rate must be at least zero"},
			})
		}
		log.Error().Err(err).Int32("borrower_id", req.BorrowerID).Msg("Failed to create loan")
		return NewInternalError(c, "Failed to create loan")
	}

	log.Info().Int32("loan_id", loan.ID).Int32("borrower_id", loan.BorrowerID).Str("item", loan.ItemName).Msg("Loan created")

	return c.JSON(http.StatusCreated, toLoanResponse(loan))
}

// PreviewLoan handles POST /api/v1/loans/preview
func (h *LoanHandler) PreviewLoan(c echo.Context) error {
	var req PreviewLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	totalPrice, err := decimal.NewFromString(req.TotalPrice)
	if err != nil {
		return NewValidationError(c, "Invalid total price", []ValidationError{
			{Field: "totalPrice", Message: "Must be a valid decimal number"},
		})
	}

	downpayment := decimal.Zero
	if req.Downpayment != "" {
		downpayment, err = decimal.NewFromString(req.Downpayment)
		if err != nil {
			return NewValidationError(c, "Invalid downpayment", []ValidationError{
				{Field: "downpayment", Message: "Must be a valid decimal number"},
			})
		}
	}

	interestPct := decimal.Zero
	if req.MonthlyInterestPct != "" {
		interestPct, err = decimal.NewFromString(req.MonthlyInterestPct)
		if err != nil {
			return NewValidationError(c, "Invalid interest rate", []ValidationError{
				{Field: "monthlyInterestPct", Message: "Must be a valid decimal number"},
			})
		}
	}

	result, err := h.loanService.PreviewLoan(service.PreviewLoanInput{
		TotalPrice:         totalPrice,
		Downpayment:        downpayment,
		Terms:              req.Terms,
		MonthlyInterestPct: interestPct,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoanAmountInvalid) ||
			errors.Is(err, domain.ErrLoanDownpaymentInvalid) ||
			errors.Is(err, domain.ErrLoanTermsInvalid) ||
			errors.Is(err, domain.ErrLoanInterestInvalid) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("Failed to preview loan")
		return NewInternalError(c, "Failed to preview loan")
	}

	return c.JSON(http.StatusOK, PreviewLoanResponse{
		MonthlyDue:         result.MonthlyDue.StringFixed(2),
		TotalInterest:      result.TotalInterest.StringFixed(2),
		TotalAmountPayable: result.TotalAmountPayable.StringFixed(2),
	})
}

// GetLoans handles GET /api/v1/loans
func (h *LoanHandler) GetLoans(c echo.Context) error {
	loans, err := h.loanService.GetLoans()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get loans")
		return NewInternalError(c, "Failed to get loans")
	}

	response := make([]LoanResponse, len(loans))
	for i, loan := range loans {
		response[i] = toLoanResponse(loan)
	}

	return c.JSON(http.StatusOK, response)
}

// GetLoan handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.GetLoanByID(int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int("loan_id", id).Msg("Failed to get loan")
		return NewInternalError(c, "Failed to get loan")
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// DeleteLoan handles DELETE /api/v1/loans/:id
func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	if err := h.loanService.DeleteLoan(int32(id)); err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int("loan_id", id).Msg("Failed to delete loan")
		return NewInternalError(c, "Failed to delete loan")
	}

	log.Info().Int("loan_id", id).Msg("Loan deleted")

	return c.NoContent(http.StatusNoContent)
}

func toLoanResponse(loan *domain.Loan) LoanResponse {
	balances := make([]OutstandingBalanceResponse, len(loan.OutstandingBalances))
	for i, b := range loan.OutstandingBalances {
		balances[i] = OutstandingBalanceResponse{
			DueDate:       b.DueDate.Format("2006-01-02"),
			BaseAmount:    b.BaseAmount.StringFixed(2),
			PenaltyAmount: b.PenaltyAmount.StringFixed(2),
			TotalDue:      b.TotalDue().StringFixed(2),
		}
	}

	var firstDueDate *string
	if loan.FirstDueDate != nil {
		s := loan.FirstDueDate.Format("2006-01-02")
		firstDueDate = &s
	}

	var lastPaymentDate *string
	if loan.LastPaymentDate != nil {
		s := loan.LastPaymentDate.Format(time.RFC3339)
		lastPaymentDate = &s
	}

	return LoanResponse{
		ID:                  loan.ID,
		BorrowerID:          loan.BorrowerID,
		BorrowerName:        loan.BorrowerName,
		ItemName:            loan.ItemName,
		TotalPrice:          loan.TotalPrice.StringFixed(2),
		Downpayment:         loan.Downpayment.StringFixed(2),
		Terms:               loan.Terms,
		MonthlyInterestPct:  loan.MonthlyInterestPct.String(),
		LoanCreatedDate:     loan.LoanCreatedDate.Format("2006-01-02"),
		FirstDueDate:        firstDueDate,
		MonthlyDue:          loan.MonthlyDue.StringFixed(2),
		TotalPaid:           loan.TotalPaid.StringFixed(2),
		PaymentProgress:     loan.PaymentProgress,
		OutstandingBalances: balances,
		Penalty:             loan.Penalty.StringFixed(2),
		Status:              loan.Status,
		Notes:               loan.Notes,
		LastPaymentDate:     lastPaymentDate,
		CreatedAt:           loan.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           loan.UpdatedAt.Format(time.RFC3339),
	}
}
