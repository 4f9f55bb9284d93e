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

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest represents the record payment request body
type RecordPaymentRequest struct {
	LoanID        int32   `json:"loanId"`
	AmountPaid    string  `json:"amountPaid"`
	PaymentDate   string  `json:"paymentDate"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         *string `json:"notes,omitempty"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID              int32   `json:"id"`
	ReferenceNumber string  `json:"referenceNumber"`
	LoanID          int32   `json:"loanId"`
	BorrowerID      int32   `json:"borrowerId"`
	AmountPaid      string  `json:"amountPaid"`
	PenaltyPaid     string  `json:"penaltyPaid"`
	PaymentDate     string  `json:"paymentDate"`
	PaymentMethod   string  `json:"paymentMethod"`
	PaymentStatus   string  `json:"paymentStatus"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// RecordPayment handles POST /api/v1/payments
func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amountPaid, err := decimal.NewFromString(req.AmountPaid)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amountPaid", Message: "Must be a valid decimal number"},
		})
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return NewValidationError(c, "Invalid payment date", []ValidationError{
			{Field: "paymentDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	payment, err := h.paymentService.RecordPayment(service.RecordPaymentInput{
		LoanID:        req.LoanID,
		AmountPaid:    amountPaid,
		PaymentDate:   paymentDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		if errors.Is(err, domain.ErrPaymentAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amountPaid", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrPaymentMethodInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "paymentMethod", Message: "Must be Cash, Bank Transfer, or Check"},
			})
		}
		if errors.Is(err, domain.ErrPaymentExceedsBalance) {
			return NewConflictError(c, "Payment exceeds the remaining balance of the loan")
		}
		log.Error().Err(err).Int32("loan_id", req.LoanID).Msg("Failed to record payment")
		return NewInternalError(c, "Failed to record payment")
	}

	log.Info().
		Int32("payment_id", payment.ID).
		Int32("loan_id", payment.LoanID).
		Str("amount", payment.AmountPaid.StringFixed(2)).
		Msg("Payment recorded")

	return c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// GetPayments handles GET /api/v1/payments
func (h *PaymentHandler) GetPayments(c echo.Context) error {
	payments, err := h.paymentService.GetPayments()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get payments")
		return NewInternalError(c, "Failed to get payments")
	}
	return c.JSON(http.StatusOK, toPaymentResponses(payments))
}

// GetPayment handles GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	payment, err := h.paymentService.GetPaymentByID(int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return NewNotFoundError(c, "Payment not found")
		}
		log.Error().Err(err).Int("payment_id", id).Msg("Failed to get payment")
		return NewInternalError(c, "Failed to get payment")
	}

	return c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// GetLoanPayments handles GET /api/v1/loans/:id/payments
func (h *PaymentHandler) GetLoanPayments(c echo.Context) error {
	loanID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	payments, err := h.paymentService.GetPaymentsByLoan(int32(loanID))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int("loan_id", loanID).Msg("Failed to get loan payments")
		return NewInternalError(c, "Failed to get loan payments")
	}

	return c.JSON(http.StatusOK, toPaymentResponses(payments))
}

// DeletePayment handles DELETE /api/v1/payments/:id
func (h *PaymentHandler) DeletePayment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	if err := h.paymentService.DeletePayment(int32(id)); err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return NewNotFoundError(c, "Payment not found")
		}
		log.Error().Err(err).Int("payment_id", id).Msg("Failed to delete payment")
		return NewInternalError(c, "Failed to delete payment")
	}

	log.Info().Int("payment_id", id).Msg("Payment deleted")

	return c.NoContent(http.StatusNoContent)
}

func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              payment.ID,
		ReferenceNumber: payment.ReferenceNumber,
		LoanID:          payment.LoanID,
		BorrowerID:      payment.BorrowerID,
		AmountPaid:      payment.AmountPaid.StringFixed(2),
		PenaltyPaid:     payment.PenaltyPaid.StringFixed(2),
		PaymentDate:     payment.PaymentDate.Format("2006-01-02"),
		PaymentMethod:   payment.PaymentMethod,
		PaymentStatus:   payment.PaymentStatus,
		Notes:           payment.Notes,
		CreatedAt:       payment.CreatedAt.Format(time.RFC3339),
	}
}

func toPaymentResponses(payments []*domain.Payment) []PaymentResponse {
	response := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		response[i] = toPaymentResponse(p)
	}
	return response
}
