package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/domain"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// BorrowerHandler handles borrower-related HTTP requests
type BorrowerHandler struct {
	borrowerService *service.BorrowerService
	loanService     *service.LoanService
	photoService    *service.PhotoService
}

// NewBorrowerHandler creates a new BorrowerHandler
func NewBorrowerHandler(borrowerService *service.BorrowerService, loanService *service.LoanService, photoService *service.PhotoService) *BorrowerHandler {
	return &BorrowerHandler{
		borrowerService: borrowerService,
		loanService:     loanService,
		photoService:    photoService,
	}
}

// ReferenceContactRequest represents a reference contact in requests
type ReferenceContactRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// BorrowerRequest represents the create/update borrower request body
type BorrowerRequest struct {
	FullName          string                  `json:"fullName"`
	HomeAddress       string                  `json:"homeAddress"`
	PrimaryContact    string                  `json:"primaryContact"`
	ContactEmail      *string                 `json:"contactEmail,omitempty"`
	WorkAddress       *string                 `json:"workAddress,omitempty"`
	ReferenceContact1 ReferenceContactRequest `json:"referenceContact1"`
	ReferenceContact2 ReferenceContactRequest `json:"referenceContact2"`
}

// LoanStatsResponse represents a borrower's aggregate statistics
type LoanStatsResponse struct {
	TotalLoans   int32  `json:"totalLoans"`
	LatePayments int32  `json:"latePayments"`
	TotalPaid    string `json:"totalPaid"`
}

// BorrowerResponse represents a borrower in API responses
type BorrowerResponse struct {
	ID                int32                   `json:"id"`
	FullName          string                  `json:"fullName"`
	HomeAddress       string                  `json:"homeAddress"`
	PrimaryContact    string                  `json:"primaryContact"`
	ContactEmail      *string                 `json:"contactEmail,omitempty"`
	WorkAddress       *string                 `json:"workAddress,omitempty"`
	ReferenceContact1 ReferenceContactRequest `json:"referenceContact1"`
	ReferenceContact2 ReferenceContactRequest `json:"referenceContact2"`
	PhotoURL          *string                 `json:"photoURL,omitempty"`
	LoanStats         LoanStatsResponse       `json:"loanStats"`
	CreatedAt         string                  `json:"createdAt"`
	UpdatedAt         string                  `json:"updatedAt"`
}

// CreateBorrower handles POST /api/v1/borrowers
func (h *BorrowerHandler) CreateBorrower(c echo.Context) error {
	var req BorrowerRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	borrower, err := h.borrowerService.CreateBorrower(service.CreateBorrowerInput{
		FullName:          req.FullName,
		HomeAddress:       req.HomeAddress,
		PrimaryContact:    req.PrimaryContact,
		ContactEmail:      req.ContactEmail,
		WorkAddress:       req.WorkAddress,
		ReferenceContact1: domain.ReferenceContact(req.ReferenceContact1),
		ReferenceContact2: domain.ReferenceContact(req.ReferenceContact2),
	})
	if err != nil {
		if verr := borrowerValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Msg("Failed to create borrower")
		return NewInternalError(c, "Failed to create borrower")
	}

	log.Info().Int32("borrower_id", borrower.ID).Str("name", borrower.FullName).Msg("Borrower created")

	return c.JSON(http.StatusCreated, h.toBorrowerResponse(c, borrower))
}

// GetBorrowers handles GET /api/v1/borrowers
func (h *BorrowerHandler) GetBorrowers(c echo.Context) error {
	borrowers, err := h.borrowerService.GetBorrowers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get borrowers")
		return NewInternalError(c, "Failed to get borrowers")
	}

	response := make([]BorrowerResponse, len(borrowers))
	for i, b := range borrowers {
		response[i] = h.toBorrowerResponse(c, b)
	}

	return c.JSON(http.StatusOK, response)
}

// GetBorrower handles GET /api/v1/borrowers/:id
func (h *BorrowerHandler) GetBorrower(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid borrower ID", nil)
	}

	borrower, err := h.borrowerService.GetBorrowerByID(int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrBorrowerNotFound) {
			return NewNotFoundError(c, "Borrower not found")
		}
		log.Error().Err(err).Int("borrower_id", id).Msg("Failed to get borrower")
		return NewInternalError(c, "Failed to get borrower")
	}

	return c.JSON(http.StatusOK, h.toBorrowerResponse(c, borrower))
}

// GetBorrowerLoans handles GET /api/v1/borrowers/:id/loans
func (h *BorrowerHandler) GetBorrowerLoans(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid borrower ID", nil)
	}

	loans, err := h.loanService.GetLoansByBorrower(int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrBorrowerNotFound) {
			return NewNotFoundError(c, "Borrower not found")
		}
		log.Error().Err(err).Int("borrower_id", id).Msg("Failed to get borrower loans")
		return NewInternalError(c, "Failed to get borrower loans")
	}

	response := make([]LoanResponse, len(loans))
	for i, loan := range loans {
		response[i] = toLoanResponse(loan)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateBorrower handles PUT /api/v1/borrowers/:id
func (h *BorrowerHandler) UpdateBorrower(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid borrower ID", nil)
	}

	var req BorrowerRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	borrower, err := h.borrowerService.UpdateBorrower(int32(id), service.UpdateBorrowerInput{
		FullName:          req.FullName,
		HomeAddress:       req.HomeAddress,
		PrimaryContact:    req.PrimaryContact,
		ContactEmail:      req.ContactEmail,
		WorkAddress:       req.WorkAddress,
		ReferenceContact1: domain.ReferenceContact(req.ReferenceContact1),
		ReferenceContact2: domain.ReferenceContact(req.ReferenceContact2),
	})
	if err != nil {
		if errors.Is(err, domain.ErrBorrowerNotFound) {
			return NewNotFoundError(c, "Borrower not found")
		}
		if verr := borrowerValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int("borrower_id", id).Msg("Failed to update borrower")
		return NewInternalError(c, "Failed to update borrower")
	}

	return c.JSON(http.StatusOK, h.toBorrowerResponse(c, borrower))
}

// UploadPhoto handles POST /api/v1/borrowers/:id/photo
func (h *BorrowerHandler) UploadPhoto(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid borrower ID", nil)
	}

	if !h.photoService.IsEnabled() {
		return NewConflictError(c, "Photo storage is not configured")
	}

	if _, err := h.borrowerService.GetBorrowerByID(int32(id)); err != nil {
		if errors.Is(err, domain.ErrBorrowerNotFound) {
			return NewNotFoundError(c, "Borrower not found")
		}
		log.Error().Err(err).Int("borrower_id", id).Msg("Failed to get borrower")
		return NewInternalError(c, "Failed to get borrower")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return NewValidationError(c, "Photo file is required", []ValidationError{
			{Field: "photo", Message: "Must be a multipart file named 'photo'"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded photo")
		return NewInternalError(c, "Failed to read photo")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded photo")
		return NewInternalError(c, "Failed to read photo")
	}

	objectPath, err := h.photoService.ProcessAndUpload(c.Request().Context(), int32(id), data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoTooLarge),
			errors.Is(err, service.ErrPhotoInvalidFormat),
			errors.Is(err, service.ErrPhotoTooSmall),
			errors.Is(err, service.ErrPhotoInvalidData):
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int("borrower_id", id).Msg("Failed to upload photo")
		return NewInternalError(c, "Failed to upload photo")
	}

	borrower, err := h.borrowerService.SetPhotoURL(int32(id), objectPath)
	if err != nil {
		log.Error().Err(err).Int("borrower_id", id).Msg("Failed to store photo path")
		return NewInternalError(c, "Failed to store photo path")
	}

	log.Info().Int32("borrower_id", borrower.ID).Msg("Borrower photo uploaded")

	return c.JSON(http.StatusOK, h.toBorrowerResponse(c, borrower))
}

// DeleteBorrower handles DELETE /api/v1/borrowers/:id
func (h *BorrowerHandler) DeleteBorrower(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid borrower ID", nil)
	}

	if err := h.borrowerService.DeleteBorrower(int32(id)); err != nil {
		if errors.Is(err, domain.ErrBorrowerNotFound) {
			return NewNotFoundError(c, "Borrower not found")
		}
		if errors.Is(err, domain.ErrBorrowerHasActiveLoans) {
			return NewConflictError(c, "Borrower still has active loans")
		}
		log.Error().Err(err).Int("borrower_id", id).Msg("Failed to delete borrower")
		return NewInternalError(c, "Failed to delete borrower")
	}

	log.Info().Int("borrower_id", id).Msg("Borrower deleted")

	return c.NoContent(http.StatusNoContent)
}

func borrowerValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrBorrowerNameEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "fullName", Message: "Full name is required"},
		})
	case errors.Is(err, domain.ErrBorrowerNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "fullName", Message: "Full name must be 200 characters or less"},
		})
	case errors.Is(err, domain.ErrBorrowerAddressEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "homeAddress", Message: "Home address is required"},
		})
	case errors.Is(err, domain.ErrBorrowerContactEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "primaryContact", Message: "Primary contact is required"},
		})
	}
	return nil
}

// toBorrowerResponse converts a borrower to its API representation. The
// stored photo path is swapped for a presigned URL when storage is
// configured.
func (h *BorrowerHandler) toBorrowerResponse(c echo.Context, b *domain.Borrower) BorrowerResponse {
	photoURL := b.PhotoURL
	if photoURL != nil && h.photoService.IsEnabled() {
		if url, err := h.photoService.PresignedURL(c.Request().Context(), *photoURL); err == nil {
			photoURL = &url
		}
	}

	return BorrowerResponse{
		ID:                b.ID,
		FullName:          b.FullName,
		HomeAddress:       b.HomeAddress,
		PrimaryContact:    b.PrimaryContact,
		ContactEmail:      b.ContactEmail,
		WorkAddress:       b.WorkAddress,
		ReferenceContact1: ReferenceContactRequest(b.ReferenceContact1),
		ReferenceContact2: ReferenceContactRequest(b.ReferenceContact2),
		PhotoURL:          photoURL,
		LoanStats: LoanStatsResponse{
			TotalLoans:   b.LoanStats.TotalLoans,
			LatePayments: b.LoanStats.LatePayments,
			TotalPaid:    b.LoanStats.TotalPaid.StringFixed(2),
		},
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}
