package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardSummaryResponse represents the portfolio summary in API responses
type DashboardSummaryResponse struct {
	TotalBorrowers   int32          `json:"totalBorrowers"`
	TotalLoans       int32          `json:"totalLoans"`
	ActiveLoans      int32          `json:"activeLoans"`
	DelayedLoans     int32          `json:"delayedLoans"`
	FullyPaidLoans   int32          `json:"fullyPaidLoans"`
	TotalOutstanding string         `json:"totalOutstanding"`
	TotalPenalties   string         `json:"totalPenalties"`
	TotalCollected   string         `json:"totalCollected"`
	OverdueLoans     []LoanResponse `json:"overdueLoans"`
}

// GetSummary handles GET /api/v1/dashboard
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	summary, err := h.dashboardService.GetSummary()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get dashboard summary")
		return NewInternalError(c, "Failed to get dashboard summary")
	}

	overdue := make([]LoanResponse, len(summary.OverdueLoans))
	for i, loan := range summary.OverdueLoans {
		overdue[i] = toLoanResponse(loan)
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		TotalBorrowers:   summary.TotalBorrowers,
		TotalLoans:       summary.TotalLoans,
		ActiveLoans:      summary.ActiveLoans,
		DelayedLoans:     summary.DelayedLoans,
		FullyPaidLoans:   summary.FullyPaidLoans,
		TotalOutstanding: summary.TotalOutstanding.StringFixed(2),
		TotalPenalties:   summary.TotalPenalties.StringFixed(2),
		TotalCollected:   summary.TotalCollected.StringFixed(2),
		OverdueLoans:     overdue,
	})
}

// SearchLoans handles GET /api/v1/dashboard/search
func (h *DashboardHandler) SearchLoans(c echo.Context) error {
	query := c.QueryParam("q")

	loans, err := h.dashboardService.SearchLoans(query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Failed to search loans")
		return NewInternalError(c, "Failed to search loans")
	}

	response := make([]LoanResponse, len(loans))
	for i, loan := range loans {
		response[i] = toLoanResponse(loan)
	}

	return c.JSON(http.StatusOK, response)
}
