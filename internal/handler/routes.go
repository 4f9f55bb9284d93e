package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, borrowerHandler *BorrowerHandler, loanHandler *LoanHandler, paymentHandler *PaymentHandler, dashboardHandler *DashboardHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Borrower routes
	borrowers := api.Group("/borrowers")
	borrowers.POST("", borrowerHandler.CreateBorrower)
	borrowers.GET("", borrowerHandler.GetBorrowers)
	borrowers.GET("/:id", borrowerHandler.GetBorrower)
	borrowers.GET("/:id/loans", borrowerHandler.GetBorrowerLoans)
	borrowers.PUT("/:id", borrowerHandler.UpdateBorrower)
	borrowers.POST("/:id/photo", borrowerHandler.UploadPhoto)
	borrowers.DELETE("/:id", borrowerHandler.DeleteBorrower)

	// Loan routes
	loans := api.Group("/loans")
	loans.POST("", loanHandler.CreateLoan)
	loans.POST("/preview", loanHandler.PreviewLoan)
	loans.GET("", loanHandler.GetLoans)
	loans.GET("/:id", loanHandler.GetLoan)
	loans.GET("/:id/payments", paymentHandler.GetLoanPayments)
	loans.DELETE("/:id", loanHandler.DeleteLoan)

	// Payment routes
	payments := api.Group("/payments")
	payments.POST("", paymentHandler.RecordPayment)
	payments.GET("", paymentHandler.GetPayments)
	payments.GET("/:id", paymentHandler.GetPayment)
	payments.DELETE("/:id", paymentHandler.DeletePayment)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/search", dashboardHandler.SearchLoans)

	// WebSocket endpoint for real-time updates
	e.GET("/ws", wsHandler.HandleWS)
}
