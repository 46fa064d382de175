package routes

import (
	"bai-backend/internal/handlers"
	"bai-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers every authenticated API route.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		organizations := apiGroup.Group("/organizations")
		{
			organizations.GET("", handlers.ListOrganizationsHandler)
			organizations.POST("", middleware.AdminOnly(), handlers.CreateOrganizationHandler)
			organizations.PUT("/:id", middleware.AdminOnly(), handlers.UpdateOrganizationHandler)
			organizations.DELETE("/:id", middleware.AdminOnly(), handlers.DeleteOrganizationHandler)
		}

		users := apiGroup.Group("/users")
		users.Use(middleware.AdminOnly())
		{
			users.GET("", handlers.ListUsersHandler)
			users.PUT("/:id", handlers.UpdateUserHandler)
			users.DELETE("/:id", handlers.DeleteUserHandler)
		}

		budgets := apiGroup.Group("/budgets")
		{
			budgets.GET("", handlers.ListBudgetsHandler)
			budgets.POST("", handlers.CreateBudgetHandler)
			budgets.GET("/:id", handlers.GetBudgetHandler)
			budgets.DELETE("/:id", handlers.DeleteBudgetHandler)

			budgets.POST("/:id/incomes", handlers.CreateIncomeHandler)
			budgets.PUT("/:id/incomes/:itemId", handlers.UpdateIncomeHandler)
			budgets.DELETE("/:id/incomes/:itemId", handlers.DeleteIncomeHandler)

			budgets.POST("/:id/expenses", handlers.CreateExpenseHandler)
			budgets.PUT("/:id/expenses/:itemId", handlers.UpdateExpenseHandler)
			budgets.DELETE("/:id/expenses/:itemId", handlers.DeleteExpenseHandler)
		}

		transactions := apiGroup.Group("/transactions")
		{
			transactions.GET("", handlers.ListTransactionsHandler)
			transactions.POST("", handlers.CreateTransactionHandler)
			transactions.PUT("/:id", handlers.UpdateTransactionHandler)
			transactions.DELETE("/:id", handlers.DeleteTransactionHandler)

			transactions.POST("/:id/receipts", handlers.UploadReceiptHandler)
			transactions.GET("/:id/receipts", handlers.ListReceiptsHandler)
			transactions.DELETE("/:id/receipts/:receiptId", handlers.DeleteReceiptHandler)
		}

		reports := apiGroup.Group("/reports")
		{
			reports.GET("/settlement", handlers.GetSettlementReportHandler)
			reports.GET("/settlement/export", handlers.ExportSettlementReportHandler)
		}

		auditPeriods := apiGroup.Group("/audit-periods")
		{
			auditPeriods.GET("", handlers.ListAuditPeriodsHandler)
			auditPeriods.POST("", middleware.AdminOnly(), handlers.CreateAuditPeriodHandler)
			auditPeriods.PUT("/:id", middleware.AdminOnly(), handlers.UpdateAuditPeriodHandler)
			auditPeriods.DELETE("/:id", middleware.AdminOnly(), handlers.DeleteAuditPeriodHandler)
		}
	}
}
