package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kharcha/internal/middleware"
)

// Handlers bundles the route handlers so SetupRoutes stays declarative.
type Handlers struct {
	Auth      *AuthHandler
	Expense   *ExpenseHandler
	Wallet    *WalletHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
	Audit     *AuditHandler
}

func SetupRoutes(app *fiber.App, h *Handlers, authMW *middleware.AuthMiddleware) {
	app.Get("/health", HealthCheck)

	// Public routes
	api := app.Group("/api")
	api.Post("/register", h.Auth.Register)
	api.Post("/login", h.Auth.Login)
	api.Post("/refresh", h.Auth.Refresh)

	// Authenticated routes
	authenticated := api.Group("/", authMW.Handler)

	authenticated.Post("/logout", h.Auth.Logout)
	authenticated.Post("/change-password", h.Auth.ChangePassword)

	expenses := authenticated.Group("/expenses")
	expenses.Post("/parse", h.Expense.Parse)
	expenses.Post("/voice", h.Expense.Voice)
	expenses.Post("/import", h.Expense.Import)
	expenses.Post("/", h.Expense.Create)
	expenses.Get("/", h.Expense.List)
	expenses.Get("/:id", h.Expense.Get)
	expenses.Put("/:id", h.Expense.Update)
	expenses.Delete("/:id", h.Expense.Delete)

	authenticated.Get("/wallet", h.Wallet.GetBalances)
	authenticated.Get("/dashboard/summary", h.Dashboard.Summary)
	authenticated.Get("/export", h.Export.Export)
	authenticated.Get("/audit", h.Audit.List)
}
