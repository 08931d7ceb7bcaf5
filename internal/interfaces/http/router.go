package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-ventas/internal/application/analytics"
	"github.com/jhoicas/pos-ventas/internal/application/auth"
	"github.com/jhoicas/pos-ventas/internal/application/cashregister"
	"github.com/jhoicas/pos-ventas/internal/application/inventory"
	"github.com/jhoicas/pos-ventas/internal/application/sales"
	"github.com/jhoicas/pos-ventas/internal/application/usecase"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	Ledger      *inventory.Ledger
	Registers   *cashregister.Manager
	Sales       *sales.Orchestrator
	Receipts    *sales.ReceiptUseCase
	DashboardUC *appanalytics.DashboardUseCase
	ExportUC    *appanalytics.ExportUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	adminOnly := RequireRole(entity.RoleAdmin)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	saleRoles := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	// Auth: login público; el alta de usuarios la hace un admin.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), adminOnly, authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Ledger)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", stockRoles, productHandler.Create)
	products.Put("/:id", stockRoles, productHandler.Update)
	products.Put("/:id/stock", stockRoles, productHandler.ReconcileStock)
	products.Get("/:id/movements", stockRoles, productHandler.Movements)
	products.Get("/:id/audit", stockRoles, productHandler.Audit)

	// Inventory movements
	invGroup := protected.Group("/inventory", stockRoles)
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Cash registers
	registers := protected.Group("/cash-registers", saleRoles)
	registerHandler := NewCashRegisterHandler(deps.Registers)
	registers.Post("/open", registerHandler.Open)
	registers.Post("/close", registerHandler.Close)
	registers.Get("/current", registerHandler.Current)
	registers.Get("/", registerHandler.List)
	registers.Get("/:id", registerHandler.GetByID)
	registers.Get("/:id/summary", registerHandler.Summary)

	// Sales
	salesGroup := protected.Group("/sales", saleRoles)
	saleHandler := NewSaleHandler(deps.Sales, deps.Receipts)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt.pdf", saleHandler.Receipt)
	salesGroup.Patch("/:id/document", saleHandler.UpdateDocument)
	salesGroup.Patch("/:id/customer", saleHandler.UpdateCustomer)
	salesGroup.Delete("/:id", adminOnly, saleHandler.Delete)

	// Reports
	reports := protected.Group("/reports", adminOnly)
	reportHandler := NewReportHandler(deps.DashboardUC, deps.ExportUC)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/sales.xlsx", reportHandler.ExportSales("xlsx"))
	reports.Get("/sales.csv", reportHandler.ExportSales("csv"))
}
