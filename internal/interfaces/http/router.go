package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/joyeria-api/internal/application/auth"
	"github.com/jhoicas/joyeria-api/internal/application/orders"
	"github.com/jhoicas/joyeria-api/internal/application/reports"
	"github.com/jhoicas/joyeria-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	JewelleryUC *usecase.JewelleryUseCase
	StockUC     *usecase.StockUseCase
	OrderUC     *orders.OrderUseCase
	CustomerUC  *usecase.CustomerUseCase
	PaymentUC   *usecase.PaymentUseCase
	ReportUC    *reports.ReportUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público solo el login)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de joyas
	jewellery := protected.Group("/jewellery")
	jewelleryHandler := NewJewelleryHandler(deps.JewelleryUC)
	jewellery.Get("/next-id", jewelleryHandler.NextID)
	jewellery.Post("/", jewelleryHandler.Create)
	jewellery.Get("/", jewelleryHandler.List)
	jewellery.Get("/:id", jewelleryHandler.GetByID)
	jewellery.Put("/:id", jewelleryHandler.Update)
	jewellery.Delete("/:id", jewelleryHandler.Delete)

	// Unidades de stock (el ledger). Cantidad y estado solo por estas rutas.
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/", stockHandler.Add)
	stock.Get("/", stockHandler.List)
	stock.Get("/jewellery/:jewelleryId", stockHandler.ListByJewellery)
	stock.Get("/:jewelleryId/:modelNo/:unitId/movements", stockHandler.History)
	stock.Put("/:jewelleryId/:modelNo/:unitId/quantity", stockHandler.SetQuantity)
	stock.Put("/:jewelleryId/:modelNo/:unitId/status", stockHandler.SetStatus)
	stock.Get("/:jewelleryId/:modelNo/:unitId", stockHandler.Get)
	stock.Put("/:jewelleryId/:modelNo/:unitId", stockHandler.UpdateAttributes)
	stock.Delete("/:jewelleryId/:modelNo/:unitId", stockHandler.Remove)

	// Pedidos
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Get("/next-id", orderHandler.NextID)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id", orderHandler.Update)
	ordersGroup.Delete("/:id", orderHandler.Delete)

	// Clientes
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/next-id", customerHandler.NextID)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Pagos
	payments := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	payments.Get("/next-id", paymentHandler.NextID)
	payments.Get("/order/:orderId/balance", paymentHandler.OrderBalance)
	payments.Post("/", paymentHandler.Create)
	payments.Get("/", paymentHandler.List)
	payments.Get("/:id", paymentHandler.GetByID)
	payments.Put("/:id", paymentHandler.Update)
	payments.Delete("/:id", paymentHandler.Delete)

	// Reportes
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup.Get("/sales", reportHandler.SalesDashboard)
	reportsGroup.Get("/sales/pdf", reportHandler.SalesReportPDF)
	reportsGroup.Get("/stock", reportHandler.StockSummary)

	// Cambio de password: cada empleado puede cambiar el suyo, por eso va
	// fuera del grupo admin (el use case valida propiedad y password actual).
	protected.Put("/staff/:id/password", authHandler.ChangePassword)

	// Gestión de empleados (solo admin)
	staff := protected.Group("/staff", RequireAdmin())
	staff.Post("/", authHandler.Register)
	staff.Get("/", authHandler.List)
	staff.Get("/:id", authHandler.GetByID)
	staff.Put("/:id", authHandler.Update)
	staff.Delete("/:id", authHandler.Delete)
}
