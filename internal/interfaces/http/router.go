package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/analytics"
	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	MovementUC   *inventory.StockMovementUseCase
	OrderUC      *production.OrderUseCase
	HistorialUC  *usecase.HistorialUseCase
	ClientUC     *usecase.ClientUseCase
	ProviderUC   *usecase.ProviderUseCase
	StatisticsUC *analytics.StatisticsUseCase
	JWTSecret    string
	Log          *logger.Logger
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", RequireRole(entity.RoleSuperAdmin), authHandler.Register)

	// Products + cargas/descargas
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.MovementUC, deps.Log)
	products.Get("/actions/charge", productHandler.ChargeActions)
	products.Get("/actions/discharge", productHandler.DischargeActions)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Patch("/:id/charge", productHandler.Charge)
	products.Patch("/:id/discharge", productHandler.Discharge)

	// Production orders
	orders := protected.Group("/production-orders")
	orderHandler := NewProductionOrderHandler(deps.OrderUC, deps.Log)
	orders.Get("/states", orderHandler.States)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Patch("/:id/state", orderHandler.ChangeState)
	orders.Get("/:id/historial", orderHandler.Historial)

	// Historial
	historialHandler := NewHistorialHandler(deps.HistorialUC, deps.Log)
	protected.Get("/historial", historialHandler.List)

	// Clients
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.Log)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Providers
	providers := protected.Group("/providers")
	providerHandler := NewProviderHandler(deps.ProviderUC, deps.Log)
	providers.Post("/", providerHandler.Create)
	providers.Get("/", providerHandler.List)
	providers.Get("/:id", providerHandler.GetByID)
	providers.Put("/:id", providerHandler.Update)
	providers.Delete("/:id", providerHandler.Delete)

	// Statistics
	statsHandler := NewStatisticsHandler(deps.StatisticsUC, deps.Log)
	protected.Get("/statistics", statsHandler.Get)
}
