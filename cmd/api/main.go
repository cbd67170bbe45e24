package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Produccion-api/internal/application/analytics"
	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// storage repositorios y runner transaccional del driver elegido.
type storage struct {
	txRunner   production.TxRunner
	products   repository.ProductRepository
	orders     repository.ProductionOrderRepository
	historial  repository.HistorialRepository
	clients    repository.ClientRepository
	providers  repository.ProviderRepository
	users      repository.UserRepository
	statistics repository.StatisticsRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner:   memory.NewTxRunner(store),
			products:   memory.NewProductRepository(store),
			orders:     memory.NewProductionOrderRepository(store),
			historial:  memory.NewHistorialRepository(store),
			clients:    memory.NewClientRepository(store),
			providers:  memory.NewProviderRepository(store),
			users:      memory.NewUserRepository(store),
			statistics: memory.NewStatisticsRepository(store),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema de base de datos aplicado")
	}
	return &storage{
		txRunner:   postgres.NewTxRunner(pool),
		products:   postgres.NewProductRepository(pool),
		orders:     postgres.NewProductionOrderRepository(pool),
		historial:  postgres.NewHistorialRepository(pool),
		clients:    postgres.NewClientRepository(pool),
		providers:  postgres.NewProviderRepository(pool),
		users:      postgres.NewUserRepository(pool),
		statistics: postgres.NewStatisticsRepository(pool),
		close:      pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
		Storage: cfg.App.StorageDriver,
	})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	productUC := usecase.NewProductUseCase(st.txRunner, st.products, st.providers, log)
	movementUC := inventory.NewStockMovementUseCase(st.txRunner, st.clients, st.providers, nil, log)
	orderUC := production.NewOrderUseCase(st.txRunner, st.products, st.orders, st.historial, nil, log)
	historialUC := usecase.NewHistorialUseCase(st.historial)
	clientUC := usecase.NewClientUseCase(st.clients)
	providerUC := usecase.NewProviderUseCase(st.providers)
	statisticsUC := analytics.NewStatisticsUseCase(st.statistics, cfg.Stats.TopN, nil)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if err := authUC.EnsureSuperAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("crear usuario SUPERADMIN inicial")
	}
	if cfg.Admin.Password == "" {
		log.Warn().Msg("ADMIN_PASSWORD vacío: no se creó el usuario SUPERADMIN inicial")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		MovementUC:   movementUC,
		OrderUC:      orderUC,
		HistorialUC:  historialUC,
		ClientUC:     clientUC,
		ProviderUC:   providerUC,
		StatisticsUC: statisticsUC,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
