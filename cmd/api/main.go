package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/pos-inventory/internal/application/deduction"
	"github.com/tu-usuario/pos-inventory/internal/application/ledger"
	"github.com/tu-usuario/pos-inventory/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/pos-inventory/internal/interfaces/http"
	"github.com/tu-usuario/pos-inventory/pkg/config"
	"github.com/tu-usuario/pos-inventory/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	inventoryRepo := postgres.NewInventoryRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	templateRepo := postgres.NewRecipeTemplateRepository(pool)
	recordRepo := postgres.NewDeductionRecordRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	expander := deduction.NewComboExpander(catalogRepo)
	resolver := deduction.NewIngredientResolver(catalogRepo, templateRepo, inventoryRepo)
	checker := deduction.NewAvailabilityChecker(inventoryRepo)
	executor := deduction.NewDeductionExecutor(txRunner)
	orchestrator := deduction.NewOrchestrator(expander, resolver, checker, executor, deduction.Config{
		BlockOnShortfall: cfg.Deduction.BlockOnShortfall,
		Timeout:          cfg.Deduction.Timeout,
	}, log.Zerolog())

	ledgerUC := ledger.NewQueryUseCase(recordRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Orchestrator: orchestrator,
		LedgerUC:     ledgerUC,
		JWTSecret:    cfg.JWT.Secret,
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
