package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/inventario-produccion/internal/application/inventory"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/application/production"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/messaging"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/observability"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/inventario-produccion/internal/interfaces/http"
	"github.com/jhoicas/inventario-produccion/pkg/config"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// txRunner lo que necesitan ambos motores; lo cumplen postgres.TxRunner y memory.Store.
type txRunner interface {
	inventory.TxRunner
	production.TxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.App.Name, cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	clock := domain.SystemClock{}

	var tx txRunner
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		if cfg.Storage.SeedFile != "" {
			if err := memory.LoadSeedFile(store, cfg.Storage.SeedFile, clock.Now()); err != nil {
				log.Fatal().Err(err).Str("file", cfg.Storage.SeedFile).Msg("cargar datos iniciales")
			}
		}
		tx = store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		tx = postgres.NewTxRunner(pool, cfg.DB.LockTimeout)
	}

	var publisher ports.EventPublisher = ports.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kafkaPub := messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer func() {
			if err := kafkaPub.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar productor Kafka")
			}
		}()
		publisher = kafkaPub
	}

	var inventoryMetrics ports.InventoryMetrics = ports.NopMetrics{}
	deps := httpRouter.RouterDeps{ServiceName: cfg.App.Name, MetricsPath: cfg.Metrics.Path}
	if cfg.Metrics.Enabled {
		prom := metrics.New()
		inventoryMetrics = prom
		deps.Metrics = prom.Handler()
	}

	opts := inventory.Options{
		ForecastWindowDays:   cfg.Inventory.ForecastWindowDays,
		SimpleBatchProductID: cfg.Inventory.SimpleBatchProductID,
		FinishedGoodsSKU:     cfg.Inventory.FinishedGoodsSKU,
	}
	deps.DeductionUC = inventory.NewDeductionUseCase(tx, publisher, inventoryMetrics, clock, log, opts)
	deps.StockUC = inventory.NewStockUseCase(tx, inventoryMetrics, clock, log)
	deps.ForecastUC = inventory.NewForecastUseCase(tx, inventoryMetrics, clock, log, cfg.Inventory.ForecastWindowDays)
	deps.ProgressUC = production.NewProgressUseCase(tx, publisher, inventoryMetrics, clock, log)

	var job *scheduler.ReplenishmentJob
	if cfg.Inventory.ReplenishmentCron != "" {
		job, err = scheduler.NewReplenishmentJob(cfg.Inventory.ReplenishmentCron, deps.ForecastUC, publisher, log)
		if err != nil {
			log.Fatal().Err(err).Msg("job de reposición")
		}
		if err := job.Start(); err != nil {
			log.Fatal().Err(err).Msg("job de reposición")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	httpRouter.Router(app, deps)

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
	if job != nil {
		job.Stop(shutdownCtx)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cerrar trazas")
	}

	log.Info().Msg("aplicación detenida")
}
