package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/inventario-produccion/internal/application/inventory"
	"github.com/jhoicas/inventario-produccion/internal/application/production"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	DeductionUC *inventory.DeductionUseCase
	StockUC     *inventory.StockUseCase
	ForecastUC  *inventory.ForecastUseCase
	ProgressUC  *production.ProgressUseCase
	// Metrics handler Prometheus; nil = sin /metrics.
	Metrics     nethttp.Handler
	MetricsPath string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.DeductionUC, deps.StockUC, deps.ForecastUC)
	inv.Post("/deductions", inventoryHandler.DeductMaterials)
	inv.Post("/simple-batch-output", inventoryHandler.SimpleBatchOutput)
	inv.Post("/items/:id/receipts", inventoryHandler.ReceiveStock)
	inv.Get("/items/:id/forecast", inventoryHandler.GetForecast)
	inv.Get("/forecasts", inventoryHandler.ListForecasts)
	inv.Get("/replenishment-schedule", inventoryHandler.GetReplenishmentSchedule)
	inv.Get("/products/:id/deductions", inventoryHandler.DeductionHistory)

	prod := api.Group("/production")
	productionHandler := NewProductionHandler(deps.ProgressUC)
	prod.Patch("/stages/:id", productionHandler.UpdateStage)
}
