package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/inventory"
)

// InventoryHandler deducciones, recepciones, pronósticos y reposición.
type InventoryHandler struct {
	deduction *inventory.DeductionUseCase
	stock     *inventory.StockUseCase
	forecast  *inventory.ForecastUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(deduction *inventory.DeductionUseCase, stock *inventory.StockUseCase, forecast *inventory.ForecastUseCase) *InventoryHandler {
	return &InventoryHandler{deduction: deduction, stock: stock, forecast: forecast}
}

// DeductMaterials godoc
// @Summary      Descontar materiales de una corrida
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductMaterialsRequest  true  "product_id, quantity, production_id opcional, usage_date opcional"
// @Success      201   {object}  dto.DeductionResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/deductions [post]
func (h *InventoryHandler) DeductMaterials(c *fiber.Ctx) error {
	var in dto.DeductMaterialsRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	usageDate, err := parseDate(in.UsageDate)
	if err != nil {
		return badRequest(c, "VALIDATION", "usage_date debe tener formato YYYY-MM-DD")
	}
	res, err := h.deduction.DeductMaterials(c.UserContext(), inventory.DeductInput{
		ProductID:    in.ProductID,
		ProductionID: in.ProductionID,
		Quantity:     in.Quantity,
		UsageDate:    usageDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// SimpleBatchOutput godoc
// @Summary      Registrar salida diaria de la línea de lotes simples
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SimpleBatchOutputRequest  true  "quantity, date opcional"
// @Success      201   {object}  dto.SimpleBatchResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/inventory/simple-batch-output [post]
func (h *InventoryHandler) SimpleBatchOutput(c *fiber.Ctx) error {
	var in dto.SimpleBatchOutputRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return badRequest(c, "VALIDATION", "date debe tener formato YYYY-MM-DD")
	}
	res, err := h.deduction.DeductForSimpleBatchOutput(c.UserContext(), inventory.SimpleBatchInput{
		Date:       date,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
		ProducedBy: in.ProducedBy,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ReceiveStock godoc
// @Summary      Recepción de stock (entrada)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del ítem"
// @Param        body  body  dto.ReceiveStockRequest  true  "quantity, unit_cost opcional"
// @Success      200   {object}  dto.InventoryItemDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/receipts [post]
func (h *InventoryHandler) ReceiveStock(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	item, err := h.stock.ReceiveStock(c.UserContext(), inventory.ReceiveInput{
		ItemID:   c.Params("id"),
		Quantity: in.Quantity,
		UnitCost: in.UnitCost,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

// GetForecast godoc
// @Summary      Pronóstico de consumo de un ítem
// @Tags         inventory
// @Produce      json
// @Param        id           path   string  true   "ID del ítem"
// @Param        window_days  query  int     false  "Ventana de análisis (días)"
// @Success      200  {object}  dto.ForecastDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/forecast [get]
func (h *InventoryHandler) GetForecast(c *fiber.Ctx) error {
	res, err := h.forecast.GetForecast(c.UserContext(), c.Params("id"), c.QueryInt("window_days", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ListForecasts pronósticos de todos los ítems, los más próximos a agotarse primero.
func (h *InventoryHandler) ListForecasts(c *fiber.Ctx) error {
	list, err := h.forecast.ListForecasts(c.UserContext(), c.QueryInt("window_days", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":     len(list),
		"forecasts": list,
	})
}

// GetReplenishmentSchedule godoc
// @Summary      Calendario de reposición
// @Description  Ítems con cantidad sugerida positiva, ordenados por días hasta el reorden.
// @Tags         inventory
// @Produce      json
// @Param        window_days  query  int  false  "Ventana de análisis (días)"
// @Success      200  {object}  dto.ReplenishmentScheduleDTO
// @Router       /api/inventory/replenishment-schedule [get]
func (h *InventoryHandler) GetReplenishmentSchedule(c *fiber.Ctx) error {
	res, err := h.forecast.GetReplenishmentSchedule(c.UserContext(), c.QueryInt("window_days", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// DeductionHistory consumo de los materiales del producto entre from y to (YYYY-MM-DD).
func (h *InventoryHandler) DeductionHistory(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		return badRequest(c, "VALIDATION", "from debe tener formato YYYY-MM-DD")
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return badRequest(c, "VALIDATION", "to debe tener formato YYYY-MM-DD")
	}
	res, err := h.stock.DeductionHistory(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// parseDate "" = tiempo cero (el caso de uso aplica su valor por defecto).
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dto.DateLayout, s, time.UTC)
}
