package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/domain"
)

// writeError traduce errores de dominio a códigos HTTP. Lo no reconocido es 500.
func writeError(c *fiber.Ctx, err error) error {
	var shortage *domain.InsufficientStockError
	if errors.As(err, &shortage) {
		return c.Status(fiber.StatusConflict).JSON(dto.InsufficientStockResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   shortage.Error(),
			ItemID:    shortage.ItemID,
			SKU:       shortage.SKU,
			ItemName:  shortage.Name,
			Unit:      shortage.Unit,
			Required:  shortage.Required,
			Available: shortage.Available,
			Shortfall: shortage.Shortfall(),
		})
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, code = fiber.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrNoBOMDefined):
		status, code = fiber.StatusUnprocessableEntity, "NO_BOM_DEFINED"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		status, code = fiber.StatusConflict, "CONCURRENCY_CONFLICT"
	case errors.Is(err, domain.ErrAlreadyDeducted):
		status, code = fiber.StatusConflict, "ALREADY_DEDUCTED"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
