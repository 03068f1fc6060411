package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidQuantity     = errors.New("la cantidad debe ser mayor que cero")
	ErrNoBOMDefined        = errors.New("el producto no tiene lista de materiales")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente la operación")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrAlreadyDeducted     = errors.New("la corrida ya registró consumo de materiales")
)

// InsufficientStockError detalla la primera línea del BOM que no alcanza.
// Lleva lo necesario para una decisión de compra sin consultas adicionales.
type InsufficientStockError struct {
	ItemID    string
	SKU       string
	Name      string
	Unit      string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s (%s): requerido %s %s, disponible %s %s",
		e.Name, e.SKU, e.Required.String(), e.Unit, e.Available.String(), e.Unit)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Shortfall cantidad faltante (Required - Available).
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

// NoBOMError producto sin líneas de materiales.
type NoBOMError struct {
	ProductID   string
	ProductName string
}

func (e *NoBOMError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("el producto %s (%s) no tiene lista de materiales", e.ProductName, e.ProductID)
	}
	return fmt.Sprintf("el producto %s no tiene lista de materiales", e.ProductID)
}

func (e *NoBOMError) Is(target error) bool {
	return target == ErrNoBOMDefined
}
