package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de ítem de inventario.
const (
	ItemCategoryRaw      = "raw"      // materia prima
	ItemCategoryFinished = "finished" // producto terminado
)

// InventoryItem representa un SKU del libro de inventario.
// QuantityOnHand nunca se confirma negativo; ReorderPoint y MaxLevel nil = sin configurar.
type InventoryItem struct {
	ID             string
	SKU            string
	Name           string
	Category       string
	Unit           string // unidad de medida (pcs, m, kg, ...)
	QuantityOnHand decimal.Decimal
	UnitCost       decimal.Decimal
	ReorderPoint   *decimal.Decimal
	SafetyStock    decimal.Decimal
	LeadTimeDays   int
	MaxLevel       *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasReorderPoint indica si el punto de reorden fue configurado explícitamente.
func (i *InventoryItem) HasReorderPoint() bool { return i.ReorderPoint != nil }

// HasMaxLevel indica si el nivel máximo fue configurado.
func (i *InventoryItem) HasMaxLevel() bool { return i.MaxLevel != nil }
