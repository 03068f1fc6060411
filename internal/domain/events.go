package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento publicados tras confirmar una operación.
const (
	EventMaterialsDeducted   = "materials.deducted"
	EventProductionCompleted = "production.completed"
	EventReplenishmentDue    = "replenishment.due"
)

// MaterialLineEvent línea consumida dentro de MaterialsDeductedEvent.
type MaterialLineEvent struct {
	InventoryItemID string          `json:"inventory_item_id"`
	SKU             string          `json:"sku"`
	QuantityUsed    decimal.Decimal `json:"quantity_used"`
	RemainingStock  decimal.Decimal `json:"remaining_stock"`
}

// MaterialsDeductedEvent se emite cuando una deducción se confirma.
type MaterialsDeductedEvent struct {
	ProductionID string              `json:"production_id"`
	ProductID    string              `json:"product_id"`
	Quantity     decimal.Decimal     `json:"quantity"`
	UsageDate    string              `json:"usage_date"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
	Lines        []MaterialLineEvent `json:"lines"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

// ProductionCompletedEvent se emite cuando todas las etapas de una corrida terminan.
type ProductionCompletedEvent struct {
	ProductionID string          `json:"production_id"`
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	CompletedAt  time.Time       `json:"completed_at"`
}
