package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una corrida de producción.
const (
	ProductionStatusPending    = "pending"
	ProductionStatusInProgress = "in_progress"
	ProductionStatusCompleted  = "completed"
)

// MaterialUsage línea del snapshot de materiales consumidos (evidencia histórica de costo).
type MaterialUsage struct {
	InventoryItemID string          `json:"inventory_item_id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"item_name"`
	Unit            string          `json:"unit"`
	QuantityUsed    decimal.Decimal `json:"quantity_used"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	LineCost        decimal.Decimal `json:"total_cost"`
}

// ProductionRun corrida de producción. MaterialsUsed es inmutable una vez escrito.
type ProductionRun struct {
	ID                 string
	ProductID          string
	Quantity           decimal.Decimal
	Status             string
	ProgressPercentage decimal.Decimal
	MaterialsUsed      []MaterialUsage
	MaterialCost       decimal.Decimal
	StartedAt          time.Time
	ActualEndDate      *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasMaterialsSnapshot indica si ya se registró el consumo de materiales.
func (p *ProductionRun) HasMaterialsSnapshot() bool { return len(p.MaterialsUsed) > 0 }
