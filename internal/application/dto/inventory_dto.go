package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductMaterialsRequest body para POST /api/inventory/deductions.
// UsageDate en formato YYYY-MM-DD; vacío = hoy.
type DeductMaterialsRequest struct {
	ProductID    string          `json:"product_id"`
	ProductionID string          `json:"production_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UsageDate    string          `json:"usage_date,omitempty"`
}

// SimpleBatchOutputRequest body para POST /api/inventory/simple-batch-output.
type SimpleBatchOutputRequest struct {
	Date       string          `json:"date,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Notes      string          `json:"notes,omitempty"`
	ProducedBy string          `json:"produced_by,omitempty"`
}

// ReceiveStockRequest body para POST /api/inventory/items/:id/receipts.
// Sin unit_cost se conserva el costo promedio actual.
type ReceiveStockRequest struct {
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// MaterialUsageDTO línea consumida con su costo.
type MaterialUsageDTO struct {
	InventoryItemID string          `json:"inventory_item_id"`
	SKU             string          `json:"sku"`
	ItemName        string          `json:"item_name"`
	Unit            string          `json:"unit"`
	QuantityUsed    decimal.Decimal `json:"quantity_used"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	RemainingStock  decimal.Decimal `json:"remaining_stock"`
}

// DeductionResultDTO resultado de DeductMaterials.
type DeductionResultDTO struct {
	ProductionID  string             `json:"production_id"`
	ProductID     string             `json:"product_id"`
	Quantity      decimal.Decimal    `json:"quantity"`
	UsageDate     string             `json:"usage_date"`
	MaterialsUsed []MaterialUsageDTO `json:"materials_used"`
	TotalCost     decimal.Decimal    `json:"total_cost"`
}

// DailyOutputDTO registro diario de la línea de lotes simples.
type DailyOutputDTO struct {
	ID               string          `json:"id"`
	Date             string          `json:"date"`
	QuantityProduced decimal.Decimal `json:"quantity_produced"`
	Notes            string          `json:"notes,omitempty"`
	ProducedBy       string          `json:"produced_by,omitempty"`
	MaterialCost     decimal.Decimal `json:"material_cost"`
}

// SimpleBatchResultDTO resultado de DeductForSimpleBatchOutput.
type SimpleBatchResultDTO struct {
	DailyOutput   DailyOutputDTO     `json:"daily_output"`
	MaterialsUsed []MaterialUsageDTO `json:"materials_used"`
	TotalCost     decimal.Decimal    `json:"total_cost"`
}

// InventoryItemDTO estado del ítem tras una entrada.
type InventoryItemDTO struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
}

// ForecastDTO señales de reposición de un ítem.
type ForecastDTO struct {
	ItemID              string          `json:"item_id"`
	SKU                 string          `json:"sku"`
	Name                string          `json:"name"`
	Unit                string          `json:"unit"`
	WindowDays          int             `json:"window_days"`
	QuantityOnHand      decimal.Decimal `json:"quantity_on_hand"`
	UsageInWindow       decimal.Decimal `json:"usage_in_window"`
	AvgDailyUsage       decimal.Decimal `json:"avg_daily_usage"`
	ReorderPoint        decimal.Decimal `json:"reorder_point"`
	ReorderPointDerived bool            `json:"reorder_point_derived"`
	DaysToDepletion     *int64          `json:"days_to_depletion"` // null = sin consumo
	SuggestedQty        decimal.Decimal `json:"suggested_qty"`
	TurnoverDays        *int64          `json:"turnover_days"`
	StockStatus         string          `json:"stock_status"`
	MissingConfig       []string        `json:"missing_config,omitempty"`
}

// ReplenishmentEntryDTO ítem accionable del calendario de reposición.
type ReplenishmentEntryDTO struct {
	ItemID                string          `json:"item_id"`
	SKU                   string          `json:"sku"`
	Name                  string          `json:"name"`
	Unit                  string          `json:"unit"`
	QuantityOnHand        decimal.Decimal `json:"quantity_on_hand"`
	ReorderPoint          decimal.Decimal `json:"reorder_point"`
	AvgDailyUsage         decimal.Decimal `json:"avg_daily_usage"`
	DaysUntilReorder      int64           `json:"days_until_reorder"`
	ETADate               string          `json:"eta_date"`
	OrderByDate           string          `json:"order_by_date"`
	LeadTimeDays          int             `json:"lead_time_days"`
	SuggestedQty          decimal.Decimal `json:"suggested_qty"`
	NeedsImmediateReorder bool            `json:"needs_immediate_reorder"`
	Priority              string          `json:"priority"`
}

// ReplenishmentScheduleDTO respuesta de GET /api/inventory/replenishment-schedule.
type ReplenishmentScheduleDTO struct {
	WindowDays  int                     `json:"window_days"`
	GeneratedAt time.Time               `json:"generated_at"`
	Items       []ReplenishmentEntryDTO `json:"items"`
}

// UsageEventDTO evento del historial de consumo.
type UsageEventDTO struct {
	ID              string          `json:"id"`
	InventoryItemID string          `json:"inventory_item_id"`
	SKU             string          `json:"sku"`
	ItemName        string          `json:"item_name"`
	ProductionID    string          `json:"production_id,omitempty"`
	QtyUsed         decimal.Decimal `json:"qty_used"`
	Date            string          `json:"date"`
}

// DeductionHistoryDTO historial de consumo de los materiales de un producto.
type DeductionHistoryDTO struct {
	ProductID     string          `json:"product_id"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	Events        []UsageEventDTO `json:"events"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}
