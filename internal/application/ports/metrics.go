package ports

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryMetrics puerto de métricas del motor de inventario y producción.
type InventoryMetrics interface {
	// DeductionCommitted consumo confirmado: operation = deduct | simple_batch.
	DeductionCommitted(operation string, lines int, totalCost decimal.Decimal, elapsed time.Duration)
	// DeductionRejected reason = insufficient_stock | no_bom | conflict | invalid | error.
	DeductionRejected(operation, reason string)
	MaterialConsumed(sku string, qty decimal.Decimal)
	StockReceived(sku string, qty decimal.Decimal)
	ReplenishmentActionable(count int)
	StageTransition(status string)
}

// NopMetrics implementación vacía.
type NopMetrics struct{}

func (NopMetrics) DeductionCommitted(string, int, decimal.Decimal, time.Duration) {}
func (NopMetrics) DeductionRejected(string, string)                               {}
func (NopMetrics) MaterialConsumed(string, decimal.Decimal)                       {}
func (NopMetrics) StockReceived(string, decimal.Decimal)                          {}
func (NopMetrics) ReplenishmentActionable(int)                                    {}
func (NopMetrics) StageTransition(string)                                         {}
