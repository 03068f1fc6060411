package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyOutput resumen diario de la línea de lotes simples (un registro por fecha).
type DailyOutput struct {
	ID               string
	Date             time.Time
	QuantityProduced decimal.Decimal
	Notes            string
	ProducedBy       string
	MaterialsUsed    []MaterialUsage
	MaterialCost     decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
