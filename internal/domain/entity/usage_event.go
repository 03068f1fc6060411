package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageEvent consumo de un material (append-only). Una por línea de BOM y corrida.
type UsageEvent struct {
	ID              string
	InventoryItemID string
	ProductionID    string // corrida o salida diaria que originó el consumo
	QtyUsed         decimal.Decimal
	Date            time.Time // fecha de uso (día calendario)
	CreatedAt       time.Time
}
