// Package forecast contiene las señales de reposición como funciones puras de
// (snapshot del ítem, historial de consumo, ventana, ahora). No muta nada.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// DefaultWindowDays ventana de promedio móvil por defecto.
const DefaultWindowDays = 30

// Epsilon piso del promedio diario para divisiones.
var Epsilon = decimal.New(1, -6)

// Estados de stock.
const (
	StockOutOfStock = "out_of_stock"
	StockCritical   = "critical"
	StockLow        = "low"
	StockOverstock  = "overstock"
	StockNormal     = "normal"
)

// Campos de configuración que pueden faltar.
const (
	MissingReorderConfig = "reorder_point_or_lead_time"
	MissingMaxLevel      = "max_level"
)

// Result señales de pronóstico de un ítem.
type Result struct {
	ItemID              string
	SKU                 string
	Name                string
	Unit                string
	WindowDays          int
	QuantityOnHand      decimal.Decimal
	UsageInWindow       decimal.Decimal
	AvgDailyUsage       decimal.Decimal
	ReorderPoint        decimal.Decimal
	ReorderPointDerived bool
	DaysToDepletion     *int64 // nil = no se está agotando
	SuggestedQty        decimal.Decimal
	TurnoverDays        *int64
	StockStatus         string
	MissingConfig       []string
}

// NormalizeWindow aplica la ventana por defecto a valores no positivos.
func NormalizeWindow(windowDays int) int {
	if windowDays <= 0 {
		return DefaultWindowDays
	}
	return windowDays
}

// WindowStart inicio (inclusive, medianoche UTC) de la ventana [now-W, now]:
// Son W días de calendario contando hoy.
func WindowStart(now time.Time, windowDays int) time.Time {
	u := now.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -NormalizeWindow(windowDays)+1)
}

// UsageInWindow suma qty_used de los eventos del ítem con fecha en [now-W, now].
func UsageInWindow(itemID string, usage []entity.UsageEvent, windowDays int, now time.Time) decimal.Decimal {
	start := WindowStart(now, windowDays)
	total := decimal.Zero
	for _, ev := range usage {
		if itemID != "" && ev.InventoryItemID != itemID {
			continue
		}
		if ev.Date.Before(start) || ev.Date.After(now) {
			continue
		}
		total = total.Add(ev.QtyUsed)
	}
	return total
}

// MovingAverageDailyUsage Σ qty_used en ventana / W. Sin eventos = 0.
func MovingAverageDailyUsage(itemID string, usage []entity.UsageEvent, windowDays int, now time.Time) decimal.Decimal {
	w := NormalizeWindow(windowDays)
	return UsageInWindow(itemID, usage, w, now).Div(decimal.NewFromInt(int64(w)))
}

// ReorderPoint la configuración explícita gana; si no, avg*lead_time + safety_stock.
func ReorderPoint(item *entity.InventoryItem, avg decimal.Decimal) (rop decimal.Decimal, derived bool) {
	if item.ReorderPoint != nil {
		return *item.ReorderPoint, false
	}
	return avg.Mul(decimal.NewFromInt(int64(item.LeadTimeDays))).Add(item.SafetyStock), true
}

// DaysToDepletion floor(onHand/avg) acotado a >= 0; nil cuando avg <= 0.
func DaysToDepletion(onHand, avg decimal.Decimal) *int64 {
	if !avg.IsPositive() {
		return nil
	}
	days := onHand.Div(avg).Floor().IntPart()
	if days < 0 {
		days = 0
	}
	return &days
}

// TargetLevel nivel objetivo de reposición: max_level o ROP + safety_stock.
func TargetLevel(item *entity.InventoryItem, rop decimal.Decimal) decimal.Decimal {
	if item.MaxLevel != nil {
		return *item.MaxLevel
	}
	return rop.Add(item.SafetyStock)
}

// SuggestedReplenishmentQty 0 si onHand > ROP; si no max(0, objetivo - onHand).
func SuggestedReplenishmentQty(item *entity.InventoryItem, rop decimal.Decimal) decimal.Decimal {
	if item.QuantityOnHand.GreaterThan(rop) {
		return decimal.Zero
	}
	return decimal.Max(decimal.Zero, TargetLevel(item, rop).Sub(item.QuantityOnHand))
}

// TurnoverDays round(onHand / max(avg, ε)); nil cuando avg es cero.
func TurnoverDays(onHand, avg decimal.Decimal) *int64 {
	if avg.IsZero() || avg.IsNegative() {
		return nil
	}
	days := onHand.Div(decimal.Max(avg, Epsilon)).Round(0).IntPart()
	return &days
}

// StockStatus clasifica el nivel actual frente a safety stock, ROP y máximo.
func StockStatus(item *entity.InventoryItem, rop decimal.Decimal) string {
	onHand := item.QuantityOnHand
	switch {
	case !onHand.IsPositive():
		return StockOutOfStock
	case onHand.LessThanOrEqual(item.SafetyStock):
		return StockCritical
	case onHand.LessThanOrEqual(rop):
		return StockLow
	case item.MaxLevel != nil && onHand.GreaterThanOrEqual(*item.MaxLevel):
		return StockOverstock
	}
	return StockNormal
}

// Compute calcula todas las señales de un ítem.
func Compute(item *entity.InventoryItem, usage []entity.UsageEvent, windowDays int, now time.Time) Result {
	w := NormalizeWindow(windowDays)
	used := UsageInWindow(item.ID, usage, w, now)
	avg := used.Div(decimal.NewFromInt(int64(w)))
	rop, derived := ReorderPoint(item, avg)

	var missing []string
	if item.ReorderPoint == nil && item.LeadTimeDays <= 0 {
		missing = append(missing, MissingReorderConfig)
	}
	if item.MaxLevel == nil {
		missing = append(missing, MissingMaxLevel)
	}

	return Result{
		ItemID:              item.ID,
		SKU:                 item.SKU,
		Name:                item.Name,
		Unit:                item.Unit,
		WindowDays:          w,
		QuantityOnHand:      item.QuantityOnHand,
		UsageInWindow:       used,
		AvgDailyUsage:       avg,
		ReorderPoint:        rop,
		ReorderPointDerived: derived,
		DaysToDepletion:     DaysToDepletion(item.QuantityOnHand, avg),
		SuggestedQty:        SuggestedReplenishmentQty(item, rop),
		TurnoverDays:        TurnoverDays(item.QuantityOnHand, avg),
		StockStatus:         StockStatus(item, rop),
		MissingConfig:       missing,
	}
}
