package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// Prioridades de reposición según días hasta el punto de reorden.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ScheduleEntry fecha estimada en la que un ítem cruza su punto de reorden.
type ScheduleEntry struct {
	ItemID                string
	SKU                   string
	Name                  string
	Unit                  string
	QuantityOnHand        decimal.Decimal
	ReorderPoint          decimal.Decimal
	AvgDailyUsage         decimal.Decimal
	DaysUntilReorder      int64
	ETADate               time.Time
	OrderByDate           time.Time
	LeadTimeDays          int
	SuggestedQty          decimal.Decimal
	NeedsImmediateReorder bool
	Priority              string
}

// Priority clasifica la urgencia por días restantes.
func Priority(daysUntilReorder int64) string {
	switch {
	case daysUntilReorder <= 0:
		return PriorityUrgent
	case daysUntilReorder <= 7:
		return PriorityHigh
	case daysUntilReorder <= 14:
		return PriorityMedium
	}
	return PriorityLow
}

// DaysUntilReorder ceil((onHand - ROP) / max(avg, ε)) acotado a >= 0.
func DaysUntilReorder(onHand, rop, avg decimal.Decimal) int64 {
	days := onHand.Sub(rop).Div(decimal.Max(avg, Epsilon)).Ceil().IntPart()
	if days < 0 {
		return 0
	}
	return days
}

// NewScheduleEntry proyecta la entrada de un ítem. ok=false si no requiere acción:
// ítems en o bajo el ROP solo entran con cantidad sugerida positiva; ítems sobre el ROP
// solo si consumen (avg > 0) y el objetivo supera el ROP.
func NewScheduleEntry(item *entity.InventoryItem, res Result, now time.Time) (ScheduleEntry, bool) {
	u := now.UTC()
	today := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	immediate := !item.QuantityOnHand.GreaterThan(res.ReorderPoint)

	var days int64
	qty := res.SuggestedQty
	if immediate {
		if !qty.IsPositive() {
			return ScheduleEntry{}, false
		}
	} else {
		if !res.AvgDailyUsage.IsPositive() {
			return ScheduleEntry{}, false
		}
		days = DaysUntilReorder(item.QuantityOnHand, res.ReorderPoint, res.AvgDailyUsage)
		// cantidad que se sugerirá cuando el stock llegue al ROP
		qty = decimal.Max(decimal.Zero, TargetLevel(item, res.ReorderPoint).Sub(res.ReorderPoint))
		if !qty.IsPositive() {
			return ScheduleEntry{}, false
		}
	}

	eta := today.AddDate(0, 0, int(days))
	orderBy := eta.AddDate(0, 0, -item.LeadTimeDays)
	if orderBy.Before(today) {
		orderBy = today
	}

	return ScheduleEntry{
		ItemID:                item.ID,
		SKU:                   item.SKU,
		Name:                  item.Name,
		Unit:                  item.Unit,
		QuantityOnHand:        item.QuantityOnHand,
		ReorderPoint:          res.ReorderPoint,
		AvgDailyUsage:         res.AvgDailyUsage,
		DaysUntilReorder:      days,
		ETADate:               eta,
		OrderByDate:           orderBy,
		LeadTimeDays:          item.LeadTimeDays,
		SuggestedQty:          qty,
		NeedsImmediateReorder: immediate,
		Priority:              Priority(days),
	}, true
}

// BuildSchedule calendario de reposición filtrado a ítems accionables,
// ordenado por días hasta reorden y luego SKU.
func BuildSchedule(items []*entity.InventoryItem, usage []entity.UsageEvent, windowDays int, now time.Time) []ScheduleEntry {
	byItem := make(map[string][]entity.UsageEvent, len(items))
	for _, ev := range usage {
		byItem[ev.InventoryItemID] = append(byItem[ev.InventoryItemID], ev)
	}

	out := make([]ScheduleEntry, 0, len(items))
	for _, item := range items {
		res := Compute(item, byItem[item.ID], windowDays, now)
		if e, ok := NewScheduleEntry(item, res, now); ok {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntilReorder != out[j].DaysUntilReorder {
			return out[i].DaysUntilReorder < out[j].DaysUntilReorder
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}
