package forecast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/forecast"
)

func TestDaysUntilReorder(t *testing.T) {
	assert.Equal(t, int64(10), forecast.DaysUntilReorder(d("100"), d("50"), d("5")))
	assert.Equal(t, int64(11), forecast.DaysUntilReorder(d("101"), d("50"), d("5")))
	assert.Equal(t, int64(0), forecast.DaysUntilReorder(d("40"), d("50"), d("5")))
}

func TestPriority(t *testing.T) {
	assert.Equal(t, forecast.PriorityUrgent, forecast.Priority(0))
	assert.Equal(t, forecast.PriorityHigh, forecast.Priority(7))
	assert.Equal(t, forecast.PriorityMedium, forecast.Priority(14))
	assert.Equal(t, forecast.PriorityLow, forecast.Priority(15))
}

func TestBuildSchedule_SoloAccionables(t *testing.T) {
	items := []*entity.InventoryItem{
		{ID: "a", SKU: "A", QuantityOnHand: d("100"), ReorderPoint: dp("50"), MaxLevel: dp("200"), LeadTimeDays: 3},
		{ID: "b", SKU: "B", QuantityOnHand: d("40"), ReorderPoint: dp("50"), SafetyStock: d("10")},
		{ID: "c", SKU: "C", QuantityOnHand: d("500"), ReorderPoint: dp("50")},
		{ID: "d", SKU: "D", QuantityOnHand: d("50"), ReorderPoint: dp("50"), MaxLevel: dp("40")},
	}
	events := []entity.UsageEvent{
		usage("a", "150", day(2026, 10, 1)),
	}

	schedule := forecast.BuildSchedule(items, events, 30, now)
	require.Len(t, schedule, 2)

	b := schedule[0]
	assert.Equal(t, "b", b.ItemID)
	assert.True(t, b.NeedsImmediateReorder)
	assert.Equal(t, int64(0), b.DaysUntilReorder)
	assert.Equal(t, day(2026, 10, 17), b.ETADate)
	assertDecimal(t, "20", b.SuggestedQty)
	assert.Equal(t, forecast.PriorityUrgent, b.Priority)

	a := schedule[1]
	assert.Equal(t, "a", a.ItemID)
	assert.False(t, a.NeedsImmediateReorder)
	assert.Equal(t, int64(10), a.DaysUntilReorder)
	assert.Equal(t, day(2026, 10, 27), a.ETADate)
	assert.Equal(t, day(2026, 10, 24), a.OrderByDate)
	assertDecimal(t, "150", a.SuggestedQty)
	assert.Equal(t, forecast.PriorityMedium, a.Priority)
}

func TestBuildSchedule_OrderByNoAntesDeHoy(t *testing.T) {
	items := []*entity.InventoryItem{
		{ID: "a", SKU: "A", QuantityOnHand: d("60"), ReorderPoint: dp("50"), MaxLevel: dp("100"), LeadTimeDays: 10},
	}
	events := []entity.UsageEvent{usage("a", "150", day(2026, 10, 1))}

	schedule := forecast.BuildSchedule(items, events, 30, now)
	require.Len(t, schedule, 1)
	assert.Equal(t, int64(2), schedule[0].DaysUntilReorder)
	assert.Equal(t, day(2026, 10, 17), schedule[0].OrderByDate)
}

func TestBuildSchedule_SugeridoSiemprePositivo(t *testing.T) {
	items := []*entity.InventoryItem{
		{ID: "x", SKU: "X", QuantityOnHand: d("0")},
		{ID: "y", SKU: "Y", QuantityOnHand: d("3"), SafetyStock: d("5"), LeadTimeDays: 2},
	}
	for _, e := range forecast.BuildSchedule(items, nil, 30, now) {
		assert.True(t, e.SuggestedQty.IsPositive(), e.SKU)
	}
}
