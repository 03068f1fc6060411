package forecast_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/forecast"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func day(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC) }

func usage(itemID, qty string, date time.Time) entity.UsageEvent {
	return entity.UsageEvent{InventoryItemID: itemID, QtyUsed: d(qty), Date: date}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

func TestMovingAverage_SinEventosEsCero(t *testing.T) {
	avg := forecast.MovingAverageDailyUsage("it-1", nil, 30, now)
	assert.True(t, avg.IsZero())

	item := &entity.InventoryItem{ID: "it-1", QuantityOnHand: d("10")}
	res := forecast.Compute(item, nil, 30, now)
	assert.Nil(t, res.DaysToDepletion, "sin consumo no se está agotando")
	assert.Nil(t, res.TurnoverDays)
	assert.True(t, res.AvgDailyUsage.IsZero())
}

func TestMovingAverage_LimitesDeVentana(t *testing.T) {
	events := []entity.UsageEvent{
		usage("it-1", "100", day(2026, 9, 17)), // fuera: día now-30
		usage("it-1", "30", day(2026, 9, 18)),  // primer día de la ventana
		usage("it-1", "60", day(2026, 10, 17)), // hoy
		usage("it-1", "500", day(2026, 10, 18)), // futuro
		usage("it-2", "900", day(2026, 10, 1)), // otro ítem
	}
	avg := forecast.MovingAverageDailyUsage("it-1", events, 30, now)
	assertDecimal(t, "3", avg)
	assert.Equal(t, day(2026, 9, 18), forecast.WindowStart(now, 30))
}

func TestMovingAverage_ConsumoConstanteDaUnoPorDia(t *testing.T) {
	at := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	var events []entity.UsageEvent
	for i := 0; i < 40; i++ {
		events = append(events, usage("it-1", "1", day(2026, 10, 18).AddDate(0, 0, -i)))
	}
	assertDecimal(t, "1", forecast.MovingAverageDailyUsage("it-1", events, 30, at))
	assertDecimal(t, "30", forecast.UsageInWindow("it-1", events, 30, at))
}

func TestWindowStart_NormalizaAUTC(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	// 2026-10-17 21:00 en Bogotá ya es 18 en UTC.
	local := time.Date(2026, 10, 17, 21, 0, 0, 0, bogota)
	assert.Equal(t, day(2026, 9, 19), forecast.WindowStart(local, 30))
	assert.Equal(t, time.UTC, domain.SystemClock{}.Now().Location())
}

func TestNormalizeWindow(t *testing.T) {
	assert.Equal(t, 30, forecast.NormalizeWindow(0))
	assert.Equal(t, 30, forecast.NormalizeWindow(-5))
	assert.Equal(t, 7, forecast.NormalizeWindow(7))
}

func TestReorderPoint_ExplicitoGanaSobreDerivado(t *testing.T) {
	item := &entity.InventoryItem{ReorderPoint: dp("50"), LeadTimeDays: 4, SafetyStock: d("10")}
	rop, derived := forecast.ReorderPoint(item, d("5"))
	assertDecimal(t, "50", rop)
	assert.False(t, derived)

	item.ReorderPoint = nil
	rop, derived = forecast.ReorderPoint(item, d("5"))
	assertDecimal(t, "30", rop)
	assert.True(t, derived)
}

func TestDaysToDepletion(t *testing.T) {
	assert.Nil(t, forecast.DaysToDepletion(d("100"), decimal.Zero))
	assert.Nil(t, forecast.DaysToDepletion(d("100"), d("-1")))

	days := forecast.DaysToDepletion(d("101"), d("5"))
	require.NotNil(t, days)
	assert.Equal(t, int64(20), *days)

	days = forecast.DaysToDepletion(d("0"), d("5"))
	require.NotNil(t, days)
	assert.Equal(t, int64(0), *days)
}

func TestSuggestedReplenishmentQty(t *testing.T) {
	item := &entity.InventoryItem{QuantityOnHand: d("100"), ReorderPoint: dp("50"), SafetyStock: d("10")}
	assert.True(t, forecast.SuggestedReplenishmentQty(item, d("50")).IsZero(), "sobre el ROP no se sugiere compra")

	item.QuantityOnHand = d("40")
	assertDecimal(t, "20", forecast.SuggestedReplenishmentQty(item, d("50")))

	item.MaxLevel = dp("200")
	assertDecimal(t, "160", forecast.SuggestedReplenishmentQty(item, d("50")))

	item.MaxLevel = dp("30")
	assertDecimal(t, "0", forecast.SuggestedReplenishmentQty(item, d("50")))
}

func TestCompute_EscenarioReposicion(t *testing.T) {
	events := []entity.UsageEvent{usage("it-1", "150", day(2026, 10, 10))}
	item := &entity.InventoryItem{
		ID: "it-1", SKU: "MAT-1", QuantityOnHand: d("100"),
		ReorderPoint: dp("50"), SafetyStock: d("10"), LeadTimeDays: 3,
	}

	res := forecast.Compute(item, events, 30, now)
	assertDecimal(t, "5", res.AvgDailyUsage)
	assertDecimal(t, "50", res.ReorderPoint)
	assert.True(t, res.SuggestedQty.IsZero())
	require.NotNil(t, res.DaysToDepletion)
	assert.Equal(t, int64(20), *res.DaysToDepletion)
	require.NotNil(t, res.TurnoverDays)
	assert.Equal(t, int64(20), *res.TurnoverDays)
	assert.Equal(t, forecast.StockNormal, res.StockStatus)
	assert.Contains(t, res.MissingConfig, forecast.MissingMaxLevel)

	item.QuantityOnHand = d("40")
	res = forecast.Compute(item, events, 30, now)
	assertDecimal(t, "20", res.SuggestedQty)
	assert.Equal(t, forecast.StockLow, res.StockStatus)
}

func TestCompute_ConfiguracionFaltante(t *testing.T) {
	item := &entity.InventoryItem{ID: "it-1", QuantityOnHand: d("5"), MaxLevel: dp("10")}
	res := forecast.Compute(item, nil, 0, now)
	assert.Equal(t, 30, res.WindowDays)
	assert.Equal(t, []string{forecast.MissingReorderConfig}, res.MissingConfig)
	assert.True(t, res.ReorderPointDerived)
}

func TestStockStatus(t *testing.T) {
	item := &entity.InventoryItem{SafetyStock: d("10"), MaxLevel: dp("100")}
	cases := map[string]string{
		"0":   forecast.StockOutOfStock,
		"5":   forecast.StockCritical,
		"40":  forecast.StockLow,
		"150": forecast.StockOverstock,
		"70":  forecast.StockNormal,
	}
	for onHand, want := range cases {
		item.QuantityOnHand = d(onHand)
		assert.Equal(t, want, forecast.StockStatus(item, d("50")), "on hand %s", onHand)
	}
}

func TestTurnoverDays_Redondea(t *testing.T) {
	days := forecast.TurnoverDays(d("10"), d("4"))
	require.NotNil(t, days)
	assert.Equal(t, int64(3), *days) // 2.5 -> 3
}
