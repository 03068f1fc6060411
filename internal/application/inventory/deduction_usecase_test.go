package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/application/inventory"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

func newDeduction(s *memory.Store, pub *recordingPublisher, opts inventory.Options) *inventory.DeductionUseCase {
	return inventory.NewDeductionUseCase(s, pub, nil, clock, logger.Nop(), opts)
}

func TestDeductMaterials_DescuentaYRegistraUso(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-x", "MAT-X", "10", "2.5")
	addProduct(t, s, "prod-1", [2]string{"it-x", "3"})
	pub := &recordingPublisher{}
	uc := newDeduction(s, pub, inventory.Options{})

	res, err := uc.DeductMaterials(context.Background(), inventory.DeductInput{ProductID: "prod-1", Quantity: d("3")})
	require.NoError(t, err)

	requireDecimal(t, "22.5", res.TotalCost)
	require.Len(t, res.MaterialsUsed, 1)
	requireDecimal(t, "9", res.MaterialsUsed[0].QuantityUsed)
	requireDecimal(t, "1", res.MaterialsUsed[0].RemainingStock)
	assert.Equal(t, "2026-10-17", res.UsageDate)

	item, _ := s.Item("it-x")
	requireDecimal(t, "1", item.QuantityOnHand)

	events := s.UsageEvents()
	require.Len(t, events, 1)
	requireDecimal(t, "9", events[0].QtyUsed)
	assert.Equal(t, res.ProductionID, events[0].ProductionID)

	run, ok := s.ProductionRun(res.ProductionID)
	require.True(t, ok)
	require.Len(t, run.MaterialsUsed, 1)
	requireDecimal(t, "22.5", run.MaterialCost)

	sent := pub.all()
	require.Len(t, sent, 1)
	assert.Equal(t, domain.EventMaterialsDeducted, sent[0].eventType)
	assert.Equal(t, "prod-1", sent[0].key)
}

func TestDeductMaterials_FaltanteNoDescuentaNada(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-z", "MAT-Z", "100", "1")
	addItem(t, s, "it-y", "MAT-Y", "5", "1")
	// la línea que alcanza va primero: un descuento secuencial la habría aplicado
	addProduct(t, s, "prod-2", [2]string{"it-z", "1"}, [2]string{"it-y", "2"})
	pub := &recordingPublisher{}
	uc := newDeduction(s, pub, inventory.Options{})

	_, err := uc.DeductMaterials(context.Background(), inventory.DeductInput{ProductID: "prod-2", Quantity: d("6")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var short *domain.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, "MAT-Y", short.SKU)
	requireDecimal(t, "12", short.Required)
	requireDecimal(t, "5", short.Available)
	requireDecimal(t, "7", short.Shortfall())

	y, _ := s.Item("it-y")
	z, _ := s.Item("it-z")
	requireDecimal(t, "5", y.QuantityOnHand)
	requireDecimal(t, "100", z.QuantityOnHand)
	assert.Empty(t, s.UsageEvents())
	assert.Empty(t, s.ProductionRuns(), "la corrida nueva también se revierte")
	assert.Empty(t, pub.all())
}

func TestDeductMaterials_ItemRepetidoSeValidaPorTotal(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-a", "MAT-A", "10", "1")
	addProduct(t, s, "prod-3", [2]string{"it-a", "3"}, [2]string{"it-a", "4"})
	uc := newDeduction(s, &recordingPublisher{}, inventory.Options{})

	_, err := uc.DeductMaterials(context.Background(), inventory.DeductInput{ProductID: "prod-3", Quantity: d("2")})
	var short *domain.InsufficientStockError
	require.True(t, errors.As(err, &short))
	requireDecimal(t, "14", short.Required)

	res, err := uc.DeductMaterials(context.Background(), inventory.DeductInput{ProductID: "prod-3", Quantity: d("1")})
	require.NoError(t, err)
	assert.Len(t, res.MaterialsUsed, 2)
	a, _ := s.Item("it-a")
	requireDecimal(t, "3", a.QuantityOnHand)
	assert.Len(t, s.UsageEvents(), 2)
}

func TestDeductMaterials_Rechazos(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-x", "MAT-X", "10", "1")
	addProduct(t, s, "sin-bom")
	addProduct(t, s, "prod-1", [2]string{"it-x", "1"})
	uc := newDeduction(s, &recordingPublisher{}, inventory.Options{})
	ctx := context.Background()

	_, err := uc.DeductMaterials(ctx, inventory.DeductInput{ProductID: "sin-bom", Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrNoBOMDefined))
	var noBOM *domain.NoBOMError
	require.True(t, errors.As(err, &noBOM))
	assert.Equal(t, "Producto sin-bom", noBOM.ProductName)

	_, err = uc.DeductMaterials(ctx, inventory.DeductInput{ProductID: "no-existe", Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	for _, q := range []string{"0", "-2"} {
		_, err = uc.DeductMaterials(ctx, inventory.DeductInput{ProductID: "prod-1", Quantity: d(q)})
		assert.True(t, errors.Is(err, domain.ErrInvalidQuantity), q)
	}

	_, err = uc.DeductMaterials(ctx, inventory.DeductInput{ProductID: "prod-1", ProductionID: "run-x", Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	x, _ := s.Item("it-x")
	requireDecimal(t, "10", x.QuantityOnHand)
}

func TestDeductMaterials_PrecisionDeAlmacenamiento(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-x", "MAT-X", "10", "1")
	addItem(t, s, "it-y", "MAT-Y", "10", "1")
	addProduct(t, s, "diminuto", [2]string{"it-x", "0.0001"})
	addProduct(t, s, "redondeo", [2]string{"it-y", "0.00015"})
	uc := newDeduction(s, &recordingPublisher{}, inventory.Options{})
	ctx := context.Background()

	_, err := uc.DeductMaterials(ctx, inventory.DeductInput{ProductID: "diminuto", Quantity: d("0.1")})
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
	_, err = uc.DeductMaterials(ctx, inventory.DeductInput{ProductID: "diminuto", Quantity: d("0.00001")})
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
	x, _ := s.Item("it-x")
	requireDecimal(t, "10", x.QuantityOnHand)
	assert.Empty(t, s.UsageEvents())

	res, err := uc.DeductMaterials(ctx, inventory.DeductInput{ProductID: "redondeo", Quantity: d("1")})
	require.NoError(t, err)
	requireDecimal(t, "0.0002", res.MaterialsUsed[0].QuantityUsed)
	y, _ := s.Item("it-y")
	requireDecimal(t, "9.9998", y.QuantityOnHand)
}

func TestDeductMaterials_CorridaExistenteUnaSolaVez(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-x", "MAT-X", "10", "1")
	addProduct(t, s, "prod-1", [2]string{"it-x", "1"})
	s.AddProductionRun(entity.ProductionRun{ID: "run-1", ProductID: "prod-1", Quantity: d("2"), Status: entity.ProductionStatusInProgress})
	uc := newDeduction(s, &recordingPublisher{}, inventory.Options{})
	ctx := context.Background()

	res, err := uc.DeductMaterials(ctx, inventory.DeductInput{ProductID: "prod-1", ProductionID: "run-1", Quantity: d("2")})
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.ProductionID)

	run, _ := s.ProductionRun("run-1")
	assert.True(t, run.HasMaterialsSnapshot())
	assert.Equal(t, entity.ProductionStatusInProgress, run.Status)

	_, err = uc.DeductMaterials(ctx, inventory.DeductInput{ProductID: "prod-1", ProductionID: "run-1", Quantity: d("2")})
	assert.True(t, errors.Is(err, domain.ErrAlreadyDeducted))

	x, _ := s.Item("it-x")
	requireDecimal(t, "8", x.QuantityOnHand)
}

func TestDeductMaterials_CorridaExistenteCantidadDistinta(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-x", "MAT-X", "100", "1")
	addProduct(t, s, "prod-1", [2]string{"it-x", "1"})
	s.AddProductionRun(entity.ProductionRun{ID: "run-1", ProductID: "prod-1", Quantity: d("2"), Status: entity.ProductionStatusInProgress})
	uc := newDeduction(s, &recordingPublisher{}, inventory.Options{})

	_, err := uc.DeductMaterials(context.Background(), inventory.DeductInput{ProductID: "prod-1", ProductionID: "run-1", Quantity: d("50")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	run, _ := s.ProductionRun("run-1")
	assert.False(t, run.HasMaterialsSnapshot())
	requireDecimal(t, "2", run.Quantity)
	requireDecimal(t, "0", run.MaterialCost)
	x, _ := s.Item("it-x")
	requireDecimal(t, "100", x.QuantityOnHand)
}

func TestDeductMaterials_FalloAlPublicarNoFallaLaOperacion(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-x", "MAT-X", "10", "1")
	addProduct(t, s, "prod-1", [2]string{"it-x", "1"})
	uc := newDeduction(s, &recordingPublisher{err: errors.New("broker caído")}, inventory.Options{})

	_, err := uc.DeductMaterials(context.Background(), inventory.DeductInput{ProductID: "prod-1", Quantity: d("1")})
	require.NoError(t, err)
}

func TestDeductMaterials_ConcurrenciaNoDejaStockNegativo(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-x", "MAT-X", "10", "1")
	addProduct(t, s, "prod-1", [2]string{"it-x", "3"})
	uc := newDeduction(s, &recordingPublisher{}, inventory.Options{})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, bad int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.DeductMaterials(context.Background(), inventory.DeductInput{ProductID: "prod-1", Quantity: d("1")})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				bad++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 7, bad)
	x, _ := s.Item("it-x")
	requireDecimal(t, "1", x.QuantityOnHand)
	assert.Len(t, s.UsageEvents(), 3)
}

func TestDeductForSimpleBatchOutput_AcumulaDiaYAbonaTerminado(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-x", "MAT-X", "100", "2")
	addItem(t, s, "it-fg", "FG-1", "0", "0")
	addProduct(t, s, "prod-batch", [2]string{"it-x", "2"})
	uc := newDeduction(s, &recordingPublisher{}, inventory.Options{
		SimpleBatchProductID: "prod-batch",
		FinishedGoodsSKU:     "FG-1",
	})
	ctx := context.Background()

	first, err := uc.DeductForSimpleBatchOutput(ctx, inventory.SimpleBatchInput{Quantity: d("5"), Notes: "turno mañana", ProducedBy: "ana"})
	require.NoError(t, err)
	requireDecimal(t, "20", first.TotalCost)
	assert.Equal(t, "2026-10-17", first.DailyOutput.Date)

	second, err := uc.DeductForSimpleBatchOutput(ctx, inventory.SimpleBatchInput{Quantity: d("3")})
	require.NoError(t, err)
	assert.Equal(t, first.DailyOutput.ID, second.DailyOutput.ID)
	requireDecimal(t, "8", second.DailyOutput.QuantityProduced)
	requireDecimal(t, "32", second.DailyOutput.MaterialCost)
	assert.Equal(t, "turno mañana", second.DailyOutput.Notes)

	fg, _ := s.Item("it-fg")
	requireDecimal(t, "8", fg.QuantityOnHand)
	x, _ := s.Item("it-x")
	requireDecimal(t, "84", x.QuantityOnHand)

	daily, ok := s.DailyOutput(now)
	require.True(t, ok)
	assert.Len(t, daily.MaterialsUsed, 2)
}

func TestDeductForSimpleBatchOutput_SinConfiguracionOFaltante(t *testing.T) {
	s := memory.NewStore()
	addItem(t, s, "it-x", "MAT-X", "1", "2")
	addProduct(t, s, "prod-batch", [2]string{"it-x", "2"})
	ctx := context.Background()

	_, err := newDeduction(s, &recordingPublisher{}, inventory.Options{}).
		DeductForSimpleBatchOutput(ctx, inventory.SimpleBatchInput{Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	uc := newDeduction(s, &recordingPublisher{}, inventory.Options{SimpleBatchProductID: "prod-batch", FinishedGoodsSKU: "FG-NO"})
	_, err = uc.DeductForSimpleBatchOutput(ctx, inventory.SimpleBatchInput{Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	_, ok := s.DailyOutput(now)
	assert.False(t, ok)

	require.NoError(t, s.AddItem(entity.InventoryItem{ID: "it-x", SKU: "MAT-X", QuantityOnHand: d("10"), UnitCost: d("2")}))
	res, err := uc.DeductForSimpleBatchOutput(ctx, inventory.SimpleBatchInput{Quantity: d("1")})
	require.NoError(t, err, "sin producto terminado solo se registra una advertencia")
	requireDecimal(t, "1", res.DailyOutput.QuantityProduced)
}
