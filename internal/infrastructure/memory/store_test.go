package memory_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
)

func newStoreWithItem(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.AddItem(entity.InventoryItem{
		ID: "it-1", SKU: "MAT-1", Name: "Harina", Unit: "kg",
		QuantityOnHand: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(2),
	}))
	return s
}

func TestRun_ConfirmaCambios(t *testing.T) {
	s := newStoreWithItem(t)
	ctx := context.Background()

	err := s.Run(ctx, func(repos repository.Repos) error {
		item, err := repos.Items.GetForUpdate(ctx, "it-1")
		require.NoError(t, err)
		item.QuantityOnHand = decimal.NewFromInt(4)
		return repos.Items.UpdateStock(ctx, item)
	})
	require.NoError(t, err)

	item, ok := s.Item("it-1")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(4).Equal(item.QuantityOnHand))
}

func TestRun_ErrorDescartaTodo(t *testing.T) {
	s := newStoreWithItem(t)
	ctx := context.Background()
	boom := errors.New("falla a mitad")

	err := s.Run(ctx, func(repos repository.Repos) error {
		item, _ := repos.Items.GetForUpdate(ctx, "it-1")
		item.QuantityOnHand = decimal.Zero
		require.NoError(t, repos.Items.UpdateStock(ctx, item))
		require.NoError(t, repos.Usage.Create(ctx, &entity.UsageEvent{ID: "ev-1", InventoryItemID: "it-1", QtyUsed: decimal.NewFromInt(10)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	item, _ := s.Item("it-1")
	assert.True(t, decimal.NewFromInt(10).Equal(item.QuantityOnHand))
	assert.Empty(t, s.UsageEvents())
}

func TestRun_LecturaDentroDeTxVeCambiosPropios(t *testing.T) {
	s := newStoreWithItem(t)
	ctx := context.Background()

	_ = s.Run(ctx, func(repos repository.Repos) error {
		item, _ := repos.Items.GetForUpdate(ctx, "it-1")
		item.QuantityOnHand = decimal.NewFromInt(3)
		require.NoError(t, repos.Items.UpdateStock(ctx, item))

		again, _ := repos.Items.GetBySKU(ctx, "MAT-1")
		assert.True(t, decimal.NewFromInt(3).Equal(again.QuantityOnHand))
		return errors.New("rollback")
	})

	item, _ := s.Item("it-1")
	assert.True(t, decimal.NewFromInt(10).Equal(item.QuantityOnHand))
}

func TestUpdateStock_RechazaNegativo(t *testing.T) {
	s := newStoreWithItem(t)
	ctx := context.Background()

	err := s.Run(ctx, func(repos repository.Repos) error {
		item, _ := repos.Items.GetForUpdate(ctx, "it-1")
		item.QuantityOnHand = decimal.NewFromInt(-1)
		return repos.Items.UpdateStock(ctx, item)
	})
	assert.Error(t, err)
}

func TestRunReadOnly_NoPublicaEscrituras(t *testing.T) {
	s := newStoreWithItem(t)
	ctx := context.Background()

	require.NoError(t, s.RunReadOnly(ctx, func(repos repository.Repos) error {
		return repos.Usage.Create(ctx, &entity.UsageEvent{ID: "x", InventoryItemID: "it-1"})
	}))
	assert.Empty(t, s.UsageEvents())
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := newStoreWithItem(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(repository.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUsage_RangoInclusivo(t *testing.T) {
	s := newStoreWithItem(t)
	ctx := context.Background()
	d := func(day int) time.Time { return time.Date(2026, 10, day, 0, 0, 0, 0, time.UTC) }
	s.AddUsage(
		entity.UsageEvent{ID: "a", InventoryItemID: "it-1", QtyUsed: decimal.NewFromInt(1), Date: d(1)},
		entity.UsageEvent{ID: "b", InventoryItemID: "it-1", QtyUsed: decimal.NewFromInt(1), Date: d(5)},
		entity.UsageEvent{ID: "c", InventoryItemID: "it-1", QtyUsed: decimal.NewFromInt(1), Date: d(10)},
		entity.UsageEvent{ID: "z", InventoryItemID: "it-2", QtyUsed: decimal.NewFromInt(1), Date: d(5)},
	)

	_ = s.RunReadOnly(ctx, func(repos repository.Repos) error {
		evs, err := repos.Usage.ListByItem(ctx, "it-1", d(1), d(5))
		require.NoError(t, err)
		require.Len(t, evs, 2)
		assert.Equal(t, "b", evs[0].ID, "más recientes primero")

		all, err := repos.Usage.ListBetween(ctx, d(5), d(10))
		require.NoError(t, err)
		assert.Len(t, all, 3)
		return nil
	})
}

func TestUsage_HistorialCompartidoEntreTransacciones(t *testing.T) {
	s := newStoreWithItem(t)
	ctx := context.Background()
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	ev := func(id string) *entity.UsageEvent {
		return &entity.UsageEvent{ID: id, InventoryItemID: "it-1", QtyUsed: decimal.NewFromInt(1), Date: day}
	}
	s.AddUsage(*ev("h-1"))

	require.NoError(t, s.Run(ctx, func(repos repository.Repos) error {
		require.NoError(t, repos.Usage.Create(ctx, ev("ok-1")))
		evs, err := repos.Usage.ListByItem(ctx, "it-1", day, day)
		require.NoError(t, err)
		assert.Len(t, evs, 2, "la transacción ve sus propios eventos")
		return nil
	}))

	err := s.Run(ctx, func(repos repository.Repos) error {
		require.NoError(t, repos.Usage.Create(ctx, ev("fallido")))
		return errors.New("abortar")
	})
	require.Error(t, err)

	var snapshot repository.UsageEventRepository
	require.NoError(t, s.RunReadOnly(ctx, func(repos repository.Repos) error {
		snapshot = repos.Usage
		return nil
	}))

	require.NoError(t, s.Run(ctx, func(repos repository.Repos) error {
		return repos.Usage.Create(ctx, ev("ok-2"))
	}))

	snap, err := snapshot.ListBetween(ctx, day, day)
	require.NoError(t, err)
	assert.Len(t, snap, 2, "un snapshot no ve confirmaciones posteriores")
	ids := make([]string, 0, 3)
	for _, e := range s.UsageEvents() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"h-1", "ok-1", "ok-2"}, ids)
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	content := `items:
  - id: it-harina
    sku: MAT-HARINA
    name: Harina
    unit: kg
    quantity_on_hand: "120"
    unit_cost: "2.5"
    reorder_point: "40"
    lead_time_days: 5
products:
  - id: prod-pan
    name: Pan
    bom:
      - item_id: it-harina
        qty_per_unit: "0.5"
production_runs:
  - id: run-1
    product_id: prod-pan
    quantity: "10"
    stages: [amasado, horneado]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s := memory.NewStore()
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	require.NoError(t, memory.LoadSeedFile(s, path, now))

	item, ok := s.Item("it-harina")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("120").Equal(item.QuantityOnHand))
	require.NotNil(t, item.ReorderPoint)
	assert.Nil(t, item.MaxLevel)
	assert.Equal(t, 5, item.LeadTimeDays)
	assert.Equal(t, entity.ItemCategoryRaw, item.Category)

	ctx := context.Background()
	_ = s.RunReadOnly(ctx, func(repos repository.Repos) error {
		lines, err := repos.BOM.ListByProduct(ctx, "prod-pan")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.True(t, decimal.RequireFromString("0.5").Equal(lines[0].QtyPerUnit))

		stages, err := repos.Stages.ListByProduction(ctx, "run-1")
		require.NoError(t, err)
		require.Len(t, stages, 2)
		assert.Equal(t, "amasado", stages[0].Name)
		return nil
	})
}
