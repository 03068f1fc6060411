package inventory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/infrastructure/memory"
)

var now = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

var clock = domain.FixedClock{T: now}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, d(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

func addItem(t *testing.T, s *memory.Store, id, sku, onHand, cost string) {
	t.Helper()
	require.NoError(t, s.AddItem(entity.InventoryItem{
		ID: id, SKU: sku, Name: "Material " + sku, Unit: "kg", Category: entity.ItemCategoryRaw,
		QuantityOnHand: d(onHand), UnitCost: d(cost), CreatedAt: now, UpdatedAt: now,
	}))
}

func addProduct(t *testing.T, s *memory.Store, id string, lines ...[2]string) {
	t.Helper()
	bom := make([]entity.BOMLine, 0, len(lines))
	for i, l := range lines {
		line, err := entity.NewBOMLine(fmt.Sprintf("%s-l%d", id, i), id, l[0], d(l[1]), i)
		require.NoError(t, err)
		bom = append(bom, *line)
	}
	require.NoError(t, s.AddProduct(entity.Product{ID: id, Name: "Producto " + id}, bom...))
}

type published struct {
	eventType string
	key       string
	payload   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{eventType: eventType, key: key, payload: payload})
	return p.err
}

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}
