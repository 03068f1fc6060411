package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	costing "github.com/jhoicas/inventario-produccion/internal/domain/inventory"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// consumption resultado del apply: snapshot por línea y stock restante por ítem.
type consumption struct {
	Lines     []entity.MaterialUsage
	Remaining map[string]decimal.Decimal
	TotalCost decimal.Decimal
}

type requirement struct {
	line     entity.BOMLine
	required decimal.Decimal
}

// consume descuenta los materiales de lines para quantity unidades dentro de la tx del caller.
//
// Orden fijo:
//  1. bloquea todos los ítems referenciados en orden ascendente de id (evita deadlocks)
//  2. pre-flight de todas las líneas; si alguna no alcanza no se muta nada
//  3. apply: descuenta, registra un UsageEvent por línea y acumula costo
func consume(
	ctx context.Context,
	repos repository.Repos,
	lines []entity.BOMLine,
	quantity decimal.Decimal,
	productionID string,
	usageDate, now time.Time,
) (*consumption, error) {
	reqs := make([]requirement, 0, len(lines))
	totals := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		if !l.QtyPerUnit.Mul(quantity).IsPositive() {
			continue
		}
		r := l.Required(quantity)
		if !r.IsPositive() {
			return nil, fmt.Errorf("%w: %s x %s queda por debajo de la precisión de %d decimales",
				domain.ErrInvalidQuantity, l.QtyPerUnit, quantity, entity.QuantityScale)
		}
		reqs = append(reqs, requirement{line: l, required: r})
		totals[l.InventoryItemID] = totals[l.InventoryItemID].Add(r)
	}
	if len(reqs) == 0 {
		return nil, &domain.NoBOMError{ProductID: lines[0].ProductID}
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make(map[string]*entity.InventoryItem, len(ids))
	for _, id := range ids {
		item, err := repos.Items.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: ítem de inventario %s", domain.ErrNotFound, id)
		}
		items[id] = item
	}

	// Pre-flight: un ítem listado dos veces se valida contra su total.
	for _, r := range reqs {
		item := items[r.line.InventoryItemID]
		need := totals[item.ID]
		if item.QuantityOnHand.LessThan(need) {
			return nil, &domain.InsufficientStockError{
				ItemID:    item.ID,
				SKU:       item.SKU,
				Name:      item.Name,
				Unit:      item.Unit,
				Required:  need,
				Available: item.QuantityOnHand,
			}
		}
	}

	out := &consumption{
		Lines:     make([]entity.MaterialUsage, 0, len(reqs)),
		Remaining: make(map[string]decimal.Decimal, len(ids)),
		TotalCost: decimal.Zero,
	}
	for _, r := range reqs {
		item := items[r.line.InventoryItemID]
		item.QuantityOnHand = item.QuantityOnHand.Sub(r.required)

		ev := &entity.UsageEvent{
			ID:              uuid.NewString(),
			InventoryItemID: item.ID,
			ProductionID:    productionID,
			QtyUsed:         r.required,
			Date:            usageDate,
			CreatedAt:       now,
		}
		if err := repos.Usage.Create(ctx, ev); err != nil {
			return nil, err
		}

		cost := costing.LineCost(item.UnitCost, r.required)
		out.Lines = append(out.Lines, entity.MaterialUsage{
			InventoryItemID: item.ID,
			SKU:             item.SKU,
			Name:            item.Name,
			Unit:            item.Unit,
			QuantityUsed:    r.required,
			UnitCost:        item.UnitCost,
			LineCost:        cost,
		})
		out.TotalCost = out.TotalCost.Add(cost)
	}
	for _, id := range ids {
		item := items[id]
		item.UpdatedAt = now
		if err := repos.Items.UpdateStock(ctx, item); err != nil {
			return nil, err
		}
		out.Remaining[id] = item.QuantityOnHand
	}
	return out, nil
}

// dateOnly fecha de calendario en UTC, igual que las columnas DATE leídas por pgx.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
