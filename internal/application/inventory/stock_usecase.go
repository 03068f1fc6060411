package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	costing "github.com/jhoicas/inventario-produccion/internal/domain/inventory"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

const defaultHistoryDays = 30

// StockUseCase entradas de stock e historial de consumo.
type StockUseCase struct {
	tx      TxRunner
	metrics ports.InventoryMetrics
	clock   domain.Clock
	log     *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx TxRunner, metrics ports.InventoryMetrics, clock domain.Clock, log *logger.Logger) *StockUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{tx: tx, metrics: metrics, clock: clock, log: log.Component("stock")}
}

// ReceiveInput entrada de mercancía. UnitCost nil conserva el costo actual.
type ReceiveInput struct {
	ItemID   string
	Quantity decimal.Decimal
	UnitCost *decimal.Decimal
}

// ReceiveStock abona stock al ítem bloqueando la fila y recalcula el costo promedio ponderado.
func (uc *StockUseCase) ReceiveStock(ctx context.Context, in ReceiveInput) (*dto.InventoryItemDTO, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.ItemID == "" {
		return nil, fmt.Errorf("%w: item id es obligatorio", domain.ErrInvalidInput)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
	}

	now := uc.clock.Now()
	var item *entity.InventoryItem
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		var err error
		item, err = repos.Items.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: ítem de inventario %s", domain.ErrNotFound, in.ItemID)
		}
		if in.UnitCost != nil {
			item.UnitCost = costing.WeightedAverageCost(item.QuantityOnHand, item.UnitCost, in.Quantity, *in.UnitCost)
		}
		item.QuantityOnHand = item.QuantityOnHand.Add(in.Quantity)
		item.UpdatedAt = now
		return repos.Items.UpdateStock(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.StockReceived(item.SKU, in.Quantity)
	uc.log.Info().
		Str("sku", item.SKU).
		Str("quantity", in.Quantity.String()).
		Str("on_hand", item.QuantityOnHand.String()).
		Str("unit_cost", item.UnitCost.String()).
		Msg("entrada de stock registrada")
	return toItemDTO(item), nil
}

// DeductionHistory eventos de consumo de los materiales del BOM del producto en [from, to],
// más recientes primero. from/to cero: últimos 30 días hasta hoy.
func (uc *StockUseCase) DeductionHistory(ctx context.Context, productID string, from, to time.Time) (*dto.DeductionHistoryDTO, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id es obligatorio", domain.ErrInvalidInput)
	}
	now := uc.clock.Now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = dateOnly(to).AddDate(0, 0, -defaultHistoryDays)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}

	out := &dto.DeductionHistoryDTO{
		ProductID:     productID,
		From:          from.Format(dto.DateLayout),
		To:            to.Format(dto.DateLayout),
		Events:        []dto.UsageEventDTO{},
		TotalQuantity: decimal.Zero,
	}
	type row struct {
		ev   entity.UsageEvent
		item *entity.InventoryItem
	}
	var rows []row

	err := uc.tx.RunReadOnly(ctx, func(repos repository.Repos) error {
		lines, err := NewBOMResolver(repos.BOM).Resolve(ctx, productID)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(lines))
		for _, l := range lines {
			if seen[l.InventoryItemID] {
				continue
			}
			seen[l.InventoryItemID] = true

			item, err := repos.Items.GetByID(ctx, l.InventoryItemID)
			if err != nil {
				return err
			}
			if item == nil {
				continue
			}
			events, err := repos.Usage.ListByItem(ctx, item.ID, from, to)
			if err != nil {
				return err
			}
			for _, ev := range events {
				rows = append(rows, row{ev: ev, item: item})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].ev, rows[j].ev
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	for _, r := range rows {
		out.Events = append(out.Events, dto.UsageEventDTO{
			ID:              r.ev.ID,
			InventoryItemID: r.item.ID,
			SKU:             r.item.SKU,
			ItemName:        r.item.Name,
			ProductionID:    r.ev.ProductionID,
			QtyUsed:         r.ev.QtyUsed,
			Date:            r.ev.Date.Format(dto.DateLayout),
		})
		out.TotalQuantity = out.TotalQuantity.Add(r.ev.QtyUsed)
	}
	return out, nil
}
