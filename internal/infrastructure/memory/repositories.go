package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

const dateKeyLayout = "2006-01-02"

var (
	_ repository.InventoryItemRepository   = (*itemRepo)(nil)
	_ repository.BOMRepository             = (*bomRepo)(nil)
	_ repository.UsageEventRepository      = (*usageRepo)(nil)
	_ repository.ProductionRepository      = (*productionRepo)(nil)
	_ repository.ProductionStageRepository = (*stageRepo)(nil)
	_ repository.DailyOutputRepository     = (*dailyOutputRepo)(nil)
)

type itemRepo struct{ st *state }

func (r *itemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	if _, ok := r.st.items[item.ID]; ok {
		return fmt.Errorf("create inventory item: id %s duplicado", item.ID)
	}
	for _, it := range r.st.items {
		if it.SKU == item.SKU {
			return fmt.Errorf("create inventory item: sku %s duplicado", item.SKU)
		}
	}
	r.st.items[item.ID] = cloneItem(*item)
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	it, ok := r.st.items[id]
	if !ok {
		return nil, nil
	}
	c := cloneItem(it)
	return &c, nil
}

func (r *itemRepo) GetBySKU(_ context.Context, sku string) (*entity.InventoryItem, error) {
	for _, it := range r.st.items {
		if it.SKU == sku {
			c := cloneItem(it)
			return &c, nil
		}
	}
	return nil, nil
}

// GetForUpdate el lock lo da el escritor único del Store.
func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) UpdateStock(_ context.Context, item *entity.InventoryItem) error {
	cur, ok := r.st.items[item.ID]
	if !ok {
		return fmt.Errorf("update stock: ítem %s no existe", item.ID)
	}
	if item.QuantityOnHand.IsNegative() {
		return fmt.Errorf("update stock: cantidad negativa para %s", cur.SKU)
	}
	cur.QuantityOnHand = item.QuantityOnHand
	cur.UnitCost = item.UnitCost
	cur.UpdatedAt = item.UpdatedAt
	r.st.items[item.ID] = cur
	return nil
}

func (r *itemRepo) List(_ context.Context) ([]*entity.InventoryItem, error) {
	out := make([]*entity.InventoryItem, 0, len(r.st.items))
	for _, it := range r.st.items {
		c := cloneItem(it)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

type bomRepo struct{ st *state }

func (r *bomRepo) GetProduct(_ context.Context, productID string) (*entity.Product, error) {
	p, ok := r.st.products[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *bomRepo) ListByProduct(_ context.Context, productID string) ([]entity.BOMLine, error) {
	return append([]entity.BOMLine(nil), r.st.bom[productID]...), nil
}

type usageRepo struct{ st *state }

func (r *usageRepo) Create(_ context.Context, ev *entity.UsageEvent) error {
	r.st.pending = append(r.st.pending, *ev)
	return nil
}

func (r *usageRepo) ListByItem(_ context.Context, itemID string, from, to time.Time) ([]entity.UsageEvent, error) {
	var out []entity.UsageEvent
	r.st.eachUsage(func(ev entity.UsageEvent) {
		if ev.InventoryItemID == itemID && inRange(ev.Date, from, to) {
			out = append(out, ev)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *usageRepo) ListBetween(_ context.Context, from, to time.Time) ([]entity.UsageEvent, error) {
	var out []entity.UsageEvent
	r.st.eachUsage(func(ev entity.UsageEvent) {
		if inRange(ev.Date, from, to) {
			out = append(out, ev)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

type productionRepo struct{ st *state }

func (r *productionRepo) Create(_ context.Context, run *entity.ProductionRun) error {
	if _, ok := r.st.runs[run.ID]; ok {
		return fmt.Errorf("create production run: id %s duplicado", run.ID)
	}
	r.st.runs[run.ID] = cloneRun(*run)
	return nil
}

func (r *productionRepo) GetByID(_ context.Context, id string) (*entity.ProductionRun, error) {
	run, ok := r.st.runs[id]
	if !ok {
		return nil, nil
	}
	c := cloneRun(run)
	return &c, nil
}

func (r *productionRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionRun, error) {
	return r.GetByID(ctx, id)
}

func (r *productionRepo) Update(_ context.Context, run *entity.ProductionRun) error {
	if _, ok := r.st.runs[run.ID]; !ok {
		return fmt.Errorf("update production run: %s no existe", run.ID)
	}
	r.st.runs[run.ID] = cloneRun(*run)
	return nil
}

type stageRepo struct{ st *state }

func (r *stageRepo) Create(_ context.Context, stage *entity.ProductionStage) error {
	if _, ok := r.st.stages[stage.ID]; ok {
		return fmt.Errorf("create production stage: id %s duplicado", stage.ID)
	}
	r.st.stages[stage.ID] = cloneStage(*stage)
	return nil
}

func (r *stageRepo) GetByID(_ context.Context, id string) (*entity.ProductionStage, error) {
	st, ok := r.st.stages[id]
	if !ok {
		return nil, nil
	}
	c := cloneStage(st)
	return &c, nil
}

func (r *stageRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionStage, error) {
	return r.GetByID(ctx, id)
}

func (r *stageRepo) ListByProduction(_ context.Context, productionID string) ([]entity.ProductionStage, error) {
	var out []entity.ProductionStage
	for _, st := range r.st.stages {
		if st.ProductionID == productionID {
			out = append(out, cloneStage(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *stageRepo) Update(_ context.Context, stage *entity.ProductionStage) error {
	if _, ok := r.st.stages[stage.ID]; !ok {
		return fmt.Errorf("update production stage: %s no existe", stage.ID)
	}
	r.st.stages[stage.ID] = cloneStage(*stage)
	return nil
}

type dailyOutputRepo struct{ st *state }

func (r *dailyOutputRepo) GetByDateForUpdate(_ context.Context, date time.Time) (*entity.DailyOutput, error) {
	d, ok := r.st.daily[date.Format(dateKeyLayout)]
	if !ok {
		return nil, nil
	}
	d.MaterialsUsed = append([]entity.MaterialUsage(nil), d.MaterialsUsed...)
	return &d, nil
}

func (r *dailyOutputRepo) Upsert(_ context.Context, out *entity.DailyOutput) error {
	d := *out
	d.MaterialsUsed = append([]entity.MaterialUsage(nil), out.MaterialsUsed...)
	r.st.daily[out.Date.Format(dateKeyLayout)] = d
	return nil
}
