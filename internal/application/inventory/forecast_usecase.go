package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/forecast"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// ForecastUseCase pronósticos de consumo y calendario de reposición.
// Solo lectura: los cálculos son funciones puras sobre un snapshot.
type ForecastUseCase struct {
	tx            TxRunner
	metrics       ports.InventoryMetrics
	clock         domain.Clock
	log           *logger.Logger
	defaultWindow int
}

// NewForecastUseCase construye el caso de uso. defaultWindow <= 0 usa 30 días.
func NewForecastUseCase(tx TxRunner, metrics ports.InventoryMetrics, clock domain.Clock, log *logger.Logger, defaultWindow int) *ForecastUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ForecastUseCase{
		tx:            tx,
		metrics:       metrics,
		clock:         clock,
		log:           log.Component("forecast"),
		defaultWindow: forecast.NormalizeWindow(defaultWindow),
	}
}

func (uc *ForecastUseCase) window(windowDays int) int {
	if windowDays <= 0 {
		return uc.defaultWindow
	}
	return windowDays
}

// GetForecast señales de un ítem.
func (uc *ForecastUseCase) GetForecast(ctx context.Context, itemID string, windowDays int) (*dto.ForecastDTO, error) {
	w := uc.window(windowDays)
	now := uc.clock.Now()

	var (
		item   *entity.InventoryItem
		events []entity.UsageEvent
	)
	err := uc.tx.RunReadOnly(ctx, func(repos repository.Repos) error {
		var err error
		item, err = repos.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: ítem de inventario %s", domain.ErrNotFound, itemID)
		}
		events, err = repos.Usage.ListByItem(ctx, item.ID, forecast.WindowStart(now, w), now)
		return err
	})
	if err != nil {
		return nil, err
	}

	res := forecast.Compute(item, events, w, now)
	uc.logMissingConfig(res)
	out := toForecastDTO(res)
	return &out, nil
}

// ListForecasts señales de todos los ítems, los que se agotan antes primero
// (sin consumo al final), luego por SKU.
func (uc *ForecastUseCase) ListForecasts(ctx context.Context, windowDays int) ([]dto.ForecastDTO, error) {
	w := uc.window(windowDays)
	now := uc.clock.Now()

	items, events, err := uc.snapshot(ctx, w)
	if err != nil {
		return nil, err
	}
	byItem := groupUsage(events)

	results := make([]forecast.Result, 0, len(items))
	for _, item := range items {
		res := forecast.Compute(item, byItem[item.ID], w, now)
		uc.logMissingConfig(res)
		results = append(results, res)
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].DaysToDepletion, results[j].DaysToDepletion
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return results[i].SKU < results[j].SKU
	})

	out := make([]dto.ForecastDTO, 0, len(results))
	for _, r := range results {
		out = append(out, toForecastDTO(r))
	}
	return out, nil
}

// GetReplenishmentSchedule calendario de reposición (solo ítems accionables).
func (uc *ForecastUseCase) GetReplenishmentSchedule(ctx context.Context, windowDays int) (*dto.ReplenishmentScheduleDTO, error) {
	w := uc.window(windowDays)
	now := uc.clock.Now()

	items, events, err := uc.snapshot(ctx, w)
	if err != nil {
		return nil, err
	}
	entries := forecast.BuildSchedule(items, events, w, now)
	uc.metrics.ReplenishmentActionable(len(entries))

	out := &dto.ReplenishmentScheduleDTO{
		WindowDays:  w,
		GeneratedAt: now,
		Items:       make([]dto.ReplenishmentEntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		out.Items = append(out.Items, toScheduleEntryDTO(e))
	}
	return out, nil
}

// snapshot ítems y consumo de la ventana leídos en la misma transacción.
func (uc *ForecastUseCase) snapshot(ctx context.Context, w int) ([]*entity.InventoryItem, []entity.UsageEvent, error) {
	now := uc.clock.Now()
	var (
		items  []*entity.InventoryItem
		events []entity.UsageEvent
	)
	err := uc.tx.RunReadOnly(ctx, func(repos repository.Repos) error {
		var err error
		if items, err = repos.Items.List(ctx); err != nil {
			return err
		}
		events, err = repos.Usage.ListBetween(ctx, forecast.WindowStart(now, w), now)
		return err
	})
	return items, events, err
}

func (uc *ForecastUseCase) logMissingConfig(res forecast.Result) {
	if len(res.MissingConfig) == 0 {
		return
	}
	uc.log.Info().
		Str("item_id", res.ItemID).
		Str("sku", res.SKU).
		Strs("missing", res.MissingConfig).
		Msg("ítem sin configuración de reposición completa")
}

func groupUsage(events []entity.UsageEvent) map[string][]entity.UsageEvent {
	out := make(map[string][]entity.UsageEvent)
	for _, ev := range events {
		out[ev.InventoryItemID] = append(out[ev.InventoryItemID], ev)
	}
	return out
}
