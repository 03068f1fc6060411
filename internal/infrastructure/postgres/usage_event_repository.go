package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.UsageEventRepository = (*UsageEventRepo)(nil)

// UsageEventRepo historial de consumo sobre PostgreSQL. Solo inserciones.
type UsageEventRepo struct {
	q Querier
}

// NewUsageEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsageEventRepository(q Querier) *UsageEventRepo {
	return &UsageEventRepo{q: q}
}

// Create inserta un evento. production_id vacío (lote simple) se guarda como NULL.
func (r *UsageEventRepo) Create(ctx context.Context, ev *entity.UsageEvent) error {
	query := `
		INSERT INTO usage_events (id, inventory_item_id, production_id, qty_used, usage_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		ev.ID, ev.InventoryItemID, nullIfEmpty(ev.ProductionID), ev.QtyUsed, ev.Date, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert usage event: %w", err)
	}
	return nil
}

// ListByItem eventos del ítem con usage_date en [from, to], más recientes primero.
func (r *UsageEventRepo) ListByItem(ctx context.Context, itemID string, from, to time.Time) ([]entity.UsageEvent, error) {
	query := `
		SELECT id, inventory_item_id, production_id, qty_used, usage_date, created_at
		FROM usage_events
		WHERE inventory_item_id = $1 AND usage_date BETWEEN $2::date AND $3::date
		ORDER BY usage_date DESC, created_at DESC`
	return r.list(ctx, query, itemID, from, to)
}

// ListBetween eventos de todos los ítems con usage_date en [from, to].
func (r *UsageEventRepo) ListBetween(ctx context.Context, from, to time.Time) ([]entity.UsageEvent, error) {
	query := `
		SELECT id, inventory_item_id, production_id, qty_used, usage_date, created_at
		FROM usage_events
		WHERE usage_date BETWEEN $1::date AND $2::date
		ORDER BY usage_date, created_at`
	return r.list(ctx, query, from, to)
}

func (r *UsageEventRepo) list(ctx context.Context, query string, args ...any) ([]entity.UsageEvent, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list usage events: %w", err)
	}
	defer rows.Close()

	var events []entity.UsageEvent
	for rows.Next() {
		var ev entity.UsageEvent
		var productionID *string
		if err := rows.Scan(&ev.ID, &ev.InventoryItemID, &productionID, &ev.QtyUsed, &ev.Date, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage event: %w", err)
		}
		ev.ProductionID = derefString(productionID)
		events = append(events, ev)
	}
	return events, rows.Err()
}
