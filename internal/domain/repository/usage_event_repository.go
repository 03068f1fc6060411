package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// UsageEventRepository historial de consumo (append-only).
type UsageEventRepository interface {
	Create(ctx context.Context, ev *entity.UsageEvent) error
	// ListByItem eventos del ítem con fecha en [from, to], más recientes primero.
	ListByItem(ctx context.Context, itemID string, from, to time.Time) ([]entity.UsageEvent, error)
	// ListBetween eventos de todos los ítems con fecha en [from, to].
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.UsageEvent, error)
}
