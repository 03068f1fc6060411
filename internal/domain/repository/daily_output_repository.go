package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// DailyOutputRepository resumen diario de la línea de lotes simples (clave: fecha).
type DailyOutputRepository interface {
	// GetByDateForUpdate devuelve (nil, nil) si no hay registro para ese día.
	GetByDateForUpdate(ctx context.Context, date time.Time) (*entity.DailyOutput, error)
	Upsert(ctx context.Context, out *entity.DailyOutput) error
}
