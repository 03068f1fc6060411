package repository

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// ProductionRepository corridas de producción.
type ProductionRepository interface {
	Create(ctx context.Context, run *entity.ProductionRun) error
	GetByID(ctx context.Context, id string) (*entity.ProductionRun, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionRun, error)
	Update(ctx context.Context, run *entity.ProductionRun) error
}

// ProductionStageRepository etapas de las corridas.
type ProductionStageRepository interface {
	Create(ctx context.Context, stage *entity.ProductionStage) error
	GetByID(ctx context.Context, id string) (*entity.ProductionStage, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionStage, error)
	// ListByProduction etapas ordenadas por Sequence.
	ListByProduction(ctx context.Context, productionID string) ([]entity.ProductionStage, error)
	Update(ctx context.Context, stage *entity.ProductionStage) error
}
