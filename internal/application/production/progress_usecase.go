// Package production casos de uso del seguimiento de avance de producción.
package production

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	stagefsm "github.com/jhoicas/inventario-produccion/internal/domain/production"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/inventario-produccion/internal/application/production")

// TxRunner ejecuta fn en una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// ProgressUseCase actualiza etapas y recalcula el avance de la corrida en la misma transacción.
type ProgressUseCase struct {
	tx        TxRunner
	publisher ports.EventPublisher
	metrics   ports.InventoryMetrics
	clock     domain.Clock
	log       *logger.Logger
}

// NewProgressUseCase construye el caso de uso.
func NewProgressUseCase(
	tx TxRunner,
	publisher ports.EventPublisher,
	metrics ports.InventoryMetrics,
	clock domain.Clock,
	log *logger.Logger,
) *ProgressUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProgressUseCase{
		tx:        tx,
		publisher: publisher,
		metrics:   metrics,
		clock:     clock,
		log:       log.Component("production"),
	}
}

// UpdateStageInput cambio de estado, avance y/o notas de una etapa.
type UpdateStageInput struct {
	Status             string
	ProgressPercentage *decimal.Decimal
	Notes              *string
}

// UpdateStage aplica la transición de la etapa y agrega el estado de su corrida.
func (uc *ProgressUseCase) UpdateStage(ctx context.Context, stageID string, in UpdateStageInput) (*dto.UpdateStageResultDTO, error) {
	ctx, span := tracer.Start(ctx, "production.UpdateStage", trace.WithAttributes(
		attribute.String("stage.id", stageID),
		attribute.String("stage.status", in.Status),
	))
	defer span.End()

	if stageID == "" {
		return nil, fmt.Errorf("%w: stage id es obligatorio", domain.ErrInvalidInput)
	}

	now := uc.clock.Now()
	var (
		stage         *entity.ProductionStage
		run           *entity.ProductionRun
		changed       bool
		justCompleted bool
	)
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		var err error
		stage, err = repos.Stages.GetForUpdate(ctx, stageID)
		if err != nil {
			return err
		}
		if stage == nil {
			return fmt.Errorf("%w: etapa %s", domain.ErrNotFound, stageID)
		}

		changed, err = stagefsm.ApplyStageUpdate(stage, stagefsm.StageUpdate{
			Status:             in.Status,
			ProgressPercentage: in.ProgressPercentage,
			Notes:              in.Notes,
		}, now)
		if err != nil {
			return err
		}

		run, err = repos.Productions.GetForUpdate(ctx, stage.ProductionID)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("%w: corrida %s", domain.ErrNotFound, stage.ProductionID)
		}
		if !changed {
			return nil
		}
		if err := repos.Stages.Update(ctx, stage); err != nil {
			return err
		}

		stages, err := repos.Stages.ListByProduction(ctx, run.ID)
		if err != nil {
			return err
		}
		agg, ok := stagefsm.Aggregate(stages)
		if !ok {
			return nil
		}
		justCompleted = stagefsm.ApplyToRun(run, agg, now)
		return repos.Productions.Update(ctx, run)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.log.Warn().Err(err).Str("stage_id", stageID).Str("status", in.Status).Msg("actualización de etapa rechazada")
		return nil, err
	}

	if changed {
		uc.metrics.StageTransition(stage.Status)
		uc.log.Info().
			Str("stage_id", stage.ID).
			Str("production_id", run.ID).
			Str("stage_status", stage.Status).
			Str("run_status", run.Status).
			Str("run_progress", run.ProgressPercentage.String()).
			Msg("etapa actualizada")
	}
	if justCompleted {
		uc.publishCompleted(ctx, run)
	}

	return &dto.UpdateStageResultDTO{
		Stage: dto.ProductionStageDTO{
			ID:                 stage.ID,
			ProductionID:       stage.ProductionID,
			Name:               stage.Name,
			Sequence:           stage.Sequence,
			Status:             stage.Status,
			ProgressPercentage: stage.ProgressPercentage,
			Notes:              stage.Notes,
			ActualStartTime:    stage.ActualStartTime,
			ActualEndTime:      stage.ActualEndTime,
		},
		Run: dto.ProductionRunSummaryDTO{
			ID:                 run.ID,
			Status:             run.Status,
			ProgressPercentage: run.ProgressPercentage,
			ActualEndDate:      run.ActualEndDate,
		},
	}, nil
}

func (uc *ProgressUseCase) publishCompleted(ctx context.Context, run *entity.ProductionRun) {
	completedAt := uc.clock.Now()
	if run.ActualEndDate != nil {
		completedAt = *run.ActualEndDate
	}
	ev := domain.ProductionCompletedEvent{
		ProductionID: run.ID,
		ProductID:    run.ProductID,
		Quantity:     run.Quantity,
		CompletedAt:  completedAt,
	}
	if err := uc.publisher.Publish(ctx, domain.EventProductionCompleted, run.ID, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", domain.EventProductionCompleted).Msg("no se pudo publicar el evento")
	}
}
