// Package scheduler tareas periódicas (cron) del motor de reposición.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

// ScheduleSource genera el calendario de reposición (ForecastUseCase).
type ScheduleSource interface {
	GetReplenishmentSchedule(ctx context.Context, windowDays int) (*dto.ReplenishmentScheduleDTO, error)
}

// ReplenishmentJob recalcula el calendario según una expresión cron y publica
// replenishment.due cuando hay ítems accionables.
type ReplenishmentJob struct {
	cron      *cron.Cron
	spec      string
	source    ScheduleSource
	publisher ports.EventPublisher
	log       *logger.Logger
	timeout   time.Duration
}

// NewReplenishmentJob valida la expresión (5 campos estándar) y prepara el job sin arrancarlo.
func NewReplenishmentJob(spec string, source ScheduleSource, publisher ports.EventPublisher, log *logger.Logger) (*ReplenishmentJob, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("expresión cron %q: %w", spec, err)
	}
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReplenishmentJob{
		cron:      cron.New(),
		spec:      spec,
		source:    source,
		publisher: publisher,
		log:       log.Component("scheduler"),
		timeout:   2 * time.Minute,
	}, nil
}

// Start registra el job y arranca el cron en segundo plano.
func (j *ReplenishmentJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.run); err != nil {
		return fmt.Errorf("programar reposición: %w", err)
	}
	j.cron.Start()
	j.log.Info().Str("spec", j.spec).Msg("job de reposición programado")
	return nil
}

// Stop detiene el cron y espera a que termine la ejecución en curso (o ctx).
func (j *ReplenishmentJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.log.Warn().Msg("job de reposición no terminó antes del cierre")
	}
}

func (j *ReplenishmentJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if _, err := j.RunOnce(ctx); err != nil {
		j.log.Error().Err(err).Msg("falló el cálculo de reposición")
	}
}

// RunOnce calcula el calendario con la ventana por defecto y devuelve cuántos ítems son accionables.
func (j *ReplenishmentJob) RunOnce(ctx context.Context) (int, error) {
	schedule, err := j.source.GetReplenishmentSchedule(ctx, 0)
	if err != nil {
		return 0, err
	}
	urgent := 0
	for _, it := range schedule.Items {
		if it.NeedsImmediateReorder {
			urgent++
		}
	}
	j.log.Info().
		Int("items", len(schedule.Items)).
		Int("immediate", urgent).
		Int("window_days", schedule.WindowDays).
		Msg("calendario de reposición recalculado")

	if len(schedule.Items) == 0 {
		return 0, nil
	}
	key := schedule.GeneratedAt.Format(dto.DateLayout)
	if err := j.publisher.Publish(ctx, domain.EventReplenishmentDue, key, schedule); err != nil {
		j.log.Warn().Err(err).Msg("no se pudo publicar replenishment.due")
	}
	return len(schedule.Items), nil
}
