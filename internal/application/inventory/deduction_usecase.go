package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-produccion/internal/application/dto"
	"github.com/jhoicas/inventario-produccion/internal/application/ports"
	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
	"github.com/jhoicas/inventario-produccion/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/inventario-produccion/internal/application/inventory")

const (
	opDeduct      = "deduct"
	opSimpleBatch = "simple_batch"
)

// DeductionUseCase descuenta materias primas según el BOM del producto fabricado.
// Todo el consumo de una llamada se aplica en una sola transacción o no se aplica.
type DeductionUseCase struct {
	tx        TxRunner
	publisher ports.EventPublisher
	metrics   ports.InventoryMetrics
	clock     domain.Clock
	log       *logger.Logger
	opts      Options
}

// NewDeductionUseCase construye el caso de uso. publisher/metrics nil usan implementaciones vacías.
func NewDeductionUseCase(
	tx TxRunner,
	publisher ports.EventPublisher,
	metrics ports.InventoryMetrics,
	clock domain.Clock,
	log *logger.Logger,
	opts Options,
) *DeductionUseCase {
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
	return &DeductionUseCase{
		tx:        tx,
		publisher: publisher,
		metrics:   metrics,
		clock:     clock,
		log:       log.Component("deduction"),
		opts:      opts,
	}
}

// DeductInput entrada de DeductMaterials. ProductionID vacío crea una corrida nueva;
// UsageDate cero = hoy.
type DeductInput struct {
	ProductID    string
	ProductionID string
	Quantity     decimal.Decimal
	UsageDate    time.Time
}

// SimpleBatchInput salida diaria de la línea de lotes simples.
type SimpleBatchInput struct {
	Date       time.Time
	Quantity   decimal.Decimal
	Notes      string
	ProducedBy string
}

// DeductMaterials registra el consumo de materiales de quantity unidades del producto.
func (uc *DeductionUseCase) DeductMaterials(ctx context.Context, in DeductInput) (*dto.DeductionResultDTO, error) {
	ctx, span := tracer.Start(ctx, "inventory.DeductMaterials", trace.WithAttributes(
		attribute.String("product.id", in.ProductID),
		attribute.String("production.id", in.ProductionID),
		attribute.String("quantity", in.Quantity.String()),
	))
	defer span.End()

	if !entity.RoundQuantity(in.Quantity).IsPositive() {
		return nil, uc.reject(span, opDeduct, domain.ErrInvalidQuantity)
	}
	if in.ProductID == "" {
		return nil, uc.reject(span, opDeduct, fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput))
	}

	start := uc.clock.Now()
	usageDate := in.UsageDate
	if usageDate.IsZero() {
		usageDate = start
	}
	usageDate = dateOnly(usageDate)

	var (
		run  *entity.ProductionRun
		used *consumption
	)
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		lines, err := NewBOMResolver(repos.BOM).Resolve(ctx, in.ProductID)
		if err != nil {
			return err
		}

		if in.ProductionID != "" {
			run, err = repos.Productions.GetForUpdate(ctx, in.ProductionID)
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("%w: corrida %s", domain.ErrNotFound, in.ProductionID)
			}
			if run.ProductID != in.ProductID {
				return fmt.Errorf("%w: la corrida %s pertenece a otro producto", domain.ErrInvalidInput, run.ID)
			}
			if run.HasMaterialsSnapshot() {
				return fmt.Errorf("%w: corrida %s", domain.ErrAlreadyDeducted, run.ID)
			}
			if !run.Quantity.Equal(in.Quantity) {
				return fmt.Errorf("%w: la corrida %s es de %s unidades, no %s",
					domain.ErrInvalidInput, run.ID, run.Quantity, in.Quantity)
			}
		} else {
			run = &entity.ProductionRun{
				ID:                 uuid.NewString(),
				ProductID:          in.ProductID,
				Quantity:           in.Quantity,
				Status:             entity.ProductionStatusPending,
				ProgressPercentage: decimal.Zero,
				MaterialCost:       decimal.Zero,
				StartedAt:          start,
				CreatedAt:          start,
				UpdatedAt:          start,
			}
			// la corrida debe existir antes que los eventos de uso que la referencian
			if err := repos.Productions.Create(ctx, run); err != nil {
				return err
			}
		}

		used, err = consume(ctx, repos, lines, in.Quantity, run.ID, usageDate, start)
		if err != nil {
			return err
		}
		run.MaterialsUsed = used.Lines
		run.MaterialCost = used.TotalCost
		run.UpdatedAt = start
		return repos.Productions.Update(ctx, run)
	})
	if err != nil {
		return nil, uc.reject(span, opDeduct, err)
	}

	uc.afterCommit(ctx, opDeduct, run.ID, in.ProductID, in.Quantity, usageDate, used, start)

	return &dto.DeductionResultDTO{
		ProductionID:  run.ID,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		UsageDate:     usageDate.Format(dto.DateLayout),
		MaterialsUsed: toMaterialDTOs(used),
		TotalCost:     used.TotalCost,
	}, nil
}

// DeductForSimpleBatchOutput registra la producción diaria del producto de lote simple:
// descuenta materiales, acumula el registro del día y abona el producto terminado.
func (uc *DeductionUseCase) DeductForSimpleBatchOutput(ctx context.Context, in SimpleBatchInput) (*dto.SimpleBatchResultDTO, error) {
	ctx, span := tracer.Start(ctx, "inventory.DeductForSimpleBatchOutput", trace.WithAttributes(
		attribute.String("product.id", uc.opts.SimpleBatchProductID),
		attribute.String("quantity", in.Quantity.String()),
	))
	defer span.End()

	if !entity.RoundQuantity(in.Quantity).IsPositive() {
		return nil, uc.reject(span, opSimpleBatch, domain.ErrInvalidQuantity)
	}
	if uc.opts.SimpleBatchProductID == "" {
		return nil, uc.reject(span, opSimpleBatch,
			fmt.Errorf("%w: producto de lote simple no configurado", domain.ErrInvalidInput))
	}

	start := uc.clock.Now()
	date := in.Date
	if date.IsZero() {
		date = start
	}
	date = dateOnly(date)

	var (
		daily *entity.DailyOutput
		used  *consumption
	)
	err := uc.tx.Run(ctx, func(repos repository.Repos) error {
		lines, err := NewBOMResolver(repos.BOM).Resolve(ctx, uc.opts.SimpleBatchProductID)
		if err != nil {
			return err
		}
		used, err = consume(ctx, repos, lines, in.Quantity, "", date, start)
		if err != nil {
			return err
		}

		daily, err = repos.DailyOutputs.GetByDateForUpdate(ctx, date)
		if err != nil {
			return err
		}
		if daily == nil {
			daily = &entity.DailyOutput{
				ID:               uuid.NewString(),
				Date:             date,
				QuantityProduced: decimal.Zero,
				MaterialCost:     decimal.Zero,
				CreatedAt:        start,
			}
		}
		daily.QuantityProduced = daily.QuantityProduced.Add(in.Quantity)
		if in.Notes != "" {
			daily.Notes = in.Notes
		}
		if in.ProducedBy != "" {
			daily.ProducedBy = in.ProducedBy
		}
		daily.MaterialsUsed = append(daily.MaterialsUsed, used.Lines...)
		daily.MaterialCost = daily.MaterialCost.Add(used.TotalCost)
		daily.UpdatedAt = start
		if err := repos.DailyOutputs.Upsert(ctx, daily); err != nil {
			return err
		}

		return uc.creditFinishedGoods(ctx, repos, in.Quantity, start)
	})
	if err != nil {
		return nil, uc.reject(span, opSimpleBatch, err)
	}

	uc.afterCommit(ctx, opSimpleBatch, daily.ID, uc.opts.SimpleBatchProductID, in.Quantity, date, used, start)

	return &dto.SimpleBatchResultDTO{
		DailyOutput:   toDailyOutputDTO(daily),
		MaterialsUsed: toMaterialDTOs(used),
		TotalCost:     used.TotalCost,
	}, nil
}

// creditFinishedGoods abona el producto terminado configurado. Si no existe solo se registra.
func (uc *DeductionUseCase) creditFinishedGoods(ctx context.Context, repos repository.Repos, qty decimal.Decimal, now time.Time) error {
	if uc.opts.FinishedGoodsSKU == "" {
		return nil
	}
	fg, err := repos.Items.GetBySKU(ctx, uc.opts.FinishedGoodsSKU)
	if err != nil {
		return err
	}
	if fg == nil {
		uc.log.Warn().Str("sku", uc.opts.FinishedGoodsSKU).Msg("producto terminado no encontrado, no se abona stock")
		return nil
	}
	locked, err := repos.Items.GetForUpdate(ctx, fg.ID)
	if err != nil {
		return err
	}
	if locked == nil {
		return fmt.Errorf("%w: ítem de inventario %s", domain.ErrNotFound, fg.ID)
	}
	locked.QuantityOnHand = locked.QuantityOnHand.Add(qty)
	locked.UpdatedAt = now
	return repos.Items.UpdateStock(ctx, locked)
}

// afterCommit efectos posteriores al commit: log, métricas y evento. Nunca fallan la operación.
func (uc *DeductionUseCase) afterCommit(
	ctx context.Context,
	op, productionID, productID string,
	qty decimal.Decimal,
	usageDate time.Time,
	used *consumption,
	start time.Time,
) {
	uc.metrics.DeductionCommitted(op, len(used.Lines), used.TotalCost, uc.clock.Now().Sub(start))
	for _, l := range used.Lines {
		uc.metrics.MaterialConsumed(l.SKU, l.QuantityUsed)
	}

	uc.log.Info().
		Str("operation", op).
		Str("production_id", productionID).
		Str("product_id", productID).
		Str("quantity", qty.String()).
		Int("lines", len(used.Lines)).
		Str("total_cost", used.TotalCost.String()).
		Msg("materiales descontados")

	ev := domain.MaterialsDeductedEvent{
		ProductionID: productionID,
		ProductID:    productID,
		Quantity:     qty,
		UsageDate:    usageDate.Format(dto.DateLayout),
		TotalCost:    used.TotalCost,
		Lines:        toLineEvents(used),
		OccurredAt:   uc.clock.Now(),
	}
	if err := uc.publisher.Publish(ctx, domain.EventMaterialsDeducted, productID, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", domain.EventMaterialsDeducted).Msg("no se pudo publicar el evento")
	}
}

// reject registra el rechazo en métricas, traza y log y devuelve err sin cambios.
func (uc *DeductionUseCase) reject(span trace.Span, op string, err error) error {
	reason := rejectReason(err)
	uc.metrics.DeductionRejected(op, reason)
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)

	ev := uc.log.Warn()
	if reason == "error" {
		ev = uc.log.Error()
	}
	ev.Err(err).Str("operation", op).Str("reason", reason).Msg("deducción rechazada")
	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNoBOMDefined):
		return "no_bom"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrAlreadyDeducted):
		return "invalid"
	}
	return "error"
}
