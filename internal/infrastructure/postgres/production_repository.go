package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

const runColumns = `id, product_id, quantity, status, progress_percentage, materials_used, material_cost,
	started_at, actual_end_date, created_at, updated_at`

// ProductionRepo corridas de producción sobre PostgreSQL. materials_used es JSONB.
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

// Create persiste una nueva corrida.
func (r *ProductionRepo) Create(ctx context.Context, run *entity.ProductionRun) error {
	query := `
		INSERT INTO production_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		run.ID, run.ProductID, run.Quantity, run.Status, run.ProgressPercentage, run.MaterialsUsed,
		run.MaterialCost, run.StartedAt, run.ActualEndDate, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: corrida %s duplicada", domain.ErrInvalidInput, run.ID)
		}
		return fmt.Errorf("insert production run: %w", err)
	}
	return nil
}

// GetByID obtiene una corrida por ID.
func (r *ProductionRepo) GetByID(ctx context.Context, id string) (*entity.ProductionRun, error) {
	return r.getOne(ctx, `SELECT `+runColumns+` FROM production_runs WHERE id = $1`, id)
}

// GetForUpdate obtiene la corrida y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductionRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionRun, error) {
	return r.getOne(ctx, `SELECT `+runColumns+` FROM production_runs WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste estado, avance y snapshot de materiales.
func (r *ProductionRepo) Update(ctx context.Context, run *entity.ProductionRun) error {
	query := `
		UPDATE production_runs
		SET status = $2, progress_percentage = $3, materials_used = $4, material_cost = $5,
		    actual_end_date = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		run.ID, run.Status, run.ProgressPercentage, run.MaterialsUsed, run.MaterialCost, run.ActualEndDate, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update production run %s: %w", run.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *ProductionRepo) getOne(ctx context.Context, query, id string) (*entity.ProductionRun, error) {
	var run entity.ProductionRun
	err := r.q.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.ProductID, &run.Quantity, &run.Status, &run.ProgressPercentage, &run.MaterialsUsed,
		&run.MaterialCost, &run.StartedAt, &run.ActualEndDate, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production run: %w", err)
	}
	return &run, nil
}
