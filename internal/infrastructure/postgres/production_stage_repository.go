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

var _ repository.ProductionStageRepository = (*ProductionStageRepo)(nil)

const stageColumns = `id, production_id, name, sequence, status, progress_percentage, notes,
	actual_start_time, actual_end_time, updated_at`

// ProductionStageRepo etapas de corridas sobre PostgreSQL.
type ProductionStageRepo struct {
	q Querier
}

// NewProductionStageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionStageRepository(q Querier) *ProductionStageRepo {
	return &ProductionStageRepo{q: q}
}

func (r *ProductionStageRepo) Create(ctx context.Context, stage *entity.ProductionStage) error {
	query := `
		INSERT INTO production_stages (` + stageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		stage.ID, stage.ProductionID, stage.Name, stage.Sequence, stage.Status, stage.ProgressPercentage,
		nullIfEmpty(stage.Notes), stage.ActualStartTime, stage.ActualEndTime, stage.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert production stage: %w", err)
	}
	return nil
}

func (r *ProductionStageRepo) GetByID(ctx context.Context, id string) (*entity.ProductionStage, error) {
	return r.getOne(ctx, `SELECT `+stageColumns+` FROM production_stages WHERE id = $1`, id)
}

// GetForUpdate obtiene la etapa y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductionStageRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionStage, error) {
	return r.getOne(ctx, `SELECT `+stageColumns+` FROM production_stages WHERE id = $1 FOR UPDATE`, id)
}

// ListByProduction etapas de la corrida ordenadas por secuencia.
func (r *ProductionStageRepo) ListByProduction(ctx context.Context, productionID string) ([]entity.ProductionStage, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+stageColumns+` FROM production_stages WHERE production_id = $1 ORDER BY sequence, id`, productionID)
	if err != nil {
		return nil, fmt.Errorf("list production stages: %w", err)
	}
	defer rows.Close()

	var stages []entity.ProductionStage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production stage: %w", err)
		}
		stages = append(stages, *s)
	}
	return stages, rows.Err()
}

func (r *ProductionStageRepo) Update(ctx context.Context, stage *entity.ProductionStage) error {
	query := `
		UPDATE production_stages
		SET status = $2, progress_percentage = $3, notes = $4, actual_start_time = $5,
		    actual_end_time = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		stage.ID, stage.Status, stage.ProgressPercentage, nullIfEmpty(stage.Notes),
		stage.ActualStartTime, stage.ActualEndTime, stage.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update production stage %s: %w", stage.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *ProductionStageRepo) getOne(ctx context.Context, query, id string) (*entity.ProductionStage, error) {
	s, err := scanStage(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production stage: %w", err)
	}
	return s, nil
}

func scanStage(row pgx.Row) (*entity.ProductionStage, error) {
	var s entity.ProductionStage
	var notes *string
	err := row.Scan(
		&s.ID, &s.ProductionID, &s.Name, &s.Sequence, &s.Status, &s.ProgressPercentage, &notes,
		&s.ActualStartTime, &s.ActualEndTime, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Notes = derefString(notes)
	return &s, nil
}
