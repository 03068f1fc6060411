package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.DailyOutputRepository = (*DailyOutputRepo)(nil)

// DailyOutputRepo resumen diario de lotes simples; output_date es único.
type DailyOutputRepo struct {
	q Querier
}

// NewDailyOutputRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDailyOutputRepository(q Querier) *DailyOutputRepo {
	return &DailyOutputRepo{q: q}
}

// GetByDateForUpdate obtiene el registro del día y bloquea la fila.
func (r *DailyOutputRepo) GetByDateForUpdate(ctx context.Context, date time.Time) (*entity.DailyOutput, error) {
	query := `
		SELECT id, output_date, quantity_produced, notes, produced_by, materials_used, material_cost, created_at, updated_at
		FROM daily_outputs
		WHERE output_date = $1::date
		FOR UPDATE`
	var out entity.DailyOutput
	var notes, producedBy *string
	err := r.q.QueryRow(ctx, query, date).Scan(
		&out.ID, &out.Date, &out.QuantityProduced, &notes, &producedBy, &out.MaterialsUsed,
		&out.MaterialCost, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily output: %w", err)
	}
	out.Notes = derefString(notes)
	out.ProducedBy = derefString(producedBy)
	return &out, nil
}

// Upsert inserta o reemplaza el registro del día (por output_date).
func (r *DailyOutputRepo) Upsert(ctx context.Context, out *entity.DailyOutput) error {
	query := `
		INSERT INTO daily_outputs (id, output_date, quantity_produced, notes, produced_by, materials_used, material_cost, created_at, updated_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (output_date)
		DO UPDATE SET quantity_produced = EXCLUDED.quantity_produced,
		              notes = EXCLUDED.notes,
		              produced_by = EXCLUDED.produced_by,
		              materials_used = EXCLUDED.materials_used,
		              material_cost = EXCLUDED.material_cost,
		              updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		out.ID, out.Date, out.QuantityProduced, nullIfEmpty(out.Notes), nullIfEmpty(out.ProducedBy),
		out.MaterialsUsed, out.MaterialCost, out.CreatedAt, out.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert daily output: %w", err)
	}
	return nil
}
