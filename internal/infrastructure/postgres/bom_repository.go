package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo lectura de productos y listas de materiales.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador de BOM. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// GetProduct obtiene un producto por ID.
func (r *BOMRepo) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `SELECT id, name FROM products WHERE id = $1`, productID).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListByProduct devuelve las líneas del producto en orden de inserción.
func (r *BOMRepo) ListByProduct(ctx context.Context, productID string) ([]entity.BOMLine, error) {
	query := `
		SELECT id, product_id, inventory_item_id, qty_per_unit, position
		FROM bom_lines
		WHERE product_id = $1
		ORDER BY position, created_at`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.BOMLine
	for rows.Next() {
		var l entity.BOMLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.InventoryItemID, &l.QtyPerUnit, &l.Position); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
