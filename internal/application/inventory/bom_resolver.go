package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-produccion/internal/domain"
	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// BOMResolver resuelve la lista de materiales de un producto.
type BOMResolver struct {
	repo repository.BOMRepository
}

// NewBOMResolver construye el resolver sobre el repositorio (pool o tx).
func NewBOMResolver(repo repository.BOMRepository) *BOMResolver {
	return &BOMResolver{repo: repo}
}

// Resolve devuelve las líneas ordenadas por Position (estable respecto a la inserción).
// Producto inexistente -> ErrNotFound; sin líneas -> *domain.NoBOMError.
func (r *BOMResolver) Resolve(ctx context.Context, productID string) ([]entity.BOMLine, error) {
	product, err := r.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	lines, err := r.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &domain.NoBOMError{ProductID: product.ID, ProductName: product.Name}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })
	return lines, nil
}
