package repository

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// BOMRepository lectura de productos y sus listas de materiales.
type BOMRepository interface {
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
	// ListByProduct devuelve las líneas en orden de inserción (Position).
	ListByProduct(ctx context.Context, productID string) ([]entity.BOMLine, error)
}
