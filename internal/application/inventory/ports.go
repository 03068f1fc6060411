package inventory

import (
	"context"

	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error no queda nada aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
	// RunReadOnly lectura con snapshot consistente (pronósticos, historial).
	RunReadOnly(ctx context.Context, fn func(repos repository.Repos) error) error
}

// Options parámetros del motor que vienen de configuración.
type Options struct {
	ForecastWindowDays   int
	SimpleBatchProductID string
	FinishedGoodsSKU     string
}
