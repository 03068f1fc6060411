package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-produccion/internal/application/inventory"
	"github.com/jhoicas/inventario-produccion/internal/application/production"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and production.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ production.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout > 0 limita la espera por
// filas bloqueadas; al vencer la operación falla como conflicto de concurrencia.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Repos construye los repositorios sobre q (pool o tx).
func Repos(q Querier) repository.Repos {
	return repository.Repos{
		Items:        NewInventoryItemRepository(q),
		BOM:          NewBOMRepository(q),
		Usage:        NewUsageEventRepository(q),
		Productions:  NewProductionRepository(q),
		Stages:       NewProductionStageRepository(q),
		DailyOutputs: NewDailyOutputRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{}, fn)
}

// RunReadOnly transacción REPEATABLE READ de solo lectura: todas las consultas ven el mismo snapshot.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(repos repository.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 && opts.AccessMode != pgx.ReadOnly {
		// SET no acepta parámetros: el valor se formatea como entero de milisegundos.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(Repos(tx)); err != nil {
		return mapTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
