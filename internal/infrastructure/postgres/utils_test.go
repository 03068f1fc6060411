package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-produccion/internal/domain"
)

func TestMapTxError(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		err := fmt.Errorf("lock item: %w", &pgconn.PgError{Code: code})
		mapped := mapTxError(err)
		assert.True(t, errors.Is(mapped, domain.ErrConcurrencyConflict), code)
	}

	other := &pgconn.PgError{Code: "23503"}
	assert.Same(t, error(other), mapTxError(other))
	assert.NoError(t, mapTxError(nil))

	business := fmt.Errorf("%w: x", domain.ErrInsufficientStock)
	assert.True(t, errors.Is(mapTxError(business), domain.ErrInsufficientStock))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "run-1", derefString(nullIfEmpty("run-1")))
}

func TestIsCheckViolation(t *testing.T) {
	assert.True(t, isCheckViolation(fmt.Errorf("update: %w", &pgconn.PgError{Code: "23514"})))
	assert.False(t, isCheckViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isCheckViolation(errors.New("boom")))
}
