// Package memory almacenamiento en memoria con un único escritor.
// Cada transacción trabaja sobre una copia del estado y la publica al confirmar,
// así un error en medio de una operación no deja cambios parciales.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
	"github.com/jhoicas/inventario-produccion/internal/domain/repository"
)

type state struct {
	items    map[string]entity.InventoryItem
	products map[string]entity.Product
	bom      map[string][]entity.BOMLine
	usage    []entity.UsageEvent // confirmado, solo append; se comparte entre copias
	pending  []entity.UsageEvent // escrito por la transacción en curso
	runs     map[string]entity.ProductionRun
	stages   map[string]entity.ProductionStage
	daily    map[string]entity.DailyOutput // clave: fecha YYYY-MM-DD
}

func newState() *state {
	return &state{
		items:    make(map[string]entity.InventoryItem),
		products: make(map[string]entity.Product),
		bom:      make(map[string][]entity.BOMLine),
		runs:     make(map[string]entity.ProductionRun),
		stages:   make(map[string]entity.ProductionStage),
		daily:    make(map[string]entity.DailyOutput),
	}
}

func (s *state) clone() *state {
	c := &state{
		items:    make(map[string]entity.InventoryItem, len(s.items)),
		products: make(map[string]entity.Product, len(s.products)),
		bom:      make(map[string][]entity.BOMLine, len(s.bom)),
		usage:    s.usage[:len(s.usage):len(s.usage)],
		runs:     make(map[string]entity.ProductionRun, len(s.runs)),
		stages:   make(map[string]entity.ProductionStage, len(s.stages)),
		daily:    make(map[string]entity.DailyOutput, len(s.daily)),
	}
	for k, v := range s.items {
		c.items[k] = cloneItem(v)
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.bom {
		c.bom[k] = append([]entity.BOMLine(nil), v...)
	}
	for k, v := range s.runs {
		c.runs[k] = cloneRun(v)
	}
	for k, v := range s.stages {
		c.stages[k] = cloneStage(v)
	}
	for k, v := range s.daily {
		v.MaterialsUsed = append([]entity.MaterialUsage(nil), v.MaterialsUsed...)
		c.daily[k] = v
	}
	return c
}

func (s *state) repos() repository.Repos {
	return repository.Repos{
		Items:        &itemRepo{st: s},
		BOM:          &bomRepo{st: s},
		Usage:        &usageRepo{st: s},
		Productions:  &productionRepo{st: s},
		Stages:       &stageRepo{st: s},
		DailyOutputs: &dailyOutputRepo{st: s},
	}
}

// Store estado compartido protegido por un RWMutex. Implementa el TxRunner de
// inventario y de producción.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run serializa escritores: fn recibe repos sobre una copia que se publica solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(work.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	// Los snapshots vigentes solo leen hasta su propio len.
	work.usage = append(s.st.usage, work.pending...)
	work.pending = nil
	s.st = work
	return nil
}

// RunReadOnly lectura sobre un snapshot consistente; lo que fn escriba se descarta.
func (s *Store) RunReadOnly(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snap := s.st.clone()
	s.mu.RUnlock()
	return fn(snap.repos())
}

// eachUsage recorre los eventos confirmados y luego los pendientes.
func (s *state) eachUsage(fn func(ev entity.UsageEvent)) {
	for _, ev := range s.usage {
		fn(ev)
	}
	for _, ev := range s.pending {
		fn(ev)
	}
}

func cloneItem(i entity.InventoryItem) entity.InventoryItem {
	if i.ReorderPoint != nil {
		v := *i.ReorderPoint
		i.ReorderPoint = &v
	}
	if i.MaxLevel != nil {
		v := *i.MaxLevel
		i.MaxLevel = &v
	}
	return i
}

func cloneRun(r entity.ProductionRun) entity.ProductionRun {
	r.MaterialsUsed = append([]entity.MaterialUsage(nil), r.MaterialsUsed...)
	if r.ActualEndDate != nil {
		v := *r.ActualEndDate
		r.ActualEndDate = &v
	}
	return r
}

func cloneStage(st entity.ProductionStage) entity.ProductionStage {
	if st.ActualStartTime != nil {
		v := *st.ActualStartTime
		st.ActualStartTime = &v
	}
	if st.ActualEndTime != nil {
		v := *st.ActualEndTime
		st.ActualEndTime = &v
	}
	return st
}
