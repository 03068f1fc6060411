package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-produccion/internal/domain/entity"
)

// AddItem registra un ítem de inventario (carga inicial y tests).
func (s *Store) AddItem(item entity.InventoryItem) error {
	if item.ID == "" || item.SKU == "" {
		return fmt.Errorf("add item: id y sku son obligatorios")
	}
	if item.QuantityOnHand.IsNegative() {
		return fmt.Errorf("add item %s: cantidad negativa", item.SKU)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.items[item.ID] = cloneItem(item)
	return nil
}

// AddProduct registra un producto con su lista de materiales; reemplaza la anterior.
func (s *Store) AddProduct(p entity.Product, lines ...entity.BOMLine) error {
	if p.ID == "" {
		return fmt.Errorf("add product: id es obligatorio")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
	s.st.bom[p.ID] = append([]entity.BOMLine(nil), lines...)
	return nil
}

// AddProductionRun registra una corrida existente.
func (s *Store) AddProductionRun(run entity.ProductionRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.runs[run.ID] = cloneRun(run)
}

// AddStage registra una etapa de una corrida.
func (s *Store) AddStage(stage entity.ProductionStage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.stages[stage.ID] = cloneStage(stage)
}

// AddUsage agrega eventos de consumo históricos.
func (s *Store) AddUsage(events ...entity.UsageEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.usage = append(s.st.usage, events...)
}

// Item copia del ítem confirmado.
func (s *Store) Item(id string) (entity.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.st.items[id]
	return cloneItem(it), ok
}

// ProductionRun copia de la corrida confirmada.
func (s *Store) ProductionRun(id string) (entity.ProductionRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.st.runs[id]
	return cloneRun(r), ok
}

// Stage copia de la etapa confirmada.
func (s *Store) Stage(id string) (entity.ProductionStage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.st.stages[id]
	return cloneStage(st), ok
}

// DailyOutput registro confirmado del día.
func (s *Store) DailyOutput(date time.Time) (entity.DailyOutput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.st.daily[date.Format(dateKeyLayout)]
	return d, ok
}

// UsageEvents eventos confirmados en orden de registro.
func (s *Store) UsageEvents() []entity.UsageEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.UsageEvent(nil), s.st.usage...)
}

// ProductionRuns corridas confirmadas ordenadas por creación.
func (s *Store) ProductionRuns() []entity.ProductionRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.ProductionRun, 0, len(s.st.runs))
	for _, r := range s.st.runs {
		out = append(out, cloneRun(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
