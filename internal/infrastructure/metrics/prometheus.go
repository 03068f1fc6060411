// Package metrics implementa ports.InventoryMetrics con Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-produccion/internal/application/ports"
)

var _ ports.InventoryMetrics = (*Prometheus)(nil)

const namespace = "inventario"

// Prometheus colectores del motor de inventario sobre un registro propio.
type Prometheus struct {
	registry *prometheus.Registry

	deductions       *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	materialCost     *prometheus.CounterVec
	consumed         *prometheus.CounterVec
	received         *prometheus.CounterVec
	actionable       prometheus.Gauge
	stageTransitions *prometheus.CounterVec
}

// New registra los colectores. Incluye métricas del runtime de Go y del proceso.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	m := &Prometheus{
		registry: reg,
		deductions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "deductions_total",
			Help: "Deducciones de materiales confirmadas.",
		}, []string{"operation"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "deduction_rejections_total",
			Help: "Deducciones rechazadas por motivo.",
		}, []string{"operation", "reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "deduction_duration_seconds",
			Help:    "Duración de la transacción de deducción.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		materialCost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "material_cost_total",
			Help: "Costo acumulado de materiales consumidos.",
		}, []string{"operation"}),
		consumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "material_consumed_total",
			Help: "Cantidad consumida por SKU.",
		}, []string{"sku"}),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "stock_received_total",
			Help: "Cantidad recibida por SKU.",
		}, []string{"sku"}),
		actionable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "replenishment_actionable_items",
			Help: "Ítems con reposición sugerida en el último cronograma.",
		}),
		stageTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "stage_transitions_total",
			Help: "Transiciones de etapas de producción por estado destino.",
		}, []string{"status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.deductions, m.rejections, m.duration, m.materialCost,
		m.consumed, m.received, m.actionable, m.stageTransitions,
	)
	return m
}

// Handler expone el registro en formato de exposición de Prometheus.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Prometheus) DeductionCommitted(operation string, _ int, totalCost decimal.Decimal, elapsed time.Duration) {
	m.deductions.WithLabelValues(operation).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	m.materialCost.WithLabelValues(operation).Add(totalCost.InexactFloat64())
}

func (m *Prometheus) DeductionRejected(operation, reason string) {
	m.rejections.WithLabelValues(operation, reason).Inc()
}

func (m *Prometheus) MaterialConsumed(sku string, qty decimal.Decimal) {
	m.consumed.WithLabelValues(sku).Add(qty.InexactFloat64())
}

func (m *Prometheus) StockReceived(sku string, qty decimal.Decimal) {
	m.received.WithLabelValues(sku).Add(qty.InexactFloat64())
}

func (m *Prometheus) ReplenishmentActionable(count int) {
	m.actionable.Set(float64(count))
}

func (m *Prometheus) StageTransition(status string) {
	m.stageTransitions.WithLabelValues(status).Inc()
}
