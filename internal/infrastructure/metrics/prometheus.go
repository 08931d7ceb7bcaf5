// Package metrics adaptador Prometheus de ports.MetricsRecorder.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ventas/internal/application/ports"
)

var _ ports.MetricsRecorder = (*Recorder)(nil)

// Recorder contadores del punto de venta en un registry propio.
type Recorder struct {
	registry       *prometheus.Registry
	salesCreated   prometheus.Counter
	salesDeleted   prometheus.Counter
	saleNetAmount  prometheus.Counter
	registerEvents *prometheus.CounterVec
	movements      *prometheus.CounterVec
}

// NewRecorder registra los contadores y los colectores de proceso y runtime.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		salesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_created_total",
			Help: "Ventas registradas.",
		}),
		salesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_deleted_total",
			Help: "Ventas eliminadas (con compensación de stock).",
		}),
		saleNetAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_sale_net_amount_total",
			Help: "Suma del total neto de las ventas registradas.",
		}),
		registerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_cash_register_events_total",
			Help: "Aperturas y cierres de caja.",
		}, []string{"event"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_inventory_movements_total",
			Help: "Movimientos de inventario persistidos.",
		}, []string{"direction", "reason"}),
	}
	r.registry.MustRegister(
		r.salesCreated, r.salesDeleted, r.saleNetAmount, r.registerEvents, r.movements,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) SaleCreated(netTotal decimal.Decimal) {
	r.salesCreated.Inc()
	r.saleNetAmount.Add(netTotal.InexactFloat64())
}

func (r *Recorder) SaleDeleted() { r.salesDeleted.Inc() }

func (r *Recorder) RegisterEvent(event string) { r.registerEvents.WithLabelValues(event).Inc() }

func (r *Recorder) MovementRecorded(direction, reason string) {
	r.movements.WithLabelValues(direction, reason).Inc()
}

// Handler expone el registry en formato de texto de Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry para tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }
