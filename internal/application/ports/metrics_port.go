package ports

import "github.com/shopspring/decimal"

// MetricsRecorder puerto de salida para métricas operativas del punto de venta.
// Los casos de uso solo conocen este contrato; el adaptador Prometheus vive en infraestructura.
type MetricsRecorder interface {
	SaleCreated(netTotal decimal.Decimal)
	SaleDeleted()
	RegisterEvent(event string) // "open" | "close"
	MovementRecorded(direction, reason string)
}

// NopMetrics implementación vacía (tests, o métricas deshabilitadas).
type NopMetrics struct{}

func (NopMetrics) SaleCreated(decimal.Decimal)      {}
func (NopMetrics) SaleDeleted()                     {}
func (NopMetrics) RegisterEvent(string)             {}
func (NopMetrics) MovementRecorded(string, string) {}

var _ MetricsRecorder = NopMetrics{}
