package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductSales resultado crudo de ventas por producto en un período.
type ProductSales struct {
	ProductID string
	SKU       string
	Name      string
	Units     int
	Revenue   decimal.Decimal // Σ subtotal neto de las líneas
}

// AnalyticsRepository consultas de lectura para reportes. No modifica datos.
type AnalyticsRepository interface {
	// SalesTotals devuelve el neto vendido y la cantidad de ventas en el rango (COALESCE a cero).
	SalesTotals(ctx context.Context, from, to time.Time) (net decimal.Decimal, count int, err error)
	PaymentsByMethod(ctx context.Context, from, to time.Time) (map[entity.PaymentMethod]decimal.Decimal, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
}
