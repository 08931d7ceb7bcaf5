package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// SalesTotals neto vendido y cantidad de ventas con fecha en [from, to].
func (r *AnalyticsRepo) SalesTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	const query = `
	SELECT COALESCE(SUM(net_total), 0), COUNT(*)
	FROM sales
	WHERE date BETWEEN $1 AND $2`
	var (
		net   decimal.Decimal
		count int
	)
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&net, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics.SalesTotals: %w", err)
	}
	return net, count, nil
}

// PaymentsByMethod suma de pagos por medio para las ventas del rango.
func (r *AnalyticsRepo) PaymentsByMethod(ctx context.Context, from, to time.Time) (map[entity.PaymentMethod]decimal.Decimal, error) {
	const query = `
	SELECT p.method, SUM(p.amount)
	FROM payments p
	JOIN sales s ON s.id = p.sale_id
	WHERE s.date BETWEEN $1 AND $2
	GROUP BY p.method`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.PaymentsByMethod: %w", err)
	}
	defer rows.Close()
	totals := map[entity.PaymentMethod]decimal.Decimal{}
	for rows.Next() {
		var (
			method entity.PaymentMethod
			amount decimal.Decimal
		)
		if err := rows.Scan(&method, &amount); err != nil {
			return nil, fmt.Errorf("analytics.PaymentsByMethod scan: %w", err)
		}
		totals[method] = amount
	}
	return totals, rows.Err()
}

// TopProducts productos con mayor ingreso neto en el rango.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    SUM(l.quantity)     AS units,
	    SUM(l.net_subtotal) AS revenue
	FROM sale_lines l
	JOIN sales    s ON s.id = l.sale_id
	JOIN products p ON p.id = l.product_id
	WHERE s.date BETWEEN $1 AND $2
	GROUP BY p.id, p.sku, p.name
	ORDER BY revenue DESC, p.sku
	LIMIT $3`
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductSales
	for rows.Next() {
		var row repository.ProductSales
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &row.Units, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
