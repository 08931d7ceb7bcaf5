package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/reports/dashboard.
// KPIs del día y del mes en curso, medios de pago del día y top de productos del mes.
type DashboardSummaryDTO struct {
	// Día actual (00:00 – 23:59)
	TodaySales      decimal.Decimal `json:"today_sales"` // neto vendido hoy
	TodaySalesCount int             `json:"today_sales_count"`
	TodayTicket     decimal.Decimal `json:"today_avg_ticket"`

	// Mes en curso (día 1 – hoy)
	MonthlySales      decimal.Decimal `json:"monthly_sales"`
	MonthlySalesCount int             `json:"monthly_sales_count"`

	TodayPayments map[string]decimal.Decimal `json:"today_payments"`
	TopProducts   []TopProductDTO            `json:"top_products"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// TopProductDTO resumen de un producto para el widget del dashboard.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
