// Package export escribe el listado de ventas en XLSX (excelize) y CSV.
package export

import (
	"github.com/jhoicas/pos-ventas/internal/application/analytics"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
)

const dateLayout = "2006-01-02 15:04:05"

// headings columnas fijas seguidas de una columna por medio de pago.
func headings() []string {
	h := []string{
		"Fecha", "ID venta", "Tipo documento", "N° documento", "Caja", "Cliente",
		"Clase de precio", "Total bruto", "Descuento", "Total neto", "Vuelto",
	}
	for _, m := range entity.PaymentMethods {
		h = append(h, string(m))
	}
	return h
}

// values fila como strings; los montos con 2 decimales.
func values(r analytics.SaleRow) []string {
	v := []string{
		r.Date.Format(dateLayout), r.SaleID, r.DocumentType, r.DocumentNumber, r.CashRegisterID,
		r.CustomerID, r.Tier, r.GrossTotal.StringFixed(2), r.TotalDiscount.StringFixed(2),
		r.NetTotal.StringFixed(2), r.Change.StringFixed(2),
	}
	for _, m := range entity.PaymentMethods {
		v = append(v, r.Payments[m].StringFixed(2))
	}
	return v
}
