package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jhoicas/pos-ventas/internal/application/analytics"
)

var _ analytics.SalesExporter = (*CSVExporter)(nil)

// CSVExporter CSV separado por ';' (Excel en locales es-*), montos con punto decimal.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (CSVExporter) Extension() string { return "csv" }

func (CSVExporter) WriteSales(w io.Writer, rows []analytics.SaleRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(headings()); err != nil {
		return fmt.Errorf("csv: cabecera: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(values(r)); err != nil {
			return fmt.Errorf("csv: fila: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
