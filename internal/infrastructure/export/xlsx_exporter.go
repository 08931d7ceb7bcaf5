package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pos-ventas/internal/application/analytics"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
)

var _ analytics.SalesExporter = (*XLSXExporter)(nil)

const sheetName = "Ventas"

// XLSXExporter planilla Excel con una hoja "Ventas". Los montos van como número.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Extension() string { return "xlsx" }

func (XLSXExporter) WriteSales(w io.Writer, rows []analytics.SaleRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("xlsx: hoja: %w", err)
	}

	for i, h := range headings() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx: cabecera: %w", err)
		}
	}

	for i, r := range rows {
		rowNo := i + 2
		cells := []any{
			r.Date.Format(dateLayout), r.SaleID, r.DocumentType, r.DocumentNumber, r.CashRegisterID,
			r.CustomerID, r.Tier, r.GrossTotal.InexactFloat64(), r.TotalDiscount.InexactFloat64(),
			r.NetTotal.InexactFloat64(), r.Change.InexactFloat64(),
		}
		for _, m := range entity.PaymentMethods {
			cells = append(cells, r.Payments[m].InexactFloat64())
		}
		start, _ := excelize.CoordinatesToCellName(1, rowNo)
		if err := f.SetSheetRow(sheetName, start, &cells); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", rowNo, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}
