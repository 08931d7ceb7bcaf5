package analytics

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const exportPageSize = 500

// SaleRow una venta aplanada para exportar (una fila por venta, una columna por medio de pago).
type SaleRow struct {
	Date           time.Time
	SaleID         string
	DocumentType   string
	DocumentNumber string
	CashRegisterID string
	CustomerID     string
	Tier           string
	GrossTotal     decimal.Decimal
	TotalDiscount  decimal.Decimal
	NetTotal       decimal.Decimal
	Change         decimal.Decimal
	Payments       map[entity.PaymentMethod]decimal.Decimal
}

// ExportFile archivo generado.
type ExportFile struct {
	Content     []byte
	Filename    string
	ContentType string
}

// ExportUseCase exporta ventas de un período. Solo lectura.
type ExportUseCase struct {
	sales     repository.SaleRepository
	exporters map[string]SalesExporter
}

// NewExportUseCase construye el caso de uso; exporters indexados por formato ("xlsx", "csv").
func NewExportUseCase(sales repository.SaleRepository, exporters map[string]SalesExporter) *ExportUseCase {
	return &ExportUseCase{sales: sales, exporters: exporters}
}

// ExportSales recorre todas las ventas del rango [from, to] y las escribe en el formato pedido.
func (uc *ExportUseCase) ExportSales(ctx context.Context, format string, from, to time.Time) (*ExportFile, error) {
	exp, ok := uc.exporters[format]
	if !ok {
		return nil, domain.Newf(domain.ErrInvalidInput, "Formato de exportación no soportado: %s.", format)
	}
	if to.Before(from) {
		return nil, domain.InvalidInput("La fecha final no puede ser anterior a la inicial.")
	}

	var rows []SaleRow
	for offset := 0; ; offset += exportPageSize {
		page, err := uc.sales.List(ctx, repository.SaleFilter{From: &from, To: &to, Limit: exportPageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("export: list sales: %w", err)
		}
		for _, s := range page {
			rows = append(rows, toRow(s))
		}
		if len(page) < exportPageSize {
			break
		}
	}

	var buf bytes.Buffer
	if err := exp.WriteSales(&buf, rows); err != nil {
		return nil, fmt.Errorf("export: write %s: %w", format, err)
	}
	return &ExportFile{
		Content:     buf.Bytes(),
		Filename:    fmt.Sprintf("ventas_%s_%s.%s", from.Format("20060102"), to.Format("20060102"), exp.Extension()),
		ContentType: exp.ContentType(),
	}, nil
}

func toRow(s *entity.Sale) SaleRow {
	r := SaleRow{
		Date:           s.Date,
		SaleID:         s.ID,
		CashRegisterID: s.CashRegisterID,
		Tier:           string(s.Tier),
		GrossTotal:     s.GrossTotal,
		TotalDiscount:  s.TotalDiscount,
		NetTotal:       s.NetTotal,
		Change:         s.Change,
		Payments:       make(map[entity.PaymentMethod]decimal.Decimal, len(entity.PaymentMethods)),
	}
	if s.DocumentType != nil {
		r.DocumentType = string(*s.DocumentType)
	}
	if s.DocumentNumber != nil {
		r.DocumentNumber = *s.DocumentNumber
	}
	if s.CustomerID != nil {
		r.CustomerID = *s.CustomerID
	}
	for _, p := range s.Payments {
		r.Payments[p.Method] = r.Payments[p.Method].Add(p.Amount)
	}
	return r
}
