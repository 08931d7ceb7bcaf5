package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pos-ventas/internal/application/analytics"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/export"
)

func sampleRows() []analytics.SaleRow {
	return []analytics.SaleRow{{
		Date:           time.Date(2026, 2, 14, 15, 30, 0, 0, time.UTC),
		SaleID:         "s-1",
		DocumentType:   "BOLETA",
		DocumentNumber: "B-77",
		CashRegisterID: "r-1",
		Tier:           "RETAIL",
		GrossTotal:     decimal.NewFromInt(2000),
		TotalDiscount:  decimal.NewFromInt(200),
		NetTotal:       decimal.NewFromInt(1800),
		Change:         decimal.NewFromInt(200),
		Payments: map[entity.PaymentMethod]decimal.Decimal{
			entity.PaymentCash: decimal.NewFromInt(2000),
		},
	}}
}

// ──────────────────────────────────────────────────────────────────────────────
// CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestCSVExporter_EscribeCabeceraYFilas(t *testing.T) {
	var buf bytes.Buffer
	exp := export.NewCSVExporter()
	require.NoError(t, exp.WriteSales(&buf, sampleRows()))
	assert.Equal(t, "csv", exp.Extension())

	r := csv.NewReader(&buf)
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Fecha", records[0][0])
	assert.Equal(t, "CASH", records[0][11])
	assert.Equal(t, "2026-02-14 15:30:00", records[1][0])
	assert.Equal(t, "B-77", records[1][3])
	assert.Equal(t, "1800.00", records[1][9])
	assert.Equal(t, "2000.00", records[1][11])
	assert.Equal(t, "0.00", records[1][12], "medio sin pagos")
}

func TestCSVExporter_SinFilas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.NewCSVExporter().WriteSales(&buf, nil))
	records, err := func() ([][]string, error) {
		r := csv.NewReader(&buf)
		r.Comma = ';'
		return r.ReadAll()
	}()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// XLSX
// ──────────────────────────────────────────────────────────────────────────────

func TestXLSXExporter_HojaVentas(t *testing.T) {
	var buf bytes.Buffer
	exp := export.NewXLSXExporter()
	require.NoError(t, exp.WriteSales(&buf, sampleRows()))
	assert.Equal(t, "xlsx", exp.Extension())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ventas")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, "s-1", rows[1][1])
	assert.Equal(t, "1800", rows[1][9])
}
