package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ventas/internal/application/sales"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "$0",
		"950":     "$950",
		"25000":   "$25.000",
		"1000000": "$1.000.000",
		"1800.5":  "$1.800,50",
		"-50":     "-$50",
		"12.345":  "$12,35",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateReceiptPDF(t *testing.T) {
	dt := entity.DocumentBoleta
	num := "B-77"
	sale := &entity.Sale{
		ID:             "0b7c6a2e-0000-4000-8000-000000000001",
		Date:           time.Date(2026, 2, 14, 15, 30, 0, 0, time.UTC),
		GrossTotal:     decimal.NewFromInt(2000),
		TotalDiscount:  decimal.NewFromInt(200),
		NetTotal:       decimal.NewFromInt(1800),
		Change:         decimal.NewFromInt(200),
		DocumentType:   &dt,
		DocumentNumber: &num,
		Lines: []entity.SaleLine{{
			Position: 1, ProductName: "Café molido 250g", Quantity: 2,
			UnitPrice: decimal.NewFromInt(1000), GrossSubtotal: decimal.NewFromInt(2000), NetSubtotal: decimal.NewFromInt(2000),
		}},
		Payments: []entity.Payment{{Position: 1, Method: entity.PaymentCash, Amount: decimal.NewFromInt(2000)}},
	}

	out, err := NewReceiptPDFGenerator().GenerateReceiptPDF(context.Background(), &sales.Receipt{
		StoreName:   "Almacén Central",
		Sale:        sale,
		CashierName: "Ana",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceiptPDF_SinVenta(t *testing.T) {
	_, err := NewReceiptPDFGenerator().GenerateReceiptPDF(context.Background(), &sales.Receipt{})
	assert.Error(t, err)
}
