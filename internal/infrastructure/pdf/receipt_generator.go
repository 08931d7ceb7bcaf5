// Package pdf genera el comprobante imprimible de una venta con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + cajero     │  Documento + Fecha           │
//	│  CLIENTE: Nombre + RUT (o consumidor final)                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Dcto | Subtotal          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Bruto / Descuentos / TOTAL                        │
//	│  PAGOS: medio + monto, vuelto                               │
//	│  FOOTER: QR con el ID de la venta                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ventas/internal/application/sales"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
)

var _ sales.ReceiptGenerator = (*ReceiptPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var methodLabels = map[entity.PaymentMethod]string{
	entity.PaymentCash:       "Efectivo",
	entity.PaymentDebitCard:  "Tarjeta de débito",
	entity.PaymentCreditCard: "Tarjeta de crédito",
	entity.PaymentTransfer:   "Transferencia",
	entity.PaymentWallet:     "Billetera digital",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptPDFGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type ReceiptPDFGenerator struct{}

// NewReceiptPDFGenerator construye el generador.
func NewReceiptPDFGenerator() *ReceiptPDFGenerator { return &ReceiptPDFGenerator{} }

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *ReceiptPDFGenerator) GenerateReceiptPDF(_ context.Context, r *sales.Receipt) ([]byte, error) {
	if r == nil || r.Sale == nil {
		return nil, fmt.Errorf("pdf: comprobante sin venta")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(r.StoreName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(customerRow(r.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(lineRows(r.Sale.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r.Sale))
	m.AddRows(paymentRows(r.Sale)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(r.Sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *sales.Receipt) core.Row {
	s := r.Sale
	docLabel := "COMPROBANTE DE VENTA"
	docNumber := shortID(s.ID)
	if s.DocumentType != nil && s.DocumentNumber != nil {
		docLabel = string(*s.DocumentType)
		docNumber = *s.DocumentNumber
	}
	cashier := ""
	if r.CashierName != "" {
		cashier = "Atendido por: " + r.CashierName
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.StoreName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(cashier, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(docLabel, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(docNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+s.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	name, detail := "Consumidor final", ""
	if c != nil {
		name = c.Name
		detail = "RUT: " + c.TaxID
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name+"   "+detail, props.Text{Size: 9, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Dcto.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func lineRows(lines []entity.SaleLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.DiscountAmount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.NetSubtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(s *entity.Sale) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 10, Right: 2}
	grandValue := grand
	grandValue.Right = 1

	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(
			label("Total bruto:"),
			text.New("Descuentos:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 5, Right: 2}),
			text.New("TOTAL:", grand),
		),
		col.New(3).Add(
			value(formatMoney(s.GrossTotal)),
			text.New(formatMoney(s.TotalDiscount), props.Text{Size: 9, Align: align.Right, Top: 5, Right: 1}),
			text.New(formatMoney(s.NetTotal), grandValue),
		),
	)
}

func paymentRows(s *entity.Sale) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("PAGOS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, p := range s.Payments {
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(methodLabel(p.Method), props.Text{Size: 8, Left: 2})),
			col.New(6).Add(text.New(formatMoney(p.Amount), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	rows = append(rows, row.New(6).Add(
		col.New(6).Add(text.New("Vuelto", props.Text{Style: fontstyle.Bold, Size: 8, Left: 2, Top: 1})),
		col.New(6).Add(text.New(formatMoney(s.Change), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 1, Top: 1})),
	))
	return rows
}

func footerRow(s *entity.Sale) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(s.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Venta "+s.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New("Gracias por su compra.", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 14, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func methodLabel(m entity.PaymentMethod) string {
	if l, ok := methodLabels[m]; ok {
		return l
	}
	return string(m)
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatMoney "$1.234.567" y, si hay centavos, ",50".
// Ej: 25000 → "$25.000", 1800.5 → "$1.800,50", -50 → "-$50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	d = d.Round(2)
	intPart := d.Truncate(0)
	cents := d.Sub(intPart).Shift(2).IntPart()

	s := intPart.String()
	n := len(s)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := sign + "$" + string(buf)
	if cents != 0 {
		out += fmt.Sprintf(",%02d", cents)
	}
	return out
}
