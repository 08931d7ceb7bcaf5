package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerTier clase de precio aplicada a la venta.
type CustomerTier string

const (
	TierRetail    CustomerTier = "RETAIL"
	TierWholesale CustomerTier = "WHOLESALE"
)

// DiscountKind tipo de descuento: porcentaje o monto fijo.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "PERCENT"
	DiscountFixed   DiscountKind = "FIXED"
)

// Discount descuento solicitado (valor + tipo). nil = sin descuento.
type Discount struct {
	Value decimal.Decimal
	Kind  DiscountKind
}

// DocumentType tipo de documento tributario asignado a la venta.
type DocumentType string

const (
	DocumentBoleta  DocumentType = "BOLETA"
	DocumentFactura DocumentType = "FACTURA"
	DocumentTicket  DocumentType = "TICKET"
)

// Valid indica si el tipo de documento es conocido.
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentBoleta, DocumentFactura, DocumentTicket:
		return true
	}
	return false
}

// SaleState estados de una venta. No hay estados intermedios: la persistencia es atómica.
type SaleState string

const (
	SaleDraft     SaleState = "DRAFT"
	SalePersisted SaleState = "PERSISTED"
	SaleDeleted   SaleState = "DELETED"
)

// Sale cabecera de venta con sus líneas y pagos.
// NetTotal = GrossTotal - (LineDiscountTotal + GlobalDiscountAmount); Change = Σ pagos - NetTotal.
type Sale struct {
	ID                   string
	Date                 time.Time
	Tier                 CustomerTier
	GrossTotal           decimal.Decimal
	GlobalDiscount       *Discount
	GlobalDiscountAmount decimal.Decimal
	LineDiscountTotal    decimal.Decimal
	TotalDiscount        decimal.Decimal
	NetTotal             decimal.Decimal
	DocumentType         *DocumentType
	DocumentNumber       *string
	Change               decimal.Decimal
	CashRegisterID       string
	CustomerID           *string
	UserID               string
	State                SaleState
	Lines                []SaleLine
	Payments             []Payment
	CreatedAt            time.Time
}

// SaleLine línea de venta. UnitPrice se captura al momento de la venta.
type SaleLine struct {
	ID             string
	SaleID         string
	Position       int
	ProductID      string
	ProductName    string
	Quantity       int
	UnitPrice      decimal.Decimal
	Discount       *Discount
	DiscountAmount decimal.Decimal
	GrossSubtotal  decimal.Decimal
	NetSubtotal    decimal.Decimal
}

// PaidTotal suma de los pagos de la venta.
func (s *Sale) PaidTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}
