package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea solicitada. El descuento es opcional (valor + tipo PERCENT|FIXED).
type SaleLineRequest struct {
	ProductID     string           `json:"product_id" validate:"required"`
	Quantity      int              `json:"quantity" validate:"min=1"`
	DiscountValue *decimal.Decimal `json:"discount_value,omitempty"`
	DiscountKind  *string          `json:"discount_kind,omitempty"`
}

// PaymentRequest pago ofrecido.
type PaymentRequest struct {
	Method string          `json:"method" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateSaleRequest entrada para crear una venta.
type CreateSaleRequest struct {
	Tier                string            `json:"tier"` // RETAIL (por defecto) | WHOLESALE
	CustomerID          *string           `json:"customer_id,omitempty"`
	Lines               []SaleLineRequest `json:"lines" validate:"required,min=1"`
	GlobalDiscountValue *decimal.Decimal  `json:"global_discount_value,omitempty"`
	GlobalDiscountKind  *string           `json:"global_discount_kind,omitempty"`
	Payments            []PaymentRequest  `json:"payments" validate:"required,min=1"`
	DocumentType        *string           `json:"document_type,omitempty"`
	DocumentNumber      *string           `json:"document_number,omitempty"`
}

// UpdateDocumentRequest asigna tipo y número de documento a una venta.
type UpdateDocumentRequest struct {
	DocumentType   string `json:"document_type" validate:"required"`
	DocumentNumber string `json:"document_number" validate:"required"`
}

// UpdateSaleCustomerRequest reasigna (o quita, con null) el cliente de una venta.
type UpdateSaleCustomerRequest struct {
	CustomerID *string `json:"customer_id"`
}

// SaleLineResponse salida de una línea.
type SaleLineResponse struct {
	Position       int              `json:"position"`
	ProductID      string           `json:"product_id"`
	ProductName    string           `json:"product_name"`
	Quantity       int              `json:"quantity"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	DiscountValue  *decimal.Decimal `json:"discount_value,omitempty"`
	DiscountKind   *string          `json:"discount_kind,omitempty"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	GrossSubtotal  decimal.Decimal  `json:"gross_subtotal"`
	NetSubtotal    decimal.Decimal  `json:"net_subtotal"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID                   string             `json:"id"`
	Date                 time.Time          `json:"date"`
	Tier                 string             `json:"tier"`
	GrossTotal           decimal.Decimal    `json:"gross_total"`
	GlobalDiscountValue  *decimal.Decimal   `json:"global_discount_value,omitempty"`
	GlobalDiscountKind   *string            `json:"global_discount_kind,omitempty"`
	GlobalDiscountAmount decimal.Decimal    `json:"global_discount_amount"`
	LineDiscountTotal    decimal.Decimal    `json:"line_discount_total"`
	TotalDiscount        decimal.Decimal    `json:"total_discount"`
	NetTotal             decimal.Decimal    `json:"net_total"`
	Change               decimal.Decimal    `json:"change"`
	DocumentType         *string            `json:"document_type,omitempty"`
	DocumentNumber       *string            `json:"document_number,omitempty"`
	CashRegisterID       string             `json:"cash_register_id"`
	CustomerID           *string            `json:"customer_id,omitempty"`
	UserID               string             `json:"user_id"`
	Lines                []SaleLineResponse `json:"lines,omitempty"`
	Payments             []PaymentResponse  `json:"payments"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
