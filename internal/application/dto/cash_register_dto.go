package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenRegisterRequest apertura de caja con fondo inicial.
type OpenRegisterRequest struct {
	OpeningCash decimal.Decimal `json:"opening_cash"`
}

// CloseRegisterRequest cierre de caja: montos contados por medio de pago. CASH es obligatorio.
type CloseRegisterRequest struct {
	CountedTotals map[string]decimal.Decimal `json:"counted_totals"`
}

// CashRegisterResponse salida de una caja.
type CashRegisterResponse struct {
	ID             string                     `json:"id"`
	State          string                     `json:"state"`
	OpenedAt       time.Time                  `json:"opened_at"`
	OpenedBy       string                     `json:"opened_by"`
	OpeningCash    decimal.Decimal            `json:"opening_cash"`
	ClosedAt       *time.Time                 `json:"closed_at,omitempty"`
	ClosedBy       *string                    `json:"closed_by,omitempty"`
	CountedCash    *decimal.Decimal           `json:"counted_cash,omitempty"`
	CountedTotals  map[string]decimal.Decimal `json:"counted_totals,omitempty"`
	ExpectedTotals map[string]decimal.Decimal `json:"expected_totals,omitempty"`
	ExpectedCash   *decimal.Decimal           `json:"expected_cash,omitempty"`
	Variance       *decimal.Decimal           `json:"variance,omitempty"`
}

// RegisterSummaryResponse totales por medio de pago de una caja.
type RegisterSummaryResponse struct {
	CashRegisterID string                     `json:"cash_register_id"`
	Totals         map[string]decimal.Decimal `json:"totals"`
}
