package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterState estado de una caja.
type RegisterState string

const (
	RegisterOpen   RegisterState = "OPEN"
	RegisterClosed RegisterState = "CLOSED"
)

// CashRegister sesión de caja: agrupa todas las ventas entre una apertura y un cierre.
// Solo puede existir una caja OPEN; una caja CLOSED no se modifica ni se reabre.
type CashRegister struct {
	ID          string
	State       RegisterState
	OpenedAt    time.Time
	OpenedBy    string
	OpeningCash decimal.Decimal

	ClosedAt       *time.Time
	ClosedBy       *string
	CountedCash    *decimal.Decimal
	CountedTotals  map[PaymentMethod]decimal.Decimal
	ExpectedTotals map[PaymentMethod]decimal.Decimal
	ExpectedCash   *decimal.Decimal
	Variance       *decimal.Decimal // efectivo contado - efectivo esperado
}

// IsOpen indica si la caja está abierta.
func (r *CashRegister) IsOpen() bool {
	return r.State == RegisterOpen
}
