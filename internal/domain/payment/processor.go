// Package payment valida los pagos de una venta contra el total requerido y calcula el vuelto.
package payment

import (
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// Process acepta todos los pagos o ninguno. Devuelve copias con Position asignada y el vuelto.
//
//	sin pagos          -> ErrNoPaymentMethod
//	monto <= 0 o medio desconocido -> ErrInvalidInput
//	suma < requerido   -> ErrInsufficientPayment
func Process(payments []entity.Payment, required decimal.Decimal) ([]entity.Payment, decimal.Decimal, error) {
	if len(payments) == 0 {
		return nil, decimal.Zero, domain.ErrNoPaymentMethod
	}
	accepted := make([]entity.Payment, 0, len(payments))
	sum := decimal.Zero
	for i, p := range payments {
		if !p.Method.Valid() {
			return nil, decimal.Zero, domain.Newf(domain.ErrInvalidInput, "Medio de pago desconocido: %s.", p.Method)
		}
		amount := pricing.RoundMoney(p.Amount)
		if !amount.IsPositive() {
			return nil, decimal.Zero, domain.InvalidInput("El monto de cada pago debe ser mayor que cero.")
		}
		sum = sum.Add(amount)
		accepted = append(accepted, entity.Payment{
			ID:       p.ID,
			SaleID:   p.SaleID,
			Position: i + 1,
			Method:   p.Method,
			Amount:   amount,
		})
	}
	required = pricing.RoundMoney(required)
	if sum.LessThan(required) {
		return nil, decimal.Zero, domain.InsufficientPayment(sum, required)
	}
	change := pricing.RoundMoney(sum.Sub(required))
	return accepted, change, nil
}
