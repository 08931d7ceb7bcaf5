// Package pricing implementa el cálculo de precios y descuentos (servicio de dominio, funciones puras).
package pricing

import (
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MoneyPlaces decimales de la moneda.
const MoneyPlaces int32 = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney redondea al centavo.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// UnitPrice precio mayorista para WHOLESALE, precio detalle en cualquier otro caso.
func UnitPrice(product *entity.Product, tier entity.CustomerTier) decimal.Decimal {
	if tier == entity.TierWholesale {
		return product.WholesalePrice
	}
	return product.RetailPrice
}

// DiscountAmount resuelve el monto de descuento sobre base.
// Sin descuento (nil o sin tipo) devuelve 0.
//
//	PERCENT: 0 <= v <= 100, monto = base * v / 100
//	FIXED:   v >= 0,        monto = v
func DiscountAmount(base decimal.Decimal, d *entity.Discount) (decimal.Decimal, error) {
	if d == nil || d.Kind == "" {
		return decimal.Zero, nil
	}
	switch d.Kind {
	case entity.DiscountPercent:
		if d.Value.IsNegative() || d.Value.GreaterThan(hundred) {
			return decimal.Zero, domain.Newf(domain.ErrInvalidDiscount,
				"El porcentaje de descuento debe estar entre 0 y 100 (recibido %s).", d.Value.String())
		}
		return RoundMoney(base.Mul(d.Value).Div(hundred)), nil
	case entity.DiscountFixed:
		if d.Value.IsNegative() {
			return decimal.Zero, domain.Newf(domain.ErrInvalidDiscount,
				"El descuento fijo no puede ser negativo (recibido %s).", d.Value.String())
		}
		return RoundMoney(d.Value), nil
	}
	return decimal.Zero, domain.Newf(domain.ErrInvalidDiscount, "Tipo de descuento desconocido: %s.", d.Kind)
}

// ValidateDiscountNotExceedingBase falla con regla de negocio si discount > base. Igualdad permitida.
func ValidateDiscountNotExceedingBase(discount, base decimal.Decimal, msg string) error {
	if discount.GreaterThan(base) {
		return domain.BusinessRule(msg)
	}
	return nil
}

// LineAmounts calcula subtotal bruto, descuento y subtotal neto de una línea.
func LineAmounts(unitPrice decimal.Decimal, qty int, d *entity.Discount, msg string) (gross, discount, net decimal.Decimal, err error) {
	gross = RoundMoney(unitPrice.Mul(decimal.NewFromInt(int64(qty))))
	discount, err = DiscountAmount(gross, d)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	if err = ValidateDiscountNotExceedingBase(discount, gross, msg); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return gross, discount, gross.Sub(discount), nil
}
