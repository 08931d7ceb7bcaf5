package entity

import "github.com/shopspring/decimal"

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentTransfer   PaymentMethod = "TRANSFER"
	PaymentWallet     PaymentMethod = "WALLET"
)

// PaymentMethods lista ordenada de medios de pago soportados.
var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentDebitCard, PaymentCreditCard, PaymentTransfer, PaymentWallet,
}

// Valid indica si el medio de pago es conocido.
func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Payment pago de una venta (Amount > 0).
type Payment struct {
	ID       string
	SaleID   string
	Position int
	Method   PaymentMethod
	Amount   decimal.Decimal
}
