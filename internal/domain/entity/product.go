package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo del punto de venta.
// Stock es un valor cacheado: solo el libro de inventario lo modifica y siempre junto a un movimiento.
type Product struct {
	ID             string
	SKU            string // código único
	Barcode        string
	Name           string
	Description    string
	RetailPrice    decimal.Decimal // precio detalle
	WholesalePrice decimal.Decimal // precio mayorista
	Stock          int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
