package entity

import "time"

// MovementDirection sentido del movimiento de inventario.
type MovementDirection string

const (
	DirectionIN  MovementDirection = "IN"  // entrada
	DirectionOUT MovementDirection = "OUT" // salida
)

// MovementReason motivo del movimiento.
type MovementReason string

const (
	ReasonSale           MovementReason = "SALE"
	ReasonProduction     MovementReason = "PRODUCTION"
	ReasonCorrection     MovementReason = "CORRECTION"
	ReasonSaleAdjustment MovementReason = "SALE_ADJUSTMENT"
	ReasonPurchase       MovementReason = "PURCHASE"
	ReasonWaste          MovementReason = "WASTE"
	ReasonReturn         MovementReason = "RETURN"
)

// Valid indica si la dirección es IN u OUT.
func (d MovementDirection) Valid() bool {
	return d == DirectionIN || d == DirectionOUT
}

// Valid indica si el motivo es conocido.
func (r MovementReason) Valid() bool {
	switch r {
	case ReasonSale, ReasonProduction, ReasonCorrection, ReasonSaleAdjustment,
		ReasonPurchase, ReasonWaste, ReasonReturn:
		return true
	}
	return false
}

// InventoryMovement hecho inmutable del libro de inventario. Quantity siempre > 0;
// el signo lo da Direction. StockBefore/StockAfter registran el stock cacheado alrededor del movimiento.
type InventoryMovement struct {
	ID          string
	ProductID   string
	UserID      string
	Direction   MovementDirection
	Reason      MovementReason
	Quantity    int
	StockBefore int
	StockAfter  int
	ReferenceID *string // venta asociada, si aplica
	Note        string
	Date        time.Time
}

// Signed devuelve +Quantity para IN y -Quantity para OUT.
func (m *InventoryMovement) Signed() int {
	if m.Direction == DirectionOUT {
		return -m.Quantity
	}
	return m.Quantity
}
