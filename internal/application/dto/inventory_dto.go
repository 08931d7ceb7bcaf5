package dto

import (
	"time"
)

// ReconcileStockRequest fija el stock absoluto de un producto (conteo físico).
type ReconcileStockRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// ManualMovementRequest entrada para un movimiento manual de inventario.
type ManualMovementRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
	Direction string `json:"direction" validate:"required,oneof=IN OUT"`
	Reason    string `json:"reason" validate:"required"`
	Note      string `json:"note"`
}

// MovementResponse salida de un movimiento (kardex).
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	UserID      string    `json:"user_id"`
	Direction   string    `json:"direction"`
	Reason      string    `json:"reason"`
	Quantity    int       `json:"quantity"`
	StockBefore int       `json:"stock_before"`
	StockAfter  int       `json:"stock_after"`
	ReferenceID *string   `json:"reference_id,omitempty"`
	Note        string    `json:"note,omitempty"`
	Date        time.Time `json:"date"`
}

// StockAuditResponse compara el stock cacheado con la suma del libro.
type StockAuditResponse struct {
	ProductID   string `json:"product_id"`
	CachedStock int    `json:"cached_stock"`
	LedgerStock int    `json:"ledger_stock"`
	Movements   int    `json:"movements"`
	Consistent  bool   `json:"consistent"`
}
