package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
)

// InventoryMovementRepository puerto del libro de movimientos (solo inserción y lectura).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	CreateBatch(ctx context.Context, movements []*entity.InventoryMovement) error
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByReference(ctx context.Context, referenceID string) ([]*entity.InventoryMovement, error)
	// SumByProduct devuelve el neto firmado de los movimientos del producto y cuántos son.
	SumByProduct(ctx context.Context, productID string) (net int, count int, err error)
}
