package sales

import (
	"context"

	"github.com/jhoicas/pos-ventas/internal/application/inventory"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con repositorios atados a la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// StockLedger operaciones del libro de inventario que usa la venta, todas dentro de la tx del caller.
type StockLedger interface {
	ValidateAvailabilityInTx(ctx context.Context, repos repository.TxRepos, lines []inventory.StockRequest) (map[string]*entity.Product, error)
	RecordExitInTx(ctx context.Context, repos repository.TxRepos, productID string, qty int, actorID, referenceID string) (*entity.InventoryMovement, error)
	PersistMovementsInTx(ctx context.Context, repos repository.TxRepos, movs []*entity.InventoryMovement) error
}

// RegisterResolver resuelve la caja abierta dentro de la tx.
type RegisterResolver interface {
	CurrentOpenInTx(ctx context.Context, repos repository.TxRepos) (*entity.CashRegister, error)
}

// ReceiptGenerator genera la representación imprimible de una venta. Solo lectura.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, receipt *Receipt) ([]byte, error)
}
