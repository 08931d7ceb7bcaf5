package repository

import (
	"context"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CashRegisterRepository puerto de persistencia de cajas.
// Create devuelve domain.ErrDuplicate si ya existe una caja abierta (índice único parcial).
type CashRegisterRepository interface {
	// LockOpening serializa las aperturas concurrentes dentro de la transacción.
	LockOpening(ctx context.Context) error
	Create(ctx context.Context, register *entity.CashRegister) error
	GetByID(ctx context.Context, id string) (*entity.CashRegister, error)
	GetOpen(ctx context.Context) (*entity.CashRegister, error)
	// GetOpenForShare lee la caja abierta impidiendo su cierre hasta el fin de la transacción.
	GetOpenForShare(ctx context.Context) (*entity.CashRegister, error)
	GetOpenForUpdate(ctx context.Context) (*entity.CashRegister, error)
	// Close persiste el cierre; domain.ErrConflict si la caja ya no estaba abierta.
	Close(ctx context.Context, register *entity.CashRegister) error
	List(ctx context.Context, limit, offset int) ([]*entity.CashRegister, error)
	// PaymentTotals suma los pagos por medio de todas las ventas de la caja.
	PaymentTotals(ctx context.Context, registerID string) (map[entity.PaymentMethod]decimal.Decimal, error)
}
