package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	CashRegisterID string
	CustomerID     string
	From, To       *time.Time
	Limit          int
	Offset         int
}

// SaleRepository puerto de persistencia de ventas (cabecera, líneas y pagos).
type SaleRepository interface {
	// Create persiste cabecera, líneas y pagos.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con líneas y pagos, o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List devuelve cabeceras con sus pagos (sin líneas), más recientes primero.
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	ExistsDocument(ctx context.Context, docType entity.DocumentType, number, excludeSaleID string) (bool, error)
	UpdateDocument(ctx context.Context, id string, docType entity.DocumentType, number string) error
	UpdateCustomer(ctx context.Context, id string, customerID *string) error
	DeletePayments(ctx context.Context, saleID string) error
	DeleteLines(ctx context.Context, saleID string) error
	Delete(ctx context.Context, id string) error
}
