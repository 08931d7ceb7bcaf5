package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string // SKU, código de barras o nombre
	OnlyActive bool
	Limit      int
	Offset     int
}

// ProductRepository puerto de persistencia de productos.
// Los Get devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica datos de catálogo; nunca el stock.
	Update(ctx context.Context, product *entity.Product) error
	// SetStock escribe el stock cacheado. Solo lo usa el libro de inventario.
	SetStock(ctx context.Context, id string, stock int, at time.Time) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
}
