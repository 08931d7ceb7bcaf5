package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/memory"
)

func newProduct(sku string, stock int) *entity.Product {
	return &entity.Product{
		SKU: sku, Name: sku, Active: true, Stock: stock,
		RetailPrice: decimal.NewFromInt(1000), WholesalePrice: decimal.NewFromInt(800),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_ErrorRevierteTodo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	boom := errors.New("falla")

	err := runner.Run(ctx, func(repos repository.TxRepos) error {
		p := newProduct("A-1", 5)
		require.NoError(t, repos.Products.Create(ctx, p))
		require.NoError(t, repos.Movements.Create(ctx, &entity.InventoryMovement{
			ProductID: p.ID, Direction: entity.DirectionIN, Reason: entity.ReasonProduction, Quantity: 5, Date: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Repos().Products.GetBySKU(ctx, "A-1")
	require.NoError(t, err)
	assert.Nil(t, got, "el producto no debe sobrevivir al rollback")
}

func TestTxRunner_ConfirmaSiNoHayError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	var id string
	require.NoError(t, runner.Run(ctx, func(repos repository.TxRepos) error {
		p := newProduct("A-1", 5)
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		id = p.ID
		return repos.Products.SetStock(ctx, p.ID, 3, time.Now())
	}))

	got, err := store.Repos().Products.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Stock)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewTxRunner(memory.NewStore()).Run(ctx, func(repository.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_SKUDuplicado(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Products.Create(ctx, newProduct("A-1", 0)))
	assert.ErrorIs(t, repos.Products.Create(ctx, newProduct("A-1", 0)), domain.ErrDuplicate)
}

func TestProductRepo_UpdateNoTocaStock(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	p := newProduct("A-1", 7)
	require.NoError(t, repos.Products.Create(ctx, p))

	p.Name = "Nuevo nombre"
	p.Stock = 999
	require.NoError(t, repos.Products.Update(ctx, p))

	got, err := repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nuevo nombre", got.Name)
	assert.Equal(t, 7, got.Stock)

	missing := newProduct("X", 0)
	missing.ID = "no-existe"
	assert.ErrorIs(t, repos.Products.Update(ctx, missing), domain.ErrNotFound)
}

func TestSaleRepo_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	sale := &entity.Sale{
		Date:     time.Now(),
		Tier:     entity.TierRetail,
		NetTotal: decimal.NewFromInt(1000),
		Lines:    []entity.SaleLine{{Position: 1, ProductID: "p1", Quantity: 1}},
		Payments: []entity.Payment{{Method: entity.PaymentCash, Amount: decimal.NewFromInt(1000)}},
	}
	require.NoError(t, repos.Sales.Create(ctx, sale))

	got, err := repos.Sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	got.Lines[0].Quantity = 50

	again, err := repos.Sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Lines[0].Quantity, "modificar la copia no altera el almacén")
	assert.Equal(t, sale.ID, again.Payments[0].SaleID)
}

func TestSaleRepo_DocumentoDuplicado(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	boleta := entity.DocumentBoleta
	num := "1001"

	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{Date: time.Now(), DocumentType: &boleta, DocumentNumber: &num}))
	err := repos.Sales.Create(ctx, &entity.Sale{Date: time.Now(), DocumentType: &boleta, DocumentNumber: &num})
	assert.ErrorIs(t, err, domain.ErrExistsRegister)

	// mismo número con otro tipo de documento es válido
	factura := entity.DocumentFactura
	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{Date: time.Now(), DocumentType: &factura, DocumentNumber: &num}))
}
