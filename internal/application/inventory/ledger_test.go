package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ventas/internal/application/inventory"
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActor = "00000000-0000-0000-0000-0000000000aa"

type fixture struct {
	store  *memory.Store
	tx     *memory.TxRunner
	ledger *inventory.Ledger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	repos := store.Repos()
	return &fixture{
		store:  store,
		tx:     tx,
		ledger: inventory.NewLedger(tx, repos.Products, repos.Movements),
	}
}

// product crea un producto y registra su stock inicial por el libro.
func (f *fixture) product(t *testing.T, sku string, initial int) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{
		SKU:            sku,
		Name:           "Producto " + sku,
		RetailPrice:    decimal.NewFromInt(1000),
		WholesalePrice: decimal.NewFromInt(800),
		Active:         true,
		CreatedAt:      time.Now(),
	}
	err := f.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		return f.ledger.RecordInitialStockInTx(ctx, repos, p, initial, testActor)
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *fixture) movements(t *testing.T, id string) []*entity.InventoryMovement {
	t.Helper()
	list, err := f.store.Repos().Movements.ListByProduct(context.Background(), id, nil, nil, 100, 0)
	require.NoError(t, err)
	return list
}

func (f *fixture) assertConsistent(t *testing.T, id string) {
	t.Helper()
	audit, err := f.ledger.AuditStock(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, audit.Consistent(), "stock cacheado (%d) debe coincidir con el libro (%d)", audit.CachedStock, audit.LedgerStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock inicial y salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordInitialStock_CeroNoCreaMovimiento(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SKU-0", 0)

	assert.Equal(t, 0, f.stock(t, p.ID))
	assert.Empty(t, f.movements(t, p.ID))
}

func TestLedger_InicialMasSalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SKU-1", 10)

	err := f.tx.Run(ctx, func(repos repository.TxRepos) error {
		mov, err := f.ledger.RecordExitInTx(ctx, repos, p.ID, 3, testActor, "venta-1")
		if err != nil {
			return err
		}
		assert.Equal(t, entity.DirectionOUT, mov.Direction)
		assert.Equal(t, entity.ReasonSale, mov.Reason)
		assert.Equal(t, 10, mov.StockBefore)
		assert.Equal(t, 7, mov.StockAfter)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 7, f.stock(t, p.ID))
	movs := f.movements(t, p.ID)
	require.Len(t, movs, 2, "exactamente dos movimientos: inicial y salida")
	f.assertConsistent(t, p.ID)
}

func TestRecordExit_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SKU-2", 2)

	err := f.tx.Run(ctx, func(repos repository.TxRepos) error {
		_, err := f.ledger.RecordExitInTx(ctx, repos, p.ID, 3, testActor, "venta-x")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.stock(t, p.ID), "sin mutación cuando falla")
	assert.Len(t, f.movements(t, p.ID), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SKU-3", 5)

	assert.NoError(t, f.ledger.ValidateAvailability(ctx, []inventory.StockRequest{{ProductID: p.ID, Quantity: 5}}))

	err := f.ledger.ValidateAvailability(ctx, []inventory.StockRequest{{ProductID: p.ID, Quantity: 6}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	err = f.ledger.ValidateAvailability(ctx, []inventory.StockRequest{{ProductID: "no-existe", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un mismo producto en dos líneas se valida por el total.
func TestValidateAvailability_AgregaPorProducto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SKU-4", 5)

	err := f.ledger.ValidateAvailability(context.Background(), []inventory.StockRequest{
		{ProductID: p.ID, Quantity: 3},
		{ProductID: p.ID, Quantity: 3},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación y movimientos manuales
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcileAbsolute_SinDiferenciaNoCreaMovimiento(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SKU-5", 8)

	out, err := f.ledger.ReconcileAbsolute(context.Background(), p.ID, 8, testActor)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Stock)
	assert.Len(t, f.movements(t, p.ID), 1)
}

func TestReconcileAbsolute_Aumento(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SKU-6", 8)

	out, err := f.ledger.ReconcileAbsolute(context.Background(), p.ID, 13, testActor)
	require.NoError(t, err)
	assert.Equal(t, 13, out.Stock)

	movs := f.movements(t, p.ID)
	require.Len(t, movs, 2)
	last := movs[0]
	assert.Equal(t, entity.DirectionIN, last.Direction)
	assert.Equal(t, entity.ReasonCorrection, last.Reason)
	assert.Equal(t, 5, last.Quantity)
	f.assertConsistent(t, p.ID)
}

func TestReconcileAbsolute_Disminucion(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SKU-7", 8)

	out, err := f.ledger.ReconcileAbsolute(context.Background(), p.ID, 2, testActor)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Stock)

	movs := f.movements(t, p.ID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.DirectionOUT, movs[0].Direction)
	assert.Equal(t, 6, movs[0].Quantity)
	f.assertConsistent(t, p.ID)

	_, err = f.ledger.ReconcileAbsolute(context.Background(), p.ID, -1, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordManual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "SKU-8", 4)

	out, err := f.ledger.RecordManual(ctx, inventory.ManualMovementInput{
		ProductID: p.ID, Quantity: 6, Direction: entity.DirectionIN, Reason: entity.ReasonPurchase, ActorID: testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Stock)

	_, err = f.ledger.RecordManual(ctx, inventory.ManualMovementInput{
		ProductID: p.ID, Quantity: 11, Direction: entity.DirectionOUT, Reason: entity.ReasonWaste, ActorID: testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, p.ID))

	_, err = f.ledger.RecordManual(ctx, inventory.ManualMovementInput{
		ProductID: p.ID, Quantity: 1, Direction: entity.DirectionOUT, Reason: "ROBO", ActorID: testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.RecordManual(ctx, inventory.ManualMovementInput{
		ProductID: "no-existe", Quantity: 1, Direction: entity.DirectionIN, Reason: entity.ReasonPurchase, ActorID: testActor,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.assertConsistent(t, p.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lote de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestPersistMovements_LoteAplicaEnOrden(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "SKU-A", 1)
	b := f.product(t, "SKU-B", 0)

	movs := []*entity.InventoryMovement{
		{ProductID: a.ID, Direction: entity.DirectionIN, Reason: entity.ReasonSaleAdjustment, Quantity: 2, UserID: testActor},
		{ProductID: b.ID, Direction: entity.DirectionIN, Reason: entity.ReasonReturn, Quantity: 4, UserID: testActor},
		{ProductID: a.ID, Direction: entity.DirectionOUT, Reason: entity.ReasonWaste, Quantity: 3, UserID: testActor},
	}
	require.NoError(t, f.ledger.PersistMovements(context.Background(), movs))

	assert.Equal(t, 0, f.stock(t, a.ID))
	assert.Equal(t, 4, f.stock(t, b.ID))
	assert.Equal(t, 1, movs[0].StockBefore)
	assert.Equal(t, 3, movs[0].StockAfter)
	assert.Equal(t, 3, movs[2].StockBefore)
	assert.Equal(t, 0, movs[2].StockAfter)
	f.assertConsistent(t, a.ID)
	f.assertConsistent(t, b.ID)
}

func TestPersistMovements_TodoONada(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "SKU-C", 1)

	err := f.ledger.PersistMovements(context.Background(), []*entity.InventoryMovement{
		{ProductID: a.ID, Direction: entity.DirectionIN, Reason: entity.ReasonPurchase, Quantity: 1, UserID: testActor},
		{ProductID: a.ID, Direction: entity.DirectionOUT, Reason: entity.ReasonWaste, Quantity: 5, UserID: testActor},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.stock(t, a.ID), "rollback: el stock no cambia")
	assert.Len(t, f.movements(t, a.ID), 1)
}
