package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ventas/internal/application/cashregister"
	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/application/inventory"
	"github.com/jhoicas/pos-ventas/internal/application/sales"
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const cashier = "00000000-0000-0000-0000-0000000000cc"

type fixture struct {
	store     *memory.Store
	ledger    *inventory.Ledger
	registers *cashregister.Manager
	orch      *sales.Orchestrator
}

func newFixture(t *testing.T, clock func() time.Time) *fixture {
	t.Helper()
	if clock == nil {
		clock = time.Now
	}
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	repos := store.Repos()
	ledger := inventory.NewLedger(tx, repos.Products, repos.Movements, inventory.WithClock(clock))
	registers := cashregister.NewManager(tx, repos.Registers, cashregister.WithClock(clock))
	orch := sales.NewOrchestrator(tx, repos.Sales, ledger, registers, sales.WithClock(clock))

	require.NoError(t, repos.Users.Create(context.Background(), &entity.User{
		ID: cashier, Email: "caja@pos.test", Name: "Cajero", Role: entity.RoleVendedor, Status: entity.UserStatusActive,
	}))
	return &fixture{store: store, ledger: ledger, registers: registers, orch: orch}
}

func (f *fixture) open(t *testing.T) *entity.CashRegister {
	t.Helper()
	reg, err := f.registers.Open(context.Background(), decimal.Zero, cashier)
	require.NoError(t, err)
	return reg
}

func (f *fixture) product(t *testing.T, sku string, stock int) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{
		SKU:            sku,
		Name:           "Producto " + sku,
		RetailPrice:    decimal.NewFromInt(1000),
		WholesalePrice: decimal.NewFromInt(800),
		Active:         true,
	}
	err := memory.NewTxRunner(f.store).Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		return f.ledger.RecordInitialStockInTx(ctx, repos, p, stock, cashier)
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) saleCount(t *testing.T) int {
	t.Helper()
	list, err := f.store.Repos().Sales.List(context.Background(), repository.SaleFilter{Limit: 100})
	require.NoError(t, err)
	return len(list)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func cash(amount string) []dto.PaymentRequest {
	return []dto.PaymentRequest{{Method: "CASH", Amount: dec(amount)}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_EscenarioDescuentoGlobal(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.open(t)
	p := f.product(t, "X", 10)

	sale, err := f.orch.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Tier:                "RETAIL",
		Lines:               []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 2}},
		GlobalDiscountValue: ptr(dec("10")),
		GlobalDiscountKind:  ptr("PERCENT"),
		Payments:            cash("2000"),
	})
	require.NoError(t, err)

	require.Len(t, sale.Lines, 1)
	assert.True(t, sale.Lines[0].UnitPrice.Equal(dec("1000")))
	assert.True(t, sale.Lines[0].GrossSubtotal.Equal(dec("2000")))
	assert.True(t, sale.Lines[0].NetSubtotal.Equal(dec("2000")))
	assert.True(t, sale.GrossTotal.Equal(dec("2000")))
	assert.True(t, sale.GlobalDiscountAmount.Equal(dec("200")))
	assert.True(t, sale.NetTotal.Equal(dec("1800")))
	assert.True(t, sale.Change.Equal(dec("200")))
	assert.True(t, sale.PaidTotal().Sub(sale.NetTotal).Equal(sale.Change))
	assert.Equal(t, reg.ID, sale.CashRegisterID)
	assert.Equal(t, entity.SalePersisted, sale.State)

	assert.Equal(t, 8, f.stock(t, p.ID))
	exits, err := f.store.Repos().Movements.ListByReference(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, exits, 1)
	assert.Equal(t, entity.DirectionOUT, exits[0].Direction)
	assert.Equal(t, entity.ReasonSale, exits[0].Reason)
	assert.Equal(t, 2, exits[0].Quantity)

	stored, err := f.orch.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 1)
}

func TestCreateSale_PrecioMayorista(t *testing.T) {
	f := newFixture(t, nil)
	f.open(t)
	p := f.product(t, "X", 10)

	sale, err := f.orch.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Tier:     "WHOLESALE",
		Lines:    []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 3}},
		Payments: cash("2400"),
	})
	require.NoError(t, err)
	assert.True(t, sale.NetTotal.Equal(dec("2400")))
	assert.True(t, sale.Change.IsZero())
}

func TestCreateSale_DescuentosPorLineaYGlobal(t *testing.T) {
	f := newFixture(t, nil)
	f.open(t)
	a := f.product(t, "A", 10)
	b := f.product(t, "B", 10)

	sale, err := f.orch.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{
			{ProductID: a.ID, Quantity: 1, DiscountValue: ptr(dec("100")), DiscountKind: ptr("FIXED")},
			{ProductID: b.ID, Quantity: 2, DiscountValue: ptr(dec("25")), DiscountKind: ptr("percent")},
		},
		GlobalDiscountValue: ptr(dec("50")),
		GlobalDiscountKind:  ptr("FIXED"),
		Payments: []dto.PaymentRequest{
			{Method: "CASH", Amount: dec("1000")},
			{Method: "DEBIT_CARD", Amount: dec("1400")},
		},
	})
	require.NoError(t, err)
	assert.True(t, sale.GrossTotal.Equal(dec("3000")))
	assert.True(t, sale.LineDiscountTotal.Equal(dec("600")))
	assert.True(t, sale.GlobalDiscountAmount.Equal(dec("50")))
	assert.True(t, sale.TotalDiscount.Equal(dec("650")))
	assert.True(t, sale.NetTotal.Equal(sale.GrossTotal.Sub(sale.LineDiscountTotal).Sub(sale.GlobalDiscountAmount)))
	assert.True(t, sale.NetTotal.Equal(dec("2350")))
	assert.True(t, sale.Change.Equal(dec("50")))
	assert.Equal(t, 1, sale.Payments[0].Position)
	assert.Equal(t, 2, sale.Payments[1].Position)
}

func TestCreateSale_DescuentoTotalPermitido(t *testing.T) {
	f := newFixture(t, nil)
	f.open(t)
	p := f.product(t, "X", 10)

	sale, err := f.orch.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Lines:               []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 1}},
		GlobalDiscountValue: ptr(dec("100")),
		GlobalDiscountKind:  ptr("PERCENT"),
		Payments:            cash("1"),
	})
	require.NoError(t, err)
	assert.True(t, sale.NetTotal.IsZero())
	assert.True(t, sale.Change.Equal(dec("1")))
}

func TestCreateSale_SinCajaAbierta(t *testing.T) {
	f := newFixture(t, nil)
	p := f.product(t, "X", 10)

	_, err := f.orch.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Lines:    []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 1}},
		Payments: cash("1000"),
	})
	require.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Equal(t, cashregister.MsgNoOpen, domain.Message(err))
	assert.Equal(t, 10, f.stock(t, p.ID))
	assert.Zero(t, f.saleCount(t))
}

func TestCreateSale_ErroresNoDejanEstadoParcial(t *testing.T) {
	cases := []struct {
		name string
		req  func(a, b *entity.Product) dto.CreateSaleRequest
		kind error
	}{
		{
			name: "stock insuficiente en la segunda línea",
			req: func(a, b *entity.Product) dto.CreateSaleRequest {
				return dto.CreateSaleRequest{
					Lines:    []dto.SaleLineRequest{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 11}},
					Payments: cash("20000"),
				}
			},
			kind: domain.ErrInsufficientStock,
		},
		{
			name: "mismo producto en dos líneas supera el stock",
			req: func(a, _ *entity.Product) dto.CreateSaleRequest {
				return dto.CreateSaleRequest{
					Lines:    []dto.SaleLineRequest{{ProductID: a.ID, Quantity: 6}, {ProductID: a.ID, Quantity: 6}},
					Payments: cash("20000"),
				}
			},
			kind: domain.ErrInsufficientStock,
		},
		{
			name: "pago insuficiente",
			req: func(a, _ *entity.Product) dto.CreateSaleRequest {
				return dto.CreateSaleRequest{
					Lines:    []dto.SaleLineRequest{{ProductID: a.ID, Quantity: 2}},
					Payments: cash("1999.99"),
				}
			},
			kind: domain.ErrInsufficientPayment,
		},
		{
			name: "sin pagos",
			req: func(a, _ *entity.Product) dto.CreateSaleRequest {
				return dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{{ProductID: a.ID, Quantity: 1}}}
			},
			kind: domain.ErrNoPaymentMethod,
		},
		{
			name: "porcentaje fuera de rango",
			req: func(a, _ *entity.Product) dto.CreateSaleRequest {
				return dto.CreateSaleRequest{
					Lines:    []dto.SaleLineRequest{{ProductID: a.ID, Quantity: 1, DiscountValue: ptr(dec("101")), DiscountKind: ptr("PERCENT")}},
					Payments: cash("1000"),
				}
			},
			kind: domain.ErrInvalidDiscount,
		},
		{
			name: "descuento de línea mayor que el subtotal",
			req: func(a, _ *entity.Product) dto.CreateSaleRequest {
				return dto.CreateSaleRequest{
					Lines:    []dto.SaleLineRequest{{ProductID: a.ID, Quantity: 1, DiscountValue: ptr(dec("1000.01")), DiscountKind: ptr("FIXED")}},
					Payments: cash("1000"),
				}
			},
			kind: domain.ErrBusinessRule,
		},
		{
			name: "descuento global mayor que el neto de líneas",
			req: func(a, _ *entity.Product) dto.CreateSaleRequest {
				return dto.CreateSaleRequest{
					Lines:               []dto.SaleLineRequest{{ProductID: a.ID, Quantity: 1, DiscountValue: ptr(dec("500")), DiscountKind: ptr("FIXED")}},
					GlobalDiscountValue: ptr(dec("600")),
					GlobalDiscountKind:  ptr("FIXED"),
					Payments:            cash("1000"),
				}
			},
			kind: domain.ErrBusinessRule,
		},
		{
			name: "producto inexistente",
			req: func(_, _ *entity.Product) dto.CreateSaleRequest {
				return dto.CreateSaleRequest{
					Lines:    []dto.SaleLineRequest{{ProductID: "no-existe", Quantity: 1}},
					Payments: cash("1000"),
				}
			},
			kind: domain.ErrNotFound,
		},
		{
			name: "cantidad cero",
			req: func(a, _ *entity.Product) dto.CreateSaleRequest {
				return dto.CreateSaleRequest{
					Lines:    []dto.SaleLineRequest{{ProductID: a.ID, Quantity: 0}},
					Payments: cash("1000"),
				}
			},
			kind: domain.ErrInvalidInput,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.open(t)
			a := f.product(t, "A", 10)
			b := f.product(t, "B", 10)

			_, err := f.orch.CreateSale(context.Background(), cashier, tc.req(a, b))
			require.ErrorIs(t, err, tc.kind)
			assert.Equal(t, 10, f.stock(t, a.ID))
			assert.Equal(t, 10, f.stock(t, b.ID))
			assert.Zero(t, f.saleCount(t))
		})
	}
}

func TestCreateSale_DocumentoDuplicado(t *testing.T) {
	f := newFixture(t, nil)
	f.open(t)
	p := f.product(t, "X", 10)
	req := dto.CreateSaleRequest{
		Lines:          []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 1}},
		Payments:       cash("1000"),
		DocumentType:   ptr("BOLETA"),
		DocumentNumber: ptr("B-001"),
	}

	_, err := f.orch.CreateSale(context.Background(), cashier, req)
	require.NoError(t, err)

	_, err = f.orch.CreateSale(context.Background(), cashier, req)
	require.ErrorIs(t, err, domain.ErrExistsRegister)
	assert.Equal(t, 9, f.stock(t, p.ID))

	// Mismo número con otro tipo de documento es válido.
	req.DocumentType = ptr("FACTURA")
	_, err = f.orch.CreateSale(context.Background(), cashier, req)
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteSale_RestauraStockConCompensacionPosterior(t *testing.T) {
	// Reloj congelado: la compensación debe quedar igualmente después de la salida.
	frozen := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	f := newFixture(t, func() time.Time { return frozen })
	f.open(t)
	p := f.product(t, "X", 10)

	sale, err := f.orch.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Lines:    []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 2}},
		Payments: cash("2000"),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, f.stock(t, p.ID))

	require.NoError(t, f.orch.DeleteSale(context.Background(), cashier, sale.ID))
	assert.Equal(t, 10, f.stock(t, p.ID))

	movs, err := f.store.Repos().Movements.ListByReference(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	var exit, comp *entity.InventoryMovement
	for _, m := range movs {
		if m.Direction == entity.DirectionOUT {
			exit = m
		} else {
			comp = m
		}
	}
	require.NotNil(t, exit)
	require.NotNil(t, comp)
	assert.Equal(t, entity.ReasonSaleAdjustment, comp.Reason)
	assert.Equal(t, 2, comp.Quantity)
	assert.True(t, comp.Date.After(exit.Date))
	assert.Equal(t, 8, comp.StockBefore)
	assert.Equal(t, 10, comp.StockAfter)

	_, err = f.orch.GetSale(context.Background(), sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	audit, err := f.ledger.AuditStock(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent())
}

func TestDeleteSale_CajaCerrada(t *testing.T) {
	f := newFixture(t, nil)
	f.open(t)
	p := f.product(t, "X", 10)
	sale, err := f.orch.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Lines:    []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 1}},
		Payments: cash("1000"),
	})
	require.NoError(t, err)

	_, err = f.registers.Close(context.Background(), map[entity.PaymentMethod]decimal.Decimal{
		entity.PaymentCash: dec("1000"),
	}, cashier)
	require.NoError(t, err)

	err = f.orch.DeleteSale(context.Background(), cashier, sale.ID)
	require.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Equal(t, sales.MsgDeleteClosedRegister, domain.Message(err))
	assert.Equal(t, 9, f.stock(t, p.ID))
	assert.Equal(t, 1, f.saleCount(t))
}

func TestDeleteSale_Inexistente(t *testing.T) {
	f := newFixture(t, nil)
	f.open(t)
	err := f.orch.DeleteSale(context.Background(), cashier, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualizaciones puntuales
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateDocument(t *testing.T) {
	f := newFixture(t, nil)
	f.open(t)
	p := f.product(t, "X", 10)
	newSale := func() *entity.Sale {
		s, err := f.orch.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
			Lines:    []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 1}},
			Payments: cash("1000"),
		})
		require.NoError(t, err)
		return s
	}
	first, second := newSale(), newSale()

	updated, err := f.orch.UpdateDocument(context.Background(), first.ID, dto.UpdateDocumentRequest{
		DocumentType: "ticket", DocumentNumber: "T-10",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentTicket, *updated.DocumentType)
	assert.Equal(t, "T-10", *updated.DocumentNumber)

	// Reasignar el mismo documento a la misma venta no es colisión.
	_, err = f.orch.UpdateDocument(context.Background(), first.ID, dto.UpdateDocumentRequest{
		DocumentType: "TICKET", DocumentNumber: "T-10",
	})
	require.NoError(t, err)

	_, err = f.orch.UpdateDocument(context.Background(), second.ID, dto.UpdateDocumentRequest{
		DocumentType: "TICKET", DocumentNumber: "T-10",
	})
	assert.ErrorIs(t, err, domain.ErrExistsRegister)

	_, err = f.orch.UpdateDocument(context.Background(), second.ID, dto.UpdateDocumentRequest{
		DocumentType: "RECIBO", DocumentNumber: "1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateCustomer(t *testing.T) {
	f := newFixture(t, nil)
	f.open(t)
	p := f.product(t, "X", 10)
	customer := &entity.Customer{Name: "Cliente Uno", TaxID: "11.111.111-1"}
	require.NoError(t, f.store.Repos().Customers.Create(context.Background(), customer))

	sale, err := f.orch.CreateSale(context.Background(), cashier, dto.CreateSaleRequest{
		Lines:    []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 1}},
		Payments: cash("1000"),
	})
	require.NoError(t, err)
	assert.Nil(t, sale.CustomerID)

	updated, err := f.orch.UpdateCustomer(context.Background(), sale.ID, &customer.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.CustomerID)
	assert.Equal(t, customer.ID, *updated.CustomerID)
	assert.True(t, updated.NetTotal.Equal(sale.NetTotal))

	_, err = f.orch.UpdateCustomer(context.Background(), sale.ID, ptr("no-existe"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cleared, err := f.orch.UpdateCustomer(context.Background(), sale.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.CustomerID)
}
