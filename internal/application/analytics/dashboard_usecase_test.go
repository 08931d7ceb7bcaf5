package analytics_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ventas/internal/application/analytics"
	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 2, 14, 15, 30, 0, 0, time.UTC)

type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	locked map[string]bool
	sets   int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, locked: map[string]bool{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Lock(_ context.Context, key string, _ time.Duration) (func(context.Context), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked[key] {
		return nil, analytics.ErrCacheLocked
	}
	c.locked[key] = true
	return func(context.Context) {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.locked, key)
	}, nil
}

func seed(t *testing.T, store *memory.Store, date time.Time, net string, payments ...entity.Payment) {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{SKU: "SKU-" + net, Name: "Producto " + net, Active: true}
	require.NoError(t, store.Repos().Products.Create(ctx, p))
	amount := decimal.RequireFromString(net)
	require.NoError(t, store.Repos().Sales.Create(ctx, &entity.Sale{
		Date:     date,
		Tier:     entity.TierRetail,
		NetTotal: amount,
		State:    entity.SalePersisted,
		Lines: []entity.SaleLine{{
			Position: 1, ProductID: p.ID, ProductName: p.Name, Quantity: 1,
			UnitPrice: amount, GrossSubtotal: amount, NetSubtotal: amount,
		}},
		Payments: payments,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSummary_AgregaHoyYMes(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, fixedNow.Add(-time.Hour), "1000", entity.Payment{Method: entity.PaymentCash, Amount: decimal.NewFromInt(1000)})
	seed(t, store, fixedNow.Add(-2*time.Hour), "500", entity.Payment{Method: entity.PaymentDebitCard, Amount: decimal.NewFromInt(500)})
	seed(t, store, fixedNow.AddDate(0, 0, -3), "2000", entity.Payment{Method: entity.PaymentCash, Amount: decimal.NewFromInt(2000)})
	seed(t, store, fixedNow.AddDate(0, -1, 0), "9999", entity.Payment{Method: entity.PaymentCash, Amount: decimal.NewFromInt(9999)})

	uc := analytics.NewDashboardUseCase(store.Analytics(), analytics.WithClock(func() time.Time { return fixedNow }))
	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, got.TodaySales.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 2, got.TodaySalesCount)
	assert.True(t, got.TodayTicket.Equal(decimal.NewFromInt(750)))
	assert.True(t, got.MonthlySales.Equal(decimal.NewFromInt(3500)))
	assert.Equal(t, 3, got.MonthlySalesCount)
	assert.True(t, got.TodayPayments["CASH"].Equal(decimal.NewFromInt(1000)))
	assert.True(t, got.TodayPayments["WALLET"].IsZero())
	require.Len(t, got.TopProducts, 3)
	assert.Equal(t, "SKU-2000", got.TopProducts[0].SKU)
	assert.Equal(t, "Febrero 2026", got.DateLabel)
}

func TestGetSummary_UsaCache(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, fixedNow.Add(-time.Hour), "1000", entity.Payment{Method: entity.PaymentCash, Amount: decimal.NewFromInt(1000)})
	cache := newMemCache()
	uc := analytics.NewDashboardUseCase(store.Analytics(),
		analytics.WithClock(func() time.Time { return fixedNow }),
		analytics.WithCache(cache, time.Minute),
	)

	first, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Una venta nueva no se ve hasta que expire la entrada.
	seed(t, store, fixedNow.Add(-time.Minute), "300", entity.Payment{Method: entity.PaymentCash, Amount: decimal.NewFromInt(300)})
	second, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, second.TodaySales.Equal(first.TodaySales))
	assert.Equal(t, 1, cache.sets)

	var stored dto.DashboardSummaryDTO
	require.NoError(t, json.Unmarshal(cache.data["pos:dashboard:2026-02-14"], &stored))
	assert.Equal(t, 1, stored.TodaySalesCount)
}

func TestGetSummary_LockTomadoCalculaSinGuardar(t *testing.T) {
	store := memory.NewStore()
	cache := newMemCache()
	cache.locked["pos:dashboard:2026-02-14:lock"] = true
	uc := analytics.NewDashboardUseCase(store.Analytics(),
		analytics.WithClock(func() time.Time { return fixedNow }),
		analytics.WithCache(cache, time.Minute),
	)

	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, got.TodaySales.IsZero())
	assert.Zero(t, cache.sets)
}
