// Package analytics contiene los casos de uso de reportes: dashboard de ventas y exportaciones.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/pricing"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// DashboardUseCase genera el resumen de ventas del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). Opcionalmente cachea
// el resultado; la caché nunca hace fallar el caso de uso.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	cache         Cache
	ttl           time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

// DashboardOption configura el DashboardUseCase.
type DashboardOption func(*DashboardUseCase)

// WithCache habilita la caché del resumen con el TTL indicado.
func WithCache(c Cache, ttl time.Duration) DashboardOption {
	return func(uc *DashboardUseCase) { uc.cache, uc.ttl = c, ttl }
}

// WithLogger asigna el logger.
func WithLogger(l zerolog.Logger) DashboardOption {
	return func(uc *DashboardUseCase) { uc.log = l }
}

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) DashboardOption {
	return func(uc *DashboardUseCase) { uc.now = now }
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, opts ...DashboardOption) *DashboardUseCase {
	uc := &DashboardUseCase{analyticsRepo: analyticsRepo, log: zerolog.Nop(), now: time.Now}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. SalesTotals(hoy)        → TodaySales + TodaySalesCount
//  2. SalesTotals(mes)        → MonthlySales + MonthlySalesCount
//  3. PaymentsByMethod(hoy)   → TodayPayments
//  4. TopProducts(mes, top 5) → TopProducts
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	key := "pos:dashboard:" + now.Format("2006-01-02")

	if uc.cache == nil {
		return uc.compute(ctx, now)
	}
	if cached := uc.fromCache(ctx, key); cached != nil {
		return cached, nil
	}
	release, err := uc.cache.Lock(ctx, key+":lock", 30*time.Second)
	if err != nil {
		if !errors.Is(err, ErrCacheLocked) {
			uc.log.Warn().Err(err).Str("key", key).Msg("dashboard: no se pudo tomar el lock de caché")
		}
		return uc.compute(ctx, now)
	}
	defer release(ctx)

	summary, err := uc.compute(ctx, now)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(summary); err == nil {
		if err := uc.cache.Set(ctx, key, raw, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("dashboard: no se pudo guardar en caché")
		}
	}
	return summary, nil
}

func (uc *DashboardUseCase) fromCache(ctx context.Context, key string) *dto.DashboardSummaryDTO {
	raw, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("dashboard: lectura de caché fallida")
		return nil
	}
	if raw == nil {
		return nil
	}
	var out dto.DashboardSummaryDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

func (uc *DashboardUseCase) compute(ctx context.Context, now time.Time) (*dto.DashboardSummaryDTO, error) {
	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type totalsResult struct {
		net   decimal.Decimal
		count int
		err   error
	}
	type paymentsResult struct {
		totals map[entity.PaymentMethod]decimal.Decimal
		err    error
	}
	type topResult struct {
		items []repository.ProductSales
		err   error
	}

	todayCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	payCh := make(chan paymentsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		net, count, err := uc.analyticsRepo.SalesTotals(ctx, todayStart, todayEnd)
		todayCh <- totalsResult{net, count, err}
	}()
	go func() {
		net, count, err := uc.analyticsRepo.SalesTotals(ctx, monthStart, monthEnd)
		monthCh <- totalsResult{net, count, err}
	}()
	go func() {
		totals, err := uc.analyticsRepo.PaymentsByMethod(ctx, todayStart, todayEnd)
		payCh <- paymentsResult{totals, err}
	}()
	go func() {
		items, err := uc.analyticsRepo.TopProducts(ctx, monthStart, monthEnd, dashboardTopProducts)
		topCh <- topResult{items, err}
	}()

	today := <-todayCh
	month := <-monthCh
	pay := <-payCh
	top := <-topCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if pay.err != nil {
		return nil, fmt.Errorf("dashboard: medios de pago: %w", pay.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}

	ticket := decimal.Zero
	if today.count > 0 {
		ticket = pricing.RoundMoney(today.net.Div(decimal.NewFromInt(int64(today.count))))
	}
	payments := make(map[string]decimal.Decimal, len(entity.PaymentMethods))
	for _, pm := range entity.PaymentMethods {
		payments[string(pm)] = pricing.RoundMoney(pay.totals[pm])
	}
	products := make([]dto.TopProductDTO, 0, len(top.items))
	for _, p := range top.items {
		products = append(products, dto.TopProductDTO{
			ProductID:    p.ProductID,
			SKU:          p.SKU,
			ProductName:  p.Name,
			QuantitySold: p.Units,
			TotalRevenue: pricing.RoundMoney(p.Revenue),
		})
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:        pricing.RoundMoney(today.net),
		TodaySalesCount:   today.count,
		TodayTicket:       ticket,
		MonthlySales:      pricing.RoundMoney(month.net),
		MonthlySalesCount: month.count,
		TodayPayments:     payments,
		TopProducts:       products,
		DateLabel:         monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
