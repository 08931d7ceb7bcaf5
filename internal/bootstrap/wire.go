// Package bootstrap arma los casos de uso y las dependencias del router sobre un almacén
// (PostgreSQL o memoria).
package bootstrap

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/pos-ventas/internal/application/analytics"
	"github.com/jhoicas/pos-ventas/internal/application/auth"
	"github.com/jhoicas/pos-ventas/internal/application/cashregister"
	"github.com/jhoicas/pos-ventas/internal/application/inventory"
	"github.com/jhoicas/pos-ventas/internal/application/ports"
	"github.com/jhoicas/pos-ventas/internal/application/sales"
	"github.com/jhoicas/pos-ventas/internal/application/usecase"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/export"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/pos-ventas/internal/interfaces/http"
)

// TxRunner transacción con repositorios atados (postgres.TxRunner o memory.TxRunner).
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// Store persistencia completa: repositorios fuera de tx, runner y lecturas de reportes.
type Store struct {
	Tx        TxRunner
	Repos     repository.TxRepos
	Analytics repository.AnalyticsRepository
}

// Options configuración transversal.
type Options struct {
	StoreName string
	JWT       auth.JWTConfig
	Log       zerolog.Logger
	Metrics   ports.MetricsRecorder
	Cache     appanalytics.Cache // nil = sin caché
	CacheTTL  time.Duration
	Now       func() time.Time // nil = time.Now
}

// Deps casos de uso construidos; Router es lo que necesita la capa HTTP.
type Deps struct {
	Ledger       *inventory.Ledger
	Registers    *cashregister.Manager
	Orchestrator *sales.Orchestrator
	Products     *usecase.ProductUseCase
	Auth         *auth.AuthUseCase
	Router       httpRouter.RouterDeps
}

// Wire construye todos los casos de uso sobre store.
func Wire(store Store, opts Options) *Deps {
	if opts.Metrics == nil {
		opts.Metrics = ports.NopMetrics{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	component := func(name string) zerolog.Logger {
		return opts.Log.With().Str("component", name).Logger()
	}
	r := store.Repos

	ledger := inventory.NewLedger(store.Tx, r.Products, r.Movements,
		inventory.WithLogger(component("inventory")),
		inventory.WithMetrics(opts.Metrics),
		inventory.WithClock(opts.Now),
	)
	registers := cashregister.NewManager(store.Tx, r.Registers,
		cashregister.WithLogger(component("cashregister")),
		cashregister.WithMetrics(opts.Metrics),
		cashregister.WithClock(opts.Now),
	)
	orch := sales.NewOrchestrator(store.Tx, r.Sales, ledger, registers,
		sales.WithLogger(component("sales")),
		sales.WithMetrics(opts.Metrics),
		sales.WithClock(opts.Now),
	)
	receipts := sales.NewReceiptUseCase(opts.StoreName, r.Sales, r.Customers, r.Users, pdf.NewReceiptPDFGenerator())

	dashOpts := []appanalytics.DashboardOption{
		appanalytics.WithLogger(component("dashboard")),
		appanalytics.WithClock(opts.Now),
	}
	if opts.Cache != nil {
		dashOpts = append(dashOpts, appanalytics.WithCache(opts.Cache, opts.CacheTTL))
	}
	dashboard := appanalytics.NewDashboardUseCase(store.Analytics, dashOpts...)
	exporter := appanalytics.NewExportUseCase(r.Sales, map[string]appanalytics.SalesExporter{
		"xlsx": export.NewXLSXExporter(),
		"csv":  export.NewCSVExporter(),
	})

	products := usecase.NewProductUseCase(store.Tx, r.Products, ledger)
	authUC := auth.NewAuthUseCase(r.Users, opts.JWT)

	return &Deps{
		Ledger:       ledger,
		Registers:    registers,
		Orchestrator: orch,
		Products:     products,
		Auth:         authUC,
		Router: httpRouter.RouterDeps{
			AuthUC:      authUC,
			ProductUC:   products,
			CustomerUC:  usecase.NewCustomerUseCase(r.Customers),
			Ledger:      ledger,
			Registers:   registers,
			Sales:       orch,
			Receipts:    receipts,
			DashboardUC: dashboard,
			ExportUC:    exporter,
			JWTSecret:   opts.JWT.Secret,
		},
	}
}
