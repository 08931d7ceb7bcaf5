// seed crea el primer usuario admin y un catálogo de productos de demostración con su stock
// inicial (movimientos PRODUCTION del libro de inventario). Es idempotente: lo ya existente se omite.
//
// Uso: go run ./cmd/seed [email] [password]
// Por defecto: admin@pos.local y la contraseña de SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ventas/internal/application/auth"
	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/bootstrap"
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ventas/pkg/config"
	"github.com/jhoicas/pos-ventas/pkg/logger"
)

var demoProducts = []dto.CreateProductRequest{
	{SKU: "CAFE-250", Barcode: "7801234000011", Name: "Café molido 250 g", RetailPrice: decimal.NewFromInt(4990), WholesalePrice: decimal.NewFromInt(4200), InitialStock: 40},
	{SKU: "TE-100", Barcode: "7801234000028", Name: "Té negro 100 bolsas", RetailPrice: decimal.NewFromInt(3290), WholesalePrice: decimal.NewFromInt(2800), InitialStock: 60},
	{SKU: "AZUCAR-1K", Barcode: "7801234000035", Name: "Azúcar 1 kg", RetailPrice: decimal.NewFromInt(1390), WholesalePrice: decimal.NewFromInt(1150), InitialStock: 120},
	{SKU: "GALLETA-CH", Barcode: "7801234000042", Name: "Galletas de chocolate", RetailPrice: decimal.NewFromInt(990), WholesalePrice: decimal.NewFromInt(800), InitialStock: 200},
	{SKU: "LECHE-1L", Barcode: "7801234000059", Name: "Leche entera 1 L", RetailPrice: decimal.NewFromInt(1190), WholesalePrice: decimal.NewFromInt(990), InitialStock: 90},
}

func main() {
	email := "admin@pos.local"
	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if len(os.Args) > 2 {
		password = os.Args[2]
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "Falta la contraseña: pásala como argumento o en SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.Repos(pool)
	deps := bootstrap.Wire(bootstrap.Store{
		Tx:        postgres.NewTxRunner(pool),
		Repos:     repos,
		Analytics: postgres.NewAnalyticsRepository(pool),
	}, bootstrap.Options{
		StoreName: cfg.App.StoreName,
		JWT:       auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		Log:       log.Component("seed"),
	})

	adminID, err := ensureAdmin(ctx, deps.Auth, repos.Users, email, password)
	if err != nil {
		log.Fatal().Err(err).Msg("usuario admin")
	}
	log.Info().Str("email", email).Str("user_id", adminID).Msg("admin listo")

	created := 0
	for _, p := range demoProducts {
		out, err := deps.Products.Create(ctx, adminID, p)
		if errors.Is(err, domain.ErrDuplicate) {
			log.Info().Str("sku", p.SKU).Msg("producto ya existe, se omite")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("sku", p.SKU).Msg("crear producto")
		}
		created++
		log.Info().Str("sku", out.SKU).Int("stock", out.Stock).Msg("producto creado")
	}
	log.Info().Int("creados", created).Int("total", len(demoProducts)).Msg("seed terminado")
}

// ensureAdmin crea el admin o devuelve el ID del existente.
func ensureAdmin(ctx context.Context, uc *auth.AuthUseCase, users repository.UserRepository, email, password string) (string, error) {
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			return "", fmt.Errorf("%s existe con rol %s", email, existing.Role)
		}
		return existing.ID, nil
	}
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
