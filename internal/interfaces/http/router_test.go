package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ventas/internal/application/auth"
	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/bootstrap"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-ventas/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	e2eSecret   = "e2e-secret-key"
	e2ePassword = "clave-segura-123"
)

type e2eApp struct {
	app *fiber.App
	uc  *auth.AuthUseCase
}

func newE2EApp(t *testing.T) *e2eApp {
	t.Helper()
	store := memory.NewStore()
	deps := bootstrap.Wire(bootstrap.Store{
		Tx:        memory.NewTxRunner(store),
		Repos:     store.Repos(),
		Analytics: store.Analytics(),
	}, bootstrap.Options{
		StoreName: "Tienda Test",
		JWT:       auth.JWTConfig{Secret: e2eSecret, ExpMinutes: 30, Issuer: "pos-ventas-test"},
		Log:       zerolog.Nop(),
	})
	return &e2eApp{app: apphttp.NewApp("test", deps.Router, nil), uc: deps.Auth}
}

// login crea el usuario con el rol indicado y devuelve el header Authorization.
func (a *e2eApp) login(t *testing.T, email, role string) string {
	t.Helper()
	_, err := a.uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: email, Password: e2ePassword, Name: role, Role: role,
	})
	require.NoError(t, err)

	resp := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: e2ePassword})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decodeBody(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return "Bearer " + out.Token
}

func (a *e2eApp) do(t *testing.T, method, path, authz string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decodeBody(t, resp, &e)
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoVenta_AbrirVenderConsultarEliminar(t *testing.T) {
	a := newE2EApp(t)
	admin := a.login(t, "admin@tienda.cl", "admin")

	// Caja
	resp := a.do(t, http.MethodPost, "/api/cash-registers/open", admin,
		dto.OpenRegisterRequest{OpeningCash: decimal.NewFromInt(5000)})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var reg dto.CashRegisterResponse
	decodeBody(t, resp, &reg)
	assert.Equal(t, "OPEN", reg.State)

	// Producto con stock inicial
	resp = a.do(t, http.MethodPost, "/api/products/", admin, dto.CreateProductRequest{
		SKU: "CAFE-250", Name: "Café 250g",
		RetailPrice: decimal.NewFromInt(1000), WholesalePrice: decimal.NewFromInt(800),
		InitialStock: 10,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var prod dto.ProductResponse
	decodeBody(t, resp, &prod)
	assert.Equal(t, 10, prod.Stock)

	// Venta: 3 x 1000 al detalle, paga 5000 en efectivo
	resp = a.do(t, http.MethodPost, "/api/sales/", admin, dto.CreateSaleRequest{
		Lines:    []dto.SaleLineRequest{{ProductID: prod.ID, Quantity: 3}},
		Payments: []dto.PaymentRequest{{Method: "CASH", Amount: decimal.NewFromInt(5000)}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var sale dto.SaleResponse
	decodeBody(t, resp, &sale)
	assert.True(t, decimal.NewFromInt(3000).Equal(sale.NetTotal), "neto %s", sale.NetTotal)
	assert.True(t, decimal.NewFromInt(2000).Equal(sale.Change), "vuelto %s", sale.Change)
	assert.Equal(t, reg.ID, sale.CashRegisterID)

	// Stock descontado
	resp = a.do(t, http.MethodGet, "/api/products/"+prod.ID, admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &prod)
	assert.Equal(t, 7, prod.Stock)

	// Consulta de la venta
	resp = a.do(t, http.MethodGet, "/api/sales/"+sale.ID, admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got dto.SaleResponse
	decodeBody(t, resp, &got)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Café 250g", got.Lines[0].ProductName)

	// Boleta en PDF
	resp = a.do(t, http.MethodGet, "/api/sales/"+sale.ID+"/receipt.pdf", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	// Dashboard
	resp = a.do(t, http.MethodGet, "/api/reports/dashboard", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var summary dto.DashboardSummaryDTO
	decodeBody(t, resp, &summary)
	assert.Equal(t, 1, summary.TodaySalesCount)
	assert.True(t, decimal.NewFromInt(3000).Equal(summary.TodaySales))

	// Exportación CSV
	resp = a.do(t, http.MethodGet, "/api/reports/sales.csv", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	csvBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(csvBytes), sale.ID)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	// Resumen de la caja
	resp = a.do(t, http.MethodGet, "/api/cash-registers/"+reg.ID+"/summary", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sum dto.RegisterSummaryResponse
	decodeBody(t, resp, &sum)
	assert.True(t, decimal.NewFromInt(3000).Equal(sum.Totals["CASH"]), "CASH %s", sum.Totals["CASH"])

	// Eliminación: devuelve el stock
	resp = a.do(t, http.MethodDelete, "/api/sales/"+sale.ID, admin, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/products/"+prod.ID, admin, nil)
	decodeBody(t, resp, &prod)
	assert.Equal(t, 10, prod.Stock)

	resp = a.do(t, http.MethodGet, "/api/sales/"+sale.ID, admin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de negocio y autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestVenta_SinCajaAbierta_422(t *testing.T) {
	a := newE2EApp(t)
	admin := a.login(t, "admin@tienda.cl", "admin")

	resp := a.do(t, http.MethodPost, "/api/products/", admin, dto.CreateProductRequest{
		SKU: "TE-01", Name: "Té", RetailPrice: decimal.NewFromInt(500), WholesalePrice: decimal.NewFromInt(400), InitialStock: 2,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var prod dto.ProductResponse
	decodeBody(t, resp, &prod)

	resp = a.do(t, http.MethodPost, "/api/sales/", admin, dto.CreateSaleRequest{
		Lines:    []dto.SaleLineRequest{{ProductID: prod.ID, Quantity: 1}},
		Payments: []dto.PaymentRequest{{Method: "CASH", Amount: decimal.NewFromInt(500)}},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "BUSINESS_RULE", errorCode(t, resp))
}

func TestVenta_StockInsuficiente_409(t *testing.T) {
	a := newE2EApp(t)
	admin := a.login(t, "admin@tienda.cl", "admin")

	resp := a.do(t, http.MethodPost, "/api/cash-registers/open", admin, dto.OpenRegisterRequest{OpeningCash: decimal.Zero})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = a.do(t, http.MethodPost, "/api/products/", admin, dto.CreateProductRequest{
		SKU: "TE-01", Name: "Té", RetailPrice: decimal.NewFromInt(500), WholesalePrice: decimal.NewFromInt(400), InitialStock: 2,
	})
	var prod dto.ProductResponse
	decodeBody(t, resp, &prod)

	resp = a.do(t, http.MethodPost, "/api/sales/", admin, dto.CreateSaleRequest{
		Lines:    []dto.SaleLineRequest{{ProductID: prod.ID, Quantity: 3}},
		Payments: []dto.PaymentRequest{{Method: "CASH", Amount: decimal.NewFromInt(1500)}},
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))
}

func TestRutas_SinToken_401(t *testing.T) {
	a := newE2EApp(t)
	resp := a.do(t, http.MethodGet, "/api/products/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRutas_RolIncorrecto_403(t *testing.T) {
	a := newE2EApp(t)
	bodega := a.login(t, "bodega@tienda.cl", "bodeguero")

	resp := a.do(t, http.MethodPost, "/api/cash-registers/open", bodega, dto.OpenRegisterRequest{})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/reports/dashboard", bodega, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestEliminarVenta_VendedorNoPuede_403(t *testing.T) {
	a := newE2EApp(t)
	vendedor := a.login(t, "vende@tienda.cl", "vendedor")

	resp := a.do(t, http.MethodDelete, "/api/sales/00000000-0000-0000-0000-000000000099", vendedor, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLogin_CredencialesInvalidas_401(t *testing.T) {
	a := newE2EApp(t)
	a.login(t, "admin@tienda.cl", "admin")

	resp := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@tienda.cl", Password: "otra-clave"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	a := newE2EApp(t)
	resp := a.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), `"ok"`))
}
