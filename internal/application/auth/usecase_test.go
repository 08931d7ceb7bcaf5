package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ventas/internal/application/auth"
	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ventas/pkg/jwt"
)

func newAuth() *auth.AuthUseCase {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Repos().Users, auth.JWTConfig{Secret: "test-secret", ExpMinutes: 10, Issuer: "pos-ventas"})
}

func TestRegisterUser_RolPorDefectoYEmailNormalizado(t *testing.T) {
	uc := newAuth()
	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: " Caja@Pos.Test ", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, "caja@pos.test", u.Email)
	assert.Equal(t, entity.RoleVendedor, u.Role)
	assert.Equal(t, entity.UserStatusActive, u.Status)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc := newAuth()
	in := dto.RegisterRequest{Email: "a@pos.test", Password: "12345678", Role: entity.RoleAdmin}
	_, err := uc.RegisterUser(context.Background(), in)
	require.NoError(t, err)
	_, err = uc.RegisterUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	uc := newAuth()
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@pos.test", Password: "12345678", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "b@pos.test", Password: "clave-segura", Role: entity.RoleBodeguero})
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "b@pos.test", Password: "clave-segura"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse("test-secret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, entity.RoleBodeguero, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "b@pos.test", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@pos.test", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
