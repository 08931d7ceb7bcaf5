package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/domain"
)

// errorKinds traduce cada tipo de error de dominio a status HTTP y código.
var errorKinds = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInsufficientPayment, fiber.StatusUnprocessableEntity, "INSUFFICIENT_PAYMENT"},
	{domain.ErrNoPaymentMethod, fiber.StatusUnprocessableEntity, "NO_PAYMENT_METHOD"},
	{domain.ErrInvalidDiscount, fiber.StatusUnprocessableEntity, "INVALID_DISCOUNT"},
	{domain.ErrBusinessRule, fiber.StatusUnprocessableEntity, "BUSINESS_RULE"},
	{domain.ErrExistsRegister, fiber.StatusConflict, "ALREADY_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// errorResponse escribe el error con el status de su tipo. Errores sin tipo -> 500.
func errorResponse(c *fiber.Ctx, err error) error {
	for _, k := range errorKinds {
		if errors.Is(err, k.kind) {
			return c.Status(k.status).JSON(dto.ErrorResponse{Code: k.code, Message: domain.Message(err)})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return badRequest(c, "INVALID_BODY", "cuerpo inválido")
}
