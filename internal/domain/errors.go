package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas salvo decimal).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInsufficientPayment = errors.New("pago insuficiente")
	ErrInvalidDiscount     = errors.New("descuento inválido")
	ErrBusinessRule        = errors.New("regla de negocio incumplida")
	ErrExistsRegister      = errors.New("el registro ya existe")
	ErrNoPaymentMethod     = errors.New("debe indicar al menos un medio de pago")
)

// Error es un error de dominio con mensaje para el usuario. Kind es uno de los
// sentinelas de arriba; errors.Is(err, domain.ErrBusinessRule) sigue funcionando.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Newf construye un *Error del tipo indicado con mensaje formateado.
func Newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// BusinessRule regla de negocio incumplida con el mensaje dado.
func BusinessRule(msg string) error {
	return &Error{Kind: ErrBusinessRule, Message: msg}
}

// NotFound recurso inexistente con mensaje específico.
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// InvalidInput entrada inválida con mensaje específico.
func InvalidInput(msg string) error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

// InsufficientStock incluye el producto, lo solicitado y lo disponible.
func InsufficientStock(product string, requested, available int) error {
	return Newf(ErrInsufficientStock,
		"Stock insuficiente para %s: solicitado %d, disponible %d.", product, requested, available)
}

// InsufficientPayment incluye el monto pagado y el requerido.
func InsufficientPayment(paid, required decimal.Decimal) error {
	return Newf(ErrInsufficientPayment,
		"El pago (%s) es menor que el total a pagar (%s).", paid.StringFixed(2), required.StringFixed(2))
}

// Message devuelve el mensaje para el usuario: el de *Error si existe, si no err.Error().
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}
