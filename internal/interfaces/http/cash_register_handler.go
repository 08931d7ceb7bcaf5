package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ventas/internal/application/cashregister"
	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
)

// CashRegisterHandler apertura, cierre y consulta de cajas (protegido).
type CashRegisterHandler struct {
	manager *cashregister.Manager
}

// NewCashRegisterHandler construye el handler.
func NewCashRegisterHandler(manager *cashregister.Manager) *CashRegisterHandler {
	return &CashRegisterHandler{manager: manager}
}

// Open godoc
// @Summary      Abrir caja
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenRegisterRequest  true  "Fondo inicial"
// @Success      201   {object}  dto.CashRegisterResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/cash-registers/open [post]
func (h *CashRegisterHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	reg, err := h.manager.Open(c.UserContext(), in.OpeningCash, GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CashRegisterFromEntity(reg))
}

// Close godoc
// @Summary      Cerrar la caja abierta
// @Description  Recibe lo contado por medio de pago (CASH obligatorio) y devuelve esperado y diferencia.
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseRegisterRequest  true  "Montos contados"
// @Success      200   {object}  dto.CashRegisterResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/cash-registers/close [post]
func (h *CashRegisterHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	counted := make(map[entity.PaymentMethod]decimal.Decimal, len(in.CountedTotals))
	for k, v := range in.CountedTotals {
		counted[entity.PaymentMethod(strings.ToUpper(k))] = v
	}
	reg, err := h.manager.Close(c.UserContext(), counted, GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.CashRegisterFromEntity(reg))
}

// Current godoc
// @Summary      Caja abierta actual
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashRegisterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-registers/current [get]
func (h *CashRegisterHandler) Current(c *fiber.Ctx) error {
	reg, err := h.manager.CurrentOpen(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.CashRegisterFromEntity(reg))
}

// GetByID godoc
// @Summary      Obtener caja
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.CashRegisterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-registers/{id} [get]
func (h *CashRegisterHandler) GetByID(c *fiber.Ctx) error {
	reg, err := h.manager.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.CashRegisterFromEntity(reg))
}

// List godoc
// @Summary      Listar cajas
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}   dto.CashRegisterResponse
// @Router       /api/cash-registers [get]
func (h *CashRegisterHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.manager.List(c.UserContext(), limit, offset)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.CashRegisterResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.CashRegisterFromEntity(r))
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales por medio de pago de una caja
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.RegisterSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-registers/{id}/summary [get]
func (h *CashRegisterHandler) Summary(c *fiber.Ctx) error {
	id := c.Params("id")
	totals, err := h.manager.Summarize(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.RegisterSummaryResponse{CashRegisterID: id, Totals: dto.MethodTotals(totals)})
}
