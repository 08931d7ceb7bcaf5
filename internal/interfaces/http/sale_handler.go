package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/application/sales"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

// SaleHandler ventas del punto de venta (protegido).
type SaleHandler struct {
	orch    *sales.Orchestrator
	receipt *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(orch *sales.Orchestrator, receipt *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{orch: orch, receipt: receipt}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida stock, calcula precios y descuentos, procesa pagos y descuenta inventario en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas, pagos, descuento global y documento"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	sale, err := h.orch.CreateSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleFromEntity(sale))
}

// GetByID godoc
// @Summary      Obtener venta con líneas y pagos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.orch.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.SaleFromEntity(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        cash_register_id  query  string  false  "Caja"
// @Param        customer_id       query  string  false  "Cliente"
// @Param        from              query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to                query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit             query  int     false  "Límite"  default(20)
// @Param        offset            query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, ok := queryDate(c, "from", false)
	if !ok {
		return badRequest(c, "VALIDATION", "from inválido")
	}
	to, ok := queryDate(c, "to", true)
	if !ok {
		return badRequest(c, "VALIDATION", "to inválido")
	}
	limit, offset := pageParams(c)
	list, err := h.orch.ListSales(c.UserContext(), repository.SaleFilter{
		CashRegisterID: c.Query("cash_register_id"),
		CustomerID:     c.Query("customer_id"),
		From:           from,
		To:             to,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	out := dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, dto.SaleFromEntity(s))
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Solo ventas de la caja abierta. Devuelve el stock con movimientos SALE_ADJUSTMENT.
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.orch.DeleteSale(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateDocument godoc
// @Summary      Asignar documento a la venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateDocumentRequest  true  "Tipo y número"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/document [patch]
func (h *SaleHandler) UpdateDocument(c *fiber.Ctx) error {
	var in dto.UpdateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	sale, err := h.orch.UpdateDocument(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.SaleFromEntity(sale))
}

// UpdateCustomer godoc
// @Summary      Reasignar cliente de la venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleCustomerRequest  true  "customer_id (null para quitar)"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/customer [patch]
func (h *SaleHandler) UpdateCustomer(c *fiber.Ctx) error {
	var in dto.UpdateSaleCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	sale, err := h.orch.UpdateCustomer(c.UserContext(), c.Params("id"), in.CustomerID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.SaleFromEntity(sale))
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt.pdf [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.receipt.DownloadReceiptPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
