package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-ventas/internal/application/analytics"
)

// ReportHandler dashboard y exportaciones de ventas (solo lectura).
type ReportHandler struct {
	dashboard *appanalytics.DashboardUseCase
	export    *appanalytics.ExportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(dashboard *appanalytics.DashboardUseCase, export *appanalytics.ExportUseCase) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, export: export}
}

// Dashboard godoc
// @Summary      Resumen de ventas del día y del mes
// @Description  Neto vendido, cantidad de ventas, ticket promedio, pagos por medio y top 5 de productos.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(summary)
}

// ExportSales godoc
// @Summary      Exportar ventas (xlsx o csv)
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        from  query  string  false  "Desde (YYYY-MM-DD). Por defecto, primer día del mes"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD). Por defecto, hoy"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/sales.xlsx [get]
// @Router       /api/reports/sales.csv [get]
func (h *ReportHandler) ExportSales(format string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, ok := queryDate(c, "from", false)
		if !ok {
			return badRequest(c, "VALIDATION", "from inválido")
		}
		to, ok := queryDate(c, "to", true)
		if !ok {
			return badRequest(c, "VALIDATION", "to inválido")
		}
		now := time.Now()
		if from == nil {
			first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			from = &first
		}
		if to == nil {
			to = &now
		}

		file, err := h.export.ExportSales(c.UserContext(), format, *from, *to)
		if err != nil {
			return errorResponse(c, err)
		}
		c.Set(fiber.HeaderContentType, file.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
		return c.Send(file.Content)
	}
}
