package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	responder
	uc     *inventory.LedgerUseCase
	report *inventory.ReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, report *inventory.ReportUseCase, flash *Flasher) *InventoryHandler {
	return &InventoryHandler{responder: responder{flash: flash}, uc: uc, report: report}
}

// History godoc
// @Summary      Historial de movimientos
// @Description  Movimientos en orden de registro con saldo acumulado, totales y verificación contra la cantidad cacheada.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.PageResponse{data=dto.HistoryResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id}/movements [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "/products")
	}
	return h.page(c, out)
}

// NewForm godoc
// @Summary      Formulario de movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.PageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id}/movements/new [get]
func (h *InventoryHandler) NewForm(c *fiber.Ctx) error {
	id := c.Params("id")
	product, _, err := h.uc.Snapshot(c.Context(), id)
	if err != nil {
		return h.fail(c, err, "/products")
	}
	return h.page(c, fiber.Map{
		"form": dto.FormContext{
			Action: "/products/" + id + "/movements",
			Method: fiber.MethodPost,
			Fields: []string{"magnitude", "direction"},
		},
		"product_id": product.ID,
		"name":       product.Name,
		"quantity":   product.Quantity,
		"directions": []string{"in", "out"},
	})
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  magnitude entero positivo; direction in|out. Una salida mayor que el stock se rechaza sin cambios.
// @Tags         inventory
// @Security     Bearer
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.RegisterMovementRequest  true  "magnitude, direction"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /products/{id}/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.Context(), GetUserID(c), id, in)
	if err != nil {
		var ise *domain.InsufficientStockError
		if errors.As(err, &ise) {
			log.Warn().
				Str("product_id", id).
				Str("user_id", GetUserID(c)).
				Int64("requested", ise.Requested).
				Int64("available", ise.Available).
				Msg("movimiento rechazado: stock insuficiente")
		}
		return h.fail(c, err, "/products/"+id+"/movements/new")
	}
	msg := "movimiento registrado, cantidad actual " + strconv.FormatInt(out.Quantity, 10)
	return h.ok(c, fiber.StatusCreated, out, msg, "/products/"+id+"/movements")
}

// Report godoc
// @Summary      Reporte PDF del libro de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id}/movements/report [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.report.DownloadLedgerPDF(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "/products")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
