package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	responder
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, flash *Flasher) *ProductHandler {
	return &ProductHandler{responder: responder{flash: flash}, uc: uc}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PageResponse{data=dto.ProductListResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return h.fail(c, err, "/products")
	}
	return h.page(c, out)
}

// NewForm godoc
// @Summary      Formulario de alta de producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PageResponse
// @Router       /products/new [get]
func (h *ProductHandler) NewForm(c *fiber.Ctx) error {
	return h.page(c, dto.FormContext{Action: "/products", Method: fiber.MethodPost, Fields: []string{"name", "price", "category"}})
}

// Create godoc
// @Summary      Crear producto
// @Description  La cantidad inicia en 0; solo cambia registrando movimientos.
// @Tags         products
// @Security     Bearer
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "name, price, category"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return h.fail(c, err, "/products/new")
	}
	return h.ok(c, fiber.StatusCreated, out, "producto creado", "/products")
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.PageResponse{data=dto.ProductResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err, "/products")
	}
	return h.page(c, out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Modifica nombre, precio y categoría. La cantidad no se puede editar.
// @Tags         products
// @Security     Bearer
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ProductRequest  true  "name, price, category"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /products/{id} [post]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return h.fail(c, err, "/products/"+id)
	}
	return h.ok(c, fiber.StatusOK, out, "producto actualizado", "/products")
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Según PRODUCT_DELETE_POLICY: orphan conserva el historial, cascade lo borra, restrict rechaza si hay movimientos.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /products/{id}/delete [get]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return h.fail(c, err, "/products")
	}
	return h.ok(c, fiber.StatusOK, fiber.Map{"message": "producto eliminado", "id": id}, "producto eliminado", "/products")
}
