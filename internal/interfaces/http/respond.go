package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/domain"
)

// responder agrupa las respuestas comunes de los handlers (JSON o flash + redirección).
type responder struct {
	flash *Flasher
}

// wantsHTML indica si el cliente prefiere HTML (navegador enviando un formulario).
// Sin header Accept o con */* se responde JSON.
func wantsHTML(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML
}

// mapError traduce un error de dominio a status HTTP + cuerpo de error.
func mapError(err error) (int, dto.ErrorResponse) {
	var ve *domain.ValidationError
	var ise *domain.InsufficientStockError
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: ve.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "el producto tiene movimientos registrados"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.As(err, &ise):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("stock insuficiente: solicitado %d, disponible %d", ise.Requested, ise.Available),
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

// fail responde un error: JSON con status, o flash + redirección a back para clientes HTML.
func (r *responder) fail(c *fiber.Ctx, err error, back string) error {
	status, body := mapError(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	}
	if wantsHTML(c) {
		r.flash.Add(c, FlashDanger, body.Message)
		return c.Redirect(back)
	}
	return c.Status(status).JSON(body)
}

// ok responde un éxito: JSON con status y cuerpo, o flash + redirección para clientes HTML.
func (r *responder) ok(c *fiber.Ctx, status int, body any, message, next string) error {
	if wantsHTML(c) {
		r.flash.Add(c, FlashSuccess, message)
		return c.Redirect(next)
	}
	return c.Status(status).JSON(body)
}

// page responde una vista GET: flashes pendientes + datos.
func (r *responder) page(c *fiber.Ctx, data any) error {
	return c.JSON(dto.PageResponse{Flash: r.flash.Pop(c), Data: data})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
