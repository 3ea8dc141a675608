package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockledger/internal/application/dto"
)

// Tipos de mensaje flash.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

const flashKey = "flash"

// Flasher guarda mensajes de un solo uso en la sesión de servidor de Fiber.
type Flasher struct {
	store *session.Store
}

// NewFlasher construye el almacén de flashes (memoria del proceso) con su propia cookie.
func NewFlasher(cookieName string, secure bool) *Flasher {
	return &Flasher{store: session.New(session.Config{
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})}
}

// Add agrega un mensaje a la sesión.
func (f *Flasher) Add(c *fiber.Ctx, kind, message string) {
	sess, err := f.store.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("flash: obtener sesión")
		return
	}
	list, _ := sess.Get(flashKey).([]string)
	sess.Set(flashKey, append(list, kind+":"+message))
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Msg("flash: guardar sesión")
	}
}

// Pop devuelve y consume los mensajes pendientes.
func (f *Flasher) Pop(c *fiber.Ctx) []dto.Flash {
	out := []dto.Flash{}
	sess, err := f.store.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("flash: obtener sesión")
		return out
	}
	list, _ := sess.Get(flashKey).([]string)
	if len(list) == 0 {
		return out
	}
	for _, raw := range list {
		kind, msg, _ := strings.Cut(raw, ":")
		out = append(out, dto.Flash{Kind: kind, Message: msg})
	}
	sess.Delete(flashKey)
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Msg("flash: guardar sesión")
	}
	return out
}
