package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger/pkg/jwt"
)

// Locals keys para la identidad de la sesión en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
)

// SessionConfig parámetros de la cookie de sesión.
type SessionConfig struct {
	CookieName string
	Secure     bool
	JWTSecret  string
	ExpMinutes int
}

// tokenFromRequest toma el token de la cookie de sesión o, si no hay, del header Authorization: Bearer.
func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if tok := c.Cookies(cookieName); tok != "" {
		return tok
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireSession valida la sesión y carga UserID y nombre en c.Locals.
// Sin sesión válida redirige a /login (302), también para clientes JSON.
func RequireSession(cfg SessionConfig, flash *Flasher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := tokenFromRequest(c, cfg.CookieName)
		if tok == "" {
			flash.Add(c, FlashWarning, "inicie sesión primero")
			return c.Redirect("/login")
		}
		userID, name, err := jwt.Parse(cfg.JWTSecret, tok)
		if err != nil || userID == "" {
			c.ClearCookie(cfg.CookieName)
			flash.Add(c, FlashWarning, "sesión expirada, ingrese nuevamente")
			return c.Redirect("/login")
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserName, name)
		return c.Next()
	}
}

// setSessionCookie guarda el token en una cookie HTTP-only.
func setSessionCookie(c *fiber.Ctx, cfg SessionConfig, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(cfg.ExpMinutes) * time.Minute),
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GetUserID devuelve el UserID del contexto (después de RequireSession).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUserName devuelve el nombre visible del usuario de la sesión.
func GetUserName(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserName).(string)
	return s
}
