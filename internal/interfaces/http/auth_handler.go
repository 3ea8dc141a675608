package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger/internal/application/auth"
	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/usecase"
)

// AuthHandler maneja registro, login y logout.
type AuthHandler struct {
	responder
	uc      *auth.AuthUseCase
	users   *usecase.UserUseCase
	session SessionConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, users *usecase.UserUseCase, session SessionConfig, flash *Flasher) *AuthHandler {
	return &AuthHandler{responder: responder{flash: flash}, uc: uc, users: users, session: session}
}

// LoginForm godoc
// @Summary      Formulario de login
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.PageResponse
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return h.page(c, dto.FormContext{Action: "/login", Method: fiber.MethodPost, Fields: []string{"email", "password"}})
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Guarda el token en la cookie de sesión. Clientes HTML reciben redirección a /products.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return h.fail(c, err, "/login")
	}
	setSessionCookie(c, h.session, out.Token)
	return h.ok(c, fiber.StatusOK, out, "bienvenido, "+out.User.Name, "/products")
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(h.session.CookieName)
	return h.ok(c, fiber.StatusOK, fiber.Map{"message": "sesión cerrada"}, "sesión cerrada", "/login")
}

// RegisterForm godoc
// @Summary      Formulario de registro
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.PageResponse
// @Router       /users/new [get]
func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return h.page(c, dto.FormContext{Action: "/users", Method: fiber.MethodPost, Fields: []string{"name", "email", "password"}})
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "name, email, password"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /users [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	user, err := h.uc.RegisterUser(c.Context(), in)
	if err != nil {
		return h.fail(c, err, "/users/new")
	}
	return h.ok(c, fiber.StatusCreated, user, "usuario creado, ya puede ingresar", "/login")
}

// Me godoc
// @Summary      Usuario de la sesión actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      302
// @Router       /me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.Context(), GetUserID(c))
	if err != nil {
		return h.fail(c, err, "/login")
	}
	return c.JSON(user)
}
