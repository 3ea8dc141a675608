package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger/internal/application/auth"
	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	ProductUC *usecase.ProductUseCase
	LedgerUC  *inventory.LedgerUseCase
	ReportUC  *inventory.ReportUseCase
	Session   SessionConfig
	Flash     *Flasher
}

// Router registra las rutas de la aplicación.
func Router(app *fiber.App, deps RouterDeps) {
	flash := deps.Flash
	if flash == nil {
		flash = NewFlasher(deps.Session.CookieName+"_flash", deps.Session.Secure)
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.Session, flash)
	app.Get("/login", authHandler.LoginForm)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", authHandler.Logout)
	app.Get("/users/new", authHandler.RegisterForm)
	app.Post("/users", authHandler.Register)

	// Rutas protegidas (cookie de sesión o Bearer Token)
	requireSession := RequireSession(deps.Session, flash)

	app.Get("/", requireSession, func(c *fiber.Ctx) error {
		return c.Redirect("/products")
	})
	app.Get("/me", requireSession, authHandler.Me)

	// Products (protegido)
	products := app.Group("/products", requireSession)
	productHandler := NewProductHandler(deps.ProductUC, flash)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/new", productHandler.NewForm)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/:id", productHandler.Update)
	products.Get("/:id/delete", productHandler.Delete)

	// Libro de stock (protegido)
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.ReportUC, flash)
	products.Get("/:id/movements", inventoryHandler.History)
	products.Post("/:id/movements", inventoryHandler.RegisterMovement)
	products.Get("/:id/movements/new", inventoryHandler.NewForm)
	products.Get("/:id/movements/report", inventoryHandler.Report)
}
