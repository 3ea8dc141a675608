package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockledger/internal/application/auth"
	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/application/usecase"
	"github.com/jhoicas/stockledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stockledger/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/stockledger/internal/interfaces/http"
	"github.com/jhoicas/stockledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testCookie    = "stockledger_session"
	testPassword  = "segredo123"
)

// client mantiene las cookies entre peticiones, como un navegador.
type client struct {
	t    *testing.T
	app  *fiber.App
	jar  map[string]string
	html bool
}

func newTestApp(t *testing.T, policy usecase.DeletePolicy) *fiber.App {
	t.Helper()
	b, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(b.Close)

	ledgerUC := inventory.NewLedgerUseCase(b.TxRunner, b.Products)
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(b.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: "stockledger-test"}).
			WithBcryptCost(bcrypt.MinCost),
		UserUC:    usecase.NewUserUseCase(b.Users),
		ProductUC: usecase.NewProductUseCase(b.Products, b.TxRunner, policy),
		LedgerUC:  ledgerUC,
		ReportUC:  inventory.NewReportUseCase(ledgerUC, pdf.NewMarotoPDFGenerator()),
		Session:   apphttp.SessionConfig{CookieName: testCookie, JWTSecret: testJWTSecret, ExpMinutes: 60},
	})
	return app
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app, jar: map[string]string{}}
}

func (cl *client) do(req *http.Request) *http.Response {
	cl.t.Helper()
	for name, value := range cl.jar {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if cl.html {
		req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	}
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	for _, c := range resp.Cookies() {
		if c.Value == "" || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(cl.jar, c.Name)
			continue
		}
		cl.jar[c.Name] = c.Value
	}
	return resp
}

func (cl *client) get(path string) *http.Response {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) postJSON(path string, body any) *http.Response {
	cl.t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(cl.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return cl.do(req)
}

func (cl *client) postForm(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return cl.do(req)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// signedIn registra un usuario y abre sesión (cookie en el jar).
func signedIn(t *testing.T, app *fiber.App) *client {
	t.Helper()
	cl := newClient(t, app)
	resp := cl.postJSON("/users", dto.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: testPassword})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = cl.postJSON("/login", dto.LoginRequest{Email: "ana@example.com", Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, cl.jar[testCookie], "login debe dejar la cookie de sesión")
	return cl
}

// pageOf decodifica una vista GET con sus datos tipados.
type pageOf[T any] struct {
	Flash []dto.Flash `json:"flash"`
	Data  T           `json:"data"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestRutasProtegidas_SinSesionRedirigenALogin(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	cl := newClient(t, app)

	for _, path := range []string{"/", "/products", "/products/new", "/products/x/movements", "/me"} {
		resp := cl.get(path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	page := decode[pageOf[dto.FormContext]](t, cl.get("/login"))
	require.NotEmpty(t, page.Flash)
	for _, f := range page.Flash {
		assert.Equal(t, "warning", f.Kind)
		assert.Equal(t, "inicie sesión primero", f.Message)
	}

	resp := cl.postJSON("/products/x/movements", dto.RegisterMovementRequest{Magnitude: "1", Direction: "in"})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestSesion_TokenInvalidoRedirige(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer token.invalido.aqui")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSesion_BearerAceptado(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	cl := newClient(t, app)
	resp := cl.postJSON("/users", dto.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: testPassword})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	login := decode[dto.LoginResponse](t, cl.postJSON("/login", dto.LoginRequest{Email: "ana@example.com", Password: testPassword}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "ana@example.com", me.Email)
}

func TestLogout_LimpiaSesion(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	cl := signedIn(t, app)

	resp := cl.get("/logout")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, cl.jar[testCookie])

	resp = cl.get("/products")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y login
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistro_EmailDuplicado409(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	cl := signedIn(t, app)

	resp := cl.postJSON("/users", dto.RegisterRequest{Name: "Otra", Email: "ANA@example.com", Password: "otrasenha"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "EMAIL_EXISTS", body.Code)
}

func TestLogin_FallaIdenticaParaEmailYPassword(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	signedIn(t, app)
	cl := newClient(t, app)

	wrong := cl.postJSON("/login", dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	unknown := cl.postJSON("/login", dto.LoginRequest{Email: "nadie@example.com", Password: testPassword})
	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
	assert.Equal(t, wrong.StatusCode, unknown.StatusCode)

	a, _ := io.ReadAll(wrong.Body)
	b, _ := io.ReadAll(unknown.Body)
	assert.JSONEq(t, string(a), string(b))
	assert.Empty(t, cl.jar[testCookie])
}

func TestLogin_FormularioHTMLRedirigeYDejaFlash(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	signedIn(t, app)
	cl := newClient(t, app)
	cl.html = true

	resp := cl.postForm("/login", url.Values{"email": {"nadie@example.com"}, "password": {"x"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = cl.postForm("/login", url.Values{"email": {"ana@example.com"}, "password": {testPassword}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))

	page := decode[pageOf[dto.ProductListResponse]](t, cl.get("/products"))
	require.Len(t, page.Flash, 2)
	assert.Equal(t, "danger", page.Flash[0].Kind)
	assert.Equal(t, "credenciales inválidas", page.Flash[0].Message)
	assert.Equal(t, "success", page.Flash[1].Kind)

	// Los flashes se consumen en la primera lectura
	page = decode[pageOf[dto.ProductListResponse]](t, cl.get("/products"))
	assert.Empty(t, page.Flash)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y libro de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenario_WidgetEntradasYSalidas(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	cl := signedIn(t, app)

	resp := cl.postJSON("/products", map[string]any{"name": "Widget", "price": 9.99, "category": "tools"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	product := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, int64(0), product.Quantity)
	assert.Equal(t, "9.99", product.Price.String())
	movements := "/products/" + product.ID + "/movements"

	resp = cl.postJSON(movements, map[string]any{"magnitude": 10, "direction": "in"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(10), decode[dto.RegisterMovementResponse](t, resp).Quantity)

	hist := decode[pageOf[dto.HistoryResponse]](t, cl.get(movements))
	require.Len(t, hist.Data.Movements, 1)
	assert.Equal(t, int64(10), hist.Data.Movements[0].Magnitude)
	assert.Equal(t, "in", hist.Data.Movements[0].Direction)

	resp = cl.postJSON(movements, dto.RegisterMovementRequest{Magnitude: "3", Direction: "out"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(7), decode[dto.RegisterMovementResponse](t, resp).Quantity)

	resp = cl.postJSON(movements, dto.RegisterMovementRequest{Magnitude: "100", Direction: "out"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	hist = decode[pageOf[dto.HistoryResponse]](t, cl.get(movements))
	assert.Len(t, hist.Data.Movements, 2)
	assert.Equal(t, int64(7), hist.Data.Product.Quantity)
	assert.True(t, hist.Data.Consistent)

	got := decode[pageOf[dto.ProductResponse]](t, cl.get("/products/"+product.ID))
	assert.Equal(t, int64(7), got.Data.Quantity)
}

func TestMovimiento_ValidacionesYNotFound(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	cl := signedIn(t, app)
	product := decode[dto.ProductResponse](t, cl.postJSON("/products", dto.ProductRequest{Name: "Clip", Price: "0.10"}))
	movements := "/products/" + product.ID + "/movements"

	for _, magnitude := range []string{"1.5", "0", "-3", "abc"} {
		resp := cl.postJSON(movements, dto.RegisterMovementRequest{Magnitude: dto.NumberText(magnitude), Direction: "in"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, magnitude)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
	}

	resp := cl.postJSON("/products/no-existe/movements", dto.RegisterMovementRequest{Magnitude: "1", Direction: "in"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = cl.get("/products/no-existe/movements")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMovimiento_FormularioHTMLStockInsuficiente(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	cl := signedIn(t, app)
	product := decode[dto.ProductResponse](t, cl.postJSON("/products", dto.ProductRequest{Name: "Clip", Price: "0.10"}))
	cl.html = true

	resp := cl.postForm("/products/"+product.ID+"/movements", url.Values{"magnitude": {"2"}, "direction": {"saida"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products/"+product.ID+"/movements/new", resp.Header.Get("Location"))

	resp = cl.postForm("/products/"+product.ID+"/movements", url.Values{"magnitude": {"5"}, "direction": {"entrada"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products/"+product.ID+"/movements", resp.Header.Get("Location"))

	page := decode[pageOf[map[string]any]](t, cl.get("/products/"+product.ID+"/movements/new"))
	require.Len(t, page.Flash, 2)
	assert.Contains(t, page.Flash[0].Message, "stock insuficiente")
	assert.Equal(t, "success", page.Flash[1].Kind)
	assert.EqualValues(t, 5, page.Data["quantity"])
}

func TestProducto_CrearValidacionYEditar(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	cl := signedIn(t, app)

	resp := cl.postJSON("/products", dto.ProductRequest{Name: "Caneta", Price: "barato"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	product := decode[dto.ProductResponse](t, cl.postJSON("/products", dto.ProductRequest{Name: "Caneta", Price: "2"}))
	resp = cl.postJSON("/products/"+product.ID, dto.ProductRequest{Name: "Caneta azul", Price: "2,50", Category: "escritório"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Caneta azul", updated.Name)
	assert.Equal(t, "2.5", updated.Price.String())

	resp = cl.postJSON("/products/no-existe", dto.ProductRequest{Name: "X", Price: "1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	list := decode[pageOf[dto.ProductListResponse]](t, cl.get("/products"))
	assert.Equal(t, 1, list.Data.Total)
}

func TestProducto_EliminarSegunPolitica(t *testing.T) {
	t.Run("orphan", func(t *testing.T) {
		cl := signedIn(t, newTestApp(t, usecase.DeleteOrphan))
		product := decode[dto.ProductResponse](t, cl.postJSON("/products", dto.ProductRequest{Name: "A", Price: "1"}))
		require.Equal(t, http.StatusCreated, cl.postJSON("/products/"+product.ID+"/movements", dto.RegisterMovementRequest{Magnitude: "1", Direction: "in"}).StatusCode)

		assert.Equal(t, http.StatusOK, cl.get("/products/"+product.ID+"/delete").StatusCode)
		assert.Equal(t, http.StatusNotFound, cl.get("/products/"+product.ID).StatusCode)
		assert.Equal(t, http.StatusNotFound, cl.get("/products/"+product.ID+"/delete").StatusCode)
	})

	t.Run("restrict", func(t *testing.T) {
		cl := signedIn(t, newTestApp(t, usecase.DeleteRestrict))
		product := decode[dto.ProductResponse](t, cl.postJSON("/products", dto.ProductRequest{Name: "A", Price: "1"}))
		require.Equal(t, http.StatusCreated, cl.postJSON("/products/"+product.ID+"/movements", dto.RegisterMovementRequest{Magnitude: "1", Direction: "in"}).StatusCode)

		resp := cl.get("/products/" + product.ID + "/delete")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)
		assert.Equal(t, http.StatusOK, cl.get("/products/"+product.ID).StatusCode)
	})
}

func TestReportePDF(t *testing.T) {
	app := newTestApp(t, usecase.DeleteOrphan)
	cl := signedIn(t, app)
	product := decode[dto.ProductResponse](t, cl.postJSON("/products", dto.ProductRequest{Name: "Widget", Price: "9.99"}))
	require.Equal(t, http.StatusCreated, cl.postJSON("/products/"+product.ID+"/movements", dto.RegisterMovementRequest{Magnitude: "4", Direction: "in"}).StatusCode)

	resp := cl.get("/products/" + product.ID + "/movements/report")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "estoque-"+product.ID)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRaizRedirigeAProductos(t *testing.T) {
	cl := signedIn(t, newTestApp(t, usecase.DeleteOrphan))
	resp := cl.get("/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))
}
