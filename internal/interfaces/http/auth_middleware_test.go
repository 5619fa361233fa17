package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/application/session"
	"github.com/jhoicas/gncci-portal/internal/application/usecase"
	"github.com/jhoicas/gncci-portal/internal/domain"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
	"github.com/jhoicas/gncci-portal/internal/domain/repository"
	apphttp "github.com/jhoicas/gncci-portal/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const cookieName = "gncci_session"

// testGateway autentica en memoria: emails que empiezan por "admin" reciben rol admin,
// la contraseña "bad" falla y "offline" simula un fallo de red.
type testGateway struct {
	mu        sync.Mutex
	session   *entity.Session
	listeners map[int]repository.AuthListener
	next      int
}

func (g *testGateway) emit(event string, s *entity.Session) {
	g.mu.Lock()
	g.session = s
	fns := make([]repository.AuthListener, 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn(event, s)
	}
}

func (g *testGateway) GetSession(context.Context) (*entity.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, nil
}

func (g *testGateway) OnAuthStateChange(fn repository.AuthListener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

func (g *testGateway) SignInWithPassword(_ context.Context, email, password string) (*entity.Session, error) {
	switch password {
	case "bad":
		return nil, domain.ErrUnauthorized
	case "offline":
		return nil, domain.ErrNetwork
	}
	role := "member"
	if strings.HasPrefix(email, "admin") {
		role = "admin"
	}
	s := &entity.Session{AccessToken: "tok", User: entity.Identity{
		ID: "00000000-0000-0000-0000-000000000001", Email: email, UserMetadata: map[string]any{"role": role},
	}}
	g.emit(repository.AuthSignedIn, s)
	return s, nil
}

func (g *testGateway) SignUp(_ context.Context, email, _ string, _ repository.SignUpData) (*entity.Identity, error) {
	return &entity.Identity{Email: email}, nil
}

func (g *testGateway) SignOut(context.Context) error {
	g.emit(repository.AuthSignedOut, nil)
	return nil
}

func (g *testGateway) ResetPasswordForEmail(context.Context, string) error { return nil }
func (g *testGateway) UpdatePassword(context.Context, string) (*entity.Identity, error) {
	return &entity.Identity{}, nil
}
func (g *testGateway) AccessToken(context.Context) string { return "" }
func (g *testGateway) Close()                              {}

type testCompanies struct{ items []entity.Company }

func (r *testCompanies) List(context.Context) ([]entity.Company, error) { return r.items, nil }
func (r *testCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	for _, c := range r.items {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}
func (r *testCompanies) ListByOwner(context.Context, string) ([]entity.Company, error) {
	return nil, nil
}
func (r *testCompanies) Create(_ context.Context, in entity.CompanyFields) (*entity.Company, error) {
	c := entity.Company{ID: "00000000-0000-0000-0000-0000000000c1", Name: in.Name, UserID: in.UserID, IndustrySector: in.IndustrySector}
	r.items = append(r.items, c)
	return &c, nil
}
func (r *testCompanies) Update(context.Context, string, entity.CompanyPatch) (*entity.Company, error) {
	return nil, domain.ErrNetwork
}
func (r *testCompanies) Delete(context.Context, string) error { return nil }

type testStats struct{}

func (testStats) Overview(context.Context) (repository.OverviewCounts, error) {
	return repository.OverviewCounts{TotalMembers: 4, TotalMemberships: 4, PaidMemberships: 3}, nil
}
func (testStats) LatestSnapshots(context.Context, int) ([]entity.MetricSnapshot, error) {
	return nil, nil
}

type testBackend struct{ companies *testCompanies }

func (b *testBackend) NewGateway(string) repository.AuthGateway {
	return &testGateway{listeners: map[int]repository.AuthListener{}}
}

func (b *testBackend) Repositories(session.TokenSource) usecase.Repositories {
	return usecase.Repositories{Companies: b.companies, Stats: testStats{}, StatsSource: "rest"}
}

// buildTestApp arma el router completo sobre un backend en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	reg := session.NewRegistry(&testBackend{companies: &testCompanies{items: []entity.Company{
		{ID: "00000000-0000-0000-0000-0000000000a1", Name: "Acme Ltd", IndustrySector: "Energy"},
	}}}, session.Options{Logger: zerolog.Nop()})
	t.Cleanup(reg.Close)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop(), nil)})
	app.Get("/boom", func(*fiber.Ctx) error { return io.ErrUnexpectedEOF })
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions: reg,
		Cookie:   apphttp.CookieConfig{Name: cookieName},
		Log:      zerolog.Nop(),
	})
	return app
}

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

func (c *client) do(method, path, body string, header ...string) *http.Response {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: c.cookie})
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			c.cookie = ck.Value
		}
	}
	return resp
}

func (c *client) login(email string) {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"secret"}`)
	require.Equal(c.t, fiber.StatusOK, resp.StatusCode)
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestSessions_EmiteCookieYReutilizaLaSesion(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}

	resp := c.do(http.MethodGet, "/api/auth/session", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, c.cookie, "una sesión nueva emite la cookie")
	var s dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, "unauthenticated", s.State)

	first := c.cookie
	resp = c.do(http.MethodGet, "/api/auth/session", "")
	assert.Empty(t, resp.Cookies(), "la sesión existente no vuelve a emitir cookie")
	assert.Equal(t, first, c.cookie)
}

func TestSessions_CookieNoEmitidaPorElServidorSeReemplaza(t *testing.T) {
	forged := "11111111-2222-4333-8444-555555555555"
	c := &client{t: t, app: buildTestApp(t), cookie: forged}

	resp := c.do(http.MethodGet, "/api/auth/session", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, c.cookie)
	assert.NotEqual(t, forged, c.cookie, "un id elegido por el cliente no se adopta")
}

func TestLogin_RotaLaCookieYLaAnteriorNoDaAcceso(t *testing.T) {
	app := buildTestApp(t)
	first := &client{t: t, app: app}
	first.do(http.MethodGet, "/api/auth/session", "")
	require.NotEmpty(t, first.cookie)

	// Otro navegador con la misma cookie inicia sesión como admin.
	admin := &client{t: t, app: app, cookie: first.cookie}
	admin.login("admin@example.com")
	assert.NotEqual(t, first.cookie, admin.cookie, "el login emite una cookie nueva")
	assert.Equal(t, fiber.StatusOK, admin.do(http.MethodGet, "/api/admin/stats", "").StatusCode)

	resp := first.do(http.MethodGet, "/api/auth/session", "")
	var s dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, "unauthenticated", s.State)
	assert.Equal(t, fiber.StatusUnauthorized, first.do(http.MethodGet, "/api/admin/stats", "").StatusCode)
}

func TestGuard_APISinSesionRetorna401ConRedirect(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}

	resp := c.do(http.MethodGet, "/api/directory", "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/login", decodeError(t, resp).RedirectTo)
}

func TestGuard_NavegacionSinSesionRedirigeALogin(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}

	resp := c.do(http.MethodGet, "/api/directory", "", "Accept", "text/html,application/xhtml+xml")

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestGuard_MiembroEnRutaAdminRetorna403(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}
	c.login("ama@example.com")

	resp := c.do(http.MethodGet, "/api/admin/stats", "")

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "/dashboard", decodeError(t, resp).RedirectTo)

	nav := c.do(http.MethodGet, "/api/admin/stats", "", "Accept", "text/html")
	assert.Equal(t, fiber.StatusFound, nav.StatusCode)
	assert.Equal(t, "/dashboard", nav.Header.Get("Location"))
}

func TestAdmin_StatsCalculaTasaDeCobro(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}
	c.login("admin@example.com")

	resp := c.do(http.MethodGet, "/api/admin/stats", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		TotalMembers   int    `json:"total_members"`
		CollectionRate string `json:"collection_rate"`
		Source         string `json:"source"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 4, out.TotalMembers)
	assert.Equal(t, "75", out.CollectionRate)
	assert.Equal(t, "rest", out.Source)
}

func TestLogin_CredencialesInvalidasDejanAvisoEnLaCola(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}

	resp := c.do(http.MethodPost, "/api/auth/login", `{"email":"ama@example.com","password":"bad"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/notifications", "")
	var list dto.ListResponse[struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	}]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "error", list.Items[0].Level)

	resp = c.do(http.MethodGet, "/api/notifications", "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Zero(t, list.Total, "la cola se vacía al leerla")
}

func TestLogin_FalloDeRedRetorna502(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}

	resp := c.do(http.MethodPost, "/api/auth/login", `{"email":"ama@example.com","password":"offline"}`)

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "NETWORK", decodeError(t, resp).Code)
}

func TestLogin_EmailInvalidoRetornaCamposConError(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}

	resp := c.do(http.MethodPost, "/api/auth/login", `{"email":"no-es-email","password":"x"}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "email")
}

func TestCompanies_CreateRedirigeAlPerfil(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}
	c.login("ama@example.com")

	resp := c.do(http.MethodPost, "/api/companies", `{"name":"Kente Co","registration_number":"RC-9",
		"industry_sector":"Textiles","address":"1 Ring Rd","city":"Kumasi","country":"Ghana","website":""}`)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/directory/00000000-0000-0000-0000-0000000000c1", resp.Header.Get("Location"))

	resp = c.do(http.MethodGet, "/api/directory?sector=Textiles", "")
	var dir dto.DirectoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dir))
	require.Len(t, dir.Items, 1, "el alta invalida el listado")
	assert.Equal(t, "Kente Co", dir.Items[0].Name)
	assert.Equal(t, []string{"Energy", "Textiles"}, dir.Sectors)
}

func TestCompanies_PerfilInexistenteRetorna404(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}
	c.login("ama@example.com")

	resp := c.do(http.MethodGet, "/api/companies/00000000-0000-0000-0000-0000000000ff", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/companies/new", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLogout_LimpiaLaSesion(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}
	c.login("ama@example.com")

	resp := c.do(http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/directory", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestErrorHandler_RespuestaDeRecuperacion(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}

	resp := c.do(http.MethodGet, "/boom", "")

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "Something went wrong", body.Message)
	assert.Equal(t, "reload", body.Action)
}

func TestLogError_Retorna202(t *testing.T) {
	c := &client{t: t, app: buildTestApp(t)}

	resp := c.do(http.MethodPost, "/api/log-error",
		`{"error":{"message":"x is undefined","name":"TypeError"},"errorInfo":{"componentStack":"at App"},"url":"/dashboard"}`)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
}
