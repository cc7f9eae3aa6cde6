package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/horas-api/internal/application/audit"
	"github.com/jhoicas/horas-api/internal/application/auth"
	"github.com/jhoicas/horas-api/internal/application/catalog"
	"github.com/jhoicas/horas-api/internal/application/dto"
	"github.com/jhoicas/horas-api/internal/application/timesheet"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/infrastructure/memory"
	"github.com/jhoicas/horas-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/horas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/horas-api/pkg/jwt"
	"github.com/jhoicas/horas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "horas-api-test"
	testExpMin    = 60
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	audit *audit.Emitter
}

// buildTestApp arma la API completa sobre el store en memoria con cuatro usuarios:
//   - u1 operario (timesheets.submit)
//   - g1 gestor-horas (submit, read, manage, viewAll y hours.clients)
//   - r1 lector (timesheets.read)
//   - a1 admin
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	roles := []*entity.Role{
		{Name: "operario", Permissions: map[string]map[string]bool{"timesheets": {"submit": true}}},
		{Name: "gestor-horas", Permissions: map[string]map[string]bool{
			"timesheets": {"submit": true, "read": true, "manage": true, "viewAll": true},
			"hours":      {"clients": true},
		}},
		{Name: "lector", Permissions: map[string]map[string]bool{"timesheets": {"read": true}}},
	}
	for _, r := range roles {
		require.NoError(t, store.Roles().Upsert(ctx, r))
	}
	store.PutUser(&entity.User{ID: "u1", Username: "jperez", DisplayName: "Juan Pérez", Roles: []string{"operario"}})
	store.PutUser(&entity.User{ID: "g1", Username: "gestor", DisplayName: "Gestora", Roles: []string{"gestor-horas"}})
	store.PutUser(&entity.User{ID: "r1", Username: "lector", Roles: []string{"lector"}})
	store.PutUser(&entity.User{ID: "a1", Username: "admin", Roles: []string{entity.RoleAdmin}})

	emitter := audit.NewEmitter(store.MovementLog(), logger.Nop(), time.Second)
	t.Cleanup(emitter.Close)
	resolver := auth.NewPrincipalResolver(store.Users(), store.Roles(), auth.TokenConfig{Secret: testJWTSecret, Issuer: testIssuer, ExpMinutes: testExpMin})
	timesheets := timesheet.NewUseCase(store.Timesheets(), store.Users(), emitter, timesheet.Config{
		Policy:  access.NewEditPolicy(24 * time.Hour),
		Reports: pdf.NewSummaryPDFGenerator("Empresa de prueba"),
	})
	clients := catalog.NewHourClientUseCase(store.HourClients(), emitter)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		Timesheets:  timesheets,
		HourClients: clients,
		Auth:        resolver,
		Logger:      logger.Nop(),
	})
	return &testEnv{app: app, store: store, audit: emitter}
}

// tokenFor genera un JWT para el usuario indicado.
func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, userID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest ejecuta la petición contra la app y devuelve status y cuerpo.
func (e *testEnv) doRequest(t *testing.T, method, path, authHeader string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er), string(body))
	return er.Code
}

func (e *testEnv) createShift(t *testing.T, userID, date, start, end string) dto.TimesheetResponse {
	t.Helper()
	status, body := e.doRequest(t, http.MethodPost, "/api/timesheets", tokenFor(t, userID),
		map[string]any{"date": date, "start_time": start, "end_time": end, "client": "Conci"})
	require.Equal(t, http.StatusCreated, status, string(body))
	var out dto.TimesheetResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinToken_Devuelve401(t *testing.T) {
	env := buildTestApp(t)
	status, body := env.doRequest(t, http.MethodGet, "/api/timesheets/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, body))
}

func TestAuthMiddleware_TokenInvalido_Devuelve401(t *testing.T) {
	env := buildTestApp(t)
	for _, header := range []string{"Token abc", "Bearer no-es-un-jwt"} {
		status, body := env.doRequest(t, http.MethodGet, "/api/timesheets/mine", header, nil)
		assert.Equal(t, http.StatusUnauthorized, status, header)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, body), header)
	}
}

func TestAuthMiddleware_UsuarioInexistente_Devuelve401(t *testing.T) {
	env := buildTestApp(t)
	status, _ := env.doRequest(t, http.MethodGet, "/api/timesheets/mine", tokenFor(t, "fantasma"), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddleware_StoreCaido_Devuelve503(t *testing.T) {
	env := buildTestApp(t)
	env.store.Fail(memory.OpUserGet, context.DeadlineExceeded)
	status, body := env.doRequest(t, http.MethodGet, "/api/timesheets/mine", tokenFor(t, "u1"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "STORE_UNAVAILABLE", errorCode(t, body))
}

// stalledUsers no responde hasta que vence el contexto.
type stalledUsers struct{}

func (stalledUsers) GetByID(ctx context.Context, _ string) (*entity.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAuthMiddleware_StoreColgado_Devuelve503(t *testing.T) {
	resolver := auth.NewPrincipalResolver(stalledUsers{}, memory.New().Roles(),
		auth.TokenConfig{Secret: testJWTSecret, Issuer: testIssuer, ExpMinutes: testExpMin}).
		WithStoreTimeout(50 * time.Millisecond)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/api/timesheets/mine", apphttp.AuthMiddleware(resolver), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	env := &testEnv{app: app}

	start := time.Now()
	status, body := env.doRequest(t, http.MethodGet, "/api/timesheets/mine", tokenFor(t, "u1"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "STORE_UNAVAILABLE", errorCode(t, body))
	assert.Less(t, time.Since(start), 2*time.Second)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registros de horas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_TurnoNocturno_Devuelve201ConMinutos(t *testing.T) {
	env := buildTestApp(t)
	out := env.createShift(t, "u1", "2026-03-09", "22:00", "07:00")

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "u1", out.UserID)
	assert.Equal(t, 540, out.DurationMinutes)
	assert.Equal(t, 480, out.NightMinutes)
	assert.True(t, out.CanEdit)
	assert.NotNil(t, out.EditableUntil)
	env.audit.Flush()
	assert.Len(t, env.store.Movements(), 1)
}

func TestCreate_HorarioInvalido_Devuelve400(t *testing.T) {
	env := buildTestApp(t)
	status, body := env.doRequest(t, http.MethodPost, "/api/timesheets", tokenFor(t, "u1"),
		map[string]any{"date": "2026-03-09", "start_time": "25:00", "end_time": "07:00"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_SCHEDULE", errorCode(t, body))

	status, body = env.doRequest(t, http.MethodPost, "/api/timesheets", tokenFor(t, "u1"),
		map[string]any{"date": "2026-03-09", "start_time": "08:00", "end_time": "08:00"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "EMPTY_DURATION", errorCode(t, body))
}

func TestCreate_SinPermisoSubmit_Devuelve403(t *testing.T) {
	env := buildTestApp(t)
	status, body := env.doRequest(t, http.MethodPost, "/api/timesheets", tokenFor(t, "r1"),
		map[string]any{"date": "2026-03-09", "start_time": "08:00", "end_time": "16:00"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))
}

func TestUpdate_RegistroAjeno_Devuelve403(t *testing.T) {
	env := buildTestApp(t)
	out := env.createShift(t, "g1", "2026-03-09", "08:00", "16:00")

	status, _ := env.doRequest(t, http.MethodPatch, "/api/timesheets/"+out.ID, tokenFor(t, "u1"), map[string]any{"task": "Soldadura"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.doRequest(t, http.MethodPatch, "/api/timesheets/"+out.ID, tokenFor(t, "g1"), map[string]any{"end_time": "18:00"})
	require.Equal(t, http.StatusOK, status, string(body))
	var updated dto.TimesheetResponse
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, 600, updated.DurationMinutes)
}

func TestDelete_PropioYNoExistente(t *testing.T) {
	env := buildTestApp(t)
	out := env.createShift(t, "u1", "2026-03-09", "08:00", "16:00")

	status, _ := env.doRequest(t, http.MethodDelete, "/api/timesheets/"+out.ID, tokenFor(t, "u1"), nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body := env.doRequest(t, http.MethodDelete, "/api/timesheets/"+out.ID, tokenFor(t, "g1"), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestList_RequiereLectura(t *testing.T) {
	env := buildTestApp(t)
	env.createShift(t, "u1", "2026-03-09", "08:00", "16:00")
	env.createShift(t, "g1", "2026-03-10", "08:00", "12:00")

	status, _ := env.doRequest(t, http.MethodGet, "/api/timesheets", tokenFor(t, "u1"), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.doRequest(t, http.MethodGet, "/api/timesheets?order=asc&user=juan", tokenFor(t, "r1"), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var list dto.TimesheetListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "u1", list.Items[0].UserID)
	assert.False(t, list.Items[0].CanEdit, "el lector no edita registros ajenos")
}

func TestList_LimiteNoNumerico_Devuelve400(t *testing.T) {
	env := buildTestApp(t)
	status, body := env.doRequest(t, http.MethodGet, "/api/timesheets?limit=abc", tokenFor(t, "g1"), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUERY", errorCode(t, body))
}

func TestList_StoreTimeout_Devuelve503(t *testing.T) {
	env := buildTestApp(t)
	env.store.Fail(memory.OpTimesheetList, context.DeadlineExceeded)
	status, body := env.doRequest(t, http.MethodGet, "/api/timesheets", tokenFor(t, "g1"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "STORE_UNAVAILABLE", errorCode(t, body))
}

func TestMine_SoloRegistrosPropios(t *testing.T) {
	env := buildTestApp(t)
	env.createShift(t, "u1", "2026-03-09", "08:00", "16:00")
	env.createShift(t, "g1", "2026-03-09", "08:00", "12:00")

	status, body := env.doRequest(t, http.MethodGet, "/api/timesheets/mine", tokenFor(t, "u1"), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var list dto.TimesheetListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "u1", list.Items[0].UserID)
}

func TestSummary_TotalesPorUsuario(t *testing.T) {
	env := buildTestApp(t)
	env.createShift(t, "u1", "2026-03-09", "22:00", "06:00")
	env.createShift(t, "g1", "2026-03-09", "08:00", "12:00")

	status, body := env.doRequest(t, http.MethodGet, "/api/timesheets/summary?from=2026-03-01&to=2026-03-31", tokenFor(t, "g1"), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var summary dto.TimesheetSummaryResponse
	require.NoError(t, json.Unmarshal(body, &summary))
	require.Len(t, summary.Rows, 2)
	assert.Equal(t, 480+240, summary.Totals.TotalMinutes)
	assert.Equal(t, 480, summary.Totals.NightMinutes)
	assert.Equal(t, "12", summary.Totals.TotalHours.String())
}

func TestSummaryPDF_DevuelveAdjunto(t *testing.T) {
	env := buildTestApp(t)
	env.createShift(t, "u1", "2026-03-09", "08:00", "16:00")

	req := httptest.NewRequest(http.MethodGet, "/api/timesheets/summary/pdf?from=2026-03-01&to=2026-03-31", nil)
	req.Header.Set("Authorization", tokenFor(t, "a1"))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "resumen-horas_2026-03-01_2026-03-31.pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo de clientes
// ──────────────────────────────────────────────────────────────────────────────

func listClients(t *testing.T, env *testEnv) []string {
	t.Helper()
	status, body := env.doRequest(t, http.MethodGet, "/api/hours/clients", tokenFor(t, "u1"), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var out dto.HourClientListResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Items
}

func TestHourClients_AltaYBaja(t *testing.T) {
	env := buildTestApp(t)
	assert.Contains(t, listClients(t, env), "Las Piedras")

	status, _ := env.doRequest(t, http.MethodPost, "/api/hours/clients", tokenFor(t, "u1"), map[string]any{"name": "Álamo"})
	assert.Equal(t, http.StatusForbidden, status, "un operario no administra el catálogo")

	status, body := env.doRequest(t, http.MethodPost, "/api/hours/clients", tokenFor(t, "g1"), map[string]any{"name": "  Álamo "})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created dto.HourClientResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Álamo", created.Name)

	status, _ = env.doRequest(t, http.MethodPost, "/api/hours/clients", tokenFor(t, "g1"), map[string]any{"name": "Álamo"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = env.doRequest(t, http.MethodDelete, "/api/hours/clients/Las%20Piedras", tokenFor(t, "g1"), nil)
	assert.Equal(t, http.StatusNoContent, status)

	clients := listClients(t, env)
	assert.NotContains(t, clients, "Las Piedras")
	assert.Equal(t, "Álamo", clients[0])

	status, _ = env.doRequest(t, http.MethodPost, "/api/hours/clients", tokenFor(t, "a1"), map[string]any{"name": "Las Piedras"})
	assert.Equal(t, http.StatusOK, status, "reactivar un cliente devuelve 200")
}

func TestHourClients_NombreVacio_Devuelve400(t *testing.T) {
	env := buildTestApp(t)
	status, body := env.doRequest(t, http.MethodPost, "/api/hours/clients", tokenFor(t, "g1"), map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}
