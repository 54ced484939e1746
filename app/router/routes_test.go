package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coticket/coticket/app/dto"
	"github.com/coticket/coticket/app/middleware"
	"github.com/coticket/coticket/app/services"
)

// noopHandlers satisfies all handler interfaces for routing tests
type noopHandlers struct{}

func (noopHandlers) Login(c fiber.Ctx) error        { return c.SendStatus(http.StatusOK) }
func (noopHandlers) Me(c fiber.Ctx) error           { return c.SendStatus(http.StatusOK) }
func (noopHandlers) UploadExcel(c fiber.Ctx) error  { return c.SendStatus(http.StatusOK) }
func (noopHandlers) List(c fiber.Ctx) error         { return c.SendStatus(http.StatusOK) }
func (noopHandlers) Get(c fiber.Ctx) error          { return c.SendStatus(http.StatusOK) }
func (noopHandlers) Update(c fiber.Ctx) error       { return c.SendStatus(http.StatusOK) }
func (noopHandlers) Delete(c fiber.Ctx) error       { return c.SendStatus(http.StatusOK) }
func (noopHandlers) SendEmail(c fiber.Ctx) error    { return c.SendStatus(http.StatusOK) }
func (noopHandlers) SendEmailAll(c fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
func (noopHandlers) Lookup(c fiber.Ctx) error       { return c.SendStatus(http.StatusOK) }
func (noopHandlers) Contact(c fiber.Ctx) error      { return c.SendStatus(http.StatusOK) }

func setupTestRouter(t *testing.T) *fiber.App {
	t.Helper()

	tokenService, err := services.NewTokenService(time.Hour, "coticket-api", "coticket-clients",
		false, "", "", "test-secret-key-for-router")
	require.NoError(t, err)

	h := noopHandlers{}
	r := NewFiberRouter(h, h, h, middleware.NewAuthMiddleware(tokenService), Options{
		CORSOrigins: []string{"http://localhost:5173"},
	})
	r.SetupRoutes()
	return r.GetApp()
}

func TestRouter_HealthCheck(t *testing.T) {
	app := setupTestRouter(t)

	// The health endpoint runs through the full middleware chain,
	// including the response cache scoped to it.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		var body dto.APIResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.True(t, body.Success)
	}
}

func TestRouter_PublicLookupIsUnauthenticated(t *testing.T) {
	app := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/lookup?cccd=123456789", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_TicketRoutesRequireAuth(t *testing.T) {
	app := setupTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/tickets/"},
		{http.MethodPost, "/api/tickets/upload-excel"},
		{http.MethodPost, "/api/tickets/send-email-all"},
		{http.MethodPost, "/api/tickets/send-email/1"},
		{http.MethodDelete, "/api/tickets/1"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", p.method, p.path)
	}
}

func TestRouter_UnknownRouteReturnsNotFoundEnvelope(t *testing.T) {
	app := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body dto.APIResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
}
