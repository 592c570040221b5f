package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/api/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	require.NoError(t, RegisterStaticRoutes(e))
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHasEmbeddedFiles(t *testing.T) {
	assert.True(t, HasEmbeddedFiles())
}

func TestStaticRoutes(t *testing.T) {
	e := newServer(t)

	rec := get(e, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Urban Jungle")

	rec = get(e, "/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "javascript")

	// SPA fallback
	rec = get(e, "/history")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<div id=\"app\">")

	// API routes win over the catch-all
	rec = get(e, "/api/health")
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(e, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
