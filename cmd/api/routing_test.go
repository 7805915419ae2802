package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookcatalog/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Config{
		Env:             "test",
		DBDriver:        config.DriverSQLite,
		DBDSN:           "file::memory:",
		DBTimeout:       time.Second,
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		MaxBodyBytes:    1 << 20,
		DefaultPageSize: 10,
		MaxPageSize:     100,
	}
	repo, closeStore, err := openStore(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(closeStore)

	app := &application{config: cfg, logger: zap.NewNop(), store: repo}
	return app.routes(ctx)
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestApp(t)

	rec, _ := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, _ = do(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())
}

func TestMiddlewareApplied(t *testing.T) {
	h := newTestApp(t)

	rec, _ := do(t, h, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestBookLifecycle(t *testing.T) {
	h := newTestApp(t)

	rec, env := do(t, h, http.MethodPost, "/book/add", `{"title":"Dune","author":"Frank Herbert","publicationYear":2005,"quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "successful", env["message"])
	assert.Equal(t, "OK", env["status"])
	created := env["data"].(map[string]any)
	assert.Equal(t, float64(1), created["id"])

	rec, env = do(t, h, http.MethodPost, "/book/add", `{"title":"dune","author":"Someone Else","publicationYear":2006}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Error Occurred:", env["message"])
	assert.Contains(t, env["data"], "already exists")

	rec, env = do(t, h, http.MethodGet, "/book/search?searchText=2005", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env["data"], 1)

	rec, _ = do(t, h, http.MethodGet, "/book/search?searchText=1999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, h, http.MethodPut, "/book/update/1", `{"quantity":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), env["data"].(map[string]any)["quantity"])

	rec, env = do(t, h, http.MethodGet, "/book/get/all?pageNo=0&pageSize=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := env["data"].(map[string]any)
	assert.Equal(t, float64(1), page["pageElementCount"])
	assert.Equal(t, float64(5), page["pageSize"])

	rec, _ = do(t, h, http.MethodDelete, "/book/delete/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/book/get/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestApp(t)

	rec, _ := do(t, h, http.MethodGet, "/books", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
