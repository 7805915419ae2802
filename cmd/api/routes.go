package main

import (
	"context"
	"net/http"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
)

// routes builds the full handler tree. ctx bounds the rate limiter janitor.
func (app *application) routes(ctx context.Context) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := app.store.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	service := book.NewService(app.store, app.logger)
	book.NewHTTPHandler(service, app.config.DefaultPageSize, app.config.MaxPageSize).Register(router)

	limiter := httpx.NewRateLimitMiddleware(ctx, app.config.RateLimitRPS, app.config.RateLimitBurst)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(app.logger),
		httpx.RecoveryMiddleware(app.logger),
		httpx.SecurityHeadersMiddleware(app.config.EnableHSTS),
		httpx.CORSMiddleware(app.config.AllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(app.config.MaxBodyBytes),
	)
}
