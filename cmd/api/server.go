package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// serve runs the HTTP server until SIGINT or SIGTERM, then drains in-flight
// requests for at most SHUTDOWN_TIMEOUT.
func (app *application) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      app.routes(ctx),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		app.logger.Info("shutting down server", zap.String("signal", s.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", app.config.Env))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		return err
	}

	app.logger.Info("server stopped", zap.String("addr", srv.Addr))
	return nil
}
