// Package server builds the echo instances the service binaries share:
// the request middleware chain, the sidecar metrics listener and the
// signal-driven shutdown dance.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
)

// New returns an echo instance with the common middleware applied.
// subsystem names the service in the prometheus metric namespace.
func New(subsystem string) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.Use(middleware.BodyLimit("100M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware(subsystem))
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	server.Logger.SetLevel(log.INFO)

	return server
}

// Run starts the service listener plus a metrics listener on its own
// port, then blocks until an interrupt and shuts the service down with
// a ten second grace period.
func Run(server *echo.Echo, addr, metricsAddr string) {
	go func() {
		metrics := echo.New()
		metrics.HideBanner = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(metricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}
