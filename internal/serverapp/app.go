// Package serverapp wires configuration, telemetry and the inflection
// engine into a running HTTP server.
package serverapp

import (
	"fmt"
	"net/http"
	"sync"

	"inflectd/internal/config"
	"inflectd/internal/httpapi"
	"inflectd/internal/logging"
	"inflectd/internal/naming"
	"inflectd/internal/observability"
	"inflectd/pkg/inflection"
)

// App owns runtime resources for the inflectd server lifecycle.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	loggerProvider *observability.LoggerProvider

	meterProvider  *observability.MeterProvider
	metrics        *observability.InflectionMetrics
	tracerProvider *observability.TracerProvider

	engine *inflection.Engine
	namer  *naming.Namer
	api    *httpapi.API

	mux     *http.ServeMux
	handler http.Handler

	serverAddr string
	srv        *http.Server

	cleanup cleanupStack

	stateMu      sync.Mutex
	initialized  bool
	started      bool
	serverErrors chan error

	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &App{cfg: cfg, logger: logger}, nil
}

// AttachLoggerProvider registers an optional logger provider for shutdown cleanup.
func (a *App) AttachLoggerProvider(provider *observability.LoggerProvider) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.loggerProvider = provider
}

// Handler returns the fully wrapped HTTP handler. It is nil before Init.
func (a *App) Handler() http.Handler {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.handler
}

// Engine returns the inflection engine serving requests. It is nil before Init.
func (a *App) Engine() *inflection.Engine {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.engine
}
