package serverapp

import (
	"context"
	"fmt"
	"log/slog"

	"inflectd/pkg/inflection"
)

// Init initializes all runtime resources. It is idempotent.
func (a *App) Init(ctx context.Context) error {
	a.stateMu.Lock()
	if a.initialized {
		a.stateMu.Unlock()
		return nil
	}
	a.stateMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cleanup := cleanupStack{}
	success := false
	defer func() {
		if !success {
			cleanup.run(context.Background(), a.logger)
		}
	}()

	if a.loggerProvider != nil {
		cleanup.push("logger provider", func(shutdownCtx context.Context) error {
			return a.loggerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	meterProvider, metrics, err := initMetrics(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry metrics: %w", err)
	}
	if meterProvider != nil {
		cleanup.push("meter provider", func(shutdownCtx context.Context) error {
			return meterProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	tracerProvider, err := initTracing(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry tracing: %w", err)
	}
	if tracerProvider != nil {
		cleanup.push("tracer provider", func(shutdownCtx context.Context) error {
			return tracerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	var observer inflection.Observer
	if metrics != nil {
		observer = metrics
	}
	engine, err := BuildEngine(a.cfg, a.logger, observer)
	if err != nil {
		return fmt.Errorf("failed to build inflection engine: %w", err)
	}
	namer := BuildNamer(a.cfg, a.logger, engine)

	api, mux, err := buildRouter(a.cfg, a.logger, engine, namer, meterProvider)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	handler := wrapHTTPHandler(a.cfg, a.logger, mux)

	serverAddr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	srv := buildServer(a.cfg, handler, serverAddr)
	cleanup.push("HTTP server", func(shutdownCtx context.Context) error {
		return srv.Shutdown(shutdownCtx)
	})

	a.logger.InfoContext(ctx, "inflection engine ready",
		slog.Int("plural_rules", len(engine.PluralRules())),
		slog.Int("singular_rules", len(engine.SingularRules())),
		slog.Int("irregulars", len(engine.Irregulars())),
		slog.Int("uncountables", len(engine.Uncountables())),
		slog.Bool("admin_rules_enabled", a.cfg.Server.Admin.RulesEnabled),
	)

	a.stateMu.Lock()
	a.meterProvider = meterProvider
	a.metrics = metrics
	a.tracerProvider = tracerProvider
	a.engine = engine
	a.namer = namer
	a.api = api
	a.mux = mux
	a.handler = handler
	a.serverAddr = serverAddr
	a.srv = srv
	a.cleanup = cleanup
	a.initialized = true
	a.stateMu.Unlock()

	success = true
	return nil
}
