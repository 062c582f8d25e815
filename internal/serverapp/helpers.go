package serverapp

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"inflectd/internal/config"
	"inflectd/internal/httpapi"
	"inflectd/internal/logging"
	"inflectd/internal/middleware"
	"inflectd/internal/naming"
	"inflectd/internal/observability"
	"inflectd/pkg/inflection"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// InitLogger builds the process logger and, when log export is enabled, the
// OTLP logger provider feeding it. out defaults to stdout.
func InitLogger(cfg *config.Config, out io.Writer) (*logging.Logger, *observability.LoggerProvider, error) {
	loggerCfg := logging.Config{
		Level:       cfg.Observability.Logging.Level,
		Format:      cfg.Observability.Logging.Format,
		Output:      out,
		ServiceName: cfg.Observability.ServiceName,
	}
	logger := logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)

	if !cfg.Observability.Logging.ExportsEnabled {
		return logger, nil, nil
	}

	logsConfig := cfg.Observability.GetLogsConfig()
	logger.Info("initializing OpenTelemetry logging",
		slog.String("otlp_endpoint", logsConfig.Endpoint),
		slog.String("otlp_protocol", logsConfig.Protocol),
		slog.Bool("insecure", logsConfig.Insecure),
	)

	otelCfg := telemetryConfig(cfg)
	otelCfg.OTLPConfig = exporterConfig(logsConfig)
	loggerProvider, err := observability.InitLoggerProvider(otelCfg)
	if err != nil {
		return nil, nil, err
	}

	loggerCfg.LoggerProvider = loggerProvider.Provider()
	logger = logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)
	logger.Info("OpenTelemetry logging initialized")

	return logger, loggerProvider, nil
}

func telemetryConfig(cfg *config.Config) observability.Config {
	return observability.Config{
		ServiceName:      cfg.Observability.ServiceName,
		ServiceVersion:   cfg.Observability.ServiceVersion,
		Environment:      cfg.Observability.Environment,
		TraceSampleRatio: cfg.Observability.TraceSampleRatio,
	}
}

func exporterConfig(otlp config.OTLPConfig) observability.OTLPExporterConfig {
	return observability.OTLPExporterConfig{
		Endpoint:          otlp.Endpoint,
		Protocol:          otlp.Protocol,
		Insecure:          otlp.Insecure,
		TLSCertFile:       otlp.TLSCertFile,
		TLSClientCertFile: otlp.TLSClientCertFile,
		TLSClientKeyFile:  otlp.TLSClientKeyFile,
		Headers:           otlp.Headers,
		Timeout:           otlp.Timeout,
		Compression:       otlp.Compression,
	}
}

func initMetrics(cfg *config.Config, logger *logging.Logger) (*observability.MeterProvider, *observability.InflectionMetrics, error) {
	if !cfg.Observability.MetricsEnabled {
		return nil, nil, nil
	}

	meterProvider, err := observability.InitMeterProvider(telemetryConfig(cfg))
	if err != nil {
		return nil, nil, err
	}

	metrics, err := observability.InitInflectionMetrics()
	if err != nil {
		return nil, nil, err
	}
	logger.Info("OpenTelemetry metrics initialized",
		slog.String("service_name", cfg.Observability.ServiceName),
		slog.String("environment", cfg.Observability.Environment),
	)

	return meterProvider, metrics, nil
}

func initTracing(cfg *config.Config, logger *logging.Logger) (*observability.TracerProvider, error) {
	if !cfg.Observability.TracingEnabled {
		return nil, nil
	}

	tracesConfig := cfg.Observability.GetTracesConfig()
	otelCfg := telemetryConfig(cfg)
	otelCfg.OTLPConfig = exporterConfig(tracesConfig)

	tracerProvider, err := observability.InitTracerProvider(otelCfg)
	if err != nil {
		return nil, err
	}

	logger.Info("OpenTelemetry tracing initialized",
		slog.String("otlp_endpoint", tracesConfig.Endpoint),
		slog.String("otlp_protocol", tracesConfig.Protocol),
		slog.Float64("sample_ratio", cfg.Observability.TraceSampleRatio),
	)
	return tracerProvider, nil
}

// BuildEngine creates an engine seeded with the English rules and layers the
// configured rules on top. observer may be nil.
func BuildEngine(cfg *config.Config, logger *logging.Logger, observer inflection.Observer) (*inflection.Engine, error) {
	opts := []inflection.Option{inflection.WithLogger(logger.Logger)}
	if observer != nil {
		opts = append(opts, inflection.WithObserver(observer))
	}

	engine := inflection.New(opts...)
	if err := cfg.Rules.ApplyTo(engine); err != nil {
		return nil, err
	}
	return engine, nil
}

// BuildNamer wraps engine with the configured per-word overrides.
func BuildNamer(cfg *config.Config, logger *logging.Logger, engine *inflection.Engine) *naming.Namer {
	return naming.New(cfg.Naming, engine, logger.Logger)
}

func buildRouter(cfg *config.Config, logger *logging.Logger, engine *inflection.Engine, namer *naming.Namer, meterProvider *observability.MeterProvider) (*httpapi.API, *http.ServeMux, error) {
	api := httpapi.New(engine, namer, httpapi.Options{MaxWords: cfg.Server.MaxWordsPerRequest})

	mux := http.NewServeMux()
	api.Register(mux)
	mux.HandleFunc("GET /health", healthHandler(engine))

	if cfg.Server.Admin.RulesEnabled {
		auth, err := middleware.AdminTokenAuthMiddleware(middleware.AdminTokenAuthConfig{
			Token: cfg.Server.Admin.AuthToken,
		})
		if err != nil {
			return nil, nil, err
		}
		api.RegisterAdmin(mux, auth)
		logger.Info("admin rule endpoints enabled", slog.String("path", "/admin/rules/{kind}"))
	}

	if cfg.Observability.MetricsEnabled && meterProvider != nil {
		mux.Handle("GET /metrics", promhttp.Handler())
		logger.Info("metrics endpoint enabled", slog.String("path", "/metrics"))
	}

	return api, mux, nil
}

func wrapHTTPHandler(cfg *config.Config, logger *logging.Logger, handler http.Handler) http.Handler {
	handler = middleware.LoggingMiddleware(logger)(handler)

	if cfg.Observability.MetricsEnabled || cfg.Observability.TracingEnabled {
		handler = otelhttp.NewHandler(handler, "http.server",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return httpRootSpanName(r)
			}),
			otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
		)
		logger.Info("HTTP instrumentation enabled")
	}

	if cfg.Server.RateLimitEnabled {
		handler = middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			Enabled:     cfg.Server.RateLimitEnabled,
			RPS:         cfg.Server.RateLimitRPS,
			Burst:       cfg.Server.RateLimitBurst,
			ExemptPaths: []string{"/health", "/metrics"},
		})(handler)
	}

	return handler
}

func httpRootSpanName(r *http.Request) string {
	if r == nil {
		return "HTTP /*"
	}

	method := strings.TrimSpace(r.Method)
	if method == "" {
		method = "HTTP"
	}

	return method + " " + normalizeHTTPSpanRoute(r.URL.Path)
}

// normalizeHTTPSpanRoute keeps span names low-cardinality.
func normalizeHTTPSpanRoute(rawPath string) string {
	switch rawPath {
	case "/v1/plural", "/v1/singular", "/v1/rules", "/health", "/metrics":
		return rawPath
	}
	if strings.HasPrefix(rawPath, "/admin/rules/") {
		return "/admin/rules/*"
	}
	return "/*"
}

func buildServer(cfg *config.Config, handler http.Handler, serverAddr string) *http.Server {
	return &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func startServer(cfg *config.Config, logger *logging.Logger, srv *http.Server, serverAddr string) chan error {
	serverErrors := make(chan error, 1)
	go func() {
		logAttrs := []any{
			slog.String("address", serverAddr),
			slog.String("plural_endpoint", "/v1/plural"),
			slog.String("singular_endpoint", "/v1/singular"),
			slog.String("health_endpoint", "/health"),
			slog.Int("max_words_per_request", cfg.Server.MaxWordsPerRequest),
			slog.String("log_level", cfg.Observability.Logging.Level),
			slog.String("log_format", cfg.Observability.Logging.Format),
		}

		if cfg.Observability.MetricsEnabled {
			logAttrs = append(logAttrs, slog.String("metrics_endpoint", "/metrics"))
		}

		if cfg.Server.RateLimitEnabled {
			logAttrs = append(logAttrs,
				slog.Float64("rate_limit_rps", cfg.Server.RateLimitRPS),
				slog.Int("rate_limit_burst", cfg.Server.RateLimitBurst),
			)
		}

		logger.Info("server starting", logAttrs...)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed: %w", err)
		}
	}()
	return serverErrors
}

type healthResponse struct {
	Status           string         `json:"status"`
	CompiledMatchers map[string]int `json:"compiled_matchers"`
}

// healthHandler reports healthy once the engine has compiled matchers for
// both directions.
func healthHandler(engine *inflection.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logging.FromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")

		plural := engine.MatcherCount(inflection.ToPlural)
		singular := engine.MatcherCount(inflection.ToSingular)
		resp := healthResponse{
			Status: "healthy",
			CompiledMatchers: map[string]int{
				inflection.ToPlural.String():   plural,
				inflection.ToSingular.String(): singular,
			},
		}
		status := http.StatusOK
		if plural == 0 || singular == 0 {
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			reqLogger.Warn("health check failed", slog.String("check", "engine"))
		}

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
