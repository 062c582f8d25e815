package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"inflectd/internal/config"
	"inflectd/internal/serverapp"
	"inflectd/pkg/inflection"

	"github.com/spf13/pflag"
)

var (
	// Version is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
	Commit  = "none"
)

const usage = `Usage: inflectd [flags] [command] [args]

Commands:
  serve              Run the HTTP service (default)
  plural WORD...     Print the plural of each word
  singular WORD...   Print the singular of each word
  rules              Print the active rules as YAML

Flags:
`

func main() {
	if err := run(os.Args[1:], config.DefaultSources(), os.Stdout, os.Stderr); err != nil {
		slog.Error("inflectd error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string, src config.Sources, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("inflectd", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	config.DefineFlags(fs)
	fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion, _ := fs.GetBool("version"); showVersion {
		fmt.Fprintf(stdout, "inflectd %s (%s)\n", Version, Commit)
		return nil
	}

	command := "serve"
	rest := fs.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	cfg, err := config.Load(fs, src)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Observability.ServiceVersion == "" {
		cfg.Observability.ServiceVersion = Version
	}
	if err := validate(cfg); err != nil {
		return err
	}

	switch command {
	case "serve":
		return serve(cfg)
	case "plural", "singular":
		dir, _ := inflection.ParseDirection(command)
		if len(rest) == 0 {
			return fmt.Errorf("%s requires at least one word", command)
		}
		return withEngine(cfg, stderr, func(app *cliApp) error {
			for _, word := range rest {
				if _, err := fmt.Fprintln(stdout, app.namer.Inflect(word, dir)); err != nil {
					return err
				}
			}
			return nil
		})
	case "rules":
		return withEngine(cfg, stderr, func(app *cliApp) error {
			return dumpRules(stdout, app.engine)
		})
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func validate(cfg *config.Config) error {
	validationResult := cfg.Validate()
	for _, warn := range validationResult.Warnings {
		slog.Warn("configuration warning",
			slog.String("field", warn.Field),
			slog.String("message", warn.Message),
			slog.String("hint", warn.Hint),
		)
	}
	if validationResult.HasErrors() {
		for _, err := range validationResult.Errors {
			slog.Error("configuration error",
				slog.String("field", err.Field),
				slog.String("message", err.Message),
				slog.String("hint", err.Hint),
			)
		}
		return fmt.Errorf("configuration validation failed: %s", validationResult.Error())
	}
	return nil
}

func serve(cfg *config.Config) error {
	logger, loggerProvider, err := serverapp.InitLogger(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	app, err := serverapp.New(cfg, logger)
	if err != nil {
		if loggerProvider != nil {
			_ = loggerProvider.Shutdown(context.Background(), logger.Logger)
		}
		return err
	}
	app.AttachLoggerProvider(loggerProvider)

	if err := app.Init(context.Background()); err != nil {
		return err
	}

	serverErrors, err := app.Start()
	if err != nil {
		_ = app.Shutdown(context.Background())
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	_, waitErr := app.WaitForStop(stop, serverErrors)

	logger.Info("shutting down server gracefully")
	shutdownErr := app.Shutdown(context.Background())

	if waitErr != nil {
		return waitErr
	}
	if shutdownErr != nil {
		return shutdownErr
	}

	logger.Info("server stopped gracefully")
	return nil
}
