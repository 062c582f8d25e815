package serverapp

import (
	"context"
	"log/slog"

	"inflectd/internal/logging"
)

// cleanupStack releases resources in reverse order of acquisition.
type cleanupStack struct {
	items []cleanupItem
}

type cleanupItem struct {
	name string
	fn   func(context.Context) error
}

func (s *cleanupStack) push(name string, fn func(context.Context) error) {
	s.items = append(s.items, cleanupItem{name: name, fn: fn})
}

// run calls every cleanup function, continuing past failures, and returns
// how many failed.
func (s *cleanupStack) run(ctx context.Context, logger *logging.Logger) int {
	failed := 0
	for i := len(s.items) - 1; i >= 0; i-- {
		item := s.items[i]
		if logger != nil {
			logger.Debug("releasing resource", slog.String("component", item.name))
		}
		if err := item.fn(ctx); err != nil {
			failed++
			if logger != nil {
				logger.Warn("cleanup error",
					slog.String("component", item.name),
					slog.String("error", err.Error()),
				)
			}
		}
	}
	return failed
}

// Shutdown releases all acquired resources. A ctx without a deadline is
// bounded by server.shutdown_timeout. It is safe to call multiple times.
func (a *App) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a.shutdownOnce.Do(func() {
		a.stateMu.Lock()
		cleanup := a.cleanup
		a.started = false
		a.stateMu.Unlock()

		if _, ok := ctx.Deadline(); !ok && a.cfg != nil && a.cfg.Server.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
			defer cancel()
		}

		if failed := cleanup.run(ctx, a.logger); failed > 0 && a.logger != nil {
			a.logger.Warn("shutdown finished with errors", slog.Int("failed", failed))
		} else if a.logger != nil {
			a.logger.Info("shutdown complete")
		}
	})

	return nil
}
