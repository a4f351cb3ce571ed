package renderer

import (
	"context"
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/docdiagram/internal/logfields"
	"git.home.luguber.info/inful/docdiagram/internal/retry"
)

// WithRetry re-runs failed renders according to policy. A missing executable or a
// cancelled context is not retried. With no retries configured r is returned as is.
func WithRetry(r Renderer, policy retry.Policy, logger *slog.Logger) Renderer {
	if policy.MaxRetries <= 0 {
		return r
	}
	if logger == nil {
		logger = slog.Default()
	}
	return Func(func(ctx context.Context, sourcePath, format string) error {
		return policy.Do(ctx, func(attempt int) error {
			if attempt > 0 {
				logger.Info("Retrying diagram render",
					logfields.Path(sourcePath),
					slog.Int("attempt", attempt))
			}
			return r.Render(ctx, sourcePath, format)
		}, func(err error) bool {
			return ctx.Err() == nil && !errors.Is(err, ErrRendererNotFound)
		})
	})
}
