package components

import (
	"context"
	"time"

	"parkshare/internal/handler"
	"parkshare/internal/handler/api"
	"parkshare/internal/handler/middleware"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/ratelimit"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewRateLimiter,
		api.NewAuthHandler,
		api.NewSlotHandler,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewRateLimiter(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) *ratelimit.Limiter {
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window, clk)

	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go limiter.SweepLoop(time.Minute, stop)
			return nil
		},
		OnStop: func(_ context.Context) error {
			close(stop)
			return nil
		},
	})

	return limiter
}
