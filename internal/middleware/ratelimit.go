package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"taskhive/internal/caching"
)

// RateLimit applies a fixed-window limit keyed by client IP. Redis being
// unreachable fails open: login must keep working without the cache.
func RateLimit(cache caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := c.Path() + ":" + c.RealIP()

			limited, err := cache.IsRateLimited(ctx, key, limit)
			if err != nil {
				log.Warn().Err(err).Msg("rate limit check failed")
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts, try again later")
			}

			if err := cache.IncrementRateLimit(ctx, key, window); err != nil {
				log.Warn().Err(err).Msg("rate limit increment failed")
			}

			return next(c)
		}
	}
}
