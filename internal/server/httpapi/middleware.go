package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/dmitrijs2005/gophquiz/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const sessionKey = "session"

// requireSession rejects requests without a live session and stores the
// session in the echo context for the handler.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		sess, err := s.sessions.Current(ctx, sessionToken(c))
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				return c.JSON(http.StatusUnauthorized, errorBody{Error: msgUnauthorized})
			}
			s.logger.Error(ctx, "session lookup failed", "error", err)
			return c.JSON(http.StatusInternalServerError, errorBody{Error: msgInternal})
		}

		c.Set(sessionKey, sess)
		return next(c)
	}
}

func currentSession(c echo.Context) *models.Session {
	sess, _ := c.Get(sessionKey).(*models.Session)
	return sess
}

func sessionToken(c echo.Context) string {
	cookie, err := c.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// loginRateLimiter limits login attempts per client IP.
func loginRateLimiter(opts Options) []echo.MiddlewareFunc {
	if opts.LoginRatePerSecond <= 0 {
		return nil
	}
	burst := opts.LoginBurst
	if burst <= 0 {
		burst = 1
	}

	deny := func(c echo.Context, _ string, _ error) error {
		return c.JSON(http.StatusTooManyRequests, resultBody{Success: false, Message: msgTooManyAttempts})
	}

	return []echo.MiddlewareFunc{middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(opts.LoginRatePerSecond),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return deny(c, "", err)
		},
		DenyHandler: deny,
	})}
}

// requestLogger writes one access log line per request. Bodies and
// cookies are never logged.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				args = append(args, "error", v.Error.Error())
				s.logger.Warn(c.Request().Context(), "request", args...)
				return nil
			}
			s.logger.Info(c.Request().Context(), "request", args...)
			return nil
		},
	})
}
