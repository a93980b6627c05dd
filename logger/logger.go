// Package logger wraps zerolog for the service and wires it into echo: every
// request carries a child logger tagged with its request id.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type Logger struct {
	zerolog.Logger
}

// NewLogger writes JSON lines to stdout at the given level ("debug", "info"…).
// An unknown level falls back to info.
func NewLogger(role, level string) *Logger {
	return newLogger(os.Stdout, role, level)
}

func newLogger(w io.Writer, role, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(w).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{logger}
}

func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// FromContext returns the request-scoped logger, or a disabled one.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*zerolog.Ctx(ctx)}
}

func FromEcho(c echo.Context) *Logger {
	return FromContext(c.Request().Context())
}

// RequestID assigns each request a uuid (or keeps the inbound X-Request-ID)
// and stores a child logger carrying it in the request context.
func (l *Logger) RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			child := l.With().Str("request_id", id).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(child.WithContext(req.Context())))
		},
	})
}

// AccessLog logs one line per request after the error handler has written
// the response.
func (l *Logger) AccessLog() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := FromEcho(c).Info()
			if v.Status >= 500 {
				event = FromEcho(c).Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("duration", v.Latency).
				Send()
			return nil
		},
	})
}

// Recover turns a panic into an error for the error handler and logs it with
// the goroutine's stack.
func (l *Logger) Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:           4 << 10,
		DisableStackAll:     true,
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			FromEcho(c).Error().Err(err).Bytes("stack", stack).Msg("panic recovered")
			return err
		},
	})
}
