package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// HeaderRequestID carries the request ID. It matches the header
// middleware.RequestID reads incoming IDs from.
const HeaderRequestID = "X-Request-Id"

// RequestIDFromContext returns the request ID assigned by the router, or
// an empty string.
func RequestIDFromContext(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}

// echoRequestID copies the request ID onto the response.
func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := RequestIDFromContext(r.Context()); id != "" {
			w.Header().Set(HeaderRequestID, id)
		}

		next.ServeHTTP(w, r)
	})
}

// logFormatter feeds middleware.RequestLogger into zerolog.
type logFormatter struct {
	logger zerolog.Logger
}

func (f *logFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &logEntry{
		logger: f.logger.With().
			Str("request_id", RequestIDFromContext(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger(),
	}
}

type logEntry struct {
	logger zerolog.Logger
}

func (e *logEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	if status == 0 {
		status = http.StatusOK
	}

	e.logger.Info().
		Int("status", status).
		Int("bytes", bytes).
		Dur("duration", elapsed).
		Msg("request")
}

// Panic is called by middleware.Recoverer before it answers 500.
func (e *logEntry) Panic(v any, stack []byte) {
	e.logger.Error().
		Interface("panic", v).
		Bytes("stack", stack).
		Msg("handler panic")
}

// middlewares is the stack every route runs behind. Bodies are buffered in
// full for signing and validation, so they are capped at maxBytes.
func middlewares(logger zerolog.Logger, maxBytes int64) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		echoRequestID,
		middleware.RequestLogger(&logFormatter{logger: logger}),
		middleware.Recoverer,
		middleware.RequestSize(maxBytes),
	}
}
