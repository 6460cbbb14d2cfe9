package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
)

// AccessLogMiddleware logs one line per request and propagates a request id.
type AccessLogMiddleware struct {
	logger *slog.Logger
	now    func() time.Time
}

func (m *AccessLogMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		start := m.now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		m.logger.InfoContext(
			r.Context(),
			"request_completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", m.now().Sub(start).String(),
		)
	})
}

func NewAccessLogMiddleware(logger *slog.Logger) Middleware {
	return &AccessLogMiddleware{
		logger: logger,
		now:    time.Now,
	}
}
