package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fleetkit/fleetkit/pkg/logger"
)

// HealthCheckHandler returns a probe handler. With no checks it answers
// liveness (200 "ALIVE"); with checks it answers readiness, running each
// against the request context and returning 500 "NOT_READY" on the first
// failure. pg.Healthcheck and redis.Healthcheck plug in directly.
func HealthCheckHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
