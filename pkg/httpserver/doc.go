// Package httpserver wraps net/http with graceful shutdown, environment
// configuration, and health probes.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives,
// then drains in-flight requests within the shutdown timeout. Listen
// failures are wrapped with ErrStart, shutdown failures with ErrShutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler doubles as a liveness probe (no checks) and a
// readiness probe (pass pg.Healthcheck, redis.Healthcheck).
package httpserver
