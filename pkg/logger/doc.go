// Package logger builds configured log/slog loggers for fleetkit services.
//
// The factory supports JSON (production) and text (development) formats,
// static attributes, and context extractors: functions that pull
// request-scoped values such as the tenant ID out of context on every log
// record. Pair it with tenant.LoggerExtractor so every line emitted while
// handling a gated request carries its tenant.
//
//	log := logger.New(
//		logger.WithProduction("fleet-api"),
//		logger.WithContextExtractors(tenant.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
package logger
