package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetkit/fleetkit/modules/fleet"
	"github.com/fleetkit/fleetkit/pkg/config"
	"github.com/fleetkit/fleetkit/pkg/entitlement"
	"github.com/fleetkit/fleetkit/pkg/httpserver"
	"github.com/fleetkit/fleetkit/pkg/logger"
	"github.com/fleetkit/fleetkit/pkg/pg"
	"github.com/fleetkit/fleetkit/pkg/plan"
	"github.com/fleetkit/fleetkit/pkg/redis"
	"github.com/fleetkit/fleetkit/pkg/subscription"
	"github.com/fleetkit/fleetkit/pkg/tenant"
	"github.com/fleetkit/fleetkit/pkg/usage"
)

type appConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	PlansPath      string        `env:"PLANS_PATH" envDefault:"plans.yml"`
	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	logOpt := logger.WithProduction("fleetd")
	if appCfg.Env == "development" {
		logOpt = logger.WithDevelopment("fleetd")
	}
	log := logger.New(logOpt, logger.WithContextExtractors(tenant.LoggerExtractor()))
	logger.SetAsDefault(log)

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "postgres connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "migrations failed", logger.Error(err))
		os.Exit(1)
	}

	var redisCfg redis.Config
	config.MustLoad(&redisCfg)
	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.ErrorContext(ctx, "redis connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	catalog, err := plan.NewCatalog(ctx, plan.NewYAMLSource(appCfg.PlansPath))
	if err != nil {
		log.ErrorContext(ctx, "plan catalog load failed", logger.Error(err))
		os.Exit(1)
	}

	gate := entitlement.NewGate(
		tenant.NewResolver(tenant.NewPGProvider(pool),
			tenant.WithCache(tenant.NewRedisCache(redisClient, "tenant")),
			tenant.WithCacheTTL(appCfg.TenantCacheTTL),
			tenant.WithLogger(log),
		),
		subscription.NewStateResolver(subscription.NewPGStore(pool), catalog),
		usage.NewPGRegistry(pool),
		catalog,
		entitlement.WithGateLogger(log),
	)

	reserver := usage.NewReserver(pool)

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pool), redis.Healthcheck(redisClient)))
	r.Mount("/", fleet.Router(fleet.RouterOptions{
		Gate:     gate,
		Hint:     tenant.NewHeaderHint(""),
		Vehicles: fleet.NewVehicleHandler(reserver, pool),
		Users:    fleet.NewUserHandler(reserver, pool),
	}))

	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)
	srv := httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
