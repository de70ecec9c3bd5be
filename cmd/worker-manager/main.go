// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"creator-campaign-workers/internal/catalog"
	"creator-campaign-workers/internal/common/auth"
	"creator-campaign-workers/internal/common/aws"
	"creator-campaign-workers/internal/common/camunda"
	"creator-campaign-workers/internal/common/config"
	"creator-campaign-workers/internal/common/database"
	"creator-campaign-workers/internal/common/logger"
	"creator-campaign-workers/internal/common/observability"
	"creator-campaign-workers/internal/common/validation"
	"creator-campaign-workers/internal/eligibility"
	"creator-campaign-workers/internal/submission"
	"creator-campaign-workers/pkg/registry"

	fcr "creator-campaign-workers/internal/workers/application/fetch-campaign-requirement"
	na "creator-campaign-workers/internal/workers/application/notify-applicant"
	sca "creator-campaign-workers/internal/workers/application/submit-campaign-application"
	vca "creator-campaign-workers/internal/workers/application/validate-campaign-application"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New("info", "console")
		bootstrap.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
		obs = observability.NewNoop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zeebe, err := camunda.NewClient(cfg.Camunda.BrokerAddress)
	if err != nil {
		zapLog.Fatal("zeebe client init failed", zap.Error(err))
	}
	defer zeebe.Close()
	mustWait(ctx, zeebe, log, zapLog)

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	mustWait(ctx, rdb, log, zapLog)

	source, backends := connectCatalog(ctx, cfg, log, zapLog)
	defer func() {
		for _, c := range backends.closers {
			_ = c()
		}
	}()
	cached := catalog.NewCachedSource(source, rdb.Client, config.GetDuration(cfg.Catalog.CacheTTL), log)

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	schemas := validation.NewSchemaCache()
	inputSchema := func(taskType string) *validation.Schema {
		raw, err := reg.InputSchema(taskType)
		if err != nil {
			zapLog.Fatal("input schema missing", zap.String("taskType", taskType), zap.Error(err))
		}
		s, err := schemas.Get(taskType, raw)
		if err != nil {
			zapLog.Fatal("input schema invalid", zap.String("taskType", taskType), zap.Error(err))
		}
		return s
	}

	engine := eligibility.NewEngine(
		eligibility.WithBrackets(eligibility.DefaultBrackets(cfg.Eligibility.FollowerCutoff)),
		eligibility.WithDefaultMinAge(cfg.Eligibility.DefaultMinAge),
	)

	var tokens auth.TokenSource
	if kc := cfg.Auth.Keycloak; kc.Enabled() {
		tokens = auth.NewKeycloakClient(kc.URL, kc.Realm, kc.ClientID, kc.ClientSecret)
	}
	submitter := submission.NewHTTPSubmitter(cfg.APIs.Submission, tokens, log)
	guard := submission.NewRedisGuard(rdb.Client, config.GetDuration(cfg.APIs.Submission.InFlightTTL))

	var workers []*camunda.CamundaWorker
	start := func(taskType string, handler camunda.JobHandler) {
		wc := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      taskType,
			MaxJobsActive: wc.MaxJobsActive,
			Timeout:       config.GetDuration(wc.Timeout),
		}, handler, obs, log))
	}

	if config.IsWorkerEnabled(cfg, fcr.TaskType) {
		start(fcr.TaskType, fcr.NewHandler(
			fcr.LoadConfig(config.GetWorkerConfig(cfg, fcr.TaskType)),
			fcr.Dependencies{Source: cached, InputSchema: inputSchema(fcr.TaskType), SourceName: cfg.Catalog.Source},
			log,
		))
	}

	if config.IsWorkerEnabled(cfg, vca.TaskType) {
		start(vca.TaskType, vca.NewHandler(
			vca.LoadConfig(config.GetWorkerConfig(cfg, vca.TaskType)),
			vca.Dependencies{Engine: engine, InputSchema: inputSchema(vca.TaskType)},
			log,
		))
	}

	if config.IsWorkerEnabled(cfg, sca.TaskType) {
		start(sca.TaskType, sca.NewHandler(
			sca.LoadConfig(config.GetWorkerConfig(cfg, sca.TaskType)),
			sca.Dependencies{Submitter: submitter, Guard: guard, Engine: engine, InputSchema: inputSchema(sca.TaskType)},
			log,
		))
	}

	if config.IsWorkerEnabled(cfg, na.TaskType) {
		deps := na.Dependencies{InputSchema: inputSchema(na.TaskType)}
		awsCfg := cfg.Integrations.AWS
		if awsCfg.SES.Enabled {
			sesClient, err := aws.NewSESClient(ctx, awsCfg.Region)
			if err != nil {
				zapLog.Fatal("ses client init failed", zap.Error(err))
			}
			deps.Email = sesClient
		}
		if awsCfg.SNS.Enabled {
			snsClient, err := aws.NewSNSClient(ctx, awsCfg.Region)
			if err != nil {
				zapLog.Fatal("sns client init failed", zap.Error(err))
			}
			deps.SMS = snsClient
		}
		start(na.TaskType, na.NewHandler(na.LoadConfig(cfg, config.GetWorkerConfig(cfg, na.TaskType)), deps, log))
	}

	zapLog.Info("workers started", zap.Int("count", len(workers)))

	server := newHealthServer(cfg.App.HealthPort, append([]database.Pinger{zeebe, rdb}, backends.pingers...), log)
	go func() {
		if err := server.ListenAndServe(); err != nil && !isServerClosed(err) {
			zapLog.Error("health server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLog.Info("shutdown signal received, stopping workers")

	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("health server shutdown", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("otel shutdown", zap.Error(err))
	}
	zapLog.Info("worker manager stopped")
}

type catalogBackends struct {
	pingers []database.Pinger
	closers []func() error
}

// connectCatalog connects only the backend selected by catalog.source.
func connectCatalog(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) (catalog.Source, catalogBackends) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client init failed", zap.Error(err))
		}
		mustWait(ctx, es, log, zapLog)
		return catalog.NewElasticsearchSource(es.Client, cfg.Catalog.Index),
			catalogBackends{pingers: []database.Pinger{es}}
	default:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres client init failed", zap.Error(err))
		}
		mustWait(ctx, pg, log, zapLog)
		return catalog.NewPostgresSource(pg.DB),
			catalogBackends{pingers: []database.Pinger{pg}, closers: []func() error{pg.Close}}
	}
}

func mustWait(ctx context.Context, p database.Pinger, log logger.Logger, zapLog *zap.Logger) {
	if err := database.WaitReady(ctx, p, database.DefaultBackoff, log); err != nil {
		zapLog.Fatal(fmt.Sprintf("%s unavailable", p.Name()), zap.Error(err))
	}
	zapLog.Info("backend connected", zap.String("backend", p.Name()))
}
