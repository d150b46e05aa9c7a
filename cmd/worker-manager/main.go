// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"frequency-workers/internal/api"
	"frequency-workers/internal/booking"
	"frequency-workers/internal/catalog"
	awsnotify "frequency-workers/internal/common/aws"
	"frequency-workers/internal/common/camunda"
	"frequency-workers/internal/common/config"
	"frequency-workers/internal/common/database"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/common/observability"
	"frequency-workers/internal/common/supabase"
	"frequency-workers/internal/recommendation"
	"frequency-workers/internal/sessionstore"

	sfr "frequency-workers/internal/workers/communication/send-frequency-report"
	df "frequency-workers/internal/workers/frequency/describe-frequency"
	ffa "frequency-workers/internal/workers/frequency/find-frequency-asset"
	rf "frequency-workers/internal/workers/frequency/recommend-frequency"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
		zap.String("catalogBackend", cfg.Catalog.Backend),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zeebeClient, err := camunda.Connect(ctx, cfg.Camunda.BrokerAddress, true, camunda.DefaultRetryConfig, log)
	if err != nil {
		zapLog.Fatal("failed to connect to zeebe", zap.Error(err))
	}
	zapLog.Info("zeebe client connected", zap.String("address", cfg.Camunda.BrokerAddress))

	stores, err := openStores(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("failed to open stores", zap.Error(err))
	}
	defer stores.close()

	provider, err := catalog.New(cfg.Catalog, stores.backends)
	if err != nil {
		zapLog.Fatal("failed to build catalog provider", zap.Error(err))
	}

	engine := recommendation.NewEngine(provider, log, recommendation.WithObservability(obs))
	sessions := sessionstore.NewRedis(stores.redis.Client, cfg.Recommendation.GetSessionTTL())
	svc := booking.NewService(engine, sessions, log)

	workers := camunda.NewWorkers(zeebeClient, log)

	if wcfg := config.GetWorkerConfig(cfg, rf.TaskType); wcfg.Enabled {
		h := rf.NewHandler(rf.LoadConfig(wcfg), svc, log)
		workers.Start(rf.TaskType, wcfg, camunda.Instrument(obs, rf.TaskType, h.Handle))
	}

	if wcfg := config.GetWorkerConfig(cfg, df.TaskType); wcfg.Enabled {
		h := df.NewHandler(df.LoadConfig(wcfg), svc, log)
		workers.Start(df.TaskType, wcfg, camunda.Instrument(obs, df.TaskType, h.Handle))
	}

	if wcfg := config.GetWorkerConfig(cfg, ffa.TaskType); wcfg.Enabled {
		h := ffa.NewHandler(ffa.LoadConfig(wcfg), svc, log)
		workers.Start(ffa.TaskType, wcfg, camunda.Instrument(obs, ffa.TaskType, h.Handle))
	}

	if wcfg := config.GetWorkerConfig(cfg, sfr.TaskType); wcfg.Enabled {
		notifier, err := awsnotify.NewNotifier(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create aws notifier", zap.Error(err))
		}
		h, err := sfr.NewHandler(sfr.LoadConfig(wcfg, cfg.Notifications), svc, notifier, log)
		if err != nil {
			zapLog.Fatal("failed to create send-frequency-report handler", zap.Error(err))
		}
		workers.Start(sfr.TaskType, wcfg, camunda.Instrument(obs, sfr.TaskType, h.Handle))
	}

	zapLog.Info("workers registered", zap.Strings("taskTypes", workers.Running()))

	server := api.NewHTTPServer(cfg.HTTP.Address, api.NewRouter(svc, log, stores.checkers...))
	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLog.Info("shutdown signal received, stopping workers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error shutting down http server", zap.Error(err))
	}

	workers.Close()

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("error closing zeebe client", zap.Error(err))
	}

	zapLog.Info("worker manager stopped gracefully")
}

// stores holds the connections opened for the selected catalog backend plus Redis.
type stores struct {
	backends catalog.Backends
	redis    *database.RedisClient
	checkers []database.Checker
	closers  []func() error
}

func (s *stores) close() {
	for _, c := range s.closers {
		_ = c()
	}
}

// openStores opens only what cfg.Catalog.Backend needs. Every store is pinged through
// camunda.Retry so a slow container start does not kill the process.
func openStores(ctx context.Context, cfg *config.Config, log logger.Logger) (*stores, error) {
	s := &stores{}

	s.redis = database.NewRedis(cfg.Database.Redis)
	s.closers = append(s.closers, s.redis.Close)
	s.checkers = append(s.checkers, s.redis)

	switch cfg.Catalog.Backend {
	case config.CatalogBackendPostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		s.backends.Postgres = pg.DB
		s.closers = append(s.closers, pg.Close)
		s.checkers = append(s.checkers, pg)

	case config.CatalogBackendElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, err
		}
		s.backends.Elasticsearch = es.Client
		s.checkers = append(s.checkers, es)

	case config.CatalogBackendSupabase:
		client, err := supabase.New(supabase.Config{
			URL:     cfg.Supabase.URL,
			APIKey:  cfg.Supabase.APIKey,
			Timeout: config.GetDuration(cfg.Supabase.Timeout),
		})
		if err != nil {
			return nil, fmt.Errorf("supabase client: %w", err)
		}
		s.backends.Supabase = client
	}

	for _, c := range s.checkers {
		if err := camunda.Retry(ctx, camunda.DefaultRetryConfig, log, c.Name()+" connection", c.Ping); err != nil {
			s.close()
			return nil, err
		}
		log.Info("store connected", map[string]interface{}{"store": c.Name()})
	}
	return s, nil
}
