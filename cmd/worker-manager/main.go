// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"ticket-workers/internal/common/camunda"
	"ticket-workers/internal/common/config"
	"ticket-workers/internal/common/database"
	"ticket-workers/internal/common/logger"
	"ticket-workers/internal/common/observability"
	"ticket-workers/internal/ticket/classify"
	"ticket-workers/internal/ticket/importer"
	"ticket-workers/internal/ticket/parser"
	"ticket-workers/internal/ticket/service"
	"ticket-workers/internal/ticket/store"
	"ticket-workers/internal/ticket/validate"
	"ticket-workers/pkg/registry"

	ct "ticket-workers/internal/workers/ticket/classify-ticket"
	crt "ticket-workers/internal/workers/ticket/create-ticket"
	it "ticket-workers/internal/workers/ticket/import-tickets"
	qt "ticket-workers/internal/workers/ticket/query-tickets"
)

var dependencyRetry = &camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func main() {
	bootLog := logger.New(logger.Options{Level: "info", Format: "console"})
	defer bootLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	log.Info("starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	obs := observability.New(cfg.App.Name)
	if cfg.Tracing.Enabled {
		obs.EnableTracing(cfg.App.Name, observability.NewLogExporter(log))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	log.Info("zeebe client connected", nil)

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = camunda.Retry(ctx, dependencyRetry, "PostgreSQL connection", log, func(ctx context.Context) error {
		client, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return err
		}
		pg = client
		return nil
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected", nil)

	if cfg.Database.Postgres.AutoMigrate {
		if err := store.Migrate(ctx, pg.DB); err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		log.Info("ticket schema applied", nil)
	}

	var opts []service.Option

	// --- Redis (ticket cache) ---
	if cfg.Cache.Enabled {
		redisClient := database.NewRedis(cfg.Database.Redis)
		err = camunda.Retry(ctx, dependencyRetry, "Redis connection", log, redisClient.Ping)
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		opts = append(opts, service.WithCache(
			store.NewTicketCache(redisClient.Client, time.Duration(cfg.Cache.TicketTTL)*time.Second),
		))
		log.Info("redis ticket cache enabled", map[string]interface{}{"ttlSeconds": cfg.Cache.TicketTTL})
	}

	// --- Elasticsearch (ticket search) ---
	if cfg.Search.Enabled {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client failed", zap.Error(err))
		}
		err = camunda.Retry(ctx, dependencyRetry, "Elasticsearch connection", log, esClient.Ping)
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		opts = append(opts, service.WithSearch(store.NewSearchIndexer(esClient.Client, cfg.Search.Index)))
		log.Info("elasticsearch indexing enabled", map[string]interface{}{"index": cfg.Search.Index})
	}

	// --- Ticket domain ---
	table, err := registry.LoadKeywordTable(cfg.Classification.KeywordsPath)
	if err != nil {
		zapLog.Fatal("keyword table load failed", zap.Error(err))
	}

	tickets := service.New(
		store.NewTicketRepository(pg.DB),
		store.NewClassificationLogRepository(pg.DB),
		classify.NewEngine(table),
		log,
		opts...,
	)
	formats := parser.DefaultRegistry()
	validator := validate.NewTicketValidator()
	orchestrator := importer.NewOrchestrator(formats, validator, tickets, log)

	// --- Workers ---
	var workers []worker.JobWorker
	register := func(taskType string, handler camunda.JobHandler) {
		if w := camunda.StartWorker(zeebe.GetClient(), taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log); w != nil {
			workers = append(workers, w)
		}
	}

	importCfg := config.GetWorkerConfig(cfg, it.TaskType)
	register(it.TaskType, it.NewHandler(&it.Config{
		Timeout:             config.GetDuration(importCfg.Timeout),
		MaxFileBytes:        cfg.Import.MaxFileBytes,
		DefaultAutoClassify: cfg.Import.DefaultAutoClassify,
		FailOnFileError:     cfg.Import.FailOnFileError,
	}, orchestrator, formats, obs, log))

	register(ct.TaskType, ct.NewHandler(&ct.Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, ct.TaskType).Timeout),
	}, tickets, log))

	register(crt.TaskType, crt.NewHandler(&crt.Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, crt.TaskType).Timeout),
	}, validator, tickets, log))

	queryCfg := qt.LoadConfig()
	queryCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, qt.TaskType).Timeout)
	register(qt.TaskType, qt.NewHandler(queryCfg, tickets, log))

	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics ---
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newServeMux(readinessChecks(zeebe, pg)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("health/metrics server failed", nil)
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("health/metrics server shutdown failed", nil)
	}

	log.Info("worker manager stopped", nil)
}

func readinessChecks(zeebe *camunda.Client, pg *database.PostgresClient) map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"zeebe":    zeebe.HealthCheck,
		"postgres": pg.Ping,
	}
}
