// cmd/research-worker/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "fantasy-research/internal/common/aws"
	"fantasy-research/internal/common/camunda"
	"fantasy-research/internal/common/config"
	"fantasy-research/internal/common/database"
	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/common/observability"
	"fantasy-research/internal/notify"
	"fantasy-research/internal/research"

	cq "fantasy-research/internal/workers/research/contextual-queries"
	et "fantasy-research/internal/workers/research/evaluate-trade"
	nc "fantasy-research/internal/workers/research/news-context"
	ri "fantasy-research/internal/workers/research/recent-insights"
	rq "fantasy-research/internal/workers/research/research-query"
	si "fantasy-research/internal/workers/research/search-insights"
	ss "fantasy-research/internal/workers/research/start-sit"
	wr "fantasy-research/internal/workers/research/waiver-recommendations"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting research worker", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.Plaintext,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig:            &camunda.RetryConfig{MaxRetries: 10, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second},
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected successfully", nil)

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	log.Info("PostgreSQL connected successfully", nil)

	// --- Redis (optional) ---
	redisClient, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis client init failed", zap.Error(err))
	}
	if redisClient != nil {
		if err := retryWithBackoff(func() error { return redisClient.Ping(ctx) }, 10, 2*time.Second, log, "Redis connection"); err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("Redis connected successfully", nil)
	}

	// --- Insight sinks ---
	var sinks []research.InsightSink

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch client init failed", zap.Error(err))
	}
	var index *research.InsightIndex
	if esClient != nil {
		err = retryWithBackoff(func() error { return esClient.Ping(ctx) }, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		index = research.NewInsightIndex(esClient.Client, cfg.Database.Elasticsearch.Index, log)
		if err := index.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("insight index setup failed", zap.Error(err))
		}
		sinks = append(sinks, index)
		log.Info("Elasticsearch connected successfully", nil)
	}

	if cfg.Notifications.Enabled() {
		awsCfg, err := awsclients.LoadConfig(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		sinks = append(sinks, notify.NewInsightNotifier(
			notifierConfig(cfg.Notifications),
			awsclients.NewSNSClient(awsCfg),
			awsclients.NewSESClient(awsCfg),
			log,
		))
		log.Info("insight notifications enabled", map[string]interface{}{
			"sns": cfg.Notifications.SNS.Enabled,
			"ses": cfg.Notifications.SES.Enabled,
		})
	}

	// --- Research engine ---
	researchClient := research.NewClient(researchClientConfig(cfg.Research), log)
	if !researchClient.Enabled() {
		log.Warn("research gate closed; research jobs will complete without answers", nil)
	}
	store := research.NewPostgresStore(pg.DB, redisClient.Cmdable(), config.GetDuration(cfg.Cache.CurrentWeekTTL), log)
	orchestrator := research.NewOrchestrator(researchClient, store, log, sinks...)
	responder := camunda.NewJobResponder(log, obs)

	// --- Workers ---
	workers := registerWorkers(cfg, zeebe, orchestrator, index, responder, log)
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	server := newHealthServer(cfg.App.HealthPort, pg, zeebe)
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}
	log.Info("research worker stopped gracefully", nil)
}

func registerWorkers(
	cfg *config.Config,
	zeebe *camunda.Client,
	orchestrator *research.Orchestrator,
	index *research.InsightIndex,
	responder *camunda.JobResponder,
	log logger.Logger,
) []*camunda.CamundaWorker {
	handlers := map[string]func(timeout time.Duration) camunda.JobHandler{
		rq.TaskType: func(timeout time.Duration) camunda.JobHandler {
			return rq.NewHandler(&rq.Config{Timeout: timeout}, orchestrator, responder, log)
		},
		ss.TaskType: func(timeout time.Duration) camunda.JobHandler {
			return ss.NewHandler(&ss.Config{Timeout: timeout}, orchestrator, responder, log)
		},
		et.TaskType: func(timeout time.Duration) camunda.JobHandler {
			return et.NewHandler(&et.Config{Timeout: timeout}, orchestrator, responder, log)
		},
		wr.TaskType: func(timeout time.Duration) camunda.JobHandler {
			return wr.NewHandler(&wr.Config{Timeout: timeout}, orchestrator, responder, log)
		},
		nc.TaskType: func(timeout time.Duration) camunda.JobHandler {
			return nc.NewHandler(&nc.Config{Timeout: timeout}, orchestrator, responder, log)
		},
		cq.TaskType: func(timeout time.Duration) camunda.JobHandler {
			return cq.NewHandler(&cq.Config{Timeout: timeout}, orchestrator, responder, log)
		},
		ri.TaskType: func(timeout time.Duration) camunda.JobHandler {
			return ri.NewHandler(&ri.Config{Timeout: timeout}, orchestrator, responder, log)
		},
	}
	defaults := map[string]time.Duration{
		rq.TaskType: rq.LoadConfig().Timeout,
		ss.TaskType: ss.LoadConfig().Timeout,
		et.TaskType: et.LoadConfig().Timeout,
		wr.TaskType: wr.LoadConfig().Timeout,
		nc.TaskType: nc.LoadConfig().Timeout,
		cq.TaskType: cq.LoadConfig().Timeout,
		ri.TaskType: ri.LoadConfig().Timeout,
		si.TaskType: si.LoadConfig().Timeout,
	}
	if index != nil {
		handlers[si.TaskType] = func(timeout time.Duration) camunda.JobHandler {
			return si.NewHandler(&si.Config{Timeout: timeout}, index, responder, log)
		}
	} else {
		log.Info("search-insights worker not started: elasticsearch is not configured", nil)
	}

	var workers []*camunda.CamundaWorker
	for taskType, build := range handlers {
		if !config.IsWorkerEnabled(cfg, taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			continue
		}
		wc := config.GetWorkerConfig(cfg, taskType)
		timeout := defaults[taskType]
		if wc.Timeout > 0 {
			timeout = config.GetDuration(wc.Timeout)
		}
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      taskType,
			MaxJobsActive: wc.MaxJobsActive,
			// Zeebe lock must outlast the handler's own deadline.
			Timeout: timeout + 15*time.Second,
		}, build(timeout), log))
	}
	return workers
}

func researchClientConfig(rc config.ResearchConfig) research.ClientConfig {
	return research.ClientConfig{
		Enabled:       rc.Enabled,
		APIKey:        rc.APIKey,
		BaseURL:       rc.BaseURL,
		Model:         rc.Model,
		MaxTokens:     rc.MaxTokens,
		Temperature:   rc.Temperature,
		TopP:          rc.TopP,
		Timeout:       config.GetDuration(rc.Timeout),
		DomainFilter:  rc.DomainFilter,
		RecencyFilter: rc.RecencyFilter,
	}
}

func notifierConfig(nc config.NotificationConfig) notify.Config {
	return notify.Config{
		SNSEnabled:  nc.SNS.Enabled,
		TopicARN:    nc.SNS.TopicARN,
		SESEnabled:  nc.SES.Enabled,
		FromAddress: nc.SES.FromEmail,
		ToAddresses: nc.SES.ToEmails,
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func newHealthServer(port int, db pinger, zeebe healthChecker) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		if err := db.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			ready = false
		}
		if err := zeebe.HealthCheck(ctx); err != nil {
			checks["zeebe"] = err.Error()
			ready = false
		}
		if !ready {
			writeStatus(w, http.StatusServiceUnavailable, "not_ready", checks)
			return
		}
		writeStatus(w, http.StatusOK, "ready", nil)
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
