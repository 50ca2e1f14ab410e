package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/Hoozt/deepcraft-public-unit-library/internal/clock"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/config"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/models"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/notify"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/pipeline"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/queue"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/storage"
)

func main() {
	// Check mode: "subprocess" or "standalone"
	mode := getEnv("WORKER_MODE", "standalone")

	if mode == "subprocess" {
		// Subprocess mode: read one FrameJob from stdin, process it,
		// write the PipelineResult to stdout.
		runSubprocessMode()
	} else {
		// Standalone mode: Asynq queue consumer.
		runStandaloneMode()
	}
}

// runSubprocessMode reads a single FrameJob from stdin, runs it
// through the pipeline, and writes the PipelineResult to stdout. Used
// by callers that want one-shot invocation without a Redis queue.
func runSubprocessMode() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		sendError(fmt.Sprintf("failed to read stdin: %v", err))
		os.Exit(1)
	}

	var job models.FrameJob
	if err := json.Unmarshal(input, &job); err != nil {
		sendError(fmt.Sprintf("failed to parse frame job: %v", err))
		os.Exit(1)
	}
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}

	cfg, err := config.Load(getEnv("CONFIG_FILE", ""))
	if err != nil {
		sendError(fmt.Sprintf("failed to load config: %v", err))
		os.Exit(1)
	}

	// Subprocess mode skips Redis and PostgreSQL entirely; the caller
	// owns persistence of the returned result.
	p := pipeline.New(cfg, notify.NewClient(cfg.WebhookURL), nil, clock.New())

	result, err := p.Process(context.Background(), job)
	if err != nil {
		sendError(fmt.Sprintf("failed to process frame job: %v", err))
		os.Exit(1)
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		sendError(fmt.Sprintf("failed to marshal result: %v", err))
		os.Exit(1)
	}

	fmt.Println(string(resultJSON))
	os.Exit(0)
}

// runStandaloneMode runs the Asynq queue consumer, with an optional
// Postgres audit log and a cron-scheduled reset tick.
func runStandaloneMode() {
	log.Println("counting worker starting...")

	cfg, err := config.Load(getEnv("CONFIG_FILE", ""))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	notifier := notify.NewClient(cfg.WebhookURL)
	if cfg.WebhookURL != "" {
		log.Println("✓ webhook notifier configured")
	}

	var store *storage.StorageManager
	if cfg.PostgresURL != "" {
		store, err = storage.NewStorageManager(cfg.PostgresURL)
		if err != nil {
			log.Printf("WARNING: audit storage unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
			log.Println("✓ audit storage initialized")
		}
	}

	p := pipeline.New(cfg, notifier, store, clock.New())
	log.Println("✓ pipeline initialized")

	if err := checkRedis(cfg.RedisURL); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	log.Println("✓ Redis connection established")

	queueConsumer, err := queue.NewRedisConsumer(&queue.RedisConsumerConfig{
		RedisURL:    cfg.RedisURL,
		Concurrency: cfg.WorkerConcurrency,
		Pipeline:    p,
	})
	if err != nil {
		log.Fatalf("failed to initialize queue consumer: %v", err)
	}
	log.Println("✓ queue consumer initialized")

	// Reset-hour supervisor tick: runs every minute so a stream that
	// stops receiving frames still observes its reset hour. counting.Tick
	// samples the clock at most once per 60s and fires the reset at most
	// once per entry into the reset hour.
	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() { p.Tick() }); err != nil {
		log.Fatalf("failed to schedule reset tick: %v", err)
	}
	c.Start()
	defer c.Stop()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Printf("✓ metrics listening on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := queueConsumer.Start(); err != nil {
			errChan <- err
		}
	}()

	log.Println("✓ counting worker ready - waiting for jobs...")
	log.Printf("  - Concurrency: %d workers", cfg.WorkerConcurrency)
	log.Printf("  - Reset hour: %d", cfg.ResetHour)

	select {
	case <-sigChan:
		log.Println("shutdown signal received, stopping gracefully...")
		queueConsumer.Stop()
	case err := <-errChan:
		log.Fatalf("worker error: %v", err)
	}

	log.Println("counting worker stopped")
}

// sendError writes an error response to stdout as JSON, for subprocess
// mode callers that parse stdout as the result of the invocation.
func sendError(message string) {
	errorResponse := map[string]interface{}{
		"error":   message,
		"success": false,
	}
	errorJSON, _ := json.Marshal(errorResponse)
	fmt.Println(string(errorJSON))
}

// checkRedis fails fast if Redis is unreachable, before the Asynq
// consumer ever attempts to pop a job.
func checkRedis(redisURL string) error {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	return client.Ping(context.Background()).Err()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
