package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Hoozt/deepcraft-public-unit-library/internal/models"
	"github.com/Hoozt/deepcraft-public-unit-library/internal/pipeline"
)

// TaskTypeProcessFrame is the Asynq task type a FrameJob is enqueued
// under.
const TaskTypeProcessFrame = "counting:process_frame"

// frameQueue is the sole Asynq queue frame jobs travel through. Unlike
// a job queue fed by user-initiated requests, frame jobs carry no
// relative priority to weight against each other — every job is one
// timestamped sample of the same live signal, so a tiered
// critical/default/low split would have nothing to discriminate on.
const frameQueue = "counting:frames"

// frameJobMaxRetry and frameRetryDelay encode spec.md §7's real-time
// philosophy ("nothing is retried; nothing is reported upward...
// dropping is preferable to blocking") into the one retry boundary
// Asynq forces on an otherwise at-most-once system: a transient Redis
// or handler blip gets exactly one fast retry, not an escalating
// backoff. By the time a second retry would run, the frame it carries
// is several frames stale and the tracker has already moved on, so
// retrying it further would only waste a worker slot.
const (
	frameJobMaxRetry = 1
	frameRetryDelay  = 2 * time.Second
)

// RedisConsumer consumes frame jobs from Redis and runs them through
// the tracker/counter pipeline.
type RedisConsumer struct {
	server   *asynq.Server
	pipeline *pipeline.Pipeline
}

// RedisConsumerConfig holds consumer configuration.
type RedisConsumerConfig struct {
	RedisURL    string
	Concurrency int
	Pipeline    *pipeline.Pipeline
}

// NewRedisConsumer creates a new Redis queue consumer over the single
// real-time frame queue.
func NewRedisConsumer(cfg *RedisConsumerConfig) (*RedisConsumer, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				frameQueue: 1,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return frameRetryDelay
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("frame job on %s failed (retried while the retry budget lasts): %v", task.Type(), err)
			}),
		},
	)

	return &RedisConsumer{
		server:   server,
		pipeline: cfg.Pipeline,
	}, nil
}

// Start starts the consumer.
func (rc *RedisConsumer) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeProcessFrame, rc.handleProcessFrame)

	log.Println("Starting counting worker...")

	if err := rc.server.Run(mux); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	return nil
}

// Stop stops the consumer gracefully.
func (rc *RedisConsumer) Stop() {
	log.Println("Shutting down counting worker...")
	rc.server.Shutdown()
}

// handleProcessFrame decodes a FrameJob and runs it through the
// pipeline.
func (rc *RedisConsumer) handleProcessFrame(ctx context.Context, task *asynq.Task) error {
	var job models.FrameJob
	if err := json.Unmarshal(task.Payload(), &job); err != nil {
		return fmt.Errorf("failed to unmarshal frame job: %w", err)
	}

	result, err := rc.pipeline.Process(ctx, job)
	if err != nil {
		log.Printf("frame job %s failed: %v", job.JobID, err)
		return err
	}

	log.Printf("frame job %s: %d tracks active, in=%d out=%d", job.JobID, result.TracksActive, result.InCount, result.OutCount)
	return nil
}

// HealthCheck checks if the worker is healthy.
func (rc *RedisConsumer) HealthCheck() error {
	if rc.server == nil {
		return fmt.Errorf("server not initialized")
	}
	return nil
}

// EnqueueFrameJob marshals a FrameJob and enqueues it onto the frame
// queue with the real-time retry budget: at most one retry, and a
// short fixed delay rather than a growing backoff.
func EnqueueFrameJob(client *asynq.Client, job models.FrameJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal frame job: %w", err)
	}
	_, err = client.Enqueue(
		asynq.NewTask(TaskTypeProcessFrame, payload),
		asynq.Queue(frameQueue),
		asynq.MaxRetry(frameJobMaxRetry),
	)
	return err
}
