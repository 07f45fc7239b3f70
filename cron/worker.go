package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"courtbook/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypePregenerateSlots    = "slots:pregenerate"
	TypePruneElapsedSlots   = "slots:prune"
	TypeRefreshAvailability = "slots:refresh"

	jobTimeout = 2 * time.Minute
)

// PregeneratePayload is the body of a slots:pregenerate task.
type PregeneratePayload struct {
	Days int `json:"days"`
}

// Worker runs the maintenance jobs on an asynq queue and enqueues them on a
// fixed schedule.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    *zap.Logger
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewWorker registers the job handlers. Nothing runs until Start.
func NewWorker(jobs *Jobs, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"maintenance": 1,
			},
		},
	)
	return &Worker{
		server:    srv,
		scheduler: asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{Location: config.Location()}),
		mux:       NewServeMux(jobs, logger),
		logger:    logger,
	}
}

// NewServeMux routes each maintenance task type to its job.
func NewServeMux(jobs *Jobs, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePregenerateSlots, handlePregenerate(jobs, logger))
	mux.HandleFunc(TypePruneElapsedSlots, func(ctx context.Context, _ *asynq.Task) error {
		return runWithTimeout(ctx, jobTimeout, func(ctx context.Context) error {
			_, err := jobs.PruneElapsedSlots(ctx)
			return err
		})
	})
	mux.HandleFunc(TypeRefreshAvailability, func(ctx context.Context, _ *asynq.Task) error {
		return runWithTimeout(ctx, jobTimeout, func(ctx context.Context) error {
			_, err := jobs.RefreshAvailability(ctx)
			return err
		})
	})
	return mux
}

func handlePregenerate(jobs *Jobs, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p PregeneratePayload
		if len(task.Payload()) > 0 {
			if err := json.Unmarshal(task.Payload(), &p); err != nil {
				logger.Error("invalid pregenerate payload", zap.Error(err))
				return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
			}
		}
		if p.Days <= 0 {
			p.Days = config.AppConfig.PregenerateDays
		}
		return runWithTimeout(ctx, jobTimeout, func(ctx context.Context) error {
			_, err := jobs.PregenerateSlots(ctx, p.Days)
			return err
		})
	}
}

// NewPregenerateTask builds a slots:pregenerate task covering days dates.
func NewPregenerateTask(days int) (*asynq.Task, error) {
	b, err := json.Marshal(PregeneratePayload{Days: days})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePregenerateSlots, b, asynq.Queue("maintenance")), nil
}

// Start registers the periodic entries and runs server and scheduler in the
// background. It returns once both are registered.
func (w *Worker) Start() error {
	spec := config.AppConfig.MaintenanceInterval
	if spec == "" {
		spec = "@every 15m"
	}

	pregenerate, err := NewPregenerateTask(config.AppConfig.PregenerateDays)
	if err != nil {
		return err
	}
	tasks := []*asynq.Task{
		pregenerate,
		asynq.NewTask(TypeRefreshAvailability, nil, asynq.Queue("maintenance")),
		asynq.NewTask(TypePruneElapsedSlots, nil, asynq.Queue("maintenance")),
	}
	for _, t := range tasks {
		if _, err := w.scheduler.Register(spec, t, asynq.Unique(time.Minute)); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", t.Type(), err)
		}
	}

	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start maintenance worker: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("failed to start maintenance scheduler: %w", err)
	}
	w.logger.Info("maintenance worker started", zap.String("interval", spec))
	return nil
}

// Shutdown stops scheduling and waits for in-flight jobs.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	w.logger.Info("maintenance worker stopped")
}
