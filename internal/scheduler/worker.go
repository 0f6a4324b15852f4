package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/targets"
	"sales_performance_backend/platform/config"
	"sales_performance_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TargetService is the part of the targets service the worker drives.
type TargetService interface {
	DueSalesPeople(ctx context.Context) ([]uuid.UUID, error)
	Refresh(ctx context.Context, salesPersonID uuid.UUID) (targets.Summary, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	targets  TargetService
	enqueuer RecomputeEnqueuer
	log      *logger.Logger
	now      func() time.Time
}

func NewWorker(cfg config.SchedulerConfig, svc TargetService, enqueuer RecomputeEnqueuer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	loc := cfg.GetBusinessLocation()
	if loc == nil {
		loc = time.UTC
	}

	w := &Worker{
		server:   server,
		mux:      asynq.NewServeMux(),
		targets:  svc,
		enqueuer: enqueuer,
		log:      log,
		now:      func() time.Time { return time.Now().In(loc) },
	}
	w.mux.HandleFunc(TaskTargetsSweep, w.handleTargetsSweep)
	w.mux.HandleFunc(TaskTargetRecompute, w.handleTargetRecompute)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleTargetsSweep(ctx context.Context, _ *asynq.Task) error {
	people, err := w.targets.DueSalesPeople(ctx)
	if err != nil {
		return err
	}

	today := domain.StartOfDay(w.now())
	for _, id := range people {
		if err := w.enqueuer.EnqueueTargetRecompute(ctx, id, today); err != nil {
			return fmt.Errorf("enqueue recompute for %s: %w", id, err)
		}
	}

	w.log.Info("target sweep enqueued recomputes", slog.Int("count", len(people)))
	return nil
}

func (w *Worker) handleTargetRecompute(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseTargetRecomputePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	salesPersonID, err := uuid.Parse(payload.SalesPersonID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	summary, err := w.targets.Refresh(ctx, salesPersonID)
	if err != nil {
		return err
	}

	if summary.Target != nil {
		w.log.Info("sales target recomputed",
			slog.String("sales_person_id", salesPersonID.String()),
			slog.String("status", string(summary.Target.Status)),
			slog.Float64("overall_pct", summary.Target.OverallAchievementPct),
		)
	}
	return nil
}
