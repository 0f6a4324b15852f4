package scheduler

import (
	"fmt"
	"time"

	"sales_performance_backend/platform/config"
	"sales_performance_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultTargetSweepCron = "5 0 * * *"

// Periodic registers the cron-driven sweep on the business calendar.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	loc := cfg.GetBusinessLocation()
	if loc == nil {
		loc = time.UTC
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: loc})

	spec := cfg.GetTargetSweepCron()
	if spec == "" {
		spec = defaultTargetSweepCron
	}
	entryID, err := s.Register(spec, NewTargetsSweepTask(), asynq.Queue(queueName(cfg)), asynq.MaxRetry(3))
	if err != nil {
		return nil, fmt.Errorf("register target sweep: %w", err)
	}
	log.Info("target sweep registered", "cron", spec, "location", loc.String(), "entryId", entryID)

	return &Periodic{scheduler: s, log: log}, nil
}

func (p *Periodic) Start() error {
	return p.scheduler.Start()
}

func (p *Periodic) Shutdown() {
	p.scheduler.Shutdown()
}
