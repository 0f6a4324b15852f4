// Package sales provides the sales performance domain module.
package sales

import (
	"context"

	apphttp "sales_performance_backend/internal/http"
	"sales_performance_backend/internal/sales/dashboard"
	"sales_performance_backend/internal/sales/handler"
	"sales_performance_backend/internal/sales/repository"
	"sales_performance_backend/internal/sales/targets"
	"sales_performance_backend/platform/config"
	"sales_performance_backend/platform/events"
	"sales_performance_backend/platform/logger"
	"sales_performance_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the sales domain module
type Module struct {
	handler   *handler.Handler
	dashboard *dashboard.Aggregator
	targets   *targets.Service
}

// NewModule creates the sales module with all dependencies wired
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, cfg config.DashboardConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	loc := cfg.GetBusinessLocation()

	targetSvc := targets.New(repo.Targets, repo.Performance, bus, loc, log)
	agg := dashboard.New(dashboard.Stores{
		Leads:     repo.Leads,
		FollowUps: repo.FollowUps,
		Tasks:     repo.Tasks,
		Bookings:  repo.Bookings,
	}, targetSvc, cfg, log)

	bus.Subscribe(targets.EventTargetFinalized, events.HandlerFunc(func(_ context.Context, event events.Event) error {
		e, ok := event.(targets.TargetFinalized)
		if !ok {
			return nil
		}
		log.Info("sales target finalized",
			"target_id", e.TargetID,
			"sales_person_id", e.SalesPersonID,
			"status", e.Status,
			"overall_pct", e.OverallAchievementPct,
			"total_incentive", e.TotalIncentive,
		)
		return nil
	}))

	return &Module{
		handler:   handler.New(agg, targetSvc, val, loc),
		dashboard: agg,
		targets:   targetSvc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "sales"
}

// TargetService exposes the target lifecycle for the background worker.
func (m *Module) TargetService() *targets.Service {
	return m.targets
}

// Dashboard exposes the metrics aggregator.
func (m *Module) Dashboard() *dashboard.Aggregator {
	return m.dashboard
}

// RegisterRoutes registers the module's routes under /api/v1/sales
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/sales"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
