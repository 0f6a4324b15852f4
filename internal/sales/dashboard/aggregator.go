// Package dashboard assembles the sales dashboard of one salesperson from
// the lead, follow-up, task, booking and target stores.
//
// Every sub-metric is restricted to the scoped lead-id set produced by the
// first lead fetch. Sub-fetches run concurrently and read each store at
// roughly the same instant; the result is consistent on a best-effort
// basis, not transactionally.
package dashboard

import (
	"context"
	"time"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/ports"
	"sales_performance_backend/internal/sales/targets"
	"sales_performance_backend/platform/apperr"
	"sales_performance_backend/platform/config"
	"sales_performance_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	recentActivityLimit = 20
	upcomingDays        = 7
)

// Filter scopes a dashboard request. SalesPersonID is required; the
// location filters are ANDed equality matches. A missing date bound
// defaults to the current calendar month.
type Filter struct {
	SalesPersonID uuid.UUID
	PropertyID    *uuid.UUID
	TowerID       *uuid.UUID
	FlatID        *uuid.UUID
	DateFrom      *time.Time
	DateTo        *time.Time
}

func (f Filter) leadQuery() ports.LeadQuery {
	return ports.LeadQuery{
		AssignedTo: f.SalesPersonID,
		PropertyID: f.PropertyID,
		TowerID:    f.TowerID,
		FlatID:     f.FlatID,
	}
}

// PerformanceSource supplies the target block of a salesperson.
type PerformanceSource interface {
	Refresh(ctx context.Context, salesPersonID uuid.UUID) (targets.Summary, error)
}

// Stores groups the read collaborators of the aggregator.
type Stores struct {
	Leads     ports.LeadStore
	FollowUps ports.FollowUpStore
	Tasks     ports.SalesTaskStore
	Bookings  ports.BookingStore
}

type Aggregator struct {
	stores      Stores
	performance PerformanceSource
	log         *logger.Logger
	timeout     time.Duration
	concurrency int
	now         func() time.Time
}

func New(stores Stores, performance PerformanceSource, cfg config.DashboardConfig, log *logger.Logger) *Aggregator {
	loc := cfg.GetBusinessLocation()
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{
		stores:      stores,
		performance: performance,
		log:         log,
		timeout:     cfg.GetDashboardTimeout(),
		concurrency: cfg.GetDashboardFetchConcurrency(),
		now:         func() time.Time { return time.Now().In(loc) },
	}
}

// scope is the per-request state shared by the metric groups. It is
// read-only once built.
type scope struct {
	filter   Filter
	now      time.Time
	window   domain.DateRange
	week     domain.DateRange
	leads    []domain.Lead
	leadIDs  []uuid.UUID
	leadSet  domain.LeadSet
	byID     map[uuid.UUID]domain.Lead
	hasScope bool
}

// allowsTask reports whether a task belongs to the scoped set. Tasks not
// linked to a lead only count when no location filter is set.
func (s *scope) allowsTask(t domain.SalesTask) bool {
	if t.LeadID == nil {
		return !s.hasScope
	}
	return s.leadSet.Has(*t.LeadID)
}

func (s *scope) leadName(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return s.byID[*id].Name
}

// GetMetrics builds the dashboard for filter. Any failing sub-fetch fails
// the whole call; cancelling ctx cancels every in-flight fetch.
func (a *Aggregator) GetMetrics(ctx context.Context, filter Filter) (Metrics, error) {
	now := a.now()
	window, err := resolveWindow(filter, now)
	if err != nil {
		return Metrics{}, err
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	leads, err := a.stores.Leads.Query(ctx, filter.leadQuery())
	if err != nil {
		return Metrics{}, a.groupFailed(ctx, "leads", filter, err)
	}

	byID := make(map[uuid.UUID]domain.Lead, len(leads))
	for _, l := range leads {
		byID[l.ID] = l
	}
	sc := &scope{
		filter:   filter,
		now:      now,
		window:   window,
		week:     domain.DateRange{From: domain.StartOfWeek(window.From), To: domain.EndOfWeek(window.To)},
		leads:    leads,
		leadIDs:  domain.LeadIDs(leads),
		leadSet:  domain.NewLeadSet(leads),
		byID:     byID,
		hasScope: filter.leadQuery().HasScope(),
	}

	out := Metrics{
		SalesPersonID: filter.SalesPersonID,
		Window: Window{
			From: window.From, To: window.To,
			WeekStart: sc.week.From, WeekEnd: sc.week.To,
		},
		GeneratedAt: now,
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}

	run := func(group string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				return a.groupFailed(gctx, group, filter, err)
			}
			return nil
		})
	}

	run("performance", func(ctx context.Context) (err error) {
		out.Performance, err = a.performance.Refresh(ctx, filter.SalesPersonID)
		return err
	})
	run("leads", func(context.Context) error {
		out.Leads = leadMetrics(sc)
		return nil
	})
	run("siteVisits", func(ctx context.Context) (err error) {
		out.SiteVisits, err = a.siteVisitMetrics(ctx, sc)
		return err
	})
	run("followUps", func(ctx context.Context) (err error) {
		out.FollowUps, err = a.followUpMetrics(ctx, sc)
		return err
	})
	run("tasks", func(ctx context.Context) (err error) {
		out.Tasks, err = a.taskMetrics(ctx, sc)
		return err
	})
	run("revenue", func(ctx context.Context) (err error) {
		out.Revenue, err = a.revenueMetrics(ctx, sc)
		return err
	})
	run("activities", func(ctx context.Context) (err error) {
		out.RecentActivities, err = a.recentActivities(ctx, sc)
		return err
	})
	run("upcoming", func(ctx context.Context) (err error) {
		out.UpcomingEvents, err = a.upcomingEvents(ctx, sc)
		return err
	})

	if err := g.Wait(); err != nil {
		return Metrics{}, err
	}
	return out, nil
}

// resolveWindow validates filter and returns its metric window. Bounds are
// widened to whole days.
func resolveWindow(filter Filter, now time.Time) (domain.DateRange, error) {
	if filter.SalesPersonID == uuid.Nil {
		return domain.DateRange{}, apperr.InvalidFilter("salesPersonId is required").WithOp("dashboard.GetMetrics")
	}

	window := domain.DateRange{From: domain.StartOfMonth(now), To: domain.EndOfMonth(now)}
	if filter.DateFrom != nil {
		window.From = domain.StartOfDay(filter.DateFrom.In(now.Location()))
	}
	if filter.DateTo != nil {
		window.To = domain.EndOfDay(filter.DateTo.In(now.Location()))
	}
	if window.To.Before(window.From) {
		return domain.DateRange{}, apperr.InvalidFilter("dateFrom must not be after dateTo").
			WithOp("dashboard.GetMetrics").
			WithDetails(map[string]any{"dateFrom": window.From, "dateTo": window.To})
	}
	return window, nil
}

// groupFailed logs a failed metric group and classifies the error. Errors
// that already carry a kind pass through unchanged.
func (a *Aggregator) groupFailed(ctx context.Context, group string, filter Filter, err error) error {
	a.log.WithContext(ctx).MetricGroupFailed(group, filter.SalesPersonID.String(), err)
	if apperr.GetKind(err) != apperr.KindUnknown {
		return err
	}
	return apperr.UpstreamFetchFailed(group, err)
}
