package dashboard

import (
	"context"
	"slices"
	"time"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/ports"
	"sales_performance_backend/internal/sales/targets"
	"sales_performance_backend/platform/logger"

	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetDashboardTimeout() time.Duration  { return 5 * time.Second }
func (testConfig) GetDashboardFetchConcurrency() int   { return 3 }
func (testConfig) GetBusinessLocation() *time.Location { return time.UTC }

type fakeLeads struct {
	leads []domain.Lead
	err   error
}

func sameRef(filter, value *uuid.UUID) bool {
	return filter == nil || (value != nil && *value == *filter)
}

func (f *fakeLeads) Query(ctx context.Context, q ports.LeadQuery) ([]domain.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Lead
	for _, l := range f.leads {
		if l.AssignedTo == q.AssignedTo && sameRef(q.PropertyID, l.PropertyID) &&
			sameRef(q.TowerID, l.TowerID) && sameRef(q.FlatID, l.FlatID) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeFollowUps struct {
	followUps []domain.FollowUp
	err       error
	// ignoreRange returns records regardless of their date, like a store
	// with a loose date predicate.
	ignoreRange bool
}

func (f *fakeFollowUps) Query(ctx context.Context, q ports.FollowUpQuery) ([]domain.FollowUp, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.FollowUp
	for _, fu := range f.followUps {
		if fu.PerformedBy != q.PerformedBy {
			continue
		}
		if q.LeadIDs != nil && !slices.Contains(q.LeadIDs, fu.LeadID) {
			continue
		}
		if q.Range != nil && !f.ignoreRange && !q.Range.ContainsRef(fu.FollowUpDate) {
			continue
		}
		if q.SiteVisitsOnly && !fu.IsSiteVisit {
			continue
		}
		out = append(out, fu)
	}
	return out, nil
}

type fakeTasks struct {
	tasks []domain.SalesTask
	err   error
}

func (f *fakeTasks) Query(ctx context.Context, q ports.TaskQuery) ([]domain.SalesTask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.SalesTask
	for _, t := range f.tasks {
		if t.AssignedTo != q.AssignedTo {
			continue
		}
		if q.LeadIDs != nil {
			linked := t.LeadID != nil && slices.Contains(q.LeadIDs, *t.LeadID)
			if !linked && !(t.LeadID == nil && q.IncludeUnlinked) {
				continue
			}
		}
		if q.Range != nil && !q.Range.ContainsRef(t.DueDate) {
			continue
		}
		if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, t.Status) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type fakeBookings struct {
	bookings []domain.Booking
	err      error
}

func (f *fakeBookings) Query(ctx context.Context, r domain.DateRange, propertyID *uuid.UUID) ([]domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Booking
	for _, b := range f.bookings {
		if r.Contains(b.BookingDate) && sameRef(propertyID, b.PropertyID) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakePerformance struct {
	summary targets.Summary
	err     error
}

func (f fakePerformance) Refresh(ctx context.Context, _ uuid.UUID) (targets.Summary, error) {
	if err := ctx.Err(); err != nil {
		return targets.Summary{}, err
	}
	return f.summary, f.err
}

type fixture struct {
	leads     *fakeLeads
	followUps *fakeFollowUps
	tasks     *fakeTasks
	bookings  *fakeBookings
	perf      fakePerformance
}

func newFixture() *fixture {
	return &fixture{
		leads:     &fakeLeads{},
		followUps: &fakeFollowUps{},
		tasks:     &fakeTasks{},
		bookings:  &fakeBookings{},
		perf:      fakePerformance{summary: targets.Summary{MotivationalMessage: "no target"}},
	}
}

func (f *fixture) aggregator(now time.Time) *Aggregator {
	agg := New(Stores{
		Leads:     f.leads,
		FollowUps: f.followUps,
		Tasks:     f.tasks,
		Bookings:  f.bookings,
	}, f.perf, testConfig{}, logger.Discard())
	agg.now = func() time.Time { return now }
	return agg
}

func at(t time.Time) *time.Time { return &t }

func ref(id uuid.UUID) *uuid.UUID { return &id }

func intRef(v int) *int { return &v }
