package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/ports"
	"sales_performance_backend/platform/apperr"
	"sales_performance_backend/platform/logger"

	"github.com/google/uuid"
)

// Wednesday.
var now = time.Date(2025, time.October, 15, 10, 0, 0, 0, time.UTC)

func day(d, hour int) time.Time {
	return time.Date(2025, time.October, d, hour, 0, 0, 0, time.UTC)
}

type scenario struct {
	*fixture
	person       uuid.UUID
	propA, propB uuid.UUID
	leadA, leadB domain.Lead
}

func newScenario() *scenario {
	s := &scenario{fixture: newFixture(), person: uuid.New(), propA: uuid.New(), propB: uuid.New()}

	s.leadA = domain.Lead{
		ID: uuid.New(), Name: "Asha", AssignedTo: s.person, PropertyID: ref(s.propA),
		Status: domain.LeadStatusContacted, Priority: domain.PriorityHigh, Source: "WEBSITE",
		CreatedAt: day(2, 9), NextFollowUpDate: at(day(16, 11)),
		HasSiteVisit: true, SiteVisitStatus: domain.SiteVisitScheduled, SiteVisitDate: at(day(18, 15)),
	}
	s.leadB = domain.Lead{
		ID: uuid.New(), Name: "Bala", AssignedTo: s.person, PropertyID: ref(s.propB),
		Status: domain.LeadStatusNew, Priority: domain.PriorityLow,
		CreatedAt:        time.Date(2025, time.September, 20, 9, 0, 0, 0, time.UTC),
		NextFollowUpDate: at(day(14, 9)),
		Conversion:       &domain.ConversionInfo{CustomerID: uuid.New()},
	}
	s.leads.leads = []domain.Lead{s.leadA, s.leadB}

	s.followUps.followUps = []domain.FollowUp{
		{ID: uuid.New(), LeadID: s.leadA.ID, PerformedBy: s.person, FollowUpDate: at(day(5, 10)),
			IsSiteVisit: true, SiteVisitRating: intRef(4), InterestLevel: intRef(8), Outcome: "Liked the tower"},
		{ID: uuid.New(), LeadID: s.leadB.ID, PerformedBy: s.person, FollowUpDate: at(day(6, 10)),
			InterestLevel: intRef(2)},
	}

	s.tasks.tasks = []domain.SalesTask{
		{ID: uuid.New(), LeadID: ref(s.leadA.ID), AssignedTo: s.person, Title: "Send brochure",
			Status: domain.TaskStatusPending, DueDate: at(day(20, 10))},
		{ID: uuid.New(), LeadID: ref(s.leadB.ID), AssignedTo: s.person, Title: "Share price sheet",
			Status: domain.TaskStatusCompleted, DueDate: at(day(10, 10)), CompletedAt: at(day(10, 12))},
		{ID: uuid.New(), AssignedTo: s.person, Title: "Update CRM",
			Status: domain.TaskStatusCompleted, DueDate: at(day(9, 10)), CompletedAt: at(day(9, 11))},
	}

	s.bookings.bookings = []domain.Booking{
		{ID: uuid.New(), LeadID: ref(s.leadA.ID), PropertyID: ref(s.propA), BookingDate: day(8, 12), TotalAmount: 500000},
		{ID: uuid.New(), LeadID: ref(s.leadB.ID), PropertyID: ref(s.propB), BookingDate: day(9, 12), TotalAmount: 700000},
		{ID: uuid.New(), PropertyID: ref(s.propA), BookingDate: day(9, 13), TotalAmount: 100000},
	}
	return s
}

func TestGetMetricsUnfiltered(t *testing.T) {
	s := newScenario()

	m, err := s.aggregator(now).GetMetrics(context.Background(), Filter{SalesPersonID: s.person})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLeads := LeadMetrics{
		Total: 2, New: 1, Active: 2, Hot: 1, Cold: 1, Converted: 1,
		BySource:       map[string]int{"WEBSITE": 1, unknownSource: 1},
		ConversionRate: 50,
	}
	if !reflect.DeepEqual(m.Leads, wantLeads) {
		t.Fatalf("lead metrics: expected %+v, got %+v", wantLeads, m.Leads)
	}

	wantTasks := TaskMetrics{Total: 3, Pending: 1, Completed: 2, DueThisWeek: 1, CompletionRate: 66.67}
	if m.Tasks != wantTasks {
		t.Fatalf("task metrics: expected %+v, got %+v", wantTasks, m.Tasks)
	}

	wantRevenue := RevenueMetrics{Total: 1200000, Bookings: 2, AvgDealSize: 600000, ProjectedMonthEnd: 2480000}
	if m.Revenue != wantRevenue {
		t.Fatalf("revenue metrics: expected %+v, got %+v", wantRevenue, m.Revenue)
	}

	if m.FollowUps.Total != 2 || m.FollowUps.Overdue != 1 || m.FollowUps.DueToday != 0 ||
		m.FollowUps.DueThisWeek != 2 || m.FollowUps.AvgInterestLevel != 5 {
		t.Fatalf("unexpected follow-up metrics %+v", m.FollowUps)
	}

	wantVisits := SiteVisitMetrics{Scheduled: 1, Completed: 1, ThisWeek: 1, AvgRating: 4}
	if m.SiteVisits != wantVisits {
		t.Fatalf("site visit metrics: expected %+v, got %+v", wantVisits, m.SiteVisits)
	}

	if len(m.RecentActivities) != 4 {
		t.Fatalf("expected 4 activities, got %d", len(m.RecentActivities))
	}
	if m.RecentActivities[0].Title != "Share price sheet" || m.RecentActivities[3].Type != ActivitySiteVisit {
		t.Fatalf("activities not sorted newest first: %+v", m.RecentActivities)
	}

	var types []EventType
	for _, e := range m.UpcomingEvents {
		types = append(types, e.Type)
	}
	if want := []EventType{EventFollowUp, EventSiteVisit, EventTask}; !reflect.DeepEqual(types, want) {
		t.Fatalf("upcoming events: expected %v, got %v", want, types)
	}

	if !m.Window.From.Equal(time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)) ||
		!m.Window.WeekStart.Equal(time.Date(2025, time.September, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window %+v", m.Window)
	}
	if m.Performance.MotivationalMessage != "no target" {
		t.Fatalf("performance block not passed through: %+v", m.Performance)
	}
}

func TestGetMetricsPropertyFilterExcludesOtherLeads(t *testing.T) {
	s := newScenario()

	m, err := s.aggregator(now).GetMetrics(context.Background(), Filter{SalesPersonID: s.person, PropertyID: ref(s.propA)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Leads.Total != 1 || m.Leads.Converted != 0 {
		t.Fatalf("expected only lead A, got %+v", m.Leads)
	}
	if m.FollowUps.Total != 1 || m.FollowUps.Overdue != 0 || m.FollowUps.AvgInterestLevel != 8 {
		t.Fatalf("follow-ups leaked from other leads: %+v", m.FollowUps)
	}
	if m.Tasks.Total != 1 || m.Tasks.Completed != 0 {
		t.Fatalf("tasks leaked from other leads or unlinked tasks: %+v", m.Tasks)
	}
	if m.Revenue.Total != 500000 || m.Revenue.Bookings != 1 {
		t.Fatalf("revenue leaked from bookings outside the lead set: %+v", m.Revenue)
	}
	for _, a := range m.RecentActivities {
		if a.LeadID == nil || *a.LeadID != s.leadA.ID {
			t.Fatalf("activity outside the lead set: %+v", a)
		}
	}
	for _, e := range m.UpcomingEvents {
		if e.LeadID == nil || *e.LeadID != s.leadA.ID {
			t.Fatalf("upcoming event outside the lead set: %+v", e)
		}
	}
}

func TestGetMetricsWeekFollowsWindowButUpcomingFollowsClock(t *testing.T) {
	f := newFixture()
	person := uuid.New()
	inWindowWeek := domain.Lead{
		ID: uuid.New(), Name: "window week", AssignedTo: person, Status: domain.LeadStatusContacted,
		NextFollowUpDate: at(day(3, 12)),
	}
	nearNow := domain.Lead{
		ID: uuid.New(), Name: "near now", AssignedTo: person, Status: domain.LeadStatusContacted,
		NextFollowUpDate: at(day(17, 12)),
	}
	f.leads.leads = []domain.Lead{inWindowWeek, nearNow}

	from := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC)
	m, err := f.aggregator(now).GetMetrics(context.Background(), Filter{SalesPersonID: person, DateFrom: &from, DateTo: &to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// September 30 is a Tuesday, so the window's week runs to Saturday October 4.
	if !m.Window.WeekEnd.Equal(domain.EndOfDay(day(4, 0))) {
		t.Fatalf("unexpected week end %s", m.Window.WeekEnd)
	}
	if m.FollowUps.DueThisWeek != 1 {
		t.Fatalf("dueThisWeek should use the window's week, got %d", m.FollowUps.DueThisWeek)
	}
	if len(m.UpcomingEvents) != 1 || m.UpcomingEvents[0].LeadName != "near now" {
		t.Fatalf("upcoming events should look ahead from now, got %+v", m.UpcomingEvents)
	}
}

func TestGetMetricsZeroBookings(t *testing.T) {
	s := newScenario()
	s.bookings.bookings = nil

	m, err := s.aggregator(day(1, 0)).GetMetrics(context.Background(), Filter{SalesPersonID: s.person})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Revenue != (RevenueMetrics{}) {
		t.Fatalf("expected zero revenue metrics, got %+v", m.Revenue)
	}
}

func TestGetMetricsEmptyLeadSet(t *testing.T) {
	s := newScenario()

	m, err := s.aggregator(now).GetMetrics(context.Background(), Filter{SalesPersonID: s.person, PropertyID: ref(uuid.New())})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Leads.Total != 0 || m.Leads.ConversionRate != 0 || m.Tasks.CompletionRate != 0 {
		t.Fatalf("expected zeroed metrics, got leads %+v tasks %+v", m.Leads, m.Tasks)
	}
	if m.Revenue.Total != 0 || len(m.RecentActivities) != 0 || len(m.UpcomingEvents) != 0 {
		t.Fatalf("nothing may leak into an empty lead set: %+v", m)
	}
}

func TestGetMetricsRecentActivitiesCappedAndNullSafe(t *testing.T) {
	s := newScenario()
	s.followUps.ignoreRange = true
	s.tasks.tasks = nil

	s.followUps.followUps = nil
	for i := 0; i < 25; i++ {
		s.followUps.followUps = append(s.followUps.followUps, domain.FollowUp{
			ID: uuid.New(), LeadID: s.leadA.ID, PerformedBy: s.person,
			FollowUpDate: at(day(1, 0).Add(time.Duration(i) * time.Hour)), Outcome: fmt.Sprint(i),
		})
	}
	s.followUps.followUps = append(s.followUps.followUps,
		domain.FollowUp{ID: uuid.New(), LeadID: s.leadA.ID, PerformedBy: s.person},
		domain.FollowUp{ID: uuid.New(), LeadID: s.leadA.ID, PerformedBy: s.person, FollowUpDate: &time.Time{}},
	)

	m, err := s.aggregator(now).GetMetrics(context.Background(), Filter{SalesPersonID: s.person})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.RecentActivities) != recentActivityLimit {
		t.Fatalf("expected %d activities, got %d", recentActivityLimit, len(m.RecentActivities))
	}
	if m.RecentActivities[0].Title != "Follow-up: 24" {
		t.Fatalf("expected newest first, got %q", m.RecentActivities[0].Title)
	}
	for i := 1; i < len(m.RecentActivities); i++ {
		if m.RecentActivities[i].At.After(m.RecentActivities[i-1].At) {
			t.Fatalf("activities out of order at %d", i)
		}
	}
}

func TestGetMetricsInvalidFilter(t *testing.T) {
	s := newScenario()
	agg := s.aggregator(now)

	_, err := agg.GetMetrics(context.Background(), Filter{})
	if !apperr.HasCode(err, apperr.CodeInvalidFilter) {
		t.Fatalf("expected INVALID_FILTER for missing salesperson, got %v", err)
	}

	from, to := day(20, 0), day(10, 0)
	_, err = agg.GetMetrics(context.Background(), Filter{SalesPersonID: s.person, DateFrom: &from, DateTo: &to})
	if !apperr.HasCode(err, apperr.CodeInvalidFilter) {
		t.Fatalf("expected INVALID_FILTER for reversed window, got %v", err)
	}
}

func TestGetMetricsFailsWholeCallOnUpstreamError(t *testing.T) {
	cases := map[string]func(*scenario, error){
		"leads":     func(s *scenario, err error) { s.leads.err = err },
		"followUps": func(s *scenario, err error) { s.followUps.err = err },
		"tasks":     func(s *scenario, err error) { s.tasks.err = err },
		"bookings":  func(s *scenario, err error) { s.bookings.err = err },
	}
	for name, inject := range cases {
		t.Run(name, func(t *testing.T) {
			s := newScenario()
			cause := errors.New("store unavailable")
			inject(s, cause)

			m, err := s.aggregator(now).GetMetrics(context.Background(), Filter{SalesPersonID: s.person})
			if err == nil {
				t.Fatalf("expected failure, got metrics %+v", m)
			}
			if !apperr.HasCode(err, apperr.CodeUpstreamFetchFailed) || !apperr.Is(err, apperr.KindUpstream) {
				t.Fatalf("expected upstream failure, got %v", err)
			}
			if !errors.Is(err, cause) {
				t.Fatalf("cause must stay reachable, got %v", err)
			}
		})
	}
}

func TestGetMetricsPassesThroughClassifiedErrors(t *testing.T) {
	s := newScenario()
	s.perf.err = apperr.UpstreamFetchFailed("sales targets", errors.New("timeout"))

	_, err := s.aggregator(now).GetMetrics(context.Background(), Filter{SalesPersonID: s.person})
	if err != s.perf.err {
		t.Fatalf("expected the performance error unchanged, got %v", err)
	}
}

type blockingTasks struct{}

func (blockingTasks) Query(ctx context.Context, _ ports.TaskQuery) ([]domain.SalesTask, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestGetMetricsCancellationPropagates(t *testing.T) {
	s := newScenario()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.aggregator(now).GetMetrics(ctx, Filter{SalesPersonID: s.person}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	agg := New(Stores{Leads: s.leads, FollowUps: s.followUps, Tasks: blockingTasks{}, Bookings: s.bookings},
		s.perf, testConfig{}, logger.Discard())
	agg.now = func() time.Time { return now }

	ctx, cancel = context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if _, err := agg.GetMetrics(ctx, Filter{SalesPersonID: s.person}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected in-flight fetches to observe cancellation, got %v", err)
	}
}

func TestGetMetricsUpcomingSkipsInactiveLeads(t *testing.T) {
	f := newFixture()
	person := uuid.New()
	lost := domain.Lead{
		ID: uuid.New(), Name: "lost", AssignedTo: person, Status: domain.LeadStatusLost,
		NextFollowUpDate: at(day(16, 10)),
	}
	active := domain.Lead{
		ID: uuid.New(), Name: "active", AssignedTo: person, Status: domain.LeadStatusQualified,
		NextFollowUpDate: at(day(16, 12)),
	}
	f.leads.leads = []domain.Lead{lost, active}

	m, err := f.aggregator(now).GetMetrics(context.Background(), Filter{SalesPersonID: person})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.UpcomingEvents) != 1 || m.UpcomingEvents[0].LeadName != "active" {
		t.Fatalf("expected only the active lead's follow-up, got %+v", m.UpcomingEvents)
	}
	if m.FollowUps.DueThisWeek != len(m.UpcomingEvents) {
		t.Fatalf("follow-up metrics and upcoming events disagree: %d vs %d", m.FollowUps.DueThisWeek, len(m.UpcomingEvents))
	}
}

func TestGetMetricsFailureLogCarriesRequestID(t *testing.T) {
	s := newScenario()
	s.bookings.err = errors.New("store unavailable")

	var buf bytes.Buffer
	agg := s.aggregator(now)
	agg.log = logger.NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-dash-1")
	if _, err := agg.GetMetrics(ctx, Filter{SalesPersonID: s.person}); err == nil {
		t.Fatal("expected failure")
	}
	out := buf.String()
	if !strings.Contains(out, "metric_group_failed") || !strings.Contains(out, `"request_id":"req-dash-1"`) {
		t.Fatalf("expected failed group logged with request id, got %s", out)
	}
}
