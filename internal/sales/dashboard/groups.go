package dashboard

import (
	"context"
	"sort"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/ports"
	"sales_performance_backend/platform/sanitize"

	"github.com/shopspring/decimal"
)

const unknownSource = "UNKNOWN"

func leadMetrics(sc *scope) LeadMetrics {
	m := LeadMetrics{Total: len(sc.leads), BySource: make(map[string]int)}
	for _, l := range sc.leads {
		if sc.window.Contains(l.CreatedAt) {
			m.New++
		}
		if l.Status.IsActive() {
			m.Active++
		}
		switch l.Priority {
		case domain.PriorityHigh, domain.PriorityUrgent:
			m.Hot++
		case domain.PriorityMedium:
			m.Warm++
		case domain.PriorityLow:
			m.Cold++
		}
		if l.IsConverted() {
			m.Converted++
		}
		source := l.Source
		if source == "" {
			source = unknownSource
		}
		m.BySource[source]++
	}
	m.ConversionRate = percentOf(float64(m.Converted), float64(m.Total))
	return m
}

func (a *Aggregator) siteVisitMetrics(ctx context.Context, sc *scope) (SiteVisitMetrics, error) {
	// The week span always covers the window, so one fetch serves both.
	visits, err := a.stores.FollowUps.Query(ctx, ports.FollowUpQuery{
		PerformedBy:    sc.filter.SalesPersonID,
		LeadIDs:        sc.leadIDs,
		Range:          &sc.week,
		SiteVisitsOnly: true,
	})
	if err != nil {
		return SiteVisitMetrics{}, err
	}

	var m SiteVisitMetrics
	for _, l := range sc.leads {
		if l.SiteVisitStatus == domain.SiteVisitScheduled {
			m.Scheduled++
		}
	}

	var ratings averager
	for _, v := range visits {
		if !v.IsSiteVisit || !sc.leadSet.Has(v.LeadID) {
			continue
		}
		if sc.week.ContainsRef(v.FollowUpDate) {
			m.ThisWeek++
		}
		if sc.window.ContainsRef(v.FollowUpDate) {
			m.Completed++
			ratings.add(v.SiteVisitRating)
		}
	}
	m.AvgRating = ratings.mean()
	return m, nil
}

func (a *Aggregator) followUpMetrics(ctx context.Context, sc *scope) (FollowUpMetrics, error) {
	followUps, err := a.stores.FollowUps.Query(ctx, ports.FollowUpQuery{
		PerformedBy: sc.filter.SalesPersonID,
		LeadIDs:     sc.leadIDs,
		Range:       &sc.window,
	})
	if err != nil {
		return FollowUpMetrics{}, err
	}

	var m FollowUpMetrics
	var interest, budget, timeline averager
	for _, f := range followUps {
		if !sc.leadSet.Has(f.LeadID) || !sc.window.ContainsRef(f.FollowUpDate) {
			continue
		}
		m.Total++
		interest.add(f.InterestLevel)
		budget.add(f.BudgetFit)
		timeline.add(f.TimelineFit)
	}
	m.AvgInterestLevel = interest.mean()
	m.AvgBudgetFit = budget.mean()
	m.AvgTimelineFit = timeline.mean()

	today := domain.DateRange{From: domain.StartOfDay(sc.now), To: domain.EndOfDay(sc.now)}
	for _, l := range sc.leads {
		next := l.NextFollowUpDate
		if next == nil || !l.Status.IsActive() {
			continue
		}
		if next.Before(sc.now) {
			m.Overdue++
		}
		if today.Contains(*next) {
			m.DueToday++
		}
		if sc.week.Contains(*next) {
			m.DueThisWeek++
		}
	}
	return m, nil
}

func (a *Aggregator) taskMetrics(ctx context.Context, sc *scope) (TaskMetrics, error) {
	tasks, err := a.stores.Tasks.Query(ctx, ports.TaskQuery{
		AssignedTo:      sc.filter.SalesPersonID,
		LeadIDs:         sc.leadIDs,
		IncludeUnlinked: !sc.hasScope,
	})
	if err != nil {
		return TaskMetrics{}, err
	}

	var m TaskMetrics
	startOfToday := domain.StartOfDay(sc.now)
	for _, t := range tasks {
		if !sc.allowsTask(t) {
			continue
		}
		if t.Status.IsOpen() && (t.Status == domain.TaskStatusOverdue || (t.DueDate != nil && t.DueDate.Before(startOfToday))) {
			m.Overdue++
		}
		if t.Status.IsOpen() && sc.week.ContainsRef(t.DueDate) {
			m.DueThisWeek++
		}
		if !sc.window.ContainsRef(t.DueDate) {
			continue
		}
		m.Total++
		switch t.Status {
		case domain.TaskStatusPending:
			m.Pending++
		case domain.TaskStatusInProgress:
			m.InProgress++
		case domain.TaskStatusCompleted:
			m.Completed++
		}
	}
	m.CompletionRate = percentOf(float64(m.Completed), float64(m.Total))
	return m, nil
}

func (a *Aggregator) revenueMetrics(ctx context.Context, sc *scope) (RevenueMetrics, error) {
	bookings, err := a.stores.Bookings.Query(ctx, sc.window, sc.filter.PropertyID)
	if err != nil {
		return RevenueMetrics{}, err
	}

	var m RevenueMetrics
	total := decimal.Zero
	for _, b := range bookings {
		if !sc.leadSet.HasRef(b.LeadID) || !sc.window.Contains(b.BookingDate) {
			continue
		}
		m.Bookings++
		total = total.Add(decimal.NewFromFloat(b.TotalAmount))
	}
	m.Total = total.Round(2).InexactFloat64()
	if m.Bookings > 0 {
		m.AvgDealSize = total.Div(decimal.NewFromInt(int64(m.Bookings))).Round(2).InexactFloat64()
	}

	elapsedUntil := sc.now
	if elapsedUntil.After(sc.window.To) {
		elapsedUntil = sc.window.To
	}
	elapsed := domain.CalendarDaysBetween(sc.window.From, elapsedUntil)
	totalDays := domain.CalendarDaysBetween(sc.window.From, sc.window.To)
	if elapsed > 0 {
		m.ProjectedMonthEnd = total.
			Div(decimal.NewFromInt(int64(elapsed))).
			Mul(decimal.NewFromInt(int64(totalDays))).
			Round(2).
			InexactFloat64()
	}
	return m, nil
}

func (a *Aggregator) recentActivities(ctx context.Context, sc *scope) ([]Activity, error) {
	followUps, err := a.stores.FollowUps.Query(ctx, ports.FollowUpQuery{
		PerformedBy: sc.filter.SalesPersonID,
		LeadIDs:     sc.leadIDs,
		Range:       &sc.window,
	})
	if err != nil {
		return nil, err
	}
	tasks, err := a.stores.Tasks.Query(ctx, ports.TaskQuery{
		AssignedTo:      sc.filter.SalesPersonID,
		LeadIDs:         sc.leadIDs,
		IncludeUnlinked: !sc.hasScope,
		Statuses:        []domain.TaskStatus{domain.TaskStatusCompleted},
	})
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(followUps)+len(tasks))
	for _, f := range followUps {
		if f.FollowUpDate == nil || f.FollowUpDate.IsZero() || !sc.leadSet.Has(f.LeadID) {
			continue
		}
		kind, title := ActivityFollowUp, "Follow-up"
		if f.IsSiteVisit {
			kind, title = ActivitySiteVisit, "Site visit"
		}
		if f.Outcome != "" {
			title += ": " + sanitize.Text(f.Outcome)
		}
		leadID := f.LeadID
		activities = append(activities, Activity{
			Type: kind, ID: f.ID, LeadID: &leadID, LeadName: sc.leadName(&leadID), Title: title, At: *f.FollowUpDate,
		})
	}
	for _, t := range tasks {
		if t.Status != domain.TaskStatusCompleted || t.CompletedAt == nil || t.CompletedAt.IsZero() || !sc.allowsTask(t) {
			continue
		}
		activities = append(activities, Activity{
			Type: ActivityTaskCompleted, ID: t.ID, LeadID: t.LeadID, LeadName: sc.leadName(t.LeadID), Title: sanitize.Text(t.Title), At: *t.CompletedAt,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].At.After(activities[j].At)
	})
	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}
	return activities, nil
}

// upcomingEvents looks ahead from the wall clock, not from the filter
// window.
func (a *Aggregator) upcomingEvents(ctx context.Context, sc *scope) ([]UpcomingEvent, error) {
	ahead := domain.DateRange{From: sc.now, To: domain.EndOfDay(sc.now.AddDate(0, 0, upcomingDays))}

	tasks, err := a.stores.Tasks.Query(ctx, ports.TaskQuery{
		AssignedTo:      sc.filter.SalesPersonID,
		LeadIDs:         sc.leadIDs,
		IncludeUnlinked: !sc.hasScope,
		Range:           &ahead,
		Statuses:        []domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusInProgress},
	})
	if err != nil {
		return nil, err
	}

	events := make([]UpcomingEvent, 0)
	for _, l := range sc.leads {
		leadID := l.ID
		if l.Status.IsActive() && ahead.ContainsRef(l.NextFollowUpDate) {
			events = append(events, UpcomingEvent{
				Type: EventFollowUp, ID: l.ID, LeadID: &leadID, LeadName: l.Name, Title: "Follow up with " + l.Name, At: *l.NextFollowUpDate,
			})
		}
		if l.SiteVisitStatus == domain.SiteVisitScheduled && ahead.ContainsRef(l.SiteVisitDate) {
			events = append(events, UpcomingEvent{
				Type: EventSiteVisit, ID: l.ID, LeadID: &leadID, LeadName: l.Name, Title: "Site visit with " + l.Name, At: *l.SiteVisitDate,
			})
		}
	}
	for _, t := range tasks {
		if !t.Status.IsOpen() || !sc.allowsTask(t) || !ahead.ContainsRef(t.DueDate) {
			continue
		}
		events = append(events, UpcomingEvent{
			Type: EventTask, ID: t.ID, LeadID: t.LeadID, LeadName: sc.leadName(t.LeadID), Title: sanitize.Text(t.Title), At: *t.DueDate,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events, nil
}

// averager accumulates optional scores.
type averager struct {
	sum   int
	count int
}

func (a *averager) add(v *int) {
	if v == nil {
		return
	}
	a.sum += *v
	a.count++
}

func (a *averager) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(a.sum)).
		Div(decimal.NewFromInt(int64(a.count))).
		Round(2).
		InexactFloat64()
}

// percentOf returns num/den*100 rounded to 2 decimals, or 0 when den is 0.
func percentOf(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return decimal.NewFromFloat(num).
		Div(decimal.NewFromFloat(den)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
