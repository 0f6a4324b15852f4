package dashboard

import (
	"time"

	"sales_performance_backend/internal/sales/targets"

	"github.com/google/uuid"
)

// Metrics is the composite dashboard of one salesperson.
type Metrics struct {
	SalesPersonID    uuid.UUID        `json:"salesPersonId"`
	Window           Window           `json:"window"`
	Performance      targets.Summary  `json:"performance"`
	Leads            LeadMetrics      `json:"leads"`
	SiteVisits       SiteVisitMetrics `json:"siteVisits"`
	FollowUps        FollowUpMetrics  `json:"followUps"`
	Tasks            TaskMetrics      `json:"tasks"`
	Revenue          RevenueMetrics   `json:"revenue"`
	RecentActivities []Activity       `json:"recentActivities"`
	UpcomingEvents   []UpcomingEvent  `json:"upcomingEvents"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}

// Window is the resolved metric window and the week span derived from it.
type Window struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	WeekStart time.Time `json:"weekStart"`
	WeekEnd   time.Time `json:"weekEnd"`
}

type LeadMetrics struct {
	Total          int            `json:"total"`
	New            int            `json:"new"`
	Active         int            `json:"active"`
	Hot            int            `json:"hot"`
	Warm           int            `json:"warm"`
	Cold           int            `json:"cold"`
	Converted      int            `json:"converted"`
	BySource       map[string]int `json:"bySource"`
	ConversionRate float64        `json:"conversionRate"`
}

type SiteVisitMetrics struct {
	Scheduled int     `json:"scheduled"`
	Completed int     `json:"completed"`
	ThisWeek  int     `json:"thisWeek"`
	AvgRating float64 `json:"avgRating"`
}

type FollowUpMetrics struct {
	Total            int     `json:"total"`
	Overdue          int     `json:"overdue"`
	DueToday         int     `json:"dueToday"`
	DueThisWeek      int     `json:"dueThisWeek"`
	AvgInterestLevel float64 `json:"avgInterestLevel"`
	AvgBudgetFit     float64 `json:"avgBudgetFit"`
	AvgTimelineFit   float64 `json:"avgTimelineFit"`
}

type TaskMetrics struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	InProgress     int     `json:"inProgress"`
	Completed      int     `json:"completed"`
	Overdue        int     `json:"overdue"`
	DueThisWeek    int     `json:"dueThisWeek"`
	CompletionRate float64 `json:"completionRate"`
}

type RevenueMetrics struct {
	Total             float64 `json:"total"`
	Bookings          int     `json:"bookings"`
	AvgDealSize       float64 `json:"avgDealSize"`
	ProjectedMonthEnd float64 `json:"projectedMonthEnd"`
}

// ActivityType distinguishes entries of the recent activity feed.
type ActivityType string

const (
	ActivityFollowUp      ActivityType = "FOLLOW_UP"
	ActivitySiteVisit     ActivityType = "SITE_VISIT"
	ActivityTaskCompleted ActivityType = "TASK_COMPLETED"
)

type Activity struct {
	Type     ActivityType `json:"type"`
	ID       uuid.UUID    `json:"id"`
	LeadID   *uuid.UUID   `json:"leadId,omitempty"`
	LeadName string       `json:"leadName,omitempty"`
	Title    string       `json:"title"`
	At       time.Time    `json:"at"`
}

// EventType distinguishes entries of the upcoming events list.
type EventType string

const (
	EventFollowUp  EventType = "FOLLOW_UP"
	EventTask      EventType = "TASK"
	EventSiteVisit EventType = "SITE_VISIT"
)

type UpcomingEvent struct {
	Type     EventType  `json:"type"`
	ID       uuid.UUID  `json:"id"`
	LeadID   *uuid.UUID `json:"leadId,omitempty"`
	LeadName string     `json:"leadName,omitempty"`
	Title    string     `json:"title"`
	At       time.Time  `json:"at"`
}
