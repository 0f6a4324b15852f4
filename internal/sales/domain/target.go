package domain

import (
	"time"

	"github.com/google/uuid"
)

// TargetPeriod is the quota cadence of a sales target.
type TargetPeriod string

const (
	TargetPeriodMonthly    TargetPeriod = "MONTHLY"
	TargetPeriodQuarterly  TargetPeriod = "QUARTERLY"
	TargetPeriodHalfYearly TargetPeriod = "HALF_YEARLY"
	TargetPeriodYearly     TargetPeriod = "YEARLY"
)

// TargetStatus is the lifecycle state of a sales target.
type TargetStatus string

const (
	TargetStatusActive     TargetStatus = "ACTIVE"
	TargetStatusInProgress TargetStatus = "IN_PROGRESS"
	TargetStatusAchieved   TargetStatus = "ACHIEVED"
	TargetStatusMissed     TargetStatus = "MISSED"
)

// IsOpen reports whether the target still accrues performance.
func (s TargetStatus) IsOpen() bool {
	return s == TargetStatusActive || s == TargetStatusInProgress
}

// MetricCounts has one value per tracked metric. Used for both the quota
// and the achieved side of a target.
type MetricCounts struct {
	Leads       int     `json:"leads"`
	SiteVisits  int     `json:"siteVisits"`
	Conversions int     `json:"conversions"`
	Bookings    int     `json:"bookings"`
	Revenue     float64 `json:"revenue"`
}

// MetricPercentages holds per-metric achievement percentages.
type MetricPercentages struct {
	Leads       float64 `json:"leads"`
	SiteVisits  float64 `json:"siteVisits"`
	Conversions float64 `json:"conversions"`
	Bookings    float64 `json:"bookings"`
	Revenue     float64 `json:"revenue"`
}

// Incentive is the payout state of a target.
type Incentive struct {
	Base   float64 `json:"base"`
	Earned float64 `json:"earned"`
	Bonus  float64 `json:"bonus"`
	Total  float64 `json:"total"`
}

// SalesTarget is a period quota assigned to one salesperson.
type SalesTarget struct {
	ID                    uuid.UUID         `json:"id"`
	SalesPersonID         uuid.UUID         `json:"salesPersonId"`
	TargetPeriod          TargetPeriod      `json:"targetPeriod"`
	StartDate             time.Time         `json:"startDate"`
	EndDate               time.Time         `json:"endDate"`
	Targets               MetricCounts      `json:"targets"`
	Achieved              MetricCounts      `json:"achieved"`
	AchievementPct        MetricPercentages `json:"achievementPct"`
	OverallAchievementPct float64           `json:"overallAchievementPct"`
	Incentive             Incentive         `json:"incentive"`
	Status                TargetStatus      `json:"status"`
	MissedBy              int               `json:"missedBy"`
	MotivationalMessage   string            `json:"motivationalMessage"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

// Window returns the inclusive performance window of the target, widened to
// whole calendar days in loc so activity on the end day counts.
func (t SalesTarget) Window(loc *time.Location) DateRange {
	if loc == nil {
		loc = time.UTC
	}
	return DateRange{From: StartOfDay(t.StartDate.In(loc)), To: EndOfDay(t.EndDate.In(loc))}
}

// Performance is the externally measured activity of a salesperson over a
// target window.
type Performance = MetricCounts
