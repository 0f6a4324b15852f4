// Package achievement recomputes a sales target from measured performance:
// per-metric percentages, the weighted overall percentage, incentive payout
// and the status transition at period end.
package achievement

import (
	"math"
	"time"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/motivation"
	"sales_performance_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

// Metric weights of the overall achievement percentage.
const (
	WeightLeads       = 0.10
	WeightSiteVisits  = 0.15
	WeightConversions = 0.20
	WeightBookings    = 0.30
	WeightRevenue     = 0.25
)

var hundred = decimal.NewFromInt(100)

// Recompute returns target with its achieved counters, percentages,
// incentives, status, missedBy and message derived from perf as of now.
// The input target is not modified. Identical inputs give identical output.
func Recompute(target domain.SalesTarget, perf domain.Performance, now time.Time) (domain.SalesTarget, error) {
	if !target.StartDate.Before(target.EndDate) {
		return domain.SalesTarget{}, apperr.InvalidTargetWindow("target start date must be before end date").
			WithOp("achievement.Recompute").
			WithDetails(map[string]any{"targetId": target.ID, "startDate": target.StartDate, "endDate": target.EndDate})
	}

	out := target
	out.Achieved = domain.MetricCounts{
		Leads:       perf.Leads,
		SiteVisits:  perf.SiteVisits,
		Conversions: perf.Conversions,
		Bookings:    perf.Bookings,
		Revenue:     finite(perf.Revenue),
	}

	pct := Percentages(out.Targets, out.Achieved)
	out.AchievementPct = pct
	out.OverallAchievementPct = Overall(pct)
	out.Status = StatusAt(out.EndDate, out.OverallAchievementPct, now)
	out.Incentive = Incentives(out.Incentive.Base, out.OverallAchievementPct)
	out.MissedBy = max(0, out.Targets.Bookings-out.Achieved.Bookings)
	out.MotivationalMessage = motivation.Message(motivation.Input{
		OverallPct:    out.OverallAchievementPct,
		MissedBy:      out.MissedBy,
		BaseIncentive: out.Incentive.Base,
	})
	return out, nil
}

// Percentages computes achieved/target*100 per metric, rounded to 2
// decimals. A non-positive target yields 0.
func Percentages(targets, achieved domain.MetricCounts) domain.MetricPercentages {
	return domain.MetricPercentages{
		Leads:       percent(float64(achieved.Leads), float64(targets.Leads)),
		SiteVisits:  percent(float64(achieved.SiteVisits), float64(targets.SiteVisits)),
		Conversions: percent(float64(achieved.Conversions), float64(targets.Conversions)),
		Bookings:    percent(float64(achieved.Bookings), float64(targets.Bookings)),
		Revenue:     percent(finite(achieved.Revenue), finite(targets.Revenue)),
	}
}

// Overall is the weighted sum of the per-metric percentages, rounded to 2
// decimals.
func Overall(p domain.MetricPercentages) float64 {
	sum := weighted(p.Leads, WeightLeads).
		Add(weighted(p.SiteVisits, WeightSiteVisits)).
		Add(weighted(p.Conversions, WeightConversions)).
		Add(weighted(p.Bookings, WeightBookings)).
		Add(weighted(p.Revenue, WeightRevenue))
	return sum.Round(2).InexactFloat64()
}

// StatusAt is IN_PROGRESS until now's calendar day is past endDate's, then
// ACHIEVED or MISSED depending on overallPct.
func StatusAt(endDate time.Time, overallPct float64, now time.Time) domain.TargetStatus {
	if !domain.DayAfter(now, endDate) {
		return domain.TargetStatusInProgress
	}
	if overallPct >= 100 {
		return domain.TargetStatusAchieved
	}
	return domain.TargetStatusMissed
}

// Incentives pays base pro rata to overallPct, plus a bonus for the share
// above 100%.
func Incentives(base, overallPct float64) domain.Incentive {
	b := decimal.NewFromFloat(finite(base))
	pct := decimal.NewFromFloat(finite(overallPct))

	earned := b.Mul(pct).Div(hundred).Round(2)
	bonus := decimal.Zero
	if pct.GreaterThan(hundred) {
		bonus = b.Mul(pct.Sub(hundred)).Div(hundred).Round(2)
	}
	return domain.Incentive{
		Base:   b.InexactFloat64(),
		Earned: earned.InexactFloat64(),
		Bonus:  bonus.InexactFloat64(),
		Total:  earned.Add(bonus).InexactFloat64(),
	}
}

func percent(achieved, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return decimal.NewFromFloat(achieved).
		Div(decimal.NewFromFloat(target)).
		Mul(hundred).
		Round(2).
		InexactFloat64()
}

func weighted(pct, weight float64) decimal.Decimal {
	return decimal.NewFromFloat(pct).Mul(decimal.NewFromFloat(weight))
}

// finite maps NaN and infinities to 0; decimal cannot represent them.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
