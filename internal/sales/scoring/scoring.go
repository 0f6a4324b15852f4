// Package scoring ranks leads by how urgently a salesperson should act on them.
// The model is additive: each factor contributes a fixed number of points and
// the total maps to an urgency tier.
package scoring

import (
	"fmt"
	"sort"
	"time"

	"sales_performance_backend/internal/sales/domain"
)

// scoreVersion tracks the scoring model for debugging and analysis.
// Bump this when changing point values or tier thresholds.
const scoreVersion = "2025-priority-v1"

// Urgency is the coarse bucket derived from a score.
type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
	UrgencyUrgent Urgency = "URGENT"
)

// Tier thresholds on the total score (inclusive lower bounds).
const (
	urgentThreshold = 70
	highThreshold   = 50
	mediumThreshold = 30
)

// Display is the cosmetic presentation of an urgency tier.
type Display struct {
	Color string `json:"color"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

var tierDisplay = map[Urgency]Display{
	UrgencyUrgent: {Color: "#dc2626", Emoji: "🔥", Label: "Urgent"},
	UrgencyHigh:   {Color: "#ea580c", Emoji: "⚡", Label: "High"},
	UrgencyMedium: {Color: "#ca8a04", Emoji: "📌", Label: "Medium"},
	UrgencyLow:    {Color: "#16a34a", Emoji: "🟢", Label: "Low"},
}

// DisplayFor returns the presentation of u. Unknown tiers render as LOW.
func DisplayFor(u Urgency) Display {
	if d, ok := tierDisplay[u]; ok {
		return d
	}
	return tierDisplay[UrgencyLow]
}

// Result is the priority assessment of one lead at one instant.
type Result struct {
	Score   int      `json:"score"`
	Urgency Urgency  `json:"urgency"`
	Display Display  `json:"display"`
	Reasons []string `json:"reasons"`
	Version string   `json:"version"`
}

// Score computes the priority of lead at now. It never reads the wall clock.
func Score(lead domain.Lead, now time.Time) Result {
	score := 0
	reasons := make([]string, 0, 5)

	add := func(points int, reason string) {
		if points == 0 {
			return
		}
		score += points
		reasons = append(reasons, reason)
	}

	add(scoreFollowUpTiming(lead.NextFollowUpDate, now))
	add(scoreStatus(lead.Status))
	add(scoreDeclaredPriority(lead.Priority))
	add(scoreContactRecency(lead.LastContactedAt, now))
	add(scoreSiteVisitGap(lead))

	urgency := UrgencyFor(score)
	return Result{
		Score:   score,
		Urgency: urgency,
		Display: DisplayFor(urgency),
		Reasons: reasons,
		Version: scoreVersion,
	}
}

// UrgencyFor maps a total score to its tier.
func UrgencyFor(score int) Urgency {
	switch {
	case score >= urgentThreshold:
		return UrgencyUrgent
	case score >= highThreshold:
		return UrgencyHigh
	case score >= mediumThreshold:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// scoreFollowUpTiming rewards follow-ups that are overdue or close to due.
// Brackets are exclusive; the most urgent match wins.
func scoreFollowUpTiming(next *time.Time, now time.Time) (int, string) {
	if next == nil {
		return 0, ""
	}
	until := next.Sub(now)
	switch {
	case until < 0:
		return 40, "Follow-up overdue"
	case until < time.Hour:
		return 35, "Follow-up due within 1 hour"
	case until < 4*time.Hour:
		return 30, "Follow-up due within 4 hours"
	case until < 24*time.Hour:
		return 20, "Follow-up due within 24 hours"
	case until < 48*time.Hour:
		return 10, "Follow-up due within 48 hours"
	default:
		return 0, ""
	}
}

// scoreStatus evaluates where the lead is in the funnel.
func scoreStatus(status domain.LeadStatus) (int, string) {
	switch status {
	case domain.LeadStatusQualified:
		return 25, "Qualified lead"
	case domain.LeadStatusContacted:
		return 20, "Contacted lead"
	case domain.LeadStatusNew:
		return 10, "New lead"
	default:
		return 0, ""
	}
}

func scoreDeclaredPriority(p domain.Priority) (int, string) {
	switch p {
	case domain.PriorityUrgent:
		return 15, "Marked urgent"
	case domain.PriorityHigh:
		return 10, "High priority"
	case domain.PriorityMedium:
		return 5, "Medium priority"
	default:
		return 0, ""
	}
}

// scoreContactRecency rewards leads that have gone quiet.
func scoreContactRecency(last *time.Time, now time.Time) (int, string) {
	if last == nil {
		return 8, "Never contacted"
	}
	days := int(now.Sub(*last).Hours() / 24)
	switch {
	case days > 7:
		return 10, fmt.Sprintf("No contact for %d days", days)
	case days > 3:
		return 5, fmt.Sprintf("No contact for %d days", days)
	default:
		return 0, ""
	}
}

func scoreSiteVisitGap(lead domain.Lead) (int, string) {
	if !lead.HasSiteVisit && lead.Status == domain.LeadStatusContacted {
		return 10, "Site visit not yet scheduled"
	}
	return 0, ""
}

// ScoredLead pairs a lead with its assessment.
type ScoredLead struct {
	Lead     domain.Lead
	Priority Result
}

// SortByPriority scores every lead at now and orders them by descending
// score. Equal scores keep their input order.
func SortByPriority(leads []domain.Lead, now time.Time) []ScoredLead {
	scored := make([]ScoredLead, len(leads))
	for i, l := range leads {
		scored[i] = ScoredLead{Lead: l, Priority: Score(l, now)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Priority.Score > scored[j].Priority.Score
	})
	return scored
}
