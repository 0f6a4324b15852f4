// Package tasks derives a salesperson's worklist for the day from their leads.
package tasks

import (
	"sort"
	"time"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/scoring"

	"github.com/google/uuid"
)

// Type is the kind of derived work item.
type Type string

const (
	TypeFollowUp     Type = "FOLLOW_UP"
	TypeFirstContact Type = "FIRST_CONTACT"
	TypeSiteVisit    Type = "SITE_VISIT"
)

// QuickAction is a one-tap action offered next to a work item.
type QuickAction string

const (
	ActionCall          QuickAction = "CALL"
	ActionWhatsApp      QuickAction = "WHATSAPP"
	ActionEmail         QuickAction = "EMAIL"
	ActionLogFollowUp   QuickAction = "LOG_FOLLOW_UP"
	ActionScheduleVisit QuickAction = "SCHEDULE_VISIT"
)

// PrioritizedTask is one item on today's worklist.
type PrioritizedTask struct {
	ID           string
	Type         Type
	LeadID       uuid.UUID
	LeadName     string
	DueDate      time.Time
	Priority     scoring.Result
	ActionLabel  string
	QuickActions []QuickAction
}

// DeriveTodaysTasks builds the worklist for now's calendar day. A lead may
// produce up to one task of each type. The result is ordered by descending
// priority score; ties keep lead order, then type order.
func DeriveTodaysTasks(leads []domain.Lead, now time.Time) []PrioritizedTask {
	endOfToday := domain.EndOfDay(now)
	out := make([]PrioritizedTask, 0, len(leads))

	for _, lead := range leads {
		priority := scoring.Score(lead, now)

		if lead.NextFollowUpDate != nil && !lead.NextFollowUpDate.After(endOfToday) {
			out = append(out, PrioritizedTask{
				ID:           "followup-" + lead.ID.String(),
				Type:         TypeFollowUp,
				LeadID:       lead.ID,
				LeadName:     lead.Name,
				DueDate:      *lead.NextFollowUpDate,
				Priority:     priority,
				ActionLabel:  "Follow up with " + displayName(lead),
				QuickActions: contactActions(lead, ActionLogFollowUp),
			})
		}

		if lead.LastContactedAt == nil && lead.Status == domain.LeadStatusNew {
			out = append(out, PrioritizedTask{
				ID:           "contact-" + lead.ID.String(),
				Type:         TypeFirstContact,
				LeadID:       lead.ID,
				LeadName:     lead.Name,
				DueDate:      lead.CreatedAt,
				Priority:     priority,
				ActionLabel:  "Make first contact with " + displayName(lead),
				QuickActions: contactActions(lead, ActionLogFollowUp),
			})
		}

		if !lead.HasSiteVisit && lead.Status == domain.LeadStatusContacted {
			out = append(out, PrioritizedTask{
				ID:           "visit-" + lead.ID.String(),
				Type:         TypeSiteVisit,
				LeadID:       lead.ID,
				LeadName:     lead.Name,
				DueDate:      lead.UpdatedAt,
				Priority:     priority,
				ActionLabel:  "Schedule a site visit for " + displayName(lead),
				QuickActions: contactActions(lead, ActionScheduleVisit),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Score > out[j].Priority.Score
	})
	return out
}

func displayName(lead domain.Lead) string {
	if lead.Name != "" {
		return lead.Name
	}
	return "lead"
}

// contactActions offers the channels the lead can be reached on, followed
// by the type-specific action.
func contactActions(lead domain.Lead, followUp QuickAction) []QuickAction {
	actions := make([]QuickAction, 0, 4)
	if lead.Phone != "" {
		actions = append(actions, ActionCall, ActionWhatsApp)
	}
	if lead.Email != "" {
		actions = append(actions, ActionEmail)
	}
	return append(actions, followUp)
}
