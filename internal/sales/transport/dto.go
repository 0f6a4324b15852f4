package transport

import (
	"time"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/scoring"
	"sales_performance_backend/internal/sales/tasks"
	"sales_performance_backend/platform/phone"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format accepted in query strings.
const DateLayout = "2006-01-02"

// ScopeQuery selects whose leads to read and narrows them by location.
// SalesPersonID defaults to the caller.
type ScopeQuery struct {
	SalesPersonID string `form:"salesPersonId" validate:"omitempty,uuid"`
	PropertyID    string `form:"propertyId" validate:"omitempty,uuid"`
	TowerID       string `form:"towerId" validate:"omitempty,uuid"`
	FlatID        string `form:"flatId" validate:"omitempty,uuid"`
}

type DashboardQuery struct {
	ScopeQuery
	DateFrom string `form:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"dateTo" validate:"omitempty,datetime=2006-01-02"`
}

type TodaysTasksQuery struct {
	SalesPersonID string `form:"salesPersonId" validate:"omitempty,uuid"`
}

type RecomputeTargetRequest struct {
	SalesPersonID string `json:"salesPersonId" validate:"omitempty,uuid"`
}

type PrioritizedLeadResponse struct {
	ID               uuid.UUID      `json:"id"`
	Name             string         `json:"name"`
	Phone            string         `json:"phone,omitempty"`
	Email            string         `json:"email,omitempty"`
	Status           string         `json:"status"`
	Priority         string         `json:"priority"`
	Source           string         `json:"source,omitempty"`
	NextFollowUpDate *time.Time     `json:"nextFollowUpDate,omitempty"`
	LastContactedAt  *time.Time     `json:"lastContactedAt,omitempty"`
	HasSiteVisit     bool           `json:"hasSiteVisit"`
	Converted        bool           `json:"converted"`
	Score            scoring.Result `json:"priorityScore"`
}

type PrioritizedLeadsResponse struct {
	Items []PrioritizedLeadResponse `json:"items"`
	Total int                       `json:"total"`
}

type TaskResponse struct {
	ID           string              `json:"id"`
	Type         tasks.Type          `json:"type"`
	LeadID       uuid.UUID           `json:"leadId"`
	LeadName     string              `json:"leadName"`
	DueDate      time.Time           `json:"dueDate"`
	Priority     scoring.Result      `json:"priority"`
	ActionLabel  string              `json:"actionLabel"`
	QuickActions []tasks.QuickAction `json:"quickActions"`
}

type TodaysTasksResponse struct {
	Items []TaskResponse `json:"items"`
	Total int            `json:"total"`
}

func ToPrioritizedLeadsResponse(scored []scoring.ScoredLead) PrioritizedLeadsResponse {
	items := make([]PrioritizedLeadResponse, len(scored))
	for i, s := range scored {
		items[i] = toPrioritizedLead(s.Lead, s.Priority)
	}
	return PrioritizedLeadsResponse{Items: items, Total: len(items)}
}

func toPrioritizedLead(l domain.Lead, score scoring.Result) PrioritizedLeadResponse {
	return PrioritizedLeadResponse{
		ID:               l.ID,
		Name:             l.Name,
		Phone:            phone.NormalizeE164(l.Phone),
		Email:            l.Email,
		Status:           string(l.Status),
		Priority:         string(l.Priority),
		Source:           l.Source,
		NextFollowUpDate: l.NextFollowUpDate,
		LastContactedAt:  l.LastContactedAt,
		HasSiteVisit:     l.HasSiteVisit,
		Converted:        l.IsConverted(),
		Score:            score,
	}
}

func ToTodaysTasksResponse(derived []tasks.PrioritizedTask) TodaysTasksResponse {
	items := make([]TaskResponse, len(derived))
	for i, t := range derived {
		items[i] = TaskResponse{
			ID:           t.ID,
			Type:         t.Type,
			LeadID:       t.LeadID,
			LeadName:     t.LeadName,
			DueDate:      t.DueDate,
			Priority:     t.Priority,
			ActionLabel:  t.ActionLabel,
			QuickActions: t.QuickActions,
		}
	}
	return TodaysTasksResponse{Items: items, Total: len(items)}
}
