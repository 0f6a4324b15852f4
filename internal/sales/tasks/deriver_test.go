package tasks

import (
	"reflect"
	"testing"
	"time"

	"sales_performance_backend/internal/sales/domain"

	"github.com/google/uuid"
)

var now = time.Date(2025, time.October, 15, 9, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestDeriveTodaysTasksRules(t *testing.T) {
	created := now.Add(-48 * time.Hour)
	updated := now.Add(-6 * time.Hour)

	lateToday := domain.Lead{
		ID: uuid.New(), Name: "Late today", Status: domain.LeadStatusQualified,
		NextFollowUpDate: ptr(time.Date(2025, time.October, 15, 23, 30, 0, 0, time.UTC)),
		LastContactedAt:  ptr(now.Add(-time.Hour)), HasSiteVisit: true,
	}
	tomorrow := domain.Lead{
		ID: uuid.New(), Name: "Tomorrow", Status: domain.LeadStatusQualified,
		NextFollowUpDate: ptr(time.Date(2025, time.October, 16, 0, 0, 0, 0, time.UTC)),
		LastContactedAt:  ptr(now.Add(-time.Hour)), HasSiteVisit: true,
	}
	fresh := domain.Lead{
		ID: uuid.New(), Name: "Fresh", Status: domain.LeadStatusNew, Phone: "+919800000000",
		CreatedAt: created,
	}
	needsVisit := domain.Lead{
		ID: uuid.New(), Name: "Needs visit", Status: domain.LeadStatusContacted,
		LastContactedAt: ptr(now.Add(-time.Hour)), UpdatedAt: updated,
	}

	got := DeriveTodaysTasks([]domain.Lead{lateToday, tomorrow, fresh, needsVisit}, now)

	if len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %d: %+v", len(got), got)
	}

	byType := map[Type]PrioritizedTask{}
	for _, task := range got {
		byType[task.Type] = task
	}

	if task := byType[TypeFollowUp]; task.LeadID != lateToday.ID {
		t.Fatalf("expected follow-up for the lead due later today, got %+v", task)
	}
	if task := byType[TypeFirstContact]; task.LeadID != fresh.ID || !task.DueDate.Equal(created) {
		t.Fatalf("first contact should be due at createdAt, got %+v", task)
	}
	if task := byType[TypeSiteVisit]; task.LeadID != needsVisit.ID || !task.DueDate.Equal(updated) {
		t.Fatalf("site visit should be due at updatedAt, got %+v", task)
	}

	wantActions := []QuickAction{ActionCall, ActionWhatsApp, ActionLogFollowUp}
	if !reflect.DeepEqual(byType[TypeFirstContact].QuickActions, wantActions) {
		t.Fatalf("expected %v, got %v", wantActions, byType[TypeFirstContact].QuickActions)
	}
}

func TestDeriveTodaysTasksSingleLeadMayEmitSeveral(t *testing.T) {
	lead := domain.Lead{
		ID: uuid.New(), Status: domain.LeadStatusContacted,
		NextFollowUpDate: ptr(now.Add(-time.Hour)),
	}

	got := DeriveTodaysTasks([]domain.Lead{lead}, now)
	if len(got) != 2 {
		t.Fatalf("expected follow-up and site visit tasks, got %d", len(got))
	}
	if got[0].Type != TypeFollowUp || got[1].Type != TypeSiteVisit {
		t.Fatalf("ties must keep evaluation order, got %s then %s", got[0].Type, got[1].Type)
	}
	if got[0].Priority.Score != got[1].Priority.Score {
		t.Fatalf("tasks of one lead share the lead's score")
	}
}

func TestDeriveTodaysTasksOrderedByScore(t *testing.T) {
	cold := domain.Lead{
		ID: uuid.New(), Name: "cold", Status: domain.LeadStatusNew, Priority: domain.PriorityLow,
	}
	hot := domain.Lead{
		ID: uuid.New(), Name: "hot", Status: domain.LeadStatusNew, Priority: domain.PriorityUrgent,
		NextFollowUpDate: ptr(now.Add(-time.Hour)),
	}

	got := DeriveTodaysTasks([]domain.Lead{cold, hot}, now)

	if len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Priority.Score < got[i].Priority.Score {
			t.Fatalf("tasks not sorted by descending score: %d before %d", got[i-1].Priority.Score, got[i].Priority.Score)
		}
	}
	if got[len(got)-1].LeadName != "cold" {
		t.Fatalf("expected cold lead last, got %s", got[len(got)-1].LeadName)
	}
}

func TestDeriveTodaysTasksEmpty(t *testing.T) {
	if got := DeriveTodaysTasks(nil, now); len(got) != 0 {
		t.Fatalf("expected no tasks, got %d", len(got))
	}
}
