package domain

import (
	"time"

	"github.com/google/uuid"
)

// FollowUp is one logged interaction with a lead.
type FollowUp struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	FollowUpDate *time.Time
	Outcome      string
	Notes        string
	IsSiteVisit  bool
	// 0-5, nil when not rated.
	SiteVisitRating *int
	// 0-10 each, nil when not captured.
	InterestLevel *int
	BudgetFit     *int
	TimelineFit   *int
	PerformedBy   uuid.UUID
}

// TaskStatus is the lifecycle state of a sales task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
	TaskStatusOverdue    TaskStatus = "OVERDUE"
)

// IsOpen reports whether work on the task is still expected.
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress || s == TaskStatusOverdue
}

// SalesTask is a to-do item assigned to a salesperson.
type SalesTask struct {
	ID          uuid.UUID
	LeadID      *uuid.UUID
	Title       string
	TaskType    string
	AssignedTo  uuid.UUID
	DueDate     *time.Time
	DueTime     string
	Status      TaskStatus
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// Booking is a closed sale, read only for revenue aggregation.
type Booking struct {
	ID          uuid.UUID
	LeadID      *uuid.UUID
	PropertyID  *uuid.UUID
	BookingDate time.Time
	TotalAmount float64
}
