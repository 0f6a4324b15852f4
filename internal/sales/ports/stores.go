// Package ports defines the stores the sales engine reads from and the one
// store it writes to. Implementations live in the repository package; tests
// use in-memory fakes.
package ports

import (
	"context"
	"time"

	"sales_performance_backend/internal/sales/domain"

	"github.com/google/uuid"
)

// LeadQuery filters leads by equality. Nil optional fields do not restrict.
type LeadQuery struct {
	AssignedTo uuid.UUID
	PropertyID *uuid.UUID
	TowerID    *uuid.UUID
	FlatID     *uuid.UUID
}

// HasScope reports whether any property/tower/flat filter is set.
func (q LeadQuery) HasScope() bool {
	return q.PropertyID != nil || q.TowerID != nil || q.FlatID != nil
}

// LeadStore reads leads.
type LeadStore interface {
	// Query returns every lead matching q, no pagination.
	Query(ctx context.Context, q LeadQuery) ([]domain.Lead, error)
}

// FollowUpQuery filters follow-ups. A nil LeadIDs means no restriction;
// an empty non-nil slice matches nothing.
type FollowUpQuery struct {
	PerformedBy    uuid.UUID
	LeadIDs        []uuid.UUID
	Range          *domain.DateRange
	SiteVisitsOnly bool
}

// FollowUpStore reads follow-ups.
type FollowUpStore interface {
	Query(ctx context.Context, q FollowUpQuery) ([]domain.FollowUp, error)
}

// TaskQuery filters sales tasks. LeadIDs follows the FollowUpQuery rule.
// IncludeUnlinked also returns tasks without a lead when LeadIDs is set.
// Range applies to the due date.
type TaskQuery struct {
	AssignedTo      uuid.UUID
	LeadIDs         []uuid.UUID
	IncludeUnlinked bool
	Range           *domain.DateRange
	Statuses        []domain.TaskStatus
}

// SalesTaskStore reads sales tasks.
type SalesTaskStore interface {
	Query(ctx context.Context, q TaskQuery) ([]domain.SalesTask, error)
}

// SalesTargetStore reads and persists sales targets.
type SalesTargetStore interface {
	// FindActiveOrInProgress returns the open target of a salesperson, or
	// nil when there is none.
	FindActiveOrInProgress(ctx context.Context, salesPersonID uuid.UUID) (*domain.SalesTarget, error)
	// Save writes the recomputed fields of t in one statement.
	Save(ctx context.Context, t domain.SalesTarget) error
	// ListDueForFinalization returns open targets whose end date is before asOf.
	ListDueForFinalization(ctx context.Context, asOf time.Time) ([]domain.SalesTarget, error)
}

// BookingStore reads bookings.
type BookingStore interface {
	Query(ctx context.Context, r domain.DateRange, propertyID *uuid.UUID) ([]domain.Booking, error)
}

// PerformanceStore measures a salesperson's activity over a window.
type PerformanceStore interface {
	PeriodPerformance(ctx context.Context, salesPersonID uuid.UUID, r domain.DateRange) (domain.Performance, error)
}
