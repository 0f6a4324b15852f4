package repository

import (
	"context"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FollowUpStore struct {
	pool *pgxpool.Pool
}

// Query returns follow-ups by q.PerformedBy. A nil q.LeadIDs binds as NULL
// and disables the lead restriction.
func (r *FollowUpStore) Query(ctx context.Context, q ports.FollowUpQuery) ([]domain.FollowUp, error) {
	from, to := rangeBounds(q.Range)
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, follow_up_date, outcome, notes, is_site_visit,
			site_visit_rating, interest_level, budget_fit, timeline_fit, performed_by
		FROM sales_follow_ups
		WHERE performed_by = $1
			AND ($2::uuid[] IS NULL OR lead_id = ANY($2::uuid[]))
			AND ($3::timestamptz IS NULL OR follow_up_date >= $3)
			AND ($4::timestamptz IS NULL OR follow_up_date <= $4)
			AND (NOT $5 OR is_site_visit)
		ORDER BY follow_up_date DESC NULLS LAST, id
	`, q.PerformedBy, q.LeadIDs, from, to, q.SiteVisitsOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.FollowUp, 0)
	for rows.Next() {
		var f domain.FollowUp
		if err := rows.Scan(
			&f.ID, &f.LeadID, &f.FollowUpDate, &f.Outcome, &f.Notes, &f.IsSiteVisit,
			&f.SiteVisitRating, &f.InterestLevel, &f.BudgetFit, &f.TimelineFit, &f.PerformedBy,
		); err != nil {
			return nil, err
		}
		items = append(items, f)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

type TaskStore struct {
	pool *pgxpool.Pool
}

// Query returns tasks assigned to q.AssignedTo. Range filters on due date.
func (r *TaskStore) Query(ctx context.Context, q ports.TaskQuery) ([]domain.SalesTask, error) {
	from, to := rangeBounds(q.Range)

	var statuses []string
	if len(q.Statuses) > 0 {
		statuses = make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, title, task_type, assigned_to, due_date, due_time,
			status, completed_at, created_at
		FROM sales_tasks
		WHERE assigned_to = $1
			AND ($2::uuid[] IS NULL OR lead_id = ANY($2::uuid[]) OR ($3 AND lead_id IS NULL))
			AND ($4::timestamptz IS NULL OR due_date >= $4)
			AND ($5::timestamptz IS NULL OR due_date <= $5)
			AND ($6::text[] IS NULL OR status = ANY($6::text[]))
		ORDER BY due_date ASC NULLS LAST, id
	`, q.AssignedTo, q.LeadIDs, q.IncludeUnlinked, from, to, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.SalesTask, 0)
	for rows.Next() {
		var (
			t       domain.SalesTask
			dueTime *string
			status  string
		)
		if err := rows.Scan(
			&t.ID, &t.LeadID, &t.Title, &t.TaskType, &t.AssignedTo, &t.DueDate, &dueTime,
			&status, &t.CompletedAt, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.DueTime = deref(dueTime)
		t.Status = domain.TaskStatus(status)
		items = append(items, t)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

type BookingStore struct {
	pool *pgxpool.Pool
}

// Query returns bookings dated inside r, optionally for one property.
func (s *BookingStore) Query(ctx context.Context, r domain.DateRange, propertyID *uuid.UUID) ([]domain.Booking, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, lead_id, property_id, booking_date, total_amount
		FROM bookings
		WHERE booking_date >= $1 AND booking_date <= $2
			AND ($3::uuid IS NULL OR property_id = $3)
		ORDER BY booking_date ASC, id
	`, r.From, r.To, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.LeadID, &b.PropertyID, &b.BookingDate, &b.TotalAmount); err != nil {
			return nil, err
		}
		items = append(items, b)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
