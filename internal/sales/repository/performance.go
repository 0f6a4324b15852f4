package repository

import (
	"context"

	"sales_performance_backend/internal/sales/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PerformanceStore struct {
	pool *pgxpool.Pool
}

// PeriodPerformance counts the salesperson's activity inside window, bounds
// included. Bookings and revenue are attributed through the booked lead's
// assignee.
func (r *PerformanceStore) PeriodPerformance(ctx context.Context, salesPersonID uuid.UUID, window domain.DateRange) (domain.Performance, error) {
	var perf domain.Performance
	err := r.pool.QueryRow(ctx, `
		SELECT
			(
				SELECT COUNT(*)
				FROM sales_leads
				WHERE assigned_to = $1 AND created_at BETWEEN $2 AND $3
			) AS leads,
			(
				SELECT COUNT(*)
				FROM sales_follow_ups
				WHERE performed_by = $1 AND is_site_visit AND follow_up_date BETWEEN $2 AND $3
			) AS site_visits,
			(
				SELECT COUNT(*)
				FROM sales_leads
				WHERE assigned_to = $1
					AND converted_to_customer_id IS NOT NULL
					AND COALESCE(converted_at, updated_at) BETWEEN $2 AND $3
			) AS conversions,
			(
				SELECT COUNT(*)
				FROM bookings b
				JOIN sales_leads l ON l.id = b.lead_id
				WHERE l.assigned_to = $1 AND b.booking_date BETWEEN $2 AND $3
			) AS bookings,
			COALESCE((
				SELECT SUM(b.total_amount)
				FROM bookings b
				JOIN sales_leads l ON l.id = b.lead_id
				WHERE l.assigned_to = $1 AND b.booking_date BETWEEN $2 AND $3
			), 0)::float8 AS revenue
	`, salesPersonID, window.From, window.To).Scan(
		&perf.Leads,
		&perf.SiteVisits,
		&perf.Conversions,
		&perf.Bookings,
		&perf.Revenue,
	)
	if err != nil {
		return domain.Performance{}, err
	}
	return perf, nil
}
