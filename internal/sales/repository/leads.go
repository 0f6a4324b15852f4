package repository

import (
	"context"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeadStore struct {
	pool *pgxpool.Pool
}

// Query returns the leads assigned to q.AssignedTo that match every set
// location filter.
func (r *LeadStore) Query(ctx context.Context, q ports.LeadQuery) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, email, status, priority, source, assigned_to,
			property_id, tower_id, flat_id, next_follow_up_date, last_contacted_at,
			has_site_visit, site_visit_status, site_visit_date,
			converted_to_customer_id, converted_at, created_at, updated_at
		FROM sales_leads
		WHERE assigned_to = $1
			AND ($2::uuid IS NULL OR property_id = $2)
			AND ($3::uuid IS NULL OR tower_id = $3)
			AND ($4::uuid IS NULL OR flat_id = $4)
		ORDER BY created_at DESC, id
	`, q.AssignedTo, q.PropertyID, q.TowerID, q.FlatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Lead, 0)
	for rows.Next() {
		var (
			l          domain.Lead
			phone      *string
			email      *string
			status     string
			priority   string
			visit      string
			customerID *uuid.UUID
		)
		var conversion domain.ConversionInfo
		if err := rows.Scan(
			&l.ID, &l.Name, &phone, &email, &status, &priority, &l.Source, &l.AssignedTo,
			&l.PropertyID, &l.TowerID, &l.FlatID, &l.NextFollowUpDate, &l.LastContactedAt,
			&l.HasSiteVisit, &visit, &l.SiteVisitDate,
			&customerID, &conversion.ConvertedAt, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		l.Phone = deref(phone)
		l.Email = deref(email)
		l.Status = domain.LeadStatus(status)
		l.Priority = domain.Priority(priority)
		l.SiteVisitStatus = domain.SiteVisitStatus(visit)
		if customerID != nil {
			conversion.CustomerID = *customerID
			l.Conversion = &conversion
		}
		items = append(items, l)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
