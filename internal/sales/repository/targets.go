package repository

import (
	"context"
	"errors"
	"time"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const targetNotFoundMessage = "sales target not found"

type TargetStore struct {
	pool *pgxpool.Pool
}

const targetColumns = `
	id, sales_person_id, target_period, start_date, end_date,
	target_leads, target_site_visits, target_conversions, target_bookings, target_revenue,
	achieved_leads, achieved_site_visits, achieved_conversions, achieved_bookings, achieved_revenue,
	leads_achievement_pct, site_visits_achievement_pct, conversions_achievement_pct,
	bookings_achievement_pct, revenue_achievement_pct, overall_achievement_pct,
	base_incentive, earned_incentive, bonus_incentive, total_incentive,
	status, missed_by, motivational_message, created_at, updated_at`

func scanTarget(row pgx.Row) (domain.SalesTarget, error) {
	var (
		t      domain.SalesTarget
		period string
		status string
	)
	err := row.Scan(
		&t.ID, &t.SalesPersonID, &period, &t.StartDate, &t.EndDate,
		&t.Targets.Leads, &t.Targets.SiteVisits, &t.Targets.Conversions, &t.Targets.Bookings, &t.Targets.Revenue,
		&t.Achieved.Leads, &t.Achieved.SiteVisits, &t.Achieved.Conversions, &t.Achieved.Bookings, &t.Achieved.Revenue,
		&t.AchievementPct.Leads, &t.AchievementPct.SiteVisits, &t.AchievementPct.Conversions,
		&t.AchievementPct.Bookings, &t.AchievementPct.Revenue, &t.OverallAchievementPct,
		&t.Incentive.Base, &t.Incentive.Earned, &t.Incentive.Bonus, &t.Incentive.Total,
		&status, &t.MissedBy, &t.MotivationalMessage, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domain.SalesTarget{}, err
	}
	t.TargetPeriod = domain.TargetPeriod(period)
	t.Status = domain.TargetStatus(status)
	return t, nil
}

// FindActiveOrInProgress returns the open target with the earliest end
// date, or nil when the salesperson has none.
func (r *TargetStore) FindActiveOrInProgress(ctx context.Context, salesPersonID uuid.UUID) (*domain.SalesTarget, error) {
	t, err := scanTarget(r.pool.QueryRow(ctx, `
		SELECT `+targetColumns+`
		FROM sales_targets
		WHERE sales_person_id = $1 AND status IN ('ACTIVE', 'IN_PROGRESS')
		ORDER BY end_date ASC, id
		LIMIT 1
	`, salesPersonID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListDueForFinalization returns open targets that ended before asOf.
func (r *TargetStore) ListDueForFinalization(ctx context.Context, asOf time.Time) ([]domain.SalesTarget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+targetColumns+`
		FROM sales_targets
		WHERE status IN ('ACTIVE', 'IN_PROGRESS') AND end_date < $1
		ORDER BY end_date ASC, id
	`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.SalesTarget, 0)
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// Save writes the recomputed fields of t. Quota, window and base incentive
// are owned by whoever created the target and are left untouched.
func (r *TargetStore) Save(ctx context.Context, t domain.SalesTarget) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE sales_targets SET
			achieved_leads = $2,
			achieved_site_visits = $3,
			achieved_conversions = $4,
			achieved_bookings = $5,
			achieved_revenue = $6,
			leads_achievement_pct = $7,
			site_visits_achievement_pct = $8,
			conversions_achievement_pct = $9,
			bookings_achievement_pct = $10,
			revenue_achievement_pct = $11,
			overall_achievement_pct = $12,
			earned_incentive = $13,
			bonus_incentive = $14,
			total_incentive = $15,
			status = $16,
			missed_by = $17,
			motivational_message = $18,
			updated_at = now()
		WHERE id = $1
	`,
		t.ID,
		t.Achieved.Leads, t.Achieved.SiteVisits, t.Achieved.Conversions, t.Achieved.Bookings, t.Achieved.Revenue,
		t.AchievementPct.Leads, t.AchievementPct.SiteVisits, t.AchievementPct.Conversions,
		t.AchievementPct.Bookings, t.AchievementPct.Revenue, t.OverallAchievementPct,
		t.Incentive.Earned, t.Incentive.Bonus, t.Incentive.Total,
		string(t.Status), t.MissedBy, t.MotivationalMessage,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(targetNotFoundMessage).WithOp("repository.SaveTarget")
	}
	return nil
}
