// Package repository implements the sales store ports on PostgreSQL.
package repository

import (
	"time"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/ports"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository bundles one store per port over a shared pool.
type Repository struct {
	Leads       *LeadStore
	FollowUps   *FollowUpStore
	Tasks       *TaskStore
	Targets     *TargetStore
	Bookings    *BookingStore
	Performance *PerformanceStore
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Leads:       &LeadStore{pool: pool},
		FollowUps:   &FollowUpStore{pool: pool},
		Tasks:       &TaskStore{pool: pool},
		Targets:     &TargetStore{pool: pool},
		Bookings:    &BookingStore{pool: pool},
		Performance: &PerformanceStore{pool: pool},
	}
}

var (
	_ ports.LeadStore        = (*LeadStore)(nil)
	_ ports.FollowUpStore    = (*FollowUpStore)(nil)
	_ ports.SalesTaskStore   = (*TaskStore)(nil)
	_ ports.SalesTargetStore = (*TargetStore)(nil)
	_ ports.BookingStore     = (*BookingStore)(nil)
	_ ports.PerformanceStore = (*PerformanceStore)(nil)
)

// rangeBounds splits an optional range into nullable query arguments.
func rangeBounds(r *domain.DateRange) (*time.Time, *time.Time) {
	if r == nil {
		return nil, nil
	}
	from, to := r.From, r.To
	return &from, &to
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
