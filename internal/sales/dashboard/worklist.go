package dashboard

import (
	"context"

	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/scoring"
	"sales_performance_backend/internal/sales/tasks"
	"sales_performance_backend/platform/apperr"

	"github.com/google/uuid"
)

// PrioritizedLeads returns the salesperson's leads matching the location
// filters, most urgent first. Closed leads are left out.
func (a *Aggregator) PrioritizedLeads(ctx context.Context, filter Filter) ([]scoring.ScoredLead, error) {
	if filter.SalesPersonID == uuid.Nil {
		return nil, apperr.InvalidFilter("salesPersonId is required").WithOp("dashboard.PrioritizedLeads")
	}
	leads, err := a.stores.Leads.Query(ctx, filter.leadQuery())
	if err != nil {
		return nil, a.groupFailed(ctx, "leads", filter, err)
	}

	open := make([]domain.Lead, 0, len(leads))
	for _, l := range leads {
		if l.Status.IsActive() {
			open = append(open, l)
		}
	}
	return scoring.SortByPriority(open, a.now()), nil
}

// TodaysTasks derives the salesperson's worklist for the current business day.
func (a *Aggregator) TodaysTasks(ctx context.Context, salesPersonID uuid.UUID) ([]tasks.PrioritizedTask, error) {
	if salesPersonID == uuid.Nil {
		return nil, apperr.InvalidFilter("salesPersonId is required").WithOp("dashboard.TodaysTasks")
	}
	filter := Filter{SalesPersonID: salesPersonID}
	leads, err := a.stores.Leads.Query(ctx, filter.leadQuery())
	if err != nil {
		return nil, a.groupFailed(ctx, "leads", filter, err)
	}
	return tasks.DeriveTodaysTasks(leads, a.now()), nil
}
