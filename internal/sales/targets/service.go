// Package targets keeps sales targets in step with measured performance and
// closes them once their period has ended.
package targets

import (
	"context"
	"log/slog"
	"time"

	"sales_performance_backend/internal/sales/achievement"
	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/motivation"
	"sales_performance_backend/internal/sales/ports"
	"sales_performance_backend/platform/apperr"
	"sales_performance_backend/platform/events"
	"sales_performance_backend/platform/logger"

	"github.com/google/uuid"
)

// Summary is the performance block of a salesperson. It is never nil-valued:
// without an open target HasActiveTarget is false and Target is nil.
type Summary struct {
	HasActiveTarget     bool                `json:"hasActiveTarget"`
	Target              *domain.SalesTarget `json:"target,omitempty"`
	MotivationalMessage string              `json:"motivationalMessage"`
}

type Service struct {
	targets ports.SalesTargetStore
	perf    ports.PerformanceStore
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
}

// New builds the service. Times are taken in loc so day boundaries follow
// the business calendar.
func New(targets ports.SalesTargetStore, perf ports.PerformanceStore, bus events.Bus, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		targets: targets,
		perf:    perf,
		bus:     bus,
		log:     log,
		now:     func() time.Time { return time.Now().In(loc) },
	}
}

// Refresh recomputes and stores the open target of salesPersonID. Targets
// that close during the recompute are finalized one after another, earliest
// end first, until an open one remains or none is left; the last recomputed
// target is returned.
func (s *Service) Refresh(ctx context.Context, salesPersonID uuid.UUID) (Summary, error) {
	var last *domain.SalesTarget
	seen := make(map[uuid.UUID]struct{})

	for {
		target, err := s.targets.FindActiveOrInProgress(ctx, salesPersonID)
		if err != nil {
			return Summary{}, apperr.UpstreamFetchFailed("sales targets", err)
		}
		if target == nil {
			break
		}
		if _, ok := seen[target.ID]; ok {
			break
		}
		seen[target.ID] = struct{}{}

		updated, err := s.recompute(ctx, *target)
		if err != nil {
			return Summary{}, err
		}
		last = &updated
		if updated.Status.IsOpen() {
			break
		}
	}

	if last == nil {
		return Summary{MotivationalMessage: motivation.DefaultMessage()}, nil
	}
	return Summary{
		HasActiveTarget:     true,
		Target:              last,
		MotivationalMessage: last.MotivationalMessage,
	}, nil
}

// DueSalesPeople returns, once each, the salespeople holding an open target
// whose end date lies before today.
func (s *Service) DueSalesPeople(ctx context.Context) ([]uuid.UUID, error) {
	due, err := s.targets.ListDueForFinalization(ctx, domain.StartOfDay(s.now()))
	if err != nil {
		return nil, apperr.UpstreamFetchFailed("sales targets", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(due))
	people := make([]uuid.UUID, 0, len(due))
	for _, t := range due {
		if _, ok := seen[t.SalesPersonID]; ok {
			continue
		}
		seen[t.SalesPersonID] = struct{}{}
		people = append(people, t.SalesPersonID)
	}

	s.log.Info("sales targets due for finalization", slog.Int("targets", len(due)), slog.Int("salesPeople", len(people)))
	return people, nil
}

func (s *Service) recompute(ctx context.Context, target domain.SalesTarget) (domain.SalesTarget, error) {
	now := s.now()
	perf, err := s.perf.PeriodPerformance(ctx, target.SalesPersonID, target.Window(now.Location()))
	if err != nil {
		return domain.SalesTarget{}, apperr.UpstreamFetchFailed("period performance", err)
	}

	updated, err := achievement.Recompute(target, perf, now)
	if err != nil {
		return domain.SalesTarget{}, err
	}

	if err := s.targets.Save(ctx, updated); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return domain.SalesTarget{}, err
		}
		s.log.WithContext(ctx).DatabaseError("save_sales_target", err)
		return domain.SalesTarget{}, apperr.Wrap(apperr.KindInternal, "failed to save sales target", err)
	}

	if target.Status.IsOpen() && !updated.Status.IsOpen() {
		s.bus.Publish(ctx, TargetFinalized{
			BaseEvent:             events.NewBaseEvent(now),
			TargetID:              updated.ID,
			SalesPersonID:         updated.SalesPersonID,
			Status:                updated.Status,
			OverallAchievementPct: updated.OverallAchievementPct,
			TotalIncentive:        updated.Incentive.Total,
		})
	}
	return updated, nil
}
