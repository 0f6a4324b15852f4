package targets

import (
	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/platform/events"

	"github.com/google/uuid"
)

// EventTargetFinalized is published once a target leaves the open states.
const EventTargetFinalized = "sales.target.finalized"

// TargetFinalized reports that a target was closed as ACHIEVED or MISSED.
type TargetFinalized struct {
	events.BaseEvent
	TargetID              uuid.UUID           `json:"targetId"`
	SalesPersonID         uuid.UUID           `json:"salesPersonId"`
	Status                domain.TargetStatus `json:"status"`
	OverallAchievementPct float64             `json:"overallAchievementPct"`
	TotalIncentive        float64             `json:"totalIncentive"`
}

func (TargetFinalized) EventName() string { return EventTargetFinalized }
