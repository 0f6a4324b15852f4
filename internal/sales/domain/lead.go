// Package domain holds the read projections the sales engine computes over.
// Records are owned by external stores; the engine only mutates SalesTarget
// achievement fields.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the funnel stage of a lead.
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "NEW"
	LeadStatusContacted   LeadStatus = "CONTACTED"
	LeadStatusQualified   LeadStatus = "QUALIFIED"
	LeadStatusNegotiation LeadStatus = "NEGOTIATION"
	LeadStatusWon         LeadStatus = "WON"
	LeadStatusLost        LeadStatus = "LOST"
	LeadStatusOnHold      LeadStatus = "ON_HOLD"
)

// IsActive reports whether the lead is still being worked.
func (s LeadStatus) IsActive() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusNegotiation:
		return true
	default:
		return false
	}
}

// Priority is the priority declared on a lead by a user.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// SiteVisitStatus tracks the site visit attached to a lead.
type SiteVisitStatus string

const (
	SiteVisitNone      SiteVisitStatus = ""
	SiteVisitScheduled SiteVisitStatus = "SCHEDULED"
	SiteVisitCompleted SiteVisitStatus = "COMPLETED"
	SiteVisitCancelled SiteVisitStatus = "CANCELLED"
)

// ConversionInfo is present once a lead has become a customer.
type ConversionInfo struct {
	CustomerID  uuid.UUID
	ConvertedAt *time.Time
}

// Lead is a prospective customer tracked through the funnel.
type Lead struct {
	ID               uuid.UUID
	Name             string
	Phone            string
	Email            string
	Status           LeadStatus
	Priority         Priority
	Source           string
	AssignedTo       uuid.UUID
	PropertyID       *uuid.UUID
	TowerID          *uuid.UUID
	FlatID           *uuid.UUID
	NextFollowUpDate *time.Time
	LastContactedAt  *time.Time
	HasSiteVisit     bool
	SiteVisitStatus  SiteVisitStatus
	SiteVisitDate    *time.Time
	Conversion       *ConversionInfo
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsConverted reports whether the lead turned into a customer.
func (l Lead) IsConverted() bool {
	return l.Conversion != nil
}

// LeadIDs returns the identities of leads in input order.
func LeadIDs(leads []Lead) []uuid.UUID {
	ids := make([]uuid.UUID, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
	}
	return ids
}

// LeadSet is the scoped lead-id set of a dashboard request.
type LeadSet map[uuid.UUID]struct{}

// NewLeadSet indexes leads by id.
func NewLeadSet(leads []Lead) LeadSet {
	set := make(LeadSet, len(leads))
	for _, l := range leads {
		set[l.ID] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s LeadSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// HasRef reports membership of an optional lead reference; nil is never a member.
func (s LeadSet) HasRef(id *uuid.UUID) bool {
	return id != nil && s.Has(*id)
}
