package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Lead is a prospective customer's travel request sold on the marketplace.
type Lead struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Destination   string
	Budget        decimal.Decimal
	TripType      string
	Adults        int
	Children      int
	StartDate     *time.Time
	EndDate       *time.Time
	Duration      int
	Preferences   string
	Requirements  string
	Price         decimal.Decimal
	Status        LeadStatus
	AgentID       string
	PurchasedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Travelers returns the total party size.
func (l *Lead) Travelers() int {
	return l.Adults + l.Children
}

// TripDays returns the explicit duration, or the inclusive span of the
// preferred date range when no duration was given.
func (l *Lead) TripDays() int {
	if l.Duration > 0 {
		return l.Duration
	}
	if l.StartDate != nil && l.EndDate != nil && !l.EndDate.Before(*l.StartDate) {
		return int(l.EndDate.Sub(*l.StartDate).Hours()/24) + 1
	}
	return 0
}

// Purchase assigns the lead to an agent.
func (l *Lead) Purchase(agentID string, now time.Time) error {
	switch l.Status {
	case LeadPurchased:
		return fmt.Errorf("lead already purchased")
	case LeadArchived:
		return fmt.Errorf("cannot purchase archived lead")
	}
	if agentID == "" {
		return fmt.Errorf("agent id is required")
	}
	l.Status = LeadPurchased
	l.AgentID = agentID
	l.PurchasedAt = &now
	l.UpdatedAt = now
	return nil
}

// OwnedBy reports whether the lead was purchased by the given agent.
func (l *Lead) OwnedBy(agentID string) bool {
	return l.Status == LeadPurchased && l.AgentID == agentID
}
