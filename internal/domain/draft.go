package domain

import "time"

// ItineraryDraft is the persisted envelope of a wizard session.
// State holds the serialized wizard state.
type ItineraryDraft struct {
	ID          string
	LeadID      string
	AgentID     string
	Title       string
	Status      DraftStatus
	Step        WizardStep
	State       []byte
	FinalizedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d *ItineraryDraft) IsFinalized() bool {
	return d.Status == DraftFinalized
}

// ChangeEvent is one row of the change log.
type ChangeEvent struct {
	Seq       int64
	Table     string
	Op        ChangeOp
	RecordID  string
	CreatedAt time.Time
}
