package models

// ParticipantStatus is the state of one participant's claim flow.
type ParticipantStatus string

const (
	// StatusSelecting means the participant is still picking items.
	StatusSelecting ParticipantStatus = "selecting"
	// StatusDone means the participant submitted a name and locked their
	// claims. Done participants count toward the tax/tip split.
	StatusDone ParticipantStatus = "done"
)

// Participant represents one person splitting a bill.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// BillID is the bill this participant belongs to.
	BillID string

	// Token is the short bearer token identifying this participant within
	// the bill. Collisions across the token space are accepted; lookups are
	// always scoped by bill.
	Token string

	// Name is the display name, empty until the participant submits.
	Name string

	// Status is selecting or done.
	Status ParticipantStatus

	// IsCreator marks the participant record auto-created for the bill's
	// creator at confirmation time.
	IsCreator bool

	// CreatedAt is the Unix timestamp when the participant joined.
	CreatedAt int64
}

// Eligible reports whether the participant counts toward the final split:
// they finished selecting and have a usable display name.
func (p *Participant) Eligible() bool {
	return p.Status == StatusDone && p.Name != ""
}
