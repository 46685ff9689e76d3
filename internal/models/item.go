package models

// Item represents a single line item on a bill.
// Items can be claimed by multiple participants, in which case the price is
// split evenly among the claimants.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// BillID is the owning bill.
	BillID string

	// Name is the item description as printed on the receipt (e.g. "Pizza").
	Name string

	// Price is the item's full price before tax. Never negative.
	Price float64
}

// Claim records that one participant claims one item. At most one claim
// exists per (participant, item) pair; claim submission replaces a
// participant's whole claim set rather than patching it.
type Claim struct {
	// ID is the unique identifier for the claim (UUID format).
	ID string

	// ItemID is the claimed item.
	ItemID string

	// ParticipantID is the claiming participant.
	ParticipantID string
}
