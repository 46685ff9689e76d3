package models

// BillStatus is the lifecycle state of a bill.
type BillStatus string

const (
	// StatusEditing is the initial state: the creator uploads the receipt,
	// runs extraction and fixes up items/totals. Share access is denied.
	StatusEditing BillStatus = "editing"
	// StatusActive means the creator confirmed the bill: participants may
	// join via the share token and claim items.
	StatusActive BillStatus = "active"
	// StatusComplete is terminal: payment handles are attached and the final
	// split is served.
	StatusComplete BillStatus = "complete"
)

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
// The lifecycle is strictly forward and never skips a state:
// editing -> active -> complete.
func (s BillStatus) CanTransitionTo(next BillStatus) bool {
	switch s {
	case StatusEditing:
		return next == StatusActive
	case StatusActive:
		return next == StatusComplete
	default:
		return false
	}
}

// PaymentHandles are the creator's payment identifiers shown with the final
// split. They are recorded verbatim; no money moves through SnapTab.
type PaymentHandles struct {
	Venmo   *string
	Zelle   *string
	CashApp *string
}

// Bill represents a receipt being split among participants.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// CreatorToken grants full control over the bill. High entropy,
	// generated once at upload and never rotated.
	CreatorToken string

	// ShareToken is the join link slug. It starts as an unguessable random
	// string and is replaced by a readable "{venue}-{suffix}" slug when the
	// receipt is parsed. Unique across all bills.
	ShareToken string

	// Status is the current lifecycle state.
	Status BillStatus

	// ImageURL points at the uploaded receipt photo, empty until upload
	// completes.
	ImageURL string

	// Subtotal, Tax and Tip come from extraction or manual edits.
	// Nil means the receipt didn't show the value, which is different
	// from it being zero.
	Subtotal *float64
	Tax      *float64
	Tip      *float64

	// Payment handles, set only when the bill is completed.
	Handles PaymentHandles

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64
}
