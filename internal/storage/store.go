// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/snaptab/snaptab/internal/models"
)

// ErrNotFound is returned when a bill, item, participant or token does not
// exist. Callers must not learn whether it was the entity or the token that
// was wrong.
var ErrNotFound = errors.New("not found")

// Store defines the interface for bill storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every claim query is scoped by bill, item or participant at the query
// level; there is no unscoped claim fetch.
type Store interface {
	// CreateBill persists a new bill. ID and tokens must already be set.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBillByCreatorToken retrieves a bill by its creator token.
	GetBillByCreatorToken(ctx context.Context, creatorToken string) (*models.Bill, error)

	// GetBillByShareToken retrieves a bill by its share token.
	GetBillByShareToken(ctx context.Context, shareToken string) (*models.Bill, error)

	// ConfirmBill flips the bill to active and creates the creator's own
	// participant record in a single transaction.
	ConfirmBill(ctx context.Context, billID string, creator *models.Participant) error

	// UpdateBillTotals sets subtotal, tax and tip. Nil values are stored as
	// NULL, not zero.
	UpdateBillTotals(ctx context.Context, billID string, subtotal, tax, tip *float64) error

	// CompleteBill marks the bill complete and records payment handles in
	// one write.
	CompleteBill(ctx context.Context, billID string, handles models.PaymentHandles) error

	// ApplyExtraction commits a receipt extraction as a single logical
	// update: inserts the items (assigning IDs in place), sets the bill's
	// totals and replaces its share token. Either everything lands or
	// nothing does.
	ApplyExtraction(ctx context.Context, billID string, items []models.Item, subtotal, tax, tip *float64, shareToken string) error

	// ListItems returns all items on a bill.
	ListItems(ctx context.Context, billID string) ([]models.Item, error)

	// UpdateItem renames/reprices an item. Returns ErrNotFound if the item
	// does not belong to the bill.
	UpdateItem(ctx context.Context, billID, itemID, name string, price float64) error

	// DeleteItem removes an item and cascades deletion of its claims in the
	// same transaction. Returns ErrNotFound if the item does not belong to
	// the bill.
	DeleteItem(ctx context.Context, billID, itemID string) error

	// CreateParticipant persists a new participant.
	CreateParticipant(ctx context.Context, participant *models.Participant) error

	// GetParticipantByToken retrieves a participant by short token, scoped
	// to a bill.
	GetParticipantByToken(ctx context.Context, billID, participantToken string) (*models.Participant, error)

	// ListParticipants returns all participants of a bill in join order.
	ListParticipants(ctx context.Context, billID string) ([]models.Participant, error)

	// SubmitParticipant sets the participant's display name and marks them
	// done in one write.
	SubmitParticipant(ctx context.Context, participantID, name string) error

	// ReplaceClaims deletes all existing claims of the participant and
	// inserts one claim per item ID. Duplicate item IDs collapse into a
	// single claim.
	ReplaceClaims(ctx context.Context, participantID string, itemIDs []string) error

	// ListClaimsForBill returns all claims on the bill's items.
	ListClaimsForBill(ctx context.Context, billID string) ([]models.Claim, error)

	// ListClaimsForParticipant returns the participant's claims.
	ListClaimsForParticipant(ctx context.Context, participantID string) ([]models.Claim, error)

	// Close releases any resources held by the store.
	Close() error
}
