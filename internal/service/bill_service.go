// Package service implements SnapTab's business rules on top of the storage,
// blob and vision collaborators: the bill lifecycle gating, the claim rules
// and the final split.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/snaptab/snaptab/internal/blob"
	"github.com/snaptab/snaptab/internal/calculator"
	"github.com/snaptab/snaptab/internal/models"
	"github.com/snaptab/snaptab/internal/storage"
	"github.com/snaptab/snaptab/internal/token"
	"github.com/snaptab/snaptab/internal/vision"
)

// BillService implements the creator-facing flows: upload, extraction, item
// and totals edits, confirmation, dashboard and completion.
type BillService struct {
	store     storage.Store
	blobs     blob.ObjectStore
	extractor vision.Extractor
	logger    *slog.Logger
}

// NewBillService creates a new BillService.
func NewBillService(store storage.Store, blobs blob.ObjectStore, extractor vision.Extractor, logger *slog.Logger) *BillService {
	return &BillService{store: store, blobs: blobs, extractor: extractor, logger: logger}
}

// Upload stores a receipt image and creates the bill in editing status.
// Only image uploads are accepted; the content type picks the stored file
// extension.
func (s *BillService) Upload(ctx context.Context, contentType string, r io.Reader) (*models.Bill, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: only image files are accepted", ErrValidation)
	}

	creatorToken, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("generating creator token: %w", err)
	}
	// The share token starts as an unguessable placeholder; extraction
	// replaces it with a readable slug.
	shareToken, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("generating share token: %w", err)
	}

	billID := uuid.New().String()
	key := fmt.Sprintf("%s/bill.%s", billID, blob.Extension(contentType))

	imageURL, err := s.blobs.Put(ctx, key, contentType, r)
	if err != nil {
		return nil, fmt.Errorf("storing receipt image: %w", err)
	}

	bill := &models.Bill{
		ID:           billID,
		CreatorToken: creatorToken,
		ShareToken:   shareToken,
		Status:       models.StatusEditing,
		ImageURL:     imageURL,
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("creating bill: %w", err)
	}

	s.logger.Info("bill created", "bill_id", bill.ID)
	return bill, nil
}

// GetByCreatorToken returns the bill for its creator.
func (s *BillService) GetByCreatorToken(ctx context.Context, creatorToken string) (*models.Bill, error) {
	return s.lookupByCreator(ctx, creatorToken)
}

// GetFull returns the bill together with its items.
func (s *BillService) GetFull(ctx context.Context, creatorToken string) (*models.Bill, []models.Item, error) {
	bill, err := s.lookupByCreator(ctx, creatorToken)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.ListItems(ctx, bill.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing items: %w", err)
	}
	return bill, items, nil
}

// ParseResult is the outcome of a receipt extraction.
type ParseResult struct {
	Items      []models.Item
	Subtotal   *float64
	Tax        *float64
	Tip        *float64
	ShareToken string
}

// Parse runs vision extraction over the bill's image and commits items,
// totals and the new readable share slug as one update. Only legal while the
// bill is still being edited; repeated runs append items.
func (s *BillService) Parse(ctx context.Context, creatorToken string) (*ParseResult, error) {
	bill, err := s.lookupByCreator(ctx, creatorToken)
	if err != nil {
		return nil, err
	}
	if bill.Status != models.StatusEditing {
		return nil, fmt.Errorf("%w: extraction is only available while editing", ErrInvalidState)
	}
	if bill.ImageURL == "" {
		return nil, fmt.Errorf("%w: bill has no image to parse", ErrValidation)
	}

	receipt, err := s.extractor.Extract(ctx, bill.ImageURL)
	if err != nil {
		s.logger.Error("extraction failed", "bill_id", bill.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	shareToken, err := token.NewShareSlug(receipt.Venue)
	if err != nil {
		return nil, fmt.Errorf("generating share slug: %w", err)
	}

	items := make([]models.Item, len(receipt.Items))
	for i, ri := range receipt.Items {
		items[i] = models.Item{Name: ri.Name, Price: ri.Price}
	}

	if err := s.store.ApplyExtraction(ctx, bill.ID, items, receipt.Subtotal, receipt.Tax, receipt.Tip, shareToken); err != nil {
		return nil, fmt.Errorf("committing extraction: %w", err)
	}

	s.logger.Info("receipt parsed",
		"bill_id", bill.ID,
		"venue", receipt.Venue,
		"items", len(items),
		"share_token", shareToken,
	)

	return &ParseResult{
		Items:      items,
		Subtotal:   receipt.Subtotal,
		Tax:        receipt.Tax,
		Tip:        receipt.Tip,
		ShareToken: shareToken,
	}, nil
}

// UpdateItem renames or reprices an item on a bill that isn't complete yet.
func (s *BillService) UpdateItem(ctx context.Context, creatorToken, itemID, name string, price float64) (*models.Item, error) {
	bill, err := s.lookupByCreator(ctx, creatorToken)
	if err != nil {
		return nil, err
	}
	if bill.Status == models.StatusComplete {
		return nil, fmt.Errorf("%w: bill is already complete", ErrInvalidState)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	if err := s.store.UpdateItem(ctx, bill.ID, itemID, name, price); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating item: %w", err)
	}

	return &models.Item{ID: itemID, BillID: bill.ID, Name: name, Price: price}, nil
}

// DeleteItem removes an item and all claims on it.
func (s *BillService) DeleteItem(ctx context.Context, creatorToken, itemID string) error {
	bill, err := s.lookupByCreator(ctx, creatorToken)
	if err != nil {
		return err
	}
	if bill.Status == models.StatusComplete {
		return fmt.Errorf("%w: bill is already complete", ErrInvalidState)
	}

	if err := s.store.DeleteItem(ctx, bill.ID, itemID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// UpdateTotals sets subtotal, tax and tip. Nil clears a value back to
// unknown; it does not mean zero.
func (s *BillService) UpdateTotals(ctx context.Context, creatorToken string, subtotal, tax, tip *float64) (*models.Bill, error) {
	bill, err := s.lookupByCreator(ctx, creatorToken)
	if err != nil {
		return nil, err
	}
	if bill.Status == models.StatusComplete {
		return nil, fmt.Errorf("%w: bill is already complete", ErrInvalidState)
	}
	for _, v := range []*float64{subtotal, tax, tip} {
		if v != nil && *v < 0 {
			return nil, fmt.Errorf("%w: totals cannot be negative", ErrValidation)
		}
	}

	if err := s.store.UpdateBillTotals(ctx, bill.ID, subtotal, tax, tip); err != nil {
		return nil, fmt.Errorf("updating totals: %w", err)
	}

	bill.Subtotal, bill.Tax, bill.Tip = subtotal, tax, tip
	return bill, nil
}

// Confirm moves the bill from editing to active and creates the creator's
// own participant record. Returns the bill and the creator's participant
// token.
func (s *BillService) Confirm(ctx context.Context, creatorToken string) (*models.Bill, string, error) {
	bill, err := s.lookupByCreator(ctx, creatorToken)
	if err != nil {
		return nil, "", err
	}
	if !bill.Status.CanTransitionTo(models.StatusActive) {
		return nil, "", fmt.Errorf("%w: cannot confirm a %s bill", ErrInvalidState, bill.Status)
	}

	participantToken, err := token.NewParticipant()
	if err != nil {
		return nil, "", fmt.Errorf("generating participant token: %w", err)
	}

	creator := &models.Participant{
		Token:     participantToken,
		Status:    models.StatusSelecting,
		IsCreator: true,
	}
	if err := s.store.ConfirmBill(ctx, bill.ID, creator); err != nil {
		return nil, "", fmt.Errorf("confirming bill: %w", err)
	}

	bill.Status = models.StatusActive
	s.logger.Info("bill confirmed", "bill_id", bill.ID)
	return bill, participantToken, nil
}

// Dashboard is the creator's live view of claim progress.
type Dashboard struct {
	Bill         *models.Bill
	Items        []models.Item
	Participants []calculator.Summary
}

// GetDashboard returns the bill, its items and per-participant claim
// summaries.
func (s *BillService) GetDashboard(ctx context.Context, creatorToken string) (*Dashboard, error) {
	bill, err := s.lookupByCreator(ctx, creatorToken)
	if err != nil {
		return nil, err
	}

	items, claims, participants, err := loadLedger(ctx, s.store, bill.ID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Bill:         bill,
		Items:        items,
		Participants: calculator.Summaries(items, claims, participants),
	}, nil
}

// Complete moves the bill from active to complete and records the creator's
// payment handles. Irreversible.
func (s *BillService) Complete(ctx context.Context, creatorToken string, handles models.PaymentHandles) (*models.Bill, error) {
	bill, err := s.lookupByCreator(ctx, creatorToken)
	if err != nil {
		return nil, err
	}
	if !bill.Status.CanTransitionTo(models.StatusComplete) {
		return nil, fmt.Errorf("%w: cannot complete a %s bill", ErrInvalidState, bill.Status)
	}

	if err := s.store.CompleteBill(ctx, bill.ID, handles); err != nil {
		return nil, fmt.Errorf("completing bill: %w", err)
	}

	bill.Status = models.StatusComplete
	bill.Handles = handles
	s.logger.Info("bill completed", "bill_id", bill.ID)
	return bill, nil
}

func (s *BillService) lookupByCreator(ctx context.Context, creatorToken string) (*models.Bill, error) {
	bill, err := s.store.GetBillByCreatorToken(ctx, creatorToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching bill: %w", err)
	}
	return bill, nil
}

// loadLedger fetches the full item/claim/participant state of one bill.
func loadLedger(ctx context.Context, store storage.Store, billID string) ([]models.Item, []models.Claim, []models.Participant, error) {
	items, err := store.ListItems(ctx, billID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listing items: %w", err)
	}
	claims, err := store.ListClaimsForBill(ctx, billID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listing claims: %w", err)
	}
	participants, err := store.ListParticipants(ctx, billID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listing participants: %w", err)
	}
	return items, claims, participants, nil
}
