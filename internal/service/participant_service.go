package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/snaptab/snaptab/internal/calculator"
	"github.com/snaptab/snaptab/internal/models"
	"github.com/snaptab/snaptab/internal/storage"
	"github.com/snaptab/snaptab/internal/token"
)

// ParticipantService implements the share-link flows: viewing the bill,
// joining, claiming items, submitting a name and fetching final results.
type ParticipantService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewParticipantService creates a new ParticipantService.
func NewParticipantService(store storage.Store, logger *slog.Logger) *ParticipantService {
	return &ParticipantService{store: store, logger: logger}
}

// ItemWithClaims is an item plus the names of everyone who claimed it.
type ItemWithClaims struct {
	Item      models.Item
	ClaimedBy []string
}

// SharedBill is the participant-facing view of a bill.
type SharedBill struct {
	Bill         *models.Bill
	Items        []ItemWithClaims
	Participants []models.Participant
}

// GetShared returns the shared view of a bill. Bills still being edited are
// off limits: the totals and items aren't settled yet.
func (s *ParticipantService) GetShared(ctx context.Context, shareToken string) (*SharedBill, error) {
	bill, err := s.lookupByShare(ctx, shareToken)
	if err != nil {
		return nil, err
	}
	if bill.Status == models.StatusEditing {
		return nil, fmt.Errorf("%w: bill is not ready for sharing yet", ErrForbidden)
	}

	items, claims, participants, err := loadLedger(ctx, s.store, bill.ID)
	if err != nil {
		return nil, err
	}

	nameByParticipant := make(map[string]string, len(participants))
	for _, p := range participants {
		if p.Name != "" {
			nameByParticipant[p.ID] = p.Name
		}
	}

	withClaims := make([]ItemWithClaims, len(items))
	for i, item := range items {
		claimedBy := []string{}
		for _, c := range claims {
			if c.ItemID != item.ID {
				continue
			}
			if name, ok := nameByParticipant[c.ParticipantID]; ok {
				claimedBy = append(claimedBy, name)
			}
		}
		withClaims[i] = ItemWithClaims{Item: item, ClaimedBy: claimedBy}
	}

	return &SharedBill{Bill: bill, Items: withClaims, Participants: participants}, nil
}

// Join creates a new participant on an active bill.
func (s *ParticipantService) Join(ctx context.Context, shareToken string) (*models.Participant, error) {
	bill, err := s.lookupByShare(ctx, shareToken)
	if err != nil {
		return nil, err
	}
	if bill.Status != models.StatusActive {
		return nil, fmt.Errorf("%w: bill is not accepting participants", ErrForbidden)
	}

	participantToken, err := token.NewParticipant()
	if err != nil {
		return nil, fmt.Errorf("generating participant token: %w", err)
	}

	p := &models.Participant{
		BillID: bill.ID,
		Token:  participantToken,
		Status: models.StatusSelecting,
	}
	if err := s.store.CreateParticipant(ctx, p); err != nil {
		return nil, fmt.Errorf("creating participant: %w", err)
	}

	s.logger.Info("participant joined", "bill_id", bill.ID, "participant_id", p.ID)
	return p, nil
}

// ReplaceClaims swaps the participant's whole claim set for the given item
// IDs. Duplicates collapse; item IDs from other bills are rejected. Locked
// once the participant is done or the bill is complete. Concurrent calls for
// the same participant race last-write-wins at the store.
func (s *ParticipantService) ReplaceClaims(ctx context.Context, shareToken, participantToken string, itemIDs []string) (int, error) {
	bill, p, err := s.lookupParticipant(ctx, shareToken, participantToken)
	if err != nil {
		return 0, err
	}
	if bill.Status == models.StatusComplete {
		return 0, fmt.Errorf("%w: bill is already complete", ErrInvalidState)
	}
	if p.Status == models.StatusDone {
		return 0, fmt.Errorf("%w: participant has already submitted", ErrForbidden)
	}

	items, err := s.store.ListItems(ctx, bill.ID)
	if err != nil {
		return 0, fmt.Errorf("listing items: %w", err)
	}
	onBill := make(map[string]bool, len(items))
	for _, item := range items {
		onBill[item.ID] = true
	}

	deduped := make([]string, 0, len(itemIDs))
	seen := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !onBill[id] {
			return 0, fmt.Errorf("%w: item %s", ErrNotFound, id)
		}
		deduped = append(deduped, id)
	}

	if err := s.store.ReplaceClaims(ctx, p.ID, deduped); err != nil {
		return 0, fmt.Errorf("replacing claims: %w", err)
	}
	return len(deduped), nil
}

// ClaimState is a participant's own view of their claims.
type ClaimState struct {
	ParticipantID  string
	Name           string
	Status         models.ParticipantStatus
	ClaimedItemIDs []string
}

// GetClaims returns the participant's current claim state.
func (s *ParticipantService) GetClaims(ctx context.Context, shareToken, participantToken string) (*ClaimState, error) {
	_, p, err := s.lookupParticipant(ctx, shareToken, participantToken)
	if err != nil {
		return nil, err
	}

	claims, err := s.store.ListClaimsForParticipant(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}

	itemIDs := make([]string, len(claims))
	for i, c := range claims {
		itemIDs[i] = c.ItemID
	}

	return &ClaimState{
		ParticipantID:  p.ID,
		Name:           p.Name,
		Status:         p.Status,
		ClaimedItemIDs: itemIDs,
	}, nil
}

// Submit records the participant's display name and locks their claims by
// moving them to done.
func (s *ParticipantService) Submit(ctx context.Context, shareToken, participantToken, name string) error {
	bill, p, err := s.lookupParticipant(ctx, shareToken, participantToken)
	if err != nil {
		return err
	}
	if bill.Status == models.StatusComplete {
		return fmt.Errorf("%w: bill is already complete", ErrInvalidState)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	if err := s.store.SubmitParticipant(ctx, p.ID, name); err != nil {
		return fmt.Errorf("submitting participant: %w", err)
	}

	s.logger.Info("participant submitted", "bill_id", bill.ID, "participant_id", p.ID)
	return nil
}

// FinalResults is the completed bill's settlement view.
type FinalResults struct {
	Status   models.BillStatus
	Subtotal *float64
	Tax      *float64
	Tip      *float64
	Handles  models.PaymentHandles
	Splits   []calculator.FinalSplit
}

// GetFinalResults computes the per-person settlement for a complete bill.
func (s *ParticipantService) GetFinalResults(ctx context.Context, shareToken string) (*FinalResults, error) {
	bill, err := s.lookupByShare(ctx, shareToken)
	if err != nil {
		return nil, err
	}
	if bill.Status != models.StatusComplete {
		return nil, fmt.Errorf("%w: bill is not complete yet", ErrForbidden)
	}

	items, claims, participants, err := loadLedger(ctx, s.store, bill.ID)
	if err != nil {
		return nil, err
	}

	return &FinalResults{
		Status:   bill.Status,
		Subtotal: bill.Subtotal,
		Tax:      bill.Tax,
		Tip:      bill.Tip,
		Handles:  bill.Handles,
		Splits:   calculator.FinalSplits(items, claims, participants, bill.Tax, bill.Tip),
	}, nil
}

func (s *ParticipantService) lookupByShare(ctx context.Context, shareToken string) (*models.Bill, error) {
	bill, err := s.store.GetBillByShareToken(ctx, shareToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching bill: %w", err)
	}
	return bill, nil
}

func (s *ParticipantService) lookupParticipant(ctx context.Context, shareToken, participantToken string) (*models.Bill, *models.Participant, error) {
	bill, err := s.lookupByShare(ctx, shareToken)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.store.GetParticipantByToken(ctx, bill.ID, participantToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("fetching participant: %w", err)
	}
	return bill, p, nil
}
