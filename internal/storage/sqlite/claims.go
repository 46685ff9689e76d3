package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/snaptab/snaptab/internal/models"
)

// ReplaceClaims swaps the participant's entire claim set: delete everything,
// then insert one claim per item. Delete-before-insert means an interrupted
// replace leaves the participant temporarily empty rather than doubled up.
// Duplicate item IDs in the input collapse to a single claim.
func (s *SQLiteStore) ReplaceClaims(ctx context.Context, participantID string, itemIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM item_claims WHERE participant_id = ?", participantID); err != nil {
		return fmt.Errorf("failed to delete claims: %w", err)
	}

	seen := make(map[string]bool, len(itemIDs))
	for _, itemID := range itemIDs {
		if seen[itemID] {
			continue
		}
		seen[itemID] = true

		_, err := tx.ExecContext(ctx,
			"INSERT INTO item_claims (id, item_id, participant_id) VALUES (?, ?, ?)",
			uuid.New().String(), itemID, participantID)
		if err != nil {
			return fmt.Errorf("failed to insert claim: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListClaimsForBill returns every claim on the bill's items, scoped by a join
// rather than fetched globally.
func (s *SQLiteStore) ListClaimsForBill(ctx context.Context, billID string) ([]models.Claim, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.item_id, c.participant_id
		 FROM item_claims c
		 JOIN bill_items i ON i.id = c.item_id
		 WHERE i.bill_id = ?`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	return scanClaims(rows)
}

// ListClaimsForParticipant returns one participant's claims.
func (s *SQLiteStore) ListClaimsForParticipant(ctx context.Context, participantID string) ([]models.Claim, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, item_id, participant_id FROM item_claims WHERE participant_id = ?", participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	return scanClaims(rows)
}

func scanClaims(rows *sql.Rows) ([]models.Claim, error) {
	var claims []models.Claim
	for rows.Next() {
		var c models.Claim
		if err := rows.Scan(&c.ID, &c.ItemID, &c.ParticipantID); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claims: %w", err)
	}
	return claims, nil
}
