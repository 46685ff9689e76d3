package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/snaptab/snaptab/internal/models"
	"github.com/snaptab/snaptab/internal/storage"
)

// CreateParticipant persists a new participant.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (id, bill_id, participant_token, name, status, is_creator, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.BillID, p.Token, p.Name, p.Status, p.IsCreator, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// GetParticipantByToken retrieves a participant by short token within a bill.
func (s *SQLiteStore) GetParticipantByToken(ctx context.Context, billID, participantToken string) (*models.Participant, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, bill_id, participant_token, name, status, is_creator, created_at FROM participants WHERE bill_id = ? AND participant_token = ?",
		billID, participantToken)

	p := &models.Participant{}
	err := row.Scan(&p.ID, &p.BillID, &p.Token, &p.Name, &p.Status, &p.IsCreator, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// ListParticipants returns all participants of a bill in join order.
func (s *SQLiteStore) ListParticipants(ctx context.Context, billID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, participant_token, name, status, is_creator, created_at FROM participants WHERE bill_id = ? ORDER BY rowid",
		billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.BillID, &p.Token, &p.Name, &p.Status, &p.IsCreator, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// SubmitParticipant records the display name and flips status to done.
func (s *SQLiteStore) SubmitParticipant(ctx context.Context, participantID, name string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE participants SET name = ?, status = ? WHERE id = ?",
		name, models.StatusDone, participantID)
	if err != nil {
		return fmt.Errorf("failed to submit participant: %w", err)
	}
	return requireRow(res)
}
