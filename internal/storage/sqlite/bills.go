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

const billColumns = "id, creator_token, share_token, status, image_url, subtotal, tax, tip, venmo_handle, zelle_handle, cashapp_handle, created_at"

// CreateBill persists a new bill to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO bills ("+billColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		bill.ID, bill.CreatorToken, bill.ShareToken, bill.Status, bill.ImageURL,
		nullFloat(bill.Subtotal), nullFloat(bill.Tax), nullFloat(bill.Tip),
		nullString(bill.Handles.Venmo), nullString(bill.Handles.Zelle), nullString(bill.Handles.CashApp),
		bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

// GetBillByCreatorToken retrieves a bill by its creator token.
func (s *SQLiteStore) GetBillByCreatorToken(ctx context.Context, creatorToken string) (*models.Bill, error) {
	return s.getBill(ctx, "creator_token", creatorToken)
}

// GetBillByShareToken retrieves a bill by its share token.
func (s *SQLiteStore) GetBillByShareToken(ctx context.Context, shareToken string) (*models.Bill, error) {
	return s.getBill(ctx, "share_token", shareToken)
}

func (s *SQLiteStore) getBill(ctx context.Context, column, value string) (*models.Bill, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE "+column+" = ?", value)

	bill := &models.Bill{}
	var subtotal, tax, tip sql.NullFloat64
	var venmo, zelle, cashapp sql.NullString
	err := row.Scan(&bill.ID, &bill.CreatorToken, &bill.ShareToken, &bill.Status, &bill.ImageURL,
		&subtotal, &tax, &tip, &venmo, &zelle, &cashapp, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	bill.Subtotal = floatPtr(subtotal)
	bill.Tax = floatPtr(tax)
	bill.Tip = floatPtr(tip)
	bill.Handles = models.PaymentHandles{
		Venmo:   stringPtr(venmo),
		Zelle:   stringPtr(zelle),
		CashApp: stringPtr(cashapp),
	}
	return bill, nil
}

// ConfirmBill activates the bill and inserts the creator's participant
// record in one transaction, so an active bill always has its creator
// participant.
func (s *SQLiteStore) ConfirmBill(ctx context.Context, billID string, creator *models.Participant) error {
	if creator.ID == "" {
		creator.ID = uuid.New().String()
	}
	if creator.CreatedAt == 0 {
		creator.CreatedAt = time.Now().Unix()
	}
	creator.BillID = billID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE bills SET status = ? WHERE id = ?", models.StatusActive, billID)
	if err != nil {
		return fmt.Errorf("failed to update bill status: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO participants (id, bill_id, participant_token, name, status, is_creator, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		creator.ID, creator.BillID, creator.Token, creator.Name, creator.Status, creator.IsCreator, creator.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert creator participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateBillTotals sets subtotal, tax and tip, preserving NULL for absent values.
func (s *SQLiteStore) UpdateBillTotals(ctx context.Context, billID string, subtotal, tax, tip *float64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bills SET subtotal = ?, tax = ?, tip = ? WHERE id = ?",
		nullFloat(subtotal), nullFloat(tax), nullFloat(tip), billID)
	if err != nil {
		return fmt.Errorf("failed to update bill totals: %w", err)
	}
	return requireRow(res)
}

// CompleteBill marks the bill complete and records payment handles in one write.
func (s *SQLiteStore) CompleteBill(ctx context.Context, billID string, handles models.PaymentHandles) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bills SET status = ?, venmo_handle = ?, zelle_handle = ?, cashapp_handle = ? WHERE id = ?",
		models.StatusComplete, nullString(handles.Venmo), nullString(handles.Zelle), nullString(handles.CashApp), billID)
	if err != nil {
		return fmt.Errorf("failed to complete bill: %w", err)
	}
	return requireRow(res)
}

// ApplyExtraction commits extraction output atomically: item inserts, totals
// and the regenerated share token land together or not at all.
func (s *SQLiteStore) ApplyExtraction(ctx context.Context, billID string, items []models.Item, subtotal, tax, tip *float64, shareToken string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.BillID = billID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_items (id, bill_id, name, price) VALUES (?, ?, ?, ?)",
			item.ID, billID, item.Name, item.Price)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE bills SET subtotal = ?, tax = ?, tip = ?, share_token = ? WHERE id = ?",
		nullFloat(subtotal), nullFloat(tax), nullFloat(tip), shareToken, billID)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// requireRow maps a zero-row update to ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
