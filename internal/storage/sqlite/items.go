package sqlite

import (
	"context"
	"fmt"

	"github.com/snaptab/snaptab/internal/models"
)

// ListItems returns all items on a bill.
func (s *SQLiteStore) ListItems(ctx context.Context, billID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, name, price FROM bill_items WHERE bill_id = ? ORDER BY rowid", billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.BillID, &item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// UpdateItem renames/reprices an item belonging to the bill.
func (s *SQLiteStore) UpdateItem(ctx context.Context, billID, itemID, name string, price float64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bill_items SET name = ?, price = ? WHERE id = ? AND bill_id = ?",
		name, price, itemID, billID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return requireRow(res)
}

// DeleteItem removes an item and its claims in one transaction. The claims
// go first so an interrupted delete never leaves claims pointing at a
// missing item.
func (s *SQLiteStore) DeleteItem(ctx context.Context, billID, itemID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM item_claims WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("failed to delete claims: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM bill_items WHERE id = ? AND bill_id = ?", itemID, billID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
