// Package vision extracts structured receipt data from an uploaded image by
// asking an external vision model. The model is treated as a black box that
// returns free-form text expected to contain one JSON object.
package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrBadResponse indicates the model's reply was not valid JSON after
// stripping formatting wrappers. Callers surface this as a server error;
// re-triggering extraction is the retry path.
var ErrBadResponse = errors.New("unparseable response from vision model")

// ReceiptItem is one extracted line item.
type ReceiptItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Receipt is the normalized extraction result. Subtotal, tax and tip are nil
// when the receipt didn't show them; never zero-filled.
type Receipt struct {
	Venue    string        `json:"venue"`
	Items    []ReceiptItem `json:"items"`
	Subtotal *float64      `json:"subtotal"`
	Tax      *float64      `json:"tax"`
	Tip      *float64      `json:"tip"`
}

// Extractor turns a receipt image into structured data.
type Extractor interface {
	Extract(ctx context.Context, imageURL string) (*Receipt, error)
}

// parseReceipt strips markdown fences from raw model output and decodes the
// remaining JSON, dropping item entries that are unusable (blank name or
// negative price).
func parseReceipt(raw string) (*Receipt, error) {
	text := stripFences(raw)

	var receipt Receipt
	if err := json.Unmarshal([]byte(text), &receipt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	items := receipt.Items[:0]
	for _, item := range receipt.Items {
		if strings.TrimSpace(item.Name) == "" || item.Price < 0 {
			continue
		}
		items = append(items, item)
	}
	receipt.Items = items

	return &receipt, nil
}

// stripFences removes a surrounding markdown code block, if present:
// the first line (```json or similar) and the closing fence line.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}
