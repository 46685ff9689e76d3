package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReceipt(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, r *Receipt)
	}{
		{
			name: "plain json",
			raw:  `{"venue": "Joe's Pizza", "items": [{"name": "Slice", "price": 3.5}], "subtotal": 3.5, "tax": 0.31, "tip": null}`,
			check: func(t *testing.T, r *Receipt) {
				assert.Equal(t, "Joe's Pizza", r.Venue)
				require.Len(t, r.Items, 1)
				assert.Equal(t, 3.5, r.Items[0].Price)
				require.NotNil(t, r.Tax)
				assert.Equal(t, 0.31, *r.Tax)
				assert.Nil(t, r.Tip)
			},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"venue\": \"Cafe\", \"items\": [], \"subtotal\": null, \"tax\": null, \"tip\": null}\n```",
			check: func(t *testing.T, r *Receipt) {
				assert.Equal(t, "Cafe", r.Venue)
				assert.Nil(t, r.Subtotal)
			},
		},
		{
			name: "bare fence without language tag",
			raw:  "```\n{\"venue\": \"Bar\", \"items\": []}\n```",
			check: func(t *testing.T, r *Receipt) {
				assert.Equal(t, "Bar", r.Venue)
			},
		},
		{
			name: "missing totals stay nil not zero",
			raw:  `{"venue": "Deli", "items": [{"name": "Bagel", "price": 2.0}]}`,
			check: func(t *testing.T, r *Receipt) {
				assert.Nil(t, r.Subtotal)
				assert.Nil(t, r.Tax)
				assert.Nil(t, r.Tip)
			},
		},
		{
			name: "unusable items dropped",
			raw:  `{"venue": "Deli", "items": [{"name": "", "price": 2.0}, {"name": "Refund", "price": -3.0}, {"name": "Bagel", "price": 2.0}]}`,
			check: func(t *testing.T, r *Receipt) {
				require.Len(t, r.Items, 1)
				assert.Equal(t, "Bagel", r.Items[0].Name)
			},
		},
		{
			name:    "prose instead of json",
			raw:     "I'm sorry, I can't read this receipt.",
			wantErr: true,
		},
		{
			name:    "truncated json",
			raw:     `{"venue": "Joe`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := parseReceipt(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadResponse)
				return
			}
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestOpenAIClientExtract(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"content": "```json\n{\"venue\": \"Joe's Pizza & Grill!!\", \"items\": [{\"name\": \"Pizza\", \"price\": 20.0}], \"subtotal\": 20.0, \"tax\": 1.75, \"tip\": null}\n```",
				}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer upstream.Close()

	client := NewOpenAIClient(upstream.URL, "sk-test", "gpt-4o", 5*time.Second)
	receipt, err := client.Extract(context.Background(), "http://example.com/bill.jpg")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	require.Len(t, gotReq.Messages[0].Content, 2)
	assert.Equal(t, "http://example.com/bill.jpg", gotReq.Messages[0].Content[1].ImageURL.URL)

	assert.Equal(t, "Joe's Pizza & Grill!!", receipt.Venue)
	require.Len(t, receipt.Items, 1)
	assert.Nil(t, receipt.Tip)
}

func TestOpenAIClientExtractBadUpstream(t *testing.T) {
	t.Run("garbage content", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "no json here"}},
				},
			})
		}))
		defer upstream.Close()

		client := NewOpenAIClient(upstream.URL, "sk-test", "gpt-4o", time.Second)
		_, err := client.Extract(context.Background(), "http://example.com/bill.jpg")
		require.ErrorIs(t, err, ErrBadResponse)
	})

	t.Run("upstream error status", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer upstream.Close()

		client := NewOpenAIClient(upstream.URL, "sk-test", "gpt-4o", time.Second)
		_, err := client.Extract(context.Background(), "http://example.com/bill.jpg")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrBadResponse))
	})
}
