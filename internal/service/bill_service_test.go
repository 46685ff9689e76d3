package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaptab/snaptab/internal/models"
)

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("creates editing bill with distinct tokens", func(t *testing.T) {
		bill, err := env.bills.Upload(ctx, "image/png", strings.NewReader("img"))
		require.NoError(t, err)

		assert.Equal(t, models.StatusEditing, bill.Status)
		assert.NotEmpty(t, bill.CreatorToken)
		assert.NotEmpty(t, bill.ShareToken)
		assert.NotEqual(t, bill.CreatorToken, bill.ShareToken)
		assert.Contains(t, bill.ImageURL, bill.ID+"/bill.png")
	})

	t.Run("rejects non-image upload", func(t *testing.T) {
		stored := len(env.blobs.keys)
		_, err := env.bills.Upload(ctx, "application/pdf", strings.NewReader("%PDF"))
		require.ErrorIs(t, err, ErrValidation)
		assert.Len(t, env.blobs.keys, stored)
	})

	t.Run("unknown image type stored as jpg", func(t *testing.T) {
		bill, err := env.bills.Upload(ctx, "image/tiff", strings.NewReader("img"))
		require.NoError(t, err)
		assert.Contains(t, bill.ImageURL, bill.ID+"/bill.jpg")
	})
}

func TestParse(t *testing.T) {
	ctx := context.Background()

	t.Run("commits items totals and readable slug", func(t *testing.T) {
		env := newTestEnv(t)
		bill := env.uploadBill(t)

		res, err := env.bills.Parse(ctx, bill.CreatorToken)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(res.ShareToken, "joes-pizza-grill-"), "share token %q", res.ShareToken)
		require.Len(t, res.Items, 2)
		assert.NotEmpty(t, res.Items[0].ID)
		require.NotNil(t, res.Tax)
		assert.Equal(t, 3.0, *res.Tax)

		// The bill is now reachable under the new slug only.
		got, _, err := env.bills.GetFull(ctx, bill.CreatorToken)
		require.NoError(t, err)
		assert.Equal(t, res.ShareToken, got.ShareToken)
	})

	t.Run("second run appends items", func(t *testing.T) {
		env := newTestEnv(t)
		bill := env.uploadBill(t)

		_, err := env.bills.Parse(ctx, bill.CreatorToken)
		require.NoError(t, err)
		_, err = env.bills.Parse(ctx, bill.CreatorToken)
		require.NoError(t, err)

		_, items, err := env.bills.GetFull(ctx, bill.CreatorToken)
		require.NoError(t, err)
		assert.Len(t, items, 4)
		assert.Equal(t, 2, env.extractor.calls)
	})

	t.Run("extractor failure surfaces as extraction error", func(t *testing.T) {
		env := newTestEnv(t)
		env.extractor.err = errors.New("model returned prose")
		bill := env.uploadBill(t)

		_, err := env.bills.Parse(ctx, bill.CreatorToken)
		require.ErrorIs(t, err, ErrExtraction)

		// Nothing was committed; a retry starts clean.
		_, items, err := env.bills.GetFull(ctx, bill.CreatorToken)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("not allowed once active", func(t *testing.T) {
		env := newTestEnv(t)
		bill, _ := env.activeBill(t)

		_, err := env.bills.Parse(ctx, bill.CreatorToken)
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("unknown creator token", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.bills.Parse(ctx, "bogus")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestItemEdits(t *testing.T) {
	ctx := context.Background()

	t.Run("update and delete", func(t *testing.T) {
		env := newTestEnv(t)
		bill, res := env.parsedBill(t)

		item, err := env.bills.UpdateItem(ctx, bill.CreatorToken, res.Items[0].ID, "Large Pizza", 22.0)
		require.NoError(t, err)
		assert.Equal(t, "Large Pizza", item.Name)

		require.NoError(t, env.bills.DeleteItem(ctx, bill.CreatorToken, res.Items[1].ID))

		_, items, err := env.bills.GetFull(ctx, bill.CreatorToken)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 22.0, items[0].Price)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		env := newTestEnv(t)
		bill, res := env.parsedBill(t)

		_, err := env.bills.UpdateItem(ctx, bill.CreatorToken, res.Items[0].ID, "Pizza", -1.0)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("item from another bill is not found", func(t *testing.T) {
		env := newTestEnv(t)
		_, res := env.parsedBill(t)
		other := env.uploadBill(t)

		_, err := env.bills.UpdateItem(ctx, other.CreatorToken, res.Items[0].ID, "Pizza", 5.0)
		require.ErrorIs(t, err, ErrNotFound)

		err = env.bills.DeleteItem(ctx, other.CreatorToken, res.Items[0].ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("edits locked after completion", func(t *testing.T) {
		env := newTestEnv(t)
		bill, _ := env.activeBill(t)
		_, err := env.bills.Complete(ctx, bill.CreatorToken, models.PaymentHandles{})
		require.NoError(t, err)

		_, err = env.bills.UpdateItem(ctx, bill.CreatorToken, "any", "Pizza", 5.0)
		require.ErrorIs(t, err, ErrInvalidState)
		err = env.bills.DeleteItem(ctx, bill.CreatorToken, "any")
		require.ErrorIs(t, err, ErrInvalidState)
		_, err = env.bills.UpdateTotals(ctx, bill.CreatorToken, ptr(10.0), nil, nil)
		require.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestUpdateTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bill := env.uploadBill(t)

	updated, err := env.bills.UpdateTotals(ctx, bill.CreatorToken, ptr(42.0), nil, ptr(0.0))
	require.NoError(t, err)
	require.NotNil(t, updated.Subtotal)
	assert.Equal(t, 42.0, *updated.Subtotal)
	assert.Nil(t, updated.Tax)
	require.NotNil(t, updated.Tip)
	assert.Equal(t, 0.0, *updated.Tip)

	_, err = env.bills.UpdateTotals(ctx, bill.CreatorToken, ptr(-1.0), nil, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("activates bill and creates creator participant", func(t *testing.T) {
		env := newTestEnv(t)
		bill, _ := env.parsedBill(t)

		confirmed, creatorToken, err := env.bills.Confirm(ctx, bill.CreatorToken)
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, confirmed.Status)
		require.NotEmpty(t, creatorToken)

		state, err := env.participants.GetClaims(ctx, bill.ShareToken, creatorToken)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSelecting, state.Status)

		dash, err := env.bills.GetDashboard(ctx, bill.CreatorToken)
		require.NoError(t, err)
		require.Len(t, dash.Participants, 1)
	})

	t.Run("cannot confirm twice", func(t *testing.T) {
		env := newTestEnv(t)
		bill, _ := env.activeBill(t)

		_, _, err := env.bills.Confirm(ctx, bill.CreatorToken)
		require.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("records handles", func(t *testing.T) {
		env := newTestEnv(t)
		bill, _ := env.activeBill(t)

		venmo := "@joe"
		done, err := env.bills.Complete(ctx, bill.CreatorToken, models.PaymentHandles{Venmo: &venmo})
		require.NoError(t, err)
		assert.Equal(t, models.StatusComplete, done.Status)
		require.NotNil(t, done.Handles.Venmo)
	})

	t.Run("cannot skip straight from editing", func(t *testing.T) {
		env := newTestEnv(t)
		bill := env.uploadBill(t)

		_, err := env.bills.Complete(ctx, bill.CreatorToken, models.PaymentHandles{})
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("cannot complete twice", func(t *testing.T) {
		env := newTestEnv(t)
		bill, _ := env.activeBill(t)
		_, err := env.bills.Complete(ctx, bill.CreatorToken, models.PaymentHandles{})
		require.NoError(t, err)

		_, err = env.bills.Complete(ctx, bill.CreatorToken, models.PaymentHandles{})
		require.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bill, creatorToken := env.activeBill(t)

	p, err := env.participants.Join(ctx, bill.ShareToken)
	require.NoError(t, err)

	_, items, err := env.bills.GetFull(ctx, bill.CreatorToken)
	require.NoError(t, err)

	// Creator and guest both claim the pizza; guest also takes the salad.
	_, err = env.participants.ReplaceClaims(ctx, bill.ShareToken, creatorToken, []string{items[0].ID})
	require.NoError(t, err)
	_, err = env.participants.ReplaceClaims(ctx, bill.ShareToken, p.Token, []string{items[0].ID, items[1].ID})
	require.NoError(t, err)

	dash, err := env.bills.GetDashboard(ctx, bill.CreatorToken)
	require.NoError(t, err)
	require.Len(t, dash.Participants, 2)

	assert.Equal(t, 10.0, dash.Participants[0].ItemsTotal)
	assert.Equal(t, 20.0, dash.Participants[1].ItemsTotal)
	assert.ElementsMatch(t, []string{"Pizza", "Salad"}, dash.Participants[1].ClaimedItems)
}
