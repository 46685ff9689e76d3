package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snaptab/snaptab/internal/models"
	"github.com/snaptab/snaptab/internal/storage/sqlite"
	"github.com/snaptab/snaptab/internal/vision"
)

// stubExtractor returns a canned receipt or error.
type stubExtractor struct {
	receipt *vision.Receipt
	err     error
	calls   int
}

func (e *stubExtractor) Extract(_ context.Context, _ string) (*vision.Receipt, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.receipt, nil
}

// stubBlob records uploads and returns a deterministic URL.
type stubBlob struct {
	keys []string
}

func (b *stubBlob) Put(_ context.Context, key, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	b.keys = append(b.keys, key)
	return "http://localhost:8080/images/" + key, nil
}

type testEnv struct {
	bills        *BillService
	participants *ParticipantService
	extractor    *stubExtractor
	blobs        *stubBlob
}

func ptr(v float64) *float64 { return &v }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.DiscardHandler)
	extractor := &stubExtractor{
		receipt: &vision.Receipt{
			Venue: "Joe's Pizza & Grill!!",
			Items: []vision.ReceiptItem{
				{Name: "Pizza", Price: 20.0},
				{Name: "Salad", Price: 10.0},
			},
			Subtotal: ptr(30.0),
			Tax:      ptr(3.0),
			Tip:      ptr(5.0),
		},
	}
	blobs := &stubBlob{}

	return &testEnv{
		bills:        NewBillService(store, blobs, extractor, logger),
		participants: NewParticipantService(store, logger),
		extractor:    extractor,
		blobs:        blobs,
	}
}

// uploadBill creates a bill through the service and returns it.
func (env *testEnv) uploadBill(t *testing.T) *models.Bill {
	t.Helper()
	bill, err := env.bills.Upload(context.Background(), "image/jpeg", strings.NewReader("img"))
	require.NoError(t, err)
	return bill
}

// parsedBill uploads and parses, returning the bill with fresh share token.
func (env *testEnv) parsedBill(t *testing.T) (*models.Bill, *ParseResult) {
	t.Helper()
	bill := env.uploadBill(t)
	res, err := env.bills.Parse(context.Background(), bill.CreatorToken)
	require.NoError(t, err)
	bill.ShareToken = res.ShareToken
	return bill, res
}

// activeBill uploads, parses and confirms, returning the bill plus the
// creator's participant token.
func (env *testEnv) activeBill(t *testing.T) (*models.Bill, string) {
	t.Helper()
	bill, _ := env.parsedBill(t)
	confirmed, creatorParticipant, err := env.bills.Confirm(context.Background(), bill.CreatorToken)
	require.NoError(t, err)
	confirmed.ShareToken = bill.ShareToken
	return confirmed, creatorParticipant
}
