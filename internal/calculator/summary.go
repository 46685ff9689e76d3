package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/snaptab/snaptab/internal/models"
)

// Summary is one participant's running claim total as shown on the creator
// dashboard. Unlike FinalSplits it covers every participant regardless of
// status, since the creator watches progress while people are still picking.
type Summary struct {
	ParticipantID string
	Name          string
	Status        models.ParticipantStatus
	ItemsTotal    float64
	ClaimedItems  []string
}

// Summaries computes dashboard rows for all participants, using the same
// shared-item division as the final split.
func Summaries(items []models.Item, claims []models.Claim, participants []models.Participant) []Summary {
	prices := make(map[string]decimal.Decimal, len(items))
	names := make(map[string]string, len(items))
	for _, item := range items {
		prices[item.ID] = decimal.NewFromFloat(item.Price)
		names[item.ID] = item.Name
	}

	shares := itemShares(prices, claims)

	summaries := make([]Summary, 0, len(participants))
	for _, p := range participants {
		itemsTotal := decimal.Zero
		claimedItems := []string{}
		for _, c := range claims {
			if c.ParticipantID != p.ID {
				continue
			}
			share, ok := shares[c.ItemID]
			if !ok {
				continue
			}
			itemsTotal = itemsTotal.Add(share)
			claimedItems = append(claimedItems, names[c.ItemID])
		}

		summaries = append(summaries, Summary{
			ParticipantID: p.ID,
			Name:          p.Name,
			Status:        p.Status,
			ItemsTotal:    round2(itemsTotal),
			ClaimedItems:  claimedItems,
		})
	}

	return summaries
}
