// Package calculator computes per-participant bill splits. It is a pure
// function layer over already-validated inputs: callers check bill status
// and load the ledger; nothing here touches storage or returns errors.
package calculator

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/snaptab/snaptab/internal/models"
)

// FinalSplit is one participant's share of a completed bill.
type FinalSplit struct {
	Name       string
	ItemsTotal float64
	TaxShare   float64
	TipShare   float64
	FinalTotal float64
}

// FinalSplits computes the final per-person breakdown.
//
// Each item claimed by k participants contributes price/k to every claimant;
// an unclaimed item contributes nothing to anyone (the orphaned cost is not
// redistributed). Tax and tip are split evenly across eligible participants
// (done, with a name), not proportionally to item totals. All arithmetic is
// kept unrounded; figures are rounded half-up to 2 decimal places only at
// the output boundary. Results are sorted by name, case-insensitive.
func FinalSplits(items []models.Item, claims []models.Claim, participants []models.Participant, tax, tip *float64) []FinalSplit {
	prices := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		prices[item.ID] = decimal.NewFromFloat(item.Price)
	}

	shares := itemShares(prices, claims)

	var eligible []models.Participant
	for _, p := range participants {
		if p.Eligible() {
			eligible = append(eligible, p)
		}
	}

	taxShare, tipShare := decimal.Zero, decimal.Zero
	if n := int64(len(eligible)); n > 0 {
		divisor := decimal.NewFromInt(n)
		taxShare = fromPtr(tax).Div(divisor)
		tipShare = fromPtr(tip).Div(divisor)
	}

	splits := make([]FinalSplit, 0, len(eligible))
	for _, p := range eligible {
		itemsTotal := decimal.Zero
		for _, c := range claims {
			if c.ParticipantID != p.ID {
				continue
			}
			if share, ok := shares[c.ItemID]; ok {
				itemsTotal = itemsTotal.Add(share)
			}
		}

		splits = append(splits, FinalSplit{
			Name:       p.Name,
			ItemsTotal: round2(itemsTotal),
			TaxShare:   round2(taxShare),
			TipShare:   round2(tipShare),
			FinalTotal: round2(itemsTotal.Add(taxShare).Add(tipShare)),
		})
	}

	sort.Slice(splits, func(i, j int) bool {
		return strings.ToLower(splits[i].Name) < strings.ToLower(splits[j].Name)
	})

	return splits
}

// itemShares returns the per-claimant share of each claimed item.
func itemShares(prices map[string]decimal.Decimal, claims []models.Claim) map[string]decimal.Decimal {
	counts := make(map[string]int64)
	for _, c := range claims {
		counts[c.ItemID]++
	}

	shares := make(map[string]decimal.Decimal, len(counts))
	for itemID, k := range counts {
		price, ok := prices[itemID]
		if !ok {
			continue
		}
		shares[itemID] = price.Div(decimal.NewFromInt(k))
	}
	return shares
}

func fromPtr(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
