// Package mock provides a deterministic fixture source used when no live
// marketplace credentials are supplied. It implements the same capability
// as the live adapters, so the whole pipeline (ranking, stats, display
// contract) is exercisable offline.
package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/offerscout/offerscout/internal/source"
	domain "github.com/offerscout/offerscout/pkg/types"
)

// catalog is the fixed demo inventory. Every entry is pre-tagged with a
// condition label; prices are already in USD so landed-cost conversion is
// an identity pass-through in demo mode.
var catalog = []domain.RawOffer{
	{
		Title:     "Apple iPhone 15 Pro 128GB (New)",
		Price:     999.00,
		Currency:  "USD",
		Shipping:  0,
		Condition: "New",
		ImageURL:  "https://i.ebayimg.com/images/g/demo1/s-l500.jpg",
		ItemURL:   "https://example.com/offers/1",
	},
	{
		Title:     "Apple iPhone 15 Pro (Open Box)",
		Price:     850.00,
		Currency:  "USD",
		Shipping:  15.00,
		Condition: "Open Box",
		ImageURL:  "https://i.ebayimg.com/images/g/demo2/s-l500.jpg",
		ItemURL:   "https://example.com/offers/2",
	},
	{
		Title:     "iPhone 15 Pro Parts Only",
		Price:     200.00,
		Currency:  "USD",
		Shipping:  10.00,
		Condition: "Parts",
		ImageURL:  "https://i.ebayimg.com/images/g/demo3/s-l500.jpg",
		ItemURL:   "https://example.com/offers/3",
	},
	{
		Title:     "Sony WH-1000XM5 Wireless Headphones (New)",
		Price:     328.00,
		Currency:  "USD",
		Shipping:  0,
		Condition: "New",
		ImageURL:  "https://i.ebayimg.com/images/g/demo4/s-l500.jpg",
		ItemURL:   "https://example.com/offers/4",
	},
	{
		Title:     "Sony WH-1000XM5 (Seller Refurbished)",
		Price:     219.00,
		Currency:  "USD",
		Shipping:  9.99,
		Condition: "Refurbished",
		ImageURL:  "https://i.ebayimg.com/images/g/demo5/s-l500.jpg",
		ItemURL:   "https://example.com/offers/5",
	},
}

// Provider serves the fixed catalog through the source.Adapter capability.
type Provider struct{}

var _ source.Adapter = (*Provider)(nil)

// NewProvider creates a demo catalog provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name implements source.Adapter.
func (*Provider) Name() string { return "eBay (demo)" }

// NewOnly implements source.Adapter.
func (*Provider) NewOnly() bool { return false }

// Search implements source.Adapter. The query is ignored: demo mode always
// serves the full catalog filtered by condition, mirroring the live
// condition-routing rule. It never fails.
func (*Provider) Search(
	_ context.Context,
	_ string,
	filter domain.ConditionFilter,
) ([]domain.RawOffer, error) {
	var out []domain.RawOffer
	for _, entry := range catalog {
		if Matches(entry.Condition, filter) {
			out = append(out, entry)
		}
	}
	return out, nil
}

// Offers returns the filtered catalog in normalized form, totals already
// in USD. This is the direct upward contract for presentation layers that
// bypass the aggregator.
func (p *Provider) Offers(filter domain.ConditionFilter) []domain.Offer {
	raw, _ := p.Search(context.Background(), "", filter)

	offers := make([]domain.Offer, 0, len(raw))
	for _, r := range raw {
		offers = append(offers, domain.Offer{
			Source:    p.Name(),
			Title:     r.Title,
			Condition: r.Condition,
			PriceInfo: fmt.Sprintf("%.2f %s (+ %.2f ship)", r.Price, r.Currency, r.Shipping),
			TotalCost: r.Price + r.Shipping,
			ImageURL:  r.ImageURL,
			ItemURL:   r.ItemURL,
		})
	}
	return offers
}

// Matches reports whether a condition label passes the filter: New selects
// labels containing "New", UsedOrRefurbished selects the complement, Any
// selects everything. This predicate mirrors the live adapters'
// condition-routing rule and is shared so the two cannot drift.
func Matches(label string, filter domain.ConditionFilter) bool {
	switch filter {
	case domain.ConditionNew:
		return strings.Contains(label, "New")
	case domain.ConditionUsed:
		return !strings.Contains(label, "New")
	default:
		return true
	}
}
