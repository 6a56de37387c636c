// Package domain defines the core business types for offerscout.
package domain

import (
	"fmt"
	"time"
)

// ConditionFilter selects which item conditions a search includes.
type ConditionFilter string

// Condition filter constants.
const (
	ConditionNew  ConditionFilter = "new"
	ConditionUsed ConditionFilter = "used" // used or refurbished
	ConditionAny  ConditionFilter = "any"
)

// ParseConditionFilter converts a user-supplied string into a
// ConditionFilter. An empty string defaults to ConditionAny.
func ParseConditionFilter(s string) (ConditionFilter, error) {
	switch s {
	case "new":
		return ConditionNew, nil
	case "used", "refurbished", "used/refurbished":
		return ConditionUsed, nil
	case "any", "":
		return ConditionAny, nil
	}
	return "", fmt.Errorf("unknown condition filter %q (want new, used, or any)", s)
}

// RawOffer is a source-specific offer before normalization. Amounts are in
// the source's own currency; shipping defaults to 0 when the source does
// not report it.
type RawOffer struct {
	Title     string
	Price     float64
	Currency  string
	Shipping  float64
	Condition string
	ImageURL  string
	ItemURL   string
}

// Offer is a normalized offer comparable across sources. TotalCost is
// always expressed in the aggregator's target currency.
type Offer struct {
	Source    string  `json:"source"`
	Title     string  `json:"title"`
	Condition string  `json:"condition"`
	PriceInfo string  `json:"price_info"`
	TotalCost float64 `json:"total_cost"`
	ImageURL  string  `json:"image_url,omitempty"`
	ItemURL   string  `json:"item_url,omitempty"`
}

// Stats holds derived summary values over a result set.
type Stats struct {
	MinTotal  float64 `json:"min_total"`
	MeanTotal float64 `json:"mean_total"`
	Count     int     `json:"count"`
	TopSource string  `json:"top_source,omitempty"`
}

// Result is an ordered offer list, sorted ascending by total cost with
// ties kept in input order, plus summary statistics.
type Result struct {
	Query           string  `json:"query"`
	NormalizedQuery string  `json:"normalized_query"`
	Offers          []Offer `json:"offers"`
	Stats           Stats   `json:"stats"`
}

// ComputeStats derives summary statistics from an ordered offer list.
// The list must already be sorted ascending by total cost.
func ComputeStats(offers []Offer) Stats {
	if len(offers) == 0 {
		return Stats{}
	}

	var sum float64
	for i := range offers {
		sum += offers[i].TotalCost
	}

	return Stats{
		MinTotal:  offers[0].TotalCost,
		MeanTotal: sum / float64(len(offers)),
		Count:     len(offers),
		TopSource: offers[0].Source,
	}
}

// SearchRecord is a persisted trace of one aggregator search.
type SearchRecord struct {
	ID              string    `json:"id"               db:"id"`
	Query           string    `json:"query"            db:"query"`
	NormalizedQuery string    `json:"normalized_query" db:"normalized_query"`
	Filter          string    `json:"filter"           db:"filter"`
	ResultCount     int       `json:"result_count"     db:"result_count"`
	MinTotal        float64   `json:"min_total"        db:"min_total"`
	MeanTotal       float64   `json:"mean_total"       db:"mean_total"`
	TopSource       string    `json:"top_source"       db:"top_source"`
	CreatedAt       time.Time `json:"created_at"       db:"created_at"`
}

// RateTable is a snapshot of currency conversion rates relative to the
// target currency (units of each currency per 1 target unit) with a
// freshness timestamp. An empty Rates map means conversion degrades to
// identity pass-through.
type RateTable struct {
	Target    string             `json:"target"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Empty reports whether the table carries no usable rates.
func (t *RateTable) Empty() bool {
	return len(t.Rates) == 0
}
