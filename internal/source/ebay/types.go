package ebay

// Wire types for the Browse API item_summary/search response, trimmed to the
// fields the adapter consumes. Money values arrive as decimal strings.

// ItemSummary is a single listing in a Browse search response.
type ItemSummary struct {
	ItemID          string           `json:"itemId"`
	Title           string           `json:"title"`
	Condition       string           `json:"condition"`
	ConditionID     string           `json:"conditionId"`
	Price           *ItemPrice       `json:"price,omitempty"`
	ShippingOptions []ShippingOption `json:"shippingOptions,omitempty"`
	ItemWebURL      string           `json:"itemWebUrl"`
	Image           *ItemImage       `json:"image,omitempty"`
}

// ItemPrice is an amount plus its ISO 4217 currency code.
type ItemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ItemImage carries the listing's primary image URL.
type ItemImage struct {
	ImageURL string `json:"imageUrl"`
}

// ShippingOption carries the cost of one shipping choice. The first option
// in the slice is the one the adapter prices with.
type ShippingOption struct {
	ShippingCost *ItemPrice `json:"shippingCost,omitempty"`
}
