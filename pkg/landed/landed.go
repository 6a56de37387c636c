// Package landed converts per-source offer amounts into a single
// target-currency landed cost.
package landed

// ToTarget converts amount from the given currency into the target
// currency using a rate table expressed as "currency units per 1 target
// unit". When the amount is already in the target currency, or when no
// usable rate exists (empty table, missing entry, or a zero rate), the
// amount passes through unchanged: an uncertain conversion is better
// displayed as the raw number than silently dropped.
func ToTarget(amount float64, currency string, table map[string]float64, target string) float64 {
	if currency == target {
		return amount
	}

	rate, ok := table[currency]
	if !ok || rate == 0 {
		return amount
	}

	return amount / rate
}
