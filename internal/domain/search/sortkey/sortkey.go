package sortkey

// Key is the result ordering.
type Key string

// Sort keys.
const (
	// PriceAsc orders by price, cheapest first.
	PriceAsc  Key = "price-asc"
	PriceDesc Key = "price-desc"
	// Newest orders by creation time, latest first. Also the fallback for unknown keys.
	Newest Key = "newest"
)

// IsValid checks if the key is one of the supported values.
func (k Key) IsValid() bool {
	return k == PriceAsc || k == PriceDesc || k == Newest
}

// Parse resolves raw to a key. Unknown or empty input yields fallback,
// and an invalid fallback yields Newest.
func Parse(raw string, fallback Key) Key {
	if k := Key(raw); k.IsValid() {
		return k
	}
	if fallback.IsValid() {
		return fallback
	}
	return Newest
}
