package domain

// ListingConfig holds the implicit listing defaults, resolved once at startup.
type ListingConfig struct {
	Currency         string
	Status           string
	PlaceholderImage string
	DefaultSort      string
	DefaultPageSize  int
	MaxPageSize      int
}

// DefaultListingConfig returns the defaults the marketplace has always shipped with.
func DefaultListingConfig() ListingConfig {
	return ListingConfig{
		Currency:         "NGN",
		Status:           "sale",
		PlaceholderImage: "https://placehold.co/600x400?text=No+Image",
		DefaultSort:      "newest",
		DefaultPageSize:  9,
		MaxPageSize:      100,
	}
}
