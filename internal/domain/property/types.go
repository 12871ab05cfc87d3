package property

import "strings"

// Status is the listing intent.
type Status string

// Listing statuses.
const (
	StatusSale Status = "sale"
	StatusRent Status = "rent"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	return s == StatusSale || s == StatusRent
}

// Type is the building category.
type Type string

// Property types.
const (
	TypeApartment Type = "Apartment"
	TypeDuplex    Type = "Duplex"
	TypeBungalow  Type = "Bungalow"
	TypeStudio    Type = "Studio"
	TypeVilla     Type = "Villa"
	TypeLand      Type = "Land"
)

// Types lists every supported type in display order.
var Types = []Type{TypeApartment, TypeDuplex, TypeBungalow, TypeStudio, TypeVilla, TypeLand}

// ParseType resolves a type case-insensitively to its canonical spelling.
func ParseType(raw string) (Type, bool) {
	raw = strings.TrimSpace(raw)
	for _, t := range Types {
		if strings.EqualFold(raw, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Location is the free-form address of a listing.
type Location struct {
	State   string `json:"state"`
	City    string `json:"city"`
	Area    string `json:"area"`
	Address string `json:"address"`
}

// Stored field paths, shared by the search compiler and the storage adapter.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldSlug        = "slug"
	FieldType        = "type"
	FieldStatus      = "status"
	FieldPrice       = "price"
	FieldBedrooms    = "bedrooms"
	FieldBathrooms   = "bathrooms"
	FieldSqft        = "sqft"
	FieldFeatured    = "featured"
	FieldState       = "location.state"
	FieldCity        = "location.city"
	FieldArea        = "location.area"
	FieldAddress     = "location.address"
	FieldCreatedAt   = "createdAt"
)

// LocationFields are the sub-fields a generic location query searches.
var LocationFields = []string{FieldState, FieldCity, FieldArea, FieldAddress}
