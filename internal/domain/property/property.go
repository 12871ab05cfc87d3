package property

import (
	"strings"
	"time"

	"github.com/betahouse/listings/internal/domain"
	"github.com/betahouse/listings/internal/domain/coerce"
)

// MinTitleLength is the shortest accepted title, after trimming.
const MinTitleLength = 3

// Property is the listing aggregate (immutable value object).
type Property struct {
	id          string
	title       string
	slug        string
	description string
	price       float64
	currency    string
	status      Status
	typ         Type
	location    Location
	bedrooms    int
	bathrooms   int
	sqft        *float64
	features    []string
	images      []string
	featured    bool
	createdBy   string
	createdAt   time.Time
	updatedAt   time.Time
}

// Input is loosely typed listing data as submitted by a client.
// Nil pointers and nil slices mean "not supplied". Numeric fields stay textual
// so that numbers and numeric strings are accepted alike.
type Input struct {
	Title       *string
	Description *string
	Price       *string
	Currency    *string
	Status      *string
	Type        *string
	Location    *Location
	Bedrooms    *string
	Bathrooms   *string
	Sqft        *string
	Features    []string
	Images      []string
	Featured    *string
}

// New validates a create request and builds a Property without an id.
// Missing optional fields take their defaults from cfg.
func New(in Input, owner string, cfg domain.ListingConfig, now time.Time) (Property, error) {
	var errs []domain.FieldError
	fail := func(field, msg string) { errs = append(errs, domain.FieldError{Field: field, Message: msg}) }

	title := strings.TrimSpace(deref(in.Title))
	if len([]rune(title)) < MinTitleLength {
		fail(FieldTitle, "title is required (min 3 characters)")
	}

	price, ok := coerce.Float(deref(in.Price))
	switch {
	case !ok:
		fail(FieldPrice, "price must be a number")
	case price < 0:
		fail(FieldPrice, "price must not be negative")
	}

	typ, ok := ParseType(deref(in.Type))
	if !ok {
		if strings.TrimSpace(deref(in.Type)) == "" {
			fail(FieldType, "property type is required")
		} else {
			fail(FieldType, "property type must be one of "+typeList())
		}
	}

	bedrooms, ok := coerce.PositiveInt(deref(in.Bedrooms))
	if !ok {
		fail(FieldBedrooms, "bedrooms is required")
	}
	bathrooms, ok := coerce.PositiveInt(deref(in.Bathrooms))
	if !ok {
		fail(FieldBathrooms, "bathrooms is required")
	}

	status := Status(cfg.Status)
	if in.Status != nil {
		status = Status(strings.TrimSpace(*in.Status))
		if !status.IsValid() {
			fail(FieldStatus, "status must be sale or rent")
		}
	}

	sqft, sqftErr := ParseSqft(in.Sqft)
	if sqftErr != "" {
		fail(FieldSqft, sqftErr)
	}

	if err := domain.NewValidationError(errs); err != nil {
		return Property{}, err
	}

	currency := cfg.Currency
	if c := strings.TrimSpace(deref(in.Currency)); c != "" {
		currency = c
	}
	var loc Location
	if in.Location != nil {
		loc = *in.Location
	}

	return Property{
		title:       title,
		slug:        Slug(title),
		description: deref(in.Description),
		price:       price,
		currency:    currency,
		status:      status,
		typ:         typ,
		location:    loc,
		bedrooms:    bedrooms,
		bathrooms:   bathrooms,
		sqft:        sqft,
		features:    Compact(in.Features),
		images:      ImagesOrPlaceholder(in.Images, cfg.PlaceholderImage),
		featured:    in.Featured != nil && coerce.True(*in.Featured),
		createdBy:   owner,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Snapshot carries every stored field. Used for storage hydration.
type Snapshot struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Price       float64
	Currency    string
	Status      Status
	Type        Type
	Location    Location
	Bedrooms    int
	Bathrooms   int
	Sqft        *float64
	Features    []string
	Images      []string
	Featured    bool
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reconstruct creates a Property without validation (storage hydration).
func Reconstruct(s Snapshot) Property {
	return Property{
		id: s.ID, title: s.Title, slug: s.Slug, description: s.Description,
		price: s.Price, currency: s.Currency, status: s.Status, typ: s.Type,
		location: s.Location, bedrooms: s.Bedrooms, bathrooms: s.Bathrooms, sqft: s.Sqft,
		features: s.Features, images: s.Images, featured: s.Featured,
		createdBy: s.CreatedBy, createdAt: s.CreatedAt, updatedAt: s.UpdatedAt,
	}
}

// Snapshot exports every field.
func (p Property) Snapshot() Snapshot {
	return Snapshot{
		ID: p.id, Title: p.title, Slug: p.slug, Description: p.description,
		Price: p.price, Currency: p.currency, Status: p.status, Type: p.typ,
		Location: p.location, Bedrooms: p.bedrooms, Bathrooms: p.bathrooms, Sqft: p.sqft,
		Features: p.features, Images: p.images, Featured: p.featured,
		CreatedBy: p.createdBy, CreatedAt: p.createdAt, UpdatedAt: p.updatedAt,
	}
}

// WithID returns a copy carrying the storage-assigned id.
func (p Property) WithID(id string) Property {
	p.id = id
	return p
}

// WithImages returns a copy whose images are replaced. An empty list falls back to placeholder.
func (p Property) WithImages(images []string, placeholder string) Property {
	p.images = ImagesOrPlaceholder(images, placeholder)
	return p
}

// ID returns the storage identifier.
func (p Property) ID() string { return p.id }

// Title returns the listing title.
func (p Property) Title() string { return p.title }

// Slug returns the title-derived identifier.
func (p Property) Slug() string { return p.slug }

// Description returns the free-text description.
func (p Property) Description() string { return p.description }

// Price returns the asking price.
func (p Property) Price() float64 { return p.price }

// Currency returns the ISO currency code.
func (p Property) Currency() string { return p.currency }

// Status returns sale or rent.
func (p Property) Status() Status { return p.status }

// Type returns the building category.
func (p Property) Type() Type { return p.typ }

// Location returns the address.
func (p Property) Location() Location { return p.location }

// Bedrooms returns the bedroom count.
func (p Property) Bedrooms() int { return p.bedrooms }

// Bathrooms returns the bathroom count.
func (p Property) Bathrooms() int { return p.bathrooms }

// Sqft returns the floor area, or nil when unknown.
func (p Property) Sqft() *float64 { return p.sqft }

// Features returns the amenity list.
func (p Property) Features() []string { return p.features }

// Images returns the image URLs. Never empty for validated or stored listings.
func (p Property) Images() []string { return p.images }

// Featured reports whether the listing is promoted.
func (p Property) Featured() bool { return p.featured }

// CreatedBy returns the owner user id.
func (p Property) CreatedBy() string { return p.createdBy }

// CreatedAt returns the creation time.
func (p Property) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last write time.
func (p Property) UpdatedAt() time.Time { return p.updatedAt }

// ImagesOrPlaceholder drops blank entries and substitutes placeholder for an empty result.
func ImagesOrPlaceholder(images []string, placeholder string) []string {
	out := Compact(images)
	if len(out) == 0 {
		return []string{placeholder}
	}
	return out
}

// ParseSqft coerces an optional floor area. An empty message means success.
func ParseSqft(raw *string) (*float64, string) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, ""
	}
	v, ok := coerce.Float(*raw)
	if !ok {
		return nil, "sqft must be a number"
	}
	if v < 0 {
		return nil, "sqft must not be negative"
	}
	return &v, ""
}

// Compact trims entries and drops blank ones.
func Compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func typeList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
