package patch

import (
	"strings"

	"github.com/betahouse/listings/internal/domain"
	"github.com/betahouse/listings/internal/domain/coerce"
	"github.com/betahouse/listings/internal/domain/property"
)

// Patch is a partial listing update. Nil fields are unchanged.
// Ownership, id and creation time are never patchable.
type Patch struct {
	title       *string
	slug        *string
	description *string
	price       *float64
	currency    *string
	status      *property.Status
	typ         *property.Type
	location    *property.Location
	bedrooms    *int
	bathrooms   *int
	sqft        *float64
	features    []string
	images      []string
	featured    *bool
}

// New validates the supplied fields of in. An empty patch is valid and only touches updatedAt.
// An explicitly supplied empty image list resolves to the placeholder.
func New(in property.Input, placeholder string) (Patch, error) {
	var (
		p    Patch
		errs []domain.FieldError
	)
	fail := func(field, msg string) { errs = append(errs, domain.FieldError{Field: field, Message: msg}) }

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if len([]rune(title)) < property.MinTitleLength {
			fail(property.FieldTitle, "title must be at least 3 characters")
		} else {
			slug := property.Slug(title)
			p.title, p.slug = &title, &slug
		}
	}
	if in.Description != nil {
		p.description = in.Description
	}
	if in.Price != nil {
		v, ok := coerce.Float(*in.Price)
		switch {
		case !ok:
			fail(property.FieldPrice, "price must be a number")
		case v < 0:
			fail(property.FieldPrice, "price must not be negative")
		default:
			p.price = &v
		}
	}
	if in.Currency != nil {
		if c := strings.TrimSpace(*in.Currency); c != "" {
			p.currency = &c
		}
	}
	if in.Status != nil {
		s := property.Status(strings.TrimSpace(*in.Status))
		if s.IsValid() {
			p.status = &s
		} else {
			fail(property.FieldStatus, "status must be sale or rent")
		}
	}
	if in.Type != nil {
		if t, ok := property.ParseType(*in.Type); ok {
			p.typ = &t
		} else {
			fail(property.FieldType, "invalid property type")
		}
	}
	if in.Location != nil {
		loc := *in.Location
		p.location = &loc
	}
	p.bedrooms = count(in.Bedrooms, property.FieldBedrooms, fail)
	p.bathrooms = count(in.Bathrooms, property.FieldBathrooms, fail)
	if in.Sqft != nil {
		v, msg := property.ParseSqft(in.Sqft)
		if msg != "" {
			fail(property.FieldSqft, msg)
		}
		p.sqft = v
	}
	if in.Features != nil {
		p.features = property.Compact(in.Features)
	}
	if in.Images != nil {
		p.images = property.ImagesOrPlaceholder(in.Images, placeholder)
	}
	if in.Featured != nil {
		f := coerce.True(*in.Featured)
		p.featured = &f
	}

	if err := domain.NewValidationError(errs); err != nil {
		return Patch{}, err
	}
	return p, nil
}

// count accepts a non-negative integer. Counts may be lowered to zero on update.
func count(raw *string, field string, fail func(string, string)) *int {
	if raw == nil {
		return nil
	}
	v, ok := coerce.Int(*raw)
	if !ok || v < 0 {
		fail(field, field+" must be a non-negative integer")
		return nil
	}
	return &v
}

// WithImages returns a copy whose image list is replaced, placeholder when empty.
func (p Patch) WithImages(images []string, placeholder string) Patch {
	p.images = property.ImagesOrPlaceholder(images, placeholder)
	return p
}

// Title returns the new title, or nil if unchanged.
func (p Patch) Title() *string { return p.title }

// Slug is set exactly when Title is.
func (p Patch) Slug() *string { return p.slug }

// Description returns the new description, or nil if unchanged.
func (p Patch) Description() *string { return p.description }

// Price returns the new price, or nil if unchanged.
func (p Patch) Price() *float64 { return p.price }

// Currency returns the new currency code, or nil if unchanged.
func (p Patch) Currency() *string { return p.currency }

// Status returns the new listing status, or nil if unchanged.
func (p Patch) Status() *property.Status { return p.status }

// Type returns the new property type, or nil if unchanged.
func (p Patch) Type() *property.Type { return p.typ }

// Location replaces the whole location when non-nil.
func (p Patch) Location() *property.Location { return p.location }

// Bedrooms returns the new bedroom count, or nil if unchanged.
func (p Patch) Bedrooms() *int { return p.bedrooms }

// Bathrooms returns the new bathroom count, or nil if unchanged.
func (p Patch) Bathrooms() *int { return p.bathrooms }

// Sqft returns the new floor area, or nil if unchanged.
func (p Patch) Sqft() *float64 { return p.sqft }

// Features returns the compacted feature list, or nil if unchanged.
func (p Patch) Features() []string { return p.features }

// Images returns the replacement image list, or nil if unchanged.
func (p Patch) Images() []string { return p.images }

// Featured returns the new featured flag, or nil if unchanged.
func (p Patch) Featured() *bool { return p.featured }

// IsEmpty reports whether no field changes.
func (p Patch) IsEmpty() bool {
	return p.title == nil && p.description == nil && p.price == nil && p.currency == nil &&
		p.status == nil && p.typ == nil && p.location == nil && p.bedrooms == nil &&
		p.bathrooms == nil && p.sqft == nil && p.features == nil && p.images == nil &&
		p.featured == nil
}
