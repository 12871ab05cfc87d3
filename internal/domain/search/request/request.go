package request

import (
	"github.com/betahouse/listings/internal/domain/coerce"
	"github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/search/filter"
)

// Params is a raw search request. Every field is optional free text.
type Params struct {
	Q        string
	Location string
	City     string
	Area     string
	Type     string
	Status   string
	Bedrooms string
	MinPrice string
	MaxPrice string
	Featured string
	Sort     string
	Page     string
	PageSize string
}

// Compile turns params into a predicate. It never fails: unusable values
// drop their constraint instead of rejecting the request.
//
// Constraints are ANDed in a fixed order: location, city, area, type, status,
// price, bedrooms, featured. A generic location and an explicit city or area
// both apply; contradictory criteria simply match nothing.
func Compile(p Params) filter.Predicate {
	var cs []filter.Constraint

	if loc, ok := coerce.Text(p.Location); ok {
		alts := make([]filter.Constraint, len(property.LocationFields))
		for i, f := range property.LocationFields {
			alts[i] = filter.Substring(f, loc)
		}
		cs = append(cs, filter.AnyOf(alts...))
	}
	if city, ok := coerce.Text(p.City); ok {
		cs = append(cs, filter.Substring(property.FieldCity, city))
	}
	if area, ok := coerce.Text(p.Area); ok {
		cs = append(cs, filter.Substring(property.FieldArea, area))
	}
	if typ, ok := coerce.Text(p.Type); ok {
		cs = append(cs, filter.Substring(property.FieldType, typ))
	}
	if st, ok := coerce.Text(p.Status); ok {
		cs = append(cs, filter.Equals(property.FieldStatus, st))
	}
	if c, ok := priceConstraint(p.MinPrice, p.MaxPrice); ok {
		cs = append(cs, c)
	}
	if v, ok := coerce.Float(p.Bedrooms); ok && v > 0 {
		r, _ := filter.Between(&v, nil)
		cs = append(cs, filter.NewRange(property.FieldBedrooms, r))
	}
	if coerce.True(p.Featured) {
		cs = append(cs, filter.Equals(property.FieldFeatured, true))
	}

	text, _ := coerce.Text(p.Q)
	return filter.NewPredicate(text, cs...)
}

func priceConstraint(minRaw, maxRaw string) (filter.Constraint, bool) {
	var lo, hi *float64
	if v, ok := coerce.Float(minRaw); ok {
		lo = &v
	}
	if v, ok := coerce.Float(maxRaw); ok {
		hi = &v
	}
	r, err := filter.Between(lo, hi)
	if err != nil {
		return filter.Constraint{}, false
	}
	return filter.NewRange(property.FieldPrice, r), true
}

// Pagination coerces the page and pageSize parameters.
// Unparsable values count as missing: page 0 (normalized to 1 later), size nil.
func (p Params) Pagination() (number int, size *int) {
	number, _ = coerce.Int(p.Page)
	if v, ok := coerce.Int(p.PageSize); ok {
		size = &v
	}
	return number, size
}
