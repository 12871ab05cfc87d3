package property

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	domprop "github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/search/filter"
	"github.com/betahouse/listings/internal/domain/search/sortkey"
)

// buildFilter translates a predicate into a MongoDB query document.
// $text stays top level; several field constraints are combined with $and.
func buildFilter(p filter.Predicate) (bson.D, error) {
	q := bson.D{}
	if p.HasText() {
		q = append(q, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: p.Text()}}})
	}

	cs := p.Constraints()
	switch len(cs) {
	case 0:
		return q, nil
	case 1:
		d, err := buildConstraint(cs[0])
		if err != nil {
			return nil, err
		}
		return append(q, d...), nil
	}

	clauses := make(bson.A, 0, len(cs))
	for _, c := range cs {
		d, err := buildConstraint(c)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, d)
	}
	return append(q, bson.E{Key: "$and", Value: clauses}), nil
}

func buildConstraint(c filter.Constraint) (bson.D, error) {
	switch c.Kind() {
	case filter.KindEquals:
		return bson.D{{Key: c.Field(), Value: c.Value()}}, nil
	case filter.KindRange:
		return bson.D{{Key: c.Field(), Value: buildRange(c.Range())}}, nil
	case filter.KindSubstring:
		return bson.D{{Key: c.Field(), Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(c.Needle())},
			{Key: "$options", Value: "i"},
		}}}, nil
	case filter.KindDisjunction:
		alts := make(bson.A, 0, len(c.Alternatives()))
		for _, a := range c.Alternatives() {
			d, err := buildConstraint(a)
			if err != nil {
				return nil, err
			}
			alts = append(alts, d)
		}
		return bson.D{{Key: "$or", Value: alts}}, nil
	default:
		return nil, fmt.Errorf("unsupported constraint kind: %s", c.Kind())
	}
}

func buildRange(r filter.Range) bson.D {
	d := bson.D{}
	if r.GTE() != nil {
		d = append(d, bson.E{Key: "$gte", Value: *r.GTE()})
	}
	if r.LTE() != nil {
		d = append(d, bson.E{Key: "$lte", Value: *r.LTE()})
	}
	return d
}

// buildSort maps a sort key to a single-field sort. No tie-breaker is added.
func buildSort(k sortkey.Key) bson.D {
	switch k {
	case sortkey.PriceAsc:
		return bson.D{{Key: domprop.FieldPrice, Value: 1}}
	case sortkey.PriceDesc:
		return bson.D{{Key: domprop.FieldPrice, Value: -1}}
	default:
		return bson.D{{Key: domprop.FieldCreatedAt, Value: -1}}
	}
}
