package property

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	domprop "github.com/betahouse/listings/internal/domain/property"
)

// propertyDoc is the stored shape of a listing.
type propertyDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       string              `bson:"title"`
	Slug        string              `bson:"slug"`
	Description string              `bson:"description"`
	Price       float64             `bson:"price"`
	Currency    string              `bson:"currency"`
	Status      string              `bson:"status"`
	Type        string              `bson:"type"`
	Location    locationDoc         `bson:"location"`
	Bedrooms    int                 `bson:"bedrooms"`
	Bathrooms   int                 `bson:"bathrooms"`
	Sqft        *float64            `bson:"sqft,omitempty"`
	Features    []string            `bson:"features"`
	Images      []string            `bson:"images"`
	Featured    bool                `bson:"featured"`
	CreatedBy   *primitive.ObjectID `bson:"createdBy,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt"`
}

type locationDoc struct {
	State   string `bson:"state"`
	City    string `bson:"city"`
	Area    string `bson:"area"`
	Address string `bson:"address"`
}

func toDoc(p domprop.Property) propertyDoc {
	s := p.Snapshot()
	d := propertyDoc{
		Title:       s.Title,
		Slug:        s.Slug,
		Description: s.Description,
		Price:       s.Price,
		Currency:    s.Currency,
		Status:      string(s.Status),
		Type:        string(s.Type),
		Location:    locationDoc(s.Location),
		Bedrooms:    s.Bedrooms,
		Bathrooms:   s.Bathrooms,
		Sqft:        s.Sqft,
		Features:    nonNil(s.Features),
		Images:      nonNil(s.Images),
		Featured:    s.Featured,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(s.ID); err == nil {
		d.ID = oid
	}
	if oid, err := primitive.ObjectIDFromHex(s.CreatedBy); err == nil {
		d.CreatedBy = &oid
	}
	return d
}

func (d propertyDoc) toDomain() domprop.Property {
	var createdBy string
	if d.CreatedBy != nil {
		createdBy = d.CreatedBy.Hex()
	}
	return domprop.Reconstruct(domprop.Snapshot{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		Price:       d.Price,
		Currency:    d.Currency,
		Status:      domprop.Status(d.Status),
		Type:        domprop.Type(d.Type),
		Location:    domprop.Location(d.Location),
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		Sqft:        d.Sqft,
		Features:    nonNil(d.Features),
		Images:      nonNil(d.Images),
		Featured:    d.Featured,
		CreatedBy:   createdBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
