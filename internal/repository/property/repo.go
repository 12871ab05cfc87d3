package property

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/betahouse/listings/internal/db"
	"github.com/betahouse/listings/internal/domain"
	domprop "github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/property/patch"
)

// CollectionName is the MongoDB collection holding listings.
const CollectionName = "properties"

// collection is the consumer interface over *mongo.Collection (ISP).
type collection interface {
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
	FindOneAndUpdate(
		ctx context.Context, filter, update any, opts ...*options.FindOneAndUpdateOptions,
	) *mongo.SingleResult
	FindOneAndDelete(ctx context.Context, filter any, opts ...*options.FindOneAndDeleteOptions) *mongo.SingleResult
}

// Repo implements usecase/property.Repository and usecase/search.Repository.
type Repo struct {
	coll collection
}

// New creates a listing repository.
func New(c collection) *Repo {
	return &Repo{coll: c}
}

// Create inserts a listing and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, p domprop.Property) (domprop.Property, error) {
	doc := toDoc(p)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domprop.Property{}, &db.Error{Op: db.OpInsertOne, Err: err}
	}
	return doc.toDomain(), nil
}

// Get returns a listing by id.
func (r *Repo) Get(ctx context.Context, id string) (domprop.Property, error) {
	oid, err := parseID(id)
	if err != nil {
		return domprop.Property{}, err
	}

	var doc propertyDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return domprop.Property{}, notFound(db.OpFindOne, err)
	}
	return doc.toDomain(), nil
}

// Update applies a partial update and returns the stored result.
func (r *Repo) Update(ctx context.Context, id string, p patch.Patch, now time.Time) (domprop.Property, error) {
	oid, err := parseID(id)
	if err != nil {
		return domprop.Property{}, err
	}

	set := buildSet(p)
	set = append(set, bson.E{Key: "updatedAt", Value: now})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc propertyDoc
	res := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts)
	if err := res.Decode(&doc); err != nil {
		return domprop.Property{}, notFound(db.OpFindOneAndUpdate, err)
	}
	return doc.toDomain(), nil
}

// Delete removes a listing by id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Err(); err != nil {
		return notFound(db.OpFindOneAndDelete, err)
	}
	return nil
}

func buildSet(p patch.Patch) bson.D {
	set := bson.D{}
	add := func(key string, v any) { set = append(set, bson.E{Key: key, Value: v}) }

	if v := p.Title(); v != nil {
		add(domprop.FieldTitle, *v)
	}
	if v := p.Slug(); v != nil {
		add(domprop.FieldSlug, *v)
	}
	if v := p.Description(); v != nil {
		add(domprop.FieldDescription, *v)
	}
	if v := p.Price(); v != nil {
		add(domprop.FieldPrice, *v)
	}
	if v := p.Currency(); v != nil {
		add("currency", *v)
	}
	if v := p.Status(); v != nil {
		add(domprop.FieldStatus, string(*v))
	}
	if v := p.Type(); v != nil {
		add(domprop.FieldType, string(*v))
	}
	if v := p.Location(); v != nil {
		add("location", locationDoc(*v))
	}
	if v := p.Bedrooms(); v != nil {
		add(domprop.FieldBedrooms, *v)
	}
	if v := p.Bathrooms(); v != nil {
		add(domprop.FieldBathrooms, *v)
	}
	if v := p.Sqft(); v != nil {
		add(domprop.FieldSqft, *v)
	}
	if v := p.Features(); v != nil {
		add("features", v)
	}
	if v := p.Images(); v != nil {
		add("images", v)
	}
	if v := p.Featured(); v != nil {
		add(domprop.FieldFeatured, *v)
	}
	return set
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

func notFound(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrPropertyNotFound
	}
	return &db.Error{Op: op, Err: err}
}
