package property

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/betahouse/listings/internal/db"
	domprop "github.com/betahouse/listings/internal/domain/property"
)

// IndexCreator is satisfied by (*mongo.Collection).Indexes().
type IndexCreator interface {
	CreateMany(ctx context.Context, models []mongo.IndexModel, opts ...*options.CreateIndexesOptions) ([]string, error)
}

// indexModels lists the indexes the search path relies on.
// $text queries fail without the text index.
func indexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: domprop.FieldTitle, Value: "text"},
				{Key: domprop.FieldDescription, Value: "text"},
				{Key: domprop.FieldType, Value: "text"},
				{Key: domprop.FieldState, Value: "text"},
				{Key: domprop.FieldCity, Value: "text"},
				{Key: domprop.FieldArea, Value: "text"},
				{Key: domprop.FieldAddress, Value: "text"},
			},
			Options: options.Index().SetName("properties_text"),
		},
		{Keys: bson.D{{Key: domprop.FieldCity, Value: 1}}},
		{Keys: bson.D{{Key: domprop.FieldPrice, Value: 1}}},
		{Keys: bson.D{{Key: domprop.FieldBedrooms, Value: 1}}},
		{Keys: bson.D{{Key: domprop.FieldFeatured, Value: 1}}},
		{Keys: bson.D{{Key: domprop.FieldCreatedAt, Value: -1}}},
	}
}

// EnsureIndexes creates the listing indexes. Existing identical indexes are a no-op.
func EnsureIndexes(ctx context.Context, ic IndexCreator) ([]string, error) {
	names, err := ic.CreateMany(ctx, indexModels())
	if err != nil {
		return nil, &db.Error{Op: db.OpCreateIndexes, Err: err}
	}
	return names, nil
}
