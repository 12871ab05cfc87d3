package user

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/betahouse/listings/internal/db"
)

// IndexCreator is satisfied by (*mongo.Collection).Indexes().
type IndexCreator interface {
	CreateMany(ctx context.Context, models []mongo.IndexModel, opts ...*options.CreateIndexesOptions) ([]string, error)
}

// EnsureIndexes creates the unique email index that backs duplicate detection.
func EnsureIndexes(ctx context.Context, ic IndexCreator) ([]string, error) {
	models := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	}}
	names, err := ic.CreateMany(ctx, models)
	if err != nil {
		return nil, &db.Error{Op: db.OpCreateIndexes, Err: err}
	}
	return names, nil
}
