package user

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
	domuser "github.com/betahouse/listings/internal/domain/user"
)

// CollectionName is the MongoDB collection holding accounts.
const CollectionName = "users"

// collection is the consumer interface over *mongo.Collection (ISP).
type collection interface {
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	FindOneAndUpdate(
		ctx context.Context, filter, update any, opts ...*options.FindOneAndUpdateOptions,
	) *mongo.SingleResult
}

// Repo implements usecase/auth.Repository and usecase/user.Repository.
type Repo struct {
	coll collection
}

// New creates an account repository.
func New(c collection) *Repo {
	return &Repo{coll: c}
}

// Create inserts an account. A taken email yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u domuser.User) (domuser.User, error) {
	doc := toDoc(u)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domuser.User{}, fmt.Errorf("%w: email %s", domain.ErrAlreadyExists, u.Email())
		}
		return domuser.User{}, &db.Error{Op: db.OpInsertOne, Err: err}
	}
	return doc.toDomain(), nil
}

// Get returns an account by id.
func (r *Repo) Get(ctx context.Context, id string) (domuser.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domuser.User{}, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// GetByEmail returns an account by its normalized email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domuser.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// UpdateProfile sets name and avatar and returns the stored result.
func (r *Repo) UpdateProfile(ctx context.Context, id string, p domuser.Profile, now time.Time) (domuser.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domuser.User{}, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}

	set := bson.D{{Key: "updatedAt", Value: now}}
	if v := p.Name(); v != nil {
		set = append(set, bson.E{Key: "name", Value: *v})
	}
	if v := p.AvatarURL(); v != nil {
		set = append(set, bson.E{Key: "avatarUrl", Value: *v})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	res := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts)
	if err := res.Decode(&doc); err != nil {
		return domuser.User{}, notFound(db.OpFindOneAndUpdate, err)
	}
	return doc.toDomain(), nil
}

func (r *Repo) findOne(ctx context.Context, q bson.D) (domuser.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, q).Decode(&doc); err != nil {
		return domuser.User{}, notFound(db.OpFindOne, err)
	}
	return doc.toDomain(), nil
}

func notFound(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrUserNotFound
	}
	return &db.Error{Op: op, Err: err}
}
