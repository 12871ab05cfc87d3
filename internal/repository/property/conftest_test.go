package property

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domprop "github.com/betahouse/listings/internal/domain/property"
)

// mockCollection implements the consumer interface for tests.
type mockCollection struct {
	insertOneFn        func(ctx context.Context, doc any) (*mongo.InsertOneResult, error)
	findOneFn          func(ctx context.Context, filter any) *mongo.SingleResult
	findFn             func(ctx context.Context, filter any, opts *options.FindOptions) (*mongo.Cursor, error)
	countFn            func(ctx context.Context, filter any) (int64, error)
	findOneAndUpdateFn func(ctx context.Context, filter, update any) *mongo.SingleResult
	findOneAndDeleteFn func(ctx context.Context, filter any) *mongo.SingleResult
}

func (m *mockCollection) InsertOne(
	ctx context.Context, doc any, _ ...*options.InsertOneOptions,
) (*mongo.InsertOneResult, error) {
	if m.insertOneFn != nil {
		return m.insertOneFn(ctx, doc)
	}
	return &mongo.InsertOneResult{}, nil
}

func (m *mockCollection) FindOne(ctx context.Context, filter any, _ ...*options.FindOneOptions) *mongo.SingleResult {
	if m.findOneFn != nil {
		return m.findOneFn(ctx, filter)
	}
	return noDocuments()
}

func (m *mockCollection) Find(
	ctx context.Context, filter any, opts ...*options.FindOptions,
) (*mongo.Cursor, error) {
	if m.findFn != nil {
		var o *options.FindOptions
		if len(opts) > 0 {
			o = opts[0]
		}
		return m.findFn(ctx, filter, o)
	}
	return cursorOf()
}

func (m *mockCollection) CountDocuments(ctx context.Context, filter any, _ ...*options.CountOptions) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, filter)
	}
	return 0, nil
}

func (m *mockCollection) FindOneAndUpdate(
	ctx context.Context, filter, update any, _ ...*options.FindOneAndUpdateOptions,
) *mongo.SingleResult {
	if m.findOneAndUpdateFn != nil {
		return m.findOneAndUpdateFn(ctx, filter, update)
	}
	return noDocuments()
}

func (m *mockCollection) FindOneAndDelete(
	ctx context.Context, filter any, _ ...*options.FindOneAndDeleteOptions,
) *mongo.SingleResult {
	if m.findOneAndDeleteFn != nil {
		return m.findOneAndDeleteFn(ctx, filter)
	}
	return noDocuments()
}

func newTestRepo(t *testing.T) (*Repo, *mockCollection) {
	t.Helper()
	mc := &mockCollection{}
	return New(mc), mc
}

func noDocuments() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, bson.DefaultRegistry)
}

func singleResult(doc any) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(doc, nil, bson.DefaultRegistry)
}

func cursorOf(docs ...any) (*mongo.Cursor, error) {
	return mongo.NewCursorFromDocuments(docs, nil, bson.DefaultRegistry)
}

const testID = "65f1a2b3c4d5e6f708192a3b"

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testDoc(t *testing.T) propertyDoc {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(testID)
	if err != nil {
		t.Fatal(err)
	}
	return propertyDoc{
		ID:        oid,
		Title:     "Sunny Duplex",
		Slug:      "sunny-duplex",
		Price:     2500000,
		Currency:  "NGN",
		Status:    "sale",
		Type:      "Duplex",
		Location:  locationDoc{State: "Lagos", City: "Lekki", Area: "Phase 1"},
		Bedrooms:  4,
		Bathrooms: 3,
		Features:  []string{"pool"},
		Images:    []string{"https://cdn.example.com/a.jpg"},
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func testProperty() domprop.Property {
	return domprop.Reconstruct(domprop.Snapshot{
		Title:     "Sunny Duplex",
		Slug:      "sunny-duplex",
		Price:     2500000,
		Currency:  "NGN",
		Status:    domprop.StatusSale,
		Type:      domprop.TypeDuplex,
		Location:  domprop.Location{State: "Lagos", City: "Lekki"},
		Bedrooms:  4,
		Bathrooms: 3,
		CreatedBy: testID,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	})
}
