package property

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/betahouse/listings/internal/db"
	"github.com/betahouse/listings/internal/domain"
	domprop "github.com/betahouse/listings/internal/domain/property"
	"github.com/betahouse/listings/internal/domain/property/patch"
	"github.com/betahouse/listings/internal/domain/search/filter"
	"github.com/betahouse/listings/internal/domain/search/sortkey"
)

func strPtr(s string) *string { return &s }

// --- Create ---

func TestCreate_AssignsID(t *testing.T) {
	repo, mc := newTestRepo(t)

	var inserted propertyDoc
	mc.insertOneFn = func(_ context.Context, doc any) (*mongo.InsertOneResult, error) {
		d, ok := doc.(propertyDoc)
		if !ok {
			t.Fatalf("unexpected document type %T", doc)
		}
		inserted = d
		return &mongo.InsertOneResult{InsertedID: d.ID}, nil
	}

	got, err := repo.Create(context.Background(), testProperty())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted.ID.IsZero() {
		t.Fatal("expected generated ObjectID")
	}
	if got.ID() != inserted.ID.Hex() {
		t.Errorf("ID = %q, want %q", got.ID(), inserted.ID.Hex())
	}
	if inserted.CreatedBy == nil || inserted.CreatedBy.Hex() != testID {
		t.Errorf("createdBy = %v, want %s", inserted.CreatedBy, testID)
	}
	if inserted.Features == nil || inserted.Images == nil {
		t.Error("features and images must be stored as arrays")
	}
}

func TestCreate_DuplicateKeyIsStoreError(t *testing.T) {
	repo, mc := newTestRepo(t)
	mc.insertOneFn = func(_ context.Context, _ any) (*mongo.InsertOneResult, error) {
		return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "dup"}}}
	}

	_, err := repo.Create(context.Background(), testProperty())
	if errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatal("listing insert must not report an account conflict")
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpInsertOne {
		t.Fatalf("expected db.Error{Op: insertOne}, got %v", err)
	}
}

func TestCreate_StoreError(t *testing.T) {
	repo, mc := newTestRepo(t)
	mc.insertOneFn = func(_ context.Context, _ any) (*mongo.InsertOneResult, error) {
		return nil, errors.New("connection reset")
	}

	_, err := repo.Create(context.Background(), testProperty())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpInsertOne {
		t.Fatalf("expected db.Error{Op: insertOne}, got %v", err)
	}
}

// --- Get ---

func TestGet_Found(t *testing.T) {
	repo, mc := newTestRepo(t)
	mc.findOneFn = func(_ context.Context, _ any) *mongo.SingleResult {
		return singleResult(testDoc(t))
	}

	got, err := repo.Get(context.Background(), testID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != testID {
		t.Errorf("ID = %q, want %q", got.ID(), testID)
	}
	if got.Title() != "Sunny Duplex" || got.Location().City != "Lekki" {
		t.Errorf("unexpected property: %+v", got.Snapshot())
	}
	if len(got.Features()) != 1 || got.Features()[0] != "pool" {
		t.Errorf("features = %v", got.Features())
	}
	if !got.CreatedAt().Equal(testTime) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt(), testTime)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), testID)
	if !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestGet_InvalidID(t *testing.T) {
	repo, mc := newTestRepo(t)
	mc.findOneFn = func(_ context.Context, _ any) *mongo.SingleResult {
		t.Fatal("store must not be queried for a malformed id")
		return nil
	}

	_, err := repo.Get(context.Background(), "not-an-id")
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

// --- Update ---

func TestUpdate_SetsFields(t *testing.T) {
	repo, mc := newTestRepo(t)
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	p, err := patch.New(domprop.Input{Title: strPtr("New Title"), Price: strPtr("100")}, "")
	if err != nil {
		t.Fatal(err)
	}

	mc.findOneAndUpdateFn = func(_ context.Context, _, update any) *mongo.SingleResult {
		u, ok := update.(bson.D)
		if !ok || len(u) != 1 || u[0].Key != "$set" {
			t.Fatalf("unexpected update: %v", update)
		}
		set := u[0].Value.(bson.D).Map()
		if set["title"] != "New Title" || set["slug"] != "new-title" {
			t.Errorf("title/slug not set: %v", set)
		}
		if set["price"] != 100.0 {
			t.Errorf("price = %v", set["price"])
		}
		if set["updatedAt"] != now {
			t.Errorf("updatedAt = %v", set["updatedAt"])
		}
		if _, ok := set["description"]; ok {
			t.Error("absent fields must not be set")
		}
		d := testDoc(t)
		d.Title = "New Title"
		return singleResult(d)
	}

	got, err := repo.Update(context.Background(), testID, p, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title() != "New Title" {
		t.Errorf("title = %q", got.Title())
	}
}

func TestBuildSet(t *testing.T) {
	const placeholder = "https://placehold.co/600x400"
	mustPatch := func(in domprop.Input) patch.Patch {
		t.Helper()
		p, err := patch.New(in, placeholder)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return p
	}

	t.Run("empty patch sets nothing", func(t *testing.T) {
		if set := buildSet(mustPatch(domprop.Input{})); len(set) != 0 {
			t.Errorf("set = %v", set)
		}
	})

	t.Run("price only leaves slug alone", func(t *testing.T) {
		set := buildSet(mustPatch(domprop.Input{Price: strPtr("500")})).Map()
		if _, ok := set["slug"]; ok {
			t.Error("slug set without title")
		}
		if set["price"] != 500.0 || len(set) != 1 {
			t.Errorf("set = %v", set)
		}
	})

	t.Run("title rederives slug", func(t *testing.T) {
		set := buildSet(mustPatch(domprop.Input{Title: strPtr("New Shiny Title")})).Map()
		if set["title"] != "New Shiny Title" || set["slug"] != "new-shiny-title" {
			t.Errorf("set = %v", set)
		}
	})

	t.Run("empty images resolve to placeholder", func(t *testing.T) {
		set := buildSet(mustPatch(domprop.Input{Images: []string{}})).Map()
		imgs, ok := set["images"].([]string)
		if !ok || len(imgs) != 1 || imgs[0] != placeholder {
			t.Errorf("images = %v", set["images"])
		}
	})

	t.Run("uploaded images replace the list", func(t *testing.T) {
		p := mustPatch(domprop.Input{}).WithImages([]string{"x.png", "y.png"}, placeholder)
		imgs, ok := buildSet(p).Map()["images"].([]string)
		if !ok || len(imgs) != 2 || imgs[0] != "x.png" {
			t.Errorf("images = %v", imgs)
		}
	})

	t.Run("identity fields never set", func(t *testing.T) {
		set := buildSet(mustPatch(domprop.Input{
			Title: strPtr("Full Patch"), Price: strPtr("1"), Status: strPtr("rent"),
			Type: strPtr("Studio"), Bedrooms: strPtr("0"), Featured: strPtr("true"),
		})).Map()
		for _, key := range []string{"_id", "createdBy", "createdAt", "updatedAt"} {
			if _, ok := set[key]; ok {
				t.Errorf("%s must not be patchable", key)
			}
		}
		if set["bedrooms"] != 0 || set["featured"] != true || set["status"] != "rent" {
			t.Errorf("set = %v", set)
		}
	})
}

func TestUpdate_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Update(context.Background(), testID, patch.Patch{}, time.Now())
	if !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

// --- Delete ---

func TestDelete(t *testing.T) {
	repo, mc := newTestRepo(t)
	mc.findOneAndDeleteFn = func(_ context.Context, _ any) *mongo.SingleResult {
		return singleResult(testDoc(t))
	}

	if err := repo.Delete(context.Background(), testID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	if err := repo.Delete(context.Background(), testID); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

// --- Count / Find ---

func TestCount(t *testing.T) {
	repo, mc := newTestRepo(t)
	mc.countFn = func(_ context.Context, f any) (int64, error) {
		q, ok := f.(bson.D)
		if !ok || len(q) != 1 || q[0].Key != "status" {
			t.Errorf("unexpected filter: %v", f)
		}
		return 42, nil
	}

	n, err := repo.Count(context.Background(), filter.NewPredicate("", filter.Equals("status", "sale")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Errorf("n = %d, want 42", n)
	}
}

func TestCount_Error(t *testing.T) {
	repo, mc := newTestRepo(t)
	mc.countFn = func(_ context.Context, _ any) (int64, error) {
		return 0, errors.New("timeout")
	}

	_, err := repo.Count(context.Background(), filter.NewPredicate(""))
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpCountDocuments {
		t.Fatalf("expected db.Error{Op: countDocuments}, got %v", err)
	}
}

func TestFind_PassesWindowAndSort(t *testing.T) {
	repo, mc := newTestRepo(t)
	mc.findFn = func(_ context.Context, f any, o *options.FindOptions) (*mongo.Cursor, error) {
		if q, ok := f.(bson.D); !ok || len(q) != 0 {
			t.Errorf("expected empty filter, got %v", f)
		}
		if o == nil || o.Skip == nil || *o.Skip != 18 || o.Limit == nil || *o.Limit != 9 {
			t.Fatalf("unexpected window: %+v", o)
		}
		sort, ok := o.Sort.(bson.D)
		if !ok || len(sort) != 1 || sort[0].Key != "price" || sort[0].Value != 1 {
			t.Errorf("unexpected sort: %v", o.Sort)
		}
		return cursorOf(testDoc(t), testDoc(t))
	}

	got, err := repo.Find(context.Background(), filter.NewPredicate(""), sortkey.PriceAsc, 18, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID() != testID {
		t.Errorf("ID = %q", got[0].ID())
	}
}

func TestFind_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)

	got, err := repo.Find(context.Background(), filter.NewPredicate(""), sortkey.Newest, 0, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestFind_Error(t *testing.T) {
	repo, mc := newTestRepo(t)
	mc.findFn = func(_ context.Context, _ any, _ *options.FindOptions) (*mongo.Cursor, error) {
		return nil, errors.New("bad $text")
	}

	_, err := repo.Find(context.Background(), filter.NewPredicate("x"), sortkey.Newest, 0, 9)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpFind {
		t.Fatalf("expected db.Error{Op: find}, got %v", err)
	}
}

// --- EnsureIndexes ---

type mockIndexes struct {
	models []mongo.IndexModel
	err    error
}

func (m *mockIndexes) CreateMany(
	_ context.Context, models []mongo.IndexModel, _ ...*options.CreateIndexesOptions,
) ([]string, error) {
	m.models = models
	if m.err != nil {
		return nil, m.err
	}
	names := make([]string, len(models))
	for i := range models {
		names[i] = "idx"
	}
	return names, nil
}

func TestEnsureIndexes(t *testing.T) {
	mi := &mockIndexes{}
	names, err := EnsureIndexes(context.Background(), mi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != len(mi.models) {
		t.Errorf("names = %d, models = %d", len(names), len(mi.models))
	}

	text, ok := mi.models[0].Keys.(bson.D)
	if !ok {
		t.Fatalf("unexpected keys type %T", mi.models[0].Keys)
	}
	for _, e := range text {
		if e.Value != "text" {
			t.Errorf("field %s in text index has value %v", e.Key, e.Value)
		}
	}
}

func TestEnsureIndexes_Error(t *testing.T) {
	_, err := EnsureIndexes(context.Background(), &mockIndexes{err: errors.New("denied")})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpCreateIndexes {
		t.Fatalf("expected db.Error{Op: createIndexes}, got %v", err)
	}
}
