package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/************ fake collection ************/

type fakeCol struct {
	doc     *limitDoc
	findErr error

	updateCalls int
	lastSet     map[string]any
	updateErr   error
}

func (f *fakeCol) FindOne(_ context.Context, _ interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	if f.findErr != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.findErr, nil)
	}
	if f.doc == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(*f.doc, nil, nil)
}

func (f *fakeCol) UpdateOne(_ context.Context, _, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.updateCalls++
	if m, ok := update.(bson.M); ok {
		if set, ok := m["$set"].(bson.M); ok {
			f.lastSet = set
		}
	}
	return &mongo.UpdateResult{}, f.updateErr
}

func newTestLimiter(col collection) *Mongo {
	return NewMongoWithCollection(col, 15*time.Minute, 3, 10*time.Minute)
}

func TestMongoLimiter_AllowNoRecord(t *testing.T) {
	t.Parallel()

	lim := newTestLimiter(&fakeCol{})
	ok, retry, err := lim.Allow(context.Background(), "alice", HashIP("1.2.3.4"))
	if err != nil || !ok || retry != 0 {
		t.Fatalf("Allow: ok=%v retry=%v err=%v, want allowed", ok, retry, err)
	}
}

func TestMongoLimiter_AllowBlocked(t *testing.T) {
	t.Parallel()

	col := &fakeCol{doc: &limitDoc{
		Username:     "alice",
		FailCount:    3,
		BlockedUntil: time.Now().Add(5 * time.Minute),
		UpdatedAt:    time.Now(),
	}}
	lim := newTestLimiter(col)

	ok, retry, err := lim.Allow(context.Background(), "alice", HashIP("1.2.3.4"))
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Fatalf("Allow: want blocked")
	}
	if retry <= 0 || retry > 5*time.Minute {
		t.Fatalf("retry-after=%v out of range", retry)
	}
}

func TestMongoLimiter_AllowExpiredBlock(t *testing.T) {
	t.Parallel()

	col := &fakeCol{doc: &limitDoc{
		Username:     "alice",
		FailCount:    3,
		BlockedUntil: time.Now().Add(-time.Minute),
		UpdatedAt:    time.Now().Add(-time.Hour),
	}}
	lim := newTestLimiter(col)

	ok, _, err := lim.Allow(context.Background(), "alice", HashIP("1.2.3.4"))
	if err != nil || !ok {
		t.Fatalf("Allow: ok=%v err=%v, want allowed after block expiry", ok, err)
	}
}

func TestMongoLimiter_FailureCountsAndBlocks(t *testing.T) {
	t.Parallel()

	// second recent failure: not yet at the threshold
	col := &fakeCol{doc: &limitDoc{FailCount: 1, UpdatedAt: time.Now()}}
	lim := newTestLimiter(col)
	blocked, _, err := lim.Failure(context.Background(), "alice", HashIP("1.2.3.4"))
	if err != nil || blocked {
		t.Fatalf("Failure(2nd): blocked=%v err=%v, want not blocked", blocked, err)
	}
	if col.updateCalls != 1 {
		t.Fatalf("counter not persisted")
	}

	// third failure hits the threshold
	col = &fakeCol{doc: &limitDoc{FailCount: 2, UpdatedAt: time.Now()}}
	lim = newTestLimiter(col)
	blocked, retry, err := lim.Failure(context.Background(), "alice", HashIP("1.2.3.4"))
	if err != nil || !blocked {
		t.Fatalf("Failure(3rd): blocked=%v err=%v, want blocked", blocked, err)
	}
	if retry != 10*time.Minute {
		t.Fatalf("retry=%v, want blockFor", retry)
	}
	if _, ok := col.lastSet["blocked_until"]; !ok {
		t.Fatalf("block not persisted: %v", col.lastSet)
	}
}

func TestMongoLimiter_FailureOutsideWindowResets(t *testing.T) {
	t.Parallel()

	col := &fakeCol{doc: &limitDoc{FailCount: 2, UpdatedAt: time.Now().Add(-time.Hour)}}
	lim := newTestLimiter(col)

	blocked, _, err := lim.Failure(context.Background(), "alice", HashIP("1.2.3.4"))
	if err != nil || blocked {
		t.Fatalf("stale counter must reset, got blocked=%v err=%v", blocked, err)
	}
}

func TestMongoLimiter_StoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	lim := newTestLimiter(&fakeCol{findErr: boom})
	if _, _, err := lim.Allow(context.Background(), "alice", HashIP("1.2.3.4")); !errors.Is(err, boom) {
		t.Fatalf("Allow: want store error, got %v", err)
	}
	if _, _, err := lim.Failure(context.Background(), "alice", HashIP("1.2.3.4")); !errors.Is(err, boom) {
		t.Fatalf("Failure: want store error, got %v", err)
	}

	lim = newTestLimiter(&fakeCol{updateErr: boom})
	if err := lim.Success(context.Background(), "alice", HashIP("1.2.3.4")); !errors.Is(err, boom) {
		t.Fatalf("Success: want store error, got %v", err)
	}
}

func TestHashIP_StableAndDistinct(t *testing.T) {
	t.Parallel()

	a1 := HashIP("10.0.0.1")
	a2 := HashIP("10.0.0.1")
	b := HashIP("10.0.0.2")

	if string(a1) != string(a2) {
		t.Fatalf("HashIP not stable")
	}
	if string(a1) == string(b) {
		t.Fatalf("HashIP collides for distinct IPs")
	}
	if len(a1) != 32 {
		t.Fatalf("len=%d, want 32 (sha256)", len(a1))
	}
}
