package limiter

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is a MongoDB-backed limiter with a sliding window and lockout. One
// document per (username, ip_hash) pair, kept in the auth_limiter collection.
type Mongo struct {
	col      collection
	window   time.Duration
	maxFails int
	blockFor time.Duration
}

// collection is the slice of *mongo.Collection the limiter needs; tests
// substitute a fake.
type collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type limitDoc struct {
	Username     string    `bson:"username"`
	IPHash       []byte    `bson:"ip_hash"`
	FailCount    int       `bson:"fail_count"`
	BlockedUntil time.Time `bson:"blocked_until"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// NewMongo constructs a MongoDB-backed limiter.
func NewMongo(col *mongo.Collection, window time.Duration, maxFails int, blockFor time.Duration) *Mongo {
	return &Mongo{col: col, window: window, maxFails: maxFails, blockFor: blockFor}
}

// NewMongoWithCollection constructs a limiter over any collection implementation.
func NewMongoWithCollection(col collection, window time.Duration, maxFails int, blockFor time.Duration) *Mongo {
	return &Mongo{col: col, window: window, maxFails: maxFails, blockFor: blockFor}
}

func key(username string, ipHash []byte) bson.M {
	return bson.M{"username": username, "ip_hash": ipHash}
}

// Allow reports whether login is currently allowed and a retry-after duration.
func (l *Mongo) Allow(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	var doc limitDoc
	err := l.col.FindOne(ctx, key(username, ipHash)).Decode(&doc)
	switch {
	case err == nil:
		if doc.BlockedUntil.After(time.Now()) {
			return false, time.Until(doc.BlockedUntil), nil
		}
		return true, 0, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return true, 0, nil
	default:
		return false, 0, err
	}
}

// Success resets counters for (username, ip).
func (l *Mongo) Success(ctx context.Context, username string, ipHash []byte) error {
	update := bson.M{"$set": bson.M{
		"fail_count":    0,
		"blocked_until": time.Time{},
		"updated_at":    time.Now(),
	}}
	_, err := l.col.UpdateOne(ctx, key(username, ipHash), update, options.Update().SetUpsert(true))
	return err
}

// Failure records a failed attempt; may set a block until a future time.
// Read-modify-write: a lost update can undercount concurrent failures for the
// same pair, which only delays the lockout by one attempt.
func (l *Mongo) Failure(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	now := time.Now()

	var doc limitDoc
	err := l.col.FindOne(ctx, key(username, ipHash)).Decode(&doc)
	fails := 1
	switch {
	case err == nil:
		if now.Sub(doc.UpdatedAt) <= l.window {
			fails = doc.FailCount + 1
		}
	case errors.Is(err, mongo.ErrNoDocuments):
		// first failure for this pair
	default:
		return false, 0, err
	}

	set := bson.M{"fail_count": fails, "updated_at": now}
	blocked := fails >= l.maxFails
	if blocked {
		set["blocked_until"] = now.Add(l.blockFor)
	}
	update := bson.M{"$set": set}
	if _, err := l.col.UpdateOne(ctx, key(username, ipHash), update, options.Update().SetUpsert(true)); err != nil {
		return false, 0, err
	}
	if blocked {
		return true, l.blockFor, nil
	}
	return false, 0, nil
}
