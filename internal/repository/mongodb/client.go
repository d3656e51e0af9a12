// Package mongodb implements the repositories on MongoDB collections.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB bundles the client, the collections and the per-operation timeout shared
// by the repositories.
type DB struct {
	Client  *mongo.Client
	Users   *mongo.Collection
	Movies  *mongo.Collection
	Limits  *mongo.Collection
	timeout time.Duration
}

// Connect dials MongoDB, pings the primary and returns collection handles.
// timeout bounds every subsequent store operation.
func Connect(ctx context.Context, uri, dbName string, timeout time.Duration) (*DB, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	return &DB{
		Client:  client,
		Users:   db.Collection("users"),
		Movies:  db.Collection("movies"),
		Limits:  db.Collection("auth_limiter"),
		timeout: timeout,
	}, nil
}

// Close disconnects the underlying client.
func (d *DB) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on: the unique
// username index backs the uniqueness invariant, the rest serve lookups.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	_, err := d.Users.Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	_, err = d.Movies.Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("movies index: %w", err)
	}

	_, err = d.Limits.Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}, {Key: "ip_hash", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("limiter index: %w", err)
	}
	return nil
}

// opCtx derives a bounded context for a single store operation so a slow
// server never leaves a request hanging.
func (d *DB) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}
