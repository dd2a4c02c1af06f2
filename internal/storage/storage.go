// Package storage implements persistence of user accounts in MongoDB.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iakindev/spotify-clone-backend/internal/config"
)

// Sentinel errors returned by the repository.
var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when an insert violates the unique email index.
	ErrEmailTaken = errors.New("email already taken")
)

// Storage holds the Mongo connection and the users collection.
type Storage struct {
	Client *mongo.Client
	users  *mongo.Collection
}

// New connects to MongoDB, verifies the connection with a ping and makes sure
// the unique index on email exists. The unique index is what enforces the
// one-account-per-email invariant under concurrent sign-ups.
func New(ctx context.Context, cfg config.MongoConnection) (*Storage, error) {
	const op = "storage.New"

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users := client.Database(cfg.Database).Collection("users")
	_, err = users.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{Client: client, users: users}, nil
}

// Close disconnects the underlying Mongo client.
func (s *Storage) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
