package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iakindev/spotify-clone-backend/internal/models"
)

// CreateUser inserts a new user document and returns its id.
// Returns ErrEmailTaken when the email is already registered.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return primitive.NilObjectID, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return primitive.NilObjectID, fmt.Errorf("%s: %w", op, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%s: unexpected inserted id type", op)
	}
	return id, nil
}

// GetUserByEmail returns the user owning the given email.
// Returns ErrUserNotFound when no such user exists.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var user models.User
	err := s.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// ListUsers returns every user document ordered by creation time.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	cursor, err := s.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var result []*models.User
	if err = cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// PushToken appends a session token to the user's token list.
func (s *Storage) PushToken(ctx context.Context, email, token string) error {
	const op = "storage.PushToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "tokens", Value: token}}}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// PullToken removes one session token from the user's token list.
// Removing a token that is no longer present is not an error.
func (s *Storage) PullToken(ctx context.Context, email, token string) error {
	const op = "storage.PullToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "tokens", Value: token}}}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ClearTokens removes every session token of the user.
func (s *Storage) ClearTokens(ctx context.Context, email string) error {
	const op = "storage.ClearTokens"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "tokens", Value: []string{}}}}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// AddLikedSong appends songID to the user's liked songs unless it is already
// present. The filter guards the push, so two concurrent likes of the same
// song cannot both succeed. Returns false when the song was already liked.
func (s *Storage) AddLikedSong(ctx context.Context, email, songID string) (bool, error) {
	const op = "storage.AddLikedSong"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.users.UpdateOne(ctx,
		bson.D{
			{Key: "email", Value: email},
			{Key: "likedSongs", Value: bson.D{{Key: "$ne", Value: songID}}},
		},
		bson.D{{Key: "$push", Value: bson.D{{Key: "likedSongs", Value: songID}}}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}
	// matched nothing: either the song is already liked or the user is gone
	if _, err = s.GetUserByEmail(ctx, email); err != nil {
		return false, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return false, nil
}

// RemoveLikedSong pulls songID from the user's liked songs.
// Returns false when the song was not in the list.
func (s *Storage) RemoveLikedSong(ctx context.Context, email, songID string) (bool, error) {
	const op = "storage.RemoveLikedSong"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.users.UpdateOne(ctx,
		bson.D{
			{Key: "email", Value: email},
			{Key: "likedSongs", Value: songID},
		},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "likedSongs", Value: songID}}}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}
	if _, err = s.GetUserByEmail(ctx, email); err != nil {
		return false, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return false, nil
}

// SetAvatar stores the avatar blob on the user document.
func (s *Storage) SetAvatar(ctx context.Context, email string, avatar []byte) error {
	const op = "storage.SetAvatar"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "avatar", Value: avatar}}}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// DeleteUser removes the user matching both name and email and returns the
// number of deleted documents.
func (s *Storage) DeleteUser(ctx context.Context, name, email string) (int64, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.users.DeleteOne(ctx, bson.D{
		{Key: "name", Value: name},
		{Key: "email", Value: email},
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return res.DeletedCount, nil
}
