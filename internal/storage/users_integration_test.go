package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/iakindev/spotify-clone-backend/internal/config"
	"github.com/iakindev/spotify-clone-backend/internal/models"
)

func setupTestDb(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed storage test in short mode")
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start container")

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get connection string")

	storage, err := New(ctx, config.MongoConnection{
		URI:            uri,
		Database:       "testdb",
		ConnectTimeout: 30 * time.Second,
	})
	require.NoError(t, err, "failed to create storage")

	cleanup := func() {
		_ = storage.Close(ctx)
		_ = mongoContainer.Terminate(ctx)
	}

	return storage, cleanup
}

func seedUser(t *testing.T, s *Storage, user models.User) {
	_, err := s.users.InsertOne(context.Background(), user)
	require.NoError(t, err)
}

func testUser() models.User {
	return models.User{
		Email:        "test@example.com",
		Name:         "testuser",
		BirthDate:    "1990-01-01",
		Country:      "TR",
		PasswordHash: "hashedpassword",
		Tokens:       []string{},
		LikedSongs:   []string{},
		CreatedAt:    time.Now().UTC(),
	}
}

func TestStorage_CreateUser(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	id, err := storage.CreateUser(ctx, testUser())
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	t.Run("duplicate email", func(t *testing.T) {
		dup := testUser()
		dup.Name = "otheruser"
		_, err := storage.CreateUser(ctx, dup)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmailTaken))
	})
}

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	seedUser(t, storage, testUser())

	got, err := storage.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, "testuser", got.Name)
	assert.Equal(t, "hashedpassword", got.PasswordHash)

	_, err = storage.GetUserByEmail(ctx, "nobody@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestStorage_Tokens(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	seedUser(t, storage, testUser())

	require.NoError(t, storage.PushToken(ctx, "test@example.com", "token-a"))
	require.NoError(t, storage.PushToken(ctx, "test@example.com", "token-b"))

	got, err := storage.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"token-a", "token-b"}, got.Tokens)

	require.NoError(t, storage.PullToken(ctx, "test@example.com", "token-a"))
	// pulling the same token again must stay a success
	require.NoError(t, storage.PullToken(ctx, "test@example.com", "token-a"))

	got, err = storage.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"token-b"}, got.Tokens)

	require.NoError(t, storage.ClearTokens(ctx, "test@example.com"))

	got, err = storage.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Empty(t, got.Tokens)

	err = storage.PushToken(ctx, "nobody@example.com", "token-c")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestStorage_LikedSongs(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	seedUser(t, storage, testUser())

	added, err := storage.AddLikedSong(ctx, "test@example.com", "song1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = storage.AddLikedSong(ctx, "test@example.com", "song1")
	require.NoError(t, err)
	assert.False(t, added, "second like of the same song must not modify anything")

	got, err := storage.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"song1"}, got.LikedSongs)

	removed, err := storage.RemoveLikedSong(ctx, "test@example.com", "song1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = storage.RemoveLikedSong(ctx, "test@example.com", "song1")
	require.NoError(t, err)
	assert.False(t, removed, "removing a song that is not liked must report false")

	_, err = storage.AddLikedSong(ctx, "nobody@example.com", "song1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestStorage_SetAvatar(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	seedUser(t, storage, testUser())

	avatar := []byte{0x89, 0x50, 0x4e, 0x47}
	require.NoError(t, storage.SetAvatar(ctx, "test@example.com", avatar))

	got, err := storage.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, avatar, got.Avatar)

	err = storage.SetAvatar(ctx, "nobody@example.com", avatar)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestStorage_DeleteUser(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	seedUser(t, storage, testUser())

	t.Run("name must match too", func(t *testing.T) {
		count, err := storage.DeleteUser(ctx, "otheruser", "test@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	count, err := storage.DeleteUser(ctx, "testuser", "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	n, err := storage.users.CountDocuments(ctx, bson.D{{Key: "email", Value: "test@example.com"}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	seedUser(t, storage, testUser())

	second := testUser()
	second.Email = "second@example.com"
	second.Name = "seconduser"
	seedUser(t, storage, second)

	got, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	emails := []string{got[0].Email, got[1].Email}
	assert.Contains(t, emails, "test@example.com")
	assert.Contains(t, emails, "second@example.com")
}
