// Package services contains the business logic for user accounts: sign-up,
// credential sign-in, session management, likes and account deletion.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iakindev/spotify-clone-backend/internal/lib/jwt"
	"github.com/iakindev/spotify-clone-backend/internal/lib/password"
	"github.com/iakindev/spotify-clone-backend/internal/lib/sl"
	"github.com/iakindev/spotify-clone-backend/internal/models"
	"github.com/iakindev/spotify-clone-backend/internal/storage"
)

// Domain errors mapped to HTTP statuses at the handler boundary.
var (
	// ErrEmailTaken is returned by Register for an already used email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials covers a wrong password and an unknown email
	// alike, so a caller cannot tell which of the two happened.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for tokens that fail verification or were
	// revoked by sign-out.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrAlreadyLiked is returned when liking a song twice.
	ErrAlreadyLiked = errors.New("already liked")
	// ErrNotLiked is returned when unliking a song that was never liked.
	ErrNotLiked = errors.New("does not exist")
	// ErrIdentityMismatch is returned when account deletion targets a
	// name/email pair other than the authenticated caller's own.
	ErrIdentityMismatch = errors.New("name and email do not match the authenticated user")
)

// UserRepository describes the persistence contract consumed by the service.
type UserRepository interface {
	// CreateUser inserts a new user, failing on a duplicate email.
	CreateUser(ctx context.Context, user models.User) (primitive.ObjectID, error)
	// GetUserByEmail returns a user by email or storage.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUsers returns every user.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// PushToken appends a session token.
	PushToken(ctx context.Context, email, token string) error
	// PullToken removes one session token.
	PullToken(ctx context.Context, email, token string) error
	// ClearTokens removes every session token.
	ClearTokens(ctx context.Context, email string) error
	// AddLikedSong appends a song id, reporting false when already present.
	AddLikedSong(ctx context.Context, email, songID string) (bool, error)
	// RemoveLikedSong pulls a song id, reporting false when absent.
	RemoveLikedSong(ctx context.Context, email, songID string) (bool, error)
	// SetAvatar stores the avatar blob.
	SetAvatar(ctx context.Context, email string, avatar []byte) error
	// DeleteUser removes the user matching name and email.
	DeleteUser(ctx context.Context, name, email string) (int64, error)
}

// Cache describes the methods used to cache resolved user documents.
type Cache interface {
	// Get reads the cached value for key into result, reporting presence.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate drops a key.
	Invalidate(ctx context.Context, key string) error
}

// UserService implements the account business logic over a repository, a
// cache and a session-token maker.
type UserService struct {
	repo     UserRepository
	cache    Cache
	jwtMaker jwt.Maker
	log      *slog.Logger
	userTTL  time.Duration
}

// NewUserService creates a UserService. The cache may be nil, in which case
// every lookup goes straight to the repository.
func NewUserService(repo UserRepository, cache Cache, jwtMaker jwt.Maker, log *slog.Logger, userTTL time.Duration) *UserService {
	return &UserService{
		repo:     repo,
		cache:    cache,
		jwtMaker: jwtMaker,
		log:      log,
		userTTL:  userTTL,
	}
}

// Register creates a new account, hashes the password and issues the first
// session token. Returns ErrEmailTaken for a duplicate email.
func (s *UserService) Register(ctx context.Context, email, name, birthDate, country, rawPassword string) (*models.User, string, error) {
	const op = "services.user.Register"

	email = NormalizeEmail(email)
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Email:        email,
		Name:         name,
		BirthDate:    birthDate,
		Country:      country,
		PasswordHash: hashed,
		Tokens:       []string{},
		LikedSongs:   []string{},
		CreatedAt:    time.Now().UTC(),
	}

	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	token, err := s.issueToken(ctx, &user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return &user, token, nil
}

// Login verifies the credentials and issues a new session token. The previous
// tokens of the user stay valid, every device keeps its own session.
func (s *UserService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.user.Login"

	user, err := s.getUser(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, user.Email)
	return user, token, nil
}

// Authenticate resolves a bearer token to the user it belongs to. The token
// must verify cryptographically and still be present in the user's token
// list, otherwise ErrInvalidToken is returned.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "services.user.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.getUser(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.HasToken(token) {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// Logout removes the presented session token from the user. Removing a token
// that is already gone counts as success.
func (s *UserService) Logout(ctx context.Context, email, token string) error {
	const op = "services.user.Logout"

	if err := s.repo.PullToken(ctx, email, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, email)
	return nil
}

// LogoutAll revokes every session of the user.
func (s *UserService) LogoutAll(ctx context.Context, email string) error {
	const op = "services.user.LogoutAll"

	if err := s.repo.ClearTokens(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, email)
	return nil
}

// ListUsers returns the public profile of every account.
func (s *UserService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	const op = "services.user.ListUsers"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	profiles := make([]models.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// Like adds songID to the user's liked songs.
// Returns ErrAlreadyLiked when the song is already in the set.
func (s *UserService) Like(ctx context.Context, email, songID string) error {
	const op = "services.user.Like"

	added, err := s.repo.AddLikedSong(ctx, email, songID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !added {
		return ErrAlreadyLiked
	}
	s.invalidate(ctx, email)
	return nil
}

// Unlike removes songID from the user's liked songs.
// Returns ErrNotLiked when the song was not in the set.
func (s *UserService) Unlike(ctx context.Context, email, songID string) error {
	const op = "services.user.Unlike"

	removed, err := s.repo.RemoveLikedSong(ctx, email, songID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !removed {
		return ErrNotLiked
	}
	s.invalidate(ctx, email)
	return nil
}

// UploadAvatar stores the avatar blob on the user.
func (s *UserService) UploadAvatar(ctx context.Context, email string, avatar []byte) error {
	const op = "services.user.UploadAvatar"

	if err := s.repo.SetAvatar(ctx, email, avatar); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, email)
	return nil
}

// DeleteAccount removes the caller's account after re-verifying the password.
//
// The password is checked against the authenticated principal and the
// supplied name and email must match the principal's own identity, deleting
// somebody else's record by guessing their name and email is not possible.
// Deletion of an already removed record still counts as success.
func (s *UserService) DeleteAccount(ctx context.Context, principal *models.User, name, email, rawPassword string) error {
	const op = "services.user.DeleteAccount"

	if err := password.CompareHash(principal.PasswordHash, rawPassword); err != nil {
		return ErrInvalidCredentials
	}
	email = NormalizeEmail(email)
	if email != principal.Email || name != principal.Name {
		return ErrIdentityMismatch
	}

	if _, err := s.repo.DeleteUser(ctx, name, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, email)
	return nil
}

// NormalizeEmail brings an email to its canonical stored form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) issueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.jwtMaker.GenerateToken(user.Email)
	if err != nil {
		return "", err
	}
	if err = s.repo.PushToken(ctx, user.Email, token); err != nil {
		return "", err
	}
	user.Tokens = append(user.Tokens, token)
	return token, nil
}

func (s *UserService) getUser(ctx context.Context, email string) (*models.User, error) {
	key := userCacheKey(email)
	if s.cache != nil {
		var cached cachedUser
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("user cache read failed", sl.Err(err))
		} else if found {
			return cached.toModel(), nil
		}
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err = s.cache.Set(ctx, key, newCachedUser(user), s.userTTL); err != nil {
			s.log.Warn("user cache write failed", sl.Err(err))
		}
	}
	return user, nil
}

func (s *UserService) invalidate(ctx context.Context, email string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userCacheKey(email)); err != nil {
		s.log.Warn("user cache invalidation failed", sl.Err(err))
	}
}

func userCacheKey(email string) string {
	return "user:" + email
}
