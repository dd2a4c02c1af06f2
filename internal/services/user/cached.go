package services

import (
	"time"

	"github.com/iakindev/spotify-clone-backend/internal/models"
)

// cachedUser is the cache representation of a user document.
//
// models.User deliberately hides its sensitive fields from JSON, so it cannot
// be round-tripped through the JSON cache without losing the password hash,
// tokens and liked songs. This mirror type carries every field explicitly.
// Redis entries are keyed by email and invalidated after each mutation.
type cachedUser struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	BirthDate    string    `json:"birthDate"`
	Country      string    `json:"country"`
	PasswordHash string    `json:"passwordHash"`
	Avatar       []byte    `json:"avatar,omitempty"`
	Tokens       []string  `json:"tokens"`
	LikedSongs   []string  `json:"likedSongs"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newCachedUser(u *models.User) cachedUser {
	return cachedUser{
		Email:        u.Email,
		Name:         u.Name,
		BirthDate:    u.BirthDate,
		Country:      u.Country,
		PasswordHash: u.PasswordHash,
		Avatar:       u.Avatar,
		Tokens:       u.Tokens,
		LikedSongs:   u.LikedSongs,
		CreatedAt:    u.CreatedAt,
	}
}

func (c cachedUser) toModel() *models.User {
	return &models.User{
		Email:        c.Email,
		Name:         c.Name,
		BirthDate:    c.BirthDate,
		Country:      c.Country,
		PasswordHash: c.PasswordHash,
		Avatar:       c.Avatar,
		Tokens:       c.Tokens,
		LikedSongs:   c.LikedSongs,
		CreatedAt:    c.CreatedAt,
	}
}
