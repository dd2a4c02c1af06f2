// Package models contains the domain entities of the service.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document as stored in the users collection.
//
// PasswordHash, Avatar, Tokens and LikedSongs are excluded from JSON so that
// rendering a User can never leak credentials or session state; external
// responses use Profile instead.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	BirthDate    string             `bson:"birthDate" json:"birthDate"`
	Country      string             `bson:"country" json:"country"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Avatar       []byte             `bson:"avatar,omitempty" json:"-"`
	Tokens       []string           `bson:"tokens" json:"-"`
	LikedSongs   []string           `bson:"likedSongs" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Profile is the public view of an account.
type Profile struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birthDate"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile returns the public view of the user.
func (u *User) Profile() Profile {
	return Profile{
		Email:     u.Email,
		Name:      u.Name,
		BirthDate: u.BirthDate,
		Country:   u.Country,
		CreatedAt: u.CreatedAt,
	}
}

// HasToken reports whether token is an active session of the user.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// HasLikedSong reports whether songID is in the user's liked songs.
func (u *User) HasLikedSong(songID string) bool {
	for _, id := range u.LikedSongs {
		if id == songID {
			return true
		}
	}
	return false
}
