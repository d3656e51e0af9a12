// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Genre describes a movie genre embedded in a Movie document.
type Genre struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
}

// Director describes a movie director embedded in a Movie document.
type Director struct {
	Name  string `bson:"name" json:"name"`
	Bio   string `bson:"bio" json:"bio"`
	Birth string `bson:"birth,omitempty" json:"birth,omitempty"`
	Death string `bson:"death,omitempty" json:"death,omitempty"`
}

// Movie is a catalog entry stored in the movies collection.
type Movie struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Genre       Genre              `bson:"genre" json:"genre"`
	Director    Director           `bson:"director" json:"director"`
	ImagePath   string             `bson:"image_path,omitempty" json:"imagePath,omitempty"`
	Featured    bool               `bson:"featured" json:"featured"`
}

// User is an account stored in the users collection. The password is kept
// only as a bcrypt hash; the plaintext is never persisted.
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username       string               `bson:"username" json:"username"` // unique
	PasswordHash   string               `bson:"password_hash" json:"-"`
	Email          string               `bson:"email" json:"email"`
	Birthday       *time.Time           `bson:"birthday,omitempty" json:"birthday,omitempty"`
	FavoriteMovies []primitive.ObjectID `bson:"favorite_movies" json:"favoriteMovies"`
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
}

// NewUser carries registration input. Password is the transient plaintext;
// it exists only for the duration of the request.
type NewUser struct {
	Username string
	Password string
	Email    string
	Birthday *time.Time
}

// UserUpdate lists the mutable account fields. Nil means "leave unchanged".
// Password, when set, is hashed by the service before it reaches storage.
type UserUpdate struct {
	Username *string
	Password *string
	Email    *string
	Birthday *time.Time
}
