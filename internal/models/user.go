package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User is a stored account. Tags are the user's interests and drive the dashboard feed.
type User struct {
	ID             string    `json:"id" bson:"-"`
	Username       string    `json:"username" bson:"username"`
	Email          string    `json:"email" bson:"email"`
	HashedPassword string    `json:"-" bson:"hashed_password"`
	Role           string    `json:"role" bson:"role"`
	Tags           []string  `json:"tags" bson:"tags"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ProfileUpdate carries the optional fields of a profile PATCH.
// A nil field is left untouched. Password is plaintext and never persisted as such.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Password *string
	Tags     []string
	SetTags  bool
}

// UserFields is the storage-level partial update, after password hashing.
type UserFields struct {
	Username       *string
	Email          *string
	HashedPassword *string
	Tags           []string
	SetTags        bool
}

// Empty reports whether no field is set.
func (f UserFields) Empty() bool {
	return f.Username == nil && f.Email == nil && f.HashedPassword == nil && !f.SetTags
}
