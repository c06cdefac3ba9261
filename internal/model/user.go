package model

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// UserProfile is a dashboard account. Only RoleAdmin may use the dashboard.
// PasswordHash is never serialized to JSON.
type UserProfile struct {
	UID          string    `json:"uid" bson:"_id" firestore:"-"`
	Email        string    `json:"email" bson:"email" firestore:"email" validate:"required,email"`
	Role         string    `json:"role" bson:"role" firestore:"role" validate:"required,oneof=admin student"`
	DisplayName  string    `json:"display_name,omitempty" bson:"display_name,omitempty" firestore:"display_name,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash" firestore:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" firestore:"created_at"`
}

// IsAdmin reports whether the profile may use the dashboard.
func (u *UserProfile) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
