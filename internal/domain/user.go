package domain

import "time"

// Role separates citizen reporters from administrators.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the domain model for registered reporters and administrators.
// A user signs up with an email, a national-ID number, or both; at least one
// is required and each is unique among the users that carry it. Records are
// immutable after signup.
type User struct {
	ID           string
	Email        string
	NationalID   string
	PasswordHash string
	Role         Role
	Language     string
	CreatedAt    time.Time
}
