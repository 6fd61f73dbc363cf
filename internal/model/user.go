package model

import "regexp"

// Role is the explicit membership role attached to each access record.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleGuest
}

type User struct {
	Email        string  `db:"email" json:"email"`
	Name         string  `db:"name" json:"name"`
	PasswordHash string  `db:"password_hash" json:"-"`
	ProfileImage *string `db:"profile_image" json:"profileImage"`
}

// Access grants a user a role on a lock, keyed by (email, code).
type Access struct {
	UserEmail string `db:"user_email" json:"email"`
	LockCode  string `db:"lock_code" json:"code"`
	Role      Role   `db:"role" json:"role"`
}

// UserWithRole is the joined shape returned when listing a lock's users.
type UserWithRole struct {
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	ProfileImage *string `db:"profile_image" json:"profileImage"`
	Role         Role    `db:"role" json:"role"`
	IsAdmin      bool    `db:"-" json:"isAdmin"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
