// Package userstore persists user accounts and their lock-access records.
// Two implementations exist: an in-process store used in tests and when no
// database is configured, and a Postgres-backed store for production.
package userstore

import (
	"context"

	"github.com/smartlatch/smartlatch/internal/model"
)

// UpdateParams is a partial update; nil fields are left untouched.
type UpdateParams struct {
	Name         *string
	PasswordHash *string
	ProfileImage *string
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, email string, params UpdateParams) (*model.User, error)
	Delete(ctx context.Context, email string) error

	// RenameEmail changes the account key and every access record
	// referencing it as a single all-or-nothing unit.
	RenameEmail(ctx context.Context, oldEmail, newEmail string) error

	AddAccess(ctx context.Context, email, code string, role model.Role) error
	ListAccess(ctx context.Context, email string) ([]model.Access, error)
	RemoveAccess(ctx context.Context, email, code string) error
	RemoveAccessByCode(ctx context.Context, code string) error
	UpdateRole(ctx context.Context, email, code string, role model.Role) error
	ListByCode(ctx context.Context, code string) ([]model.UserWithRole, error)

	// HasAdminAccess reports whether the email holds the admin role on
	// any lock. Used by the delete-account permission check.
	HasAdminAccess(ctx context.Context, email string) (bool, error)

	Close() error
}
