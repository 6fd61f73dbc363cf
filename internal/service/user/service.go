// Package user implements account management on top of the user store:
// signup, login, profile edits with email-rename propagation, deletion
// with access revocation, and the membership-access bookkeeping the other
// services push into it.
package user

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartlatch/smartlatch/internal/model"
	"github.com/smartlatch/smartlatch/internal/userstore"
)

const bcryptCost = 10

// Notifier is the outbound port towards the lock and log services.
type Notifier interface {
	UpdateLockEmail(ctx context.Context, email, newEmail string) error
	RemoveUserAccess(ctx context.Context, email, code string) error
	AppendLog(ctx context.Context, code string, entry model.LogEntry) error
}

type Service struct {
	repo     userstore.Repository
	notifier Notifier
}

func New(repo userstore.Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) Create(ctx context.Context, name, email, password string) error {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrorEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	return s.repo.Create(ctx, &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
}

// Login verifies credentials. A missing account and a wrong password are
// the same boolean outcome to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrorUserNotFound) {
			return nil, model.ErrorInvalidUsernameOrPassword
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, model.ErrorInvalidUsernameOrPassword
	}
	return user, nil
}

// UpdateRequest carries the optional profile edits. ProfileImage is the
// already-stored filename, not the upload itself.
type UpdateRequest struct {
	Name         string
	Password     string
	NewEmail     string
	ProfileImage string
}

// Update applies the partial edit and, when the email changes, renames
// the account as one unit and propagates the rename to the lock registry.
func (s *Service) Update(ctx context.Context, email string, req UpdateRequest) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	params := userstore.UpdateParams{}
	if req.Name != "" {
		params.Name = &req.Name
	}
	if req.ProfileImage != "" {
		params.ProfileImage = &req.ProfileImage
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		params.PasswordHash = &hashed
	}
	if params.Name != nil || params.ProfileImage != nil || params.PasswordHash != nil {
		if user, err = s.repo.Update(ctx, email, params); err != nil {
			return nil, err
		}
	}

	if req.NewEmail != "" && req.NewEmail != email {
		exists, err := s.repo.EmailExists(ctx, req.NewEmail)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrorEmailTaken
		}
		if err := s.repo.RenameEmail(ctx, email, req.NewEmail); err != nil {
			return nil, err
		}
		if err := s.notifier.UpdateLockEmail(ctx, email, req.NewEmail); err != nil {
			log.Warnf("propagating email change to lock service: %v", err)
		}
		user.Email = req.NewEmail
	}

	return user, nil
}

// Delete removes the account. Allowed for the account owner and for any
// admin. Lock-side access is revoked per held code, best-effort.
func (s *Service) Delete(ctx context.Context, email, requester string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		return err
	}
	if _, err := s.repo.FindByEmail(ctx, requester); err != nil {
		if errors.Is(err, model.ErrorUserNotFound) {
			return model.ErrorForbidden
		}
		return err
	}

	if requester != email {
		isAdmin, err := s.repo.HasAdminAccess(ctx, requester)
		if err != nil {
			return err
		}
		if !isAdmin {
			return model.ErrorForbidden
		}
	}

	access, err := s.repo.ListAccess(ctx, email)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, email); err != nil {
		return err
	}
	for _, a := range access {
		if err := s.notifier.RemoveUserAccess(ctx, email, a.LockCode); err != nil {
			log.Warnf("revoking lock access for %s on %s: %v", email, a.LockCode, err)
		}
	}
	return nil
}

func (s *Service) UsersByCode(ctx context.Context, code string) ([]model.UserWithRole, error) {
	return s.repo.ListByCode(ctx, code)
}

// RegisterCode records the email as the code's admin.
func (s *Service) RegisterCode(ctx context.Context, email, code string) error {
	return s.repo.AddAccess(ctx, email, code, model.RoleAdmin)
}

// JoinCode records a plain membership.
func (s *Service) JoinCode(ctx context.Context, email, code string) error {
	return s.repo.AddAccess(ctx, email, code, model.RoleUser)
}

func (s *Service) RemoveCode(ctx context.Context, email, code string) error {
	return s.repo.RemoveAccess(ctx, email, code)
}

// RemoveCodeForAll drops every membership record referencing the code.
// Driven by the admin-removed event.
func (s *Service) RemoveCodeForAll(ctx context.Context, code string) error {
	return s.repo.RemoveAccessByCode(ctx, code)
}

// UpdateRole changes a membership's role. Only an admin of the lock may
// do it, and admins cannot demote themselves.
func (s *Service) UpdateRole(ctx context.Context, email, code string, newRole model.Role, requester string) error {
	users, err := s.repo.ListByCode(ctx, code)
	if err != nil {
		return err
	}
	requesterIsAdmin := false
	for _, u := range users {
		if u.Email == requester && u.Role == model.RoleAdmin {
			requesterIsAdmin = true
			break
		}
	}
	if !requesterIsAdmin {
		return model.ErrorForbidden
	}
	if email == requester && newRole != model.RoleAdmin {
		return model.ErrorSelfDemotion
	}
	return s.repo.UpdateRole(ctx, email, code, newRole)
}

// LockAction forwards a device action to the log service's journal.
// Unlike the cascade notifications this failure surfaces, since the
// append is the whole point of the call.
func (s *Service) LockAction(ctx context.Context, code string, entry model.LogEntry) error {
	return s.notifier.AppendLog(ctx, code, entry)
}
