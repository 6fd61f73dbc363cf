// Package lock implements the membership and admin lifecycle over the
// lock registry: registering an admin, joining by invite code, and the
// cascading reset when an admin gives up a lock.
package lock

import (
	"context"

	"github.com/labstack/gommon/log"

	"github.com/smartlatch/smartlatch/internal/lockstore"
	"github.com/smartlatch/smartlatch/internal/model"
)

// Notifier is the outbound port for keeping sibling services in sync.
// Deliveries are best-effort; the lifecycle never rolls back local state
// when one fails.
type Notifier interface {
	RemoveCode(ctx context.Context, email, code string) error
	ResetLogs(ctx context.Context, code string) error
	PublishEvent(ctx context.Context, event model.Event) error
}

// RemovalOutcome tells the route layer which branch a removal request took.
type RemovalOutcome int

const (
	OutcomeMemberRemoved RemovalOutcome = iota
	OutcomeAdminCascade
)

type Service struct {
	locks    *lockstore.Store
	notifier Notifier
}

func New(locks *lockstore.Store, notifier Notifier) *Service {
	return &Service{locks: locks, notifier: notifier}
}

func (s *Service) Status(code string) (model.LockStatus, error) {
	status, ok := s.locks.Status(code)
	if !ok {
		return "", model.ErrorLockNotFound
	}
	return status, nil
}

// SetStatus toggles the lock freely; Open/Closed is orthogonal to the
// admin-assignment state.
func (s *Service) SetStatus(code string, status model.LockStatus) error {
	if !status.Valid() {
		return model.ErrorInvalidStatus
	}
	if !s.locks.SetStatus(code, status) {
		return model.ErrorLockNotFound
	}
	return nil
}

func (s *Service) Locks(email string) []model.LockSummary {
	return s.locks.ListByEmail(email)
}

func (s *Service) InviteCode(code string) (string, error) {
	lock, ok := s.locks.ByCode(code)
	if !ok {
		return "", model.ErrorLockNotFound
	}
	return lock.InviteCode, nil
}

// Register assigns the first admin. The first-admin-wins check is this
// precondition; AssignAdmin itself overwrites unconditionally.
func (s *Service) Register(code, nickname, adminEmail string) error {
	if !s.locks.CodeKnown(code) {
		return model.ErrorLockNotFound
	}
	if s.locks.HasAdminForCode(code) {
		return model.ErrorLockAlreadyRegistered
	}
	s.locks.AssignAdmin(code, adminEmail, nickname)
	return nil
}

// Join adds a guest by invite code and returns the lock's registration
// code. Preconditions run in strict order: unknown invite, already a
// member or admin, then no admin assigned yet.
func (s *Service) Join(invite, email string) (string, error) {
	if !s.locks.InviteKnown(invite) {
		return "", model.ErrorInviteNotFound
	}
	if s.locks.IsRegistered(invite, email) {
		return "", model.ErrorAlreadyMember
	}
	if !s.locks.HasAdminForInvite(invite) {
		return "", model.ErrorLockNotReady
	}
	s.locks.AddMember(invite, email)
	lock, _ := s.locks.ByInvite(invite)
	return lock.RegistrationCode, nil
}

// RemoveAccess handles a removal request identified by {email, code}.
// An admin's own removal resets the whole lock and fans out the cascade;
// a member's removes just that member; anyone else is refused.
func (s *Service) RemoveAccess(ctx context.Context, code, email string) (RemovalOutcome, error) {
	lock, ok := s.locks.ByCode(code)
	if !ok {
		return 0, model.ErrorLockNotFound
	}

	if lock.AdminEmail == email {
		s.locks.Reset(code)
		s.cascade(ctx, email, code)
		return OutcomeAdminCascade, nil
	}

	if !s.locks.RemoveMember(code, email) {
		return 0, model.ErrorForbidden
	}
	if err := s.notifier.RemoveCode(ctx, email, code); err != nil {
		log.Warnf("notifying user service of member removal: %v", err)
	}
	return OutcomeMemberRemoved, nil
}

// cascade tells the sibling services to drop everything tied to the code.
// Each call is fire-and-forget: a failure is logged and the local reset
// stands.
func (s *Service) cascade(ctx context.Context, adminEmail, code string) {
	if err := s.notifier.RemoveCode(ctx, adminEmail, code); err != nil {
		log.Warnf("notifying user service of admin removal: %v", err)
	}
	if err := s.notifier.ResetLogs(ctx, code); err != nil {
		log.Warnf("resetting logs for %s: %v", code, err)
	}
	event := model.NewEvent(model.EventAdminRemoved, model.EventData{LockCode: code})
	if err := s.notifier.PublishEvent(ctx, event); err != nil {
		log.Warnf("publishing admin-removed event: %v", err)
	}
}

// RemoveInvitedUser lets the admin evict a guest. Authorization is the
// requester-equals-admin check here; the registry performs no checks of
// its own.
func (s *Service) RemoveInvitedUser(ctx context.Context, code, targetEmail, requesterEmail string) error {
	lock, ok := s.locks.ByCode(code)
	if !ok {
		return model.ErrorLockNotFound
	}
	if lock.AdminEmail != requesterEmail {
		return model.ErrorForbidden
	}
	if !s.locks.RemoveMember(code, targetEmail) {
		return model.ErrorAccessNotFound
	}
	if err := s.notifier.RemoveCode(ctx, targetEmail, code); err != nil {
		log.Warnf("notifying user service of eviction: %v", err)
	}
	return nil
}

// RemoveOwnAccess lets a guest leave a lock.
func (s *Service) RemoveOwnAccess(ctx context.Context, code, email string) error {
	if !s.locks.CodeKnown(code) {
		return model.ErrorLockNotFound
	}
	if !s.locks.RemoveMember(code, email) {
		return model.ErrorAccessNotFound
	}
	if err := s.notifier.RemoveCode(ctx, email, code); err != nil {
		log.Warnf("notifying user service of self-removal: %v", err)
	}
	return nil
}

// RenameIdentity rewrites every admin slot and member entry holding the
// old email.
func (s *Service) RenameIdentity(oldEmail, newEmail string) {
	s.locks.RenameEmail(oldEmail, newEmail)
}
