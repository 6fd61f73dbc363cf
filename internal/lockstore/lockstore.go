// Package lockstore holds the fixed pool of provisioned locks. Locks are
// never created or destroyed at runtime; only admin, name, status and the
// member list mutate. All methods are safe for concurrent use.
package lockstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/smartlatch/smartlatch/internal/model"
)

type Store struct {
	mu    sync.Mutex
	locks []*model.Lock
}

// New returns a store seeded with the default five-lock pool.
func New() *Store {
	return &Store{locks: defaultPool()}
}

// NewFromSeed loads the pool from a JSON seed file.
func NewFromSeed(path string) (*Store, error) {
	locks, err := loadSeed(path)
	if err != nil {
		return nil, err
	}
	return &Store{locks: locks}, nil
}

// Reload replaces the pool with the seed file's contents. Used by the
// dev-mode seed watcher.
func (s *Store) Reload(path string) error {
	locks, err := loadSeed(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks = locks
	return nil
}

func loadSeed(path string) ([]*model.Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lock seed file: %w", err)
	}
	var locks []*model.Lock
	if err := json.Unmarshal(data, &locks); err != nil {
		return nil, fmt.Errorf("parsing lock seed file: %w", err)
	}
	return locks, nil
}

func defaultPool() []*model.Lock {
	locks := make([]*model.Lock, 0, 5)
	for i := 1; i <= 5; i++ {
		locks = append(locks, &model.Lock{
			Number:           i,
			RegistrationCode: fmt.Sprintf("LOCK%d", i),
			InviteCode:       fmt.Sprintf("invite%d", i),
			Status:           model.LockStatusClosed,
		})
	}
	return locks
}

func (s *Store) byCode(code string) *model.Lock {
	for _, l := range s.locks {
		if l.RegistrationCode == code {
			return l
		}
	}
	return nil
}

func (s *Store) byInvite(invite string) *model.Lock {
	for _, l := range s.locks {
		if l.InviteCode == invite {
			return l
		}
	}
	return nil
}

// Status returns the lock's status; ok is false for an unknown code.
func (s *Store) Status(code string) (model.LockStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byCode(code)
	if lock == nil {
		return "", false
	}
	return lock.Status, true
}

// SetStatus is a no-op on an unknown code, reported by the false return.
// Status validation belongs to the route layer.
func (s *Store) SetStatus(code string, status model.LockStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byCode(code)
	if lock == nil {
		return false
	}
	lock.Status = status
	return true
}

func (s *Store) CodeKnown(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byCode(code) != nil
}

func (s *Store) InviteKnown(invite string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byInvite(invite) != nil
}

// HasAdminForCode reports whether the lock identified by its registration
// code has an assigned admin. False for unknown codes.
func (s *Store) HasAdminForCode(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byCode(code)
	return lock != nil && lock.HasAdmin()
}

// HasAdminForInvite is the invite-code flavour used on the join path.
func (s *Store) HasAdminForInvite(invite string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byInvite(invite)
	return lock != nil && lock.HasAdmin()
}

// AssignAdmin unconditionally overwrites the lock's admin and name.
// Callers wanting first-admin-wins semantics must check HasAdminForCode
// first; the registry itself does not enforce it.
func (s *Store) AssignAdmin(code, email, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byCode(code)
	if lock == nil {
		return false
	}
	lock.AdminEmail = email
	lock.Name = name
	return true
}

// ByCode returns a copy of the lock record.
func (s *Store) ByCode(code string) (model.Lock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byCode(code)
	if lock == nil {
		return model.Lock{}, false
	}
	return copyLock(lock), true
}

func (s *Store) ByInvite(invite string) (model.Lock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byInvite(invite)
	if lock == nil {
		return model.Lock{}, false
	}
	return copyLock(lock), true
}

func copyLock(lock *model.Lock) model.Lock {
	out := *lock
	out.Members = append([]string(nil), lock.Members...)
	return out
}

// ListByEmail returns every lock the email belongs to, tagged with the
// caller's role on it.
func (s *Store) ListByEmail(email string) []model.LockSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []model.LockSummary{}
	for _, lock := range s.locks {
		if lock.AdminEmail == email {
			result = append(result, model.LockSummary{
				LockName:         lock.Name,
				RegistrationCode: lock.RegistrationCode,
				IsAdmin:          true,
			})
		}
		for _, member := range lock.Members {
			if member == email {
				result = append(result, model.LockSummary{
					LockName:         lock.Name,
					RegistrationCode: lock.RegistrationCode,
					IsAdmin:          false,
				})
			}
		}
	}
	return result
}

// IsRegistered reports whether the email is already the admin or a member
// of the lock behind the invite code.
func (s *Store) IsRegistered(invite, email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byInvite(invite)
	if lock == nil {
		return false
	}
	return lock.AdminEmail == email || lock.IsMember(email)
}

// AddMember appends the email to the lock's member list. The duplicate
// check lives on the caller's side; the list itself allows duplicates.
func (s *Store) AddMember(invite, email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byInvite(invite)
	if lock == nil {
		return false
	}
	lock.Members = append(lock.Members, email)
	return true
}

// RemoveMember removes the email from the lock's member list, reporting
// whether anything was removed. Calling it again is a harmless no-op.
func (s *Store) RemoveMember(code, email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byCode(code)
	if lock == nil {
		return false
	}
	kept := lock.Members[:0]
	removed := false
	for _, member := range lock.Members {
		if member == email {
			removed = true
			continue
		}
		kept = append(kept, member)
	}
	lock.Members = kept
	return removed
}

// Reset clears the lock's admin and entire member list. Used only by the
// admin-removal cascade.
func (s *Store) Reset(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.byCode(code)
	if lock == nil {
		return false
	}
	lock.AdminEmail = ""
	lock.Members = nil
	return true
}

// RenameEmail replaces oldEmail with newEmail in every admin slot and
// member list. Each record is updated whole under the store lock.
func (s *Store) RenameEmail(oldEmail, newEmail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lock := range s.locks {
		if lock.AdminEmail == oldEmail {
			lock.AdminEmail = newEmail
		}
		for i, member := range lock.Members {
			if member == oldEmail {
				lock.Members[i] = newEmail
			}
		}
	}
}
