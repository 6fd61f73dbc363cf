package userstore

import (
	"context"
	"sync"

	"github.com/smartlatch/smartlatch/internal/model"
)

// MemoryStore keeps accounts and access records in process memory.
// State is lost on restart, which matches the legacy in-memory variant.
type MemoryStore struct {
	mu     sync.Mutex
	users  map[string]*model.User
	access []model.Access
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]*model.User{}}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, model.ErrorUserNotFound
	}
	out := *user
	return &out, nil
}

func (s *MemoryStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[email]
	return ok, nil
}

func (s *MemoryStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return model.ErrorEmailTaken
	}
	stored := *user
	s.users[user.Email] = &stored
	return nil
}

func (s *MemoryStore) Update(_ context.Context, email string, params UpdateParams) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, model.ErrorUserNotFound
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.ProfileImage != nil {
		user.ProfileImage = params.ProfileImage
	}
	out := *user
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; !ok {
		return model.ErrorUserNotFound
	}
	delete(s.users, email)
	kept := s.access[:0]
	for _, a := range s.access {
		if a.UserEmail != email {
			kept = append(kept, a)
		}
	}
	s.access = kept
	return nil
}

func (s *MemoryStore) RenameEmail(_ context.Context, oldEmail, newEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[oldEmail]
	if !ok {
		return model.ErrorUserNotFound
	}
	if _, taken := s.users[newEmail]; taken {
		return model.ErrorEmailTaken
	}
	delete(s.users, oldEmail)
	user.Email = newEmail
	s.users[newEmail] = user
	for i := range s.access {
		if s.access[i].UserEmail == oldEmail {
			s.access[i].UserEmail = newEmail
		}
	}
	return nil
}

func (s *MemoryStore) AddAccess(_ context.Context, email, code string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.access {
		if s.access[i].UserEmail == email && s.access[i].LockCode == code {
			s.access[i].Role = role
			return nil
		}
	}
	s.access = append(s.access, model.Access{UserEmail: email, LockCode: code, Role: role})
	return nil
}

func (s *MemoryStore) ListAccess(_ context.Context, email string) ([]model.Access, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []model.Access{}
	for _, a := range s.access {
		if a.UserEmail == email {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *MemoryStore) RemoveAccess(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.access {
		if s.access[i].UserEmail == email && s.access[i].LockCode == code {
			s.access = append(s.access[:i], s.access[i+1:]...)
			return nil
		}
	}
	return model.ErrorAccessNotFound
}

func (s *MemoryStore) RemoveAccessByCode(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.access[:0]
	for _, a := range s.access {
		if a.LockCode != code {
			kept = append(kept, a)
		}
	}
	s.access = kept
	return nil
}

func (s *MemoryStore) UpdateRole(_ context.Context, email, code string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.access {
		if s.access[i].UserEmail == email && s.access[i].LockCode == code {
			s.access[i].Role = role
			return nil
		}
	}
	return model.ErrorAccessNotFound
}

func (s *MemoryStore) ListByCode(_ context.Context, code string) ([]model.UserWithRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []model.UserWithRole{}
	for _, a := range s.access {
		if a.LockCode != code {
			continue
		}
		user, ok := s.users[a.UserEmail]
		if !ok {
			continue
		}
		result = append(result, model.UserWithRole{
			Name:         user.Name,
			Email:        user.Email,
			ProfileImage: user.ProfileImage,
			Role:         a.Role,
			IsAdmin:      a.Role == model.RoleAdmin,
		})
	}
	return result, nil
}

func (s *MemoryStore) HasAdminAccess(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.access {
		if a.UserEmail == email && a.Role == model.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Close() error { return nil }
