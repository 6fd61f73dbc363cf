package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlatch/smartlatch/internal/model"
	"github.com/smartlatch/smartlatch/internal/userstore"
)

type fakeNotifier struct {
	emailUpdates []string
	revoked      []string
	appended     []model.LogEntry
	fail         error
}

func (f *fakeNotifier) UpdateLockEmail(_ context.Context, email, newEmail string) error {
	f.emailUpdates = append(f.emailUpdates, email+"->"+newEmail)
	return f.fail
}

func (f *fakeNotifier) RemoveUserAccess(_ context.Context, email, code string) error {
	f.revoked = append(f.revoked, email+"/"+code)
	return f.fail
}

func (f *fakeNotifier) AppendLog(_ context.Context, code string, entry model.LogEntry) error {
	f.appended = append(f.appended, entry)
	return f.fail
}

func newService() (*Service, userstore.Repository, *fakeNotifier) {
	repo := userstore.NewMemoryStore()
	notifier := &fakeNotifier{}
	return New(repo, notifier), repo, notifier
}

func TestCreateAndLogin(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	require.NoError(t, service.Create(ctx, "Alice", "alice@test.com", "password"))
	assert.ErrorIs(t, service.Create(ctx, "Alice", "alice@test.com", "password"), model.ErrorEmailTaken)

	user, err := service.Login(ctx, "alice@test.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = service.Login(ctx, "alice@test.com", "wrong")
	assert.ErrorIs(t, err, model.ErrorInvalidUsernameOrPassword)

	_, err = service.Login(ctx, "nobody@test.com", "password")
	assert.ErrorIs(t, err, model.ErrorInvalidUsernameOrPassword)
}

func TestUpdateProfile(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()
	require.NoError(t, service.Create(ctx, "Alice", "alice@test.com", "password"))

	user, err := service.Update(ctx, "alice@test.com", UpdateRequest{Name: "Alice B", ProfileImage: "pic.png"})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", user.Name)
	require.NotNil(t, user.ProfileImage)
	assert.Equal(t, "pic.png", *user.ProfileImage)

	// password change keeps login working with the new password only
	_, err = service.Update(ctx, "alice@test.com", UpdateRequest{Password: "newpass"})
	require.NoError(t, err)
	_, err = service.Login(ctx, "alice@test.com", "password")
	assert.ErrorIs(t, err, model.ErrorInvalidUsernameOrPassword)
	_, err = service.Login(ctx, "alice@test.com", "newpass")
	assert.NoError(t, err)

	_, err = service.Update(ctx, "nobody@test.com", UpdateRequest{Name: "X"})
	assert.ErrorIs(t, err, model.ErrorUserNotFound)
}

func TestUpdateEmailPropagates(t *testing.T) {
	service, repo, notifier := newService()
	ctx := context.Background()
	require.NoError(t, service.Create(ctx, "Alice", "old@test.com", "password"))
	require.NoError(t, repo.AddAccess(ctx, "old@test.com", "LOCK1", model.RoleAdmin))

	user, err := service.Update(ctx, "old@test.com", UpdateRequest{NewEmail: "new@test.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@test.com", user.Email)
	assert.Equal(t, []string{"old@test.com->new@test.com"}, notifier.emailUpdates)

	users, err := repo.ListByCode(ctx, "LOCK1")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "new@test.com", users[0].Email)
}

func TestUpdateEmailCollision(t *testing.T) {
	service, _, notifier := newService()
	ctx := context.Background()
	require.NoError(t, service.Create(ctx, "Alice", "alice@test.com", "password"))
	require.NoError(t, service.Create(ctx, "Bob", "bob@test.com", "password"))

	_, err := service.Update(ctx, "alice@test.com", UpdateRequest{NewEmail: "bob@test.com"})
	assert.ErrorIs(t, err, model.ErrorEmailTaken)
	assert.Empty(t, notifier.emailUpdates)
}

func TestDeletePermissions(t *testing.T) {
	service, repo, notifier := newService()
	ctx := context.Background()
	require.NoError(t, service.Create(ctx, "Alice", "alice@test.com", "password"))
	require.NoError(t, service.Create(ctx, "Bob", "bob@test.com", "password"))
	require.NoError(t, service.Create(ctx, "Carol", "carol@test.com", "password"))
	require.NoError(t, repo.AddAccess(ctx, "alice@test.com", "LOCK1", model.RoleAdmin))
	require.NoError(t, repo.AddAccess(ctx, "bob@test.com", "LOCK1", model.RoleUser))
	require.NoError(t, repo.AddAccess(ctx, "bob@test.com", "LOCK2", model.RoleUser))

	// a plain member cannot delete someone else
	assert.ErrorIs(t, service.Delete(ctx, "alice@test.com", "bob@test.com"), model.ErrorForbidden)
	// an unknown requester is refused
	assert.ErrorIs(t, service.Delete(ctx, "alice@test.com", "nobody@test.com"), model.ErrorForbidden)
	// deleting a missing account is not found
	assert.ErrorIs(t, service.Delete(ctx, "nobody@test.com", "alice@test.com"), model.ErrorUserNotFound)

	// an admin may delete another account, revoking each held code
	require.NoError(t, service.Delete(ctx, "bob@test.com", "alice@test.com"))
	assert.Equal(t, []string{"bob@test.com/LOCK1", "bob@test.com/LOCK2"}, notifier.revoked)

	// self-deletion is allowed
	require.NoError(t, service.Delete(ctx, "carol@test.com", "carol@test.com"))
}

func TestUpdateRole(t *testing.T) {
	service, repo, _ := newService()
	ctx := context.Background()
	require.NoError(t, service.Create(ctx, "Alice", "alice@test.com", "password"))
	require.NoError(t, service.Create(ctx, "Bob", "bob@test.com", "password"))
	require.NoError(t, repo.AddAccess(ctx, "alice@test.com", "LOCK1", model.RoleAdmin))
	require.NoError(t, repo.AddAccess(ctx, "bob@test.com", "LOCK1", model.RoleUser))

	assert.ErrorIs(t, service.UpdateRole(ctx, "bob@test.com", "LOCK1", model.RoleGuest, "bob@test.com"), model.ErrorForbidden)
	assert.ErrorIs(t, service.UpdateRole(ctx, "alice@test.com", "LOCK1", model.RoleUser, "alice@test.com"), model.ErrorSelfDemotion)

	require.NoError(t, service.UpdateRole(ctx, "bob@test.com", "LOCK1", model.RoleGuest, "alice@test.com"))
	users, err := repo.ListByCode(ctx, "LOCK1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleGuest, users[1].Role)

	assert.ErrorIs(t, service.UpdateRole(ctx, "nobody@test.com", "LOCK1", model.RoleGuest, "alice@test.com"), model.ErrorAccessNotFound)
}

func TestLockActionForwards(t *testing.T) {
	service, _, notifier := newService()
	ctx := context.Background()

	entry := model.LogEntry{User: "alice@test.com", Action: "opened", Timestamp: time.Now().UTC()}
	require.NoError(t, service.LockAction(ctx, "LOCK1", entry))
	require.Len(t, notifier.appended, 1)
	assert.Equal(t, "opened", notifier.appended[0].Action)

	notifier.fail = assert.AnError
	assert.Error(t, service.LockAction(ctx, "LOCK1", entry))
}
