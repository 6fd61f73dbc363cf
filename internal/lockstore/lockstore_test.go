package lockstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlatch/smartlatch/internal/model"
)

func TestUnknownCodesNeverPanic(t *testing.T) {
	store := New()

	_, ok := store.Status("NOPE")
	assert.False(t, ok)
	assert.False(t, store.SetStatus("NOPE", model.LockStatusOpen))
	assert.False(t, store.CodeKnown("NOPE"))
	assert.False(t, store.InviteKnown("NOPE"))
	assert.False(t, store.HasAdminForCode("NOPE"))
	assert.False(t, store.HasAdminForInvite("NOPE"))
	assert.False(t, store.AssignAdmin("NOPE", "a@b.com", "x"))
	assert.False(t, store.RemoveMember("NOPE", "a@b.com"))
	assert.False(t, store.Reset("NOPE"))
	_, ok = store.ByCode("NOPE")
	assert.False(t, ok)
}

func TestStatusRoundTrip(t *testing.T) {
	store := New()

	status, ok := store.Status("LOCK1")
	require.True(t, ok)
	assert.Equal(t, model.LockStatusClosed, status)

	require.True(t, store.SetStatus("LOCK1", model.LockStatusOpen))
	status, _ = store.Status("LOCK1")
	assert.Equal(t, model.LockStatusOpen, status)
}

func TestAssignAdmin(t *testing.T) {
	store := New()

	assert.False(t, store.HasAdminForCode("LOCK1"))
	require.True(t, store.AssignAdmin("LOCK1", "admin@test.com", "My Lock"))
	assert.True(t, store.HasAdminForCode("LOCK1"))
	assert.True(t, store.HasAdminForInvite("invite1"))

	lock, ok := store.ByCode("LOCK1")
	require.True(t, ok)
	assert.Equal(t, "admin@test.com", lock.AdminEmail)
	assert.Equal(t, "My Lock", lock.Name)
}

func TestWhitespaceAdminCountsAsUnassigned(t *testing.T) {
	store := New()
	require.True(t, store.AssignAdmin("LOCK1", "   ", ""))
	assert.False(t, store.HasAdminForCode("LOCK1"))
}

func TestMembers(t *testing.T) {
	store := New()
	store.AssignAdmin("LOCK1", "admin@test.com", "My Lock")

	require.True(t, store.AddMember("invite1", "guest@test.com"))
	assert.True(t, store.IsRegistered("invite1", "guest@test.com"))
	assert.True(t, store.IsRegistered("invite1", "admin@test.com"))
	assert.False(t, store.IsRegistered("invite1", "other@test.com"))

	assert.True(t, store.RemoveMember("LOCK1", "guest@test.com"))
	// second removal reports not-found without disturbing the record
	assert.False(t, store.RemoveMember("LOCK1", "guest@test.com"))
	lock, _ := store.ByCode("LOCK1")
	assert.Empty(t, lock.Members)
}

func TestReset(t *testing.T) {
	store := New()
	store.AssignAdmin("LOCK2", "admin@test.com", "Garage")
	store.AddMember("invite2", "guest@test.com")

	require.True(t, store.Reset("LOCK2"))
	assert.False(t, store.HasAdminForCode("LOCK2"))
	lock, _ := store.ByCode("LOCK2")
	assert.Empty(t, lock.Members)
}

func TestListByEmail(t *testing.T) {
	store := New()
	store.AssignAdmin("LOCK1", "alice@test.com", "Front Door")
	store.AssignAdmin("LOCK2", "bob@test.com", "Garage")
	store.AddMember("invite2", "alice@test.com")

	list := store.ListByEmail("alice@test.com")
	require.Len(t, list, 2)
	assert.Equal(t, model.LockSummary{LockName: "Front Door", RegistrationCode: "LOCK1", IsAdmin: true}, list[0])
	assert.Equal(t, model.LockSummary{LockName: "Garage", RegistrationCode: "LOCK2", IsAdmin: false}, list[1])

	assert.Empty(t, store.ListByEmail("nobody@test.com"))
}

func TestRenameEmail(t *testing.T) {
	store := New()
	store.AssignAdmin("LOCK1", "old@test.com", "Front Door")
	store.AddMember("invite2", "old@test.com")

	store.RenameEmail("old@test.com", "new@test.com")

	assert.Len(t, store.ListByEmail("new@test.com"), 2)
	assert.Empty(t, store.ListByEmail("old@test.com"))
}

func TestSeedFile(t *testing.T) {
	seed := []model.Lock{
		{Number: 1, RegistrationCode: "FRONT", InviteCode: "front-invite", Status: model.LockStatusClosed},
		{Number: 2, RegistrationCode: "BACK", InviteCode: "back-invite", Status: model.LockStatusOpen},
	}
	data, err := json.Marshal(seed)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "locks.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store, err := NewFromSeed(path)
	require.NoError(t, err)
	assert.True(t, store.CodeKnown("FRONT"))
	assert.True(t, store.InviteKnown("back-invite"))
	assert.False(t, store.CodeKnown("LOCK1"))

	status, ok := store.Status("BACK")
	require.True(t, ok)
	assert.Equal(t, model.LockStatusOpen, status)
}

func TestSeedFileMissing(t *testing.T) {
	_, err := NewFromSeed(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
