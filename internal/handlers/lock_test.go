package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlatch/smartlatch/internal/lockstore"
	"github.com/smartlatch/smartlatch/internal/model"
	"github.com/smartlatch/smartlatch/internal/service/lock"
)

type nopNotifier struct{}

func (nopNotifier) RemoveCode(ctx context.Context, email, code string) error { return nil }
func (nopNotifier) ResetLogs(ctx context.Context, code string) error         { return nil }
func (nopNotifier) PublishEvent(ctx context.Context, event model.Event) error {
	return nil
}

func newLockService() *lock.Service {
	return lock.New(lockstore.New(), nopNotifier{})
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestGetLockStatus(t *testing.T) {
	service := newLockService()

	rec := doJSON(t, GetLockStatus(service), http.MethodGet, "/lock-status?code=LOCK1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"Closed"}`, rec.Body.String())

	rec = doJSON(t, GetLockStatus(service), http.MethodGet, "/lock-status?code=NOPE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetLockStatusRejectsUnknownValue(t *testing.T) {
	service := newLockService()

	rec := doJSON(t, SetLockStatus(service), http.MethodPost, "/lock-status", `{"code":"LOCK1","status":"Ajar"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, SetLockStatus(service), http.MethodPost, "/lock-status", `{"code":"LOCK1","status":"Open"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"Open"}`, rec.Body.String())
}

func TestRegisterLock(t *testing.T) {
	service := newLockService()

	rec := doJSON(t, RegisterLock(service), http.MethodPost, "/register-lock", `{"code":"LOCK1","admin":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, RegisterLock(service), http.MethodPost, "/register-lock",
		`{"code":"LOCK1","nickname":"Front door","admin":"ann@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, RegisterLock(service), http.MethodPost, "/register-lock",
		`{"code":"LOCK1","nickname":"Again","admin":"bob@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestJoinLockPreconditions(t *testing.T) {
	service := newLockService()

	rec := doJSON(t, JoinLock(service), http.MethodPost, "/join", `{"invitationCode":"invite9","email":"bob@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// no admin yet
	rec = doJSON(t, JoinLock(service), http.MethodPost, "/join", `{"invitationCode":"invite1","email":"bob@example.com"}`)
	assert.Equal(t, http.StatusLocked, rec.Code)

	require.NoError(t, service.Register("LOCK1", "Front door", "ann@example.com"))

	rec = doJSON(t, JoinLock(service), http.MethodPost, "/join", `{"invitationCode":"invite1","email":"bob@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"you are now a user of this lock","registrationCode":"LOCK1"}`, rec.Body.String())

	rec = doJSON(t, JoinLock(service), http.MethodPost, "/join", `{"invitationCode":"invite1","email":"bob@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRemoveUserAccessBranches(t *testing.T) {
	service := newLockService()
	require.NoError(t, service.Register("LOCK1", "Front door", "ann@example.com"))
	_, err := service.Join("invite1", "bob@example.com")
	require.NoError(t, err)

	rec := doJSON(t, RemoveUserAccess(service), http.MethodPost, "/remove-user-access",
		`{"email":"bob@example.com","code":"LOCK1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"user access removed"}`, rec.Body.String())

	rec = doJSON(t, RemoveUserAccess(service), http.MethodPost, "/remove-user-access",
		`{"email":"ann@example.com","code":"LOCK1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"admin and all users disconnected"}`, rec.Body.String())

	rec = doJSON(t, RemoveUserAccess(service), http.MethodPost, "/remove-user-access",
		`{"email":"carl@example.com","code":"LOCK1"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRemoveInvitedUserRequiresAdmin(t *testing.T) {
	service := newLockService()
	require.NoError(t, service.Register("LOCK1", "Front door", "ann@example.com"))
	_, err := service.Join("invite1", "bob@example.com")
	require.NoError(t, err)

	e := echo.New()
	call := func(requester string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/locks/LOCK1/users/bob@example.com?requester="+requester, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("code", "email")
		c.SetParamValues("LOCK1", "bob@example.com")
		require.NoError(t, RemoveInvitedUser(service)(c))
		return rec
	}

	rec := call("bob@example.com")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call("ann@example.com")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call("ann@example.com")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLocks(t *testing.T) {
	service := newLockService()
	require.NoError(t, service.Register("LOCK2", "Garage", "ann@example.com"))

	rec := doJSON(t, ListLocks(service), http.MethodPost, "/locks", `{"email":"ann@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"list":[{"lockName":"Garage","registrationCode":"LOCK2","isAdmin":true}]}`, rec.Body.String())
}

func TestUpdateLockEmail(t *testing.T) {
	service := newLockService()
	require.NoError(t, service.Register("LOCK1", "Front door", "ann@example.com"))

	rec := doJSON(t, UpdateLockEmail(service), http.MethodPut, "/update-email",
		`{"email":"ann@example.com","newEmail":"anna@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	locks := service.Locks("anna@example.com")
	assert.Len(t, locks, 1)
	assert.Empty(t, service.Locks("ann@example.com"))
}
