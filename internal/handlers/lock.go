package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartlatch/smartlatch/internal/model"
	"github.com/smartlatch/smartlatch/internal/service/lock"
)

// LockService is the slice of the lifecycle service the lock routes need.
type LockService interface {
	Status(code string) (model.LockStatus, error)
	SetStatus(code string, status model.LockStatus) error
	Locks(email string) []model.LockSummary
	InviteCode(code string) (string, error)
	Register(code, nickname, adminEmail string) error
	Join(invite, email string) (string, error)
	RemoveAccess(ctx context.Context, code, email string) (lock.RemovalOutcome, error)
	RemoveInvitedUser(ctx context.Context, code, targetEmail, requesterEmail string) error
	RemoveOwnAccess(ctx context.Context, code, email string) error
	RenameIdentity(oldEmail, newEmail string)
}

func GetLockStatus(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := service.Status(c.QueryParam("code"))
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]model.LockStatus{"status": status})
	}
}

func SetLockStatus(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Code   string           `json:"code"`
			Status model.LockStatus `json:"status"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if !params.Status.Valid() {
			return badRequest(c, "invalid status")
		}
		if err := service.SetStatus(params.Code, params.Status); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]model.LockStatus{"status": params.Status})
	}
}

func ListLocks(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Email string `json:"email"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string][]model.LockSummary{
			"list": service.Locks(params.Email),
		})
	}
}

func RegisterLock(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Code     string `json:"code"`
			Nickname string `json:"nickname"`
			Admin    string `json:"admin"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.Code == "" || params.Admin == "" {
			return badRequest(c, "code and admin are required")
		}
		if err := service.Register(params.Code, params.Nickname, params.Admin); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "lock registered"})
	}
}

func JoinLock(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			InvitationCode string `json:"invitationCode"`
			Email          string `json:"email"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.InvitationCode == "" || params.Email == "" {
			return badRequest(c, "invitationCode and email are required")
		}
		registrationCode, err := service.Join(params.InvitationCode, params.Email)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{
			"message":          "you are now a user of this lock",
			"registrationCode": registrationCode,
		})
	}
}

func GetInviteCode(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		inviteCode, err := service.InviteCode(c.QueryParam("code"))
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"inviteCode": inviteCode})
	}
}

func UpdateLockEmail(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Email    string `json:"email"`
			NewEmail string `json:"newEmail"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.Email == "" || params.NewEmail == "" {
			return badRequest(c, "email and newEmail are required")
		}
		service.RenameIdentity(params.Email, params.NewEmail)
		return c.JSON(http.StatusOK, map[string]string{"message": "email updated"})
	}
}

// RemoveUserAccess handles both branches of the removal state machine:
// the admin's own removal resets the lock and fans out the cascade, a
// member's removes just that member.
func RemoveUserAccess(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.Email == "" || params.Code == "" {
			return badRequest(c, "email and code are required")
		}
		outcome, err := service.RemoveAccess(c.Request().Context(), params.Code, params.Email)
		if err != nil {
			return jsonError(c, err)
		}
		message := "user access removed"
		if outcome == lock.OutcomeAdminCascade {
			message = "admin and all users disconnected"
		}
		return c.JSON(http.StatusOK, map[string]string{"message": message})
	}
}

// RemoveInvitedUser is the admin-gated eviction endpoint. The requester
// comes in as a query parameter and must match the lock's admin.
func RemoveInvitedUser(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		code := c.Param("code")
		email := c.Param("email")
		requester := c.QueryParam("requester")
		if requester == "" {
			return badRequest(c, "requester is required")
		}
		if err := service.RemoveInvitedUser(c.Request().Context(), code, email, requester); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "invited user removed"})
	}
}

func RemoveOwnAccess(service LockService) echo.HandlerFunc {
	return func(c echo.Context) error {
		code := c.Param("code")
		email := c.QueryParam("userEmail")
		if email == "" {
			return badRequest(c, "userEmail is required")
		}
		if err := service.RemoveOwnAccess(c.Request().Context(), code, email); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "access removed"})
	}
}
