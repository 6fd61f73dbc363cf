package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartlatch/smartlatch/internal/model"
)

// errorStatus maps the model's sentinel errors onto the HTTP taxonomy:
// 400 validation, 404 not found, 409 conflict, 403 forbidden, 423 lock
// not ready, 401 bad credentials, 500 anything else.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrorLockNotFound),
		errors.Is(err, model.ErrorInviteNotFound),
		errors.Is(err, model.ErrorUserNotFound),
		errors.Is(err, model.ErrorAccessNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrorAlreadyMember),
		errors.Is(err, model.ErrorLockAlreadyRegistered),
		errors.Is(err, model.ErrorEmailTaken):
		return http.StatusConflict
	case errors.Is(err, model.ErrorLockNotReady):
		return http.StatusLocked
	case errors.Is(err, model.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrorInvalidStatus),
		errors.Is(err, model.ErrorSelfDemotion):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrorInvalidUsernameOrPassword):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), map[string]string{"error": err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
