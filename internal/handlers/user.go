package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/smartlatch/smartlatch/internal/model"
	"github.com/smartlatch/smartlatch/internal/service/user"
)

// UserService is the slice of the account service the user routes need.
type UserService interface {
	Create(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*model.User, error)
	Update(ctx context.Context, email string, req user.UpdateRequest) (*model.User, error)
	Delete(ctx context.Context, email, requester string) error
	UsersByCode(ctx context.Context, code string) ([]model.UserWithRole, error)
	RegisterCode(ctx context.Context, email, code string) error
	JoinCode(ctx context.Context, email, code string) error
	RemoveCode(ctx context.Context, email, code string) error
	RemoveCodeForAll(ctx context.Context, code string) error
	UpdateRole(ctx context.Context, email, code string, newRole model.Role, requester string) error
	LockAction(ctx context.Context, code string, entry model.LogEntry) error
}

func GetUsers(service UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := service.UsersByCode(c.Request().Context(), c.QueryParam("code"))
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, users)
	}
}

func CreateUser(service UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.Name == "" || params.Email == "" || params.Password == "" {
			return badRequest(c, "name, email and password are required")
		}
		if !model.ValidEmail(params.Email) {
			return badRequest(c, "invalid email format")
		}
		if err := service.Create(c.Request().Context(), params.Name, params.Email, params.Password); err != nil {
			// duplicate signup is a 400 on this endpoint, not a 409
			if errors.Is(err, model.ErrorEmailTaken) {
				return badRequest(c, "this email is already registered")
			}
			return jsonError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]string{"message": "user created"})
	}
}

func Login(service UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.Email == "" || params.Password == "" {
			return badRequest(c, "email and password are required")
		}
		account, err := service.Login(c.Request().Context(), params.Email, params.Password)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"message":      "login successful",
			"name":         account.Name,
			"email":        account.Email,
			"profileImage": account.ProfileImage,
		})
	}
}

// UpdateUser accepts multipart form edits, including an optional profile
// image upload stored under uploadDir with a generated filename.
func UpdateUser(service UserService, uploadDir string) echo.HandlerFunc {
	return func(c echo.Context) error {
		email := c.Param("email")
		req := user.UpdateRequest{
			Name:     c.FormValue("name"),
			NewEmail: c.FormValue("email"),
			Password: c.FormValue("password"),
		}

		if file, err := c.FormFile("profileImage"); err == nil {
			stored, err := saveUpload(file, uploadDir)
			if err != nil {
				return jsonError(c, err)
			}
			req.ProfileImage = stored
		}

		account, err := service.Update(c.Request().Context(), email, req)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"message": "user updated",
			"user":    account,
		})
	}
}

func saveUpload(file *multipart.FileHeader, dir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

func DeleteUser(service UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Requester string `json:"requester"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if err := service.Delete(c.Request().Context(), c.Param("email"), params.Requester); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "user removed"})
	}
}

func RegisterAccess(service UserService) echo.HandlerFunc {
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
		if err := service.RegisterCode(c.Request().Context(), params.Email, params.Code); err != nil {
			return badRequest(c, "failed to register user")
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "user registered"})
	}
}

// JoinAccess accepts both the direct {email, code} form used by clients
// and the {type, data} envelope the event bus relays.
func JoinAccess(service UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		params := struct {
			Type  string          `json:"type"`
			Data  model.EventData `json:"data"`
			Email string          `json:"email"`
			Code  string          `json:"code"`
		}{}
		if err := json.Unmarshal(body, &params); err != nil {
			return badRequest(c, "invalid payload")
		}

		ctx := c.Request().Context()
		switch params.Type {
		case model.EventAdminRemoved:
			if err := service.RemoveCodeForAll(ctx, params.Data.LockCode); err != nil {
				return jsonError(c, err)
			}
		case model.EventJoin:
			if err := service.JoinCode(ctx, params.Data.Email, params.Data.LockCode); err != nil {
				return jsonError(c, err)
			}
		default:
			if params.Email == "" || params.Code == "" {
				return badRequest(c, "email and code are required")
			}
			if err := service.JoinCode(ctx, params.Email, params.Code); err != nil {
				return jsonError(c, err)
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "join successful"})
	}
}

func RemoveCode(service UserService) echo.HandlerFunc {
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
		if err := service.RemoveCode(c.Request().Context(), params.Email, params.Code); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "code removed"})
	}
}

func UpdateRole(service UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Email          string     `json:"email"`
			Code           string     `json:"code"`
			NewRole        model.Role `json:"newRole"`
			RequesterEmail string     `json:"requesterEmail"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.Email == "" || params.Code == "" || params.NewRole == "" || params.RequesterEmail == "" {
			return badRequest(c, "email, code, newRole and requesterEmail are required")
		}
		if !params.NewRole.Valid() {
			return badRequest(c, "role must be admin, user or guest")
		}
		if err := service.UpdateRole(c.Request().Context(), params.Email, params.Code, params.NewRole, params.RequesterEmail); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "role updated"})
	}
}

// LockAction forwards a device action to the log service. This is the
// one outbound call whose failure surfaces to the caller.
func LockAction(service UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			User   string `json:"user"`
			Action string `json:"action"`
			Code   string `json:"code"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.User == "" || params.Action == "" {
			return badRequest(c, "user and action are required")
		}
		entry := model.LogEntry{User: params.User, Action: params.Action, Timestamp: time.Now().UTC()}
		if err := service.LockAction(c.Request().Context(), params.Code, entry); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "action logged"})
	}
}
