package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartlatch/smartlatch/internal/model"
)

// LogStore is the journal surface the log routes need.
type LogStore interface {
	Append(code string, entry model.LogEntry)
	ListByCode(code string) []model.LogEntry
	DiscardByCode(code string)
}

func GetLogs(store LogStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, store.ListByCode(c.QueryParam("code")))
	}
}

func AppendLogEntry(store LogStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			User      string    `json:"user"`
			Action    string    `json:"action"`
			Code      string    `json:"code"`
			Timestamp time.Time `json:"timestamp"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.User == "" || params.Action == "" || params.Timestamp.IsZero() {
			return badRequest(c, "user, action and timestamp are required")
		}
		if params.Code == "" {
			return badRequest(c, "code is required")
		}
		entry := model.LogEntry{User: params.User, Action: params.Action, Timestamp: params.Timestamp}
		store.Append(params.Code, entry)
		return c.JSON(http.StatusCreated, entry)
	}
}

func ResetLogs(store LogStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Code string `json:"code"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		if params.Code == "" {
			return badRequest(c, "code is required")
		}
		store.DiscardByCode(params.Code)
		return c.JSON(http.StatusOK, map[string]string{"message": "logs reset"})
	}
}

// LogJoinEvent is the event-bus target: joins append a journal line,
// admin removals discard the whole journal.
func LogJoinEvent(store LogStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := struct {
			Type string          `json:"type"`
			Data model.EventData `json:"data"`
		}{}
		if err := c.Bind(&params); err != nil {
			return err
		}
		switch params.Type {
		case model.EventJoin:
			store.Append(params.Data.LockCode, model.LogEntry{
				User:      params.Data.Email,
				Action:    "joined the lock",
				Timestamp: time.Now().UTC(),
			})
		case model.EventAdminRemoved:
			store.DiscardByCode(params.Data.LockCode)
		}
		return c.JSON(http.StatusOK, map[string]string{"msg": "ok"})
	}
}
