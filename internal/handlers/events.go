package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Forwarder relays a raw event envelope to the dependent services.
type Forwarder interface {
	ForwardJoin(ctx context.Context, body []byte)
}

// RelayJoin is the event bus: it forwards the envelope unchanged to the
// user and log services and answers 200 no matter what they said.
func RelayJoin(forwarder Forwarder) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		forwarder.ForwardJoin(c.Request().Context(), body)
		return c.JSON(http.StatusOK, map[string]string{"msg": "ok"})
	}
}
