// Package notify is the outbound side of cross-service synchronization.
// Every call is a single best-effort JSON POST: no retry, no ordering
// guarantee. Callers decide whether a failure matters; the cascade and
// relay paths log and move on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/smartlatch/smartlatch/internal/boot"
	"github.com/smartlatch/smartlatch/internal/model"
)

type Client struct {
	http           *http.Client
	userServiceURL string
	logServiceURL  string
	lockServiceURL string
	eventBusURL    string
}

func NewClient(config *boot.Config) *Client {
	return &Client{
		http:           &http.Client{Timeout: 5 * time.Second},
		userServiceURL: config.UserServiceURL,
		logServiceURL:  config.LogServiceURL,
		lockServiceURL: config.LockServiceURL,
		eventBusURL:    config.EventBusURL,
	}
}

func (c *Client) postJSON(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	return c.post(ctx, url, body)
}

func (c *Client) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("posting to %s: status %d", url, resp.StatusCode)
	}
	return nil
}

// RemoveCode tells the user service to drop one membership record.
func (c *Client) RemoveCode(ctx context.Context, email, code string) error {
	return c.postJSON(ctx, c.userServiceURL+"/users/remove-code", map[string]string{
		"email": email,
		"code":  code,
	})
}

// ResetLogs tells the log service to discard the code's journal.
func (c *Client) ResetLogs(ctx context.Context, code string) error {
	return c.postJSON(ctx, c.logServiceURL+"/logs/reset", map[string]string{"code": code})
}

// PublishEvent hands an envelope to the event bus.
func (c *Client) PublishEvent(ctx context.Context, event model.Event) error {
	return c.postJSON(ctx, c.eventBusURL+"/join", event)
}

// UpdateLockEmail propagates an account rename to the lock registry.
func (c *Client) UpdateLockEmail(ctx context.Context, email, newEmail string) error {
	return c.postJSON(ctx, c.lockServiceURL+"/update-email", map[string]string{
		"email":    email,
		"newEmail": newEmail,
	})
}

// RemoveUserAccess asks the lock service to revoke the email's access to
// one lock. Fired per access record after an account is deleted.
func (c *Client) RemoveUserAccess(ctx context.Context, email, code string) error {
	return c.postJSON(ctx, c.lockServiceURL+"/remove-user-access", map[string]string{
		"email": email,
		"code":  code,
	})
}

// AppendLog forwards an action entry to the log service's journal.
func (c *Client) AppendLog(ctx context.Context, code string, entry model.LogEntry) error {
	return c.postJSON(ctx, c.logServiceURL+"/logs", map[string]any{
		"user":      entry.User,
		"action":    entry.Action,
		"code":      code,
		"timestamp": entry.Timestamp,
	})
}

// ForwardJoin relays a raw event envelope to the user and log services.
// Both calls are independent; failures are logged and ignored so the
// relay can answer the original caller unconditionally.
func (c *Client) ForwardJoin(ctx context.Context, body []byte) {
	if err := c.post(ctx, c.userServiceURL+"/users/join", body); err != nil {
		log.Warnf("relaying to user service: %v", err)
	}
	if err := c.post(ctx, c.logServiceURL+"/logs/join", body); err != nil {
		log.Warnf("relaying to log service: %v", err)
	}
}
