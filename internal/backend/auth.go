package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const contentTypeJSON = "application/json"

// Registration is the payload for creating a new account.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token. The token is opaque to
// this layer; activating it is the session store's job.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("encode login payload: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", contentTypeJSON, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Token) == "" {
		return "", fmt.Errorf("backend returned an empty token")
	}
	return out.Token, nil
}

// Register creates an account. A successful call does not log the user in;
// the caller follows up with Login.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode registration payload: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/auth/register", contentTypeJSON, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
