package store

import (
	"context"
	"fmt"
	"net/http"
)

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// ObtainToken exchanges admin credentials for a store API token. The
// client's own Token is not sent.
func (c Client) ObtainToken(ctx context.Context, creds Credentials) (string, error) {
	if err := Validate(creds); err != nil {
		return "", err
	}
	c.Token = ""
	var out tokenResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/api-token-auth/", nil, creds, &out); err != nil {
		return "", fmt.Errorf("obtain token: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("obtain token: empty token in response")
	}
	return out.Token, nil
}
