package a11ysdk

import (
	"context"
	"net/http"
)

// FetchCurrentUser resolves token to the user it belongs to. An empty
// token fails with ErrUnauthenticated without contacting the server.
func (c *SDKClient) FetchCurrentUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, &APIError{Kind: KindUnauthenticated}
	}

	var user User
	if err := c.call(ctx, opFetchUser, http.MethodGet, "/user/settings", nil, token, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateSettings stores a full or partial settings map on the server.
func (c *SDKClient) UpdateSettings(ctx context.Context, token string, settings map[string]any) (*SettingsResponse, error) {
	if token == "" {
		return nil, &APIError{Kind: KindUnauthenticated}
	}

	var out SettingsResponse
	body := UpdateSettingsRequest{AccessibilityNeeds: settings}
	if err := c.call(ctx, opUpdateSettings, http.MethodPost, "/user/settings", body, token, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
