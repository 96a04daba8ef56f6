package a11ysdk

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/inclusive/pkg/prefs"
)

// Register creates an account. It does not log in. A missing role defaults
// to normal_user and missing accessibility needs default to prefs.Defaults.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if req.Role == "" {
		req.Role = RoleNormalUser
	}
	if req.AccessibilityNeeds == nil {
		d := prefs.Defaults()
		req.AccessibilityNeeds = &d
	}

	var out RegisterResponse
	if err := c.call(ctx, opRegister, http.MethodPost, "/register", req, "", &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Login exchanges credentials for a bearer token and the user record.
func (c *SDKClient) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.call(ctx, opLogin, http.MethodPost, "/login", creds, "", &out); err != nil {
		return nil, err
	}

	if out.AccessToken == "" {
		return nil, &APIError{Kind: KindLoginFailed, StatusCode: http.StatusOK, Message: "Login response carried no access token"}
	}

	return &out, nil
}
