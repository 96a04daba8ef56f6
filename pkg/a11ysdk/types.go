package a11ysdk

import (
	"encoding/json"

	"github.com/aussiebroadwan/inclusive/pkg/prefs"
)

// ============================================================================
// Internal Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse covers the error bodies the API and its token layer emit.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

// ============================================================================
// Users
// ============================================================================

type Role string

const (
	RoleNormalUser            Role = "normal_user"
	RoleAccessibilityAdvocate Role = "accessibility_advocate"
	RoleAdmin                 Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleNormalUser, RoleAccessibilityAdvocate, RoleAdmin:
		return true
	}
	return false
}

// User is the account record owned by the server. The password is never
// part of it.
type User struct {
	ID                 int64             `json:"id"`
	Username           string            `json:"username"`
	Email              string            `json:"email,omitempty"`
	Role               Role              `json:"role"`
	AccessibilityNeeds prefs.Preferences `json:"accessibility_needs"`
}

// UnmarshalJSON starts from prefs.Defaults so a record without
// accessibility_needs still carries a complete, valid set.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	out := plain{AccessibilityNeeds: prefs.Defaults()}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*u = User(out)
	return nil
}

// ============================================================================
// Requests
// ============================================================================

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the sign-up form. ConfirmPassword is only checked
// locally by Validate and never sent.
type RegisterRequest struct {
	Username           string             `json:"username"`
	Email              string             `json:"email"`
	Password           string             `json:"password"`
	ConfirmPassword    string             `json:"-"`
	Role               Role               `json:"role,omitempty"`
	AccessibilityNeeds *prefs.Preferences `json:"accessibility_needs,omitempty"`
}

// UpdateSettingsRequest wraps a full or partial settings map the way the
// server reads it.
type UpdateSettingsRequest struct {
	AccessibilityNeeds map[string]any `json:"accessibility_needs"`
}

// ============================================================================
// Responses
// ============================================================================

type RegisterResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type SettingsResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the liveness probe.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
