package a11ysdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures so callers can branch without parsing
// messages.
type ErrorKind string

const (
	KindNetwork              ErrorKind = "network_error"
	KindRegistrationFailed   ErrorKind = "registration_failed"
	KindLoginFailed          ErrorKind = "login_failed"
	KindFetchUserFailed      ErrorKind = "fetch_user_failed"
	KindUpdateSettingsFailed ErrorKind = "update_settings_failed"
	KindUnauthenticated      ErrorKind = "unauthenticated"
	KindUnavailable          ErrorKind = "service_unavailable"
)

var defaultMessages = map[ErrorKind]string{
	KindNetwork:              "Network error",
	KindRegistrationFailed:   "Registration failed",
	KindLoginFailed:          "Login failed",
	KindFetchUserFailed:      "Failed to get user data",
	KindUpdateSettingsFailed: "Failed to update settings",
	KindUnauthenticated:      "No token found",
	KindUnavailable:          "Service unavailable",
}

// APIError is the single error type returned by SDKClient. Message is
// the server supplied message when there is one, otherwise a fixed default
// for the operation.
type APIError struct {
	Kind       ErrorKind
	StatusCode int // zero when no response was received
	Message    string
	Err        error // underlying transport or decode error, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return defaultMessages[e.Kind]
}

func (e *APIError) Unwrap() error { return e.Err }

// Is reports whether target is an APIError of the same kind, which lets
// callers match with errors.Is(err, a11ysdk.ErrLoginFailed).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is. They carry only a kind.
var (
	ErrNetwork              = &APIError{Kind: KindNetwork}
	ErrRegistrationFailed   = &APIError{Kind: KindRegistrationFailed}
	ErrLoginFailed          = &APIError{Kind: KindLoginFailed}
	ErrFetchUserFailed      = &APIError{Kind: KindFetchUserFailed}
	ErrUpdateSettingsFailed = &APIError{Kind: KindUpdateSettingsFailed}
	ErrUnauthenticated      = &APIError{Kind: KindUnauthenticated}
	ErrUnavailable          = &APIError{Kind: KindUnavailable}
)

// operation names the failure kind and messages used by one endpoint.
type operation struct {
	kind       ErrorKind
	networkMsg string
}

var (
	opRegister       = operation{KindRegistrationFailed, "Network error during registration"}
	opLogin          = operation{KindLoginFailed, "Network error during login"}
	opFetchUser      = operation{KindFetchUserFailed, "Network error while fetching user"}
	opUpdateSettings = operation{KindUpdateSettingsFailed, "Network error while updating settings"}
	opHealth         = operation{KindUnavailable, "Network error during health check"}
)

func (op operation) networkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: op.networkMsg, Err: err}
}

// parseErrorResponse builds an APIError for a non-2xx response. The server
// reports failures as {"message": ...}; the token layer uses {"msg": ...}.
func parseErrorResponse(resp *http.Response, body []byte, op operation) *APIError {
	apiErr := &APIError{
		Kind:       op.kind,
		StatusCode: resp.StatusCode,
		Message:    defaultMessages[op.kind],
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		if len(body) > 0 {
			apiErr.Err = fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return apiErr
	}

	for _, m := range []string{errResp.Message, errResp.Error, errResp.Msg} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}

	return apiErr
}
