package a11ysdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is where the platform API listens in local development.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultTimeout bounds a single request when no other client is supplied.
const DefaultTimeout = 10 * time.Second

// SDKClient is a stateless client for the accessibility platform API.
// It never stores credentials: authenticated calls take the bearer token as
// an argument.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for baseURL using DefaultTimeout.
func NewSDKClient(baseURL string) *SDKClient {
	return NewSDKClientWithTimeout(baseURL, DefaultTimeout)
}

// NewSDKClientWithTimeout is like NewSDKClient with an explicit transport
// timeout. Zero disables the timeout.
func NewSDKClientWithTimeout(baseURL string, timeout time.Duration) *SDKClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}
