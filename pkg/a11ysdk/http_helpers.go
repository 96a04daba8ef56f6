package a11ysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aussiebroadwan/inclusive/pkg/idx"
)

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest sends a JSON request. body may be nil. A non-empty token is
// sent as a bearer credential.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body any,
	token string,
) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", idx.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// call performs one API operation and decodes a 2xx response into target.
// Every failure is returned as an *APIError.
func (c *SDKClient) call(
	ctx context.Context,
	op operation,
	method, path string,
	body any,
	token string,
	target any,
) error {
	resp, err := c.doRequest(ctx, method, path, body, token)
	if err != nil {
		return op.networkError(err)
	}

	return decodeJSON(resp, target, op)
}

// decodeJSON reads the response once and either decodes it into target or
// turns it into a typed error.
func decodeJSON(resp *http.Response, target any, op operation) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return op.networkError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp, bodyBytes, op)
	}

	if target == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return &APIError{
			Kind:       op.kind,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}

	return nil
}
