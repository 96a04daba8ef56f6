package a11ysdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.call(ctx, opHealth, http.MethodGet, "/livez", nil, "", &health); err != nil {
		return nil, err
	}

	return &health, nil
}
