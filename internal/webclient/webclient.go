package webclient

import (
	"context"
)

// WebClient performs a single request and returns the fully read response.
// Non-2xx statuses are not errors at this layer; callers inspect StatusCode.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	// Get is a convenience method for simple GET requests
	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}
