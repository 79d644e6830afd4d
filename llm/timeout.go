package llm

import (
	"context"
	"time"
)

type timeoutClient struct {
	Client
	timeout time.Duration
}

// WithTimeout bounds every Complete call made through c. A non-positive
// timeout returns c unchanged.
func WithTimeout(c Client, timeout time.Duration) Client {
	if timeout <= 0 {
		return c
	}
	return &timeoutClient{Client: c, timeout: timeout}
}

func (t *timeoutClient) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Client.Complete(ctx, req)
}

// Close releases the wrapped client when it holds resources.
func (t *timeoutClient) Close() error {
	if c, ok := t.Client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
