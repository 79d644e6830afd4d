package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deadlineClient struct {
	deadline time.Time
	ok       bool
}

func (d *deadlineClient) Complete(ctx context.Context, req Request) (*Response, error) {
	d.deadline, d.ok = ctx.Deadline()
	return &Response{Content: "ok"}, nil
}

func TestWithTimeout(t *testing.T) {
	inner := &deadlineClient{}
	assert.Same(t, Client(inner), WithTimeout(inner, 0))

	c := WithTimeout(inner, time.Minute)
	resp, err := c.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.True(t, inner.ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), inner.deadline, 5*time.Second)

	closer, ok := c.(interface{ Close() error })
	require.True(t, ok)
	assert.NoError(t, closer.Close())
}
