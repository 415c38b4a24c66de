package llm

import (
	"context"

	"github.com/Hamza08dev/hybridrag/pkg/nlp"
)

// RetryClient wraps a Client with retry logic for transient failures.
type RetryClient struct {
	client Client
	policy *nlp.RetryPolicy
}

// NewRetryClient wraps client with the given retry policy.
func NewRetryClient(client Client, policy *nlp.RetryPolicy) *RetryClient {
	return &RetryClient{client: client, policy: policy}
}

// Chat implements Client.
func (c *RetryClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	var resp *Response
	err := nlp.Retry(ctx, c.policy, func() error {
		var err error
		resp, err = c.client.Chat(ctx, messages)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Close implements Client.
func (c *RetryClient) Close() error {
	return c.client.Close()
}
