package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse indicates the model returned no usable content.
var ErrEmptyResponse = errors.New("empty response from model")

// RateLimitError indicates the provider rejected the request for rate
// limiting.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s", e.Message)
}

// HTTPStatusCode reports 429 so the retry layer treats rate limits as
// transient.
func (e *RateLimitError) HTTPStatusCode() int {
	return 429
}
