package llm

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamza08dev/hybridrag/pkg/config"
	"github.com/Hamza08dev/hybridrag/pkg/nlp"
)

type scriptedClient struct {
	responses []func() (*Response, error)
	calls     int
}

func (s *scriptedClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	i := s.calls
	s.calls++
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i]()
}

func (s *scriptedClient) Close() error { return nil }

func fastPolicy(attempts int) *nlp.RetryPolicy {
	return &nlp.RetryPolicy{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   1.5,
	}
}

func TestRetryClientRecoversFromTransientFailure(t *testing.T) {
	inner := &scriptedClient{responses: []func() (*Response, error){
		func() (*Response, error) { return nil, &RateLimitError{Message: "slow down"} },
		func() (*Response, error) { return &Response{Content: "ok"}, nil },
	}}

	client := NewRetryClient(inner, fastPolicy(3))
	resp, err := client.Chat(context.Background(), []Message{UserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 2, inner.calls)
}

func TestRetryClientStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("invalid request")
	inner := &scriptedClient{responses: []func() (*Response, error){
		func() (*Response, error) { return nil, permanent },
	}}

	client := NewRetryClient(inner, fastPolicy(3))
	_, err := client.Chat(context.Background(), []Message{UserMessage("hi")})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, inner.calls)
}

func TestCircuitBreakerDisabledReturnsClientUnchanged(t *testing.T) {
	inner := &scriptedClient{responses: []func() (*Response, error){
		func() (*Response, error) { return &Response{Content: "ok"}, nil },
	}}

	client := NewCircuitBreakerClient(inner, config.CircuitBreakerConfig{Enabled: false},
		slog.New(slog.DiscardHandler), "extraction")
	assert.Same(t, inner, client)
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	boom := errors.New("backend down")
	inner := &scriptedClient{responses: []func() (*Response, error){
		func() (*Response, error) { return nil, boom },
	}}

	cfg := config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          30,
		ReadyToTripRatio: 0.5,
	}
	client := NewCircuitBreakerClient(inner, cfg, slog.New(slog.DiscardHandler), "extraction")

	for i := 0; i < 5; i++ {
		_, err := client.Chat(context.Background(), []Message{UserMessage("hi")})
		require.Error(t, err)
	}

	// The breaker is open now, calls fail fast without reaching the client.
	callsBefore := inner.calls
	_, err := client.Chat(context.Background(), []Message{UserMessage("hi")})
	assert.Error(t, err)
	assert.Equal(t, callsBefore, inner.calls)
}

func TestNewOpenAIClientRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient(config.ExtractionConfig{Model: "gpt-4o-mini"}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestRateLimitErrorIsRetryable(t *testing.T) {
	assert.True(t, nlp.IsRetryable(&RateLimitError{Message: "busy"}))
}
