package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Hamza08dev/hybridrag/pkg/config"
)

// CircuitBreakerClient wraps a Client with circuit breaking so a
// misbehaving model endpoint stops receiving traffic until it recovers.
type CircuitBreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewCircuitBreakerClient creates a circuit breaker around client. If
// the configuration disables the breaker the client is returned as is.
func NewCircuitBreakerClient(client Client, cfg config.CircuitBreakerConfig, logger *slog.Logger, name string) Client {
	if !cfg.Enabled {
		return client
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &CircuitBreakerClient{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(st),
		logger: logger,
	}
}

// Chat implements Client.
func (c *CircuitBreakerClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*Response), nil
}

// Close implements Client.
func (c *CircuitBreakerClient) Close() error {
	return c.client.Close()
}
