package retail

import (
	"github.com/commercegate/catalog-agent/pkg/infra/httpx"
)

type Option func(*SearchClient)

// WithBaseURL overrides the service endpoint, mostly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *SearchClient) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(client httpx.Client) Option {
	return func(c *SearchClient) {
		if client != nil {
			c.client = client
		}
	}
}

func WithCircuitBreaker(breaker httpx.CircuitBreaker) Option {
	return func(c *SearchClient) {
		if breaker != nil {
			c.circuitBreaker = breaker
		}
	}
}
