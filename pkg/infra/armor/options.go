package armor

import (
	"github.com/commercegate/catalog-agent/pkg/infra/httpx"
)

type Option func(*ModelArmorClient)

// WithBaseURL overrides the regional endpoint, mostly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *ModelArmorClient) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(client httpx.Client) Option {
	return func(c *ModelArmorClient) {
		if client != nil {
			c.client = client
		}
	}
}

func WithCircuitBreaker(breaker httpx.CircuitBreaker) Option {
	return func(c *ModelArmorClient) {
		if breaker != nil {
			c.circuitBreaker = breaker
		}
	}
}
