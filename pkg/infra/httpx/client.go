package httpx

import "net/http"

// Client abstracts the outbound HTTP transport so infra clients can be
// exercised against httptest servers or stubs.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
