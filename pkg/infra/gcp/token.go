package gcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/commercegate/catalog-agent/pkg/infra/httpx"
)

const (
	metadataTokenURL = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token" // #nosec G101
	metadataTimeout  = 5 * time.Second

	// expirySlack refreshes tokens slightly before the provider-reported
	// expiry to avoid racing it on the wire.
	expirySlack = 30 * time.Second
)

var ErrNoCredentials = errors.New("no google credentials available")

// TokenSource yields a bearer token for the managed Google APIs. Failures
// must surface as errors, never panics; callers decide whether that is fatal
// or a fail-open condition.
//
//go:generate mockery --name=TokenSource --dir=. --output=./mocks --filename=token_source_mock.go --case=underscore --with-expecter
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token, typically injected through
// configuration for local development.
type StaticTokenSource struct {
	token string
}

func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	if s.token == "" {
		return "", ErrNoCredentials
	}
	return s.token, nil
}

// MetadataTokenSource fetches access tokens from the GCE metadata server and
// caches them until the provider-managed expiry.
type MetadataTokenSource struct {
	client httpx.Client
	url    string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

type metadataTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type MetadataTokenSourceOption func(*MetadataTokenSource)

func WithMetadataURL(url string) MetadataTokenSourceOption {
	return func(s *MetadataTokenSource) {
		s.url = url
	}
}

func WithHTTPClient(client httpx.Client) MetadataTokenSourceOption {
	return func(s *MetadataTokenSource) {
		s.client = client
	}
}

func NewMetadataTokenSource(opts ...MetadataTokenSourceOption) *MetadataTokenSource {
	s := &MetadataTokenSource{
		client: &http.Client{Timeout: metadataTimeout},
		url:    metadataTokenURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MetadataTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expiresAt) {
		return s.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata request: %w", err)
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCredentials, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: metadata server returned status %d", ErrNoCredentials, resp.StatusCode)
	}

	var tokenResp metadataTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("%w: invalid metadata response: %v", ErrNoCredentials, err)
	}
	if tokenResp.AccessToken == "" {
		return "", ErrNoCredentials
	}

	s.token = tokenResp.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - expirySlack)

	return s.token, nil
}
