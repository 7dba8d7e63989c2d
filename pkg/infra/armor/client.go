package armor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/commercegate/catalog-agent/pkg/domain/safety"
	"github.com/commercegate/catalog-agent/pkg/infra/gcp"
	"github.com/commercegate/catalog-agent/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	// RequestTimeout bounds the single classification attempt. There is no
	// retry: one attempt per turn, fail-open on any failure.
	RequestTimeout = 30 * time.Second

	sanitizeAction = ":sanitizeUserPrompt"
	userAgent      = "catalog-agent/1.0"
)

var ErrFailedSanitizeCall = errors.New("prompt sanitization call failed")

// Client calls the remote prompt classification service. Implementations
// must return *safety.ClassificationError for every failure mode; the caller
// treats any error from this boundary as a fail-open signal.
//
//go:generate mockery --name=Client --dir=. --output=./mocks --filename=armor_client_mock.go --case=underscore --with-expecter
type Client interface {
	SanitizeUserPrompt(ctx context.Context, text string) (*SanitizeResponse, error)
}

type ModelArmorClient struct {
	client         httpx.Client
	logger         *logrus.Logger
	tokens         gcp.TokenSource
	circuitBreaker httpx.CircuitBreaker

	baseURL    string
	projectID  string
	location   string
	templateID string
}

func NewModelArmorClient(
	logger *logrus.Logger,
	tokens gcp.TokenSource,
	projectID string,
	location string,
	templateID string,
	opts ...Option,
) *ModelArmorClient {
	c := &ModelArmorClient{
		client:         &http.Client{Timeout: RequestTimeout},
		logger:         logger,
		tokens:         tokens,
		circuitBreaker: httpx.NoopCircuitBreaker{},
		baseURL:        fmt.Sprintf("https://modelarmor.%s.rep.googleapis.com", location),
		projectID:      projectID,
		location:       location,
		templateID:     templateID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ModelArmorClient) SanitizeUserPrompt(ctx context.Context, text string) (*SanitizeResponse, error) {
	var result *SanitizeResponse

	err := c.circuitBreaker.Execute(func() error {
		var execErr error
		result, execErr = c.executeSanitizeRequest(ctx, text)
		return execErr
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Warn("prompt sanitization failed, failing open")
		}
		var classErr *safety.ClassificationError
		if errors.As(err, &classErr) {
			return nil, classErr
		}
		return nil, safety.NewClassificationError("sanitize call failed", err)
	}

	return result, nil
}

func (c *ModelArmorClient) executeSanitizeRequest(ctx context.Context, text string) (*SanitizeResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, safety.NewClassificationError("could not obtain access token", err)
	}

	body, err := json.Marshal(SanitizeRequest{
		UserPromptData: UserPromptData{Text: text},
	})
	if err != nil {
		return nil, safety.NewClassificationError("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, safety.NewClassificationError("failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, safety.NewClassificationError("sanitize request timed out", err)
		}
		return nil, safety.NewClassificationError("sanitize request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"template_id": c.templateID,
		}).Warn("sanitize endpoint returned non-200 status")
		return nil, safety.NewClassificationError(
			"non-200 status",
			fmt.Errorf("%w: status %d: %s", ErrFailedSanitizeCall, resp.StatusCode, string(respBody)),
		)
	}

	var sanitizeResp SanitizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sanitizeResp); err != nil {
		return nil, safety.NewClassificationError("invalid sanitize response", err)
	}

	return &sanitizeResp, nil
}

func (c *ModelArmorClient) endpoint() string {
	return fmt.Sprintf(
		"%s/v1/projects/%s/locations/%s/templates/%s%s",
		c.baseURL, c.projectID, c.location, c.templateID, sanitizeAction,
	)
}
