package retail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/commercegate/catalog-agent/pkg/domain/catalog"
	"github.com/commercegate/catalog-agent/pkg/infra/gcp"
	"github.com/commercegate/catalog-agent/pkg/infra/httpx"
	"github.com/commercegate/catalog-agent/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	requestTimeout = 30 * time.Second
	searchAction   = ":search"
)

var ErrFailedSearchCall = errors.New("catalog search call failed")

// Client runs ranked product searches against the managed catalog service.
//
//go:generate mockery --name=Client --dir=. --output=./mocks --filename=retail_client_mock.go --case=underscore --with-expecter
type Client interface {
	Search(ctx context.Context, query string) ([]catalog.Product, error)
}

type Config struct {
	ProjectID     string
	ServingConfig string
	Branch        string
	PageSize      int
	VisitorID     string
}

type SearchClient struct {
	client         httpx.Client
	logger         *logrus.Logger
	tokens         gcp.TokenSource
	circuitBreaker httpx.CircuitBreaker

	baseURL string
	cfg     Config
}

func NewSearchClient(
	logger *logrus.Logger,
	tokens gcp.TokenSource,
	cfg Config,
	opts ...Option,
) *SearchClient {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.Branch == "" {
		cfg.Branch = "0"
	}
	c := &SearchClient{
		client:         &http.Client{Timeout: requestTimeout},
		logger:         logger,
		tokens:         tokens,
		circuitBreaker: httpx.NoopCircuitBreaker{},
		baseURL:        "https://retail.googleapis.com",
		cfg:            cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	Query     string `json:"query"`
	VisitorID string `json:"visitorId"`
	PageSize  int    `json:"pageSize"`
	Branch    string `json:"branch"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID      string       `json:"id"`
	Product *wireProduct `json:"product"`
}

type wireProduct struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Categories   []string   `json:"categories"`
	PriceInfo    *priceInfo `json:"priceInfo"`
	Availability string     `json:"availability"`
	URI          string     `json:"uri"`
	Images       []image    `json:"images"`
}

type priceInfo struct {
	Price        float64 `json:"price"`
	CurrencyCode string  `json:"currencyCode"`
}

type image struct {
	URI string `json:"uri"`
}

func (c *SearchClient) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	var products []catalog.Product

	start := time.Now()
	err := c.circuitBreaker.Execute(func() error {
		var execErr error
		products, execErr = c.executeSearchRequest(ctx, query)
		return execErr
	})
	prometheus.CatalogSearchLatency.Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("catalog search failed")
		}
		return nil, err
	}

	return products, nil
}

func (c *SearchClient) executeSearchRequest(ctx context.Context, query string) ([]catalog.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	body, err := json.Marshal(searchRequest{
		Query:     query,
		VisitorID: c.cfg.VisitorID,
		PageSize:  c.cfg.PageSize,
		Branch:    c.branchPath(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call catalog search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.WithField("status_code", resp.StatusCode).Error("catalog search returned non-200 status")
		return nil, fmt.Errorf("%w: status %d: %s", ErrFailedSearchCall, resp.StatusCode, string(respBody))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("invalid search response: %w", err)
	}

	products := make([]catalog.Product, 0, len(searchResp.Results))
	for _, result := range searchResp.Results {
		if result.Product == nil {
			continue
		}
		products = append(products, mapProduct(result.Product))
	}

	return products, nil
}

func mapProduct(p *wireProduct) catalog.Product {
	product := catalog.Product{
		ID:           p.ID,
		Title:        p.Title,
		Categories:   p.Categories,
		Availability: p.Availability,
		URL:          p.URI,
	}
	if p.PriceInfo != nil {
		product.Price = strings.TrimSpace(fmt.Sprintf("%g %s", p.PriceInfo.Price, p.PriceInfo.CurrencyCode))
	}
	if len(p.Images) > 0 {
		product.Image = p.Images[0].URI
	}
	return product
}

// placement identifies the serving config the ranking service uses.
func (c *SearchClient) placement() string {
	return fmt.Sprintf(
		"projects/%s/locations/global/catalogs/default_catalog/placements/%s",
		c.cfg.ProjectID, c.cfg.ServingConfig,
	)
}

func (c *SearchClient) branchPath() string {
	return fmt.Sprintf(
		"projects/%s/locations/global/catalogs/default_catalog/branches/%s",
		c.cfg.ProjectID, c.cfg.Branch,
	)
}

func (c *SearchClient) endpoint() string {
	return fmt.Sprintf("%s/v2/%s%s", c.baseURL, c.placement(), searchAction)
}
