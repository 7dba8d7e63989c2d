package retail_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commercegate/catalog-agent/pkg/infra/gcp"
	"github.com/commercegate/catalog-agent/pkg/infra/retail"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *retail.SearchClient {
	return retail.NewSearchClient(
		logrus.New(),
		gcp.NewStaticTokenSource("test-token"),
		retail.Config{
			ProjectID:     "test-project",
			ServingConfig: "default_search",
			PageSize:      5,
			VisitorID:     "visitor-1",
		},
		retail.WithBaseURL(baseURL),
		retail.WithHTTPClient(http.DefaultClient),
	)
}

func TestSearchClient_Search(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t,
				"/v2/projects/test-project/locations/global/catalogs/default_catalog/placements/default_search:search",
				r.URL.Path,
			)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "coffee mug", req["query"])
			assert.Equal(t, "visitor-1", req["visitorId"])
			assert.Equal(t, float64(5), req["pageSize"])
			assert.Equal(t,
				"projects/test-project/locations/global/catalogs/default_catalog/branches/0",
				req["branch"],
			)

			_, _ = w.Write([]byte(`{
				"results": [
					{
						"id": "GGOEGAEB164818",
						"product": {
							"id": "GGOEGAEB164818",
							"title": "Campfire Mug",
							"categories": ["Drinkware"],
							"priceInfo": {"price": 12.5, "currencyCode": "USD"},
							"availability": "IN_STOCK",
							"uri": "https://shop.example.com/mug",
							"images": [{"uri": "https://shop.example.com/mug.jpg"}]
						}
					},
					{"id": "orphan-result"}
				]
			}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		products, err := client.Search(context.Background(), "coffee mug")

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "GGOEGAEB164818", products[0].ID)
		assert.Equal(t, "Campfire Mug", products[0].Title)
		assert.Equal(t, "12.5 USD", products[0].Price)
		assert.Equal(t, "IN_STOCK", products[0].Availability)
		assert.Equal(t, "https://shop.example.com/mug.jpg", products[0].Image)
	})

	t.Run("empty result set", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		products, err := client.Search(context.Background(), "nonexistent thing")

		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		products, err := client.Search(context.Background(), "coffee mug")

		assert.Nil(t, products)
		assert.ErrorIs(t, err, retail.ErrFailedSearchCall)
	})

	t.Run("malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)

		products, err := client.Search(context.Background(), "coffee mug")

		assert.Nil(t, products)
		assert.Error(t, err)
	})
}
