package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avery-lane/storefront-crm-api/models"
)

// APIClient performs outbound queries against the CRM's own HTTP API.
// It is constructed explicitly by whoever owns the jobs' lifecycle and
// carries its own bounded timeout and retry count; callers are expected
// to treat failures as non-fatal.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	retries    int
}

// NewAPIClient creates a new API client for the given base URL
// (e.g. http://localhost:8080/api/v1)
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		retries: 3,
	}
}

// Ping performs a minimal liveness query against the health endpoint
func (c *APIClient) Ping() error {
	resp, err := c.get(c.baseURL + "/health")
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// ordersResponse mirrors the list endpoint's envelope
type ordersResponse struct {
	Success bool           `json:"success"`
	Data    []models.Order `json:"data"`
}

// RecentOrders queries the API for orders placed since the given time
func (c *APIClient) RecentOrders(since time.Time) ([]models.Order, error) {
	endpoint := fmt.Sprintf("%s/orders?order_date_gte=%s",
		c.baseURL, url.QueryEscape(since.Format(time.RFC3339)))

	resp, err := c.get(endpoint)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("orders endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload ordersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode orders response: %w", err)
	}
	return payload.Data, nil
}

// get issues a GET request, retrying transport-level failures up to the
// configured retry count
func (c *APIClient) get(endpoint string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		resp, err := c.httpClient.Get(endpoint)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retries, lastErr)
}
