package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nate2211/github-analytics/internal/domain"
)

// Client is the API client for github-analytics
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchAnalytics fetches and aggregates analytics for the given repos. An
// empty repos list falls back to the server's active preset; an empty token
// skips the traffic endpoints.
func (c *Client) FetchAnalytics(repos []string, token string) (*domain.Report, error) {
	body := map[string]interface{}{
		"repos": repos,
		"token": token,
	}

	var response struct {
		Data *domain.Report `json:"data"`
	}
	if err := c.do(http.MethodPost, "/api/v1/analytics", body, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Presets holds the server's preset state.
type Presets struct {
	Presets      map[string][]string `json:"presets"`
	ActivePreset string              `json:"active_preset"`
}

// GetPresets retrieves the stored presets
func (c *Client) GetPresets() (*Presets, error) {
	var response struct {
		Data *Presets `json:"data"`
	}
	if err := c.do(http.MethodGet, "/api/v1/presets", nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// SavePreset creates or replaces a preset and makes it active
func (c *Client) SavePreset(name string, repos []string) (*Presets, error) {
	body := map[string]interface{}{"repos": repos}

	var response struct {
		Data *Presets `json:"data"`
	}
	if err := c.do(http.MethodPut, "/api/v1/presets/"+name, body, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// ActivatePreset makes an existing preset active
func (c *Client) ActivatePreset(name string) error {
	return c.do(http.MethodPost, "/api/v1/presets/"+name+"/activate", nil, nil)
}

// DeletePreset removes a preset
func (c *Client) DeletePreset(name string) (*Presets, error) {
	var response struct {
		Data *Presets `json:"data"`
	}
	if err := c.do(http.MethodDelete, "/api/v1/presets/"+name, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.do(http.MethodGet, "/health", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) do(method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s - %s", resp.Status, string(data))
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
