package nessus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"agent-reconciler/core/api"
)

// Client talks to the Nessus REST API.
type Client struct {
	api *api.Client
}

// NewClient creates a Nessus client authenticated with API keys.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("nessus access key and secret key are required")
	}

	c, err := api.NewClient(api.Options{
		BaseURL: cfg.URL,
		Headers: map[string]string{
			"X-ApiKeys": fmt.Sprintf("accessKey=%s; secretKey=%s", cfg.AccessKey, cfg.SecretKey),
		},
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		Insecure: !cfg.VerifySSL,
	})
	if err != nil {
		return nil, fmt.Errorf("nessus: %w", err)
	}
	return &Client{api: c}, nil
}

// Ping verifies connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	var props map[string]any
	if err := c.api.GetJSON(ctx, "/server/properties", nil, &props); err != nil {
		return fmt.Errorf("nessus connection test failed: %w", err)
	}
	return nil
}

// ListAgents returns the raw agent list.
func (c *Client) ListAgents(ctx context.Context) ([]json.RawMessage, error) {
	var resp struct {
		Agents []json.RawMessage `json:"agents"`
	}
	if err := c.api.GetJSON(ctx, "/agents", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	if resp.Agents == nil {
		resp.Agents = make([]json.RawMessage, 0)
	}
	return resp.Agents, nil
}

// GetAgent returns the raw details of one agent.
func (c *Client) GetAgent(ctx context.Context, id string) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.api.GetJSON(ctx, "/agents/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get agent %s: %w", id, err)
	}
	return resp, nil
}
