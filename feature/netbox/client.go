package netbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agent-reconciler/core/api"
)

const (
	pathDevices      = "/api/dcim/devices/"
	pathDeviceIfaces = "/api/dcim/interfaces/"
	pathVMs          = "/api/virtualization/virtual-machines/"
	pathVMIfaces     = "/api/virtualization/interfaces/"
	pathIPAddresses  = "/api/ipam/ip-addresses/"
)

// maxPages stops a misbehaving server from paginating forever.
const maxPages = 10000

// Client talks to the Netbox REST API.
type Client struct {
	api      *api.Client
	pageSize int
}

// page is one Netbox list response.
type page struct {
	Count   int               `json:"count"`
	Next    string            `json:"next"`
	Results []json.RawMessage `json:"results"`
}

// NewClient creates a Netbox client authenticated with an API token.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("netbox token is required")
	}

	c, err := api.NewClient(api.Options{
		BaseURL: cfg.URL,
		Headers: map[string]string{
			"Authorization": "Token " + cfg.Token,
		},
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		Insecure: !cfg.VerifySSL,
	})
	if err != nil {
		return nil, fmt.Errorf("netbox: %w", err)
	}

	size := cfg.PageSize
	if size <= 0 {
		size = 1000
	}
	return &Client{api: c, pageSize: size}, nil
}

// Ping verifies connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	var root map[string]any
	if err := c.api.GetJSON(ctx, "/api/", nil, &root); err != nil {
		return fmt.Errorf("netbox connection test failed: %w", err)
	}
	return nil
}

// ListDevices returns every device.
func (c *Client) ListDevices(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, pathDevices)
}

// ListVirtualMachines returns every virtual machine.
func (c *Client) ListVirtualMachines(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, pathVMs)
}

// ListDeviceInterfaces returns every device interface.
func (c *Client) ListDeviceInterfaces(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, pathDeviceIfaces)
}

// ListVMInterfaces returns every VM interface.
func (c *Client) ListVMInterfaces(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, pathVMIfaces)
}

// ListIPAddresses returns every IP address.
func (c *Client) ListIPAddresses(ctx context.Context) ([]json.RawMessage, error) {
	return c.list(ctx, pathIPAddresses)
}

// list walks a limit/offset paginated endpoint by following next links.
// The result is never nil.
func (c *Client) list(ctx context.Context, path string) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0)
	target := path
	query := url.Values{
		"limit":  {strconv.Itoa(c.pageSize)},
		"offset": {"0"},
	}

	for n := 0; n < maxPages; n++ {
		var p page
		if err := c.api.GetJSON(ctx, target, query, &p); err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", path, err)
		}
		out = append(out, p.Results...)

		if p.Next == "" || len(p.Results) == 0 {
			return out, nil
		}
		// next already carries limit and offset
		next, err := c.nextTarget(p.Next)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", path, err)
		}
		target, query = next, nil
	}
	return nil, fmt.Errorf("failed to list %s: more than %d pages", path, maxPages)
}

// nextTarget keeps a pagination link on the configured host. A link that
// names another scheme or host is reduced to its path and query, so the
// token is only ever sent to the base URL.
func (c *Client) nextTarget(next string) (string, error) {
	u, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("invalid next link %q: %w", next, err)
	}
	base, err := url.Parse(c.api.BaseURL())
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == base.Scheme && strings.EqualFold(u.Host, base.Host) {
		return next, nil
	}

	rel := u.EscapedPath()
	if prefix := strings.TrimRight(base.EscapedPath(), "/"); prefix != "" {
		rel = strings.TrimPrefix(rel, prefix)
	}
	if u.RawQuery != "" {
		rel += "?" + u.RawQuery
	}
	return rel, nil
}
