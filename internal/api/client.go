// Package api provides the authenticated client for the publishing platform
// storage endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/shelfware/shelf-admin/internal/config"
	"github.com/shelfware/shelf-admin/internal/httpx"
	"github.com/shelfware/shelf-admin/internal/logging"
	"github.com/shelfware/shelf-admin/internal/models"
	"github.com/shelfware/shelf-admin/internal/ratelimit"
)

// errorBodyLimit caps how much of a failed response body is carried into the
// returned error as diagnostic text.
const errorBodyLimit = 8 << 10

// Client is the platform API client.
//
// Two underlying HTTP clients are held on purpose: the JSON endpoints go
// through a retrying client, while object streaming uses a plain client so
// that a cancelled preview fetch aborts instead of retrying.
type Client struct {
	jsonClient   *nethttp.Client
	streamClient *nethttp.Client
	baseURL      string
	token        string
	tokenType    string
	limiter      *ratelimit.Limiter
	logger       *logging.Logger
}

// NewClient creates a new API client from the loaded configuration.
func NewClient(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	base, err := httpx.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}
	stream, err := httpx.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure streaming HTTP client: %w", err)
	}

	tokenType := cfg.Platform.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &Client{
		jsonClient:   httpx.NewRetryingClient(base, logger),
		streamClient: stream,
		baseURL:      strings.TrimSuffix(cfg.Platform.URL, "/"),
		token:        cfg.Platform.Token,
		tokenType:    tokenType,
		limiter:      ratelimit.NewAdminScopeLimiter(),
		logger:       logger,
	}, nil
}

// authorization builds the Authorization header value.
func (c *Client) authorization() string {
	return c.tokenType + " " + c.token
}

// storagePath builds the URL path for an item's storage root.
func storagePath(container, item string) string {
	return fmt.Sprintf("/api/v1/storage/%s/%s", url.PathEscape(container), url.PathEscape(item))
}

// getJSON performs an authenticated GET against a JSON endpoint and decodes
// the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter cancelled: %w", err)
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization())
	req.Header.Set("Accept", "application/json")

	resp, err := c.jsonClient.Do(req)
	if err != nil {
		c.logger.Debug().Str("path", path).Err(err).Msg("API call failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(nethttp.MethodGet, path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// StorageTree fetches the recursive storage listing for an item.
func (c *Client) StorageTree(ctx context.Context, container, item string) (*models.RawStorageNode, error) {
	var root models.RawStorageNode
	if err := c.getJSON(ctx, storagePath(container, item)+"/", &root); err != nil {
		return nil, fmt.Errorf("get storage tree failed: %w", err)
	}
	return &root, nil
}

// ConfigDocument fetches the item's JSON config document. The document's
// shape is not guaranteed: it may be partial, empty, or missing entirely
// (a 404 is an error like any other; callers degrade to fallback metadata).
func (c *Client) ConfigDocument(ctx context.Context, container, item string) (map[string]any, error) {
	var doc map[string]any
	if err := c.getJSON(ctx, storagePath(container, item)+"/config", &doc); err != nil {
		return nil, fmt.Errorf("get config document failed: %w", err)
	}
	return doc, nil
}

// CatalogRecord fetches the catalog entry for an item. The catalog is the
// authoritative baseline: metadata reconciliation falls back to it per field
// when the config document is missing or incomplete.
func (c *Client) CatalogRecord(ctx context.Context, container, item string) (models.ItemRecord, error) {
	var record models.ItemRecord
	path := "/api/v1/catalog/" + url.PathEscape(container) + "/" + url.PathEscape(item)
	if err := c.getJSON(ctx, path, &record); err != nil {
		return models.ItemRecord{}, fmt.Errorf("get catalog record failed: %w", err)
	}
	return record, nil
}

// FetchObject opens a streaming read of a binary object under an item's
// storage root.
//
// When stream is true a Range: bytes=0- header is sent, signalling "stream
// from the start"; the consumer pulls the rest through subsequent range
// requests. Caching is disabled on every object fetch so that
// authorization-bearing responses never land in an intermediate cache.
//
// The returned size is the Content-Length when known, -1 otherwise. The
// caller owns the ReadCloser.
func (c *Client) FetchObject(ctx context.Context, container, item, relPath string, stream bool) (io.ReadCloser, int64, error) {
	q := url.Values{}
	q.Set("path", relPath)
	path := storagePath(container, item) + "/object?" + q.Encode()

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization())
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	if stream {
		req.Header.Set("Range", "bytes=0-")
	}

	// The object endpoint sits in the platform's high-volume file-access
	// scope; the admin-scope limiter does not apply here.
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("object fetch failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := newStatusError(nethttp.MethodGet, path, resp)
		resp.Body.Close()
		return nil, 0, statusErr
	}

	return resp.Body, resp.ContentLength, nil
}

// Item binds the client to a single container/item pair, yielding the
// narrow backend surface the explorer session consumes.
func (c *Client) Item(container, item string) *ItemBackend {
	return &ItemBackend{client: c, container: container, item: item}
}

// ItemBackend is an api.Client scoped to one shelf item.
type ItemBackend struct {
	client    *Client
	container string
	item      string
}

// RootPrefix returns the absolute path prefix shared by every node in the
// item's storage listing.
func (b *ItemBackend) RootPrefix() string {
	return b.container + "/" + b.item + "/"
}

// StorageTree fetches the item's storage listing.
func (b *ItemBackend) StorageTree(ctx context.Context) (*models.RawStorageNode, error) {
	return b.client.StorageTree(ctx, b.container, b.item)
}

// ConfigDocument fetches the item's config document.
func (b *ItemBackend) ConfigDocument(ctx context.Context) (map[string]any, error) {
	return b.client.ConfigDocument(ctx, b.container, b.item)
}

// OpenObject opens a binary object by storage-relative path.
func (b *ItemBackend) OpenObject(ctx context.Context, relPath string, stream bool) (io.ReadCloser, int64, error) {
	return b.client.FetchObject(ctx, b.container, b.item, relPath, stream)
}
