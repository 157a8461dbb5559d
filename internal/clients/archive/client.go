// Package archive is the client for the read-only remote content archive
// that hosts monster, item, spell and class documents as raw JSON files.
package archive

//go:generate mockgen -destination=mock/mock_client.go -package=archivemock github.com/KirkDiggler/rpg-encounter/internal/clients/archive Client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

// DefaultBaseURL is the public archive location
const DefaultBaseURL = "https://raw.githubusercontent.com/Ocytowine/ArchiveValmorin/main"

// DefaultTimeout bounds every document fetch
const DefaultTimeout = 15 * time.Second

// maxDocumentSize caps how much of a response body is read
const maxDocumentSize = 32 << 20

// Client fetches JSON documents by relative path
type Client interface {
	// Fetch returns the document at path.
	// Returns errors.Unavailable with ReasonRemoteFetch on transport failure,
	// timeout, a non-2xx status or a body that is not JSON.
	Fetch(ctx context.Context, path string) (json.RawMessage, error)
}

// Config contains configuration options for the archive client.
type Config struct {
	// BaseURL of the archive (optional, defaults to DefaultBaseURL)
	BaseURL string
	// Timeout for each request (optional, defaults to 15 seconds)
	Timeout time.Duration
	// HTTPClient overrides the transport (optional)
	HTTPClient *http.Client
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Timeout < 0 {
		return errors.NewValidationBuilder().InvalidField("timeout", "must be positive").Build()
	}
	return nil
}

type client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a new archive client with the given configuration.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: httpClient,
	}, nil
}

func (c *client) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidArgument("path is required")
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.RemoteFetchf(err, "failed to build request for %s", path)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.RemoteFetchf(err, "failed to fetch %s", path).WithMeta("url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.RemoteFetchf(nil, "fetch %s returned HTTP %d", path, resp.StatusCode).
			WithMeta("url", url).
			WithMeta("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, errors.RemoteFetchf(err, "failed to read %s", path)
	}
	if !json.Valid(body) {
		return nil, errors.RemoteFetchf(nil, "document %s is not valid JSON", path).WithMeta("url", url)
	}

	slog.DebugContext(ctx, "fetched archive document",
		"path", path,
		"bytes", len(body),
		"duration", time.Since(start))

	return json.RawMessage(body), nil
}
