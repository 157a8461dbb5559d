// Package content provides the two-tier cache in front of the content
// archive and the catalog lookups built on top of it.
package content

//go:generate mockgen -destination=mock/mock_cache.go -package=contentmock github.com/KirkDiggler/rpg-encounter/internal/content Cache,Catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-encounter/internal/clients/archive"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/clock"
)

// DefaultTTL is how long an entry stays fresh when no TTL is given
const DefaultTTL = 10 * time.Minute

// DefaultDir is the on-disk cache location
const DefaultDir = ".cache/content"

// Cache serves archive documents from memory, then disk, then the archive.
// Entries are superseded by freshness or an explicit Clear, never by size.
type Cache interface {
	// Fetch returns the document at path.
	// A zero TTL uses the configured default. ForceRefresh skips both
	// read tiers but still rewrites both on success.
	// Returns errors.Unavailable with ReasonRemoteFetch when the archive fails.
	Fetch(ctx context.Context, input *FetchInput) (*FetchOutput, error)

	// Resolve tries candidate paths in order and returns the first one that
	// yields a non-null document.
	// Returns errors.NotFound with ReasonTemplateNotFound when none resolve.
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)

	// Clear drops one memory entry, or all of them when path is empty.
	// Disk entries are left to expire.
	Clear(ctx context.Context, path string)
}

// FetchInput defines the input for fetching a document
type FetchInput struct {
	Path         string
	TTL          time.Duration
	ForceRefresh bool
}

// Source records which tier answered
type Source string

// Cache tiers
const (
	SourceMemory Source = "memory"
	SourceDisk   Source = "disk"
	SourceRemote Source = "remote"
)

// FetchOutput defines the output for fetching a document
type FetchOutput struct {
	Data      json.RawMessage
	Source    Source
	FetchedAt time.Time
}

// ResolveInput defines the input for resolving candidate paths
type ResolveInput struct {
	Candidates   []string
	TTL          time.Duration
	ForceRefresh bool
}

// ResolveOutput defines the output for resolving candidate paths
type ResolveOutput struct {
	Path string
	Data json.RawMessage
}

type entry struct {
	fetchedAt time.Time
	data      json.RawMessage
}

// Config contains configuration for the content cache.
type Config struct {
	Client archive.Client
	// Dir for the disk tier (optional, defaults to DefaultDir)
	Dir string
	// TTL default freshness window (optional, defaults to DefaultTTL)
	TTL   time.Duration
	Clock clock.Clock
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Client == nil {
		vb.RequiredField("client")
	}
	if cfg.TTL < 0 {
		vb.InvalidField("ttl", "must not be negative")
	}
	return vb.Build()
}

type cache struct {
	client     archive.Client
	disk       *diskStore
	defaultTTL time.Duration
	clock      clock.Clock

	mu     sync.RWMutex
	memory map[string]entry
}

// NewCache creates the process-wide content cache.
func NewCache(cfg *Config) (Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &cache{
		client:     cfg.Client,
		disk:       &diskStore{dir: dir},
		defaultTTL: ttl,
		clock:      c,
		memory:     make(map[string]entry),
	}, nil
}

func (c *cache) Fetch(ctx context.Context, input *FetchInput) (*FetchOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if strings.TrimSpace(input.Path) == "" {
		return nil, errors.InvalidArgument("path is required")
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := c.clock.Now()

	if !input.ForceRefresh {
		if e, ok := c.readMemory(input.Path); ok && now.Sub(e.fetchedAt) < ttl {
			slog.DebugContext(ctx, "content cache hit", "path", input.Path, "tier", SourceMemory)
			return &FetchOutput{Data: e.data, Source: SourceMemory, FetchedAt: e.fetchedAt}, nil
		}

		if e, ok := c.disk.read(input.Path); ok && now.Sub(e.fetchedAt) < ttl {
			c.writeMemory(input.Path, e)
			slog.DebugContext(ctx, "content cache hit", "path", input.Path, "tier", SourceDisk)
			return &FetchOutput{Data: e.data, Source: SourceDisk, FetchedAt: e.fetchedAt}, nil
		}
	}

	slog.DebugContext(ctx, "content cache miss",
		"path", input.Path,
		"force_refresh", input.ForceRefresh)

	data, err := c.client.Fetch(ctx, input.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", input.Path)
	}

	fresh := entry{fetchedAt: c.clock.Now(), data: data}
	c.writeMemory(input.Path, fresh)
	if err := c.disk.write(input.Path, fresh); err != nil {
		slog.WarnContext(ctx, "content disk cache write failed",
			"path", input.Path,
			"error", err.Error())
	}

	return &FetchOutput{Data: data, Source: SourceRemote, FetchedAt: fresh.fetchedAt}, nil
}

func (c *cache) Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	if input == nil || len(input.Candidates) == 0 {
		return nil, errors.InvalidArgument("at least one candidate path is required")
	}

	for _, candidate := range input.Candidates {
		out, err := c.Fetch(ctx, &FetchInput{
			Path:         candidate,
			TTL:          input.TTL,
			ForceRefresh: input.ForceRefresh,
		})
		if err != nil {
			slog.DebugContext(ctx, "content candidate did not resolve",
				"path", candidate,
				"error", err.Error())
			continue
		}
		if isNull(out.Data) {
			continue
		}
		return &ResolveOutput{Path: candidate, Data: out.Data}, nil
	}

	return nil, errors.TemplateNotFoundf("none of %d candidate paths resolved", len(input.Candidates)).
		WithMeta("candidates", strings.Join(input.Candidates, ","))
}

func (c *cache) Clear(ctx context.Context, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path == "" {
		slog.InfoContext(ctx, "clearing content memory cache", "entries", len(c.memory))
		c.memory = make(map[string]entry)
		return
	}
	slog.InfoContext(ctx, "clearing content memory cache entry", "path", path)
	delete(c.memory, path)
}

func (c *cache) readMemory(path string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.memory[path]
	return e, ok
}

func (c *cache) writeMemory(path string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory[path] = e
}

func isNull(data json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(data))
	return trimmed == "" || trimmed == "null"
}
