package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-encounter/internal/clients/archive"
	"github.com/KirkDiggler/rpg-encounter/internal/clients/oracle"
	"github.com/KirkDiggler/rpg-encounter/internal/config"
	"github.com/KirkDiggler/rpg-encounter/internal/content"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/combat"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/handlers/api/v1alpha1"
	"github.com/KirkDiggler/rpg-encounter/internal/orchestrators/encounter"
	redisclient "github.com/KirkDiggler/rpg-encounter/internal/redis"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/character"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/encounters"
	"github.com/KirkDiggler/rpg-encounter/internal/services/decision"
)

const redisPingTimeout = 5 * time.Second

// contentStack is everything needed to read and expand templates
type contentStack struct {
	cache    content.Cache
	catalog  content.Catalog
	expander variants.Expander
}

func newContentStack(cfg *config.Config) (*contentStack, error) {
	archiveClient, err := archive.New(&archive.Config{
		BaseURL: cfg.ContentBaseURL,
		Timeout: cfg.ContentFetchTimeout(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create archive client")
	}

	cache, err := content.NewCache(&content.Config{
		Client: archiveClient,
		Dir:    cfg.ContentCacheDir,
		TTL:    cfg.ContentCacheTTL(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create content cache")
	}

	catalog, err := content.NewCatalog(&content.CatalogConfig{Cache: cache})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create catalog")
	}

	expander, err := variants.New(&variants.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create expander")
	}

	return &contentStack{cache: cache, catalog: catalog, expander: expander}, nil
}

// repositories picks Redis when an address is configured
func newRepositories(ctx context.Context, cfg *config.Config) (character.Repository, encounters.Repository, error) {
	if cfg.RedisAddr == "" {
		slog.InfoContext(ctx, "using in-memory repositories")
		return character.NewInMemory(nil), encounters.NewInMemory(nil), nil
	}

	client, err := redisclient.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create redis client")
	}
	if err := redisclient.Ping(ctx, client, redisPingTimeout); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to reach redis at %s", cfg.RedisAddr)
	}
	slog.InfoContext(ctx, "using redis repositories", "addr", cfg.RedisAddr)

	characterRepo, err := character.NewRedis(&character.RedisConfig{Client: client})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create character repository")
	}
	encounterRepo, err := encounters.NewRedis(&encounters.RedisConfig{Client: client})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create encounter repository")
	}
	return characterRepo, encounterRepo, nil
}

func newOracle(ctx context.Context, cfg *config.Config) (oracle.Client, error) {
	if !cfg.OracleEnabled() {
		slog.WarnContext(ctx, "OPENAI_API_KEY not set, NPC turns will fail with oracle unavailable")
		return oracle.NewDisabled(), nil
	}
	client, err := oracle.New(&oracle.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.OracleTimeout(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create oracle client")
	}
	return client, nil
}

// newHandler wires the engine behind the HTTP handler
func newHandler(ctx context.Context, cfg *config.Config) (*v1alpha1.Handler, error) {
	stack, err := newContentStack(cfg)
	if err != nil {
		return nil, err
	}

	characterRepo, encounterRepo, err := newRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	oracleClient, err := newOracle(ctx, cfg)
	if err != nil {
		return nil, err
	}

	decider, err := decision.NewService(&decision.Config{
		EncounterRepo: encounterRepo,
		CharacterRepo: characterRepo,
		Oracle:        oracleClient,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decision service")
	}

	bus := events.NewBus()
	resolver, err := combat.NewResolver(&combat.Config{
		CharacterRepo: characterRepo,
		EventBus:      bus,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resolver")
	}

	orchestrator, err := encounter.NewOrchestrator(&encounter.Config{
		EncounterRepo: encounterRepo,
		CharacterRepo: characterRepo,
		Catalog:       stack.catalog,
		Expander:      stack.expander,
		Decider:       decider,
		Resolver:      resolver,
		EventBus:      bus,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create encounter orchestrator")
	}

	return v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		EncounterService: orchestrator,
		DecisionService:  decider,
		Catalog:          stack.catalog,
		Cache:            stack.cache,
		Expander:         stack.expander,
	})
}
