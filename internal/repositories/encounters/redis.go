package encounters

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-encounter/internal/redis"
)

const encounterKeyPrefix = "encounter:"

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis encounter repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed encounter repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{client: cfg.Client, clock: c}, nil
}

func (r *redisRepository) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateEncounter(input.Encounter); err != nil {
		return nil, err
	}

	enc := input.Encounter.Clone()
	now := r.clock.Now().Unix()
	enc.CreatedAt = now
	enc.UpdatedAt = now

	data, err := json.Marshal(enc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal encounter")
	}

	created, err := r.client.SetNX(ctx, encounterKeyPrefix+enc.ID, data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create encounter")
	}
	if !created {
		return nil, errors.AlreadyExistsf("encounter %s already exists", enc.ID)
	}

	return &CreateOutput{Encounter: enc}, nil
}

// getter is satisfied by both the client and a WATCH transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, c getter, id string) (*entities.Encounter, error) {
	result, err := c.Get(ctx, encounterKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.EncounterNotFound(id)
		}
		return nil, errors.Wrapf(err, "failed to get encounter")
	}

	var enc entities.Encounter
	if err := json.Unmarshal([]byte(result), &enc); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal encounter")
	}
	return &enc, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	enc, err := load(ctx, r.client, input.EncounterID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Encounter: enc}, nil
}

func (r *redisRepository) Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateEncounter(input.Encounter); err != nil {
		return nil, err
	}

	key := encounterKeyPrefix + input.Encounter.ID
	var updated *entities.Encounter

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		existing, err := load(ctx, tx, input.Encounter.ID)
		if err != nil {
			return err
		}
		if err := checkUpdate(existing, input); err != nil {
			return err
		}

		enc := input.Encounter.Clone()
		enc.CreatedAt = existing.CreatedAt
		enc.UpdatedAt = r.clock.Now().Unix()

		data, err := json.Marshal(enc)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal encounter")
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		}); err != nil {
			return err
		}

		updated = enc
		return nil
	}, key)
	if err != nil {
		if err == redis.TxFailedErr {
			slog.WarnContext(ctx, "encounter changed during update",
				"encounter_id", input.Encounter.ID)
			return nil, errors.Abortedf("encounter %s changed during update", input.Encounter.ID).
				WithReason(errors.ReasonPointerConflict)
		}
		var appErr *errors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to update encounter")
	}

	return &UpdateOutput{Encounter: updated}, nil
}
