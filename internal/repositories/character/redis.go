package character

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

const (
	characterKeyPrefix = "character:"
	// game index is a list so listing keeps insertion order
	gameIndexPrefix = "character:game:"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis character repository.
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

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateActor(input.Actor); err != nil {
		return nil, err
	}

	actor := input.Actor.Clone()
	key := characterKeyPrefix + actor.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("actor with ID %s already exists", actor.ID)
	}

	now := r.clock.Now().Unix()
	actor.CreatedAt = now
	actor.UpdatedAt = now

	data, err := json.Marshal(actor)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal actor")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	if actor.GameID != "" {
		pipe.RPush(ctx, gameIndexPrefix+actor.GameID, actor.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create actor")
	}

	return &CreateOutput{Actor: actor}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errActorIDEmpty)
	}

	actor, err := r.load(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Actor: actor}, nil
}

// getter is satisfied by both the client and a WATCH transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisRepository) load(ctx context.Context, c getter, id string) (*entities.Actor, error) {
	result, err := c.Get(ctx, characterKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.ActorNotFound(id)
		}
		return nil, errors.Wrapf(err, "failed to get actor")
	}

	var actor entities.Actor
	if err := json.Unmarshal([]byte(result), &actor); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal actor")
	}

	return &actor, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateActor(input.Actor); err != nil {
		return nil, err
	}

	existing, err := r.load(ctx, r.client, input.Actor.ID)
	if err != nil {
		return nil, err
	}

	actor := input.Actor.Clone()
	actor.CreatedAt = existing.CreatedAt
	actor.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(actor)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal actor")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, characterKeyPrefix+actor.ID, data, 0)

	if existing.GameID != actor.GameID {
		if existing.GameID != "" {
			pipe.LRem(ctx, gameIndexPrefix+existing.GameID, 0, actor.ID)
		}
		if actor.GameID != "" {
			pipe.RPush(ctx, gameIndexPrefix+actor.GameID, actor.ID)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to update actor")
	}

	return &UpdateOutput{Actor: actor}, nil
}

func (r *redisRepository) UpdateHP(ctx context.Context, input UpdateHPInput) (*UpdateHPOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errActorIDEmpty)
	}

	key := characterKeyPrefix + input.ID
	var updated *entities.Actor

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		actor, err := r.load(ctx, tx, input.ID)
		if err != nil {
			return err
		}

		clampHP(actor, input.HPCurrent)
		actor.UpdatedAt = r.clock.Now().Unix()

		data, err := json.Marshal(actor)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal actor")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = actor
		return nil
	}, key)
	if err != nil {
		if err == redis.TxFailedErr {
			return nil, errors.Abortedf("actor %s changed during hit point update", input.ID)
		}
		var appErr *errors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to update hit points")
	}

	slog.DebugContext(ctx, "updated actor hit points",
		"actor_id", input.ID,
		"hp_current", updated.HPCurrent,
		"hp_max", updated.HPMax)

	return &UpdateHPOutput{Actor: updated}, nil
}

func (r *redisRepository) ListByGameID(
	ctx context.Context,
	input ListByGameIDInput,
) (*ListByGameIDOutput, error) {
	if input.GameID == "" {
		return nil, errors.InvalidArgument(errGameIDEmpty)
	}

	indexKey := gameIndexPrefix + input.GameID
	slog.DebugContext(ctx, "listing actors by game index",
		"game_id", input.GameID,
		"index_key", indexKey)

	ids, err := r.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to read game index",
			"index_key", indexKey,
			"error", err.Error())
		return nil, errors.Wrapf(err, "failed to get actors from index %s", indexKey)
	}

	actors := make([]*entities.Actor, 0, len(ids))
	for _, id := range ids {
		if input.Limit > 0 && len(actors) >= input.Limit {
			break
		}

		actor, err := r.load(ctx, r.client, id)
		if err != nil {
			// Stale index entry, clean it up
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "actor not found, cleaning up index",
					"actor_id", id,
					"index_key", indexKey)
				r.client.LRem(ctx, indexKey, 0, id)
				continue
			}
			slog.ErrorContext(ctx, "failed to get actor from Redis",
				"actor_id", id,
				"error", err.Error())
			return nil, errors.Wrapf(err, "failed to get actor %s", id)
		}
		actors = append(actors, actor)
	}

	slog.DebugContext(ctx, "listed actors by game",
		"game_id", input.GameID,
		"count", len(actors))

	return &ListByGameIDOutput{Actors: actors}, nil
}
