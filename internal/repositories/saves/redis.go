package saves

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-gm/internal/redis"
)

const (
	// Key pattern: save:{handle}
	saveKeyPrefix = "save:"
	// Sorted set of handles scored by save time in milliseconds
	indexKey = "saves:index"
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a Redis-backed snapshot store
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	summary := SummaryOf(input.Session)
	data, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	// record and index move together
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, saveKeyPrefix+summary.Handle, data, 0)
	pipe.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(summary.LastSaved.UnixMilli()),
		Member: summary.Handle,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to store save %s in Redis", summary.Handle)
	}

	return &SaveOutput{Summary: summary}, nil
}

func (r *redisRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if err := validateHandle(input); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, saveKeyPrefix+input.Handle).Bytes()
	if err != nil {
		if stderrors.Is(err, redisclient.Nil) {
			return nil, errors.NotFoundf("save %s not found", input.Handle)
		}
		return nil, errors.Wrapf(err, "failed to get save %s from Redis", input.Handle)
	}

	var sess entities.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal save %s", input.Handle)
	}

	return &LoadOutput{Session: &sess}, nil
}

func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	limit := listLimit(input)

	handles, err := r.client.ZRevRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read save index")
	}
	if len(handles) == 0 {
		return &ListOutput{Saves: []Summary{}}, nil
	}

	keys := make([]string, len(handles))
	for i, h := range handles {
		keys[i] = saveKeyPrefix + h
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read saves")
	}

	out := make([]Summary, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// indexed but the record is gone
			slog.Warn("Save index entry without record", "handle", handles[i])
			continue
		}

		var sess entities.Session
		if err := json.Unmarshal([]byte(raw), &sess); err != nil {
			slog.Warn("Skipping unreadable save", "handle", handles[i], "error", err)
			continue
		}
		out = append(out, SummaryOf(&sess))
	}

	return &ListOutput{Saves: out}, nil
}
