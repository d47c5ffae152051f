package snapshot

import (
	"context"
	"fmt"
	"sort"
	"time"

	redis "github.com/redis/go-redis/v9"

	"mapforge/pkg/engine/clock"
	"mapforge/pkg/errors"
)

const (
	// Key pattern: mapforge:snapshot:{id}
	snapshotKeyPrefix = "mapforge:snapshot:"
	// Key pattern: mapforge:seed:{seed}, a set of snapshot ids
	seedKeyPrefix = "mapforge:seed:"

	errSnapshotNil = "snapshot cannot be nil"
	errIDEmpty     = "snapshot ID cannot be empty"
)

// Config holds the dependencies of the Redis repository.
type Config struct {
	Client redis.Cmdable
	Clock  clock.Clock
	// TTL applies to every saved snapshot. Zero keeps records forever.
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.TTL < 0 {
		vb.Fieldf("TTL", "must not be negative, got %s", c.TTL)
	}
	return vb.Build()
}

type redisRepository struct {
	client redis.Cmdable
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed snapshot repository.
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &redisRepository{client: cfg.Client, clock: cfg.Clock, ttl: cfg.TTL}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.Snapshot == nil {
		return nil, errors.InvalidArgument(errSnapshotNil)
	}
	s := input.Snapshot
	if s.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	data, err := Encode(s)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, snapshotKey(s.ID), data, r.ttl)
	pipe.SAdd(ctx, seedKey(s.Seed), s.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save snapshot %s", s.ID)
	}

	out := &SaveOutput{ID: s.ID}
	if r.ttl > 0 {
		expires := r.clock.Now().Add(r.ttl)
		out.ExpiresAt = &expires
	}
	return out, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	data, err := r.client.Get(ctx, snapshotKey(input.ID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("snapshot %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get snapshot %s", input.ID)
	}

	s, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", input.ID)
	}
	return &GetOutput{Snapshot: s}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) error {
	if input == nil || input.ID == "" {
		return errors.InvalidArgument(errIDEmpty)
	}

	got, err := r.Get(ctx, &GetInput{ID: input.ID})
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, snapshotKey(input.ID))
	pipe.SRem(ctx, seedKey(got.Snapshot.Seed), input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to delete snapshot %s", input.ID)
	}
	return nil
}

// ListBySeed drops index entries whose snapshot has expired.
func (r *redisRepository) ListBySeed(ctx context.Context, input *ListBySeedInput) (*ListBySeedOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	key := seedKey(input.Seed)
	ids, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list snapshots for seed %d", input.Seed)
	}

	live := make([]string, 0, len(ids))
	var stale []any
	for _, id := range ids {
		n, err := r.client.Exists(ctx, snapshotKey(id)).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to check snapshot %s", id)
		}
		if n == 0 {
			stale = append(stale, id)
			continue
		}
		live = append(live, id)
	}
	if len(stale) > 0 {
		if err := r.client.SRem(ctx, key, stale...).Err(); err != nil {
			return nil, errors.Wrapf(err, "failed to prune seed index %d", input.Seed)
		}
	}

	sort.Strings(live)
	return &ListBySeedOutput{IDs: live}, nil
}

func snapshotKey(id string) string {
	return snapshotKeyPrefix + id
}

func seedKey(seed int64) string {
	return fmt.Sprintf("%s%d", seedKeyPrefix, seed)
}
