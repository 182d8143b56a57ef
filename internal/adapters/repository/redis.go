package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/propcast/pkg/metrics"
)

const backendRedis = "redis"

// RedisStore keeps runs as JSON values with a TTL and their IDs in a
// capped list. Keys:
//
//	<prefix>:run:<id>  run JSON
//	<prefix>:runs      run IDs, newest first
type RedisStore struct {
	client   redis.Cmdable
	settings settings
}

// NewRedisStore wraps a go-redis client.
func NewRedisStore(client redis.Cmdable, opts ...Option) *RedisStore {
	return &RedisStore{client: client, settings: newSettings(opts)}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) runKey(id string) string { return s.settings.keyPrefix + ":run:" + id }
func (s *RedisStore) listKey() string         { return s.settings.keyPrefix + ":runs" }

// Save writes the run and pushes its ID in one transaction.
func (s *RedisStore) Save(ctx context.Context, run Run) (err error) {
	start := time.Now()
	defer func() { s.record("save", start, err) }()

	if run.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRun)
	}
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshaling run: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.runKey(run.ID), data, s.settings.ttl)
	pipe.LRem(ctx, s.listKey(), 0, run.ID)
	pipe.LPush(ctx, s.listKey(), run.ID)
	pipe.LTrim(ctx, s.listKey(), 0, int64(s.settings.historySize-1))
	pipe.Expire(ctx, s.listKey(), s.settings.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// Get reads one run. Expired runs report ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (run Run, err error) {
	start := time.Now()
	defer func() { s.record("get", start, err) }()
	return s.get(ctx, id)
}

func (s *RedisStore) get(ctx context.Context, id string) (Run, error) {
	data, err := s.client.Get(ctx, s.runKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("reading run %s: %w", id, err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, fmt.Errorf("unmarshaling run %s: %w", id, err)
	}
	return run, nil
}

// Latest reads the run at the head of the list.
func (s *RedisStore) Latest(ctx context.Context) (run Run, err error) {
	start := time.Now()
	defer func() { s.record("latest", start, err) }()

	ids, err := s.client.LRange(ctx, s.listKey(), 0, 0).Result()
	if err != nil {
		return Run{}, fmt.Errorf("reading run list: %w", err)
	}
	if len(ids) == 0 {
		return Run{}, ErrNotFound
	}
	return s.get(ctx, ids[0])
}

// List returns summaries for the newest runs that have not expired.
func (s *RedisStore) List(ctx context.Context, limit int) (out []Summary, err error) {
	start := time.Now()
	defer func() { s.record("list", start, err) }()

	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	ids, err := s.client.LRange(ctx, s.listKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading run list: %w", err)
	}
	out = make([]Summary, 0, len(ids))
	for _, id := range ids {
		run, err := s.get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, run.Summary())
	}
	return out, nil
}

// Count returns the length of the run list.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, s.listKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) record(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		result = "miss"
	case err != nil:
		result = "error"
		metrics.RecordErrorByComponent("store", op)
	}
	metrics.RecordStoreOperation(backendRedis, op, result, elapsedMs(start))
}
