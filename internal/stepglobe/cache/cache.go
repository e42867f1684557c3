// Package cache keeps the roster in Redis so the globe's polling clients do
// not all hit the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultKey = "stepglobe:roster"
	DefaultTTL = 30 * time.Second
)

// ErrStale is returned by Set when the roster was invalidated after the Get
// that handed out the generation.
var ErrStale = errors.New("cache: roster changed since read")

// Roster caches the full roster. Get reports a miss with ok=false together
// with the generation a refill must pass to Set; Invalidate advances it so a
// snapshot read before a write is never stored after it.
type Roster interface {
	Get(ctx context.Context) (profiles []domain.Profile, gen int64, ok bool, err error)
	Set(ctx context.Context, profiles []domain.Profile, gen int64) error
	Invalidate(ctx context.Context) error
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
}

// RedisRoster stores the roster as one JSON value with a TTL, next to a
// generation counter under key+":gen".
type RedisRoster struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

// NewRedisRoster connects and pings Redis.
func NewRedisRoster(ctx context.Context, opts Options) (*RedisRoster, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping redis %s: %w", opts.Addr, err)
	}
	return NewRedisRosterFromClient(client, opts.Key, opts.TTL), nil
}

func NewRedisRosterFromClient(client *redis.Client, key string, ttl time.Duration) *RedisRoster {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRoster{client: client, key: key, genKey: key + ":gen", ttl: ttl}
}

func (r *RedisRoster) Get(ctx context.Context) ([]domain.Profile, int64, bool, error) {
	vals, err := r.client.MGet(ctx, r.key, r.genKey).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("cache: get roster: %w", err)
	}

	gen, err := parseGen(vals[1])
	if err != nil {
		return nil, 0, false, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}
	var profiles []domain.Profile
	if err := json.Unmarshal([]byte(raw), &profiles); err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		return nil, gen, false, nil
	}
	return profiles, gen, true, nil
}

// Set stores profiles only while the generation still equals gen. WATCH
// makes the check and the write one step against a concurrent Invalidate.
func (r *RedisRoster) Set(ctx context.Context, profiles []domain.Profile, gen int64) error {
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	raw, err := json.Marshal(profiles)
	if err != nil {
		return err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, r.genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, r.key, raw, r.ttl)
			return nil
		})
		return err
	}, r.genKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStale), errors.Is(err, redis.TxFailedErr):
		return ErrStale
	default:
		return fmt.Errorf("cache: set roster: %w", err)
	}
}

// Invalidate drops the roster and advances the generation.
func (r *RedisRoster) Invalidate(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, r.genKey)
		p.Del(ctx, r.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: invalidate roster: %w", err)
	}
	return nil
}

func (r *RedisRoster) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

func (r *RedisRoster) Close() error { return r.client.Close() }

// Nop is used when no Redis is configured; every Get misses.
type Nop struct{}

func (Nop) Get(context.Context) ([]domain.Profile, int64, bool, error) { return nil, 0, false, nil }
func (Nop) Set(context.Context, []domain.Profile, int64) error         { return nil }
func (Nop) Invalidate(context.Context) error                           { return nil }

func parseGen(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cache: roster generation %q: %w", s, err)
	}
	return gen, nil
}
