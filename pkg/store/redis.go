package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
)

// RedisStore keeps all bookmarks in one Redis hash: field = name,
// value = JSON bookmark.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore creates a store from cfg. It does not contact the server;
// use Ping or Open for that.
func NewRedisStore(cfg Config) *RedisStore {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = DefaultRedisAddr
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisStoreWithClient(client, cfg.RedisKey)
}

// NewRedisStoreWithClient wraps an existing client. An empty key selects
// DefaultRedisKey.
func NewRedisStoreWithClient(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, name string) (*Bookmark, error) {
	if err := mberr.ValidateBookmarkName(name); err != nil {
		return nil, err
	}

	data, err := s.client.HGet(ctx, s.key, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageErr(err, "redis get bookmark %q", name)
	}
	return decodeBookmark(data, name)
}

func (s *RedisStore) List(ctx context.Context) ([]*Bookmark, error) {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, storageErr(err, "redis list bookmarks")
	}

	out := make([]*Bookmark, 0, len(all))
	for name, data := range all {
		b, err := decodeBookmark([]byte(data), name)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	sortByName(out)
	return out, nil
}

func (s *RedisStore) Save(ctx context.Context, b *Bookmark) error {
	if err := b.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(b)
	if err != nil {
		return storageErr(err, "marshal bookmark %q", b.Name)
	}
	if err := s.client.HSet(ctx, s.key, b.Name, data).Err(); err != nil {
		return storageErr(err, "redis save bookmark %q", b.Name)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := mberr.ValidateBookmarkName(name); err != nil {
		return err
	}
	n, err := s.client.HDel(ctx, s.key, name).Result()
	if err != nil {
		return storageErr(err, "redis delete bookmark %q", name)
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeBookmark(data []byte, name string) (*Bookmark, error) {
	var b Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, storageErr(err, "parse bookmark %q", name)
	}
	return &b, nil
}

var _ Store = (*RedisStore)(nil)
