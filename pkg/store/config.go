package store

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a backend. It maps onto the [store] section
// of the configuration file.
type Config struct {
	Backend string `toml:"backend"`

	// File backend
	Path string `toml:"path,omitempty"`

	// Redis backend
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
	RedisKey      string `toml:"redis_key,omitempty"`

	// Mongo backend
	MongoURI        string `toml:"mongo_uri,omitempty"`
	MongoDatabase   string `toml:"mongo_database,omitempty"`
	MongoCollection string `toml:"mongo_collection,omitempty"`
}

// Defaults for unset Config fields.
const (
	DefaultRedisAddr       = "localhost:6379"
	DefaultRedisKey        = "mandelbrot:bookmarks"
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "mandelbrot"
	DefaultMongoCollection = "bookmarks"

	connectTimeout = 5 * time.Second
)

// Open creates the configured store. Remote backends are pinged, retrying
// transient failures with exponential backoff, before Open returns.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Path)

	case BackendRedis:
		s := NewRedisStore(cfg)
		if err := ping(ctx, logger, "redis", s.Ping); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	case BackendMongo:
		s, err := NewMongoStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := ping(ctx, logger, "mongo", s.Ping); err != nil {
			s.Close()
			return nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q (must be one of: file, redis, mongo)", cfg.Backend)
	}
}

func ping(ctx context.Context, logger *log.Logger, backend string, fn func(context.Context) error) error {
	attempt := 0
	err := RetryWithBackoff(ctx, func() error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := fn(pctx); err != nil {
			logger.Debug("store ping failed", "backend", backend, "attempt", attempt, "err", err)
			return Retryable(err)
		}
		return nil
	})
	if err != nil {
		return storageErr(err, "connect to %s store", backend)
	}
	logger.Debug("store connected", "backend", backend, "attempts", attempt)
	return nil
}
