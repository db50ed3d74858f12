package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/cartridge/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Fetcher implements ports.SourceFetcher on top of Redis, so several players
// can share one track storage.
type Fetcher struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Fetcher)

// WithTTL sets the expiration for published tracks.
func WithTTL(ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.ttl = ttl
	}
}

// WithPrefix sets the key prefix for tracks.
func WithPrefix(prefix string) Option {
	return func(f *Fetcher) {
		f.prefix = prefix
	}
}

// New creates a new Redis fetcher with options.
func New(address, password string, db int, opts ...Option) *Fetcher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis fetcher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: client,
		prefix: "cartridge:track:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Fetcher) key(file string) string {
	return f.prefix + "source:" + file
}

func (f *Fetcher) indexKey() string {
	return f.prefix + "index"
}

// Publish stores a track source and adds it to the listing index.
func (f *Fetcher) Publish(ctx context.Context, name, source string) error {
	file := domain.FileName(name)
	pipe := f.client.Pipeline()

	// Use 0 for no expiration if ttl is not set.
	pipe.Set(ctx, f.key(file), source, f.ttl)

	// Score = expiry time, so List can prune lazily.
	score := float64(time.Now().Add(f.ttl).Unix())
	if f.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, f.indexKey(), backend.Z{
		Score:  score,
		Member: file,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish track to redis: %w", err)
	}
	return nil
}

// Fetch retrieves a track source from Redis.
func (f *Fetcher) Fetch(ctx context.Context, file string) (string, error) {
	val, err := f.client.Get(ctx, f.key(file)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, file)
		}
		return "", &domain.TransportError{File: file, Err: err}
	}
	return val, nil
}

// Delete removes a track source.
func (f *Fetcher) Delete(ctx context.Context, name string) error {
	file := domain.FileName(name)
	pipe := f.client.Pipeline()

	pipe.Del(ctx, f.key(file))
	pipe.ZRem(ctx, f.indexKey(), file)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns published track files, pruning expired index entries first.
// Redis failures are reported as an error alongside an empty listing.
func (f *Fetcher) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	// ZREMRANGEBYSCORE key -inf (now)
	err := f.client.ZRemRangeByScore(ctx, f.indexKey(), "-inf", fmt.Sprintf("(%f", now)).Err()
	if err != nil {
		return []string{}, fmt.Errorf("failed to prune expired tracks: %w", err)
	}

	files, err := f.client.ZRange(ctx, f.indexKey(), 0, -1).Result()
	if err != nil {
		return []string{}, fmt.Errorf("failed to list tracks: %w", err)
	}

	files = domain.FilterSources(files)
	sort.Strings(files)
	return files, nil
}

// Close closes the redis client.
func (f *Fetcher) Close() error {
	return f.client.Close()
}
