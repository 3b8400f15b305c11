package cache_utils

import (
	"context"
	"encoding/json"
	"time"

	"zidotask/internal/cache"

	"github.com/valkey-io/valkey-go"
)

const (
	DefaultCacheTimeout = 10 * time.Second
	DefaultCacheExpiry  = 10 * time.Minute
)

type CacheUtil[T any] struct {
	client  valkey.Client
	prefix  string
	timeout time.Duration
	expiry  time.Duration
}

func NewCacheUtil[T any](client valkey.Client, prefix string) *CacheUtil[T] {
	return &CacheUtil[T]{
		client:  client,
		prefix:  prefix,
		timeout: DefaultCacheTimeout,
		expiry:  DefaultCacheExpiry,
	}
}

// WithExpiry returns a copy of the util whose entries live for expiry.
func (c *CacheUtil[T]) WithExpiry(expiry time.Duration) *CacheUtil[T] {
	copied := *c
	copied.expiry = expiry
	return &copied
}

func TestCacheConnection() {
	cacheUtil := NewCacheUtil[string](cache.GetCache(), "test:")

	testKey := "connection_test"
	testValue := "valkey_is_working"

	if err := cacheUtil.Set(context.Background(), testKey, &testValue); err != nil {
		panic("Cache test failed: could not store value: " + err.Error())
	}

	retrievedValue := cacheUtil.Get(context.Background(), testKey)
	if retrievedValue == nil {
		panic("Cache test failed: could not retrieve cached value")
	}

	if *retrievedValue != testValue {
		panic("Cache test failed: retrieved value does not match expected")
	}

	if err := cacheUtil.Invalidate(context.Background(), testKey); err != nil {
		panic("Cache test failed: could not invalidate value: " + err.Error())
	}

	if cacheUtil.Get(context.Background(), testKey) != nil {
		panic("Cache test failed: test key was not properly invalidated")
	}
}

// Ping reports whether the cache answers within the util timeout.
func Ping(ctx context.Context) error {
	client := cache.GetCache()

	ctx, cancel := context.WithTimeout(ctx, DefaultCacheTimeout)
	defer cancel()

	return client.Do(ctx, client.B().Ping().Build()).Error()
}

// Get returns nil on a miss and on any cache failure.
func (c *CacheUtil[T]) Get(ctx context.Context, key string) *T {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := c.client.Do(ctx, c.client.B().Get().Key(c.prefix+key).Build())
	return decode[T](result)
}

// GetAndDelete reads and removes the entry atomically, so a value can be
// consumed only once.
func (c *CacheUtil[T]) GetAndDelete(ctx context.Context, key string) *T {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := c.client.Do(ctx, c.client.B().Getdel().Key(c.prefix+key).Build())
	return decode[T](result)
}

func (c *CacheUtil[T]) Set(ctx context.Context, key string, item *T) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return c.client.Do(
		ctx,
		c.client.B().Set().Key(c.prefix+key).Value(string(data)).Ex(c.expiry).Build(),
	).Error()
}

// SetIfAbsent stores the item only when the key is free. It reports whether
// the item was stored.
func (c *CacheUtil[T]) SetIfAbsent(ctx context.Context, key string, item *T) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(item)
	if err != nil {
		return false, err
	}

	err = c.client.Do(
		ctx,
		c.client.B().Set().Key(c.prefix+key).Value(string(data)).Nx().ExSeconds(int64(c.expiry.Seconds())).Build(),
	).Error()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (c *CacheUtil[T]) Invalidate(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.Do(ctx, c.client.B().Del().Key(c.prefix+key).Build()).Error()
}

func decode[T any](result valkey.ValkeyResult) *T {
	if result.Error() != nil {
		return nil
	}

	data, err := result.AsBytes()
	if err != nil {
		return nil
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return nil
	}

	return &item
}
