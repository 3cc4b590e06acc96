/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// cmdable is the part of the go-redis client RedisStore uses.
type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps records in Redis as JSON, expiring with their TTL.
type RedisStore struct {
	cmd cmdable
}

// NewRedisStore wraps a go-redis client (or cluster client).
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{cmd: client}
}

// NewRedisClient parses a redis:// URL and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get loads the record for key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (Record, error) {
	if s == nil || s.cmd == nil {
		return Record{}, errors.New("replay: redis store not initialized")
	}
	raw, err := s.cmd.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("replay: get %q: %w", key, err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("replay: decode %q: %w", key, err)
	}
	return rec, nil
}

// Save stores rec with SETNX, so concurrent first requests cannot both win.
func (s *RedisStore) Save(ctx context.Context, key string, rec Record, ttl time.Duration) (bool, error) {
	if s == nil || s.cmd == nil {
		return false, errors.New("replay: redis store not initialized")
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("replay: encode: %w", err)
	}
	ok, err := s.cmd.SetNX(ctx, key, payload, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("replay: save %q: %w", key, err)
	}
	return ok, nil
}

// Put stores rec with SET, replacing an in-flight marker or older record.
func (s *RedisStore) Put(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	if s == nil || s.cmd == nil {
		return errors.New("replay: redis store not initialized")
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	if err := s.cmd.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("replay: put %q: %w", key, err)
	}
	return nil
}

// Delete removes the record for key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s == nil || s.cmd == nil {
		return errors.New("replay: redis store not initialized")
	}
	if err := s.cmd.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("replay: delete %q: %w", key, err)
	}
	return nil
}

// Key builds a namespaced key: denvelope:replay:<scope>:<id>.
func (s *RedisStore) Key(scope, id string) string {
	return buildKey(scope, id)
}
