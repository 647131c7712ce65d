// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tcupboard/internal/platform/constants"
	"github.com/taibuivan/tcupboard/internal/platform/metrics"
)

// IndexSource is the authoritative store behind [CachedLookup].
type IndexSource interface {
	NameLookup
	ActNameIndex(context context.Context) (map[string]int, error)
}

// CachedLookup serves [NameLookup] from a Redis hash of normalised name to id.
//
// The hash is rebuilt from the source whenever its ready marker is missing,
// which happens on first use, after the TTL and after [CachedLookup.Invalidate].
// Any Redis failure falls back to the source for that call. A nil client
// disables the cache entirely.
type CachedLookup struct {
	client  *redis.Client
	source  IndexSource
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCachedLookup creates a lookup that caches source in client for ttl.
func NewCachedLookup(client *redis.Client, source IndexSource, ttl time.Duration, metrics *metrics.Metrics, logger *slog.Logger) *CachedLookup {
	return &CachedLookup{
		client:  client,
		source:  source,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

/*
FindActsByNormalizedNames resolves names with one cache round trip, or one
source query when the cache is unavailable.

Parameters:
  - context: context.Context
  - names: []string (already normalised)

Returns:
  - map[string]int: normalised name to act id, found names only
  - error: source failures only
*/
func (lookup *CachedLookup) FindActsByNormalizedNames(context context.Context, names []string) (map[string]int, error) {
	if len(names) == 0 {
		return map[string]int{}, nil
	}

	if lookup.client != nil {
		started := time.Now()
		found, err := lookup.fromCache(context, names)
		if err == nil {
			lookup.metrics.ObserveLookup("redis", time.Since(started))
			return found, nil
		}
		lookup.logger.Warn("act_name_cache_unavailable", slog.Any("error", err))
	}

	started := time.Now()
	found, err := lookup.source.FindActsByNormalizedNames(context, names)
	if err != nil {
		return nil, err
	}

	lookup.metrics.ObserveLookup("postgres", time.Since(started))
	return found, nil
}

// Invalidate drops the ready marker so the next lookup rebuilds the index.
func (lookup *CachedLookup) Invalidate(context context.Context) error {
	if lookup.client == nil {
		return nil
	}

	if err := lookup.client.Del(context, constants.RedisKeyActNameIndexReady).Err(); err != nil {
		return fmt.Errorf("redis_act_name_index_invalidate_failed: %w", err)
	}
	return nil
}

func (lookup *CachedLookup) fromCache(context context.Context, names []string) (map[string]int, error) {
	ready, err := lookup.client.Exists(context, constants.RedisKeyActNameIndexReady).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_act_name_index_ready_failed: %w", err)
	}

	if ready == 0 {
		if err := lookup.rebuild(context); err != nil {
			return nil, err
		}
	}

	values, err := lookup.client.HMGet(context, constants.RedisKeyActNameIndex, names...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_act_name_index_get_failed: %w", err)
	}

	found := make(map[string]int, len(names))
	for i, value := range values {
		text, ok := value.(string)
		if !ok {
			continue
		}

		id, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("redis_act_name_index_corrupt: %q: %w", names[i], err)
		}
		found[names[i]] = id
	}

	return found, nil
}

// rebuild replaces the hash and sets the ready marker in one transaction.
func (lookup *CachedLookup) rebuild(context context.Context) error {
	index, err := lookup.source.ActNameIndex(context)
	if err != nil {
		return err
	}

	fields := make(map[string]any, len(index))
	for name, id := range index {
		fields[name] = id
	}

	pipe := lookup.client.TxPipeline()
	pipe.Del(context, constants.RedisKeyActNameIndex)
	if len(fields) > 0 {
		pipe.HSet(context, constants.RedisKeyActNameIndex, fields)
	}
	pipe.Set(context, constants.RedisKeyActNameIndexReady, "1", lookup.ttl)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_act_name_index_rebuild_failed: %w", err)
	}

	lookup.logger.Info("act_name_index_rebuilt", slog.Int("names", len(index)))
	return nil
}
