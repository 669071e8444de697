// Package redis stores channel documents in Redis.
package redis

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/cbsinteractive/keyframes/db"
	"github.com/cbsinteractive/keyframes/db/redis/storage"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

const channelSetKey = "channels"

type redisRepository struct {
	storage *storage.Storage
}

// NewRepository creates a new Repository backed by Redis.
func NewRepository(cfg *storage.Config) (db.Repository, error) {
	s, err := storage.NewStorage(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "initializing redis storage")
	}
	return &redisRepository{storage: s}, nil
}

func (r *redisRepository) Put(ctx context.Context, ch *db.Channel) error {
	if err := ch.Validate(); err != nil {
		return err
	}
	key := r.channelKey(ch.ID)
	return r.storage.RedisClient().WithContext(ctx).Watch(func(tx *redis.Tx) error {
		data, err := json.Marshal(ch)
		if err != nil {
			return errors.Wrapf(err, "encoding channel %q", ch.ID)
		}
		if err := tx.Set(key, string(data), 0).Err(); err != nil {
			return err
		}
		return tx.SAdd(channelSetKey, ch.ID).Err()
	}, key)
}

func (r *redisRepository) Get(ctx context.Context, id string) (*db.Channel, error) {
	var ch db.Channel
	err := r.storage.Load(ctx, r.channelKey(id), &ch)
	if err == storage.ErrNotFound {
		return nil, db.ErrChannelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	err := r.storage.Delete(ctx, r.channelKey(id))
	if err != nil {
		if err == storage.ErrNotFound {
			return db.ErrChannelNotFound
		}
		return err
	}
	return r.storage.RedisClient().WithContext(ctx).SRem(channelSetKey, id).Err()
}

func (r *redisRepository) List(ctx context.Context) ([]string, error) {
	ids, err := r.storage.RedisClient().WithContext(ctx).SMembers(channelSetKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "listing channels")
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *redisRepository) channelKey(id string) string {
	return "channel:" + id
}
