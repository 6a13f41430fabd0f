package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// RedisStore guarda sessões em redis, para deploys com mais de uma instância.
type RedisStore struct {
	c      *rdb.Client
	prefix string
}

// NewRedis cria o store redis.
func NewRedis(addr string, db int, prefix string) *RedisStore {
	return &RedisStore{
		c:      rdb.NewClient(&rdb.Options{Addr: addr, DB: db}),
		prefix: prefix,
	}
}

func (r *RedisStore) Save(ctx context.Context, sid string, data Data, ttl time.Duration) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.c.Set(ctx, r.prefix+sid, b, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, sid string) (*Data, error) {
	b, err := r.c.Get(ctx, r.prefix+sid).Bytes()
	if err != nil {
		if errors.Is(err, rdb.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *RedisStore) Delete(ctx context.Context, sid string) error {
	return r.c.Del(ctx, r.prefix+sid).Err()
}

// Close fecha a conexão com o redis.
func (r *RedisStore) Close() error { return r.c.Close() }
