package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultKeyPrefix = "ticketqr:session:"
	maxTxAttempts    = 10
	txBackoffBase    = 2 * time.Millisecond
	txBackoffMax     = 100 * time.Millisecond
)

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps sessions as JSON values that expire after ttl of inactivity.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: DefaultKeyPrefix, ttl: ttl}
}

func (r *RedisStore) key(id string) string { return r.prefix + id }

func (r *RedisStore) Get(ctx context.Context, id string) (State, error) {
	if id == "" {
		return State{}, ErrNoID
	}
	return r.read(ctx, r.client, r.key(id))
}

// Update runs fn inside a WATCH/MULTI transaction and retries, with jittered
// backoff, when another writer touched the key in between. After
// maxTxAttempts conflicts it gives up with ErrContention.
func (r *RedisStore) Update(ctx context.Context, id string, fn func(*State) error) (State, error) {
	if id == "" {
		return State{}, ErrNoID
	}
	key := r.key(id)

	var out State
	txf := func(tx *redis.Tx) error {
		st, err := r.read(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(&st); err != nil {
			return err
		}
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("session: encode state: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err == nil {
			out = st
		}
		return err
	}

	err := retry.Do(ctx, txBackoff(), func(ctx context.Context) error {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, redis.TxFailedErr) {
		return State{}, fmt.Errorf("%w: %s after %d attempts", ErrContention, id, maxTxAttempts)
	}
	if err != nil {
		return State{}, err
	}
	return out, nil
}

// txBackoff is jittered exponential backoff allowing maxTxAttempts tries in all.
func txBackoff() retry.Backoff {
	b := retry.NewExponential(txBackoffBase)
	b = retry.WithJitterPercent(50, b)
	b = retry.WithCappedDuration(txBackoffMax, b)
	return retry.WithMaxRetries(maxTxAttempts-1, b)
}

func (r *RedisStore) read(ctx context.Context, c getter, key string) (State, error) {
	var st State
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("session: read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("session: decode %s: %w", key, err)
	}
	return st, nil
}
