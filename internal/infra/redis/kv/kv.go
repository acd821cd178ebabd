package infra_redis_kv

import (
	"time"

	"github.com/go-redis/redis"
)

// Driver is a prefixed string KV over redis, used for OTP codes, session
// tokens and rate-limit counters.
type Driver struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

func (d *Driver) Set(key string, value string, ttl time.Duration) error {
	return d.client.Set(d.getFullKey(key), value, ttl).Err()
}

// Get returns "" for a missing key.
func (d *Driver) Get(key string) (string, error) {
	val, err := d.client.Get(d.getFullKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (d *Driver) Delete(key string) error {
	return d.client.Del(d.getFullKey(key)).Err()
}

// IncrWithin bumps a counter, starting a fresh window on first increment.
func (d *Driver) IncrWithin(key string, window time.Duration) (int64, error) {
	fullKey := d.getFullKey(key)
	n, err := d.client.Incr(fullKey).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := d.client.Expire(fullKey, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (d *Driver) getFullKey(key string) string {
	if d.key != "" {
		return d.key + ":" + key
	}
	return key
}
