package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a redis read-through cache keyed by (user, resource) or product
// id. Every mutating endpoint calls the matching Invalidate, so stale entries
// never outlive a write. A nil Store (no REDIS_ADDRESS configured) is valid
// and turns every method into a no-op miss.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redis at addr. Empty addr disables caching.
func New(addr string) *Store {
	if addr == "" {
		return nil
	}
	return &Store{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: 15 * time.Minute,
	}
}

func productKey(id uint) string              { return fmt.Sprintf("product:%d", id) }
func userKey(userID, resource string) string { return fmt.Sprintf("user:%s:%s", userID, resource) }

// Get loads a cached value into out, reporting whether it was present.
func (s *Store) get(ctx context.Context, key string, out interface{}) bool {
	if s == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("⚠️ corrupt cache entry %s dropped: %v", key, err)
		s.rdb.Del(ctx, key)
		return false
	}
	return true
}

func (s *Store) set(ctx context.Context, key string, v interface{}) {
	if s == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		log.Printf("⚠️ cache set %s: %v", key, err)
	}
}

func (s *Store) GetProduct(ctx context.Context, id uint, out interface{}) bool {
	return s.get(ctx, productKey(id), out)
}

func (s *Store) SetProduct(ctx context.Context, id uint, v interface{}) {
	s.set(ctx, productKey(id), v)
}

// InvalidateProduct drops a product entry after any product mutation
// (edit, restock, approval, checkout decrement).
func (s *Store) InvalidateProduct(ctx context.Context, id uint) {
	if s == nil {
		return
	}
	s.rdb.Del(ctx, productKey(id))
}

func (s *Store) GetUserResource(ctx context.Context, userID, resource string, out interface{}) bool {
	return s.get(ctx, userKey(userID, resource), out)
}

func (s *Store) SetUserResource(ctx context.Context, userID, resource string, v interface{}) {
	s.set(ctx, userKey(userID, resource), v)
}

// InvalidateUser drops the named per-user resources (cart, wallet, orders)
// in one round trip.
func (s *Store) InvalidateUser(ctx context.Context, userID string, resources ...string) {
	if s == nil || len(resources) == 0 {
		return
	}
	pipe := s.rdb.TxPipeline()
	for _, r := range resources {
		pipe.Del(ctx, userKey(userID, r))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("⚠️ cache invalidate for user %s: %v", userID, err)
	}
}
