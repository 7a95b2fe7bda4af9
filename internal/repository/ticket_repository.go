package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TicketRepo records which capture tickets were already used.  A ticket is
// issued per page load, so claiming it once enforces one capture per load.
// Claims live in Redis when a client is configured and in process memory
// otherwise.
type TicketRepo struct {
	rdb    *redis.Client
	prefix string

	mu      sync.Mutex
	claimed map[string]time.Time // ticket id -> expiry, memory fallback only
	now     func() time.Time
}

// NewTicketRepo returns a TicketRepo backed by rdb, or by memory when rdb is nil.
func NewTicketRepo(rdb *redis.Client) *TicketRepo {
	return &TicketRepo{
		rdb:     rdb,
		prefix:  "capture",
		claimed: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Claim marks id as used for ttl.  It returns ErrConflict when id was
// already claimed.
func (r *TicketRepo) Claim(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if r.rdb != nil {
		ok, err := r.rdb.SetNX(ctx, r.prefix+":"+id, 1, ttl).Result()
		if err != nil {
			return err
		}
		if !ok {
			return ErrConflict
		}
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for k, exp := range r.claimed {
		if !now.Before(exp) {
			delete(r.claimed, k)
		}
	}
	if _, used := r.claimed[id]; used {
		return ErrConflict
	}
	r.claimed[id] = now.Add(ttl)
	return nil
}
