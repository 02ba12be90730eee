package ws

import (
	"sync"
	"time"

	"github.com/sprintpoker/sprintpoker/internal/domain"
)

// MessageRateLimiter caps inbound messages per connection over a
// sliding window. Estimation traffic is tiny; anything chattier than
// the limit is a misbehaving client.
type MessageRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.ConnectionID][]time.Time
	limit    int
	interval time.Duration
}

func NewMessageRateLimiter(limit int, interval time.Duration) *MessageRateLimiter {
	return &MessageRateLimiter{
		history:  make(map[domain.ConnectionID][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *MessageRateLimiter) Allow(connID domain.ConnectionID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[connID]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[connID] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[connID] = fresh
	return true
}

// Forget drops a connection's window once it disconnects.
func (rl *MessageRateLimiter) Forget(connID domain.ConnectionID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.history, connID)
}
