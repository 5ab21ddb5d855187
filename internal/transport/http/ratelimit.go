package http

import "time"

// messageLimiter caps inbound frames per connection per minute.
// A zero limit disables it. Only the owning read loop calls allow, so no
// locking is needed; the reset goroutine only zeroes the counter.
type messageLimiter struct {
	limit   int
	counter int
	reset   *time.Ticker
}

func newMessageLimiter(limit int) *messageLimiter {
	if limit <= 0 {
		return &messageLimiter{limit: 0}
	}
	return &messageLimiter{
		limit: limit,
		reset: time.NewTicker(time.Minute),
	}
}

func (m *messageLimiter) allow() bool {
	if m == nil || m.limit <= 0 {
		return true
	}
	m.counter++
	return m.counter <= m.limit
}

func (m *messageLimiter) startReset(stop <-chan struct{}) {
	if m == nil || m.reset == nil {
		return
	}
	go func() {
		for {
			select {
			case <-m.reset.C:
				m.counter = 0
			case <-stop:
				m.reset.Stop()
				return
			}
		}
	}()
}
