package service_ratelimit

import (
	"errors"
	"time"
)

var ErrInternal = errors.New("internal error")

type Counter interface {
	IncrWithin(key string, window time.Duration) (int64, error)
}

// Limiter caps how many times one identifier may trigger an operation
// inside a sliding window. Used to throttle send-OTP per phone/email.
type Limiter struct {
	counter Counter
	limit   int64
	window  time.Duration
}

func New(counter Counter, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		counter: counter,
		limit:   int64(limit),
		window:  window,
	}
}

func (l *Limiter) Allow(identifier string) (bool, error) {
	n, err := l.counter.IncrWithin(identifier, l.window)
	if err != nil {
		return false, errors.Join(ErrInternal, err)
	}
	return n <= l.limit, nil
}
