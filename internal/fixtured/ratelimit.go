package fixtured

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// createLimiter throttles dataset creation per client with a token bucket.
// A limit <= 0 admits everything.
type createLimiter struct {
	perSecond int
	buckets   map[string]*tokenBucket
	mu        sync.Mutex
	now       func() time.Time
}

type tokenBucket struct {
	tokens     int
	lastRefill time.Time
}

func newCreateLimiter(perSecond int) *createLimiter {
	return &createLimiter{
		perSecond: perSecond,
		buckets:   make(map[string]*tokenBucket),
		now:       time.Now,
	}
}

// Allow takes one token from the client's bucket
func (l *createLimiter) Allow(client string) bool {
	if l == nil || l.perSecond <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, ok := l.buckets[client]
	if !ok {
		bucket = &tokenBucket{tokens: l.perSecond, lastRefill: now}
		l.buckets[client] = bucket
	}

	tokensToAdd := int(now.Sub(bucket.lastRefill).Seconds() * float64(l.perSecond))
	if tokensToAdd > 0 {
		bucket.tokens = min(bucket.tokens+tokensToAdd, l.perSecond)
		bucket.lastRefill = now
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}
	return false
}

// clientKey identifies the caller by remote host
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
