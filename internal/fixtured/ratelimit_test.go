package fixtured

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateLimiterRefills(t *testing.T) {
	now := time.UnixMilli(0)
	l := newCreateLimiter(2)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("expected the first two requests to pass")
	}
	if l.Allow("a") {
		t.Fatalf("expected the third request to be limited")
	}
	if !l.Allow("b") {
		t.Fatalf("expected clients to have separate buckets")
	}

	now = now.Add(500 * time.Millisecond)
	if !l.Allow("a") {
		t.Fatalf("expected one token after half a second")
	}
	if l.Allow("a") {
		t.Fatalf("expected the bucket to be empty again")
	}

	now = now.Add(10 * time.Second)
	if !l.Allow("a") || !l.Allow("a") || l.Allow("a") {
		t.Fatalf("expected refill to cap at capacity")
	}
}

func TestCreateLimiterDisabled(t *testing.T) {
	var nilLimiter *createLimiter
	if !nilLimiter.Allow("a") {
		t.Fatalf("expected nil limiter to allow")
	}
	l := newCreateLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.Allow("a") {
			t.Fatalf("expected disabled limiter to allow")
		}
	}
}

func TestHTTPServerCreateRateLimit(t *testing.T) {
	srv, executor := newTestHTTPServer()
	srv.SetCreateLimit(1)
	defer executor.Shutdown()

	rr := doRequest(t, srv, http.MethodPost, "/v1/datasets", `{"config": `+chainConfigJSON+`}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = doRequest(t, srv, http.MethodPost, "/v1/datasets", `{"config": `+chainConfigJSON+`}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rr.Code)
	}

	// Reads are not limited.
	rr = doRequest(t, srv, http.MethodGet, "/v1/datasets", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	if got := clientKey(req); got != "10.1.2.3" {
		t.Fatalf("expected host only, got %q", got)
	}
	req.RemoteAddr = "pipe"
	if got := clientKey(req); got != "pipe" {
		t.Fatalf("expected raw remote addr, got %q", got)
	}
}
