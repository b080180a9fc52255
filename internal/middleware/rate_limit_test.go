package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"roadwatch/internal/middleware"
)

func limitedHandler(rps, burst int) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.Limit(rps, burst, time.Minute, logger)(next)
}

func TestLimit_ConcurrentFirstRequestsShareOneLimiter(t *testing.T) {
	t.Parallel()

	h := limitedHandler(1, 1)

	const requests = 20
	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.7:41000"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code == http.StatusOK {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	// a single shared bucket with burst 1 admits exactly one of the burst
	if allowed != 1 {
		t.Fatalf("expected exactly 1 allowed request, got %d", allowed)
	}
}

func TestLimit_VisitorsAreIndependentPerIP(t *testing.T) {
	t.Parallel()

	h := limitedHandler(1, 1)

	for _, addr := range []string{"198.51.100.1:5000", "198.51.100.2:5000"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("first request from %s must be allowed, got %d", addr, rec.Code)
		}
	}
}

func TestLimit_ExceededReturns429(t *testing.T) {
	t.Parallel()

	h := limitedHandler(1, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.9:6000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("burst of 2 must admit the first two requests, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request must be limited, got %v", codes)
	}
}
