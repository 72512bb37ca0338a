package worker

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/bookrel/internal/model"
)

// ready reports whether a request to rawURL may go out without waiting
func ready(l *Limiter, rawURL string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, rawURL) == nil
}

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}

	l3 := NewLimiterFromConfig(model.RateLimitConfig{RequestsPerSecond: 0, BurstSize: 1})
	for i := 0; i < 10; i++ {
		if !ready(l3, "https://www.gutenberg.org/files/1342/1342-0.txt") {
			t.Fatal("expected unlimited rate for non-positive requests_per_second")
		}
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1) // 100 rps, burst 1
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different domain should also work
	if err := limiter.Wait(ctx, "http://gutenberg.org"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_ = limiter.Wait(ctx, "http://example.com")
	if err := limiter.Wait(ctx, "http://example.com"); err == nil {
		t.Error("expected error when the wait exceeds the deadline")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "http://example.com"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Token is consumed
	if ready(limiter, url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Host matching is case-insensitive
	if ready(limiter, "http://EXAMPLE.com/other") {
		t.Errorf("expected same limiter for upper-case host")
	}

	// Different domain should be allowed
	if !ready(limiter, "http://other.com") {
		t.Errorf("expected allow for other domain")
	}
}

func TestLimiter_SetDomainRate(t *testing.T) {
	limiter := NewLimiter(10, 10) // fast default
	domain := "slow.com"

	// Set strict limit for specific domain
	limiter.SetDomainRate(domain, 0.1, 1)

	if !ready(limiter, "http://"+domain) {
		t.Errorf("first request should pass")
	}
	if ready(limiter, "http://"+domain) {
		t.Errorf("second request should fail")
	}
	if !ready(limiter, "http://fast.com") {
		t.Errorf("other domain should pass")
	}
}

func TestLimiter_SetCrawlDelay(t *testing.T) {
	limiter := NewLimiter(10, 10)

	limiter.SetCrawlDelay("http://polite.org/book.txt", 10*time.Second)
	if !ready(limiter, "http://polite.org/a") {
		t.Errorf("first request should pass")
	}
	if ready(limiter, "http://polite.org/b") {
		t.Errorf("second request should wait for the crawl delay")
	}

	// A delay faster than the configured rate is ignored
	limiter.SetCrawlDelay("http://fast.org/", time.Millisecond)
	for i := 0; i < 5; i++ {
		if !ready(limiter, "http://fast.org/") {
			t.Fatalf("request %d should pass within burst", i)
		}
	}
}

func TestExtractDomain(t *testing.T) {
	domain, err := extractDomain("http://Example.com/foo")
	if err != nil {
		t.Fatalf("extractDomain failed: %v", err)
	}
	if domain != "example.com" {
		t.Errorf("expected example.com, got %s", domain)
	}

	_, err = extractDomain("::invalid")
	if err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
