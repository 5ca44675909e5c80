package proxy

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func names(t *testing.T, p *Pool, n int) []string {
	t.Helper()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, p.Next().Host)
	}
	return out
}

func TestPool_Rotation(t *testing.T) {
	pool, err := NewPool([]string{"p1:8080", "http://p2:8080", "p3:8080"})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	got := names(t, pool, 4)
	want := []string{"p1:8080", "p2:8080", "p3:8080", "p1:8080"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Next() #%d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPool_SkipsFailedUntilCooldown(t *testing.T) {
	pool, _ := NewPool([]string{"p1:1", "p2:1", "p3:1"})
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	pool.now = func() time.Time { return now }

	p1 := pool.Next()
	p2 := pool.Next()
	pool.Next()
	pool.MarkFailed(p2)

	if got := names(t, pool, 3); got[0] != "p1:1" || got[1] != "p3:1" || got[2] != "p1:1" {
		t.Errorf("rotation with p2 failed = %v", got)
	}

	now = now.Add(DefaultCooldown)
	if got := pool.Next().Host; got != "p2:1" {
		t.Errorf("Next() after cooldown = %s, want p2:1", got)
	}

	pool.MarkFailed(p1)
	pool.MarkHealthy(p1)
	if got := pool.Next().Host; got != "p3:1" {
		t.Errorf("Next() = %s, want p3:1", got)
	}
	if got := pool.Next().Host; got != "p1:1" {
		t.Errorf("Next() after MarkHealthy = %s, want p1:1", got)
	}
}

func TestPool_AllFailedStillReturnsOne(t *testing.T) {
	pool, _ := NewPool([]string{"p1:1"})
	pool.MarkFailed(pool.Next())

	if pool.Next() == nil {
		t.Error("Next() = nil, want the only proxy even though it failed")
	}
}

func TestPool_Empty(t *testing.T) {
	pool, _ := NewPool(nil)
	if pool.Next() != nil {
		t.Error("empty pool should return nil")
	}
	var nilPool *Pool
	if nilPool.Len() != 0 {
		t.Error("nil pool should have zero length")
	}
}

func TestNewPool_Invalid(t *testing.T) {
	if _, err := NewPool([]string{"http://"}); err == nil {
		t.Error("expected error for proxy without host")
	}
}

func TestTransportProxy(t *testing.T) {
	pool, _ := NewPool([]string{"p1:3128"})
	u := pool.Next()

	req, _ := http.NewRequestWithContext(WithProxy(context.Background(), u), http.MethodGet, "https://insider.in/", nil)
	got, err := TransportProxy(req)
	if err != nil || got != u {
		t.Errorf("TransportProxy() = %v, %v; want %v", got, err, u)
	}

	req, _ = http.NewRequest(http.MethodGet, "https://insider.in/", nil)
	if got, _ := TransportProxy(req); got != nil {
		t.Errorf("TransportProxy() without pinned proxy = %v, want nil", got)
	}
}
