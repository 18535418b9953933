package ratelimit

import (
	"testing"
	"time"
)

func TestAllowCountsDenials(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 2, CleanupInterval: time.Minute})
	defer rl.Stop()

	if !rl.Allow("203.0.113.9") || !rl.Allow("203.0.113.9") {
		t.Fatalf("requests within the limit should pass")
	}
	if rl.Allow("203.0.113.9") {
		t.Fatalf("request over the limit should be denied")
	}

	// A different client has its own window.
	if !rl.Allow("203.0.113.10") {
		t.Fatalf("other clients are not affected")
	}

	m := rl.GetMetrics()
	if m.TotalHits != 1 {
		t.Errorf("TotalHits = %d, want 1", m.TotalHits)
	}
	if m.ClientCount != 2 {
		t.Errorf("ClientCount = %d, want 2", m.ClientCount)
	}
}
