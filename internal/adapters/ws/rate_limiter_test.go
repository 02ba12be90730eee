package ws

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUnderLimit(t *testing.T) {
	rl := NewMessageRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow("c1") {
			t.Fatalf("attempt %d blocked under limit", i)
		}
	}
	if rl.Allow("c1") {
		t.Fatal("fourth attempt should be blocked")
	}
	// other connections are unaffected
	if !rl.Allow("c2") {
		t.Fatal("independent connection blocked")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewMessageRateLimiter(1, 10*time.Millisecond)
	if !rl.Allow("c1") {
		t.Fatal("first attempt blocked")
	}
	if rl.Allow("c1") {
		t.Fatal("second attempt should be blocked")
	}
	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("c1") {
		t.Fatal("attempt after window should pass")
	}
}

func TestRateLimiterForget(t *testing.T) {
	rl := NewMessageRateLimiter(1, time.Minute)
	rl.Allow("c1")
	rl.Forget("c1")
	if !rl.Allow("c1") {
		t.Fatal("forgotten connection should start fresh")
	}
}
