package nlu_test

import (
	"testing"
	"time"

	"github.com/orderdesk/concierge/internal/concierge/nlu"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := nlu.NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("conv-1") {
			t.Fatalf("call %d unexpectedly blocked", i+1)
		}
	}
	if rl.Allow("conv-1") {
		t.Error("4th call allowed past limit of 3")
	}
}

func TestRateLimiterIsolatesConversations(t *testing.T) {
	rl := nlu.NewRateLimiter(1, time.Minute)

	if !rl.Allow("conv-1") {
		t.Fatal("first call blocked")
	}
	if !rl.Allow("conv-2") {
		t.Error("conv-2 blocked by conv-1's usage")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := nlu.NewRateLimiter(1, 20*time.Millisecond)

	if !rl.Allow("conv-1") {
		t.Fatal("first call blocked")
	}
	if rl.Allow("conv-1") {
		t.Fatal("second immediate call allowed")
	}
	time.Sleep(30 * time.Millisecond)
	if !rl.Allow("conv-1") {
		t.Error("call blocked after window expired")
	}
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := nlu.NewRateLimiter(0, 0)
	for i := 0; i < nlu.DefaultRateLimit; i++ {
		if !rl.Allow("conv-1") {
			t.Fatalf("call %d blocked below default limit", i+1)
		}
	}
	if rl.Allow("conv-1") {
		t.Error("call allowed past default limit")
	}
}
