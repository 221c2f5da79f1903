package session

import (
	"testing"
	"time"
)

// These tests live in the package so they can drive the injectable clock.

func TestPruneExpired(t *testing.T) {
	st := NewStore(time.Minute)
	st.WithSession("old", func(s *Session) string { return "" })

	// Move the clock past the TTL, then touch a fresh conversation.
	future := time.Now().Add(2 * time.Minute)
	st.now = func() time.Time { return future }
	st.WithSession("fresh", func(s *Session) string { return "" })

	if pruned := st.PruneExpired(); pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
	if st.Snapshot("fresh") == nil {
		t.Error("fresh conversation was pruned")
	}
	if st.Snapshot("old") != nil {
		t.Error("expired conversation survived pruning")
	}
}

func TestExpiredSessionIsRecreatedOnAccess(t *testing.T) {
	st := NewStore(time.Minute)
	st.WithSession("a", func(s *Session) string {
		s.Order.City = "Madrid"
		return ""
	})

	st.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	st.WithSession("a", func(s *Session) string {
		if s.Order.City != "" {
			t.Errorf("expired session retained city %q, want a fresh session", s.Order.City)
		}
		return ""
	})
}
