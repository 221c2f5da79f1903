package session_test

import (
	"sync"
	"testing"

	"github.com/orderdesk/concierge/internal/concierge/order"
	"github.com/orderdesk/concierge/internal/concierge/session"
)

func TestTransitionsClearExpecting(t *testing.T) {
	s := session.New("c1")
	s.ToCollecting()
	s.Expect(session.SlotCity)

	s.ToConfirming()
	if s.Expecting != session.SlotNone {
		t.Errorf("Expecting after ToConfirming = %q, want cleared", s.Expecting)
	}

	s.ToCollecting()
	s.Expect(session.SlotEmail)
	s.ToIdle()
	if s.Expecting != session.SlotNone {
		t.Errorf("Expecting after ToIdle = %q, want cleared", s.Expecting)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	s := session.New("c1")
	s.ToCollecting()
	s.Order.AddItem("pizza", 2)
	s.Order.City = "Madrid"
	s.Expect(session.SlotName)

	s.Reset()

	if s.State != session.StateIdle {
		t.Errorf("state = %q, want idle", s.State)
	}
	if s.Expecting != session.SlotNone {
		t.Errorf("expecting = %q, want none", s.Expecting)
	}
	if s.Order.City != "" || len(s.Order.Items) != 0 || s.Order.Status != order.StatusDraft {
		t.Errorf("order not reset: %+v", s.Order)
	}
}

func TestStoreKeepsConversationsSeparate(t *testing.T) {
	st := session.NewStore(0)

	st.WithSession("a", func(s *session.Session) string {
		s.Order.City = "Madrid"
		return ""
	})
	st.WithSession("b", func(s *session.Session) string {
		if s.Order.City != "" {
			t.Errorf("conversation b sees conversation a's city %q", s.Order.City)
		}
		return ""
	})
}

func TestStoreSerializesTurnsPerConversation(t *testing.T) {
	st := session.NewStore(0)

	const turns = 50
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.WithSession("a", func(s *session.Session) string {
				s.Order.AddItem("pizza", 1)
				return ""
			})
		}()
	}
	wg.Wait()

	snap := st.Snapshot("a")
	if snap == nil {
		t.Fatal("snapshot missing")
	}
	if got := snap.Order.Items[0].Quantity; got != turns {
		t.Errorf("quantity = %d, want %d (turns must not interleave)", got, turns)
	}
}

func TestSnapshotIsReadOnlyCopy(t *testing.T) {
	st := session.NewStore(0)
	st.WithSession("a", func(s *session.Session) string {
		s.Order.AddItem("soda", 1)
		return ""
	})

	snap := st.Snapshot("a")
	snap.Order.Items[0].Quantity = 99

	st.WithSession("a", func(s *session.Session) string {
		if s.Order.Items[0].Quantity != 1 {
			t.Error("mutating a snapshot changed the live session")
		}
		return ""
	})
}

func TestSnapshotOfUnknownConversation(t *testing.T) {
	st := session.NewStore(0)
	if snap := st.Snapshot("nope"); snap != nil {
		t.Errorf("snapshot of unknown conversation = %+v, want nil", snap)
	}
}
