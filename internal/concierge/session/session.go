// Package session holds the per-conversation dialogue state and a
// concurrency-safe store keyed by conversation ID.
//
// A Session is mutated exclusively by the dialogue manager while the store
// holds the per-conversation lock, so a turn is always atomic with respect
// to session state.
package session

import (
	"github.com/orderdesk/concierge/internal/concierge/order"
)

// State identifies where the dialogue state machine currently is.
type State string

const (
	// StateIdle is the initial state: no order is being collected.
	StateIdle State = "idle"
	// StateCollecting means the bot is gathering order slots.
	StateCollecting State = "collecting"
	// StateConfirming means a complete draft is awaiting a yes/no answer.
	StateConfirming State = "confirming"
)

// Slot names one field of the order draft that the bot can explicitly wait
// for. SlotNone means the bot is not waiting for any particular slot.
type Slot string

const (
	SlotNone     Slot = ""
	SlotCity     Slot = "city"
	SlotItems    Slot = "items"
	SlotDatetime Slot = "datetime"
	SlotName     Slot = "name"
	SlotEmail    Slot = "email"
)

// Session is the state of one conversation.
//
// Expecting is meaningful only while State == StateCollecting; every state
// transition method clears it, so an expecting slot can never be observed
// in Idle or Confirming.
type Session struct {
	ID        string
	Order     *order.Order
	State     State
	Expecting Slot
}

// New returns a fresh Idle session with an empty draft order.
func New(id string) *Session {
	return &Session{
		ID:    id,
		Order: order.New(),
		State: StateIdle,
	}
}

// Reset discards all conversation state: a fresh draft order, Idle state,
// no expected slot.
func (s *Session) Reset() {
	s.Order = order.New()
	s.State = StateIdle
	s.Expecting = SlotNone
}

// ToIdle transitions to Idle, keeping the current order (a confirmed order
// stays visible for status checks) and clearing the expected slot.
func (s *Session) ToIdle() {
	s.State = StateIdle
	s.Expecting = SlotNone
}

// ToCollecting transitions to Collecting and marks the draft in progress.
func (s *Session) ToCollecting() {
	s.State = StateCollecting
	s.Expecting = SlotNone
	s.Order.Status = order.StatusInProgress
}

// ToConfirming transitions to Confirming and clears the expected slot.
func (s *Session) ToConfirming() {
	s.State = StateConfirming
	s.Expecting = SlotNone
}

// Expect records the slot the bot will interpret the next turn against.
// Only the Collecting flow sets this.
func (s *Session) Expect(slot Slot) {
	s.Expecting = slot
}
