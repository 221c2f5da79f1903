// Package dialog implements the dialogue manager for the food-pickup
// ordering agent: a rule-driven state machine that consumes one turn's NLU
// result plus the raw utterance, maintains the order draft in the session,
// and produces exactly one reply string per turn.
//
// The manager never talks to the NLU service, never renders anything and
// never blocks: all resolution happens before ProcessTurn is invoked, and
// every (state, intent, text) combination yields a reply — unmatched input
// falls through to a generic fallback with the session left unchanged.
package dialog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/orderdesk/concierge/internal/concierge/nlu"
	"github.com/orderdesk/concierge/internal/concierge/order"
	"github.com/orderdesk/concierge/internal/concierge/session"
)

// Fixed reply wording. The trigger phrases and these replies are part of
// the bot's observable behaviour and are asserted by tests — change them
// deliberately.
const (
	replyExit            = "Session reset. How can I help?"
	replyAbortCollecting = "Order process cancelled. How can I help?"
	replyNothingToCancel = "You have no active order to cancel."
	replyNoActiveOrder   = "You have no active order. Say 'Order food' to start."
	replyCapabilities    = "I can help you Order Food, Check Status, or Get Recommendations."
	replyWhatToChange    = "What would you like to change? (e.g., 'Change name' or 'Add pizza')"
	replyConfirmYesNo    = "Please confirm: Yes or No?"
	replyNotUnderstood   = "I'm not sure I understood."

	// DefaultRecommendations is the stock answer to GetRecommendations,
	// overridable through the bot profile.
	DefaultRecommendations = "Our favorites today are the Pizza, Burgers, and our special Menu deals. Don't forget a Drink or Dessert!"
)

// EventSink receives order lifecycle notifications so the host can persist
// confirmed orders and alert staff. Implementations must not block for
// long; they are called synchronously inside the turn.
type EventSink interface {
	OrderConfirmed(conversationID string, o order.Order)
	OrderCancelled(conversationID string, o order.Order)
}

// Config configures a Manager. Zero-value fields get sensible defaults.
type Config struct {
	// Validator supplies the pickup-window and cancellation predicates.
	Validator *Validator
	// IDs issues order IDs at confirmation time.
	IDs *order.IDGenerator
	// Recommendations overrides the stock recommendation reply.
	Recommendations string
	// Events, when non-nil, is notified of confirmations and cancellations.
	Events EventSink
}

// Manager is the turn processor. It is stateless between calls — all
// conversation state lives in the Session — so a single Manager serves
// every conversation concurrently.
type Manager struct {
	validator       *Validator
	ids             *order.IDGenerator
	recommendations string
	events          EventSink
}

// New returns a Manager for the given configuration.
func New(cfg Config) *Manager {
	if cfg.Validator == nil {
		cfg.Validator = NewValidator()
	}
	if cfg.IDs == nil {
		cfg.IDs = order.NewIDGenerator()
	}
	if cfg.Recommendations == "" {
		cfg.Recommendations = DefaultRecommendations
	}
	return &Manager{
		validator:       cfg.Validator,
		ids:             cfg.IDs,
		recommendations: cfg.Recommendations,
		events:          cfg.Events,
	}
}

// ProcessTurn runs one turn through the state machine and returns the
// reply. It mutates sess in place; the caller must hold the session's
// exclusive lock for the duration of the call.
//
// Global commands (cancellation, exit) are evaluated before state dispatch.
// The cancellation trigger is suppressed when the turn's extracted items
// list is non-empty, so "cancel the soda" stays an item removal.
func (m *Manager) ProcessTurn(sess *session.Session, turn *nlu.Result, rawText string) string {
	var intent nlu.Intent
	var entities []nlu.Entity
	if turn != nil {
		intent = turn.TopIntent
		entities = turn.Entities
	}

	data := Extract(entities)
	lower := strings.ToLower(strings.TrimSpace(rawText))

	if (intent == nlu.IntentCancelOrder || mentionsCancel(rawText)) && len(data.Items) == 0 {
		return m.cancelTurn(sess)
	}

	if intent == nlu.IntentExit {
		sess.Reset()
		return replyExit
	}

	switch sess.State {
	case session.StateIdle:
		return m.idleTurn(sess, intent, data, rawText)

	case session.StateCollecting:
		if slot := sess.Expecting; slot != session.SlotNone {
			// The expected slot is consumed exactly once.
			sess.Expect(session.SlotNone)
			fillSlot(sess, slot, data, rawText)
		} else {
			mergeData(sess.Order, data, rawText)
		}
		return m.advanceFlow(sess)

	case session.StateConfirming:
		return m.confirmingTurn(sess, intent, data, rawText, lower)
	}

	return replyNotUnderstood
}

// cancelTurn handles the global cancellation command.
func (m *Manager) cancelTurn(sess *session.Session) string {
	o := sess.Order

	if o.ID != "" {
		pickupValue := ""
		if o.Pickup != nil {
			pickupValue = o.Pickup.Value
		}
		if !m.validator.CanCancel(pickupValue) {
			return fmt.Sprintf("Sorry, order %s cannot be cancelled. It is less than %d hours before pickup.",
				o.ID, int(m.validator.CancelCutoff.Hours()))
		}

		cancelled := o.Clone()
		sess.Reset()
		slog.Info("order cancelled", "order_id", cancelled.ID, "conversation", sess.ID)
		if m.events != nil {
			m.events.OrderCancelled(sess.ID, cancelled)
		}
		return fmt.Sprintf("Order %s has been successfully cancelled.", cancelled.ID)
	}

	if sess.State != session.StateIdle {
		sess.Reset()
		return replyAbortCollecting
	}
	return replyNothingToCancel
}

// idleTurn dispatches a turn received while no order flow is active.
func (m *Manager) idleTurn(sess *session.Session, intent nlu.Intent, data ExtractedData, rawText string) string {
	switch intent {
	case nlu.IntentCreateOrder:
		sess.Reset()
		sess.ToCollecting()
		mergeData(sess.Order, data, rawText)
		return m.advanceFlow(sess)

	case nlu.IntentCheckOrderStatus:
		o := sess.Order
		if o.ID == "" {
			return replyNoActiveOrder
		}
		when := "---"
		if o.Pickup != nil && o.Pickup.Text != "" {
			when = o.Pickup.Text
		}
		return fmt.Sprintf("Order %s is %s. Pickup in %s at %s.", o.ID, o.Status, o.City, when)

	case nlu.IntentGetRecommendations:
		return m.recommendations

	default:
		return replyCapabilities
	}
}

// confirmingTurn handles a turn while the draft summary awaits a yes/no
// answer. Checked in order: new structured data, free-text item addition,
// affirmation, change request, reprompt.
func (m *Manager) confirmingTurn(sess *session.Session, intent nlu.Intent, data ExtractedData, rawText, lower string) string {
	if !data.Empty() {
		// A modification may reopen earlier prompts.
		mergeData(sess.Order, data, rawText)
		return m.advanceFlow(sess)
	}

	if product, qty, ok := matchAddItem(rawText); ok {
		mergeData(sess.Order, ExtractedData{Items: []order.Item{{Product: product, Quantity: qty}}}, rawText)
		return m.advanceFlow(sess)
	}

	if intent == nlu.IntentAffirmation || isAffirmative(lower) {
		o := sess.Order
		o.ID = m.ids.Next()
		o.Status = order.StatusConfirmed
		sess.ToIdle()
		slog.Info("order confirmed", "order_id", o.ID, "conversation", sess.ID, "items", len(o.Items))
		if m.events != nil {
			m.events.OrderConfirmed(sess.ID, o.Clone())
		}
		return fmt.Sprintf("Great! Order %s is confirmed. See you in %s.", o.ID, o.City)
	}

	if intent == nlu.IntentNegation || intent == nlu.IntentModifyData || lower == "no" {
		if slot, ok := slotChangeTarget(lower); ok {
			clearSlot(sess.Order, slot)
			return m.advanceFlow(sess)
		}
		return replyWhatToChange
	}

	return replyConfirmYesNo
}

// clearSlot wipes one order field so the flow advancer reprompts for it.
func clearSlot(o *order.Order, slot session.Slot) {
	switch slot {
	case session.SlotName:
		o.Name = ""
	case session.SlotCity:
		o.City = ""
	case session.SlotEmail:
		o.Email = ""
	case session.SlotDatetime:
		o.Pickup = nil
	case session.SlotItems:
		o.Items = nil
	}
}
