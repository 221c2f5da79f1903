package dialog

import (
	"fmt"
	"strings"

	"github.com/orderdesk/concierge/internal/concierge/order"
	"github.com/orderdesk/concierge/internal/concierge/session"
)

// advanceFlow inspects the draft and either asks for the next unmet
// requirement or promotes the draft to a confirmation summary. Slots are
// always requested in the same fixed order, so calling it twice without new
// data repeats the same prompt with the same expected slot.
//
// A pickup time that fails validation is cleared before reprompting, so the
// draft never holds a rejected value.
func (m *Manager) advanceFlow(sess *session.Session) string {
	o := sess.Order

	if o.City == "" {
		return m.ask(sess, session.SlotCity, "In which city will you pick up the order?")
	}
	if len(o.Items) == 0 {
		return m.ask(sess, session.SlotItems, "What would you like to order? (e.g., 2 Pizzas)")
	}
	if o.Pickup == nil {
		return m.ask(sess, session.SlotDatetime, "When do you want to pick it up? (e.g., Tomorrow at 8pm)")
	}

	if ok, reason := m.validator.CheckPickup(o.Pickup.Value); !ok {
		o.Pickup = nil
		return m.ask(sess, session.SlotDatetime, fmt.Sprintf("⚠️ %s Please provide a valid time.", reason))
	}

	if o.Name == "" {
		return m.ask(sess, session.SlotName, "What is the name for the order?")
	}
	if o.Email == "" {
		return m.ask(sess, session.SlotEmail, "What is your email address?")
	}

	sess.ToConfirming()
	return confirmationSummary(o)
}

// ask moves the machine into Collecting (a modification during Confirming
// reopens the collection flow), records the slot the next turn answers,
// and returns the prompt.
func (m *Manager) ask(sess *session.Session, slot session.Slot, prompt string) string {
	if sess.State != session.StateCollecting {
		sess.ToCollecting()
	}
	sess.Expect(slot)
	return prompt
}

// confirmationSummary renders the full draft for the final yes/no check.
func confirmationSummary(o *order.Order) string {
	var items strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&items, "\n     - %dx %s", it.Quantity, it.Product)
	}
	return fmt.Sprintf(
		"Please Confirm:\n   Name: %s\n   Email: %s\n   City: %s\n   Time: %s\n   Items:%s\n\nIs this correct? (Yes/No)",
		o.Name, o.Email, o.City, o.Pickup.Text, items.String(),
	)
}
