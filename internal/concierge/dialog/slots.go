package dialog

import (
	"strings"

	"github.com/orderdesk/concierge/internal/concierge/order"
	"github.com/orderdesk/concierge/internal/concierge/session"
)

// fillSlot interprets one turn against the slot the machine is explicitly
// waiting for. When structured extraction produced nothing for that slot,
// each slot has its own fallback reading of the raw text, so an answer like
// "pizza" still lands even when the NLU service recognized no entity.
//
// The items path is additive only: a turn answering "what would you like to
// order?" is never a removal.
func fillSlot(sess *session.Session, slot session.Slot, data ExtractedData, rawText string) {
	o := sess.Order

	switch slot {
	case session.SlotCity:
		if data.City != "" {
			o.City = data.City
		} else {
			o.City = stripPunctuation(rawText)
		}

	case session.SlotItems:
		items := data.Items
		if len(items) == 0 {
			items = []order.Item{{Product: rawText, Quantity: 1}}
		}
		for _, item := range items {
			o.AddItem(item.Product, item.Quantity)
		}

	case session.SlotDatetime:
		if data.Pickup != nil {
			p := *data.Pickup
			o.Pickup = &p
		} else {
			// Keep the customer's phrasing as display text with no resolved
			// value: pickup validation will reject it and reprompt.
			o.Pickup = &order.Pickup{Text: rawText}
		}

	case session.SlotName:
		if data.Name != "" {
			o.Name = data.Name
		} else {
			o.Name = stripNameFillers(rawText)
		}

	case session.SlotEmail:
		if data.Email != "" {
			o.Email = data.Email
		} else {
			// No format validation here: the NLU service is the authority
			// on what an email looks like, and a typo still lets the flow
			// proceed.
			o.Email = strings.TrimSpace(rawText)
		}
	}
}
