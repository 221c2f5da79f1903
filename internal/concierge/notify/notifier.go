// Package notify posts order lifecycle notices to a staff Matrix room.
//
// When configured with a room ID (MATRIX_STAFF_ROOM), the concierge posts a
// concise human-readable summary whenever an order is confirmed or
// cancelled, so kitchen staff can react without polling the database.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/orderdesk/concierge/internal/concierge/observability"
	"github.com/orderdesk/concierge/internal/concierge/order"
)

// Sender is the subset of the Matrix gateway needed by the notifier.
// Defined as an interface so the notifier can be unit-tested independently.
type Sender interface {
	SendNotice(roomID, message string) error
}

// StaffNotifier posts formatted notices to the staff room.
type StaffNotifier struct {
	sender Sender
	roomID string
}

// NewStaffNotifier creates a StaffNotifier that posts to roomID via sender.
// An empty roomID disables notification entirely.
func NewStaffNotifier(sender Sender, roomID string) *StaffNotifier {
	return &StaffNotifier{sender: sender, roomID: roomID}
}

// OrderConfirmed posts a new-order notice. Send failures are logged, never
// propagated: a missed staff ping must not fail the customer's turn.
func (n *StaffNotifier) OrderConfirmed(o order.Order) {
	n.post(fmt.Sprintf("🍽 New order %s\n  pickup: %s, %s\n  customer: %s (%s)\n  items:%s",
		o.ID, o.City, pickupText(o), o.Name, observability.MaskEmail(o.Email), itemLines(o)))
}

// OrderCancelled posts a cancellation notice.
func (n *StaffNotifier) OrderCancelled(o order.Order) {
	n.post(fmt.Sprintf("✖ Order %s cancelled\n  pickup was: %s, %s", o.ID, o.City, pickupText(o)))
}

func (n *StaffNotifier) post(msg string) {
	if n.roomID == "" {
		return
	}
	if err := n.sender.SendNotice(n.roomID, msg); err != nil {
		slog.Warn("staff notifier: failed to send room notice", "room", n.roomID, "err", err)
	} else {
		slog.Debug("staff notifier: sent notice", "room", n.roomID)
	}
}

func pickupText(o order.Order) string {
	if o.Pickup == nil || o.Pickup.Text == "" {
		return "---"
	}
	return o.Pickup.Text
}

func itemLines(o order.Order) string {
	var b strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&b, "\n    - %dx %s", it.Quantity, it.Product)
	}
	return b.String()
}
