// Package order defines the draft-order model that the dialogue manager
// fills in over the course of a conversation, together with the item
// aggregation rules and the order-ID generator.
package order

import "strings"

// Status tracks where an order is in its lifecycle.
type Status string

const (
	// StatusDraft is the initial status of an empty draft.
	StatusDraft Status = "Draft"
	// StatusInProgress marks a draft that is actively being collected.
	StatusInProgress Status = "In Progress"
	// StatusConfirmed marks an order the customer has confirmed.
	StatusConfirmed Status = "Confirmed"
)

// Item is one line of the order.
//
// Product identity is case-insensitive and plural-insensitive: "Burger",
// "burger" and "burgers" all merge into one line. Quantity is always ≥ 1 —
// a line whose quantity would drop to zero or below is removed instead.
type Item struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// Pickup holds the requested pickup time as the customer phrased it plus the
// machine-resolved instant, when the NLU service produced one.
//
// Value is the resolved instant in the NLU service's wire format (an ISO-ish
// local timestamp) or "" when unresolved. An unresolved value deliberately
// fails pickup-window validation downstream, which forces a reprompt.
type Pickup struct {
	Text  string `json:"text"`
	Value string `json:"value,omitempty"`
}

// Order is the draft (and eventually confirmed) pickup order.
// Items preserve first-mention order.
type Order struct {
	ID     string  `json:"id,omitempty"`
	City   string  `json:"city,omitempty"`
	Items  []Item  `json:"items"`
	Pickup *Pickup `json:"datetime,omitempty"`
	Name   string  `json:"name,omitempty"`
	Email  string  `json:"email,omitempty"`
	Status Status  `json:"status"`
}

// New returns an empty draft order.
func New() *Order {
	return &Order{Status: StatusDraft}
}

// NormalizeProduct reduces a product name to its identity key: trimmed,
// lower-cased, with one trailing "s" stripped.
func NormalizeProduct(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(n, "s")
}

// findItem returns the index of the item matching the normalized product
// key, or -1.
func (o *Order) findItem(norm string) int {
	for i, it := range o.Items {
		if NormalizeProduct(it.Product) == norm {
			return i
		}
	}
	return -1
}

// AddItem increments the quantity of the matching item, or appends a new
// line (preserving first-mention order) when no item matches.
func (o *Order) AddItem(product string, quantity int) {
	if i := o.findItem(NormalizeProduct(product)); i >= 0 {
		o.Items[i].Quantity += quantity
		return
	}
	o.Items = append(o.Items, Item{Product: product, Quantity: quantity})
}

// RemoveItem decrements the quantity of the matching item, dropping the line
// entirely when the result is ≤ 0. Removing a product with no matching item
// is a no-op — phantom or negative lines are never created.
func (o *Order) RemoveItem(product string, quantity int) {
	i := o.findItem(NormalizeProduct(product))
	if i < 0 {
		return
	}
	o.Items[i].Quantity -= quantity
	if o.Items[i].Quantity <= 0 {
		o.Items = append(o.Items[:i], o.Items[i+1:]...)
	}
}

// Clone returns a deep copy of the order, suitable for handing to the
// presentation layer as a read-only snapshot.
func (o *Order) Clone() Order {
	cp := *o
	cp.Items = make([]Item, len(o.Items))
	copy(cp.Items, o.Items)
	if o.Pickup != nil {
		p := *o.Pickup
		cp.Pickup = &p
	}
	return cp
}
