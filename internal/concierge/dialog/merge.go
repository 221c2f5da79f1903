package dialog

import (
	"github.com/orderdesk/concierge/internal/concierge/order"
)

// mergeData folds one turn's extracted candidate into the order draft.
//
// Scalar fields overwrite wholesale when present (last write wins; the
// pickup pair is replaced as a unit, never half-updated). Items are applied
// additively, or subtractively when the raw text expresses removal intent —
// in which case a candidate with no matching line is a no-op.
func mergeData(o *order.Order, data ExtractedData, rawText string) {
	if data.City != "" {
		o.City = data.City
	}
	if data.Name != "" {
		o.Name = data.Name
	}
	if data.Email != "" {
		o.Email = data.Email
	}
	if data.Pickup != nil {
		p := *data.Pickup
		o.Pickup = &p
	}

	removal := isRemoval(rawText)
	for _, item := range data.Items {
		if removal {
			o.RemoveItem(item.Product, item.Quantity)
		} else {
			o.AddItem(item.Product, item.Quantity)
		}
	}
}
