package dialog

import (
	"strconv"
	"strings"

	"github.com/orderdesk/concierge/internal/concierge/nlu"
	"github.com/orderdesk/concierge/internal/concierge/order"
)

// maxQuantityDistance is how many characters before a product mention a
// bare number may appear and still be read as that product's quantity
// ("2 large burgers" — the 2 sits well within the window).
const maxQuantityDistance = 30

// ExtractedData is the structured candidate a single turn contributes to
// the order draft. It is transient: merged into the draft and discarded.
type ExtractedData struct {
	City   string
	Pickup *order.Pickup
	Items  []order.Item
	Name   string
	Email  string
}

// Empty reports whether the turn produced no structured field at all.
func (d ExtractedData) Empty() bool {
	return d.City == "" && d.Pickup == nil && len(d.Items) == 0 && d.Name == "" && d.Email == ""
}

// offsetValue pairs a recognized value with its character position.
type offsetValue struct {
	text   string
	offset int
}

// quantity pairs a numeric value with its character position.
type quantity struct {
	value  int
	offset int
}

// Extract turns the flat entity list of one turn into an ExtractedData
// candidate.
//
// Rules:
//   - City wins outright; Location counts as city only when no City entity
//     appeared and the same text was not also tagged as a person name
//     (an NLU model will happily tag "Milan" as both).
//   - For Email, PersonName/Name and DateTime the last occurrence wins.
//   - Number entities become quantities: the structured resolution is
//     preferred, then the entity text; non-numeric values are dropped.
//   - Each product takes the nearest preceding quantity within
//     maxQuantityDistance characters, defaulting to 1.
//
// Entities missing a category or text are skipped silently.
func Extract(entities []nlu.Entity) ExtractedData {
	var data ExtractedData

	isPersonName := func(text string) bool {
		for _, e := range entities {
			if (e.Category == nlu.CategoryPersonName || e.Category == nlu.CategoryName) && e.Text == text {
				return true
			}
		}
		return false
	}

	var products []offsetValue
	var quantities []quantity

	for _, e := range entities {
		if e.Category == "" || e.Text == "" {
			continue
		}

		switch e.Category {
		case nlu.CategoryCity:
			if !isPersonName(e.Text) {
				data.City = e.Text
			}
		case nlu.CategoryLocation:
			if data.City == "" && !isPersonName(e.Text) {
				data.City = e.Text
			}
		case nlu.CategoryEmail:
			data.Email = e.Text
		case nlu.CategoryPersonName, nlu.CategoryName:
			data.Name = e.Text
		case nlu.CategoryProduct:
			products = append(products, offsetValue{text: e.Text, offset: e.Offset})
		case nlu.CategoryDateTime:
			value := ""
			if r, ok := e.Resolution(); ok {
				value = r.StringValue()
			}
			data.Pickup = &order.Pickup{Text: e.Text, Value: value}
		case nlu.CategoryNumber:
			if v, ok := entityNumber(e); ok {
				quantities = append(quantities, quantity{value: v, offset: e.Offset})
			}
		}
	}

	for _, p := range products {
		data.Items = append(data.Items, order.Item{
			Product:  p.text,
			Quantity: nearestQuantity(p.offset, quantities),
		})
	}

	return data
}

// entityNumber resolves a Number entity to an integer quantity, preferring
// the structured resolution over the raw text. Non-numeric and non-positive
// values are discarded so item quantities stay ≥ 1.
func entityNumber(e nlu.Entity) (int, bool) {
	if r, ok := e.Resolution(); ok {
		if f, ok := r.NumberValue(); ok {
			return positiveInt(f)
		}
		if n, err := strconv.ParseFloat(r.StringValue(), 64); err == nil {
			return positiveInt(n)
		}
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(e.Text), 64); err == nil {
		return positiveInt(n)
	}
	return 0, false
}

func positiveInt(f float64) (int, bool) {
	n := int(f)
	if n < 1 {
		return 0, false
	}
	return n, true
}

// nearestQuantity picks the closest quantity that precedes the product by
// less than maxQuantityDistance characters, defaulting to 1. Cost is
// products × quantities, both tiny per turn.
func nearestQuantity(productOffset int, quantities []quantity) int {
	best := 1
	bestDist := maxQuantityDistance
	for _, q := range quantities {
		if q.offset >= productOffset {
			continue
		}
		dist := productOffset - q.offset
		if dist < bestDist {
			bestDist = dist
			best = q.value
		}
	}
	return best
}
