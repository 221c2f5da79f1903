package dialog

import (
	"testing"

	"github.com/orderdesk/concierge/internal/concierge/session"
)

func TestIsRemoval(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"remove the burger", true},
		{"please DELETE one soda", true},
		{"cancel the fries", true},
		{"minus one pizza", true},
		{"take off the dessert", true},
		{"no pizza for me", true},
		{"nope", false},
		{"nothing else", false},
		{"add 2 burgers", false},
	}
	for _, tt := range tests {
		if got := isRemoval(tt.text); got != tt.want {
			t.Errorf("isRemoval(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMatchAddItem(t *testing.T) {
	tests := []struct {
		text     string
		product  string
		quantity int
		ok       bool
	}{
		{"add 2 sodas", "sodas", 2, true},
		{"with extra fries", "extra fries", 1, true},
		{"plus a dessert", "a dessert", 1, true},
		{"ADD pizza", "pizza", 1, true},
		{"looks good", "", 0, false},
	}
	for _, tt := range tests {
		product, quantity, ok := matchAddItem(tt.text)
		if ok != tt.ok {
			t.Errorf("matchAddItem(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if product != tt.product || quantity != tt.quantity {
			t.Errorf("matchAddItem(%q) = (%q, %d), want (%q, %d)",
				tt.text, product, quantity, tt.product, tt.quantity)
		}
	}
}

func TestSlotChangeTarget(t *testing.T) {
	tests := []struct {
		text string
		slot session.Slot
		ok   bool
	}{
		{"no, the name is wrong", session.SlotName, true},
		{"change the city please", session.SlotCity, true},
		{"wrong email", session.SlotEmail, true},
		{"the time is off", session.SlotDatetime, true},
		{"another date", session.SlotDatetime, true},
		{"that item is wrong", session.SlotItems, true},
		{"different food", session.SlotItems, true},
		// "name" sits before "time" in the scan order.
		{"the name and the time", session.SlotName, true},
		{"no", session.SlotNone, false},
	}
	for _, tt := range tests {
		slot, ok := slotChangeTarget(tt.text)
		if slot != tt.slot || ok != tt.ok {
			t.Errorf("slotChangeTarget(%q) = (%q, %v), want (%q, %v)",
				tt.text, slot, ok, tt.slot, tt.ok)
		}
	}
}

func TestStripNameFillers(t *testing.T) {
	tests := []struct{ in, want string }{
		{"my name is Juan", "Juan"},
		{"It's Ana", "Ana"},
		{"Maria", "Maria"},
	}
	for _, tt := range tests {
		if got := stripNameFillers(tt.in); got != tt.want {
			t.Errorf("stripNameFillers(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripPunctuation(t *testing.T) {
	if got := stripPunctuation("  Madrid!?  "); got != "Madrid" {
		t.Errorf("stripPunctuation = %q, want Madrid", got)
	}
	if got := stripPunctuation("New York."); got != "New York" {
		t.Errorf("stripPunctuation = %q, want New York", got)
	}
}

func TestAtoiSafe(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2", 2}, {"10", 10}, {"0", 1}, {"", 1}, {"x", 1},
	}
	for _, tt := range tests {
		if got := atoiSafe(tt.in); got != tt.want {
			t.Errorf("atoiSafe(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
