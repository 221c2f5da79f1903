package order_test

import (
	"regexp"
	"testing"

	"github.com/orderdesk/concierge/internal/concierge/order"
)

func TestNormalizeProduct(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"burger", "burger"},
		{"Burgers", "burger"},
		{"  PIZZA  ", "pizza"},
		{"fries", "frie"}, // only one trailing "s" is stripped
		{"s", ""},
	}
	for _, tt := range tests {
		if got := order.NormalizeProduct(tt.in); got != tt.want {
			t.Errorf("NormalizeProduct(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddItemMergesPluralVariants(t *testing.T) {
	o := order.New()
	o.AddItem("burger", 2)
	o.AddItem("Burgers", 1)

	if len(o.Items) != 1 {
		t.Fatalf("items = %d, want 1 merged line", len(o.Items))
	}
	if o.Items[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", o.Items[0].Quantity)
	}
	// The first-mentioned spelling is kept.
	if o.Items[0].Product != "burger" {
		t.Errorf("product = %q, want %q", o.Items[0].Product, "burger")
	}
}

func TestAddItemPreservesFirstMentionOrder(t *testing.T) {
	o := order.New()
	o.AddItem("burger", 1)
	o.AddItem("soda", 1)
	o.AddItem("pizza", 1)
	o.AddItem("soda", 2)

	want := []string{"burger", "soda", "pizza"}
	if len(o.Items) != len(want) {
		t.Fatalf("items = %d, want %d", len(o.Items), len(want))
	}
	for i, p := range want {
		if o.Items[i].Product != p {
			t.Errorf("items[%d] = %q, want %q", i, o.Items[i].Product, p)
		}
	}
}

func TestRemoveItemDecrementsAndDrops(t *testing.T) {
	o := order.New()
	o.AddItem("burger", 3)

	o.RemoveItem("burgers", 1)
	if o.Items[0].Quantity != 2 {
		t.Errorf("quantity after decrement = %d, want 2", o.Items[0].Quantity)
	}

	o.RemoveItem("burger", 5)
	if len(o.Items) != 0 {
		t.Errorf("items after over-removal = %v, want empty (never zero/negative lines)", o.Items)
	}
}

func TestRemoveItemNoMatchIsNoop(t *testing.T) {
	o := order.New()
	o.AddItem("pizza", 1)

	o.RemoveItem("burger", 2)

	if len(o.Items) != 1 || o.Items[0].Product != "pizza" || o.Items[0].Quantity != 1 {
		t.Errorf("items = %v, want unchanged [{pizza 1}]", o.Items)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	o := order.New()
	o.AddItem("pizza", 2)
	o.Pickup = &order.Pickup{Text: "tomorrow", Value: "2026-01-02 20:00:00"}

	cp := o.Clone()
	cp.Items[0].Quantity = 99
	cp.Pickup.Text = "changed"

	if o.Items[0].Quantity != 2 {
		t.Error("mutating the clone's items affected the original")
	}
	if o.Pickup.Text != "tomorrow" {
		t.Error("mutating the clone's pickup affected the original")
	}
}

func TestIDGeneratorFormatAndUniqueness(t *testing.T) {
	g := order.NewIDGenerator()
	pattern := regexp.MustCompile(`^ORD-\d{1,4}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		id := g.Next()
		if !pattern.MatchString(id) {
			t.Fatalf("id %q does not match ORD-<0..9999>", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("id %q issued twice", id)
		}
		seen[id] = struct{}{}
	}
}
