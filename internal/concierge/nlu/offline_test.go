package nlu_test

import (
	"context"
	"testing"

	"github.com/orderdesk/concierge/internal/concierge/nlu"
)

func analyze(t *testing.T, query string) *nlu.Result {
	t.Helper()
	res, err := nlu.NewOffline().Analyze(context.Background(), query)
	if err != nil {
		t.Fatalf("Analyze(%q): %v", query, err)
	}
	return res
}

func TestOfflineClassify(t *testing.T) {
	tests := []struct {
		query string
		want  nlu.Intent
	}{
		{"yes", nlu.IntentAffirmation},
		{"OK", nlu.IntentAffirmation},
		{"no", nlu.IntentNegation},
		{"I want to cancel my order", nlu.IntentCancelOrder},
		{"check the status please", nlu.IntentCheckOrderStatus},
		{"what do you recommend?", nlu.IntentGetRecommendations},
		{"bye", nlu.IntentExit},
		{"change the name", nlu.IntentModifyData},
		{"I want to order food", nlu.IntentCreateOrder},
		{"I'd like a pizza", nlu.IntentCreateOrder},
		{"what's the weather", nlu.IntentNone},
	}
	for _, tt := range tests {
		if got := analyze(t, tt.query).TopIntent; got != tt.want {
			t.Errorf("Analyze(%q).TopIntent = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestOfflineExtractsProductsWithQuantities(t *testing.T) {
	res := analyze(t, "I want 2 burgers and 1 soda")

	var products, numbers int
	for _, e := range res.Entities {
		switch e.Category {
		case nlu.CategoryProduct:
			products++
			if e.Text != "burgers" && e.Text != "soda" {
				t.Errorf("unexpected product %q", e.Text)
			}
		case nlu.CategoryNumber:
			numbers++
			r, ok := e.Resolution()
			if !ok {
				t.Errorf("number %q missing resolution", e.Text)
				continue
			}
			if _, ok := r.NumberValue(); !ok {
				t.Errorf("number %q resolution is not numeric", e.Text)
			}
		}
	}
	if products != 2 || numbers != 2 {
		t.Errorf("got %d products, %d numbers, want 2 and 2", products, numbers)
	}
}

func TestOfflineExtractsEmail(t *testing.T) {
	res := analyze(t, "reach me at juan.perez+food@example.com thanks")
	for _, e := range res.Entities {
		if e.Category == nlu.CategoryEmail {
			if e.Text != "juan.perez+food@example.com" {
				t.Errorf("email text = %q", e.Text)
			}
			return
		}
	}
	t.Error("no email entity extracted")
}

func TestOfflineExtractsTimestamp(t *testing.T) {
	res := analyze(t, "2026-08-30 18:00")

	var dt *nlu.Entity
	for i, e := range res.Entities {
		switch e.Category {
		case nlu.CategoryDateTime:
			dt = &res.Entities[i]
		case nlu.CategoryNumber:
			t.Errorf("timestamp digits leaked as quantity %q", e.Text)
		}
	}
	if dt == nil {
		t.Fatal("no datetime entity extracted")
	}
	r, ok := dt.Resolution()
	if !ok || r.StringValue() != "2026-08-30 18:00" {
		t.Errorf("datetime resolution = %+v", r)
	}
}

func TestOfflineOffsetsMatchQuery(t *testing.T) {
	query := "give me 3 tacos"
	res := analyze(t, query)
	for _, e := range res.Entities {
		if query[e.Offset:e.Offset+len(e.Text)] != e.Text {
			t.Errorf("entity %q offset %d does not line up with query", e.Text, e.Offset)
		}
	}
}
