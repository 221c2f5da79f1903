// Package nlu defines the boundary to the external natural-language
// understanding service and provides two Provider implementations: an Azure
// Conversational Language Understanding (CLU) HTTP client and an offline
// keyword-based fallback for development.
//
// The dialogue core never calls the NLU service itself: the host resolves
// the utterance first and passes the finished Result into the core.
package nlu

import (
	"context"
	"strconv"
)

// trimFloat renders a float without a trailing ".0" for whole numbers.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Intent is the NLU service's top-level classification of the utterance.
type Intent string

const (
	IntentNone               Intent = "None"
	IntentCreateOrder        Intent = "CreateOrder"
	IntentCheckOrderStatus   Intent = "CheckOrderStatus"
	IntentCancelOrder        Intent = "CancelOrder"
	IntentExit               Intent = "Exit"
	IntentAffirmation        Intent = "Affirmation"
	IntentNegation           Intent = "Negation"
	IntentModifyData         Intent = "ModifyData"
	IntentGetRecommendations Intent = "GetRecommendations"
)

// Category classifies one recognized entity span. Categories outside this
// set are carried through unchanged and ignored by the extractor.
type Category string

const (
	CategoryCity       Category = "City"
	CategoryLocation   Category = "Location"
	CategoryEmail      Category = "Email"
	CategoryPersonName Category = "PersonName"
	CategoryName       Category = "Name"
	CategoryDateTime   Category = "DateTime"
	CategoryProduct    Category = "Product"
	CategoryNumber     Category = "Number"
)

// Resolution is a structured value attached to an entity. Only the first
// resolution of an entity is ever consulted.
type Resolution struct {
	Kind string `json:"resolutionKind,omitempty"`
	// Value is a string for datetime resolutions and a number for numeric
	// ones, so it is decoded loosely and read through the accessors below.
	Value any `json:"value,omitempty"`
}

// StringValue returns the resolution value rendered as a string, or ""
// when there is none.
func (r Resolution) StringValue() string {
	switch v := r.Value.(type) {
	case string:
		return v
	case float64:
		// Numeric quantities are whole numbers in practice.
		return trimFloat(v)
	default:
		return ""
	}
}

// NumberValue returns the resolution value as a float and whether one was
// present.
func (r Resolution) NumberValue() (float64, bool) {
	switch v := r.Value.(type) {
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// Entity is a span of recognized structured information in the utterance.
type Entity struct {
	Category    Category     `json:"category"`
	Text        string       `json:"text"`
	Offset      int          `json:"offset"`
	Length      int          `json:"length,omitempty"`
	Resolutions []Resolution `json:"resolutions,omitempty"`
}

// Resolution returns the entity's first resolution and whether one exists.
func (e Entity) Resolution() (Resolution, bool) {
	if len(e.Resolutions) == 0 {
		return Resolution{}, false
	}
	return e.Resolutions[0], true
}

// Result is the per-turn output of the NLU service: at most one top intent
// and zero or more entities, in utterance order.
type Result struct {
	TopIntent Intent
	Entities  []Entity
}

// Provider resolves one utterance into a Result. Implementations must be
// safe for concurrent use.
type Provider interface {
	Analyze(ctx context.Context, query string) (*Result, error)
}
