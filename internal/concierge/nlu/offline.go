package nlu

import (
	"context"
	"regexp"
	"strings"
)

// defaultLexicon lists product words the offline provider can spot. The
// dialogue core treats products as free text, so the lexicon only needs to
// cover enough of the menu for local development to feel natural.
var defaultLexicon = []string{
	"pizza", "burger", "soda", "salad", "fries", "sandwich",
	"coffee", "drink", "dessert", "menu", "taco", "pasta",
}

var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	numberPattern = regexp.MustCompile(`\b\d+\b`)
	// datetimePattern only spots machine-readable timestamps. Natural
	// phrasings ("tomorrow at 8pm") need the CLU service.
	datetimePattern = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}(?::\d{2})?)?\b`)
)

// Offline is a deterministic keyword-based Provider used when no CLU
// credentials are configured. It never fails.
//
// It is intentionally crude: it spots intents by keyword, and recognizes
// emails, integer quantities and lexicon products with their offsets. The
// dialogue manager's slot-filling fallbacks cover everything it misses.
type Offline struct {
	lexicon []string
}

// NewOffline returns an Offline provider with the default product lexicon.
func NewOffline() *Offline {
	return &Offline{lexicon: defaultLexicon}
}

// Analyze classifies the query by keyword and extracts rudimentary entities.
func (o *Offline) Analyze(_ context.Context, query string) (*Result, error) {
	lower := strings.ToLower(strings.TrimSpace(query))

	res := &Result{
		TopIntent: o.classify(lower),
		Entities:  o.extractEntities(query, lower),
	}
	return res, nil
}

// classify picks the top intent. Order matters: the earlier checks are the
// more specific ones.
func (o *Offline) classify(lower string) Intent {
	switch lower {
	case "yes", "yeah", "yep", "ok", "sure":
		return IntentAffirmation
	case "no", "nope":
		return IntentNegation
	}

	switch {
	case strings.Contains(lower, "cancel"):
		return IntentCancelOrder
	case strings.Contains(lower, "status") || strings.Contains(lower, "track"):
		return IntentCheckOrderStatus
	case strings.Contains(lower, "recommend") || strings.Contains(lower, "suggest"):
		return IntentGetRecommendations
	case strings.Contains(lower, "bye") || strings.Contains(lower, "exit") || strings.Contains(lower, "quit"):
		return IntentExit
	case strings.Contains(lower, "change") || strings.Contains(lower, "modify"):
		return IntentModifyData
	case strings.Contains(lower, "order") || strings.Contains(lower, "i want") ||
		strings.Contains(lower, "i'd like") || strings.Contains(lower, "buy"):
		return IntentCreateOrder
	}
	return IntentNone
}

// extractEntities finds emails, ISO-style timestamps, integer quantities
// and lexicon products.
// Offsets are byte positions in the original query, which is close enough
// for the proximity heuristics downstream.
func (o *Offline) extractEntities(query, lower string) []Entity {
	var entities []Entity

	for _, loc := range emailPattern.FindAllStringIndex(query, -1) {
		entities = append(entities, Entity{
			Category: CategoryEmail,
			Text:     query[loc[0]:loc[1]],
			Offset:   loc[0],
		})
	}

	dtSpans := datetimePattern.FindAllStringIndex(query, -1)
	for _, loc := range dtSpans {
		entities = append(entities, Entity{
			Category:    CategoryDateTime,
			Text:        query[loc[0]:loc[1]],
			Offset:      loc[0],
			Resolutions: []Resolution{{Kind: "DateTimeResolution", Value: query[loc[0]:loc[1]]}},
		})
	}

	for _, loc := range numberPattern.FindAllStringIndex(query, -1) {
		// The digits of a timestamp are not quantities.
		if insideSpan(loc, dtSpans) {
			continue
		}
		entities = append(entities, Entity{
			Category:    CategoryNumber,
			Text:        query[loc[0]:loc[1]],
			Offset:      loc[0],
			Resolutions: []Resolution{{Kind: "NumberResolution", Value: parseNumber(query[loc[0]:loc[1]])}},
		})
	}

	for _, product := range o.lexicon {
		idx := strings.Index(lower, product)
		if idx < 0 {
			continue
		}
		end := idx + len(product)
		// Include a plural "s" so "2 burgers" keeps its surface form.
		if end < len(lower) && lower[end] == 's' {
			end++
		}
		entities = append(entities, Entity{
			Category: CategoryProduct,
			Text:     query[idx:end],
			Offset:   idx,
		})
	}

	return entities
}

// insideSpan reports whether loc overlaps any of the spans.
func insideSpan(loc []int, spans [][]int) bool {
	for _, s := range spans {
		if loc[0] >= s[0] && loc[1] <= s[1] {
			return true
		}
	}
	return false
}

// parseNumber converts a digit string to a float64 for the resolution value.
func parseNumber(s string) float64 {
	var n float64
	for _, r := range s {
		n = n*10 + float64(r-'0')
	}
	return n
}
