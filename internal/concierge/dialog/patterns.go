package dialog

// patterns.go holds the free-text pattern tables the state machine matches
// against, isolated here as pure functions so the exact wording that
// triggers each behaviour can be tested independently of the machine.
// Precedence between them is fixed by ProcessTurn, not by this file.

import (
	"regexp"
	"strings"

	"github.com/orderdesk/concierge/internal/concierge/session"
)

// removalKeywords flag a turn as a removal: candidate item quantities are
// treated as decrements instead of additions. "no " keeps its trailing
// space so that plain negations ("nope", "nothing") do not match.
var removalKeywords = []string{
	"remove", "delete", "cancel", "minus", "take off", "no ",
}

// isRemoval reports whether the raw turn text expresses removal intent.
func isRemoval(rawText string) bool {
	lower := strings.ToLower(rawText)
	for _, kw := range removalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// mentionsCancel reports whether the raw text contains the word "cancel".
// Together with an empty extracted-items list this triggers the global
// cancellation path. The items guard keeps "remove the burger, cancel the
// soda" style turns in the item-removal path; a cancellation utterance that
// merely mentions food generically can still be swallowed by it — kept
// as-is for behaviour parity.
func mentionsCancel(rawText string) bool {
	return strings.Contains(strings.ToLower(rawText), "cancel")
}

// addItemPattern matches a free-text item addition in the Confirming state:
// a trigger word, an optional quantity, and a product phrase.
// Examples: "add 2 sodas", "with extra fries", "plus a dessert" (the "a"
// becomes part of the product phrase and is normalized away downstream).
var addItemPattern = regexp.MustCompile(`(?i)(?:add|extra|plus|with)\s+(?:(\d+)\s+)?([a-zA-Z\s]+)`)

// matchAddItem extracts the (product, quantity) pair from a free-text
// addition, defaulting the quantity to 1.
func matchAddItem(rawText string) (product string, quantity int, ok bool) {
	m := addItemPattern.FindStringSubmatch(rawText)
	if m == nil {
		return "", 0, false
	}
	quantity = 1
	if m[1] != "" {
		quantity = atoiSafe(m[1])
	}
	return strings.TrimSpace(m[2]), quantity, true
}

// affirmationWords are the bare-text equivalents of the Affirmation intent.
var affirmationWords = map[string]bool{"yes": true, "ok": true}

// isAffirmative reports whether the normalized text alone confirms.
func isAffirmative(lower string) bool {
	return affirmationWords[lower]
}

// slotKeyword maps a keyword in a change request ("no, the email is wrong")
// to the order field it clears. Scanned in fixed order; the first match
// wins.
type slotKeyword struct {
	word string
	slot session.Slot
}

var slotKeywords = []slotKeyword{
	{"name", session.SlotName},
	{"city", session.SlotCity},
	{"email", session.SlotEmail},
	{"time", session.SlotDatetime},
	{"date", session.SlotDatetime},
	{"item", session.SlotItems},
	{"food", session.SlotItems},
}

// slotChangeTarget scans the text for slot keywords and returns the first
// matching slot.
func slotChangeTarget(lower string) (session.Slot, bool) {
	for _, sk := range slotKeywords {
		if strings.Contains(lower, sk.word) {
			return sk.slot, true
		}
	}
	return session.SlotNone, false
}

// nameFillerPattern strips lead-in phrases from a name answer ("my name is
// Juan", "it's Juan").
var nameFillerPattern = regexp.MustCompile(`(?i)my name is|it's|name`)

// stripNameFillers removes filler phrases around a bare name answer.
func stripNameFillers(rawText string) string {
	return strings.TrimSpace(nameFillerPattern.ReplaceAllString(rawText, ""))
}

// stripPunctuation removes everything except letters, digits and spaces,
// used when a whole turn is taken as a city name.
func stripPunctuation(rawText string) string {
	var b strings.Builder
	for _, r := range rawText {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// atoiSafe parses a digit-only string, returning 1 for anything invalid.
// Inputs come from regexp capture groups that only admit digits.
func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 1
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 1
	}
	return n
}
