package dialog

import (
	"fmt"
	"time"
)

// Default business-rule windows: pickups at most 48 hours out, cancellation
// allowed until 24 hours before pickup.
const (
	DefaultMaxAdvance   = 48 * time.Hour
	DefaultCancelCutoff = 24 * time.Hour
)

// pickupLayouts are the timestamp shapes the NLU service's datetime
// resolutions come in. They carry no zone, so they are read as local time —
// the same reading the customer had in mind.
var pickupLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Validator holds the two pure time predicates of the ordering rules.
// The zero value is not usable; call NewValidator.
type Validator struct {
	// MaxAdvance is how far in the future a pickup may be scheduled.
	MaxAdvance time.Duration
	// CancelCutoff is the minimum remaining time to pickup for a
	// cancellation to be accepted.
	CancelCutoff time.Duration
	// Now is the clock, injectable for tests.
	Now func() time.Time
}

// NewValidator returns a Validator with the default windows and the real
// clock.
func NewValidator() *Validator {
	return &Validator{
		MaxAdvance:   DefaultMaxAdvance,
		CancelCutoff: DefaultCancelCutoff,
		Now:          time.Now,
	}
}

// CheckPickup validates a resolved pickup value. It reports whether the
// value parses to an instant that is in the future and within MaxAdvance;
// when it does not, reason is the customer-facing explanation used in the
// reprompt.
func (v *Validator) CheckPickup(value string) (ok bool, reason string) {
	if value == "" {
		return false, "I couldn't detect a valid date."
	}
	at, err := parsePickupTime(value)
	if err != nil {
		return false, "Invalid date format."
	}

	now := v.Now()
	if at.Before(now) {
		return false, "Time must be in the future."
	}
	if at.Sub(now) > v.MaxAdvance {
		return false, fmt.Sprintf("Orders can only be %d hours in advance.", int(v.MaxAdvance.Hours()))
	}
	return true, ""
}

// CanCancel reports whether an order with the given resolved pickup value
// may still be cancelled: the pickup must be at least CancelCutoff away.
// An absent or unparseable value means no.
func (v *Validator) CanCancel(value string) bool {
	if value == "" {
		return false
	}
	at, err := parsePickupTime(value)
	if err != nil {
		return false
	}
	return at.Sub(v.Now()) >= v.CancelCutoff
}

// parsePickupTime tries each known layout in local time.
func parsePickupTime(value string) (time.Time, error) {
	for _, layout := range pickupLayouts {
		if at, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
