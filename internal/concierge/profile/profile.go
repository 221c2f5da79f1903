// Package profile loads the bot profile: the operator-tunable wording and
// business windows of the ordering agent.
//
// The profile is a small YAML file; every field is optional and falls back
// to the built-in default, so an empty or absent file yields a fully
// working bot.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the operator-tunable settings.
type Profile struct {
	// Greeting is sent when a conversation starts.
	Greeting string `yaml:"greeting"`

	// Recommendations answers the recommendation intent.
	Recommendations string `yaml:"recommendations"`

	// PickupWindowHours is how far ahead a pickup may be scheduled.
	PickupWindowHours int `yaml:"pickup_window_hours"`

	// CancelCutoffHours is the minimum remaining time to pickup for a
	// cancellation to be accepted.
	CancelCutoffHours int `yaml:"cancel_cutoff_hours"`
}

// Default returns the built-in profile.
func Default() Profile {
	return Profile{
		Greeting:          "Hi! I can help you Order Food, Check Status, or Get Recommendations.",
		PickupWindowHours: 48,
		CancelCutoffHours: 24,
	}
}

// Load reads path, decodes it and fills missing fields from Default.
// An empty path returns the default profile.
func Load(path string) (Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", path, err)
	}

	var loaded Profile
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return Profile{}, fmt.Errorf("profile %q: parse: %w", path, err)
	}

	if loaded.Greeting != "" {
		p.Greeting = loaded.Greeting
	}
	if loaded.Recommendations != "" {
		p.Recommendations = loaded.Recommendations
	}
	if loaded.PickupWindowHours != 0 {
		p.PickupWindowHours = loaded.PickupWindowHours
	}
	if loaded.CancelCutoffHours != 0 {
		p.CancelCutoffHours = loaded.CancelCutoffHours
	}

	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", path, err)
	}
	return p, nil
}

// Validate rejects windows that make the ordering rules unsatisfiable.
func (p Profile) Validate() error {
	if p.PickupWindowHours < 1 {
		return fmt.Errorf("pickup_window_hours must be at least 1, got %d", p.PickupWindowHours)
	}
	if p.CancelCutoffHours < 0 {
		return fmt.Errorf("cancel_cutoff_hours must not be negative, got %d", p.CancelCutoffHours)
	}
	if p.CancelCutoffHours >= p.PickupWindowHours {
		return fmt.Errorf("cancel_cutoff_hours (%d) must be below pickup_window_hours (%d), or no order could ever be cancelled",
			p.CancelCutoffHours, p.PickupWindowHours)
	}
	return nil
}
