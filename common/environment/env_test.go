package environment_test

import (
	"testing"
	"time"

	"github.com/orderdesk/concierge/common/environment"
)

func TestStringOr(t *testing.T) {
	t.Setenv("CONCIERGE_TEST_STR", "hello")

	if got := environment.StringOr("CONCIERGE_TEST_STR", "fallback"); got != "hello" {
		t.Errorf("StringOr set = %q, want %q", got, "hello")
	}
	if got := environment.StringOr("CONCIERGE_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("StringOr unset = %q, want %q", got, "fallback")
	}
}

func TestRequiredString(t *testing.T) {
	t.Setenv("CONCIERGE_TEST_REQ", "value")

	got, err := environment.RequiredString("CONCIERGE_TEST_REQ")
	if err != nil {
		t.Fatalf("RequiredString set: unexpected error: %v", err)
	}
	if got != "value" {
		t.Errorf("RequiredString = %q, want %q", got, "value")
	}

	if _, err := environment.RequiredString("CONCIERGE_TEST_REQ_MISSING"); err == nil {
		t.Error("RequiredString unset: expected error, got nil")
	}
}

func TestIntOr(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   int
		want  int
	}{
		{"valid", "42", 7, 42},
		{"empty", "", 7, 7},
		{"garbage", "not-a-number", 7, 7},
		{"negative", "-3", 7, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONCIERGE_TEST_INT", tt.value)
			if got := environment.IntOr("CONCIERGE_TEST_INT", tt.def); got != tt.want {
				t.Errorf("IntOr(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestDurationOr(t *testing.T) {
	t.Setenv("CONCIERGE_TEST_DUR", "90s")

	if got := environment.DurationOr("CONCIERGE_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Errorf("DurationOr = %v, want 90s", got)
	}
	if got := environment.DurationOr("CONCIERGE_TEST_DUR_MISSING", time.Minute); got != time.Minute {
		t.Errorf("DurationOr unset = %v, want 1m", got)
	}
}

func TestStringSliceOr(t *testing.T) {
	t.Setenv("CONCIERGE_TEST_SLICE", " a, b ,, c ")

	got := environment.StringSliceOr("CONCIERGE_TEST_SLICE", nil)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("StringSliceOr = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("StringSliceOr[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
