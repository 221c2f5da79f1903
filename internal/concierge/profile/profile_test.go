package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if p != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", p)
	}
}

func TestLoadOverridesAndFills(t *testing.T) {
	path := writeProfile(t, "recommendations: Try the stew.\npickup_window_hours: 72\n")
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Recommendations != "Try the stew." {
		t.Errorf("recommendations = %q", p.Recommendations)
	}
	if p.PickupWindowHours != 72 {
		t.Errorf("pickup window = %d, want 72", p.PickupWindowHours)
	}
	if p.CancelCutoffHours != 24 {
		t.Errorf("cancel cutoff = %d, want default 24", p.CancelCutoffHours)
	}
	if p.Greeting == "" {
		t.Error("greeting not filled from defaults")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeProfile(t, "greeting: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Profile
		wantErr bool
	}{
		{"defaults", Default(), false},
		{"zero window", Profile{PickupWindowHours: 0, CancelCutoffHours: 0}, true},
		{"cutoff above window", Profile{PickupWindowHours: 12, CancelCutoffHours: 24}, true},
		{"negative cutoff", Profile{PickupWindowHours: 48, CancelCutoffHours: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
