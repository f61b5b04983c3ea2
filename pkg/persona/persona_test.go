package persona

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	set, err := Defaults("ru")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	for _, mode := range []string{"ru", "en", "th"} {
		if !set.Has(mode) {
			t.Errorf("builtin mode %q missing", mode)
		}
		if p := set.Get(mode); p.SystemPrompt == "" {
			t.Errorf("mode %q has empty system prompt", mode)
		}
	}
	if set.DefaultMode() != "ru" {
		t.Errorf("default = %q, want ru", set.DefaultMode())
	}
}

func TestDefaultsUnknownDefaultMode(t *testing.T) {
	if _, err := Defaults("fr"); err == nil {
		t.Fatal("expected error for a default mode with no persona")
	}
}

func TestGetFallsBack(t *testing.T) {
	set, err := Defaults("en")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	tests := []struct {
		mode string
		want string
	}{
		{"ru", "ru"},
		{"", "en"},
		{"klingon", "en"},
	}
	for _, tt := range tests {
		if got := set.Get(tt.mode); got.Mode != tt.want {
			t.Errorf("Get(%q).Mode = %q, want %q", tt.mode, got.Mode, tt.want)
		}
	}
}

func TestNewSetValidates(t *testing.T) {
	_, err := NewSet("en", Persona{Mode: "en", SystemPrompt: ""})
	if err == nil {
		t.Error("expected error for empty system prompt")
	}

	_, err = NewSet("en", Persona{Mode: "", SystemPrompt: "x"})
	if err == nil {
		t.Error("expected error for empty mode")
	}
}

func TestAllSorted(t *testing.T) {
	set, err := Defaults("ru")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	all := set.All()
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Mode >= all[i].Mode {
			t.Errorf("All() not sorted: %q before %q", all[i-1].Mode, all[i].Mode)
		}
	}
}

func TestReplaceKeepsDefaultMode(t *testing.T) {
	set, err := Defaults("ru")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	err = set.Replace(map[string]Persona{
		"en": {Mode: "en", SystemPrompt: "x"},
	})
	if err == nil {
		t.Fatal("replace dropping the default mode must fail")
	}
	if !set.Has("ru") {
		t.Error("failed replace must leave the old set intact")
	}
}
