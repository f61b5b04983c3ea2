package persona

import (
	"os"
	"path/filepath"
	"testing"
)

func writePersona(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "ru.yaml", `
mode: ru
display_name: "Алина"
system_prompt: "Отвечай кратко."
`)
	writePersona(t, dir, "pirate.yml", `
mode: pirate
display_name: "Captain"
system_prompt: "Answer like a pirate."
`)
	writePersona(t, dir, "notes.txt", "ignored")

	set, err := Defaults("ru")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	if err := NewLoader(dir, set).LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	if !set.Has("pirate") {
		t.Error("expected the pirate persona to be loaded")
	}
	// The YAML directory replaces the builtins entirely.
	if set.Has("en") {
		t.Error("builtin en persona should be gone after reload")
	}
	if got := set.Get("ru").SystemPrompt; got != "Отвечай кратко." {
		t.Errorf("ru prompt = %q, want the file's", got)
	}
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "bad.yaml", `
mode: bad
display_name: "No prompt"
`)

	set, err := Defaults("ru")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	if err := NewLoader(dir, set).LoadAll(); err == nil {
		t.Fatal("expected error for a persona without system_prompt")
	}
}

func TestLoaderMissingDefaultModeKeepsOldSet(t *testing.T) {
	dir := t.TempDir()
	writePersona(t, dir, "en.yaml", `
mode: en
display_name: "English only"
system_prompt: "Reply in English."
`)

	set, err := Defaults("ru")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}

	if err := NewLoader(dir, set).LoadAll(); err == nil {
		t.Fatal("load dropping the default mode must fail")
	}
	if !set.Has("th") {
		t.Error("failed load must leave the builtins intact")
	}
}

func TestLoaderMissingDir(t *testing.T) {
	set, err := Defaults("ru")
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if err := NewLoader("/does/not/exist", set).LoadAll(); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}
