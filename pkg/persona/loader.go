package persona

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader loads and optionally hot-reloads persona definitions from YAML
// files, one persona per file.
type Loader struct {
	dir string
	set *Set
}

// NewLoader creates a loader that feeds the given set from dir.
func NewLoader(dir string, set *Set) *Loader {
	return &Loader{dir: dir, set: set}
}

// LoadAll reads every .yaml/.yml file in the directory and replaces the
// set's personas.
func (l *Loader) LoadAll() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("read persona dir %q: %w", l.dir, err)
	}

	loaded := make(map[string]Persona)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		p, err := loadFile(path)
		if err != nil {
			return fmt.Errorf("load %q: %w", path, err)
		}
		loaded[p.Mode] = p
	}

	return l.set.Replace(loaded)
}

func loadFile(path string) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, err
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Persona{}, fmt.Errorf("parse YAML: %w", err)
	}

	if p.Mode == "" {
		return Persona{}, fmt.Errorf("mode is required")
	}
	if p.SystemPrompt == "" {
		return Persona{}, fmt.Errorf("persona %q: system_prompt is required", p.Mode)
	}
	return p, nil
}

// WatchAndReload watches the persona directory and reloads on changes.
// Blocks until done is closed.
func (l *Loader) WatchAndReload(done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch dir %q: %w", l.dir, err)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				ext := filepath.Ext(event.Name)
				if ext == ".yaml" || ext == ".yml" {
					if err := l.LoadAll(); err != nil {
						slog.Warn("persona reload failed", slog.String("error", err.Error()))
					}
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
