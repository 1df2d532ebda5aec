// Package prefs persists the two user flags of the page: the light/dark
// theme and the remake preview switch.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

const (
	ThemeKey  = "hyggshi-theme"
	RemakeKey = "hyggshi_remake"

	Dark  = "dark"
	Light = "light"
)

// Store is a flat string key/value file. Every Set writes the file.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// DefaultPath returns ~/.config/aurora/prefs.toml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "aurora", "prefs.toml"), nil
}

// Open loads the store at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if err := toml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("decode prefs %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

func (s *Store) save() error {
	data, err := toml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Theme returns the saved theme, dark unless light was chosen.
func (s *Store) Theme() string {
	if s.Get(ThemeKey) == Light {
		return Light
	}
	return Dark
}

func (s *Store) SetTheme(theme string) error {
	if theme != Light && theme != Dark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.Set(ThemeKey, theme)
}

// ToggleTheme flips between dark and light and returns the new theme.
func (s *Store) ToggleTheme() (string, error) {
	next := Light
	if s.Theme() == Light {
		next = Dark
	}
	return next, s.SetTheme(next)
}

func (s *Store) Remake() bool { return s.Get(RemakeKey) == "1" }

func (s *Store) SetRemake(on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return s.Set(RemakeKey, v)
}
