package config

import (
	"sync"

	"github.com/teslashibe/go-chasecam/internal/log"
	"github.com/teslashibe/go-chasecam/pkg/director"
)

// Store holds the live presets. When it has a path, updates are written
// back to the file and Reload picks up external edits.
type Store struct {
	mu       sync.RWMutex
	presets  director.Presets
	path     string
	onChange []func(director.Presets)
}

// NewStore creates a store. With a non-empty path the file is loaded; a
// missing file is created from the defaults.
func NewStore(path string) (*Store, error) {
	s := &Store{presets: director.DefaultPresets(), path: path}
	if path == "" {
		return s, nil
	}
	p, err := LoadPresets(path)
	if err != nil {
		if !isNotExist(err) {
			return nil, err
		}
		if err := SavePresets(path, s.presets); err != nil {
			return nil, err
		}
		log.Info("wrote default presets", "path", path)
		return s, nil
	}
	s.presets = p
	return s, nil
}

// Path returns the backing file, or "".
func (s *Store) Path() string { return s.path }

// Presets returns the current presets.
func (s *Store) Presets() director.Presets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presets
}

// OnChange registers fn to run after every change. fn must not call back
// into the store's setters.
func (s *Store) OnChange(fn func(director.Presets)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Update applies t, persists the result and returns it.
func (s *Store) Update(t director.Tuning) (director.Presets, error) {
	s.mu.Lock()
	next := t.Apply(s.presets)
	if s.path != "" {
		if err := SavePresets(s.path, next); err != nil {
			s.mu.Unlock()
			return s.Presets(), err
		}
	}
	s.presets = next
	subs := append([]func(director.Presets){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next, nil
}

// Reload rereads the backing file. It reports whether anything changed.
func (s *Store) Reload() (bool, error) {
	if s.path == "" {
		return false, nil
	}
	p, err := LoadPresets(s.path)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	if p == s.presets {
		s.mu.Unlock()
		return false, nil
	}
	s.presets = p
	subs := append([]func(director.Presets){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
	return true, nil
}
