// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package strategy holds named dedupe strategies: the built-in presets, a
// store that callers can extend, YAML strategy files, and the structural
// validator run before every dedupe call.
package strategy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// Store maps strategy names to strategies. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	strategies map[string]types.Strategy
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{strategies: map[string]types.Strategy{}}
}

// Presets returns a store holding every built-in strategy.
func Presets() *Store {
	s := NewStore()
	for name, st := range presets() {
		s.Register(name, st)
	}
	return s
}

// Register adds or replaces a strategy under name.
func (s *Store) Register(name string, st types.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strategies == nil {
		s.strategies = map[string]types.Strategy{}
	}
	s.strategies[name] = st
}

// Lookup returns the strategy registered under name.
func (s *Store) Lookup(name string) (types.Strategy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.strategies[name]
	return st, ok
}

// Names returns the registered names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.strategies))
	for name := range s.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile reads a strategy from a YAML file. The strategy name is the file
// name without its extension.
func LoadFile(path string) (string, types.Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.Strategy{}, fmt.Errorf("reading strategy file: %w", err)
	}
	var st types.Strategy
	if err := yaml.Unmarshal(data, &st); err != nil {
		return "", types.Strategy{}, fmt.Errorf("parsing strategy file %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return name, st, nil
}

// LoadDir registers every *.yaml and *.yml file in dir and returns the
// names it added, sorted. A missing directory registers nothing.
func (s *Store) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading strategies dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
		default:
			continue
		}
		name, st, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return names, err
		}
		s.Register(name, st)
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// WriteFile saves a strategy as YAML.
func WriteFile(path string, st types.Strategy) error {
	data, err := yaml.Marshal(&st)
	if err != nil {
		return fmt.Errorf("marshaling strategy: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
