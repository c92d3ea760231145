package game

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNilEngine        = errors.New("cannot register nil engine")
	ErrEmptyCommand     = errors.New("engine command cannot be empty")
	ErrEmptyName        = errors.New("engine name cannot be empty")
	ErrDuplicateCommand = errors.New("engine command already registered")
	ErrDuplicateName    = errors.New("engine name already registered")
)

// Registry manages engine registration and lookup.
// Engines are found by their start command or by their persisted name.
type Registry struct {
	byCommand map[string]Engine
	byName    map[string]Engine
	mu        sync.RWMutex
}

// NewRegistry creates a registry holding the given engines.
func NewRegistry(engines ...Engine) (*Registry, error) {
	r := &Registry{
		byCommand: make(map[string]Engine),
		byName:    make(map[string]Engine),
	}
	for _, e := range engines {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an engine. Command and name must both be unique.
func (r *Registry) Register(e Engine) error {
	if e == nil {
		return ErrNilEngine
	}
	if e.Command() == "" {
		return ErrEmptyCommand
	}
	if e.Name() == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCommand[e.Command()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, e.Command())
	}
	if _, ok := r.byName[e.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, e.Name())
	}

	r.byCommand[e.Command()] = e
	r.byName[e.Name()] = e
	return nil
}

// ByCommand retrieves an engine by its start command.
func (r *Registry) ByCommand(command string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byCommand[command]
	return e, ok
}

// ByName retrieves an engine by its persisted game name.
func (r *Registry) ByName(name string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// List returns all engines ordered by command.
// The returned slice is a copy.
func (r *Registry) List() []Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engines := make([]Engine, 0, len(r.byCommand))
	for _, e := range r.byCommand {
		engines = append(engines, e)
	}
	sort.Slice(engines, func(i, j int) bool {
		return engines[i].Command() < engines[j].Command()
	})
	return engines
}

// Count returns the number of registered engines.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCommand)
}
