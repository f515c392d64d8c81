package resource

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Source is a refcounted handle to a studio source. The registry owns
// the base reference; every lookup hands the caller an additional
// reference that must be released with Release. A source removed from
// the registry is finalized once its count drops to zero.
type Source struct {
	uuid  uuid.UUID
	kind  Kind
	group bool
	scene *Scene // non-nil iff kind == KindScene

	mu       sync.RWMutex
	name     string
	settings map[string]any
	muted    bool

	refs atomic.Int64
}

// newSource creates a source with a single (registry-owned) reference.
func newSource(name string, kind Kind, group bool) *Source {
	s := &Source{
		uuid:     uuid.New(),
		kind:     kind,
		group:    group,
		name:     name,
		settings: make(map[string]any),
	}
	s.refs.Store(1)
	if kind == KindScene {
		s.scene = &Scene{source: s}
	}
	return s
}

// Acquire takes an additional reference and returns the source for
// convenient chaining.
func (s *Source) Acquire() *Source {
	s.refs.Add(1)
	return s
}

// Release drops one reference. When the count reaches zero the source
// is finalized: a scene source releases the references its items hold.
func (s *Source) Release() {
	if s.refs.Add(-1) != 0 {
		return
	}
	if s.scene != nil {
		s.scene.clear()
	}
}

// Refs reports the current reference count. Primarily useful for
// verifying acquire/release balance in tests.
func (s *Source) Refs() int64 {
	return s.refs.Load()
}

// UUID returns the immutable identity of the source.
func (s *Source) UUID() uuid.UUID {
	return s.uuid
}

// Kind returns the source kind.
func (s *Source) Kind() Kind {
	return s.kind
}

// IsGroup reports whether a scene source is tagged as a group.
// Always false for inputs.
func (s *Source) IsGroup() bool {
	return s.group
}

// Scene returns the scene container for scene sources, nil for inputs.
func (s *Source) Scene() *Scene {
	return s.scene
}

// Name returns the current source name.
func (s *Source) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Source) setName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// Settings returns a shallow copy of the source settings document.
func (s *Source) Settings() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out
}

// ApplySettings merges the given document into the source settings.
func (s *Source) ApplySettings(settings map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range settings {
		s.settings[k] = v
	}
}

// ReplaceSettings overwrites the source settings document.
func (s *Source) ReplaceSettings(settings map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = make(map[string]any, len(settings))
	for k, v := range settings {
		s.settings[k] = v
	}
}

// Muted reports the mute state of the source.
func (s *Source) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted
}

// SetMuted sets the mute state of the source.
func (s *Source) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}
