package resource

import (
	"sync"

	"github.com/google/uuid"
)

// SourceInfo is a lightweight, copyable description of a source, used
// for listings where callers don't need a live handle.
type SourceInfo struct {
	Name  string
	UUID  uuid.UUID
	Kind  Kind
	Group bool
}

// Registry is the in-memory source registry of a studio. It owns the
// base reference of every registered source. Thread-safe for
// concurrent access; lookups hand out additional references.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*Source
	byUUID  map[uuid.UUID]*Source
	program *Source // current program scene, nil until set
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Source),
		byUUID: make(map[uuid.UUID]*Source),
	}
}

// LookupSourceByName resolves a source by name, acquiring a reference
// for the caller. Returns nil if no source has that name.
func (r *Registry) LookupSourceByName(name string) *Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.byName[name]
	if !ok {
		return nil
	}
	return src.Acquire()
}

// LookupSourceByUUID resolves a source by UUID, acquiring a reference
// for the caller. Returns nil if the UUID is unknown.
func (r *Registry) LookupSourceByUUID(id uuid.UUID) *Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.byUUID[id]
	if !ok {
		return nil
	}
	return src.Acquire()
}

// CreateScene registers a new scene source under the given name.
// Returns ErrSourceExists if the name is taken. No caller reference is
// acquired; the returned handle is valid while the source stays
// registered.
func (r *Registry) CreateScene(name string) (*Source, error) {
	return r.create(name, KindScene, false)
}

// CreateGroup registers a new group (a scene tagged as group).
func (r *Registry) CreateGroup(name string) (*Source, error) {
	return r.create(name, KindScene, true)
}

// CreateInput registers a new input source with the given settings.
func (r *Registry) CreateInput(name string, settings map[string]any) (*Source, error) {
	src, err := r.create(name, KindInput, false)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		src.ReplaceSettings(settings)
	}
	return src, nil
}

func (r *Registry) create(name string, kind Kind, group bool) (*Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return nil, ErrSourceExists
	}
	src := newSource(name, kind, group)
	r.byName[name] = src
	r.byUUID[src.uuid] = src
	return src, nil
}

// RemoveSource unregisters a source and drops the registry-owned
// reference. The source stays alive until all outstanding references
// are released. Returns ErrSourceNotFound if the name is unknown.
func (r *Registry) RemoveSource(name string) error {
	r.mu.Lock()
	src, ok := r.byName[name]
	if !ok {
		r.mu.Unlock()
		return ErrSourceNotFound
	}
	delete(r.byName, name)
	delete(r.byUUID, src.uuid)
	if r.program == src {
		r.program = nil
	}
	r.mu.Unlock()

	src.Release()
	return nil
}

// RenameSource changes the name a source is registered under.
// Returns ErrSourceNotFound for an unknown name and ErrSourceExists if
// the new name is taken.
func (r *Registry) RenameSource(oldName, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.byName[oldName]
	if !ok {
		return ErrSourceNotFound
	}
	if _, taken := r.byName[newName]; taken {
		return ErrSourceExists
	}
	delete(r.byName, oldName)
	r.byName[newName] = src
	src.setName(newName)
	return nil
}

// Scenes lists all non-group scene sources.
func (r *Registry) Scenes() []SourceInfo {
	return r.list(func(s *Source) bool { return s.kind == KindScene && !s.group })
}

// Groups lists all group sources.
func (r *Registry) Groups() []SourceInfo {
	return r.list(func(s *Source) bool { return s.group })
}

// Inputs lists all input sources.
func (r *Registry) Inputs() []SourceInfo {
	return r.list(func(s *Source) bool { return s.kind == KindInput })
}

func (r *Registry) list(keep func(*Source) bool) []SourceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SourceInfo, 0, len(r.byName))
	for _, src := range r.byName {
		if keep(src) {
			out = append(out, SourceInfo{
				Name:  src.Name(),
				UUID:  src.uuid,
				Kind:  src.kind,
				Group: src.group,
			})
		}
	}
	return out
}

// CurrentProgramScene returns the active program scene with a caller
// reference, or nil if none is set.
func (r *Registry) CurrentProgramScene() *Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.program == nil {
		return nil
	}
	return r.program.Acquire()
}

// SetCurrentProgramScene switches the program output to the named
// scene. Groups cannot be made program. Returns ErrSourceNotFound for
// unknown names.
func (r *Registry) SetCurrentProgramScene(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.byName[name]
	if !ok || src.kind != KindScene || src.group {
		return ErrSourceNotFound
	}
	r.program = src
	return nil
}

// Compile-time check that Registry satisfies the validator's Resolver.
var _ Resolver = (*Registry)(nil)
