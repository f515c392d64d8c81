package resource

import (
	"fmt"
	"sort"
)

// Collection is a plain-data snapshot of a registry: every source with
// its settings, every scene's item list in render order, and the
// program scene. Persistence and export layers operate on Collection
// instead of live refcounted handles.
type Collection struct {
	ProgramScene string           `json:"programScene,omitempty" yaml:"program_scene,omitempty"`
	Sources      []SourceSnapshot `json:"sources" yaml:"sources"`
}

// SourceSnapshot captures one source.
type SourceSnapshot struct {
	Name     string         `json:"name" yaml:"name"`
	Kind     string         `json:"kind" yaml:"kind"`
	Group    bool           `json:"group,omitempty" yaml:"group,omitempty"`
	Muted    bool           `json:"muted,omitempty" yaml:"muted,omitempty"`
	Settings map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`

	// Items lists the scene's item placements in render order.
	// Empty for inputs.
	Items []ItemSnapshot `json:"items,omitempty" yaml:"items,omitempty"`
}

// ItemSnapshot captures one scene item placement.
type ItemSnapshot struct {
	SourceName string `json:"sourceName" yaml:"source_name"`
	Enabled    bool   `json:"enabled" yaml:"enabled"`
}

// Export snapshots the registry. Sources are ordered by name so the
// snapshot is deterministic; item order within a scene is render order.
func (r *Registry) Export() Collection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	col := Collection{}
	if r.program != nil {
		col.ProgramScene = r.program.Name()
	}

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		src := r.byName[name]
		snap := SourceSnapshot{
			Name:     src.Name(),
			Kind:     src.kind.String(),
			Group:    src.group,
			Muted:    src.Muted(),
			Settings: src.Settings(),
		}
		if len(snap.Settings) == 0 {
			snap.Settings = nil
		}
		if src.scene != nil {
			for _, item := range src.scene.Items() {
				snap.Items = append(snap.Items, ItemSnapshot{
					SourceName: item.SourceName(),
					Enabled:    item.Enabled(),
				})
			}
		}
		col.Sources = append(col.Sources, snap)
	}

	return col
}

// ImportCollection rebuilds a registry from a snapshot. Sources are
// created before any items are placed so items can reference sources
// regardless of snapshot order. Item IDs are reassigned; they are not
// stable across an export/import cycle.
func ImportCollection(col Collection) (*Registry, error) {
	reg := NewRegistry()

	for _, snap := range col.Sources {
		var (
			src *Source
			err error
		)
		switch snap.Kind {
		case KindInput.String():
			src, err = reg.CreateInput(snap.Name, snap.Settings)
		case KindScene.String():
			if snap.Group {
				src, err = reg.CreateGroup(snap.Name)
			} else {
				src, err = reg.CreateScene(snap.Name)
			}
			if err == nil && snap.Settings != nil {
				src.ReplaceSettings(snap.Settings)
			}
		default:
			return nil, fmt.Errorf("source %q: unknown kind %q", snap.Name, snap.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", snap.Name, err)
		}
		src.SetMuted(snap.Muted)
	}

	for _, snap := range col.Sources {
		if len(snap.Items) == 0 {
			continue
		}
		scene := reg.LookupSourceByName(snap.Name)
		if scene == nil || scene.Scene() == nil {
			if scene != nil {
				scene.Release()
			}
			return nil, fmt.Errorf("source %q: items on a non-scene source", snap.Name)
		}
		for _, item := range snap.Items {
			placed := reg.LookupSourceByName(item.SourceName)
			if placed == nil {
				scene.Release()
				return nil, fmt.Errorf("scene %q: item references unknown source %q", snap.Name, item.SourceName)
			}
			scene.Scene().AddItem(placed, item.Enabled)
			placed.Release()
		}
		scene.Release()
	}

	if col.ProgramScene != "" {
		if err := reg.SetCurrentProgramScene(col.ProgramScene); err != nil {
			return nil, fmt.Errorf("program scene %q: %w", col.ProgramScene, err)
		}
	}

	return reg, nil
}
