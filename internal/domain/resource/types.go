// Package resource models the sources a SceneCast studio is composed of:
// inputs, scenes, groups, and the scene items that place sources inside
// scenes. Sources and scene items are reference counted; the registry
// holds the base reference and callers acquire additional references
// for the duration of their use.
package resource

import "errors"

// Kind identifies what a source fundamentally is.
type Kind int

const (
	// KindUnknown is the zero value, never assigned by the registry.
	KindUnknown Kind = iota
	// KindInput is a leaf media source (capture, media file, browser, ...).
	KindInput
	// KindScene is a composition of scene items. Groups are scenes with
	// the group flag set.
	KindScene
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindScene:
		return "scene"
	default:
		return "unknown"
	}
}

// ErrSourceExists is returned when creating a source under a name that
// is already taken.
var ErrSourceExists = errors.New("source already exists")

// ErrSourceNotFound is returned when a named source does not exist.
var ErrSourceNotFound = errors.New("source not found")

// Resolver is the lookup capability the request validation layer
// consumes. The returned source carries a reference the caller must
// release.
type Resolver interface {
	// LookupSourceByName resolves a source by its unique name.
	// Returns nil if no source has that name.
	LookupSourceByName(name string) *Source
}
