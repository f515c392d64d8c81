package resource

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrSceneItemNotFound is returned when a scene item ID does not exist
// within a scene.
var ErrSceneItemNotFound = errors.New("scene item not found")

// Scene is the item container of a scene source. Items are ordered;
// the index of an item is its render position within the scene.
type Scene struct {
	source *Source

	mu     sync.RWMutex
	items  []*SceneItem
	nextID int64
}

// Source returns the scene source this container belongs to.
func (sc *Scene) Source() *Source {
	return sc.source
}

// AddItem places a source into the scene and returns the new item.
// The item holds its own reference on the placed source for as long as
// the item is alive. Item IDs are assigned monotonically and are never
// reused within a scene.
func (sc *Scene) AddItem(src *Source, enabled bool) *SceneItem {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	item := &SceneItem{
		id:      sc.nextID,
		scene:   sc,
		source:  src.Acquire(),
		enabled: enabled,
	}
	item.refs.Store(1) // scene-owned reference
	sc.nextID++
	sc.items = append(sc.items, item)
	return item
}

// ItemByID finds a scene item by its integer ID. No reference is
// acquired; callers that hold the item across other operations must
// Acquire it themselves.
func (sc *Scene) ItemByID(id int64) *SceneItem {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	for _, item := range sc.items {
		if item.id == id {
			return item
		}
	}
	return nil
}

// Items returns a snapshot of the scene items in render order.
func (sc *Scene) Items() []*SceneItem {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]*SceneItem, len(sc.items))
	copy(out, sc.items)
	return out
}

// RemoveItem removes an item from the scene and drops the scene-owned
// reference. Returns ErrSceneItemNotFound if the ID is unknown.
func (sc *Scene) RemoveItem(id int64) error {
	sc.mu.Lock()
	var removed *SceneItem
	for i, item := range sc.items {
		if item.id == id {
			removed = item
			sc.items = append(sc.items[:i], sc.items[i+1:]...)
			break
		}
	}
	sc.mu.Unlock()

	if removed == nil {
		return ErrSceneItemNotFound
	}
	removed.Release()
	return nil
}

// SetItemIndex moves an item to the given render position.
func (sc *Scene) SetItemIndex(id int64, index int) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	pos := -1
	for i, item := range sc.items {
		if item.id == id {
			pos = i
			break
		}
	}
	if pos == -1 {
		return ErrSceneItemNotFound
	}
	if index < 0 {
		index = 0
	}
	if index >= len(sc.items) {
		index = len(sc.items) - 1
	}

	item := sc.items[pos]
	sc.items = append(sc.items[:pos], sc.items[pos+1:]...)
	sc.items = append(sc.items[:index], append([]*SceneItem{item}, sc.items[index:]...)...)
	return nil
}

// clear drops the scene-owned reference of every item. Called when the
// scene source is finalized.
func (sc *Scene) clear() {
	sc.mu.Lock()
	items := sc.items
	sc.items = nil
	sc.mu.Unlock()

	for _, item := range items {
		item.Release()
	}
}

// SceneItem is a refcounted, positioned reference to a source within a
// scene, addressed by an integer ID unique to the scene.
type SceneItem struct {
	id     int64
	scene  *Scene
	source *Source

	mu      sync.RWMutex
	enabled bool

	refs atomic.Int64
}

// Acquire takes an additional reference and returns the item.
func (it *SceneItem) Acquire() *SceneItem {
	it.refs.Add(1)
	return it
}

// Release drops one reference. When the count reaches zero the item
// releases its reference on the underlying source.
func (it *SceneItem) Release() {
	if it.refs.Add(-1) != 0 {
		return
	}
	it.source.Release()
}

// Refs reports the current reference count.
func (it *SceneItem) Refs() int64 {
	return it.refs.Load()
}

// ID returns the item ID within its scene.
func (it *SceneItem) ID() int64 {
	return it.id
}

// Scene returns the containing scene.
func (it *SceneItem) Scene() *Scene {
	return it.scene
}

// SourceName returns the name of the source the item references.
func (it *SceneItem) SourceName() string {
	return it.source.Name()
}

// Enabled reports whether the item is rendered.
func (it *SceneItem) Enabled() bool {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.enabled
}

// SetEnabled toggles whether the item is rendered.
func (it *SceneItem) SetEnabled(enabled bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.enabled = enabled
}

// Index returns the current render position of the item within its
// scene, or -1 if the item has been removed.
func (it *SceneItem) Index() int {
	it.scene.mu.RLock()
	defer it.scene.mu.RUnlock()
	for i, item := range it.scene.items {
		if item == it {
			return i
		}
	}
	return -1
}
