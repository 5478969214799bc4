package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"InkBoard/internal/logging"

	"github.com/google/uuid"
)

var ErrUnknownItem = errors.New("unknown item")

const stateVersion = 1

// exported is the serialized form of a whole document.
type exported struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// Document is the in-memory scene graph: an ordered set of items, bottom to
// top. Mutations come from the drawing core only; renderers and transports
// read copies from other goroutines.
type Document struct {
	mu    sync.RWMutex
	order []ItemID
	items map[ItemID]*Item
	clock Clock
	log   *slog.Logger
}

func NewDocument() *Document {
	return &Document{
		items: make(map[ItemID]*Item),
		log:   logging.For("document"),
	}
}

// CreateItem appends a new item on top and returns its handle.
func (d *Document) CreateItem(kind Kind, g Geometry, style Style) ItemID {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := ItemID(uuid.NewString())
	d.items[id] = &Item{ID: id, Kind: kind, Geometry: g.Clone(), Style: style}
	d.order = append(d.order, id)
	d.clock.Tick()
	d.log.Debug("item created", "id", id, "kind", kind, "segments", len(g.Segments))
	return id
}

// RemoveItem deletes an item. It reports whether the item existed.
func (d *Document) RemoveItem(id ItemID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.items[id]; !ok {
		return false
	}
	delete(d.items, id)
	for i, o := range d.order {
		if o == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.clock.Tick()
	d.log.Debug("item removed", "id", id)
	return true
}

func (d *Document) mutate(id ItemID, fn func(it *Item)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	it, ok := d.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	fn(it)
	d.clock.Tick()
	return nil
}

func (d *Document) SetVisible(id ItemID, visible bool) error {
	return d.mutate(id, func(it *Item) { it.Hidden = !visible })
}

func (d *Document) SetSelected(id ItemID, selected bool) error {
	return d.mutate(id, func(it *Item) { it.Selected = selected })
}

// SetGeometry replaces the segments and closed flag of an item.
func (d *Document) SetGeometry(id ItemID, g Geometry) error {
	return d.mutate(id, func(it *Item) { it.Geometry = g.Clone() })
}

// SetSegments replaces the segments of an item, keeping its closed flag.
func (d *Document) SetSegments(id ItemID, segs []Segment) error {
	return d.mutate(id, func(it *Item) {
		it.Geometry.Segments = append([]Segment(nil), segs...)
	})
}

func (d *Document) SetStyle(id ItemID, style Style) error {
	return d.mutate(id, func(it *Item) { it.Style = style })
}

// DeselectAll clears the selection flag on every item.
func (d *Document) DeselectAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	changed := false
	for _, it := range d.items {
		if it.Selected {
			it.Selected = false
			changed = true
		}
	}
	if changed {
		d.clock.Tick()
	}
}

// Item returns a copy of one item.
func (d *Document) Item(id ItemID) (Item, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	it, ok := d.items[id]
	if !ok {
		return Item{}, false
	}
	return it.clone(), true
}

// Items returns copies of all items, bottom to top.
func (d *Document) Items() []Item {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Item, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.items[id].clone())
	}
	return out
}

func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// QueryItems returns the ids of the items matching pred, bottom to top.
func (d *Document) QueryItems(pred func(Item) bool) []ItemID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []ItemID
	for _, id := range d.order {
		if pred(*d.items[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

// ItemGeometry serializes the geometry of one item. Equal geometry always
// yields equal bytes.
func (d *Document) ItemGeometry(id ItemID) ([]byte, error) {
	it, ok := d.Item(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return json.Marshal(it.Geometry)
}

// Revision is bumped by every mutation.
func (d *Document) Revision() uint64 {
	return d.clock.Now()
}

// Clear removes every item.
func (d *Document) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.items = make(map[ItemID]*Item)
	d.order = nil
	d.clock.Tick()
	d.log.Debug("document cleared")
}

// ExportState serializes the whole document.
func (d *Document) ExportState() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	st := exported{Version: stateVersion, Items: make([]Item, 0, len(d.order))}
	for _, id := range d.order {
		st.Items = append(st.Items, *d.items[id])
	}
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("export document: %w", err)
	}
	return data, nil
}

// ImportState replaces the whole document with a serialized state. On error
// the document is left untouched.
func (d *Document) ImportState(data []byte) error {
	var st exported
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("import document: %w", err)
	}
	if st.Version != stateVersion {
		return fmt.Errorf("import document: unsupported version %d", st.Version)
	}

	items := make(map[ItemID]*Item, len(st.Items))
	order := make([]ItemID, 0, len(st.Items))
	for i := range st.Items {
		it := st.Items[i]
		if it.ID == "" {
			return fmt.Errorf("import document: item %d has no id", i)
		}
		if _, dup := items[it.ID]; dup {
			return fmt.Errorf("import document: duplicate item %s", it.ID)
		}
		items[it.ID] = &it
		order = append(order, it.ID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = items
	d.order = order
	d.clock.Tick()
	d.log.Debug("document imported", "items", len(order))
	return nil
}
