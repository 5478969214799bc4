package state

import (
	"slices"

	"InkBoard/internal/geom"

	"github.com/google/uuid"
)

// GestureState is the contact table and the pinch anchors. Only the gesture
// arbiter writes it; tools read Gesturing to suspend themselves.
type GestureState struct {
	Gesturing bool

	contacts map[ContactID]Contact
	order    []ContactID

	LastPinchDistance float64
	HasPinch          bool
	LastMidpoint      geom.Point
	HasMidpoint       bool
}

// Track adds c to the table. It reports false for an id that is already tracked.
func (g *GestureState) Track(c Contact) bool {
	if g.contacts == nil {
		g.contacts = make(map[ContactID]Contact)
	}
	if _, ok := g.contacts[c.ID]; ok {
		return false
	}
	g.contacts[c.ID] = c
	g.order = append(g.order, c.ID)
	return true
}

// Update replaces a tracked contact and returns its previous value.
func (g *GestureState) Update(c Contact) (Contact, bool) {
	prev, ok := g.contacts[c.ID]
	if !ok {
		return Contact{}, false
	}
	g.contacts[c.ID] = c
	return prev, true
}

// Untrack removes a contact.
func (g *GestureState) Untrack(id ContactID) (Contact, bool) {
	c, ok := g.contacts[id]
	if !ok {
		return Contact{}, false
	}
	delete(g.contacts, id)
	g.order = slices.DeleteFunc(g.order, func(o ContactID) bool { return o == id })
	return c, true
}

func (g *GestureState) Len() int { return len(g.order) }

func (g *GestureState) Contact(id ContactID) (Contact, bool) {
	c, ok := g.contacts[id]
	return c, ok
}

// Contacts returns the tracked contacts in arrival order.
func (g *GestureState) Contacts() []Contact {
	out := make([]Contact, len(g.order))
	for i, id := range g.order {
		out[i] = g.contacts[id]
	}
	return out
}

// Pair returns the two oldest tracked contacts.
func (g *GestureState) Pair() (Contact, Contact, bool) {
	if len(g.order) < 2 {
		return Contact{}, Contact{}, false
	}
	return g.contacts[g.order[0]], g.contacts[g.order[1]], true
}

// Latest returns the two most recently tracked contacts.
func (g *GestureState) Latest() (Contact, Contact, bool) {
	n := len(g.order)
	if n < 2 {
		return Contact{}, Contact{}, false
	}
	return g.contacts[g.order[n-2]], g.contacts[g.order[n-1]], true
}

// ClearPinch forgets the pinch distance.
func (g *GestureState) ClearPinch() {
	g.LastPinchDistance, g.HasPinch = 0, false
}

// ClearAnchors forgets every pan/zoom anchor.
func (g *GestureState) ClearAnchors() {
	g.ClearPinch()
	g.LastMidpoint, g.HasMidpoint = geom.Point{}, false
}

// Session is the explicit per-session state shared between the gesture
// arbiter and the tool host. Each field has a single writer: the arbiter
// owns Gesture, the board owns ActiveTool.
type Session struct {
	ID         string
	Gesture    GestureState
	ActiveTool string
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

func (s *Session) IsGesturing() bool {
	return s.Gesture.Gesturing
}
