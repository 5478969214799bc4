package state

import (
	"fmt"
	"strings"

	"InkBoard/internal/geom"
)

// ContactID identifies one contact for its whole lifetime.
type ContactID int64

// InputKind is the device class behind a contact.
type InputKind int

const (
	InputMouse InputKind = iota
	InputTouch
	InputPen
)

func (k InputKind) String() string {
	switch k {
	case InputMouse:
		return "mouse"
	case InputTouch:
		return "touch"
	case InputPen:
		return "pen"
	default:
		return fmt.Sprintf("InputKind(%d)", int(k))
	}
}

// ParseInputKind accepts DOM pointerType values. Unknown values are treated
// as mouse input.
func ParseInputKind(s string) InputKind {
	switch strings.ToLower(s) {
	case "touch":
		return InputTouch
	case "pen", "stylus":
		return InputPen
	default:
		return InputMouse
	}
}

// Button numbers follow the DOM convention.
type Button int

const (
	ButtonPrimary   Button = 0
	ButtonMiddle    Button = 1
	ButtonSecondary Button = 2
)

// DefaultPressure is used when the device does not report pressure.
const DefaultPressure = 0.5

// Contact is one point of input contact. Position is in screen space.
type Contact struct {
	ID          ContactID
	Position    geom.Point
	Pressure    float64
	HasPressure bool
	Pressed     bool
	Kind        InputKind
	Button      Button
}

// EffectivePressure is the reported pressure, or DefaultPressure when the
// device reports none.
func (c Contact) EffectivePressure() float64 {
	if !c.HasPressure {
		return DefaultPressure
	}
	return c.Pressure
}

// PrimaryButton reports whether the contact may start a tool operation.
// Only indirect pointers have buttons to reject.
func (c Contact) PrimaryButton() bool {
	return c.Kind != InputMouse || c.Button == ButtonPrimary
}
