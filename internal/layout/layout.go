// Package layout implements the spatial layout operations for reading
// rooms: placing, moving and removing elements on a room's canvas. All
// functions are pure with respect to the room they receive; every mutation
// returns the full replacement element collection, which the caller
// persists as a whole.
package layout

import (
	"errors"
	"strings"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
)

// ErrRoomLocked is returned when a layout mutation is attempted on a
// locked room. Locked rooms are operational: their geometry is frozen so
// that seat identities stay stable for active assignments.
var ErrRoomLocked = errors.New("room is locked")

// ErrLabelRequired is returned when a seat element is added without a label.
var ErrLabelRequired = errors.New("seat label is required")

// ErrUnknownKind is returned when the element kind is not one of
// seat, door, window or toilet.
var ErrUnknownKind = errors.New("unknown element kind")

// ErrElementNotFound is returned when the target element is not part of
// the room's collection.
var ErrElementNotFound = errors.New("element not found")

// baseSize returns the unscaled dimensions for an element kind. The size
// multiplier supplied at creation scales these once; the stored element
// keeps the final dimensions.
func baseSize(kind model.ElementKind) (w, h float64) {
	switch kind {
	case model.KindSeat:
		return 40, 40
	case model.KindDoor:
		return 60, 20
	case model.KindWindow:
		return 60, 20
	case model.KindToilet:
		return 50, 50
	}
	return 0, 0
}

// Clamp constrains an element's top-left position so its bounding box
// stays within [0, canvasW] x [0, canvasH]. Clamping is idempotent:
// clamping an already-clamped position returns it unchanged.
func Clamp(x, y, w, h, canvasW, canvasH float64) (float64, float64) {
	maxX := canvasW - w
	maxY := canvasH - h
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	if x < 0 {
		x = 0
	} else if x > maxX {
		x = maxX
	}
	if y < 0 {
		y = 0
	} else if y > maxY {
		y = maxY
	}
	return x, y
}

// AddElement validates and places a new element on the room's canvas and
// returns the replacement element collection. The new element carries a
// zero ID; the store assigns one on insert. A non-positive size
// multiplier counts as 1.
func AddElement(room *model.Room, kind model.ElementKind, label string, x, y, sizeMultiplier float64) ([]model.Element, error) {
	if room.IsLocked {
		return nil, ErrRoomLocked
	}
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	label = strings.TrimSpace(label)
	if kind == model.KindSeat && label == "" {
		return nil, ErrLabelRequired
	}
	if sizeMultiplier <= 0 {
		sizeMultiplier = 1
	}
	w, h := baseSize(kind)
	w *= sizeMultiplier
	h *= sizeMultiplier
	x, y = Clamp(x, y, w, h, room.Width, room.Height)

	out := make([]model.Element, 0, len(room.Elements)+1)
	out = append(out, room.Elements...)
	out = append(out, model.Element{
		RoomID: room.ID,
		Kind:   kind,
		Label:  label,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
	})
	return out, nil
}

// MoveElement repositions an existing element, clamping the new position
// to the canvas, and returns the replacement element collection.
func MoveElement(room *model.Room, elementID uint64, x, y float64) ([]model.Element, error) {
	if room.IsLocked {
		return nil, ErrRoomLocked
	}
	idx := -1
	for i := range room.Elements {
		if room.Elements[i].ID == elementID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrElementNotFound
	}
	out := make([]model.Element, len(room.Elements))
	copy(out, room.Elements)
	el := &out[idx]
	el.X, el.Y = Clamp(x, y, el.Width, el.Height, room.Width, room.Height)
	return out, nil
}

// DeleteElement removes an element from the room and returns the
// replacement element collection.
func DeleteElement(room *model.Room, elementID uint64) ([]model.Element, error) {
	if room.IsLocked {
		return nil, ErrRoomLocked
	}
	idx := -1
	for i := range room.Elements {
		if room.Elements[i].ID == elementID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrElementNotFound
	}
	out := make([]model.Element, 0, len(room.Elements)-1)
	out = append(out, room.Elements[:idx]...)
	out = append(out, room.Elements[idx+1:]...)
	return out, nil
}
