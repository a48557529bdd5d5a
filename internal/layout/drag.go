package layout

import (
	"errors"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
)

// DragState enumerates the phases of a drag gesture on a layout element.
type DragState int

const (
	DragIdle DragState = iota
	DragActive
	DragCommitting
)

// ErrDragInProgress is returned when Begin is called while a gesture is
// already active.
var ErrDragInProgress = errors.New("drag already in progress")

// ErrNoDrag is returned when Move, Commit or Cancel is called with no
// active gesture.
var ErrNoDrag = errors.New("no drag in progress")

// DragSession tracks one in-flight drag gesture. The element's position
// is updated locally on every Move and persisted only once, on Commit.
// When the persist call fails, the session rolls the position back to
// where the gesture started instead of leaving the moved position only
// half applied.
type DragSession struct {
	state     DragState
	elementID uint64
	// pointer offset inside the element, so the element does not jump
	// under the pointer when the gesture starts
	offX, offY float64
	// element size and canvas bounds captured at Begin, used to clamp
	w, h             float64
	canvasW, canvasH float64
	// position at gesture start, restored on rollback
	originX, originY   float64
	currentX, currentY float64
}

// NewDragSession returns an idle session.
func NewDragSession() *DragSession { return &DragSession{} }

// State returns the current phase of the gesture.
func (s *DragSession) State() DragState { return s.state }

// ElementID returns the element being dragged, zero while idle.
func (s *DragSession) ElementID() uint64 { return s.elementID }

// Position returns the element's current (possibly uncommitted) position.
func (s *DragSession) Position() (x, y float64) { return s.currentX, s.currentY }

// Begin starts a gesture on el at the given pointer coordinates.
func (s *DragSession) Begin(room *model.Room, el model.Element, pointerX, pointerY float64) error {
	if s.state != DragIdle {
		return ErrDragInProgress
	}
	if room.IsLocked {
		return ErrRoomLocked
	}
	s.state = DragActive
	s.elementID = el.ID
	s.offX = pointerX - el.X
	s.offY = pointerY - el.Y
	s.w, s.h = el.Width, el.Height
	s.canvasW, s.canvasH = room.Width, room.Height
	s.originX, s.originY = el.X, el.Y
	s.currentX, s.currentY = el.X, el.Y
	return nil
}

// Move updates the local position from a pointer-move event. Nothing is
// persisted; callers render from Position.
func (s *DragSession) Move(pointerX, pointerY float64) error {
	if s.state != DragActive {
		return ErrNoDrag
	}
	s.currentX, s.currentY = Clamp(pointerX-s.offX, pointerY-s.offY, s.w, s.h, s.canvasW, s.canvasH)
	return nil
}

// Commit persists the final position through persist and ends the
// gesture. On persist failure the position rolls back to the gesture's
// origin and the error is returned; either way the session ends idle.
func (s *DragSession) Commit(persist func(elementID uint64, x, y float64) error) error {
	if s.state != DragActive {
		return ErrNoDrag
	}
	s.state = DragCommitting
	err := persist(s.elementID, s.currentX, s.currentY)
	if err != nil {
		s.currentX, s.currentY = s.originX, s.originY
	}
	s.reset()
	return err
}

// Cancel abandons the gesture and restores the origin position.
func (s *DragSession) Cancel() error {
	if s.state != DragActive {
		return ErrNoDrag
	}
	s.currentX, s.currentY = s.originX, s.originY
	s.reset()
	return nil
}

func (s *DragSession) reset() {
	s.state = DragIdle
	s.elementID = 0
}
