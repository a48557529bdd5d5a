package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDragHappyPath(t *testing.T) {
	room := testRoom()
	el := room.Elements[0] // seat at (20, 20), 40x40
	s := NewDragSession()

	assert.NoError(t, s.Begin(room, el, 30, 30))
	assert.Equal(t, DragActive, s.State())
	assert.Equal(t, el.ID, s.ElementID())

	// pointer grabbed the element at an offset of (10, 10)
	assert.NoError(t, s.Move(210, 110))
	x, y := s.Position()
	assert.Equal(t, 200.0, x)
	assert.Equal(t, 100.0, y)

	var gotID uint64
	var gotX, gotY float64
	err := s.Commit(func(elementID uint64, x, y float64) error {
		gotID, gotX, gotY = elementID, x, y
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, el.ID, gotID)
	assert.Equal(t, 200.0, gotX)
	assert.Equal(t, 100.0, gotY)
	assert.Equal(t, DragIdle, s.State())
}

func TestDragMoveClampsToCanvas(t *testing.T) {
	room := testRoom()
	s := NewDragSession()
	assert.NoError(t, s.Begin(room, room.Elements[0], 20, 20))

	assert.NoError(t, s.Move(-500, 5000))
	x, y := s.Position()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 560.0, y)
}

func TestDragCommitRollsBackOnPersistFailure(t *testing.T) {
	room := testRoom()
	el := room.Elements[0]
	s := NewDragSession()
	assert.NoError(t, s.Begin(room, el, 20, 20))
	assert.NoError(t, s.Move(400, 300))

	boom := errors.New("write failed")
	err := s.Commit(func(uint64, float64, float64) error { return boom })
	assert.ErrorIs(t, err, boom)

	// position restored to the gesture's origin, session idle again
	x, y := s.Position()
	assert.Equal(t, el.X, x)
	assert.Equal(t, el.Y, y)
	assert.Equal(t, DragIdle, s.State())
}

func TestDragCancelRestoresOrigin(t *testing.T) {
	room := testRoom()
	el := room.Elements[0]
	s := NewDragSession()
	assert.NoError(t, s.Begin(room, el, 20, 20))
	assert.NoError(t, s.Move(400, 300))

	assert.NoError(t, s.Cancel())
	x, y := s.Position()
	assert.Equal(t, el.X, x)
	assert.Equal(t, el.Y, y)
	assert.Equal(t, DragIdle, s.State())
}

func TestDragLockedRoom(t *testing.T) {
	room := testRoom()
	room.IsLocked = true
	s := NewDragSession()
	err := s.Begin(room, room.Elements[0], 20, 20)
	assert.ErrorIs(t, err, ErrRoomLocked)
	assert.Equal(t, DragIdle, s.State())
}

func TestDragStateGuards(t *testing.T) {
	room := testRoom()
	s := NewDragSession()

	assert.ErrorIs(t, s.Move(1, 1), ErrNoDrag)
	assert.ErrorIs(t, s.Cancel(), ErrNoDrag)
	assert.ErrorIs(t, s.Commit(func(uint64, float64, float64) error { return nil }), ErrNoDrag)

	assert.NoError(t, s.Begin(room, room.Elements[0], 20, 20))
	assert.ErrorIs(t, s.Begin(room, room.Elements[1], 0, 100), ErrDragInProgress)
}
