package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
)

func testRoom() *model.Room {
	return &model.Room{
		ID:       1,
		Name:     "Main Hall",
		RoomType: model.RoomAC,
		Width:    800,
		Height:   600,
		Elements: []model.Element{
			{ID: 10, RoomID: 1, Kind: model.KindSeat, Label: "A1", X: 20, Y: 20, Width: 40, Height: 40},
			{ID: 11, RoomID: 1, Kind: model.KindDoor, X: 0, Y: 100, Width: 60, Height: 20},
		},
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{"inside stays put", 100, 100, 100, 100},
		{"negative snaps to zero", -5, -30, 0, 0},
		{"overflow snaps to far edge", 900, 700, 760, 560},
		{"exactly on edge", 760, 560, 760, 560},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Clamp(tt.x, tt.y, 40, 40, 800, 600)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)

			// clamping again must change nothing
			x2, y2 := Clamp(x, y, 40, 40, 800, 600)
			assert.Equal(t, x, x2)
			assert.Equal(t, y, y2)
		})
	}
}

func TestClampElementLargerThanCanvas(t *testing.T) {
	x, y := Clamp(50, 50, 1000, 1000, 800, 600)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestAddElement(t *testing.T) {
	room := testRoom()

	out, err := AddElement(room, model.KindSeat, "B2", 100, 100, 0)
	assert.NoError(t, err)
	assert.Len(t, out, 3)

	added := out[2]
	assert.Equal(t, model.KindSeat, added.Kind)
	assert.Equal(t, "B2", added.Label)
	assert.Zero(t, added.ID)
	assert.Equal(t, 40.0, added.Width) // multiplier <= 0 counts as 1
	assert.Equal(t, 40.0, added.Height)

	// the room itself is untouched
	assert.Len(t, room.Elements, 2)
}

func TestAddElementSizeMultiplier(t *testing.T) {
	room := testRoom()
	out, err := AddElement(room, model.KindToilet, "", 0, 0, 2)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, out[2].Width)
	assert.Equal(t, 100.0, out[2].Height)
}

func TestAddElementClampsPosition(t *testing.T) {
	room := testRoom()
	out, err := AddElement(room, model.KindSeat, "C9", 5000, -40, 1)
	assert.NoError(t, err)
	assert.Equal(t, 760.0, out[2].X)
	assert.Equal(t, 0.0, out[2].Y)
}

func TestAddElementSeatNeedsLabel(t *testing.T) {
	room := testRoom()
	_, err := AddElement(room, model.KindSeat, "   ", 10, 10, 1)
	assert.ErrorIs(t, err, ErrLabelRequired)

	// non-seat elements do not need one
	_, err = AddElement(room, model.KindWindow, "", 10, 10, 1)
	assert.NoError(t, err)
}

func TestAddElementUnknownKind(t *testing.T) {
	room := testRoom()
	_, err := AddElement(room, model.ElementKind("sofa"), "", 10, 10, 1)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestAddElementLockedRoom(t *testing.T) {
	room := testRoom()
	room.IsLocked = true
	_, err := AddElement(room, model.KindSeat, "B2", 10, 10, 1)
	assert.ErrorIs(t, err, ErrRoomLocked)
	assert.Len(t, room.Elements, 2)
}

func TestMoveElement(t *testing.T) {
	room := testRoom()
	out, err := MoveElement(room, 10, 300, 9999)
	assert.NoError(t, err)
	assert.Equal(t, 300.0, out[0].X)
	assert.Equal(t, 560.0, out[0].Y) // clamped to canvas
	// original untouched
	assert.Equal(t, 20.0, room.Elements[0].X)
}

func TestMoveElementLockedRoom(t *testing.T) {
	room := testRoom()
	room.IsLocked = true
	_, err := MoveElement(room, 10, 300, 300)
	assert.ErrorIs(t, err, ErrRoomLocked)
}

func TestMoveElementNotFound(t *testing.T) {
	room := testRoom()
	_, err := MoveElement(room, 99, 300, 300)
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestDeleteElement(t *testing.T) {
	room := testRoom()
	out, err := DeleteElement(room, 11)
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, uint64(10), out[0].ID)
	assert.Len(t, room.Elements, 2)
}

func TestDeleteElementLockedRoom(t *testing.T) {
	room := testRoom()
	room.IsLocked = true
	_, err := DeleteElement(room, 11)
	assert.ErrorIs(t, err, ErrRoomLocked)
}

func TestDeleteElementNotFound(t *testing.T) {
	room := testRoom()
	_, err := DeleteElement(room, 99)
	assert.ErrorIs(t, err, ErrElementNotFound)
}
