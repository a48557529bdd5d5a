package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
)

func occupancyRoom() *model.Room {
	return &model.Room{
		ID:   1,
		Name: "Main Hall",
		Elements: []model.Element{
			{ID: 10, Kind: model.KindSeat, Label: "A1"},
			{ID: 11, Kind: model.KindSeat, Label: "A2"},
			{ID: 12, Kind: model.KindDoor},
			{ID: 13, Kind: model.KindSeat, Label: "A3"},
		},
	}
}

func TestForRoom(t *testing.T) {
	room := occupancyRoom()
	assignments := []model.SeatAssignment{
		{ID: 1, SeatID: 11, UserID: 7},
	}

	statuses := ForRoom(room, assignments)
	assert.Len(t, statuses, 3) // door skipped

	byID := map[uint64]SeatStatus{}
	for _, s := range statuses {
		byID[s.Element.ID] = s
	}
	assert.False(t, byID[10].Occupied)
	assert.True(t, byID[11].Occupied)
	assert.Equal(t, uint64(7), byID[11].UserID)
	assert.False(t, byID[13].Occupied)

	assert.Equal(t, 1, OccupiedCount(room, assignments))
}

func TestForRoomEmpty(t *testing.T) {
	room := occupancyRoom()
	statuses := ForRoom(room, nil)
	for _, s := range statuses {
		assert.False(t, s.Occupied)
		assert.Zero(t, s.UserID)
	}
	assert.Equal(t, 0, OccupiedCount(room, nil))
}

func TestForHostel(t *testing.T) {
	rooms := []model.HostelRoom{
		{ID: 1, BuildingID: 5, BuildingName: "North Block", RoomType: "twin", Capacity: 2, PriceCents: 900000},
		{ID: 2, BuildingID: 5, BuildingName: "North Block", RoomType: "twin", Capacity: 2, PriceCents: 900000},
		{ID: 3, BuildingID: 5, BuildingName: "North Block", RoomType: "single", Capacity: 1, PriceCents: 1500000},
	}

	// One twin bed taken, one assignment ended, one stray bed number.
	assignments := []model.HostelAssignment{
		{ID: 1, RoomID: 1, BedNumber: 1, UserID: 7, Status: model.HostelStatusActive},
		{ID: 2, RoomID: 1, BedNumber: 2, UserID: 8, Status: model.HostelStatusEnded},
		{ID: 3, RoomID: 2, BedNumber: 9, UserID: 9, Status: model.HostelStatusActive},
	}

	avail := ForHostel(rooms, assignments)

	twin := avail[TypeKey{BuildingID: 5, RoomType: "twin"}]
	assert.Equal(t, uint32(4), twin.Capacity)
	assert.Equal(t, uint32(3), twin.Available) // ENDED frees a bed, bed 9 does not exist
	assert.True(t, twin.Bookable())
	assert.Equal(t, "North Block", twin.BuildingName)

	single := avail[TypeKey{BuildingID: 5, RoomType: "single"}]
	assert.Equal(t, uint32(1), single.Capacity)
	assert.Equal(t, uint32(1), single.Available)
}

func TestForHostelReportsCheapestPrice(t *testing.T) {
	rooms := []model.HostelRoom{
		{ID: 1, BuildingID: 5, RoomType: "twin", Capacity: 2, PriceCents: 950000},
		{ID: 2, BuildingID: 5, RoomType: "twin", Capacity: 2, PriceCents: 900000},
		{ID: 3, BuildingID: 5, RoomType: "twin", Capacity: 2, PriceCents: 980000},
	}

	avail := ForHostel(rooms, nil)
	twin := avail[TypeKey{BuildingID: 5, RoomType: "twin"}]
	assert.Equal(t, uint32(900000), twin.PriceCents)
}

func TestForHostelFullType(t *testing.T) {
	rooms := []model.HostelRoom{
		{ID: 1, BuildingID: 5, RoomType: "twin", Capacity: 2},
	}
	assignments := []model.HostelAssignment{
		{ID: 1, RoomID: 1, BedNumber: 1, UserID: 7, Status: model.HostelStatusActive},
		{ID: 2, RoomID: 1, BedNumber: 2, UserID: 8, Status: model.HostelStatusActive},
	}

	avail := ForHostel(rooms, assignments)
	twin := avail[TypeKey{BuildingID: 5, RoomType: "twin"}]
	assert.Equal(t, uint32(0), twin.Available)
	assert.False(t, twin.Bookable())
}

func TestFreeBed(t *testing.T) {
	room := model.HostelRoom{ID: 1, Capacity: 3}

	bed, ok := FreeBed(room, nil)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), bed)

	bed, ok = FreeBed(room, []model.HostelAssignment{
		{RoomID: 1, BedNumber: 1, Status: model.HostelStatusActive},
		{RoomID: 1, BedNumber: 2, Status: model.HostelStatusEnded},
	})
	assert.True(t, ok)
	assert.Equal(t, uint32(2), bed) // ended assignment does not block the bed

	_, ok = FreeBed(room, []model.HostelAssignment{
		{RoomID: 1, BedNumber: 1, Status: model.HostelStatusActive},
		{RoomID: 1, BedNumber: 2, Status: model.HostelStatusActive},
		{RoomID: 1, BedNumber: 3, Status: model.HostelStatusActive},
	})
	assert.False(t, ok)
}
