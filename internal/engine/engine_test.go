package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
)

// fakeStore is an in-memory Store that applies commits the same way the
// SQL implementation does, including the room version check.
type fakeStore struct {
	rooms       map[uint64]*model.Room
	users       map[uint64]*model.User
	assignments map[uint64]*model.SeatAssignment
	nextID      uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:       map[uint64]*model.Room{},
		users:       map[uint64]*model.User{},
		assignments: map[uint64]*model.SeatAssignment{},
		nextID:      1,
	}
}

func (f *fakeStore) RoomByID(_ context.Context, id uint64) (*model.Room, error) {
	return f.rooms[id], nil
}

func (f *fakeStore) UserByID(_ context.Context, id uint64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeStore) AssignmentByID(_ context.Context, id uint64) (*model.SeatAssignment, error) {
	return f.assignments[id], nil
}

func (f *fakeStore) AssignmentBySeat(_ context.Context, seatID uint64) (*model.SeatAssignment, error) {
	for _, a := range f.assignments {
		if a.SeatID == seatID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) AssignmentByUser(_ context.Context, userID uint64) (*model.SeatAssignment, error) {
	for _, a := range f.assignments {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) AssignmentsByRoom(_ context.Context, roomID uint64) ([]model.SeatAssignment, error) {
	var out []model.SeatAssignment
	for _, a := range f.assignments {
		if a.RoomID == roomID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) CommitAssign(_ context.Context, c AssignCommit) (*model.SeatAssignment, error) {
	room := f.rooms[c.RoomID]
	if room == nil || room.Version != c.RoomVersion {
		return nil, ErrVersionConflict
	}
	room.Version++
	if c.DeleteAssignmentID != 0 {
		if _, ok := f.assignments[c.DeleteAssignmentID]; !ok {
			return nil, ErrVersionConflict
		}
		delete(f.assignments, c.DeleteAssignmentID)
	}
	a := c.Assignment
	a.ID = f.nextID
	f.nextID++
	f.assignments[a.ID] = &a
	f.users[c.UserID].Membership = c.Membership
	return &a, nil
}

func (f *fakeStore) CommitUnassign(_ context.Context, c UnassignCommit) error {
	room := f.rooms[c.RoomID]
	if room == nil || room.Version != c.RoomVersion {
		return ErrVersionConflict
	}
	room.Version++
	if _, ok := f.assignments[c.AssignmentID]; !ok {
		return ErrAssignmentNotFound
	}
	delete(f.assignments, c.AssignmentID)
	u := f.users[c.UserID]
	u.Membership.CurrentSeat = nil
	u.Membership.NextPaymentDue = nil
	u.Membership.LastPaymentDate = nil
	u.Membership.SelectedRoomType = nil
	return nil
}

func seedStore() *fakeStore {
	f := newFakeStore()
	f.rooms[1] = &model.Room{
		ID:       1,
		Name:     "Main Hall",
		RoomType: model.RoomAC,
		IsLocked: true,
		Version:  3,
		Elements: []model.Element{
			{ID: 10, Kind: model.KindSeat, Label: "A1"},
			{ID: 11, Kind: model.KindSeat, Label: "A2"},
			{ID: 12, Kind: model.KindDoor},
		},
	}
	f.rooms[2] = &model.Room{
		ID:       2,
		Name:     "Quiet Room",
		RoomType: model.RoomNonAC,
		IsLocked: true,
		Version:  1,
		Elements: []model.Element{
			{ID: 20, Kind: model.KindSeat, Label: "B1"},
		},
	}
	f.users[7] = &model.User{ID: 7, FullName: "Sita Sharma", Role: "MEMBER"}
	f.users[100] = &model.User{ID: 100, FullName: "Admin", Role: "ADMIN"}
	return f
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAssignFreshStartsBillingCycle(t *testing.T) {
	f := seedStore()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewWithClock(f, fixedClock(now))

	a, err := m.Assign(context.Background(), AssignRequest{RoomID: 1, SeatID: 10, UserID: 7, AssignedBy: 100})
	require.NoError(t, err)

	assert.Equal(t, uint64(7), a.UserID)
	assert.Equal(t, "Sita Sharma", a.UserName)
	assert.Equal(t, "Main Hall", a.RoomName)
	assert.Equal(t, "A1", a.SeatLabel)
	assert.Equal(t, uint64(100), a.AssignedBy)

	ms := f.users[7].Membership
	require.NotNil(t, ms.CurrentSeat)
	assert.Equal(t, uint64(10), ms.CurrentSeat.SeatID)
	require.NotNil(t, ms.NextPaymentDue)
	require.NotNil(t, ms.LastPaymentDate)
	assert.Equal(t, now, *ms.LastPaymentDate)
	assert.Equal(t, now.Add(BillingCycle), *ms.NextPaymentDue)
	assert.True(t, ms.RegistrationCompleted)
	assert.True(t, ms.EnrollmentCompleted)
	require.NotNil(t, ms.SelectedRoomType)
	assert.Equal(t, "ac", *ms.SelectedRoomType)
}

func TestAssignRequiresLockedRoom(t *testing.T) {
	f := seedStore()
	f.rooms[1].IsLocked = false
	m := New(f)

	_, err := m.Assign(context.Background(), AssignRequest{RoomID: 1, SeatID: 10, UserID: 7})
	assert.ErrorIs(t, err, ErrRoomUnlocked)
}

func TestAssignUnknownRoomOrUser(t *testing.T) {
	f := seedStore()
	m := New(f)
	ctx := context.Background()

	_, err := m.Assign(ctx, AssignRequest{RoomID: 999, SeatID: 10, UserID: 7})
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 10, UserID: 999})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAssignRejectsNonSeatAndMissingElements(t *testing.T) {
	f := seedStore()
	m := New(f)

	_, err := m.Assign(context.Background(), AssignRequest{RoomID: 1, SeatID: 12, UserID: 7})
	assert.ErrorIs(t, err, ErrSeatNotFound) // door

	_, err = m.Assign(context.Background(), AssignRequest{RoomID: 1, SeatID: 999, UserID: 7})
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestAssignOccupiedSeat(t *testing.T) {
	f := seedStore()
	m := New(f)
	ctx := context.Background()

	_, err := m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 10, UserID: 7, AssignedBy: 100})
	require.NoError(t, err)

	f.users[8] = &model.User{ID: 8, FullName: "Ram Thapa", Role: "MEMBER"}
	_, err = m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 10, UserID: 8, AssignedBy: 100})
	assert.ErrorIs(t, err, ErrSeatOccupied)
}

func TestReassignNeedsConfirmation(t *testing.T) {
	f := seedStore()
	m := New(f)
	ctx := context.Background()

	_, err := m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 10, UserID: 7, AssignedBy: 100})
	require.NoError(t, err)

	_, err = m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 11, UserID: 7, AssignedBy: 100})
	assert.ErrorIs(t, err, ErrConfirmRequired)
}

func TestReassignPreservesBilling(t *testing.T) {
	f := seedStore()
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewWithClock(f, fixedClock(t0))
	ctx := context.Background()

	first, err := m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 10, UserID: 7, AssignedBy: 100})
	require.NoError(t, err)

	// ten days later the member moves to another room entirely
	t1 := t0.Add(10 * 24 * time.Hour)
	m = NewWithClock(f, fixedClock(t1))
	second, err := m.Assign(ctx, AssignRequest{RoomID: 2, SeatID: 20, UserID: 7, AssignedBy: 100, ConfirmMove: true})
	require.NoError(t, err)

	// old record is gone, exactly one assignment remains
	cur, err := m.SeatOf(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, second.ID, cur.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, f.assignments, 1)

	// billing dates did not move
	ms := f.users[7].Membership
	require.NotNil(t, ms.NextPaymentDue)
	assert.Equal(t, t0.Add(BillingCycle), *ms.NextPaymentDue)
	assert.Equal(t, t0, *ms.LastPaymentDate)

	// seat snapshot and room type follow the new seat
	assert.Equal(t, uint64(20), ms.CurrentSeat.SeatID)
	assert.Equal(t, "non-ac", *ms.SelectedRoomType)
}

func TestUnassignClearsSeatKeepsLifetimeFlags(t *testing.T) {
	f := seedStore()
	m := New(f)
	ctx := context.Background()

	a, err := m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 10, UserID: 7, AssignedBy: 100})
	require.NoError(t, err)

	err = m.Unassign(ctx, a.ID, false)
	assert.ErrorIs(t, err, ErrConfirmRequired)

	require.NoError(t, m.Unassign(ctx, a.ID, true))

	ms := f.users[7].Membership
	assert.Nil(t, ms.CurrentSeat)
	assert.Nil(t, ms.NextPaymentDue)
	assert.Nil(t, ms.LastPaymentDate)
	assert.Nil(t, ms.SelectedRoomType)
	assert.True(t, ms.RegistrationCompleted)
	assert.True(t, ms.EnrollmentCompleted)

	got, err := m.SeatOf(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnassignMissingAssignment(t *testing.T) {
	f := seedStore()
	m := New(f)
	err := m.Unassign(context.Background(), 42, true)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestUnassignRoomDeletedUnderneath(t *testing.T) {
	f := seedStore()
	m := New(f)
	ctx := context.Background()

	a, err := m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 10, UserID: 7, AssignedBy: 100})
	require.NoError(t, err)

	delete(f.rooms, 1)
	err = m.Unassign(ctx, a.ID, true)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestAssignVersionConflict(t *testing.T) {
	f := seedStore()
	m := New(&racingStore{fakeStore: f})

	_, err := m.Assign(context.Background(), AssignRequest{RoomID: 1, SeatID: 10, UserID: 7, AssignedBy: 100})
	assert.ErrorIs(t, err, ErrVersionConflict)
}

// racingStore simulates a concurrent operator by bumping the room version
// after every read, so the commit always sees a stale precondition.
type racingStore struct {
	*fakeStore
}

func (r *racingStore) RoomByID(ctx context.Context, id uint64) (*model.Room, error) {
	room, err := r.fakeStore.RoomByID(ctx, id)
	if room != nil {
		snap := *room
		r.fakeStore.rooms[id].Version++
		return &snap, err
	}
	return room, err
}

func TestRoomAssignments(t *testing.T) {
	f := seedStore()
	m := New(f)
	ctx := context.Background()

	f.users[8] = &model.User{ID: 8, FullName: "Ram Thapa", Role: "MEMBER"}
	_, err := m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 10, UserID: 7, AssignedBy: 100})
	require.NoError(t, err)
	_, err = m.Assign(ctx, AssignRequest{RoomID: 1, SeatID: 11, UserID: 8, AssignedBy: 100})
	require.NoError(t, err)

	list, err := m.RoomAssignments(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
