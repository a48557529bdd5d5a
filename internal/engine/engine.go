// Package engine implements the seat assignment manager: the only code
// path that creates, moves or removes the binding between a member and a
// seat. All mutations go through an injected Store so the multi-record
// write (assignment row plus membership state) is committed atomically in
// one place, and so concurrent administrators are caught by the room
// version check instead of silently overwriting each other.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
)

// BillingCycle is the length of one membership billing period. A fresh
// assignment starts a new cycle; a reassignment never does.
const BillingCycle = 30 * 24 * time.Hour

var (
	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoomUnlocked is returned when assignment is attempted in a room
	// that is still in layout-editing state.
	ErrRoomUnlocked = errors.New("room is not locked for assignment")
	// ErrSeatNotFound is returned when the target element does not exist
	// in the room or is not a seat.
	ErrSeatNotFound = errors.New("seat not found in room")
	// ErrSeatOccupied is returned when the target seat already has an
	// active assignment.
	ErrSeatOccupied = errors.New("seat is already assigned")
	// ErrConfirmRequired is returned when the operation needs an explicit
	// operator confirmation that was not given: moving a member who
	// already holds a seat, or removing an assignment.
	ErrConfirmRequired = errors.New("operator confirmation required")
	// ErrAssignmentNotFound is returned when the referenced assignment
	// does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrVersionConflict is returned by Store implementations when the
	// room was modified between the precondition read and the commit.
	ErrVersionConflict = errors.New("room was modified concurrently")
)

// AssignCommit describes one atomic assignment write. Implementations
// must apply all three parts in a single transaction: delete the old
// assignment when DeleteAssignmentID is non-zero, insert Assignment, and
// write Membership onto the user row. RoomVersion is the version observed
// while preconditions were checked; the commit must fail with
// ErrVersionConflict when the room has since moved on.
type AssignCommit struct {
	RoomID             uint64
	RoomVersion        uint64
	DeleteAssignmentID uint64
	Assignment         model.SeatAssignment
	UserID             uint64
	Membership         model.Membership
}

// UnassignCommit describes one atomic unassignment write: delete the
// assignment row and clear the user's seat and billing fields. The
// lifetime flags registration_completed and enrollment_completed are not
// part of the commit and must be left untouched by implementations.
type UnassignCommit struct {
	RoomID       uint64
	RoomVersion  uint64
	AssignmentID uint64
	UserID       uint64
}

// Store is the persistence contract the engine reads and mutates through.
// Lookup methods return (nil, nil) when the record simply does not exist,
// so absence is not an error on the precondition path.
type Store interface {
	RoomByID(ctx context.Context, roomID uint64) (*model.Room, error)
	UserByID(ctx context.Context, userID uint64) (*model.User, error)
	AssignmentByID(ctx context.Context, id uint64) (*model.SeatAssignment, error)
	AssignmentBySeat(ctx context.Context, seatID uint64) (*model.SeatAssignment, error)
	AssignmentByUser(ctx context.Context, userID uint64) (*model.SeatAssignment, error)
	AssignmentsByRoom(ctx context.Context, roomID uint64) ([]model.SeatAssignment, error)
	CommitAssign(ctx context.Context, c AssignCommit) (*model.SeatAssignment, error)
	CommitUnassign(ctx context.Context, c UnassignCommit) error
}

// Manager performs assignment operations against a Store.
type Manager struct {
	store Store
	now   func() time.Time
}

// New returns a Manager using the wall clock.
func New(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// NewWithClock returns a Manager with an injected clock, used by tests to
// pin billing timestamps.
func NewWithClock(store Store, now func() time.Time) *Manager {
	return &Manager{store: store, now: now}
}

// AssignRequest carries the parameters of an Assign call.
type AssignRequest struct {
	RoomID     uint64
	SeatID     uint64
	UserID     uint64
	AssignedBy uint64
	// ConfirmMove acknowledges that the member already holds a seat and
	// the operator really intends to move them.
	ConfirmMove bool
}

// Assign binds a member to a seat. Preconditions: the room is locked,
// the element is a seat, and the seat is free. A member who already holds
// a seat elsewhere is moved only when ConfirmMove is set; the move keeps
// the member's billing dates exactly as they were. A first-time
// assignment starts a fresh billing cycle and marks registration and
// enrollment complete.
func (m *Manager) Assign(ctx context.Context, req AssignRequest) (*model.SeatAssignment, error) {
	room, err := m.store.RoomByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if !room.IsLocked {
		return nil, ErrRoomUnlocked
	}
	seat := room.SeatByID(req.SeatID)
	if seat == nil {
		return nil, ErrSeatNotFound
	}
	if existing, err := m.store.AssignmentBySeat(ctx, seat.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrSeatOccupied
	}
	user, err := m.store.UserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	prior, err := m.store.AssignmentByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	var nextDue, lastPaid time.Time
	var deleteID uint64
	if prior != nil {
		if !req.ConfirmMove {
			return nil, ErrConfirmRequired
		}
		// Capture the billing dates before anything is mutated: a move
		// must not restart the member's payment cadence.
		deleteID = prior.ID
		if user.Membership.NextPaymentDue != nil && user.Membership.LastPaymentDate != nil {
			nextDue = *user.Membership.NextPaymentDue
			lastPaid = *user.Membership.LastPaymentDate
		} else {
			// Seated user with no billing dates means an earlier partial
			// write; start a fresh cycle rather than propagating nulls.
			nextDue = now.Add(BillingCycle)
			lastPaid = now
		}
	} else {
		nextDue = now.Add(BillingCycle)
		lastPaid = now
	}

	roomType := string(room.RoomType)
	commit := AssignCommit{
		RoomID:             room.ID,
		RoomVersion:        room.Version,
		DeleteAssignmentID: deleteID,
		Assignment: model.SeatAssignment{
			UserID:     user.ID,
			UserName:   user.FullName,
			RoomID:     room.ID,
			RoomName:   room.Name,
			SeatID:     seat.ID,
			SeatLabel:  seat.Label,
			AssignedAt: now,
			AssignedBy: req.AssignedBy,
		},
		UserID: user.ID,
		Membership: model.Membership{
			CurrentSeat: &model.CurrentSeat{
				RoomID:    room.ID,
				RoomName:  room.Name,
				SeatID:    seat.ID,
				SeatLabel: seat.Label,
			},
			NextPaymentDue:        &nextDue,
			LastPaymentDate:       &lastPaid,
			RegistrationCompleted: true,
			EnrollmentCompleted:   true,
			SelectedRoomType:      &roomType,
		},
	}
	return m.store.CommitAssign(ctx, commit)
}

// Unassign removes an assignment and clears the member's seat and billing
// state. Registration and enrollment are lifetime grants and survive the
// removal. The operation requires explicit operator confirmation.
func (m *Manager) Unassign(ctx context.Context, assignmentID uint64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}
	a, err := m.store.AssignmentByID(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrAssignmentNotFound
	}
	room, err := m.store.RoomByID(ctx, a.RoomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	return m.store.CommitUnassign(ctx, UnassignCommit{
		RoomID:       room.ID,
		RoomVersion:  room.Version,
		AssignmentID: a.ID,
		UserID:       a.UserID,
	})
}

// RoomAssignments lists all assignments for a room; the occupancy
// calculator and the admin view consume this.
func (m *Manager) RoomAssignments(ctx context.Context, roomID uint64) ([]model.SeatAssignment, error) {
	return m.store.AssignmentsByRoom(ctx, roomID)
}

// SeatOf resolves the assignment held by a user, nil when unseated. The
// member dashboard uses this to highlight "my seat".
func (m *Manager) SeatOf(ctx context.Context, userID uint64) (*model.SeatAssignment, error) {
	return m.store.AssignmentByUser(ctx, userID)
}
