package model

import "time"

// ElementKind discriminates the objects that can be placed on a room's
// layout canvas. Only seats participate in assignment; doors, windows and
// toilets are decorative layout markers.
type ElementKind string

const (
	KindSeat   ElementKind = "seat"
	KindDoor   ElementKind = "door"
	KindWindow ElementKind = "window"
	KindToilet ElementKind = "toilet"
)

// Valid reports whether k is one of the known element kinds.
func (k ElementKind) Valid() bool {
	switch k {
	case KindSeat, KindDoor, KindWindow, KindToilet:
		return true
	}
	return false
}

// Assignable reports whether elements of this kind can hold a seat
// assignment.
func (k ElementKind) Assignable() bool { return k == KindSeat }

// RoomType classifies a reading room by its amenity class. The type is
// copied onto a member's state as selected_room_type when they are seated,
// because it drives the monthly fee computed by the payment service.
type RoomType string

const (
	RoomAC    RoomType = "ac"
	RoomNonAC RoomType = "non-ac"
)

// Element is a positioned object on a room's canvas. An element belongs to
// exactly one room; it never exists on its own. Label is required for
// seats and optional for every other kind.
//
// Fields:
//  ID     – primary key identifier.
//  RoomID – room that owns this element.
//  Kind   – seat, door, window or toilet.
//  Label  – display label (e.g. "A1"); required when Kind is seat.
//  X, Y   – top-left position on the canvas.
//  Width  – element width after the size multiplier was applied.
//  Height – element height after the size multiplier was applied.
type Element struct {
	ID     uint64      // room_elements.id
	RoomID uint64      // room_elements.room_id
	Kind   ElementKind // room_elements.kind
	Label  string      // room_elements.label
	X      float64     // room_elements.x
	Y      float64     // room_elements.y
	Width  float64     // room_elements.width
	Height float64     // room_elements.height
}

// Room is a reading room: a fixed canvas holding an ordered collection of
// elements. IsLocked governs which operations are legal: layout edits
// require an unlocked room, seat assignment requires a locked one.
// Version increments on every write and is checked by assignment commits
// to detect concurrent administrators.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name chosen by the administrator.
//  RoomType  – ac or non-ac.
//  Width     – canvas width.
//  Height    – canvas height.
//  IsLocked  – lock flag (true = operational, false = editing).
//  LockedAt  – stamped on entry to the locked state, nil while unlocked.
//  Version   – optimistic concurrency counter.
//  Elements  – the full element collection, ordered by id.
type Room struct {
	ID        uint64     // rooms.id
	Name      string     // rooms.name
	RoomType  RoomType   // rooms.room_type
	Width     float64    // rooms.width
	Height    float64    // rooms.height
	IsLocked  bool       // rooms.is_locked
	LockedAt  *time.Time // rooms.locked_at (nullable)
	Version   uint64     // rooms.version
	CreatedAt time.Time  // rooms.created_at
	UpdatedAt time.Time  // rooms.updated_at
	Elements  []Element
}

// SeatByID returns the seat element with the given id, or nil when the
// room has no such element or the element is not a seat.
func (r *Room) SeatByID(elementID uint64) *Element {
	for i := range r.Elements {
		e := &r.Elements[i]
		if e.ID == elementID && e.Kind.Assignable() {
			return e
		}
	}
	return nil
}

// SeatAssignment binds one user to one seat element in one room. At most
// one active assignment exists per seat and per user; a reassignment
// deletes the old record and creates a new one.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – the seated member.
//  UserName   – denormalized display name of the member.
//  RoomID     – room containing the seat.
//  RoomName   – denormalized room name.
//  SeatID     – the seat element.
//  SeatLabel  – denormalized seat label.
//  AssignedAt – when the binding was created.
//  AssignedBy – id of the administrator who performed the assignment.
type SeatAssignment struct {
	ID         uint64    // seat_assignments.id
	UserID     uint64    // seat_assignments.user_id
	UserName   string    // seat_assignments.user_name
	RoomID     uint64    // seat_assignments.room_id
	RoomName   string    // seat_assignments.room_name
	SeatID     uint64    // seat_assignments.seat_id
	SeatLabel  string    // seat_assignments.seat_label
	AssignedAt time.Time // seat_assignments.assigned_at
	AssignedBy uint64    // seat_assignments.assigned_by
}
