package model

// HostelRoom is a physical room in a hostel building. Unlike reading
// rooms, hostel rooms have no spatial layout; beds are addressed by number
// 1..Capacity. Hostel rooms are static reference data seeded by the
// operator.
//
// Fields:
//  ID           – primary key identifier.
//  BuildingID   – building containing the room.
//  BuildingName – denormalized building name.
//  RoomType     – single, twin, triple, ...
//  Capacity     – fixed number of beds.
//  Label        – display label (e.g. "B-204").
//  PriceCents   – monthly price in cents.
type HostelRoom struct {
	ID           uint64 // hostel_rooms.id
	BuildingID   uint64 // hostel_rooms.building_id
	BuildingName string // hostel_rooms.building_name
	RoomType     string // hostel_rooms.room_type
	Capacity     uint32 // hostel_rooms.capacity
	Label        string // hostel_rooms.label
	PriceCents   uint32 // hostel_rooms.price_cents
}

// Hostel assignment lifecycle statuses. Only ACTIVE assignments count
// toward occupancy; any other status leaves the bed free.
const (
	HostelStatusActive  = "ACTIVE"
	HostelStatusEnded   = "ENDED"
	HostelStatusPending = "PENDING"
)

// HostelAssignment binds one user to one (room, bed) pair. Assignments
// are created by the external payment/allocation service after a purchase
// completes; this service only reads them to compute availability.
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – hostel room.
//  BedNumber – bed inside the room, 1..capacity.
//  UserID    – the assigned member.
//  Status    – ACTIVE, ENDED or PENDING.
type HostelAssignment struct {
	ID        uint64 // hostel_assignments.id
	RoomID    uint64 // hostel_assignments.room_id
	BedNumber uint32 // hostel_assignments.bed_number
	UserID    uint64 // hostel_assignments.user_id
	Status    string // hostel_assignments.status
}
