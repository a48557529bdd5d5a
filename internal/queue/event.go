// Package queue holds the broker message payloads and the background
// consumer that appends committed seat events to logs/assignment.log.
package queue

// SeatEvent is published after an assignment commit succeeds. Kind is
// "assigned", "reassigned" or "released". The payload carries enough
// denormalized context for downstream consumers (notification, audit,
// analytics) to act without querying the primary database.
type SeatEvent struct {
	Kind         string `json:"kind"`
	AssignmentID uint64 `json:"assignment_id"`
	UserID       uint64 `json:"user_id"`
	UserName     string `json:"user_name"`
	RoomID       uint64 `json:"room_id"`
	RoomName     string `json:"room_name"`
	SeatID       uint64 `json:"seat_id"`
	SeatLabel    string `json:"seat_label"`
	AssignedBy   uint64 `json:"assigned_by"`
	OccurredAt   string `json:"occurred_at"`
}

// Event kinds carried in SeatEvent.Kind.
const (
	SeatAssigned   = "assigned"
	SeatReassigned = "reassigned"
	SeatReleased   = "released"
)
