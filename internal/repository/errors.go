// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: for
// example, ErrConflict signals that an operation cannot proceed because
// of dependent records (deleting a room that still has seat assignments).
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a room that still has
// active seat assignments. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrRoomNotFound is returned when a room lookup yields no rows.
var ErrRoomNotFound = errors.New("room not found")

// ErrHostelRoomNotFound is returned when a hostel room lookup yields no rows.
var ErrHostelRoomNotFound = errors.New("hostel room not found")
