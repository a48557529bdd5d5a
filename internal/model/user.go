package model

import "time"

// CurrentSeat is the denormalized seat snapshot stored on a member's
// record so the dashboard can render "my seat" without joining through
// the assignment table.
type CurrentSeat struct {
	RoomID    uint64 `json:"room_id"`
	RoomName  string `json:"room_name"`
	SeatID    uint64 `json:"seat_id"`
	SeatLabel string `json:"seat_label"`
}

// Membership is the slice of a user's record owned by the assignment
// engine. Seat and billing fields are written together with the
// assignment record in a single transaction. RegistrationCompleted and
// EnrollmentCompleted are lifetime grants: set on first assignment and
// never cleared, even when the member gives up their seat.
//
// Fields:
//  CurrentSeat           – the seat currently held, nil when unseated.
//  NextPaymentDue        – next billing date, nil when unseated.
//  LastPaymentDate       – anchor of the current billing cycle, nil when unseated.
//  RegistrationCompleted – lifetime flag, survives unassignment.
//  EnrollmentCompleted   – lifetime flag, survives unassignment.
//  SelectedRoomType      – room type of the held seat, nil when unseated.
type Membership struct {
	CurrentSeat           *CurrentSeat // users.current_* columns (all null when unseated)
	NextPaymentDue        *time.Time   // users.next_payment_due (nullable)
	LastPaymentDate       *time.Time   // users.last_payment_date (nullable)
	RegistrationCompleted bool         // users.registration_completed
	EnrollmentCompleted   bool         // users.enrollment_completed
	SelectedRoomType      *string      // users.selected_room_type (nullable)
}

// User represents an application user record as stored in the `users`
// table. Role is either ADMIN (an operator who edits layouts and assigns
// seats) or MEMBER (a student who holds at most one seat).
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  FullName     – display name, denormalized onto assignments.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN or MEMBER.
//  IsActive     – whether the account is active.
//  Membership   – engine-owned seat and billing state.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	FullName     string    // users.full_name
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
	Membership   Membership
}

// RefreshToken models an entry in the `refresh_tokens` table. The plain
// token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
