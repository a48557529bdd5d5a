package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/engine"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
)

// AssignmentRepo persists seat assignments and implements engine.Store.
// The commit methods apply the assignment row and the user's membership
// state inside one transaction, guarded by a compare-and-swap on the room
// version, so a torn assign/unassign can never leave the record set
// half-written and concurrent administrators surface as conflicts.
type AssignmentRepo struct {
	db    *sql.DB
	rooms *RoomRepo
	users *UserRepo
}

// NewAssignmentRepo constructs an AssignmentRepo. The room and user
// repositories serve the engine's precondition reads.
func NewAssignmentRepo(db *sql.DB, rooms *RoomRepo, users *UserRepo) *AssignmentRepo {
	return &AssignmentRepo{db: db, rooms: rooms, users: users}
}

const assignmentColumns = `id, user_id, user_name, room_id, room_name, seat_id, seat_label, assigned_at, assigned_by`

// RoomByID satisfies engine.Store. A missing room is reported as
// (nil, nil); the engine turns that into its own not-found error.
func (r *AssignmentRepo) RoomByID(ctx context.Context, roomID uint64) (*model.Room, error) {
	rm, err := r.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rm, nil
}

// UserByID satisfies engine.Store. A missing user is reported as
// (nil, nil), mirroring RoomByID.
func (r *AssignmentRepo) UserByID(ctx context.Context, userID uint64) (*model.User, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *AssignmentRepo) queryOne(ctx context.Context, q string, arg uint64) (*model.SeatAssignment, error) {
	var a model.SeatAssignment
	err := r.db.QueryRowContext(ctx, q, arg).
		Scan(&a.ID, &a.UserID, &a.UserName, &a.RoomID, &a.RoomName, &a.SeatID, &a.SeatLabel, &a.AssignedAt, &a.AssignedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// AssignmentByID returns an assignment by primary key, nil when absent.
func (r *AssignmentRepo) AssignmentByID(ctx context.Context, id uint64) (*model.SeatAssignment, error) {
	return r.queryOne(ctx, `SELECT `+assignmentColumns+` FROM seat_assignments WHERE id = ?`, id)
}

// AssignmentBySeat returns the assignment holding a seat, nil when free.
func (r *AssignmentRepo) AssignmentBySeat(ctx context.Context, seatID uint64) (*model.SeatAssignment, error) {
	return r.queryOne(ctx, `SELECT `+assignmentColumns+` FROM seat_assignments WHERE seat_id = ?`, seatID)
}

// AssignmentByUser returns the assignment held by a user, nil when the
// user is unseated.
func (r *AssignmentRepo) AssignmentByUser(ctx context.Context, userID uint64) (*model.SeatAssignment, error) {
	return r.queryOne(ctx, `SELECT `+assignmentColumns+` FROM seat_assignments WHERE user_id = ?`, userID)
}

// AssignmentsByRoom lists all assignments in a room ordered by seat label.
func (r *AssignmentRepo) AssignmentsByRoom(ctx context.Context, roomID uint64) ([]model.SeatAssignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM seat_assignments WHERE room_id = ? ORDER BY seat_label`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeatAssignment
	for rows.Next() {
		var a model.SeatAssignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.UserName, &a.RoomID, &a.RoomName, &a.SeatID, &a.SeatLabel, &a.AssignedAt, &a.AssignedBy); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CommitAssign applies one assignment atomically: CAS the room version,
// delete the superseded assignment on a move, insert the new row and
// write the member's seat/billing state. The unique indexes on seat_id
// and user_id back the engine's precondition check, so a racing insert
// that slips past the stale read fails here instead of double-seating.
func (r *AssignmentRepo) CommitAssign(ctx context.Context, c engine.AssignCommit) (*model.SeatAssignment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := casRoomVersion(ctx, tx, c.RoomID, c.RoomVersion); err != nil {
		return nil, err
	}

	if c.DeleteAssignmentID != 0 {
		res, err := tx.ExecContext(ctx, `DELETE FROM seat_assignments WHERE id = ?`, c.DeleteAssignmentID)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// The old assignment vanished under us; treat as a conflict
			// so the operator re-reads before retrying.
			return nil, engine.ErrVersionConflict
		}
	}

	a := c.Assignment
	const ins = `INSERT INTO seat_assignments (user_id, user_name, room_id, room_name, seat_id, seat_label, assigned_at, assigned_by)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, a.UserID, a.UserName, a.RoomID, a.RoomName, a.SeatID, a.SeatLabel,
		a.AssignedAt.UTC().Format("2006-01-02 15:04:05"), a.AssignedBy)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, engine.ErrSeatOccupied
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	a.ID = uint64(id)

	m := c.Membership
	const upd = `UPDATE users SET current_room_id = ?, current_room_name = ?, current_seat_id = ?, current_seat_label = ?,
	             next_payment_due = ?, last_payment_date = ?, registration_completed = ?, enrollment_completed = ?,
	             selected_room_type = ?, updated_at = CURRENT_TIMESTAMP
	             WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd,
		m.CurrentSeat.RoomID, m.CurrentSeat.RoomName, m.CurrentSeat.SeatID, m.CurrentSeat.SeatLabel,
		m.NextPaymentDue, m.LastPaymentDate, m.RegistrationCompleted, m.EnrollmentCompleted,
		m.SelectedRoomType, c.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &a, nil
}

// CommitUnassign deletes the assignment and clears the member's seat and
// billing columns in one transaction. registration_completed and
// enrollment_completed are deliberately not part of the statement:
// enrollment is a lifetime grant, independent of current seating.
func (r *AssignmentRepo) CommitUnassign(ctx context.Context, c engine.UnassignCommit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := casRoomVersion(ctx, tx, c.RoomID, c.RoomVersion); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM seat_assignments WHERE id = ?`, c.AssignmentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrAssignmentNotFound
	}

	const upd = `UPDATE users SET current_room_id = NULL, current_room_name = NULL,
	             current_seat_id = NULL, current_seat_label = NULL,
	             next_payment_due = NULL, last_payment_date = NULL, selected_room_type = NULL,
	             updated_at = CURRENT_TIMESTAMP
	             WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, c.UserID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// casRoomVersion bumps the room version iff it still matches what the
// engine observed when it checked preconditions.
func casRoomVersion(ctx context.Context, tx *sql.Tx, roomID, version uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE rooms SET version = version + 1 WHERE id = ? AND version = ?`, roomID, version)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrVersionConflict
	}
	return nil
}
