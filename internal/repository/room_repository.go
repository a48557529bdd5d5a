package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PrabigyaAcharya64/mero-reading-room/internal/engine"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/layout"
	"github.com/PrabigyaAcharya64/mero-reading-room/internal/model"
)

// RoomRepo provides methods to create, read, lock and delete reading
// rooms together with their element collections. Layout writes always
// replace the full collection and bump the room version so concurrent
// administrators are detected instead of overwriting each other.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// DB exposes the underlying handle for callers that open transactions.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// Create inserts a new room and reads the row back so timestamps and the
// initial version are populated.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const qInsert = `INSERT INTO rooms (name, room_type, width, height) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, rm.Name, string(rm.RoomType), rm.Width, rm.Height)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	const qSelect = `SELECT id, name, room_type, width, height, is_locked, locked_at, version, created_at, updated_at
	                 FROM rooms WHERE id = ?`
	var lockedAt sql.NullTime
	if err := r.db.QueryRowContext(ctx, qSelect, rm.ID).
		Scan(&rm.ID, &rm.Name, &rm.RoomType, &rm.Width, &rm.Height, &rm.IsLocked, &lockedAt, &rm.Version, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		return err
	}
	if lockedAt.Valid {
		t := lockedAt.Time
		rm.LockedAt = &t
	}
	return nil
}

// GetByID retrieves a room with its full element collection ordered by
// element id. It returns ErrRoomNotFound when no row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, name, room_type, width, height, is_locked, locked_at, version, created_at, updated_at
	           FROM rooms WHERE id = ?`
	var rm model.Room
	var lockedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&rm.ID, &rm.Name, &rm.RoomType, &rm.Width, &rm.Height, &rm.IsLocked, &lockedAt, &rm.Version, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if lockedAt.Valid {
		t := lockedAt.Time
		rm.LockedAt = &t
	}

	const elemQ = `SELECT id, room_id, kind, label, x, y, width, height
	               FROM room_elements WHERE room_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, elemQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e model.Element
		if err := rows.Scan(&e.ID, &e.RoomID, &e.Kind, &e.Label, &e.X, &e.Y, &e.Width, &e.Height); err != nil {
			return nil, err
		}
		rm.Elements = append(rm.Elements, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rm, nil
}

// List returns all rooms ordered by id, each with its full element
// collection. Elements are fetched in one pass and grouped by room.
func (r *RoomRepo) List(ctx context.Context) ([]*model.Room, error) {
	const q = `SELECT id, name, room_type, width, height, is_locked, locked_at, version, created_at, updated_at
	           FROM rooms ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	byID := map[uint64]*model.Room{}
	for rows.Next() {
		rm := new(model.Room)
		var lockedAt sql.NullTime
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.RoomType, &rm.Width, &rm.Height, &rm.IsLocked, &lockedAt, &rm.Version, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		if lockedAt.Valid {
			t := lockedAt.Time
			rm.LockedAt = &t
		}
		out = append(out, rm)
		byID[rm.ID] = rm
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const elemQ = `SELECT id, room_id, kind, label, x, y, width, height
	               FROM room_elements ORDER BY room_id, id`
	elemRows, err := r.db.QueryContext(ctx, elemQ)
	if err != nil {
		return nil, err
	}
	defer elemRows.Close()
	for elemRows.Next() {
		var e model.Element
		if err := elemRows.Scan(&e.ID, &e.RoomID, &e.Kind, &e.Label, &e.X, &e.Y, &e.Width, &e.Height); err != nil {
			return nil, err
		}
		if rm, ok := byID[e.RoomID]; ok {
			rm.Elements = append(rm.Elements, e)
		}
	}
	if err := elemRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleLock flips the room's lock flag, stamping locked_at on entry to
// the locked state and clearing it on exit. The update is a CAS on the
// version the caller read; a concurrent write surfaces as
// engine.ErrVersionConflict.
func (r *RoomRepo) ToggleLock(ctx context.Context, id uint64) (*model.Room, error) {
	rm, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var q string
	if rm.IsLocked {
		q = `UPDATE rooms SET is_locked = FALSE, locked_at = NULL, version = version + 1, updated_at = CURRENT_TIMESTAMP
		     WHERE id = ? AND version = ?`
	} else {
		q = `UPDATE rooms SET is_locked = TRUE, locked_at = UTC_TIMESTAMP(), version = version + 1, updated_at = CURRENT_TIMESTAMP
		     WHERE id = ? AND version = ?`
	}
	res, err := r.db.ExecContext(ctx, q, id, rm.Version)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, engine.ErrVersionConflict
	}
	return r.GetByID(ctx, id)
}

// ReplaceElements swaps the room's entire element collection in one
// transaction: bump the room version (CAS, unlocked rooms only), delete
// the old rows, bulk insert the new ones. Surviving elements keep their
// ids, so seat assignments created before an unlock still point at the
// right seat after the layout is edited and relocked. When the guarded
// update matches nothing, the specific reason is resolved so callers can
// report not-found, locked and conflict distinctly.
func (r *RoomRepo) ReplaceElements(ctx context.Context, roomID, version uint64, elements []model.Element) error {
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

	const guard = `UPDATE rooms SET version = version + 1, updated_at = CURRENT_TIMESTAMP
	               WHERE id = ? AND version = ? AND is_locked = FALSE`
	res, err := tx.ExecContext(ctx, guard, roomID, version)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var isLocked bool
		err := tx.QueryRowContext(ctx, `SELECT is_locked FROM rooms WHERE id = ?`, roomID).Scan(&isLocked)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRoomNotFound
		case err != nil:
			return err
		case isLocked:
			return layout.ErrRoomLocked
		default:
			return engine.ErrVersionConflict
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM room_elements WHERE room_id = ?`, roomID); err != nil {
		return err
	}
	if len(elements) > 0 {
		query := `INSERT INTO room_elements (id, room_id, kind, label, x, y, width, height) VALUES `
		args := make([]interface{}, 0, len(elements)*8)
		for i, e := range elements {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?, ?, ?)"
			// nil id lets AUTO_INCREMENT pick one for new elements.
			var id interface{}
			if e.ID != 0 {
				id = e.ID
			}
			args = append(args, id, roomID, string(e.Kind), e.Label, e.X, e.Y, e.Width, e.Height)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a room. While the room still has seat assignments the
// delete is refused with ErrConflict unless force is set, in which case
// the assignments are cascaded and the affected members' seat and billing
// state is cleared in the same transaction. Registration and enrollment
// flags are left alone even on cascade.
func (r *RoomRepo) Delete(ctx context.Context, id uint64, force bool) error {
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

	var exists uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}

	rows, err := tx.QueryContext(ctx, `SELECT user_id FROM seat_assignments WHERE room_id = ?`, id)
	if err != nil {
		return err
	}
	var userIDs []uint64
	for rows.Next() {
		var uid uint64
		if scanErr := rows.Scan(&uid); scanErr != nil {
			rows.Close()
			return scanErr
		}
		userIDs = append(userIDs, uid)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	if len(userIDs) > 0 {
		if !force {
			return ErrConflict
		}
		const clear = `UPDATE users SET current_room_id = NULL, current_room_name = NULL,
		               current_seat_id = NULL, current_seat_label = NULL,
		               next_payment_due = NULL, last_payment_date = NULL, selected_room_type = NULL
		               WHERE id = ?`
		for _, uid := range userIDs {
			if _, err := tx.ExecContext(ctx, clear, uid); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM seat_assignments WHERE room_id = ?`, id); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM room_elements WHERE room_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
